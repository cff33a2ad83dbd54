package posture

import (
	"image"
	"math"
)

// Distance returns the Euclidean distance in pixels between two points.
func Distance(p1, p2 image.Point) float64 {
	dx := float64(p2.X - p1.X)
	dy := float64(p2.Y - p1.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// InclinationAngle returns the angle, in whole degrees, between the vector
// from p1 to p2 and the vertical axis. Both deltas are taken as absolute
// values, so the result is direction-agnostic and always lies in [0, 90]:
// a purely vertical vector yields 0, a purely horizontal one 90.
func InclinationAngle(p1, p2 image.Point) int {
	angle, _ := inclinationAngle(p1, p2)
	return angle
}

// inclinationAngle reports ok=false when the computation degenerates to a
// non-finite value, leaving the caller to decide how to log it.
func inclinationAngle(p1, p2 image.Point) (angle int, ok bool) {
	dx := math.Abs(float64(p2.X - p1.X))
	dy := math.Abs(float64(p2.Y - p1.Y))

	theta := math.Atan2(dx, dy) * 180 / math.Pi
	if math.IsNaN(theta) || math.IsInf(theta, 0) {
		return 0, false
	}
	return int(theta), true
}
