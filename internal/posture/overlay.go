package posture

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

var (
	goodColor      = color.RGBA{R: 0, G: 255, B: 0}   // green
	badColor       = color.RGBA{R: 255, G: 0, B: 0}   // red
	referenceColor = color.RGBA{R: 255, G: 255, B: 0} // yellow vertical baseline
)

// referenceLineLength is the height in pixels of the true-vertical baseline
// drawn up from the shoulder midpoint.
const referenceLineLength = 150

// DrawAnnotations draws the assessment overlay onto frame in place. Every
// element uses one color picked from the overall verdict; the vertical
// reference line keeps its own fixed color. Frames without a usable
// assessment are left untouched.
func DrawAnnotations(frame *gocv.Mat, assessment Assessment) {
	if !assessment.HasLandmarks() {
		return
	}

	r := assessment.Result
	col := badColor
	if r.Judgments.GoodPosture {
		col = goodColor
	}

	pts := r.Points
	gocv.Line(frame, pts.MidShoulder, pts.MidEar, col, 2)
	gocv.Line(frame, pts.MidShoulder, pts.MidHip, col, 2)
	gocv.Line(frame, pts.MidShoulder,
		image.Pt(pts.MidShoulder.X, pts.MidShoulder.Y-referenceLineLength),
		referenceColor, 2)
	gocv.Line(frame, pts.LeftShoulder, pts.RightShoulder, col, 3)

	neckText, torsoText, overallText := annotationTexts(r)
	gocv.PutText(frame, neckText,
		image.Pt(10, 30), gocv.FontHersheySimplex, 0.6, col, 2)
	gocv.PutText(frame, torsoText,
		image.Pt(10, 60), gocv.FontHersheySimplex, 0.6, col, 2)
	gocv.PutText(frame, overallText,
		image.Pt(10, frame.Rows()-20), gocv.FontHersheySimplex, 0.6, col, 2)
}

// annotationTexts builds the three on-frame captions. Angles carry the degree
// sign the web client renders alongside the live metrics.
func annotationTexts(r *Result) (neck, torso, overall string) {
	return fmt.Sprintf("Neck: %d°", r.Metrics.NeckInclination),
		fmt.Sprintf("Torso: %d°", r.Metrics.TorsoInclination),
		fmt.Sprintf("Posture: %s", r.Labels.Overall)
}
