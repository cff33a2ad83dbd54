package posture

import (
	"fmt"
	"image"
)

// visibilityThreshold is the minimum confidence a gating landmark needs
// before a frame is classified.
const visibilityThreshold = 0.5

// requiredLandmarks must all be present in a frame's landmark set before any
// metric is computed.
var requiredLandmarks = []string{
	Nose, LeftEye, RightEye,
	LeftEar, RightEar,
	LeftShoulder, RightShoulder,
	LeftHip, RightHip,
}

// Logger is the subset of the application logger the analyzer reports
// through.
type Logger interface {
	Warning(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type nopLogger struct{}

func (nopLogger) Warning(string, ...interface{}) {}
func (nopLogger) Error(string, ...interface{})   {}

// Analyzer converts a frame's landmark set into a posture assessment. It
// holds no per-frame state; one Analyzer can serve any number of streams
// concurrently.
type Analyzer struct {
	thresholds Thresholds
	logger     Logger
}

// NewAnalyzer creates an Analyzer with the given limits. A nil logger
// disables analyzer logging.
func NewAnalyzer(thresholds Thresholds, logger Logger) *Analyzer {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Analyzer{
		thresholds: thresholds,
		logger:     logger,
	}
}

// Thresholds returns the limits this analyzer applies.
func (a *Analyzer) Thresholds() Thresholds {
	return a.thresholds
}

// Analyze classifies the posture captured in one frame. Missing or faint
// landmarks never produce an error: the result degrades to its Unavailable
// variant so a live stream keeps running frame to frame.
func (a *Analyzer) Analyze(set LandmarkSet, frameWidth, frameHeight int) Assessment {
	if len(set) == 0 {
		return Assessment{Unavailable: &Unavailable{
			Message: "No pose landmarks detected.",
		}}
	}

	for _, name := range requiredLandmarks {
		if _, ok := set[name]; !ok {
			a.logger.Error("Error processing landmarks: missing %s", name)
			return Assessment{Unavailable: &Unavailable{
				Message: fmt.Sprintf("Error processing landmarks: missing %s", name),
			}}
		}
	}

	lShoulder := set[LeftShoulder]
	rShoulder := set[RightShoulder]
	lEar := set[LeftEar]
	rEar := set[RightEar]
	lHip := set[LeftHip]
	rHip := set[RightHip]

	visibility := map[string]float64{
		"l_shoulder": lShoulder.Visibility,
		"r_shoulder": rShoulder.Visibility,
		"l_ear":      lEar.Visibility,
		"r_ear":      rEar.Visibility,
		"l_hip":      lHip.Visibility,
		"r_hip":      rHip.Visibility,
	}

	// Gate on the landmarks the metrics actually hang off: both shoulders
	// and the left hip.
	if lShoulder.Visibility < visibilityThreshold ||
		rShoulder.Visibility < visibilityThreshold ||
		lHip.Visibility < visibilityThreshold {
		return Assessment{Unavailable: &Unavailable{
			Message:    "Key landmarks not visible enough",
			Visibility: visibility,
		}}
	}

	pts := Points{
		LeftShoulder:  project(lShoulder, frameWidth, frameHeight),
		RightShoulder: project(rShoulder, frameWidth, frameHeight),
		LeftEar:       project(lEar, frameWidth, frameHeight),
		RightEar:      project(rEar, frameWidth, frameHeight),
		LeftHip:       project(lHip, frameWidth, frameHeight),
		RightHip:      project(rHip, frameWidth, frameHeight),
	}
	pts.MidShoulder = midpoint(pts.LeftShoulder, pts.RightShoulder)
	pts.MidHip = midpoint(pts.LeftHip, pts.RightHip)
	pts.MidEar = midpoint(pts.LeftEar, pts.RightEar)

	shoulderOffset := abs(pts.LeftShoulder.Y - pts.RightShoulder.Y)
	shoulderDistance := Distance(pts.LeftShoulder, pts.RightShoulder)

	neckInclination, neckOK := inclinationAngle(pts.MidShoulder, pts.MidEar)
	if !neckOK {
		a.logger.Warning("Degenerate neck inclination between %v and %v", pts.MidShoulder, pts.MidEar)
	}
	torsoInclination, torsoOK := inclinationAngle(pts.MidHip, pts.MidShoulder)
	if !torsoOK {
		a.logger.Warning("Degenerate torso inclination between %v and %v", pts.MidHip, pts.MidShoulder)
	}

	// Only an ear ahead of the shoulder line counts as forward head; behind
	// clamps to zero. A zero shoulder distance is a degenerate frame, not an
	// error, so the ratio falls back to zero as well.
	forwardHeadDistance := 0
	if pts.MidEar.X > pts.MidShoulder.X {
		forwardHeadDistance = pts.MidEar.X - pts.MidShoulder.X
	}
	forwardHeadRatio := 0.0
	if shoulderDistance > 0 {
		forwardHeadRatio = float64(forwardHeadDistance) / shoulderDistance
	}

	judgments := Judgments{
		Aligned:          shoulderOffset < a.thresholds.ShoulderOffsetPx,
		NeckGood:         neckInclination < a.thresholds.NeckAngleDeg,
		TorsoGood:        torsoInclination < a.thresholds.TorsoAngleDeg,
		HeadPositionGood: forwardHeadRatio < a.thresholds.ForwardHeadRatio,
	}
	judgments.GoodPosture = judgments.Aligned && judgments.NeckGood &&
		judgments.TorsoGood && judgments.HeadPositionGood

	return Assessment{Result: &Result{
		Metrics: Metrics{
			ShoulderOffset:   shoulderOffset,
			ShoulderDistance: shoulderDistance,
			NeckInclination:  neckInclination,
			TorsoInclination: torsoInclination,
			ForwardHeadRatio: forwardHeadRatio,
		},
		Judgments: judgments,
		Labels: Labels{
			ShoulderBalance: label(judgments.Aligned, "Poor"),
			NeckPosition:    label(judgments.NeckGood, "Forward head posture"),
			TorsoPosition:   label(judgments.TorsoGood, "Slouching"),
			Overall:         label(judgments.GoodPosture, "Needs improvement"),
		},
		Visibility: visibility,
		Points:     pts,
	}}
}

// project converts a normalized landmark position to pixel coordinates,
// truncating toward zero.
func project(lm Landmark, frameWidth, frameHeight int) image.Point {
	return image.Pt(
		int(lm.X*float64(frameWidth)),
		int(lm.Y*float64(frameHeight)),
	)
}

func midpoint(p1, p2 image.Point) image.Point {
	return image.Pt((p1.X+p2.X)/2, (p1.Y+p2.Y)/2)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func label(good bool, bad string) string {
	if good {
		return "Good"
	}
	return bad
}
