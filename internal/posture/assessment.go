package posture

import (
	"encoding/json"
	"image"
)

// Metrics holds the per-frame measurements derived from the landmark set.
// Angles are whole degrees in [0, 90]; offsets and ratios are non-negative.
type Metrics struct {
	ShoulderOffset   int
	ShoulderDistance float64
	NeckInclination  int
	TorsoInclination int
	ForwardHeadRatio float64
}

// Judgments are the four boolean sub-assessments plus their conjunction.
type Judgments struct {
	Aligned          bool
	NeckGood         bool
	TorsoGood        bool
	HeadPositionGood bool
	GoodPosture      bool
}

// Labels are the human-readable verdicts shown to the user.
type Labels struct {
	ShoulderBalance string `json:"shoulder_balance"`
	NeckPosition    string `json:"neck_position"`
	TorsoPosition   string `json:"torso_position"`
	Overall         string `json:"overall"`
}

// Points holds the pixel coordinates the overlay renderer draws with.
type Points struct {
	MidShoulder   image.Point
	MidHip        image.Point
	MidEar        image.Point
	LeftShoulder  image.Point
	RightShoulder image.Point
	LeftEar       image.Point
	RightEar      image.Point
	LeftHip       image.Point
	RightHip      image.Point
}

// MarshalJSON emits each landmark as an [x, y] pair, the shape the web
// clients index into.
func (p Points) MarshalJSON() ([]byte, error) {
	pair := func(pt image.Point) [2]int { return [2]int{pt.X, pt.Y} }
	return json.Marshal(struct {
		MidShoulder   [2]int `json:"mid_shoulder"`
		MidHip        [2]int `json:"mid_hip"`
		MidEar        [2]int `json:"mid_ear"`
		LeftShoulder  [2]int `json:"l_shldr"`
		RightShoulder [2]int `json:"r_shldr"`
		LeftEar       [2]int `json:"l_ear"`
		RightEar      [2]int `json:"r_ear"`
		LeftHip       [2]int `json:"l_hip"`
		RightHip      [2]int `json:"r_hip"`
	}{
		MidShoulder:   pair(p.MidShoulder),
		MidHip:        pair(p.MidHip),
		MidEar:        pair(p.MidEar),
		LeftShoulder:  pair(p.LeftShoulder),
		RightShoulder: pair(p.RightShoulder),
		LeftEar:       pair(p.LeftEar),
		RightEar:      pair(p.RightEar),
		LeftHip:       pair(p.LeftHip),
		RightHip:      pair(p.RightHip),
	})
}

// Result is a completed posture assessment for a frame with usable landmarks.
type Result struct {
	Metrics    Metrics
	Judgments  Judgments
	Labels     Labels
	Visibility map[string]float64
	Points     Points
}

// Unavailable reports that no assessment could be made for the frame. The
// visibility map is attached when landmarks were detected but too faint to
// classify, so the client can show "move into frame" guidance.
type Unavailable struct {
	Message    string
	Visibility map[string]float64
}

// Assessment is the analyzer's outcome for one frame. Exactly one of Result
// and Unavailable is non-nil.
type Assessment struct {
	Result      *Result
	Unavailable *Unavailable
}

// HasLandmarks reports whether the frame produced a full assessment.
func (a Assessment) HasLandmarks() bool {
	return a.Result != nil
}

// MarshalJSON emits the assessment in the shape the web clients consume.
func (a Assessment) MarshalJSON() ([]byte, error) {
	if a.Result == nil {
		msg := ""
		var visibility map[string]float64
		if a.Unavailable != nil {
			msg = a.Unavailable.Message
			visibility = a.Unavailable.Visibility
		}
		return json.Marshal(struct {
			HasLandmarks bool               `json:"has_landmarks"`
			Message      string             `json:"message"`
			Visibility   map[string]float64 `json:"visibility,omitempty"`
		}{
			HasLandmarks: false,
			Message:      msg,
			Visibility:   visibility,
		})
	}

	r := a.Result
	return json.Marshal(struct {
		HasLandmarks       bool               `json:"has_landmarks"`
		ShoulderOffset     int                `json:"shoulder_offset"`
		ShoulderDistance   float64            `json:"shoulder_distance"`
		NeckInclination    int                `json:"neck_inclination"`
		TorsoInclination   int                `json:"torso_inclination"`
		ForwardHeadRatio   float64            `json:"forward_head_ratio"`
		IsAligned          bool               `json:"is_aligned"`
		IsNeckGood         bool               `json:"is_neck_good"`
		IsTorsoGood        bool               `json:"is_torso_good"`
		IsHeadPositionGood bool               `json:"is_head_position_good"`
		IsGoodPosture      bool               `json:"is_good_posture"`
		PostureAssessment  Labels             `json:"posture_assessment"`
		Visibility         map[string]float64 `json:"visibility"`
		Landmarks          Points             `json:"landmarks"`
	}{
		HasLandmarks:       true,
		ShoulderOffset:     r.Metrics.ShoulderOffset,
		ShoulderDistance:   r.Metrics.ShoulderDistance,
		NeckInclination:    r.Metrics.NeckInclination,
		TorsoInclination:   r.Metrics.TorsoInclination,
		ForwardHeadRatio:   r.Metrics.ForwardHeadRatio,
		IsAligned:          r.Judgments.Aligned,
		IsNeckGood:         r.Judgments.NeckGood,
		IsTorsoGood:        r.Judgments.TorsoGood,
		IsHeadPositionGood: r.Judgments.HeadPositionGood,
		IsGoodPosture:      r.Judgments.GoodPosture,
		PostureAssessment:  r.Labels,
		Visibility:         r.Visibility,
		Landmarks:          r.Points,
	})
}
