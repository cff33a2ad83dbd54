package posture

// Thresholds holds the posture limits the Analyzer applies. Comparisons are
// strict less-than, so a measurement equal to its limit counts as failing.
// The JSON field names match what the web client expects from the
// thresholds endpoint.
type Thresholds struct {
	ShoulderOffsetPx int     `json:"alignment_threshold"`
	NeckAngleDeg     int     `json:"neck_angle_threshold"`
	TorsoAngleDeg    int     `json:"torso_angle_threshold"`
	ForwardHeadRatio float64 `json:"forward_head_threshold"`
}

// DefaultThresholds returns the standard ergonomic limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ShoulderOffsetPx: 30,
		NeckAngleDeg:     35,
		TorsoAngleDeg:    10,
		ForwardHeadRatio: 0.2,
	}
}
