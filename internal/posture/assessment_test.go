package posture

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestAssessment_MarshalJSON_Unavailable(t *testing.T) {
	assessment := Assessment{Unavailable: &Unavailable{
		Message: "No pose landmarks detected.",
	}}

	data, err := json.Marshal(assessment)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if decoded["has_landmarks"] != false {
		t.Error("has_landmarks should be false")
	}
	if decoded["message"] != "No pose landmarks detected." {
		t.Errorf("unexpected message: %v", decoded["message"])
	}
	if _, ok := decoded["visibility"]; ok {
		t.Error("visibility should be omitted when empty")
	}
}

func TestAssessment_MarshalJSON_UnavailableWithVisibility(t *testing.T) {
	assessment := Assessment{Unavailable: &Unavailable{
		Message:    "Key landmarks not visible enough",
		Visibility: map[string]float64{"l_shoulder": 0.4, "r_shoulder": 0.3},
	}}

	data, err := json.Marshal(assessment)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	jsonStr := string(data)
	if !strings.Contains(jsonStr, `"visibility"`) {
		t.Errorf("visibility map should be present: %s", jsonStr)
	}
	if !strings.Contains(jsonStr, `"l_shoulder":0.4`) {
		t.Errorf("expected l_shoulder entry: %s", jsonStr)
	}
}

func TestAssessment_MarshalJSON_Result(t *testing.T) {
	analyzer := NewAnalyzer(DefaultThresholds(), nil)
	assessment := analyzer.Analyze(goodPostureSet(), frameWidth, frameHeight)

	data, err := json.Marshal(assessment)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if decoded["has_landmarks"] != true {
		t.Error("has_landmarks should be true")
	}
	if decoded["is_good_posture"] != true {
		t.Error("is_good_posture should be true")
	}

	for _, key := range []string{
		"shoulder_offset", "shoulder_distance", "neck_inclination",
		"torso_inclination", "forward_head_ratio",
		"is_aligned", "is_neck_good", "is_torso_good", "is_head_position_good",
		"posture_assessment", "visibility", "landmarks",
	} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %q in %s", key, string(data))
		}
	}

	labels, ok := decoded["posture_assessment"].(map[string]interface{})
	if !ok {
		t.Fatalf("posture_assessment is not an object: %v", decoded["posture_assessment"])
	}
	if labels["overall"] != "Good" {
		t.Errorf("overall label = %v, expected Good", labels["overall"])
	}
}

func TestPoints_MarshalJSON_PairShape(t *testing.T) {
	analyzer := NewAnalyzer(DefaultThresholds(), nil)
	assessment := analyzer.Analyze(goodPostureSet(), frameWidth, frameHeight)

	data, err := json.Marshal(assessment)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded struct {
		Landmarks map[string][]int `json:"landmarks"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	for _, key := range []string{
		"mid_shoulder", "mid_hip", "mid_ear",
		"l_shldr", "r_shldr", "l_ear", "r_ear", "l_hip", "r_hip",
	} {
		pair, ok := decoded.Landmarks[key]
		if !ok {
			t.Errorf("missing landmark %q in %s", key, string(data))
			continue
		}
		if len(pair) != 2 {
			t.Errorf("landmark %q = %v, expected an [x, y] pair", key, pair)
		}
	}

	if got := decoded.Landmarks["mid_shoulder"]; got[0] != 120 || got[1] != 200 {
		t.Errorf("mid_shoulder = %v, expected [120 200]", got)
	}
	if got := decoded.Landmarks["l_shldr"]; got[0] != 100 || got[1] != 200 {
		t.Errorf("l_shldr = %v, expected [100 200]", got)
	}
}
