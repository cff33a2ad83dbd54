package posture

// HealthCondition describes a posture-related health risk shown on the
// health information page.
type HealthCondition struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	RiskFactors []string `json:"risk_factors"`
	Prevention  string   `json:"prevention"`
}

// HealthConditions returns the static health reference table served to the
// web client. The content is informational only and never computed.
func HealthConditions() map[string]HealthCondition {
	return map[string]HealthCondition{
		"musculoskeletal": {
			Name:        "Musculoskeletal Issues",
			Description: "Poor posture can lead to muscle imbalances, joint stress, and chronic pain conditions.",
			RiskFactors: []string{"Forward head posture", "Rounded shoulders", "Excessive slouching"},
			Prevention:  "Regular posture checks, ergonomic workspace, and strengthening exercises.",
		},
		"neurological": {
			Name:        "Neurological Impact",
			Description: "Prolonged poor posture may increase pressure on nerves, contributing to conditions like cervical radiculopathy.",
			RiskFactors: []string{"Neck compression", "Spinal misalignment", "Nerve impingement"},
			Prevention:  "Proper alignment, regular breaks, and posture-correcting exercises.",
		},
		"respiratory": {
			Name:        "Respiratory Function",
			Description: "Slouching compresses the lungs and can reduce oxygen intake by up to 30%, affecting energy levels and cognitive function.",
			RiskFactors: []string{"Slouched sitting", "Compressed chest cavity", "Limited lung expansion"},
			Prevention:  "Open chest posture, deep breathing exercises, and regular posture correction.",
		},
	}
}
