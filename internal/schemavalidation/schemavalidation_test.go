package schemavalidation

import "testing"

func TestValidatePolicyAcceptsPartialOverride(t *testing.T) {
	err := ValidatePolicy([]byte(`{"verdict_deceptive_score": 95}`))
	if err != nil {
		t.Fatalf("ValidatePolicy rejected a valid partial override: %v", err)
	}
}

func TestValidatePolicyRejectsUnknownField(t *testing.T) {
	err := ValidatePolicy([]byte(`{"not_a_real_field": 1}`))
	if err == nil {
		t.Fatal("ValidatePolicy accepted an unknown field")
	}
}

func TestValidatePolicyRejectsMalformedJSON(t *testing.T) {
	if err := ValidatePolicy([]byte(`{not json`)); err == nil {
		t.Fatal("ValidatePolicy accepted malformed JSON")
	}
}

func TestValidateReportAcceptsWellFormedReport(t *testing.T) {
	report := `{
		"verdict": "Clean",
		"score": 0,
		"raw_score": 0,
		"environmental_factor": 1.0,
		"evidence": [],
		"contradictions": []
	}`
	if err := ValidateReport([]byte(report)); err != nil {
		t.Fatalf("ValidateReport rejected a well-formed report: %v", err)
	}
}

func TestValidateReportRejectsBadVerdictEnum(t *testing.T) {
	report := `{
		"verdict": "Maybe",
		"score": 0,
		"raw_score": 0,
		"environmental_factor": 1.0,
		"evidence": [],
		"contradictions": []
	}`
	if err := ValidateReport([]byte(report)); err == nil {
		t.Fatal("ValidateReport accepted an out-of-enum verdict")
	}
}
