package oracle

import (
	"errors"
	"strings"
	"testing"

	"google.golang.org/genai"
)

func TestBuildTriagePrompt_AllFields(t *testing.T) {
	input := UserInput{
		Symptoms:           "sharp knee pain",
		Duration:           "3 days",
		Severity:           6,
		AgeGroup:           "Adult (18-64)",
		Onset:              "Sudden",
		ExistingConditions: "arthritis",
	}

	prompt := buildTriagePrompt(input)
	for _, want := range []string{
		"Symptoms: sharp knee pain",
		"Duration: 3 days",
		"Onset: Sudden",
		"Severity: 6/10",
		"Age Group: Adult (18-64)",
		"Existing Conditions: arthritis",
		"Determine the urgency and the correct medical specialty.",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildTriagePrompt_AbsentFieldsSpelledOut(t *testing.T) {
	prompt := buildTriagePrompt(UserInput{Symptoms: "feeling a bit off"})

	for _, want := range []string{
		"Duration: Not specified",
		"Onset: Not specified",
		"Severity: Not specified",
		"Age Group: Not specified",
		"Existing Conditions: None reported",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildProviderQuery(t *testing.T) {
	q := buildProviderQuery("Cardiologist", "chest tightness")
	if !strings.Contains(q, "Cardiologist") || !strings.Contains(q, "chest tightness") {
		t.Errorf("query missing specialty or symptoms: %s", q)
	}
}

func TestParseAnalysis_Valid(t *testing.T) {
	text := `{
		"urgency": "MODERATE",
		"specialty": "Dermatologist",
		"explanation": "A Dermatologist is typically consulted for persistent rashes.",
		"nextSteps": ["Keep the area dry", "Note any spreading"],
		"isEmergency": false,
		"isUnsure": false
	}`

	result, err := parseAnalysis(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Urgency != UrgencyModerate {
		t.Errorf("expected MODERATE, got %s", result.Urgency)
	}
	if result.Specialty != "Dermatologist" {
		t.Errorf("expected Dermatologist, got %s", result.Specialty)
	}
	if len(result.NextSteps) != 2 {
		t.Errorf("expected 2 next steps, got %d", len(result.NextSteps))
	}
	if result.EmergencyDetected() {
		t.Error("moderate result must not route to emergency")
	}
}

func TestParseAnalysis_NotJSON(t *testing.T) {
	_, err := parseAnalysis("I think you should see a cardiologist.")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestParseAnalysis_MissingKey(t *testing.T) {
	text := `{
		"urgency": "LOW",
		"specialty": "General Physician",
		"explanation": "x",
		"nextSteps": [],
		"isEmergency": false
	}`
	_, err := parseAnalysis(text)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse for missing isUnsure, got %v", err)
	}
}

func TestParseAnalysis_UnknownUrgency(t *testing.T) {
	text := `{
		"urgency": "CRITICAL",
		"specialty": "General Physician",
		"explanation": "x",
		"nextSteps": [],
		"isEmergency": false,
		"isUnsure": false
	}`
	_, err := parseAnalysis(text)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse for unknown urgency, got %v", err)
	}
}

func TestParseAnalysis_EmptySpecialty(t *testing.T) {
	text := `{
		"urgency": "LOW",
		"specialty": "",
		"explanation": "x",
		"nextSteps": [],
		"isEmergency": false,
		"isUnsure": true
	}`
	_, err := parseAnalysis(text)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse for empty specialty, got %v", err)
	}
}

func TestEmergencyDetected(t *testing.T) {
	cases := []struct {
		name   string
		result AnalysisResult
		want   bool
	}{
		{"flag set", AnalysisResult{Urgency: UrgencyHigh, IsEmergency: true}, true},
		{"urgency emergency", AnalysisResult{Urgency: UrgencyEmergency}, true},
		{"both", AnalysisResult{Urgency: UrgencyEmergency, IsEmergency: true}, true},
		{"neither", AnalysisResult{Urgency: UrgencyHigh}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.result.EmergencyDetected(); got != tc.want {
				t.Errorf("EmergencyDetected() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLocationBias_NilCoordinates(t *testing.T) {
	if locationBias(nil) != nil {
		t.Error("absent coordinates must omit the tool config entirely")
	}
}

func TestLocationBias_WithCoordinates(t *testing.T) {
	tc := locationBias(&Coordinates{Lat: 40.0, Lng: -73.0})
	if tc == nil || tc.RetrievalConfig == nil || tc.RetrievalConfig.LatLng == nil {
		t.Fatal("expected populated retrieval config")
	}
	lat, lng := tc.RetrievalConfig.LatLng.Latitude, tc.RetrievalConfig.LatLng.Longitude
	if lat == nil || lng == nil {
		t.Fatal("expected latitude and longitude to be set")
	}
	if *lat != 40.0 || *lng != -73.0 {
		t.Errorf("coordinates not passed through: lat=%v lng=%v", *lat, *lng)
	}
}

func TestFragmentsFrom_MapsAndWeb(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			GroundingMetadata: &genai.GroundingMetadata{
				GroundingChunks: []*genai.GroundingChunk{
					{Maps: &genai.GroundingChunkMaps{Title: "Clinic A", URI: "https://maps.example/a"}},
					{Web: &genai.GroundingChunkWeb{Title: "Clinic B", URI: "https://web.example/b"}},
				},
			},
		}},
	}

	frags := fragmentsFrom(resp)
	if len(frags) != 2 {
		t.Fatalf("expected 2 fragments, got %d", len(frags))
	}
	if frags[0].Maps == nil || frags[0].Maps.URI != "https://maps.example/a" {
		t.Errorf("maps fragment not extracted: %+v", frags[0])
	}
	if frags[1].Web == nil || frags[1].Web.Title != "Clinic B" {
		t.Errorf("web fragment not extracted: %+v", frags[1])
	}
}

func TestFragmentsFrom_NoCandidates(t *testing.T) {
	if frags := fragmentsFrom(&genai.GenerateContentResponse{}); frags != nil {
		t.Errorf("expected nil fragments, got %+v", frags)
	}
	if frags := fragmentsFrom(nil); frags != nil {
		t.Errorf("expected nil fragments for nil response, got %+v", frags)
	}
}
