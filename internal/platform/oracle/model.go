package oracle

import (
	"encoding/json"
	"fmt"

	"github.com/medmatch/medmatch/internal/platform/grounding"
)

// Urgency classifies how quickly a user should seek care.
type Urgency string

const (
	UrgencyLow       Urgency = "LOW"
	UrgencyModerate  Urgency = "MODERATE"
	UrgencyHigh      Urgency = "HIGH"
	UrgencyEmergency Urgency = "EMERGENCY"
)

// Valid reports whether u is one of the four defined urgency levels.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyModerate, UrgencyHigh, UrgencyEmergency:
		return true
	}
	return false
}

// UserInput is one symptom description submitted for classification.
// Only Symptoms is required; absent optional fields are rendered as
// "Not specified" / "None reported" in the prompt.
type UserInput struct {
	Symptoms           string `json:"symptoms"`
	Duration           string `json:"duration,omitempty"`
	Severity           int    `json:"severity,omitempty"`
	AgeGroup           string `json:"ageGroup,omitempty"`
	Onset              string `json:"onset,omitempty"`
	ExistingConditions string `json:"existingConditions,omitempty"`
}

// AnalysisResult is the classification returned by the reasoning service.
// It is produced exclusively by the external model; this package validates
// the shape at the boundary and otherwise treats the content as opaque.
type AnalysisResult struct {
	Urgency           Urgency  `json:"urgency"`
	Specialty         string   `json:"specialty"`
	Explanation       string   `json:"explanation"`
	NextSteps         []string `json:"nextSteps"`
	IsEmergency       bool     `json:"isEmergency"`
	IsUnsure          bool     `json:"isUnsure"`
	FollowUpQuestions []string `json:"followUpQuestions,omitempty"`
}

// EmergencyDetected reports whether the result must route to the emergency
// flow: either the explicit flag or an EMERGENCY urgency forces it.
func (r *AnalysisResult) EmergencyDetected() bool {
	return r.IsEmergency || r.Urgency == UrgencyEmergency
}

// Coordinates is an optional location bias for discovery queries. A nil
// *Coordinates means the query is geography-agnostic; zero values are never
// used as a stand-in for "absent".
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Discovery is the outcome of one provider-discovery query: the service's
// narrative text plus the normalized source list.
type Discovery struct {
	Text    string             `json:"text"`
	Sources []grounding.Source `json:"sources"`
}

// requiredAnalysisKeys are the keys the response schema marks mandatory.
var requiredAnalysisKeys = []string{
	"urgency", "specialty", "explanation", "nextSteps", "isEmergency", "isUnsure",
}

// parseAnalysis validates and decodes the model's JSON reply. Schema
// violations fail fast with ErrMalformedResponse rather than propagating a
// partial result.
func parseAnalysis(text string) (*AnalysisResult, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	for _, key := range requiredAnalysisKeys {
		if _, ok := raw[key]; !ok {
			return nil, fmt.Errorf("%w: missing key %q", ErrMalformedResponse, key)
		}
	}

	var result AnalysisResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if !result.Urgency.Valid() {
		return nil, fmt.Errorf("%w: unknown urgency %q", ErrMalformedResponse, result.Urgency)
	}
	if result.Specialty == "" {
		return nil, fmt.Errorf("%w: empty specialty", ErrMalformedResponse)
	}
	return &result, nil
}
