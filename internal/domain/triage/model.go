package triage

import (
	"time"

	"github.com/google/uuid"

	"github.com/medmatch/medmatch/internal/platform/oracle"
)

// HistoryItem is one completed symptom analysis recorded for a logged-in
// user. Anonymous analyses are never recorded.
type HistoryItem struct {
	ID        uuid.UUID             `json:"id"`
	UserID    uuid.UUID             `json:"-"`
	Symptoms  string                `json:"symptoms"`
	Result    oracle.AnalysisResult `json:"result"`
	CreatedAt time.Time             `json:"date"`
}

// AnalyzeResponse is the body returned for a triage submission. Emergency is
// set when either the explicit flag or an EMERGENCY urgency routes the
// caller to the emergency flow.
type AnalyzeResponse struct {
	Result    *oracle.AnalysisResult `json:"result"`
	Emergency bool                   `json:"emergency"`
}

// IntakeOptions are the fixed choices offered on the symptom intake form.
type IntakeOptions struct {
	QuickSymptoms []string `json:"quickSymptoms"`
	AgeGroups     []string `json:"ageGroups"`
}

// QuickSymptoms are one-tap additions to the symptom description.
var QuickSymptoms = []string{
	"Chest Pain", "Sudden Weakness", "Skin Rash", "Stomach Ache",
	"Joint Pain", "Shortness of Breath", "Fever", "Vision Blur",
}

// AgeGroups are the selectable age brackets.
var AgeGroups = []string{"Child (0-17)", "Adult (18-64)", "Senior (65+)"}
