package triage

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medmatch/medmatch/internal/platform/auth"
	"github.com/medmatch/medmatch/internal/platform/oracle"
)

func postTriage(t *testing.T, h *Handler, body string, userID string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/triage", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set(auth.UserIDKey, userID)
	}
	return rec, h.Analyze(c)
}

func TestAnalyzeHandler_OK(t *testing.T) {
	result := validResult()
	h := NewHandler(NewService(&mockOracle{result: result}, &mockRepo{}, zerolog.Nop()))

	rec, err := postTriage(t, h, `{"symptoms":"skin rash","severity":4}`, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp AnalyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Result.Specialty != "Dermatology" {
		t.Errorf("expected Dermatology, got %s", resp.Result.Specialty)
	}
	if resp.Emergency {
		t.Error("expected no emergency routing for moderate urgency")
	}
}

func TestAnalyzeHandler_EmergencyRouting(t *testing.T) {
	cases := []struct {
		name   string
		result *oracle.AnalysisResult
	}{
		{"explicit flag", &oracle.AnalysisResult{
			Urgency: oracle.UrgencyHigh, Specialty: "Emergency Medicine", IsEmergency: true,
		}},
		{"emergency urgency", &oracle.AnalysisResult{
			Urgency: oracle.UrgencyEmergency, Specialty: "Emergency Medicine",
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(NewService(&mockOracle{result: tc.result}, &mockRepo{}, zerolog.Nop()))
			rec, err := postTriage(t, h, `{"symptoms":"chest pain"}`, "")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var resp AnalyzeResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if !resp.Emergency {
				t.Error("expected emergency routing")
			}
		})
	}
}

func TestAnalyzeHandler_EmptySymptoms(t *testing.T) {
	h := NewHandler(NewService(&mockOracle{result: validResult()}, &mockRepo{}, zerolog.Nop()))

	_, err := postTriage(t, h, `{"symptoms":"  "}`, "")
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestAnalyzeHandler_OracleFailureIs502(t *testing.T) {
	h := NewHandler(NewService(&mockOracle{err: oracle.ErrEmptyResponse}, &mockRepo{}, zerolog.Nop()))

	_, err := postTriage(t, h, `{"symptoms":"headache"}`, "")
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %v", err)
	}
}

func TestHistoryHandler(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(&mockOracle{result: validResult()}, repo, zerolog.Nop())
	h := NewHandler(svc)

	userID := "2b2c8f3e-7d4a-4c1e-9a6b-1f2e3d4c5b6a"
	if _, err := postTriage(t, h, `{"symptoms":"skin rash"}`, userID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/triage/history", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(auth.UserIDKey, userID)

	if err := h.History(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Data  []*HistoryItem `json:"data"`
		Total int            `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 1 || len(resp.Data) != 1 {
		t.Fatalf("expected 1 history item, got %d", resp.Total)
	}
	if resp.Data[0].Symptoms != "skin rash" {
		t.Errorf("expected recorded symptoms, got %q", resp.Data[0].Symptoms)
	}
}

func TestIntakeOptionsHandler(t *testing.T) {
	h := NewHandler(NewService(&mockOracle{result: validResult()}, &mockRepo{}, zerolog.Nop()))

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/meta/intake", nil), rec)

	if err := h.IntakeOptions(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var opts IntakeOptions
	if err := json.Unmarshal(rec.Body.Bytes(), &opts); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(opts.QuickSymptoms) != 8 {
		t.Errorf("expected 8 quick symptoms, got %d", len(opts.QuickSymptoms))
	}
	if len(opts.AgeGroups) != 3 {
		t.Errorf("expected 3 age groups, got %d", len(opts.AgeGroups))
	}
}
