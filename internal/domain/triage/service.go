// Package triage accepts symptom descriptions and returns the external
// reasoning service's classification. The service never produces or adjusts
// medical conclusions itself; it validates input, forwards it, and records
// the outcome for logged-in users.
package triage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medmatch/medmatch/internal/platform/oracle"
)

// ErrInvalidInput marks a request rejected before reaching the reasoning
// service.
var ErrInvalidInput = errors.New("invalid triage input")

type Service struct {
	oracle oracle.Client
	repo   Repository
	log    zerolog.Logger
}

func NewService(oracleClient oracle.Client, repo Repository, log zerolog.Logger) *Service {
	return &Service{oracle: oracleClient, repo: repo, log: log}
}

// Analyze classifies a symptom description. userID may be uuid.Nil for an
// anonymous caller; only identified callers get a history entry. A failed
// history write does not discard a successful classification.
func (s *Service) Analyze(ctx context.Context, userID uuid.UUID, input oracle.UserInput) (*oracle.AnalysisResult, error) {
	input.Symptoms = strings.TrimSpace(input.Symptoms)
	if input.Symptoms == "" {
		return nil, fmt.Errorf("%w: symptoms are required", ErrInvalidInput)
	}
	if input.Severity < 0 || input.Severity > 10 {
		return nil, fmt.Errorf("%w: severity must be between 0 and 10", ErrInvalidInput)
	}

	result, err := s.oracle.Classify(ctx, input)
	if err != nil {
		return nil, err
	}

	if userID != uuid.Nil {
		item := &HistoryItem{
			UserID:   userID,
			Symptoms: input.Symptoms,
			Result:   *result,
		}
		if err := s.repo.Append(ctx, item); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to record triage history")
		}
	}
	return result, nil
}

// History lists a user's recorded analyses, newest first.
func (s *Service) History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*HistoryItem, int, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}
