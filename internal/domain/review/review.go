// Package review keeps community ratings for discovered providers. Reviews
// live in process memory only and reset on restart; discovered providers
// have no stable identity beyond their grounded title, so durable storage
// would outlive the thing it describes.
package review

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidRating marks a rating outside 1..5.
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// Review is one user's rating of a provider.
type Review struct {
	ID       uuid.UUID `json:"id"`
	UserName string    `json:"userName"`
	Rating   int       `json:"rating"`
	Comment  string    `json:"comment"`
	Date     time.Time `json:"date"`
}

// Store holds reviews keyed by provider title, newest first.
type Store struct {
	mu         sync.RWMutex
	byProvider map[string][]Review
}

func NewStore() *Store {
	return &Store{byProvider: make(map[string][]Review)}
}

// Add validates and prepends a review for a provider.
func (s *Store) Add(provider, userName string, rating int, comment string) (*Review, error) {
	provider = strings.TrimSpace(provider)
	if provider == "" {
		return nil, fmt.Errorf("provider is required")
	}
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	review := Review{
		ID:       uuid.New(),
		UserName: userName,
		Rating:   rating,
		Comment:  comment,
		Date:     time.Now(),
	}

	s.mu.Lock()
	s.byProvider[provider] = append([]Review{review}, s.byProvider[provider]...)
	s.mu.Unlock()
	return &review, nil
}

// List returns a copy of a provider's reviews, newest first.
func (s *Store) List(provider string) []Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reviews := s.byProvider[strings.TrimSpace(provider)]
	out := make([]Review, len(reviews))
	copy(out, reviews)
	return out
}

// AverageRating is the mean rating, or the default display rating when a
// provider has no reviews yet.
func (s *Store) AverageRating(provider string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reviews := s.byProvider[strings.TrimSpace(provider)]
	if len(reviews) == 0 {
		return 4.8
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}
