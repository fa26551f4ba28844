// Package provider serves location-grounded discovery of clinics and
// emergency facilities. Results come entirely from the external reasoning
// service's grounded search; this package only resolves a best-effort
// location bias and shapes the degraded-mode fallback.
package provider

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/medmatch/medmatch/internal/platform/geo"
	"github.com/medmatch/medmatch/internal/platform/grounding"
	"github.com/medmatch/medmatch/internal/platform/oracle"
)

// FallbackMapsURL is offered when emergency facility lookup fails outright.
const FallbackMapsURL = "https://www.google.com/maps/search/hospital+near+me"

// ErrMissingSpecialty marks a discovery request without a specialty.
var ErrMissingSpecialty = errors.New("specialty is required")

type Service struct {
	oracle  oracle.Client
	locator geo.Locator
	log     zerolog.Logger
}

func NewService(oracleClient oracle.Client, locator geo.Locator, log zerolog.Logger) *Service {
	return &Service{oracle: oracleClient, locator: locator, log: log}
}

// Discover finds providers for a specialty. Explicit coordinates win; absent
// ones fall back to a best-effort IP lookup, and an unresolvable location
// degrades to an unbiased query rather than failing.
func (s *Service) Discover(ctx context.Context, specialty, symptoms string, coords *oracle.Coordinates, clientIP string) (*oracle.Discovery, error) {
	specialty = strings.TrimSpace(specialty)
	if specialty == "" {
		return nil, ErrMissingSpecialty
	}
	return s.oracle.FindProviders(ctx, specialty, symptoms, s.resolveCoords(ctx, coords, clientIP))
}

// EmergencyFacilities finds the nearest emergency rooms.
func (s *Service) EmergencyFacilities(ctx context.Context, coords *oracle.Coordinates, clientIP string) ([]grounding.Source, error) {
	return s.oracle.FindEmergencyFacilities(ctx, s.resolveCoords(ctx, coords, clientIP))
}

func (s *Service) resolveCoords(ctx context.Context, coords *oracle.Coordinates, clientIP string) *oracle.Coordinates {
	if coords != nil {
		return coords
	}
	located, err := s.locator.Locate(ctx, clientIP)
	if err != nil {
		if !errors.Is(err, geo.ErrUnavailable) {
			s.log.Warn().Err(err).Msg("ip geolocation failed")
		}
		return nil
	}
	return located
}

// FallbackSearchURL is a plain maps search for a specialty, offered when
// grounded discovery fails.
func FallbackSearchURL(specialty string) string {
	query := url.QueryEscape(strings.TrimSpace(specialty) + " near me")
	return "https://www.google.com/maps/search/" + query
}
