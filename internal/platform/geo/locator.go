// Package geo resolves a best-effort coordinate pair for a request. The
// lookup is bounded by a fixed timeout; denial, timeout, or a private address
// all yield "no coordinates" rather than an error that blocks the flow.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/medmatch/medmatch/internal/platform/oracle"
)

// ErrUnavailable is a degraded-input condition, not a hard failure. Callers
// proceed with nil coordinates.
var ErrUnavailable = errors.New("geo: location unavailable")

// Locator resolves coordinates for a client address.
type Locator interface {
	Locate(ctx context.Context, ip string) (*oracle.Coordinates, error)
}

// DefaultLookupURL is the IP-geolocation endpoint used when none is
// configured.
const DefaultLookupURL = "http://ip-api.com/json"

// IPLocator resolves coordinates through an external IP-geolocation service.
type IPLocator struct {
	baseURL string
	client  *http.Client
}

// NewIPLocator creates a locator with the given endpoint and bounded wait.
func NewIPLocator(baseURL string, timeout time.Duration) *IPLocator {
	if baseURL == "" {
		baseURL = DefaultLookupURL
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &IPLocator{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type lookupResponse struct {
	Status string  `json:"status"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
}

func (l *IPLocator) Locate(ctx context.Context, ip string) (*oracle.Coordinates, error) {
	if !publicIP(ip) {
		return nil, fmt.Errorf("%w: no public address", ErrUnavailable)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"/"+ip, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: lookup returned %d", ErrUnavailable, resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if body.Status != "" && body.Status != "success" {
		return nil, fmt.Errorf("%w: lookup status %q", ErrUnavailable, body.Status)
	}
	if body.Lat == 0 && body.Lon == 0 {
		return nil, fmt.Errorf("%w: empty result", ErrUnavailable)
	}

	return &oracle.Coordinates{Lat: body.Lat, Lng: body.Lon}, nil
}

// publicIP reports whether ip parses and is globally routable. Loopback and
// RFC1918 addresses cannot be geolocated.
func publicIP(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	return !parsed.IsLoopback() && !parsed.IsPrivate() && !parsed.IsUnspecified()
}
