// Package grounding normalizes location-search result fragments returned by
// the reasoning service into a uniform, deduplicated source list. It is a
// pure transformation: no network, no state.
package grounding

import "regexp"

// Source is a single displayable provider reference.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Result is the title/uri pair carried by one grounding sub-object.
type Result struct {
	Title string
	URI   string
}

// Fragment is one grounding chunk from the reasoning service. A fragment may
// carry a maps result, a web result, both, or neither.
type Fragment struct {
	Maps *Result
	Web  *Result
}

// Fallback titles used when a fragment carries no title of its own.
const (
	mapsFallbackTitle      = "Medical Provider"
	webFallbackTitle       = "Medical Clinic Information"
	emergencyFallbackTitle = "Emergency Hospital"
	textFallbackTitle      = "View Clinic Details"
)

var urlPattern = regexp.MustCompile(`https?://[^\s]+`)

// Normalize shapes provider-discovery fragments into a deduplicated source
// list. Fragments without a URI are dropped. When the fragments yield no
// sources at all, rawText is scanned for URL-shaped substrings so results the
// service expressed as narrative text are still recovered; the scan never
// runs if even one structured source exists. Output preserves first-seen
// order and contains each URI at most once.
func Normalize(frags []Fragment, rawText string) []Source {
	sources := collect(frags, mapsFallbackTitle, webFallbackTitle)

	if len(sources) == 0 && rawText != "" {
		for _, url := range urlPattern.FindAllString(rawText, -1) {
			sources = append(sources, Source{Title: textFallbackTitle, URI: url})
		}
	}

	return dedupe(sources)
}

// NormalizeEmergency shapes emergency-facility fragments. Only maps results
// are considered and there is no raw-text fallback: an emergency list either
// comes from structured location data or is empty.
func NormalizeEmergency(frags []Fragment) []Source {
	var sources []Source
	for _, f := range frags {
		if f.Maps == nil {
			continue
		}
		sources = append(sources, Source{
			Title: orElse(f.Maps.Title, emergencyFallbackTitle),
			URI:   f.Maps.URI,
		})
	}
	return dedupe(sources)
}

func collect(frags []Fragment, mapsTitle, webTitle string) []Source {
	var sources []Source
	for _, f := range frags {
		switch {
		case f.Maps != nil:
			sources = append(sources, Source{Title: orElse(f.Maps.Title, mapsTitle), URI: f.Maps.URI})
		case f.Web != nil:
			sources = append(sources, Source{Title: orElse(f.Web.Title, webTitle), URI: f.Web.URI})
		}
	}
	return sources
}

// dedupe retains the first source for each distinct URI in encounter order.
// Sources with an empty URI are excluded entirely.
func dedupe(sources []Source) []Source {
	seen := make(map[string]bool, len(sources))
	out := make([]Source, 0, len(sources))
	for _, s := range sources {
		if s.URI == "" || seen[s.URI] {
			continue
		}
		seen[s.URI] = true
		out = append(out, s)
	}
	return out
}

func orElse(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
