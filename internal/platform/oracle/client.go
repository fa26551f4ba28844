// Package oracle wraps the external generative reasoning service behind an
// injectable interface: symptom classification and location-grounded provider
// discovery. All medical reasoning happens inside the external model; this
// package formats prompts, sends them, and validates the replies.
package oracle

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/medmatch/medmatch/internal/platform/grounding"
)

// Client is the reasoning-service boundary. Implementations perform one
// round trip per call with no internal retry.
type Client interface {
	// Classify asks the service for an urgency classification and specialty
	// recommendation. Fails with ErrEmptyResponse or ErrMalformedResponse.
	Classify(ctx context.Context, input UserInput) (*AnalysisResult, error)

	// FindProviders asks for nearby providers matching a specialty. A nil
	// coords omits the location bias entirely.
	FindProviders(ctx context.Context, specialty, symptoms string, coords *Coordinates) (*Discovery, error)

	// FindEmergencyFacilities asks for the nearest emergency rooms and
	// trauma centers, with no specialty filter.
	FindEmergencyFacilities(ctx context.Context, coords *Coordinates) ([]grounding.Source, error)
}

// GeminiConfig configures the Gemini-backed Client.
type GeminiConfig struct {
	APIKey         string
	TriageModel    string
	DiscoveryModel string
}

// GeminiClient implements Client against the Gemini API.
type GeminiClient struct {
	client         *genai.Client
	triageModel    string
	discoveryModel string
}

// NewGeminiClient creates a Gemini-backed reasoning client.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiClient{
		client:         client,
		triageModel:    cfg.TriageModel,
		discoveryModel: cfg.DiscoveryModel,
	}, nil
}

func (g *GeminiClient) Classify(ctx context.Context, input UserInput) (*AnalysisResult, error) {
	resp, err := g.client.Models.GenerateContent(ctx,
		g.triageModel,
		genai.Text(buildTriagePrompt(input)),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			ResponseSchema:    analysisSchema(),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("classify symptoms: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, ErrEmptyResponse
	}
	return parseAnalysis(text)
}

func (g *GeminiClient) FindProviders(ctx context.Context, specialty, symptoms string, coords *Coordinates) (*Discovery, error) {
	cfg := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{GoogleMaps: &genai.GoogleMaps{}},
			{GoogleSearch: &genai.GoogleSearch{}},
		},
		ToolConfig: locationBias(coords),
	}

	resp, err := g.client.Models.GenerateContent(ctx,
		g.discoveryModel,
		genai.Text(buildProviderQuery(specialty, symptoms)),
		cfg,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderLookup, err)
	}

	text := resp.Text()
	sources := grounding.Normalize(fragmentsFrom(resp), text)
	if text == "" {
		text = searchingPlaceholder
	}
	return &Discovery{Text: text, Sources: sources}, nil
}

func (g *GeminiClient) FindEmergencyFacilities(ctx context.Context, coords *Coordinates) ([]grounding.Source, error) {
	cfg := &genai.GenerateContentConfig{
		Tools:      []*genai.Tool{{GoogleMaps: &genai.GoogleMaps{}}},
		ToolConfig: locationBias(coords),
	}

	resp, err := g.client.Models.GenerateContent(ctx,
		g.discoveryModel,
		genai.Text(emergencyFacilitiesQuery),
		cfg,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderLookup, err)
	}
	return grounding.NormalizeEmergency(fragmentsFrom(resp)), nil
}

// locationBias builds the retrieval configuration for a coordinate pair.
// Absent coordinates yield no tool config at all, never zeroed values.
func locationBias(coords *Coordinates) *genai.ToolConfig {
	if coords == nil {
		return nil
	}
	return &genai.ToolConfig{
		RetrievalConfig: &genai.RetrievalConfig{
			LatLng: &genai.LatLng{Latitude: genai.Ptr(coords.Lat), Longitude: genai.Ptr(coords.Lng)},
		},
	}
}

// fragmentsFrom extracts grounding chunks from the first candidate.
func fragmentsFrom(resp *genai.GenerateContentResponse) []grounding.Fragment {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	meta := resp.Candidates[0].GroundingMetadata
	if meta == nil {
		return nil
	}

	frags := make([]grounding.Fragment, 0, len(meta.GroundingChunks))
	for _, chunk := range meta.GroundingChunks {
		var f grounding.Fragment
		if chunk.Maps != nil {
			f.Maps = &grounding.Result{Title: chunk.Maps.Title, URI: chunk.Maps.URI}
		}
		if chunk.Web != nil {
			f.Web = &grounding.Result{Title: chunk.Web.Title, URI: chunk.Web.URI}
		}
		frags = append(frags, f)
	}
	return frags
}
