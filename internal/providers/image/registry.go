package image

import (
	"context"
	"fmt"
	"net/http"

	"tailorai/internal/infra"
)

// FromConfig builds the single backend selected by cfg.ImageProvider.
func FromConfig(ctx context.Context, cfg *infra.Config, logger *infra.Logger) (Generator, error) {
	httpClient := &http.Client{Timeout: cfg.UpstreamTimeout}

	var (
		builder    RequestBuilder
		extractors []Extractor
		err        error
	)
	switch cfg.ImageProvider {
	case infra.ProviderSynthetic:
		return NewSyntheticGenerator(), nil
	case infra.ProviderVertex:
		tokens, projectID, loadErr := LoadVertexCredentials(ctx, cfg.Vertex.CredentialsFile)
		if loadErr != nil {
			return nil, loadErr
		}
		if cfg.Vertex.ProjectID != "" {
			projectID = cfg.Vertex.ProjectID
		}
		builder, err = NewVertexBuilder(VertexOptions{
			ProjectID:   projectID,
			Location:    cfg.Vertex.Location,
			Model:       cfg.Vertex.Model,
			BaseURL:     cfg.Vertex.BaseURL,
			AspectRatio: cfg.Vertex.AspectRatio,
			TokenSource: tokens,
		})
		extractors = VertexExtractors()
	case infra.ProviderStability:
		builder, err = NewStabilityBuilder(StabilityOptions{
			APIKey:        cfg.Stability.APIKey,
			Engine:        cfg.Stability.Engine,
			BaseURL:       cfg.Stability.BaseURL,
			ImageStrength: cfg.Stability.ImageStrength,
		})
		extractors = StabilityExtractors()
	case infra.ProviderGemini:
		builder, err = NewGeminiBuilder(GeminiOptions{
			APIKey:  cfg.Gemini.APIKey,
			Model:   cfg.Gemini.Model,
			BaseURL: cfg.Gemini.BaseURL,
		})
		extractors = GeminiExtractors()
	default:
		return nil, fmt.Errorf("image: unknown provider %q", cfg.ImageProvider)
	}
	if err != nil {
		return nil, err
	}

	return NewHTTPGenerator(Options{
		Name:          cfg.ImageProvider,
		Builder:       builder,
		Extractors:    extractors,
		HTTPClient:    httpClient,
		Logger:        logger,
		SnapshotLimit: cfg.SnapshotLimit,
	})
}
