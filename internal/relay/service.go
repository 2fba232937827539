// Package relay turns an outfit request into exactly one provider call.
package relay

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"tailorai/internal/domain"
	"tailorai/internal/infra"
	imageprovider "tailorai/internal/providers/image"
)

// Service validates requests, builds the style prompt and calls the generator.
// It holds no per-request state.
type Service struct {
	catalog   *domain.Catalog
	generator imageprovider.Generator
	logger    *infra.Logger
}

// NewService wires the catalog with the configured backend.
func NewService(catalog *domain.Catalog, generator imageprovider.Generator, logger *infra.Logger) (*Service, error) {
	if catalog == nil {
		return nil, errors.New("relay: catalog is required")
	}
	if generator == nil {
		return nil, errors.New("relay: generator is required")
	}
	if logger == nil {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}
	return &Service{catalog: catalog, generator: generator, logger: logger}, nil
}

// Catalog exposes the style table served to clients.
func (s *Service) Catalog() *domain.Catalog { return s.catalog }

// Provider names the active backend.
func (s *Service) Provider() string { return s.generator.Name() }

// Generate validates req and performs a single generation attempt.
func (s *Service) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GeneratedImage, error) {
	if len(req.Image) == 0 {
		return nil, domain.InvalidInput(domain.CodeImageRequired, "Image is required")
	}
	mime := sniffImage(req.Image)
	if mime == "" {
		return nil, domain.InvalidInput(domain.CodeImageInvalid, "image payload is not a recognised image")
	}
	if declared := strings.ToLower(req.MIMEType); declared != "" && declared != mime {
		s.logger.Debug().Str("declared", declared).Str("detected", mime).Msg("relay: declared image type differs from content")
	}
	style, ok := s.catalog.Lookup(req.Style)
	if !ok {
		joined := s.catalog.Joined()
		return nil, &domain.Error{
			Kind:    domain.KindInvalidInput,
			Code:    domain.CodeStyleInvalid,
			Message: "Valid style is required. Supported styles: " + joined,
			Args:    []any{joined},
		}
	}

	prompt := imageprovider.BuildOutfitPrompt(style)
	src := imageprovider.SourceImage{MIME: mime, Data: req.Image}

	s.logger.Debug().
		Str("style", string(style.ID)).
		Str("provider", s.generator.Name()).
		Str("mime", mime).
		Int("bytes", len(req.Image)).
		Msg("relay: generating outfit")

	payload, err := s.generator.Generate(ctx, src, prompt)
	if err != nil {
		return nil, domain.AsError(err)
	}
	if payload == nil || len(payload.Data) == 0 {
		return nil, &domain.Error{Kind: domain.KindUpstreamShapeMismatch, Code: domain.CodeShapeMismatch,
			Message: s.generator.Name() + " returned an empty image"}
	}
	return &domain.GeneratedImage{MIMEType: payload.MIMEType, Data: payload.Data}, nil
}

// sniffImage returns the detected image type, or "" when the bytes are not an image.
func sniffImage(data []byte) string {
	detected := mimetype.Detect(data).String()
	if !strings.HasPrefix(detected, "image/") {
		return ""
	}
	return detected
}
