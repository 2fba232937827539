package image

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"tailorai/internal/domain"
	"tailorai/internal/infra"
)

// DefaultSnapshotLimit bounds the raw response excerpt written to the log.
const DefaultSnapshotLimit = 500

// Options configures an HTTPGenerator.
type Options struct {
	Name          string
	Builder       RequestBuilder
	Extractors    []Extractor
	HTTPClient    *http.Client
	Logger        *infra.Logger
	SnapshotLimit int
}

// HTTPGenerator sends a built provider request once and normalises the
// response into a Payload or a classified domain error.
type HTTPGenerator struct {
	name          string
	builder       RequestBuilder
	extractors    []Extractor
	httpClient    *http.Client
	logger        *infra.Logger
	snapshotLimit int
}

// NewHTTPGenerator wires a request builder with its response extractors.
func NewHTTPGenerator(opts Options) (*HTTPGenerator, error) {
	if opts.Builder == nil {
		return nil, errors.New("image: request builder is required")
	}
	if len(opts.Extractors) == 0 {
		return nil, errors.New("image: at least one extractor is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		name = "image"
	}
	limit := opts.SnapshotLimit
	if limit <= 0 {
		limit = DefaultSnapshotLimit
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}
	return &HTTPGenerator{
		name:          name,
		builder:       opts.Builder,
		extractors:    opts.Extractors,
		httpClient:    httpClient,
		logger:        logger,
		snapshotLimit: limit,
	}, nil
}

// Name identifies the backend.
func (g *HTTPGenerator) Name() string { return g.name }

// Generate performs a single upstream attempt. There is no retry.
func (g *HTTPGenerator) Generate(ctx context.Context, src SourceImage, prompt string) (*Payload, error) {
	log := g.loggerFor(ctx)

	preq, err := g.builder.Build(ctx, src, prompt)
	if err != nil {
		var de *domain.Error
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, domain.Upstream(fmt.Errorf("%s: build request: %w", g.name, err))
	}
	method := preq.Method
	if method == "" {
		method = http.MethodPost
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, preq.URL, bytes.NewReader(preq.Body))
	if err != nil {
		return nil, domain.Upstream(fmt.Errorf("%s: create request: %w", g.name, err))
	}
	for key, values := range preq.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, domain.Upstream(fmt.Errorf("%s: http request: %w", g.name, err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.Upstream(fmt.Errorf("%s: read response: %w", g.name, err))
	}

	if resp.StatusCode >= 300 {
		snapshot := Snapshot(raw, g.snapshotLimit)
		log.Warn().
			Str("provider", g.name).
			Int("status", resp.StatusCode).
			Str("snapshot", snapshot).
			Msg("image: upstream returned error status")
		return nil, classifyStatus(g.name, resp.StatusCode, providerMessage(raw), snapshot)
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		log.Warn().
			Str("provider", g.name).
			Str("snapshot", Snapshot(raw, g.snapshotLimit)).
			Msg("image: upstream response is not JSON")
		return nil, shapeMismatch(g.name, raw, g.snapshotLimit)
	}
	payload, ok := Extract(decoded, g.extractors...)
	if !ok {
		log.Warn().
			Str("provider", g.name).
			Str("snapshot", Snapshot(raw, g.snapshotLimit)).
			Msg("image: no inline image in upstream response")
		return nil, shapeMismatch(g.name, raw, g.snapshotLimit)
	}

	log.Debug().
		Str("provider", g.name).
		Str("mime", payload.MIMEType).
		Int("bytes", len(payload.Data)).
		Msg("image: generated outfit")
	return &payload, nil
}

func (g *HTTPGenerator) loggerFor(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return g.logger
}

// classifyStatus maps an upstream status to a domain error. Only a structured
// provider message reaches Message; the raw body stays in Detail for operators.
func classifyStatus(provider string, status int, upstreamMsg, snapshot string) error {
	message := fmt.Sprintf("%s status %d", provider, status)
	if upstreamMsg != "" {
		message += ": " + upstreamMsg
	}
	detail := message
	if upstreamMsg == "" && snapshot != "" {
		detail += ": " + snapshot
	}
	switch status {
	case http.StatusUnauthorized:
		return &domain.Error{Kind: domain.KindAuth, Code: domain.CodeAuth,
			Message: "invalid or missing provider credential", Detail: detail}
	case http.StatusNotFound:
		return &domain.Error{Kind: domain.KindModelNotFound, Code: domain.CodeModelNotFound,
			Message: "requested model is not available", Detail: detail}
	case http.StatusTooManyRequests:
		return &domain.Error{Kind: domain.KindRateLimited, Code: domain.CodeRateLimited,
			Message: "rate limit exceeded, retry later", Detail: detail}
	default:
		return &domain.Error{Kind: domain.KindUpstream, Code: domain.CodeUpstream,
			Message: message, Detail: detail}
	}
}

func shapeMismatch(provider string, raw []byte, limit int) error {
	return &domain.Error{
		Kind:    domain.KindUpstreamShapeMismatch,
		Code:    domain.CodeShapeMismatch,
		Message: provider + " response did not contain an image",
		Detail:  Snapshot(raw, limit),
	}
}

// providerMessage pulls a readable message out of an error body. It returns ""
// when the body carries no error.message, string error or message field.
func providerMessage(raw []byte) string {
	var body struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
		Name    string          `json:"name"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if len(body.Error) > 0 {
			var nested struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(body.Error, &nested); err == nil && nested.Message != "" {
				return nested.Message
			}
			var flat string
			if err := json.Unmarshal(body.Error, &flat); err == nil && flat != "" {
				return flat
			}
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return ""
}

// Snapshot trims raw to at most limit bytes for diagnostics.
func Snapshot(raw []byte, limit int) string {
	s := strings.TrimSpace(string(raw))
	if limit <= 0 || len(s) <= limit {
		return s
	}
	return s[:limit] + "...(truncated)"
}
