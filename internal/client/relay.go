// Package client drives the relay from the user's side: encoding a local
// photo, calling the relay once and recording the result in history.
package client

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

// Options configures a RelayClient.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// RelayClient calls the relay's HTTP API.
type RelayClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

// NewRelayClient validates opts. A nil HTTPClient uses the platform default
// with no timeout of its own.
func NewRelayClient(opts Options) (*RelayClient, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, errors.New("client: relay base url is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}
	return &RelayClient{baseURL: base, httpClient: httpClient, logger: logger}, nil
}

type generateRequest struct {
	Image string `json:"image"`
	Style string `json:"style"`
}

// GenerateOutfit sends one generation request and returns the generated
// image as a data URL. Failures carry the relay's own message when it sent one.
func (c *RelayClient) GenerateOutfit(ctx context.Context, image, style string) (string, error) {
	body, err := json.Marshal(generateRequest{Image: image, Style: style})
	if err != nil {
		return "", fmt.Errorf("client: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate-outfit", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("client: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var result domain.GenerationResult
	status, err := c.do(req, &result)
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		msg := result.Error
		if msg == "" {
			msg = fmt.Sprintf("API error: %d", status)
		}
		return "", &domain.Error{Kind: kindForStatus(status), Message: msg}
	}
	if !result.Success || result.GeneratedImage == "" {
		msg := result.Error
		if msg == "" {
			msg = domain.Message(domain.DefaultLocale, domain.CodeGenerateFailed)
		}
		return "", &domain.Error{Kind: domain.KindUpstream, Message: msg}
	}
	return result.GeneratedImage, nil
}

// Styles fetches the relay's style catalog.
func (c *RelayClient) Styles(ctx context.Context) ([]domain.Style, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/styles", nil)
	if err != nil {
		return nil, fmt.Errorf("client: create request: %w", err)
	}
	var out struct {
		Styles []domain.Style `json:"styles"`
		Error  string         `json:"error"`
	}
	status, err := c.do(req, &out)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		msg := out.Error
		if msg == "" {
			msg = fmt.Sprintf("API error: %d", status)
		}
		return nil, &domain.Error{Kind: kindForStatus(status), Message: msg}
	}
	return out.Styles, nil
}

// do sends req and decodes a JSON body into v. An undecodable body is not an
// error here; callers fall back on the status code.
func (c *RelayClient) do(req *http.Request, v any) (int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, domain.Upstream(fmt.Errorf("client: request relay: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, domain.Upstream(fmt.Errorf("client: read response: %w", err))
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, v); err != nil {
			c.logger.Debug().
				Int("status", resp.StatusCode).
				Str("path", req.URL.Path).
				Err(err).
				Msg("client: relay response is not JSON")
		}
	}
	return resp.StatusCode, nil
}

func kindForStatus(status int) domain.ErrorKind {
	switch status {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return domain.KindInvalidInput
	case http.StatusUnauthorized:
		return domain.KindAuth
	case http.StatusNotFound:
		return domain.KindModelNotFound
	case http.StatusTooManyRequests:
		return domain.KindRateLimited
	default:
		return domain.KindUpstream
	}
}
