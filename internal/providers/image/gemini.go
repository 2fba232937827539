package image

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// GeminiOptions configures the multimodal editing backend.
type GeminiOptions struct {
	APIKey  string
	Model   string
	BaseURL string
}

// GeminiBuilder builds generateContent calls carrying the photo inline.
type GeminiBuilder struct {
	apiKey   string
	endpoint string
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiGenerationConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

// NewGeminiBuilder validates opts.
func NewGeminiBuilder(opts GeminiOptions) (*GeminiBuilder, error) {
	key := strings.TrimSpace(opts.APIKey)
	if key == "" {
		return nil, errors.New("gemini: api key is required")
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gemini-2.5-flash-image"
	}
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = "https://generativelanguage.googleapis.com/v1beta"
	}
	return &GeminiBuilder{
		apiKey:   key,
		endpoint: fmt.Sprintf("%s/models/%s:generateContent", base, url.PathEscape(model)),
	}, nil
}

func (b *GeminiBuilder) Build(ctx context.Context, src SourceImage, prompt string) (*ProviderRequest, error) {
	mime := src.MIME
	if mime == "" {
		mime = "image/jpeg"
	}
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{Text: prompt},
				{InlineData: &geminiInlineData{MimeType: mime, Data: base64.StdEncoding.EncodeToString(src.Data)}},
			},
		}},
		GenerationConfig: &geminiGenerationConfig{ResponseModalities: []string{"TEXT", "IMAGE"}},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: encode request: %w", err)
	}
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("x-goog-api-key", b.apiKey)
	return &ProviderRequest{Method: http.MethodPost, URL: b.endpoint, Header: header, Body: body}, nil
}

// GeminiExtractors covers the shapes generateContent has been seen to return.
func GeminiExtractors() []Extractor {
	return []Extractor{
		TopLevelParts,
		CandidateParts,
		DataEnvelope(TopLevelParts, CandidateParts),
	}
}

var _ RequestBuilder = (*GeminiBuilder)(nil)
