package image

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"tailorai/internal/domain"
)

const vertexScope = "https://www.googleapis.com/auth/cloud-platform"

// VertexOptions configures the masked-inpainting backend.
type VertexOptions struct {
	ProjectID   string
	Location    string
	Model       string
	BaseURL     string
	AspectRatio string
	TokenSource oauth2.TokenSource
}

// VertexBuilder builds Imagen inpainting :predict calls.
type VertexBuilder struct {
	endpoint    string
	aspectRatio string
	tokens      oauth2.TokenSource
}

type vertexRequest struct {
	Instances  []vertexInstance `json:"instances"`
	Parameters vertexParameters `json:"parameters"`
}

type vertexInstance struct {
	Prompt string      `json:"prompt"`
	Image  vertexBytes `json:"image"`
	Mask   vertexBytes `json:"mask"`
}

type vertexBytes struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
}

type vertexParameters struct {
	SampleCount      int    `json:"sampleCount"`
	PersonGeneration string `json:"personGeneration"`
	AspectRatio      string `json:"aspectRatio,omitempty"`
}

// NewVertexBuilder validates opts and resolves the predict endpoint.
func NewVertexBuilder(opts VertexOptions) (*VertexBuilder, error) {
	if opts.TokenSource == nil {
		return nil, errors.New("vertex: token source is required")
	}
	project := strings.TrimSpace(opts.ProjectID)
	if project == "" {
		return nil, errors.New("vertex: project id is required")
	}
	location := strings.TrimSpace(opts.Location)
	if location == "" {
		location = "us-central1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "imagen-3.0-inpaint-001"
	}
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = fmt.Sprintf("https://%s-aiplatform.googleapis.com", location)
	}
	endpoint := fmt.Sprintf("%s/v1/projects/%s/locations/%s/publishers/google/models/%s:predict",
		base, url.PathEscape(project), url.PathEscape(location), url.PathEscape(model))
	return &VertexBuilder{endpoint: endpoint, aspectRatio: strings.TrimSpace(opts.AspectRatio), tokens: opts.TokenSource}, nil
}

// Endpoint returns the resolved predict URL.
func (b *VertexBuilder) Endpoint() string { return b.endpoint }

// Build attaches a same-size mask protecting the top rows of the photo.
func (b *VertexBuilder) Build(ctx context.Context, src SourceImage, prompt string) (*ProviderRequest, error) {
	width, height := src.Width, src.Height
	if width <= 0 || height <= 0 {
		w, h, err := ImageDimensions(src.Data)
		if err != nil {
			return nil, domain.InvalidInput(domain.CodeImageInvalid, err.Error())
		}
		width, height = w, h
	}
	mask, err := BuildMask(width, height)
	if err != nil {
		return nil, fmt.Errorf("vertex: %w", err)
	}

	token, err := b.tokens.Token()
	if err != nil {
		return nil, &domain.Error{Kind: domain.KindAuth, Code: domain.CodeAuth,
			Message: "could not obtain provider access token", Detail: err.Error(), Err: err}
	}

	body, err := json.Marshal(vertexRequest{
		Instances: []vertexInstance{{
			Prompt: prompt,
			Image:  vertexBytes{BytesBase64Encoded: base64.StdEncoding.EncodeToString(src.Data)},
			Mask:   vertexBytes{BytesBase64Encoded: base64.StdEncoding.EncodeToString(mask)},
		}},
		Parameters: vertexParameters{
			SampleCount:      1,
			PersonGeneration: "allow_adult",
			AspectRatio:      b.aspectRatio,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("vertex: encode request: %w", err)
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("Authorization", token.Type()+" "+token.AccessToken)
	return &ProviderRequest{Method: http.MethodPost, URL: b.endpoint, Header: header, Body: body}, nil
}

// VertexExtractors is the extraction order for :predict.
func VertexExtractors() []Extractor {
	return []Extractor{VertexPredictions, DataEnvelope(VertexPredictions)}
}

// LoadVertexCredentials reads a service account key file and returns its
// token source and project id.
func LoadVertexCredentials(ctx context.Context, path string) (oauth2.TokenSource, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("vertex: read credentials: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, raw, vertexScope)
	if err != nil {
		return nil, "", fmt.Errorf("vertex: parse credentials: %w", err)
	}
	return creds.TokenSource, creds.ProjectID, nil
}

var _ RequestBuilder = (*VertexBuilder)(nil)
