package image

import (
	"context"
	"net/http"
)

// SourceImage is the uploaded photo handed to a provider.
type SourceImage struct {
	MIME   string
	Data   []byte
	Width  int
	Height int
}

// Payload is an inline image returned by a provider.
type Payload struct {
	MIMEType string
	Data     []byte
}

// Generator is the contract implemented by every image backend.
type Generator interface {
	Name() string
	Generate(ctx context.Context, src SourceImage, prompt string) (*Payload, error)
}

// ProviderRequest is a fully built upstream call.
type ProviderRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// RequestBuilder turns a source image and prompt into a provider specific request.
type RequestBuilder interface {
	Build(ctx context.Context, src SourceImage, prompt string) (*ProviderRequest, error)
}
