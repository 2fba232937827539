package domain

import "tailorai/pkg/dataurl"

// GenerationRequest is a decoded outfit generation request.
type GenerationRequest struct {
	Image    []byte
	MIMEType string
	Style    string
}

// GeneratedImage is the provider output returned inline to the caller.
type GeneratedImage struct {
	MIMEType string
	Data     []byte
}

// DataURL renders the image as a self-describing data URL.
func (g GeneratedImage) DataURL() string {
	return dataurl.Encode(g.MIMEType, g.Data)
}

// GenerationResult is the wire shape of a relay response.
type GenerationResult struct {
	Success        bool   `json:"success"`
	GeneratedImage string `json:"generatedImage,omitempty"`
	Error          string `json:"error,omitempty"`
}
