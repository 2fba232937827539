package image

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	"tailorai/internal/domain"
)

// StabilityOptions configures the image-to-image diffusion backend.
type StabilityOptions struct {
	APIKey        string
	Engine        string
	BaseURL       string
	ImageStrength float64
}

// StabilityBuilder builds multipart image-to-image calls.
type StabilityBuilder struct {
	apiKey   string
	endpoint string
	strength float64
}

// Dimension is a width x height pair.
type Dimension struct {
	Width  int
	Height int
}

// sdxlSizes are the init image sizes accepted by the SDXL engines.
var sdxlSizes = []Dimension{
	{1024, 1024},
	{1152, 896}, {896, 1152},
	{1216, 832}, {832, 1216},
	{1344, 768}, {768, 1344},
	{1536, 640}, {640, 1536},
}

// NewStabilityBuilder validates opts.
func NewStabilityBuilder(opts StabilityOptions) (*StabilityBuilder, error) {
	key := strings.TrimSpace(opts.APIKey)
	if key == "" {
		return nil, errors.New("stability: api key is required")
	}
	engine := strings.TrimSpace(opts.Engine)
	if engine == "" {
		engine = "stable-diffusion-xl-1024-v1-0"
	}
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = "https://api.stability.ai"
	}
	strength := opts.ImageStrength
	if strength <= 0 || strength >= 1 {
		strength = 0.35
	}
	return &StabilityBuilder{
		apiKey:   key,
		endpoint: fmt.Sprintf("%s/v1/generation/%s/image-to-image", base, url.PathEscape(engine)),
		strength: strength,
	}, nil
}

func (b *StabilityBuilder) Build(ctx context.Context, src SourceImage, prompt string) (*ProviderRequest, error) {
	initImage, err := normalizeInitImage(src.Data)
	if err != nil {
		return nil, domain.InvalidInput(domain.CodeImageInvalid, err.Error())
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("init_image", "init.png")
	if err != nil {
		return nil, fmt.Errorf("stability: create init_image field: %w", err)
	}
	if _, err := part.Write(initImage); err != nil {
		return nil, fmt.Errorf("stability: write init_image: %w", err)
	}
	fields := []struct{ key, value string }{
		{"init_image_mode", "IMAGE_STRENGTH"},
		{"image_strength", strconv.FormatFloat(b.strength, 'f', -1, 64)},
		{"text_prompts[0][text]", prompt},
		{"text_prompts[0][weight]", "1"},
		{"cfg_scale", "7"},
		{"samples", "1"},
		{"steps", "30"},
	}
	for _, f := range fields {
		if err := writer.WriteField(f.key, f.value); err != nil {
			return nil, fmt.Errorf("stability: write %s: %w", f.key, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("stability: close multipart writer: %w", err)
	}

	header := http.Header{}
	header.Set("Content-Type", writer.FormDataContentType())
	header.Set("Accept", "application/json")
	header.Set("Authorization", "Bearer "+b.apiKey)
	return &ProviderRequest{Method: http.MethodPost, URL: b.endpoint, Header: header, Body: body.Bytes()}, nil
}

// StabilityExtractors is the extraction order for image-to-image.
func StabilityExtractors() []Extractor {
	return []Extractor{StabilityArtifacts, DataEnvelope(StabilityArtifacts)}
}

// ClosestSDXLSize picks the accepted size whose aspect ratio is nearest to w:h.
func ClosestSDXLSize(width, height int) Dimension {
	if width <= 0 || height <= 0 {
		return sdxlSizes[0]
	}
	target := math.Log(float64(width) / float64(height))
	best := sdxlSizes[0]
	bestDiff := math.Inf(1)
	for _, size := range sdxlSizes {
		diff := math.Abs(math.Log(float64(size.Width)/float64(size.Height)) - target)
		if diff < bestDiff {
			best, bestDiff = size, diff
		}
	}
	return best
}

func normalizeInitImage(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	b := img.Bounds()
	size := ClosestSDXLSize(b.Dx(), b.Dy())
	fitted := imaging.Fill(img, size.Width, size.Height, imaging.Center, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode init image: %w", err)
	}
	return buf.Bytes(), nil
}

var _ RequestBuilder = (*StabilityBuilder)(nil)
