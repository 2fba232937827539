package image

import (
	"bytes"
	"context"
	"crypto/sha256"
	stdimage "image"
	"image/color"

	"github.com/disintegration/imaging"

	"tailorai/internal/domain"
)

// SyntheticGenerator renders a local placeholder result without calling any
// provider. The editable region of the photo is tinted with a colour derived
// from the prompt so different styles give visibly different outputs.
type SyntheticGenerator struct{}

// NewSyntheticGenerator returns the offline backend.
func NewSyntheticGenerator() *SyntheticGenerator { return &SyntheticGenerator{} }

func (g *SyntheticGenerator) Name() string { return "synthetic" }

func (g *SyntheticGenerator) Generate(ctx context.Context, src SourceImage, prompt string) (*Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Upstream(err)
	}
	img, err := imaging.Decode(bytes.NewReader(src.Data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, domain.InvalidInput(domain.CodeImageInvalid, err.Error())
	}
	b := img.Bounds()
	out := imaging.Clone(img)
	protected := ProtectedRows(b.Dy())
	if editable := b.Dy() - protected; editable > 0 {
		tint := imaging.New(b.Dx(), editable, colorFromPrompt(prompt))
		out = imaging.Overlay(out, tint, stdimage.Pt(0, protected), 0.35)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return nil, domain.Upstream(err)
	}
	return &Payload{MIMEType: "image/png", Data: buf.Bytes()}, nil
}

func colorFromPrompt(prompt string) color.NRGBA {
	sum := sha256.Sum256([]byte(prompt))
	return color.NRGBA{R: sum[0], G: sum[1], B: sum[2], A: 255}
}

var _ Generator = (*SyntheticGenerator)(nil)
