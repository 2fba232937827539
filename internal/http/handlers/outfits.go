package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"tailorai/internal/domain"
	"tailorai/pkg/dataurl"
)

type generateOutfitRequest struct {
	Image string `json:"image"`
	Style string `json:"style"`
}

// GenerateOutfit handles POST /api/generate-outfit.
func (a *App) GenerateOutfit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.MaxBodyBytes)

	var req generateOutfitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.fail(w, r, http.StatusRequestEntityTooLarge, &domain.Error{
				Kind: domain.KindInvalidInput, Code: domain.CodeBodyTooLarge, Message: "request body is too large", Err: err})
			return
		}
		a.fail(w, r, 0, &domain.Error{
			Kind: domain.KindInvalidInput, Code: domain.CodeBodyInvalid, Message: "invalid request body", Err: err})
		return
	}

	genReq := domain.GenerationRequest{Style: req.Style}
	if req.Image != "" {
		data, mime, err := dataurl.Decode(req.Image)
		if err != nil && !errors.Is(err, dataurl.ErrEmpty) {
			a.fail(w, r, 0, &domain.Error{
				Kind: domain.KindInvalidInput, Code: domain.CodeImageInvalid, Message: "image is not valid base64", Err: err})
			return
		}
		genReq.Image, genReq.MIMEType = data, mime
	}

	out, err := a.Relay.Generate(r.Context(), genReq)
	if err != nil {
		a.fail(w, r, 0, err)
		return
	}

	a.loggerFor(r).Info().
		Str("style", req.Style).
		Str("mime", out.MIMEType).
		Int("bytes", len(out.Data)).
		Msg("outfit generated")
	a.json(w, http.StatusOK, domain.GenerationResult{Success: true, GeneratedImage: out.DataURL()})
}
