package image

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"tailorai/pkg/dataurl"
)

// Extractor checks one known response shape for an inline image.
type Extractor func(raw any) (Payload, bool)

// Extract runs the chain in order and returns the first hit.
func Extract(raw any, chain ...Extractor) (Payload, bool) {
	for _, extract := range chain {
		if extract == nil {
			continue
		}
		if p, ok := extract(raw); ok {
			return p, true
		}
	}
	return Payload{}, false
}

// TopLevelParts reads {"parts":[...]}.
func TopLevelParts(raw any) (Payload, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return Payload{}, false
	}
	return firstInlinePart(obj["parts"])
}

// CandidateParts reads {"candidates":[{"content":{"parts":[...]}}]}. Only the
// first candidate is considered.
func CandidateParts(raw any) (Payload, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return Payload{}, false
	}
	candidates, ok := obj["candidates"].([]any)
	if !ok || len(candidates) == 0 {
		return Payload{}, false
	}
	first, ok := candidates[0].(map[string]any)
	if !ok {
		return Payload{}, false
	}
	content, ok := first["content"].(map[string]any)
	if !ok {
		return Payload{}, false
	}
	return firstInlinePart(content["parts"])
}

// DataEnvelope unwraps {"data": ...} and applies inner to the wrapped value.
func DataEnvelope(inner ...Extractor) Extractor {
	return func(raw any) (Payload, bool) {
		obj, ok := raw.(map[string]any)
		if !ok {
			return Payload{}, false
		}
		data, ok := obj["data"]
		if !ok || data == nil {
			return Payload{}, false
		}
		return Extract(data, inner...)
	}
}

// VertexPredictions reads {"predictions":[{"bytesBase64Encoded": "...", "mimeType": "..."}]}.
func VertexPredictions(raw any) (Payload, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return Payload{}, false
	}
	predictions, ok := obj["predictions"].([]any)
	if !ok {
		return Payload{}, false
	}
	for _, item := range predictions {
		pred, ok := item.(map[string]any)
		if !ok {
			continue
		}
		encoded, _ := pred["bytesBase64Encoded"].(string)
		declared, _ := pred["mimeType"].(string)
		if p, ok := decodeInline(encoded, declared); ok {
			return p, true
		}
	}
	return Payload{}, false
}

// StabilityArtifacts reads {"artifacts":[{"base64": "...", "finishReason": "..."}]}.
// Artifacts that finished with ERROR are skipped.
func StabilityArtifacts(raw any) (Payload, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return Payload{}, false
	}
	artifacts, ok := obj["artifacts"].([]any)
	if !ok {
		return Payload{}, false
	}
	for _, item := range artifacts {
		art, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if reason, _ := art["finishReason"].(string); strings.EqualFold(reason, "ERROR") {
			continue
		}
		encoded, _ := art["base64"].(string)
		if p, ok := decodeInline(encoded, ""); ok {
			return p, true
		}
	}
	return Payload{}, false
}

func firstInlinePart(raw any) (Payload, bool) {
	parts, ok := raw.([]any)
	if !ok {
		return Payload{}, false
	}
	for _, item := range parts {
		part, ok := item.(map[string]any)
		if !ok {
			continue
		}
		inline, ok := part["inlineData"].(map[string]any)
		if !ok {
			inline, ok = part["inline_data"].(map[string]any)
		}
		if !ok {
			continue
		}
		encoded, _ := inline["data"].(string)
		declared, _ := inline["mimeType"].(string)
		if declared == "" {
			declared, _ = inline["mime_type"].(string)
		}
		if p, ok := decodeInline(encoded, declared); ok {
			return p, true
		}
	}
	return Payload{}, false
}

// decodeInline accepts a base64 body and an optional declared mime type. A
// declared non-image type is rejected; a missing one is sniffed.
func decodeInline(encoded, declared string) (Payload, bool) {
	if strings.TrimSpace(encoded) == "" {
		return Payload{}, false
	}
	data, embedded, err := dataurl.Decode(encoded)
	if err != nil || len(data) == 0 {
		return Payload{}, false
	}
	mime := strings.ToLower(strings.TrimSpace(declared))
	if mime == "" {
		mime = embedded
	}
	if mime == "" {
		mime = mimetype.Detect(data).String()
	}
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if !strings.HasPrefix(mime, "image/") {
		return Payload{}, false
	}
	return Payload{MIMEType: mime, Data: data}, true
}
