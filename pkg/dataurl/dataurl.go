// Package dataurl encodes and decodes base64 image payloads in the
// `data:<mime>;base64,<data>` form used between the client and the relay.
package dataurl

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrEmpty is returned when the input carries no payload.
var ErrEmpty = errors.New("dataurl: empty payload")

const prefix = "data:"

// Encode renders data as a base64 data URL tagged with mime.
func Encode(mime string, data []byte) string {
	mime = strings.TrimSpace(mime)
	if mime == "" {
		mime = "application/octet-stream"
	}
	return prefix + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Decode accepts either a data URL or a bare base64 string. The returned mime
// type is empty when the input did not declare one.
func Decode(s string) ([]byte, string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, "", ErrEmpty
	}
	var mime string
	payload := s
	if strings.HasPrefix(strings.ToLower(s), prefix) {
		comma := strings.IndexByte(s, ',')
		if comma < 0 {
			return nil, "", errors.New("dataurl: missing comma separator")
		}
		meta := s[len(prefix):comma]
		payload = s[comma+1:]
		if !strings.HasSuffix(strings.ToLower(meta), ";base64") {
			return nil, "", errors.New("dataurl: only base64 payloads are supported")
		}
		mime = strings.TrimSpace(meta[:len(meta)-len(";base64")])
	}
	data, err := decodeBase64(payload)
	if err != nil {
		return nil, "", fmt.Errorf("dataurl: decode base64: %w", err)
	}
	if len(data) == 0 {
		return nil, "", ErrEmpty
	}
	return data, strings.ToLower(mime), nil
}

func decodeBase64(payload string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, payload)
	if strings.HasSuffix(cleaned, "=") || len(cleaned)%4 == 0 {
		return base64.StdEncoding.DecodeString(cleaned)
	}
	return base64.RawStdEncoding.DecodeString(cleaned)
}
