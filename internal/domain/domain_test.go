package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestDefaultCatalogCoversEveryStyle(t *testing.T) {
	c := DefaultCatalog()
	want := []StyleID{
		StyleCasual, StyleModern, StyleEdgy, StyleFormal, StyleSporty, StyleVintage, StyleBohemian,
		StyleCyberpunk, StyleSteampunk, StyleGothic, StyleKawaii, StyleMinimalist, StyleStreetwear,
	}
	ids := c.IDs()
	if len(ids) != len(want) {
		t.Fatalf("IDs len = %d, want %d", len(ids), len(want))
	}
	for i, id := range want {
		if ids[i] != id {
			t.Fatalf("IDs[%d] = %q, want %q", i, ids[i], id)
		}
		s, ok := c.Lookup(string(id))
		if !ok {
			t.Fatalf("Lookup(%q) missing", id)
		}
		if s.Description == "" {
			t.Fatalf("style %q has empty description", id)
		}
	}
}

func TestCatalogLookupNormalizes(t *testing.T) {
	c := DefaultCatalog()
	s, ok := c.Lookup("  CyberPunk ")
	if !ok || s.ID != StyleCyberpunk {
		t.Fatalf("Lookup = %+v, %v", s, ok)
	}
	if s.Label != "Cyberpunk" {
		t.Fatalf("Label = %q, want Cyberpunk", s.Label)
	}
	if _, ok := c.Lookup("not-a-style"); ok {
		t.Fatal("expected unknown style to be rejected")
	}
	var nilCatalog *Catalog
	if _, ok := nilCatalog.Lookup("casual"); ok {
		t.Fatal("nil catalog should not resolve styles")
	}
}

func TestNewCatalogValidation(t *testing.T) {
	tests := []struct {
		name   string
		styles []Style
	}{
		{name: "empty", styles: nil},
		{name: "missing id", styles: []Style{{Description: "x"}}},
		{name: "missing description", styles: []Style{{ID: "casual"}}},
		{name: "duplicate", styles: []Style{{ID: "casual", Description: "a"}, {ID: "CASUAL", Description: "b"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewCatalog(tc.styles); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestErrorKindStatus(t *testing.T) {
	tests := map[ErrorKind]int{
		KindInvalidInput:          http.StatusBadRequest,
		KindAuth:                  http.StatusUnauthorized,
		KindModelNotFound:         http.StatusNotFound,
		KindRateLimited:           http.StatusTooManyRequests,
		KindUpstreamShapeMismatch: http.StatusInternalServerError,
		KindUpstream:              http.StatusInternalServerError,
	}
	for kind, want := range tests {
		if got := kind.HTTPStatus(); got != want {
			t.Fatalf("%s.HTTPStatus() = %d, want %d", kind, got, want)
		}
	}
}

func TestErrorsIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewError(KindRateLimited, CodeRateLimited, ""))
	if !errors.Is(err, ErrRateLimited) {
		t.Fatal("expected errors.Is to match rate limited sentinel")
	}
	if errors.Is(err, ErrAuth) {
		t.Fatal("rate limited error must not match auth sentinel")
	}
	if got := AsError(errors.New("boom")); got.Kind != KindUpstream || got.Message != "boom" {
		t.Fatalf("AsError = %+v", got)
	}
}

func TestLocalize(t *testing.T) {
	catalog := DefaultCatalog()
	styleErr := &Error{Kind: KindInvalidInput, Code: CodeStyleInvalid, Args: []any{catalog.Joined()}}
	if got := Localize("en", styleErr); !strings.HasPrefix(got, "Valid style is required") || !strings.Contains(got, "streetwear") {
		t.Fatalf("Localize(style) = %q", got)
	}
	if got := Localize("id", styleErr); !strings.HasPrefix(got, "Gaya yang valid") {
		t.Fatalf("Localize(id style) = %q", got)
	}
	rate := NewError(KindRateLimited, CodeRateLimited, "raw upstream text")
	if got := Localize("fr", rate); got != "Rate limit exceeded. Please try again later." {
		t.Fatalf("Localize(rate) = %q", got)
	}
	upstream := Upstream(errors.New("gemini status 500: backend exploded"))
	if got := Localize("en", upstream); got != "gemini status 500: backend exploded" {
		t.Fatalf("Localize(upstream) = %q", got)
	}
	if got := Localize("en", errors.New("plain")); got != "plain" {
		t.Fatalf("Localize(plain) = %q", got)
	}
}

func TestGeneratedImageDataURL(t *testing.T) {
	img := GeneratedImage{MIMEType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}
	if got := img.DataURL(); got != "data:image/png;base64,iVBORw==" {
		t.Fatalf("DataURL = %q", got)
	}
}
