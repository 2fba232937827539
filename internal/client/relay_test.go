package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tailorai/internal/domain"
)

func newRelayServer(t *testing.T, handler http.HandlerFunc) *RelayClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewRelayClient(Options{BaseURL: srv.URL + "/", HTTPClient: srv.Client()})
	if err != nil {
		t.Fatalf("NewRelayClient: %v", err)
	}
	return c
}

func TestGenerateOutfitSuccess(t *testing.T) {
	var got generateRequest
	c := newRelayServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/generate-outfit" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"generatedImage":"data:image/png;base64,AQI="}`))
	})

	out, err := c.GenerateOutfit(context.Background(), "data:image/jpeg;base64,/9j/", "casual")
	if err != nil {
		t.Fatalf("GenerateOutfit: %v", err)
	}
	if out != "data:image/png;base64,AQI=" {
		t.Fatalf("out = %q", out)
	}
	if got.Image != "data:image/jpeg;base64,/9j/" || got.Style != "casual" {
		t.Fatalf("relay received %+v", got)
	}
}

func TestGenerateOutfitFailures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind domain.ErrorKind
		wantMsg  string
	}{
		{name: "relay message", status: http.StatusTooManyRequests, body: `{"success":false,"error":"Rate limit exceeded. Please try again later."}`,
			wantKind: domain.KindRateLimited, wantMsg: "Rate limit exceeded. Please try again later."},
		{name: "no body", status: http.StatusBadGateway, body: ``,
			wantKind: domain.KindUpstream, wantMsg: "API error: 502"},
		{name: "html body", status: http.StatusInternalServerError, body: `<html>oops</html>`,
			wantKind: domain.KindUpstream, wantMsg: "API error: 500"},
		{name: "bad request", status: http.StatusBadRequest, body: `{"success":false,"error":"Valid style is required. Supported styles: casual"}`,
			wantKind: domain.KindInvalidInput, wantMsg: "Valid style is required. Supported styles: casual"},
		{name: "ok without success", status: http.StatusOK, body: `{"success":false}`,
			wantKind: domain.KindUpstream, wantMsg: "Failed to generate outfit"},
		{name: "ok without image", status: http.StatusOK, body: `{"success":true}`,
			wantKind: domain.KindUpstream, wantMsg: "Failed to generate outfit"},
		{name: "ok with error", status: http.StatusOK, body: `{"success":false,"error":"provider busy"}`,
			wantKind: domain.KindUpstream, wantMsg: "provider busy"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newRelayServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			_, err := c.GenerateOutfit(context.Background(), "x", "casual")
			var de *domain.Error
			if !errors.As(err, &de) {
				t.Fatalf("err = %v, want *domain.Error", err)
			}
			if de.Kind != tc.wantKind {
				t.Fatalf("kind = %s, want %s", de.Kind, tc.wantKind)
			}
			if got := domain.Localize("en", err); got != tc.wantMsg {
				t.Fatalf("message = %q, want %q", got, tc.wantMsg)
			}
		})
	}
}

func TestGenerateOutfitTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := NewRelayClient(Options{BaseURL: base})
	if err != nil {
		t.Fatalf("NewRelayClient: %v", err)
	}
	if _, err := c.GenerateOutfit(context.Background(), "x", "casual"); !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("err = %v, want upstream", err)
	}
}

func TestStyles(t *testing.T) {
	c := newRelayServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/styles" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"styles":[{"id":"casual","label":"Casual","description":"relaxed"}]}`))
	})
	styles, err := c.Styles(context.Background())
	if err != nil {
		t.Fatalf("Styles: %v", err)
	}
	if len(styles) != 1 || styles[0].ID != domain.StyleCasual || styles[0].Label != "Casual" {
		t.Fatalf("styles = %+v", styles)
	}
}

func TestNewRelayClientRequiresBaseURL(t *testing.T) {
	if _, err := NewRelayClient(Options{}); err == nil {
		t.Fatal("expected error")
	}
}
