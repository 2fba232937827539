package image

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/disintegration/imaging"
	"golang.org/x/oauth2"

	"tailorai/internal/domain"
)

func TestVertexBuilderEndpoint(t *testing.T) {
	b, err := NewVertexBuilder(VertexOptions{ProjectID: "demo", TokenSource: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "t"})})
	if err != nil {
		t.Fatalf("NewVertexBuilder: %v", err)
	}
	want := "https://us-central1-aiplatform.googleapis.com/v1/projects/demo/locations/us-central1/publishers/google/models/imagen-3.0-inpaint-001:predict"
	if b.Endpoint() != want {
		t.Fatalf("Endpoint = %q, want %q", b.Endpoint(), want)
	}
	if _, err := NewVertexBuilder(VertexOptions{TokenSource: oauth2.StaticTokenSource(&oauth2.Token{})}); err == nil {
		t.Fatal("expected error without project id")
	}
	if _, err := NewVertexBuilder(VertexOptions{ProjectID: "demo"}); err == nil {
		t.Fatal("expected error without token source")
	}
}

func TestVertexGenerateSendsMaskedRequest(t *testing.T) {
	src := encodedImage(t, 30, 50, imaging.JPEG)
	out := encodedImage(t, 30, 50, imaging.PNG)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/projects/demo/locations/europe-west4/publishers/google/models/imagen-test:predict" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer vertex-token" {
			t.Errorf("Authorization = %q", got)
		}
		var body vertexRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
			return
		}
		if len(body.Instances) != 1 {
			t.Errorf("instances = %d", len(body.Instances))
			return
		}
		inst := body.Instances[0]
		if inst.Prompt != "wear streetwear" {
			t.Errorf("prompt = %q", inst.Prompt)
		}
		if inst.Image.BytesBase64Encoded != b64(src) {
			t.Errorf("image bytes mismatch")
		}
		mask, err := base64.StdEncoding.DecodeString(inst.Mask.BytesBase64Encoded)
		if err != nil {
			t.Errorf("mask base64: %v", err)
		}
		if w, h, err := ImageDimensions(mask); err != nil || w != 30 || h != 50 {
			t.Errorf("mask dimensions = %dx%d (%v)", w, h, err)
		}
		p := body.Parameters
		if p.SampleCount != 1 || p.PersonGeneration != "allow_adult" || p.AspectRatio != "1:1" {
			t.Errorf("parameters = %+v", p)
		}
		io.WriteString(w, `{"predictions":[{"mimeType":"image/png","bytesBase64Encoded":"`+b64(out)+`"}]}`)
	}))
	defer srv.Close()

	builder, err := NewVertexBuilder(VertexOptions{
		ProjectID:   "demo",
		Location:    "europe-west4",
		Model:       "imagen-test",
		BaseURL:     srv.URL,
		AspectRatio: "1:1",
		TokenSource: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "vertex-token", TokenType: "Bearer"}),
	})
	if err != nil {
		t.Fatalf("NewVertexBuilder: %v", err)
	}
	gen, err := NewHTTPGenerator(Options{Name: "vertex", Builder: builder, Extractors: VertexExtractors(), HTTPClient: srv.Client()})
	if err != nil {
		t.Fatalf("NewHTTPGenerator: %v", err)
	}
	payload, err := gen.Generate(context.Background(), SourceImage{MIME: "image/jpeg", Data: src}, "wear streetwear")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if payload.MIMEType != "image/png" {
		t.Fatalf("MIMEType = %q", payload.MIMEType)
	}
}

type failingTokenSource struct{}

func (failingTokenSource) Token() (*oauth2.Token, error) { return nil, errors.New("invalid_grant") }

func TestVertexBuildTokenFailureIsAuthError(t *testing.T) {
	builder, err := NewVertexBuilder(VertexOptions{ProjectID: "demo", TokenSource: failingTokenSource{}})
	if err != nil {
		t.Fatalf("NewVertexBuilder: %v", err)
	}
	_, err = builder.Build(context.Background(), SourceImage{Data: encodedImage(t, 4, 4, imaging.PNG)}, "p")
	if !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestVertexBuildRejectsUndecodableImage(t *testing.T) {
	builder, _ := NewVertexBuilder(VertexOptions{ProjectID: "demo", TokenSource: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "t"})})
	_, err := builder.Build(context.Background(), SourceImage{Data: []byte("garbage")}, "p")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestLoadVertexCredentialsMissingFile(t *testing.T) {
	if _, _, err := LoadVertexCredentials(context.Background(), t.TempDir()+"/missing.json"); err == nil {
		t.Fatal("expected error for missing key file")
	}
}
