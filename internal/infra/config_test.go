package infra

import (
	"path/filepath"
	"testing"
	"time"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "PORT", "IMAGE_PROVIDER", "GOOGLE_SERVICE_ACCOUNT_JSON", "STABILITY_API_KEY",
		"GEMINI_API_KEY", "UPSTREAM_TIMEOUT_SECONDS", "MAX_BODY_MB", "CORS_ALLOWED_ORIGINS",
		"STABILITY_IMAGE_STRENGTH",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "/secrets/sa.json")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "3001" {
		t.Fatalf("Port = %q, want 3001", cfg.Port)
	}
	if cfg.ImageProvider != ProviderVertex {
		t.Fatalf("ImageProvider = %q, want vertex", cfg.ImageProvider)
	}
	if cfg.Vertex.Location != "us-central1" || cfg.Vertex.Model != "imagen-3.0-inpaint-001" {
		t.Fatalf("unexpected vertex defaults: %+v", cfg.Vertex)
	}
	if cfg.UpstreamTimeout != 120*time.Second {
		t.Fatalf("UpstreamTimeout = %s", cfg.UpstreamTimeout)
	}
	if cfg.MaxBodyBytes != 50<<20 {
		t.Fatalf("MaxBodyBytes = %d", cfg.MaxBodyBytes)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("CORSAllowedOrigins = %#v", cfg.CORSAllowedOrigins)
	}
	if cfg.Stability.ImageStrength != 0.35 {
		t.Fatalf("ImageStrength = %v", cfg.Stability.ImageStrength)
	}
}

func TestLoadConfigProviderCredentials(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		env      map[string]string
		wantErr  bool
	}{
		{name: "vertex missing", provider: "vertex", wantErr: true},
		{name: "stability missing", provider: "stability", wantErr: true},
		{name: "stability ok", provider: "Stability", env: map[string]string{"STABILITY_API_KEY": "sk"}},
		{name: "gemini missing", provider: "gemini", wantErr: true},
		{name: "gemini ok", provider: "gemini", env: map[string]string{"GEMINI_API_KEY": "g"}},
		{name: "synthetic", provider: "synthetic"},
		{name: "unknown", provider: "dalle", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearProviderEnv(t)
			t.Setenv("IMAGE_PROVIDER", tc.provider)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			if tc.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("IMAGE_PROVIDER", "synthetic")
	t.Setenv("UPSTREAM_TIMEOUT_SECONDS", "0")
	t.Setenv("MAX_BODY_MB", "8")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.UpstreamTimeout != 0 {
		t.Fatalf("UpstreamTimeout = %s, want 0", cfg.UpstreamTimeout)
	}
	if cfg.MaxBodyBytes != 8<<20 {
		t.Fatalf("MaxBodyBytes = %d", cfg.MaxBodyBytes)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.CORSAllowedOrigins) != len(want) {
		t.Fatalf("CORSAllowedOrigins = %#v", cfg.CORSAllowedOrigins)
	}
	for i := range want {
		if cfg.CORSAllowedOrigins[i] != want[i] {
			t.Fatalf("CORSAllowedOrigins[%d] = %q", i, cfg.CORSAllowedOrigins[i])
		}
	}
}

func TestLoadClientConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TAILOR_API_URL", "http://relay.local:3001/")
	t.Setenv("HISTORY_BACKEND", "bolt")
	t.Setenv("HISTORY_PATH", dir)
	t.Setenv("CLIENT_TIMEOUT_SECONDS", "")

	cfg, err := LoadClientConfig()
	if err != nil {
		t.Fatalf("LoadClientConfig returned error: %v", err)
	}
	if cfg.APIURL != "http://relay.local:3001" {
		t.Fatalf("APIURL = %q", cfg.APIURL)
	}
	if cfg.HistoryPath != dir || cfg.HistoryBackend != HistoryBackendBolt {
		t.Fatalf("unexpected history config: %+v", cfg)
	}
	if cfg.Timeout != 0 {
		t.Fatalf("Timeout = %s, want 0", cfg.Timeout)
	}

	t.Setenv("HISTORY_BACKEND", "postgres")
	t.Setenv("HISTORY_DATABASE_URL", "")
	if _, err := LoadClientConfig(); err == nil {
		t.Fatal("expected error without HISTORY_DATABASE_URL")
	}

	t.Setenv("HISTORY_BACKEND", "file")
	t.Setenv("HISTORY_PATH", "")
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	cfg, err = LoadClientConfig()
	if err != nil {
		t.Fatalf("LoadClientConfig returned error: %v", err)
	}
	if filepath.Base(cfg.HistoryPath) != "tailorai" {
		t.Fatalf("HistoryPath = %q", cfg.HistoryPath)
	}
}
