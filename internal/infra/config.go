package infra

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Image provider identifiers accepted by IMAGE_PROVIDER.
const (
	ProviderVertex    = "vertex"
	ProviderStability = "stability"
	ProviderGemini    = "gemini"
	ProviderSynthetic = "synthetic"
)

// VertexConfig holds the masked-inpainting backend settings.
type VertexConfig struct {
	CredentialsFile string
	ProjectID       string
	Location        string
	Model           string
	BaseURL         string
	AspectRatio     string
}

// StabilityConfig holds the image-to-image diffusion backend settings.
type StabilityConfig struct {
	APIKey        string
	Engine        string
	BaseURL       string
	ImageStrength float64
}

// GeminiConfig holds the multimodal editing backend settings.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Config represents relay configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	ImageProvider      string
	Vertex             VertexConfig
	Stability          StabilityConfig
	Gemini             GeminiConfig
	UpstreamTimeout    time.Duration
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	MaxBodyBytes       int64
	RateLimitPerMin    int
	CORSAllowedOrigins []string
	DefaultLocale      string
	GeoIPDBPath        string
	StyleCatalogPath   string
	SnapshotLimit      int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		Port:          getEnv("PORT", "3001"),
		ImageProvider: strings.ToLower(getEnv("IMAGE_PROVIDER", ProviderVertex)),
		Vertex: VertexConfig{
			CredentialsFile: os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
			ProjectID:       os.Getenv("VERTEX_PROJECT_ID"),
			Location:        getEnv("VERTEX_LOCATION", "us-central1"),
			Model:           getEnv("VERTEX_MODEL", "imagen-3.0-inpaint-001"),
			BaseURL:         os.Getenv("VERTEX_BASE_URL"),
			AspectRatio:     getEnv("VERTEX_ASPECT_RATIO", "1:1"),
		},
		Stability: StabilityConfig{
			APIKey:        os.Getenv("STABILITY_API_KEY"),
			Engine:        getEnv("STABILITY_ENGINE", "stable-diffusion-xl-1024-v1-0"),
			BaseURL:       getEnv("STABILITY_BASE_URL", "https://api.stability.ai"),
			ImageStrength: getEnvFloat("STABILITY_IMAGE_STRENGTH", 0.35),
		},
		Gemini: GeminiConfig{
			APIKey:  os.Getenv("GEMINI_API_KEY"),
			Model:   getEnv("GEMINI_MODEL", "gemini-2.5-flash-image"),
			BaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		},
		UpstreamTimeout:    time.Second * time.Duration(getEnvInt("UPSTREAM_TIMEOUT_SECONDS", 120)),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 30)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 150)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_MB", 50)) << 20,
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		DefaultLocale:      getEnv("DEFAULT_LOCALE", "en"),
		GeoIPDBPath:        os.Getenv("GEOIP_DB_PATH"),
		StyleCatalogPath:   os.Getenv("STYLE_CATALOG_PATH"),
		SnapshotLimit:      getEnvInt("SNAPSHOT_LIMIT", 500),
	}

	switch cfg.ImageProvider {
	case ProviderVertex:
		if cfg.Vertex.CredentialsFile == "" {
			return nil, fmt.Errorf("GOOGLE_SERVICE_ACCOUNT_JSON is required for the vertex provider")
		}
	case ProviderStability:
		if cfg.Stability.APIKey == "" {
			return nil, fmt.Errorf("STABILITY_API_KEY is required for the stability provider")
		}
	case ProviderGemini:
		if cfg.Gemini.APIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
		}
	case ProviderSynthetic:
	default:
		return nil, fmt.Errorf("unknown IMAGE_PROVIDER %q", cfg.ImageProvider)
	}

	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 50 << 20
	}
	if cfg.UpstreamTimeout < 0 {
		cfg.UpstreamTimeout = 0
	}

	return cfg, nil
}

// History persistence backends accepted by HISTORY_BACKEND.
const (
	HistoryBackendFile     = "file"
	HistoryBackendBolt     = "bolt"
	HistoryBackendPostgres = "postgres"
)

// ClientConfig configures the tailor command line client.
type ClientConfig struct {
	AppEnv             string
	APIURL             string
	HistoryBackend     string
	HistoryPath        string
	HistoryDatabaseURL string
	HistoryTable       string
	Timeout            time.Duration
}

// LoadClientConfig reads the client settings from the environment.
func LoadClientConfig() (*ClientConfig, error) {
	cfg := &ClientConfig{
		AppEnv:             getEnv("APP_ENV", "production"),
		APIURL:             strings.TrimRight(getEnv("TAILOR_API_URL", "http://localhost:3001"), "/"),
		HistoryBackend:     strings.ToLower(getEnv("HISTORY_BACKEND", HistoryBackendFile)),
		HistoryPath:        os.Getenv("HISTORY_PATH"),
		HistoryDatabaseURL: os.Getenv("HISTORY_DATABASE_URL"),
		HistoryTable:       getEnv("HISTORY_TABLE", "tailor_client_state"),
		Timeout:            time.Second * time.Duration(getEnvInt("CLIENT_TIMEOUT_SECONDS", 0)),
	}

	switch cfg.HistoryBackend {
	case HistoryBackendFile, HistoryBackendBolt:
		if cfg.HistoryPath == "" {
			dir, err := os.UserConfigDir()
			if err != nil {
				return nil, fmt.Errorf("resolve history dir: %w", err)
			}
			cfg.HistoryPath = filepath.Join(dir, "tailorai")
		}
	case HistoryBackendPostgres:
		if cfg.HistoryDatabaseURL == "" {
			return nil, fmt.Errorf("HISTORY_DATABASE_URL is required for the postgres history backend")
		}
	default:
		return nil, fmt.Errorf("unknown HISTORY_BACKEND %q", cfg.HistoryBackend)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
