package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"tailorai/internal/domain"
	"tailorai/internal/infra"
	"tailorai/internal/middleware"
)

// OutfitService is the relay surface the handlers depend on.
type OutfitService interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GeneratedImage, error)
	Catalog() *domain.Catalog
	Provider() string
}

// App carries the dependencies shared by every handler.
type App struct {
	Relay        OutfitService
	Logger       *infra.Logger
	MaxBodyBytes int64
}

// NewApp builds the handler set. A nil logger discards output.
func NewApp(relay OutfitService, logger *infra.Logger, maxBodyBytes int64) *App {
	if logger == nil {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = 50 << 20
	}
	return &App{Relay: relay, Logger: logger, MaxBodyBytes: maxBodyBytes}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// fail writes the {success:false, error} body for err. Operator detail is
// logged and never returned.
func (a *App) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	de := domain.AsError(err)
	if status == 0 {
		status = de.Kind.HTTPStatus()
	}
	log := a.loggerFor(r)
	evt := log.Debug()
	if status >= http.StatusInternalServerError {
		evt = log.Warn()
	}
	evt.Str("kind", string(de.Kind)).
		Str("code", de.Code).
		Str("detail", de.Detail).
		Err(de.Err).
		Int("status", status).
		Msg("request failed")

	a.json(w, status, domain.GenerationResult{
		Success: false,
		Error:   domain.Localize(middleware.LocaleFromContext(r.Context()), de),
	})
}

func (a *App) loggerFor(r *http.Request) *zerolog.Logger {
	if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return a.Logger
}
