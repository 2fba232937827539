package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"tailorai/internal/domain"
	"tailorai/internal/history"
	"tailorai/internal/infra"
)

// State is a step of one generation attempt.
type State string

const (
	StateIdle             State = "idle"
	StatePreparingImage   State = "preparing_image"
	StateAwaitingResponse State = "awaiting_response"
	StateSucceeded        State = "succeeded"
	StateFailed           State = "failed"
)

var (
	// ErrBusy is returned when Generate is called while an attempt is in flight.
	ErrBusy = errors.New("client: a generation is already in progress")
	// ErrNotConfirmed is returned when ClearHistory is called without confirmation.
	ErrNotConfirmed = errors.New("client: clearing history requires confirmation")
)

// OutfitGenerator is the relay call the controller makes once per attempt.
type OutfitGenerator interface {
	GenerateOutfit(ctx context.Context, image, style string) (string, error)
}

// ControllerOptions wires a Controller. History and Catalog are optional.
type ControllerOptions struct {
	Relay        OutfitGenerator
	Reader       ImageReader
	History      *history.History
	Catalog      *domain.Catalog
	Locale       string
	Logger       *infra.Logger
	OnTransition func(from, to State)
}

// View is what the user sees: the current selection and the last outcome.
type View struct {
	State          State
	ImageRef       string
	Style          string
	OriginalImage  string
	GeneratedImage string
	Error          string
	Busy           bool
}

// Controller runs the select, generate, show and record flow. At most one
// generation is in flight at a time.
type Controller struct {
	relay        OutfitGenerator
	reader       ImageReader
	history      *history.History
	catalog      *domain.Catalog
	locale       string
	logger       *infra.Logger
	onTransition func(from, to State)

	mu   sync.Mutex
	view View
}

// NewController validates opts. A nil Reader reads from the filesystem.
func NewController(opts ControllerOptions) (*Controller, error) {
	if opts.Relay == nil {
		return nil, errors.New("client: relay is required")
	}
	reader := opts.Reader
	if reader == nil {
		reader = FileReader{}
	}
	locale := opts.Locale
	if locale == "" {
		locale = domain.DefaultLocale
	}
	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}
	return &Controller{
		relay:        opts.Relay,
		reader:       reader,
		history:      opts.History,
		catalog:      opts.Catalog,
		locale:       locale,
		logger:       logger,
		onTransition: opts.OnTransition,
		view:         View{State: StateIdle},
	}, nil
}

// SelectImage picks a local image. Any restored or generated result is dropped.
func (c *Controller) SelectImage(ref string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.ImageRef = ref
	c.view.OriginalImage = ""
	c.view.GeneratedImage = ""
	c.view.Error = ""
}

// SelectStyle picks a style, checked against the catalog when one is set.
func (c *Controller) SelectStyle(id string) error {
	if c.catalog != nil {
		s, ok := c.catalog.Lookup(id)
		if !ok {
			joined := c.catalog.Joined()
			return &domain.Error{Kind: domain.KindInvalidInput, Code: domain.CodeStyleInvalid, Args: []any{joined}}
		}
		id = string(s.ID)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.Style = id
	return nil
}

// Generate runs one attempt: read and encode the image, call the relay once,
// record the result. The selection survives a failure so the user can retry.
// A history write failure is returned alongside a successful result.
func (c *Controller) Generate(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.view.Busy {
		c.mu.Unlock()
		return "", ErrBusy
	}
	ref, style, original := c.view.ImageRef, c.view.Style, c.view.OriginalImage
	if (ref == "" && original == "") || style == "" {
		c.mu.Unlock()
		return "", &domain.Error{Kind: domain.KindInvalidInput, Code: domain.CodeMissingChoice}
	}
	c.view.Busy = true
	c.view.Error = ""
	c.view.GeneratedImage = ""
	c.transitionLocked(StatePreparingImage)
	c.mu.Unlock()

	if ref != "" {
		data, err := c.reader.ReadImage(ref)
		if err != nil {
			return "", c.fail(&domain.Error{Kind: domain.KindClientIO, Code: domain.CodeImageReadFail, Err: err})
		}
		original = EncodeImage(data)
	}

	c.mu.Lock()
	c.view.OriginalImage = original
	c.transitionLocked(StateAwaitingResponse)
	c.mu.Unlock()

	generated, err := c.relay.GenerateOutfit(ctx, original, style)
	if err != nil {
		return "", c.fail(err)
	}

	var histErr error
	if c.history != nil {
		if _, err := c.history.Add(ctx, original, generated, style); err != nil {
			c.logger.Warn().Err(err).Msg("client: could not record history entry")
			histErr = fmt.Errorf("client: save history: %w", err)
		}
	}

	c.mu.Lock()
	c.view.GeneratedImage = generated
	c.transitionLocked(StateSucceeded)
	c.view.Busy = false
	c.transitionLocked(StateIdle)
	c.mu.Unlock()
	return generated, histErr
}

func (c *Controller) fail(err error) error {
	c.logger.Debug().Err(err).Msg("client: generation failed")
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.Error = domain.Localize(c.locale, err)
	c.transitionLocked(StateFailed)
	c.view.Busy = false
	c.transitionLocked(StateIdle)
	return err
}

func (c *Controller) transitionLocked(to State) {
	from := c.view.State
	c.view.State = to
	if c.onTransition != nil {
		c.onTransition(from, to)
	}
}

// Restore re-populates the view from a history entry without calling the relay.
func (c *Controller) Restore(id string) (history.Entry, error) {
	if c.history == nil {
		return history.Entry{}, history.ErrNotFound
	}
	entry, err := c.history.Get(id)
	if err != nil {
		return history.Entry{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.view.Busy {
		return history.Entry{}, ErrBusy
	}
	c.view.ImageRef = ""
	c.view.OriginalImage = entry.OriginalImage
	c.view.GeneratedImage = entry.GeneratedImage
	c.view.Style = entry.Style
	c.view.Error = ""
	return entry, nil
}

// ClearHistory empties the in-memory and persisted history. It is destructive
// and refuses to run unless confirmed.
func (c *Controller) ClearHistory(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	if c.history == nil {
		return nil
	}
	return c.history.Clear(ctx)
}

// History lists recorded entries, most recent first.
func (c *Controller) History() []history.Entry {
	if c.history == nil {
		return nil
	}
	return c.history.List()
}

// View returns a snapshot of the current view.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}
