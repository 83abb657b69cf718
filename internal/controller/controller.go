// Package controller implements the translate form: it reads the source
// field, calls the translation service and fills the two output fields while
// driving the button through its Idle and Busy states.
package controller

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/valpere/pajajap/internal"
	"github.com/valpere/pajajap/internal/messages"
	"github.com/valpere/pajajap/internal/translator"
	"github.com/valpere/pajajap/internal/ui"
)

// Translator is the part of the translation client the form needs.
type Translator interface {
	Translate(ctx context.Context, req internal.TranslationRequest) (*internal.TranslationResponse, error)
}

// Fields are the form's collaborators.
type Fields struct {
	Source      ui.TextField
	Translation ui.TextField
	Thoughts    ui.TextField
	Button      ui.Button
}

type Controller struct {
	fields   Fields
	svc      Translator
	catalog  *messages.Catalog
	policy   translator.FallbackPolicy
	logger   *zap.Logger
	inFlight atomic.Bool

	// mu serialises widget writes between concurrent callers.
	mu    sync.Mutex
	state ui.ButtonState
}

type Option func(*Controller)

func WithCatalog(c *messages.Catalog) Option {
	return func(ctrl *Controller) {
		if c != nil {
			ctrl.catalog = c
		}
	}
}

func WithFallbackPolicy(p translator.FallbackPolicy) Option {
	return func(ctrl *Controller) {
		ctrl.policy = p
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(ctrl *Controller) {
		if l != nil {
			ctrl.logger = l
		}
	}
}

// New wires a controller to its widgets and resets the button to Idle.
func New(fields Fields, svc Translator, opts ...Option) *Controller {
	c := &Controller{
		fields:  fields,
		svc:     svc,
		catalog: messages.Default(),
		policy:  translator.PolicyPresence,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.setState(ui.Idle)
	return c
}

func (c *Controller) State() ui.ButtonState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// OnTranslateClick runs one translate action. It blocks until the request
// finishes; failures are written to the output fields and reported in the
// Outcome, never returned as errors.
func (c *Controller) OnTranslateClick(ctx context.Context) Outcome {
	text := strings.TrimSpace(c.fields.Source.Value())
	if text == "" {
		return Outcome{Kind: KindEmptyInput}
	}

	if !c.inFlight.CompareAndSwap(false, true) {
		c.logger.Debug("translate ignored, request in flight", zap.String("element", ui.ButtonID))
		return Outcome{Kind: KindBusy}
	}
	defer c.inFlight.Store(false)

	out := Outcome{RequestID: uuid.New().String()}
	log := c.logger.With(zap.String("request_id", out.RequestID))

	c.mu.Lock()
	c.applyState(ui.Busy)
	c.fields.Translation.SetValue("")
	c.fields.Thoughts.SetValue("")
	c.mu.Unlock()

	log.Info("translating", zap.String("element", ui.SourceID), zap.Int("chars", len(text)))

	resp, err := c.svc.Translate(ctx, internal.TranslationRequest{Text: text})

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		out.Kind = KindTransport
		out.Err = err
		out.Translation = c.catalog.Text(messages.ConnectionError)
		out.Raw = err.Error()
		log.Warn("translation request failed", zap.Stringer("kind", out.Kind), zap.Error(err))
	} else {
		if resp == nil {
			resp = &internal.TranslationResponse{}
		}
		translation, ok := c.policy.Field(resp.Translation)
		if ok {
			out.Kind = KindNone
			out.Translation = translation
		} else {
			out.Kind = KindApplicationFallback
			out.Translation = c.catalog.Text(messages.TranslationFallback)
		}
		out.Raw, _ = c.policy.Field(resp.Raw)
		log.Info("translation finished", zap.Stringer("kind", out.Kind), zap.Int("raw_chars", len(out.Raw)))
	}

	c.fields.Translation.SetValue(out.Translation)
	c.fields.Thoughts.SetValue(out.Raw)
	c.applyState(ui.Idle)

	return out
}

// OnSourceKeydown handles a key press in the source field. Control+Enter acts
// as a button click; handled reports whether the key was consumed.
func (c *Controller) OnSourceKeydown(ctx context.Context, ev ui.KeyEvent) (out Outcome, handled bool) {
	if !ev.IsTranslateShortcut() {
		return Outcome{}, false
	}
	return c.OnTranslateClick(ctx), true
}

func (c *Controller) setState(s ui.ButtonState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyState(s)
}

// applyState must be called with mu held.
func (c *Controller) applyState(s ui.ButtonState) {
	c.state = s
	switch s {
	case ui.Busy:
		c.fields.Button.SetDisabled(true)
		c.fields.Button.SetLabel(c.catalog.Text(messages.ButtonBusy))
	default:
		c.fields.Button.SetDisabled(false)
		c.fields.Button.SetLabel(c.catalog.Text(messages.ButtonIdle))
	}
}
