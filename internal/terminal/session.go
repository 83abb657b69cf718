// Package terminal runs the translate form in a raw-mode terminal.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/valpere/pajajap/internal/controller"
	"github.com/valpere/pajajap/internal/messages"
	"github.com/valpere/pajajap/internal/translator"
	"github.com/valpere/pajajap/internal/ui"
)

type Config struct {
	Catalog *messages.Catalog
	Policy  translator.FallbackPolicy
	Logger  *zap.Logger
}

// Session is an edit buffer bound to the source field. Every key goes to the
// controller first; keys it does not consume edit the buffer.
type Session struct {
	ctrl        *controller.Controller
	catalog     *messages.Catalog
	logger      *zap.Logger
	source      *ui.Field
	translation *ui.Field
	thoughts    *ui.Field
	button      *ui.PushButton

	mu        sync.Mutex
	out       io.Writer
	buf       []rune
	lastLabel string

	wg sync.WaitGroup
}

func NewSession(w io.Writer, svc controller.Translator, cfg Config) *Session {
	if cfg.Catalog == nil {
		cfg.Catalog = messages.Default()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	s := &Session{
		catalog:     cfg.Catalog,
		logger:      cfg.Logger,
		source:      ui.NewField(""),
		translation: ui.NewField(""),
		thoughts:    ui.NewField(""),
		button:      ui.NewPushButton(""),
		out:         w,
	}

	s.ctrl = controller.New(controller.Fields{
		Source:      s.source,
		Translation: s.translation,
		Thoughts:    s.thoughts,
		Button:      s.button,
	}, svc,
		controller.WithCatalog(cfg.Catalog),
		controller.WithFallbackPolicy(cfg.Policy),
		controller.WithLogger(cfg.Logger),
	)

	s.lastLabel = s.button.Label()
	s.translation.OnChange = func(v string) { s.showField(ui.TranslationID, v) }
	s.thoughts.OnChange = func(v string) { s.showField(ui.ThoughtsID, v) }
	s.button.OnChange = s.showButton

	return s
}

func (s *Session) Source() string { return s.source.Value() }

func (s *Session) Translation() string { return s.translation.Value() }

func (s *Session) Thoughts() string { return s.thoughts.Value() }

func (s *Session) State() ui.ButtonState { return s.ctrl.State() }

// Run reads keys from r until Ctrl+C, Ctrl+D or EOF. Translations run in the
// background so typing continues while a request is outstanding. Quitting
// does not abort them: Run waits for every issued request to finish before
// returning. Only cancelling ctx stops a request early.
func (s *Session) Run(ctx context.Context, r io.Reader) error {
	defer s.wg.Wait()

	s.mu.Lock()
	s.writeLine(s.catalog.Text(messages.SessionHelp))
	s.prompt()
	s.mu.Unlock()

	chunk := make([]byte, 256)
	for {
		n, err := r.Read(chunk)
		for _, ev := range Decode(chunk[:n]) {
			if isQuit(ev) {
				s.mu.Lock()
				s.write("\r\n")
				s.mu.Unlock()
				return nil
			}
			if ev.IsTranslateShortcut() {
				s.wg.Add(1)
				go func(ev ui.KeyEvent) {
					defer s.wg.Done()
					if out, _ := s.ctrl.OnSourceKeydown(ctx, ev); out.Kind == controller.KindBusy {
						s.logger.Debug("shortcut ignored while busy")
					}
				}(ev)
				continue
			}
			s.edit(ev)
		}

		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
	}
}

func isQuit(ev ui.KeyEvent) bool {
	return ev.Ctrl && (ev.Key == "c" || ev.Key == "d")
}

func (s *Session) edit(ev ui.KeyEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case ev.Key == ui.KeyEnter && !ev.Alt:
		s.buf = append(s.buf, '\n')
		s.write("\r\n")
	case ev.Key == ui.KeyTab:
		s.buf = append(s.buf, '\t')
		s.write("\t")
	case ev.Key == ui.KeyBackspace:
		if len(s.buf) == 0 {
			return
		}
		last := s.buf[len(s.buf)-1]
		s.buf = s.buf[:len(s.buf)-1]
		if last != '\n' {
			s.write("\b \b")
		}
	case ev.Ctrl || ev.Alt || ev.Key == ui.KeyEscape:
		return
	default:
		s.buf = append(s.buf, []rune(ev.Key)...)
		s.write(ev.Key)
	}

	s.source.SetValue(string(s.buf))
}

func (s *Session) showField(id, v string) {
	if v == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.write("\r\n")
	s.writeLine(id + "> " + v)
}

func (s *Session) showButton(label string, disabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if label == s.lastLabel {
		return
	}
	s.lastLabel = label

	if disabled {
		s.write("\r\n")
		s.writeLine("[" + label + "]")
		return
	}
	s.prompt()
}

// prompt must be called with mu held.
func (s *Session) prompt() {
	s.write(ui.SourceID + "> " + string(s.buf))
}

// writeLine must be called with mu held.
func (s *Session) writeLine(v string) {
	s.write(v + "\r\n")
}

// write must be called with mu held. Bare newlines become CRLF, raw mode
// does not translate them.
func (s *Session) write(v string) {
	v = strings.ReplaceAll(v, "\r\n", "\n")
	v = strings.ReplaceAll(v, "\n", "\r\n")
	if _, err := io.WriteString(s.out, v); err != nil {
		s.logger.Debug("terminal write failed", zap.Error(err))
	}
}

// RunTerminal runs a session on the process terminal, switching stdin to raw
// mode for the duration when it is a TTY.
func RunTerminal(ctx context.Context, svc controller.Translator, cfg Config) error {
	s := NewSession(os.Stdout, svc, cfg)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("failed to enter raw mode: %w", err)
		}
		defer term.Restore(fd, state)
	}

	return s.Run(ctx, os.Stdin)
}
