package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/valpere/pajajap/internal"
	"github.com/valpere/pajajap/internal/messages"
	"github.com/valpere/pajajap/internal/translator"
	"github.com/valpere/pajajap/internal/ui"
)

type form struct {
	source      *ui.Field
	translation *ui.Field
	thoughts    *ui.Field
	button      *ui.PushButton
}

func newForm(source string) *form {
	return &form{
		source:      ui.NewField(source),
		translation: ui.NewField("previous translation"),
		thoughts:    ui.NewField("previous thoughts"),
		button:      ui.NewPushButton(""),
	}
}

func (f *form) fields() Fields {
	return Fields{
		Source:      f.source,
		Translation: f.translation,
		Thoughts:    f.thoughts,
		Button:      f.button,
	}
}

type mockTranslator struct {
	mu            sync.Mutex
	translateFunc func(ctx context.Context, req internal.TranslationRequest) (*internal.TranslationResponse, error)
	requests      []internal.TranslationRequest
}

func (m *mockTranslator) Translate(ctx context.Context, req internal.TranslationRequest) (*internal.TranslationResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.translateFunc != nil {
		return m.translateFunc(ctx, req)
	}
	return &internal.TranslationResponse{Translation: json.RawMessage(`"mock"`)}, nil
}

func (m *mockTranslator) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func reply(body string) func(context.Context, internal.TranslationRequest) (*internal.TranslationResponse, error) {
	return func(context.Context, internal.TranslationRequest) (*internal.TranslationResponse, error) {
		var resp internal.TranslationResponse
		if err := json.Unmarshal([]byte(body), &resp); err != nil {
			return nil, err
		}
		return &resp, nil
	}
}

func TestNew_StartsIdle(t *testing.T) {
	f := newForm("")
	c := New(f.fields(), &mockTranslator{})

	assert.Equal(t, ui.Idle, c.State())
	assert.False(t, f.button.Disabled())
	assert.Equal(t, "Translate", f.button.Label())
}

func TestOnTranslateClick_BlankInput(t *testing.T) {
	for _, input := range []string{"", " ", "\t\n  \r\n"} {
		f := newForm(input)
		svc := &mockTranslator{}
		c := New(f.fields(), svc)

		out := c.OnTranslateClick(context.Background())

		assert.Equal(t, KindEmptyInput, out.Kind)
		assert.False(t, out.Sent())
		assert.Zero(t, svc.calls(), "no request for %q", input)
		assert.Equal(t, "previous translation", f.translation.Value())
		assert.Equal(t, "previous thoughts", f.thoughts.Value())
		assert.Equal(t, ui.Idle, c.State())
		assert.Equal(t, "Translate", f.button.Label())
	}
}

func TestOnTranslateClick_Success(t *testing.T) {
	f := newForm("  hello world  ")
	svc := &mockTranslator{translateFunc: reply(`{"translation":"Bonswa","raw":"model reasoning"}`)}
	c := New(f.fields(), svc)

	out := c.OnTranslateClick(context.Background())

	assert.Equal(t, KindNone, out.Kind)
	assert.NotEmpty(t, out.RequestID)
	assert.NoError(t, out.Err)
	assert.Equal(t, "Bonswa", f.translation.Value())
	assert.Equal(t, "model reasoning", f.thoughts.Value())
	assert.Equal(t, ui.Idle, c.State())
	assert.False(t, f.button.Disabled())

	require.Len(t, svc.requests, 1)
	assert.Equal(t, "hello world", svc.requests[0].Text)
}

func TestOnTranslateClick_EmptyReply(t *testing.T) {
	f := newForm("hello")
	c := New(f.fields(), &mockTranslator{translateFunc: reply(`{}`)})

	out := c.OnTranslateClick(context.Background())

	assert.Equal(t, KindApplicationFallback, out.Kind)
	assert.Equal(t, "Error translating", f.translation.Value())
	assert.Equal(t, "", f.thoughts.Value())
	assert.Equal(t, ui.Idle, c.State())
}

func TestOnTranslateClick_FallbackPolicy(t *testing.T) {
	tests := []struct {
		name   string
		policy translator.FallbackPolicy
		body   string
		kind   Kind
		want   string
	}{
		{"presence keeps empty string", translator.PolicyPresence, `{"translation":""}`, KindNone, ""},
		{"truthy drops empty string", translator.PolicyTruthy, `{"translation":""}`, KindApplicationFallback, "Error translating"},
		{"presence rejects number", translator.PolicyPresence, `{"translation":7}`, KindApplicationFallback, "Error translating"},
		{"truthy renders number", translator.PolicyTruthy, `{"translation":7}`, KindNone, "7"},
		{"null is missing", translator.PolicyPresence, `{"translation":null,"raw":null}`, KindApplicationFallback, "Error translating"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newForm("hello")
			c := New(f.fields(), &mockTranslator{translateFunc: reply(tt.body)}, WithFallbackPolicy(tt.policy))

			out := c.OnTranslateClick(context.Background())

			assert.Equal(t, tt.kind, out.Kind)
			assert.Equal(t, tt.want, f.translation.Value())
			assert.Equal(t, "", f.thoughts.Value())
		})
	}
}

func TestOnTranslateClick_TransportFailure(t *testing.T) {
	f := newForm("hello")
	failure := errors.New("dial tcp: connection refused")
	c := New(f.fields(), &mockTranslator{
		translateFunc: func(context.Context, internal.TranslationRequest) (*internal.TranslationResponse, error) {
			return nil, failure
		},
	})

	out := c.OnTranslateClick(context.Background())

	assert.Equal(t, KindTransport, out.Kind)
	assert.ErrorIs(t, out.Err, failure)
	assert.Equal(t, "Error: Could not connect to server", f.translation.Value())
	assert.Equal(t, "dial tcp: connection refused", f.thoughts.Value())
	assert.Equal(t, ui.Idle, c.State())
	assert.False(t, f.button.Disabled())
	assert.Equal(t, "Translate", f.button.Label())
}

func TestOnTranslateClick_BusyWhileInFlight(t *testing.T) {
	f := newForm("hello")
	started := make(chan struct{})
	release := make(chan struct{})
	svc := &mockTranslator{
		translateFunc: func(context.Context, internal.TranslationRequest) (*internal.TranslationResponse, error) {
			close(started)
			<-release
			return &internal.TranslationResponse{Translation: json.RawMessage(`"Bonswa"`)}, nil
		},
	}
	c := New(f.fields(), svc)

	done := make(chan Outcome)
	go func() { done <- c.OnTranslateClick(context.Background()) }()

	<-started
	assert.Equal(t, ui.Busy, c.State())
	assert.True(t, f.button.Disabled())
	assert.Equal(t, "Translating...", f.button.Label())
	assert.Equal(t, "", f.translation.Value())
	assert.Equal(t, "", f.thoughts.Value())

	second := c.OnTranslateClick(context.Background())
	assert.Equal(t, KindBusy, second.Kind)
	assert.False(t, second.Sent())

	_, handled := c.OnSourceKeydown(context.Background(), ui.KeyEvent{Key: ui.KeyEnter, Ctrl: true})
	assert.True(t, handled)

	close(release)
	first := <-done

	assert.Equal(t, KindNone, first.Kind)
	assert.Equal(t, 1, svc.calls())
	assert.Equal(t, ui.Idle, c.State())
	assert.Equal(t, "Bonswa", f.translation.Value())
}

func TestOnSourceKeydown(t *testing.T) {
	tests := []struct {
		name    string
		ev      ui.KeyEvent
		handled bool
	}{
		{"ctrl enter", ui.KeyEvent{Key: ui.KeyEnter, Ctrl: true}, true},
		{"enter", ui.KeyEvent{Key: ui.KeyEnter}, false},
		{"letter", ui.KeyEvent{Key: "a"}, false},
		{"ctrl letter", ui.KeyEvent{Key: "c", Ctrl: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newForm("hello")
			svc := &mockTranslator{translateFunc: reply(`{"translation":"Bonswa"}`)}
			c := New(f.fields(), svc)

			_, handled := c.OnSourceKeydown(context.Background(), tt.ev)

			assert.Equal(t, tt.handled, handled)
			if tt.handled {
				assert.Equal(t, 1, svc.calls())
				assert.Equal(t, "Bonswa", f.translation.Value())
			} else {
				assert.Zero(t, svc.calls())
				assert.Equal(t, "previous translation", f.translation.Value())
			}
		})
	}
}

func TestOnSourceKeydown_MatchesClick(t *testing.T) {
	body := `{"translation":"Bonswa","raw":"model reasoning"}`

	clicked := newForm(" hello ")
	New(clicked.fields(), &mockTranslator{translateFunc: reply(body)}).OnTranslateClick(context.Background())

	keyed := newForm(" hello ")
	New(keyed.fields(), &mockTranslator{translateFunc: reply(body)}).
		OnSourceKeydown(context.Background(), ui.KeyEvent{Key: ui.KeyEnter, Ctrl: true})

	assert.Equal(t, clicked.translation.Value(), keyed.translation.Value())
	assert.Equal(t, clicked.thoughts.Value(), keyed.thoughts.Value())
	assert.Equal(t, clicked.button.Label(), keyed.button.Label())
	assert.Equal(t, clicked.button.Disabled(), keyed.button.Disabled())
}

func TestController_WithCatalog(t *testing.T) {
	f := newForm("hello")
	c := New(f.fields(), &mockTranslator{translateFunc: reply(`{}`)}, WithCatalog(messages.New("fr", nil)))

	assert.Equal(t, "Traduire", f.button.Label())

	c.OnTranslateClick(context.Background())
	assert.Equal(t, "Erreur de traduction", f.translation.Value())
}

func TestController_LogsRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	f := newForm("hello")
	c := New(f.fields(), &mockTranslator{}, WithLogger(zap.New(core)))

	out := c.OnTranslateClick(context.Background())

	entries := logs.FilterMessage("translation finished").All()
	require.Len(t, entries, 1)
	assert.Equal(t, out.RequestID, entries[0].ContextMap()["request_id"])
	assert.Equal(t, "none", entries[0].ContextMap()["kind"])
}

// The tests below run the form against the real HTTP client.

func TestController_HTTP_RequestBody(t *testing.T) {
	var body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.Write([]byte(`{"translation":"Bonswa","raw":"model reasoning"}`))
	}))
	defer server.Close()

	f := newForm("  hello world  ")
	c := New(f.fields(), translator.NewClient(server.URL, translator.WithHTTPClient(server.Client())))

	out := c.OnTranslateClick(context.Background())

	assert.Equal(t, KindNone, out.Kind)
	assert.Equal(t, `{"text":"hello world"}`, body)
	assert.Equal(t, "Bonswa", f.translation.Value())
	assert.Equal(t, "model reasoning", f.thoughts.Value())
}

func TestController_HTTP_BusyBeforeReply(t *testing.T) {
	received := make(chan struct{})
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(received)
		<-release
		w.Write([]byte(`{"translation":"Bonswa"}`))
	}))
	defer server.Close()

	f := newForm("hello")
	c := New(f.fields(), translator.NewClient(server.URL, translator.WithHTTPClient(server.Client())))

	done := make(chan Outcome)
	go func() { done <- c.OnTranslateClick(context.Background()) }()

	select {
	case <-received:
	case <-time.After(5 * time.Second):
		t.Fatal("request never reached the server")
	}
	assert.Equal(t, ui.Busy, c.State())
	assert.True(t, f.button.Disabled())

	close(release)
	out := <-done
	assert.Equal(t, KindNone, out.Kind)
	assert.Equal(t, ui.Idle, c.State())
}

func TestController_HTTP_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Internal Server Error"))
	}))
	defer server.Close()

	f := newForm("hello")
	c := New(f.fields(), translator.NewClient(server.URL, translator.WithHTTPClient(server.Client())))

	out := c.OnTranslateClick(context.Background())

	assert.Equal(t, KindTransport, out.Kind)
	assert.Equal(t, "Error: Could not connect to server", f.translation.Value())
	assert.NotEmpty(t, f.thoughts.Value())
	assert.Equal(t, ui.Idle, c.State())
}

func TestController_HTTP_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	f := newForm("hello")
	c := New(f.fields(), translator.NewClient(url))

	out := c.OnTranslateClick(context.Background())

	var terr *translator.Error
	assert.ErrorAs(t, out.Err, &terr)
	assert.Equal(t, KindTransport, out.Kind)
	assert.Equal(t, "Error: Could not connect to server", f.translation.Value())
	assert.NotEmpty(t, f.thoughts.Value())
	assert.False(t, f.button.Disabled())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "transport_failure", KindTransport.String())
	assert.Equal(t, "application_fallback", KindApplicationFallback.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
