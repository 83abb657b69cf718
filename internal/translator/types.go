package translator

import (
	"context"
	"errors"
	"fmt"

	"github.com/valpere/pajajap/internal"
)

var (
	ErrEmptyBaseURL = errors.New("base URL is not configured")
	ErrNotObject    = errors.New("response body is not a JSON object")
)

// Service is the contract the translate form depends on.
type Service interface {
	Translate(ctx context.Context, req internal.TranslationRequest) (*internal.TranslationResponse, error)
	Ping(ctx context.Context) error
}

// Error reports a request that could not be completed: the transport failed
// or the response body was not the expected JSON.
type Error struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("translator: %s %s (status %d): %v", e.Op, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("translator: %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
