package controller

// Kind classifies how a translate action ended.
type Kind int

const (
	// KindNone means the service returned a translation.
	KindNone Kind = iota
	// KindEmptyInput means the source text was blank and nothing was sent.
	KindEmptyInput
	// KindBusy means another request was still running and nothing was sent.
	KindBusy
	// KindTransport means the request could not be completed or its body
	// was not valid JSON.
	KindTransport
	// KindApplicationFallback means the service replied without a
	// translation.
	KindApplicationFallback
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindEmptyInput:
		return "empty_input"
	case KindBusy:
		return "busy"
	case KindTransport:
		return "transport_failure"
	case KindApplicationFallback:
		return "application_fallback"
	default:
		return "unknown"
	}
}

// Outcome describes one translate action. Translation and Raw are the values
// written to the output fields; they are empty when nothing was written.
type Outcome struct {
	Kind        Kind
	RequestID   string
	Translation string
	Raw         string
	Err         error
}

// Sent reports whether a request was issued.
func (o Outcome) Sent() bool {
	return o.Kind != KindEmptyInput && o.Kind != KindBusy
}
