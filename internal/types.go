package internal

import "encoding/json"

// TranslationRequest is the JSON body of POST /api/translate.
type TranslationRequest struct {
	Text string `json:"text"`
}

// TranslationResponse is the service reply. Both fields are kept as raw JSON
// so callers can tell an absent field from an empty one.
type TranslationResponse struct {
	Translation json.RawMessage `json:"translation,omitempty"`
	Raw         json.RawMessage `json:"raw,omitempty"`
}
