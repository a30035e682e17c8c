package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/josephgoksu/BibleWing/internal/llm"
)

// UnknownErrorMessage is reported when a provider failure carries no
// readable message.
const UnknownErrorMessage = "Unknown error"

// ConfigurationError means the selected provider cannot be called as
// configured, typically because its API key is missing.
type ConfigurationError struct {
	Provider llm.Provider
	Reason   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s %s", e.Provider.DisplayName(), e.Reason)
}

// UpstreamAPIError wraps a failed provider call.
type UpstreamAPIError struct {
	Provider llm.Provider
	Message  string
	Err      error
}

func (e *UpstreamAPIError) Error() string {
	return fmt.Sprintf("%s API error: %s", e.Provider.DisplayName(), e.Message)
}

func (e *UpstreamAPIError) Unwrap() error { return e.Err }

func newUpstreamError(p llm.Provider, err error) *UpstreamAPIError {
	msg := ""
	if err != nil {
		msg = extractAPIMessage(err.Error())
	}
	if msg == "" {
		msg = UnknownErrorMessage
	}
	return &UpstreamAPIError{Provider: p, Message: msg, Err: err}
}

// apiErrorPayload covers the error bodies of the supported providers:
// {"error":{"message":"..."}}, {"error":"..."} and {"message":"..."}.
type apiErrorPayload struct {
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
}

var sdkMessageRe = regexp.MustCompile(`message: (.+)$`)

// extractAPIMessage finds the provider's message inside an error string.
// It returns "" when none is present.
func extractAPIMessage(s string) string {
	for i := strings.IndexByte(s, '{'); i >= 0; {
		if msg := decodePayload(s[i:]); msg != "" {
			return msg
		}
		next := strings.IndexByte(s[i+1:], '{')
		if next < 0 {
			break
		}
		i += next + 1
	}
	if m := sdkMessageRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func decodePayload(s string) string {
	var p apiErrorPayload
	if err := json.NewDecoder(bytes.NewReader([]byte(s))).Decode(&p); err != nil {
		return ""
	}
	if len(p.Error) > 0 {
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(p.Error, &nested); err == nil && nested.Message != "" {
			return nested.Message
		}
		var flat string
		if err := json.Unmarshal(p.Error, &flat); err == nil && flat != "" {
			return flat
		}
	}
	return p.Message
}
