package upstream

import (
	"encoding/json"
	"errors"
	"strconv"
)

// Sentinel errors for the two response classes the portal treats specially.
var (
	// ErrUnauthorized marks a 401 from the outlet-management API. The caller
	// surfaces a session-invalid notice instead of a generic failure.
	ErrUnauthorized = errors.New("upstream: unauthorized")

	// ErrNotFound marks a 404; routes render a not-found payload rather than
	// a silent empty screen.
	ErrNotFound = errors.New("upstream: not found")
)

// APIError is the structured error body the outlet-management API returns.
// The message field is sometimes a string and sometimes a list of strings,
// and some endpoints send "error" instead of "message".
type APIError struct {
	StatusCode int      `json:"statusCode"`
	Timestamp  string   `json:"timestamp"`
	Path       string   `json:"path"`
	Messages   []string `json:"-"`
	ErrorField string   `json:"error"`

	wrapped error
}

// UnmarshalJSON tolerates both message shapes.
func (e *APIError) UnmarshalJSON(data []byte) error {
	type alias APIError
	var raw struct {
		alias
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = APIError(raw.alias)

	if len(raw.Message) > 0 {
		var list []string
		if err := json.Unmarshal(raw.Message, &list); err == nil {
			e.Messages = list
		} else {
			var single string
			if err := json.Unmarshal(raw.Message, &single); err == nil && single != "" {
				e.Messages = []string{single}
			}
		}
	}
	return nil
}

func (e *APIError) Error() string {
	return "upstream: " + e.message()
}

func (e *APIError) Unwrap() error {
	return e.wrapped
}

// fallbackMessage is shown when the API gives nothing usable.
const fallbackMessage = "Something went wrong"

// message walks the body's fields in display priority: first message-list
// entry, then the error field, then the numeric status code.
func (e *APIError) message() string {
	if len(e.Messages) > 0 && e.Messages[0] != "" {
		return e.Messages[0]
	}
	if e.ErrorField != "" {
		return e.ErrorField
	}
	if e.StatusCode != 0 {
		return strconv.Itoa(e.StatusCode)
	}
	return fallbackMessage
}

// Message extracts a user-facing message from any error produced by the
// client: first message-list entry, then the scalar message, then the error
// field, then the numeric status code, then a generic fallback.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.message()
	}
	if err != nil && !errors.Is(err, ErrUnauthorized) && !errors.Is(err, ErrNotFound) {
		if msg := err.Error(); msg != "" {
			return msg
		}
	}
	return fallbackMessage
}
