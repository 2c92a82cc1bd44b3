package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrNotFound marks a lookup by id that yielded no record.
var ErrNotFound = errors.New("record not found")

// ServerError is a non-2xx response carrying a machine-readable message.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
}

// errorBody is the error envelope the backend answers with.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// responseError turns a non-2xx response into the matching error value.
func responseError(resp *http.Response) error {
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}

	message := "Unknown error"
	if body, err := io.ReadAll(resp.Body); err == nil {
		var parsed errorBody
		if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
			message = parsed.Error
		}
	}

	return &ServerError{StatusCode: resp.StatusCode, Message: message}
}
