package gateway

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIError is the one normalized error shape for everything that goes wrong
// at the HTTP boundary. A zero StatusCode means the request never got a
// response (transport failure).
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

func (e *APIError) Unwrap() error { return e.Err }

// Transport reports whether the request failed without an HTTP response.
func (e *APIError) Transport() bool { return e.StatusCode == 0 }

// newAPIError maps the backend's error body into APIError. The backend is not
// consistent about its error field, so both shapes are tried here and nowhere
// else.
func newAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return apiErr
	}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			apiErr.Message = payload.Message
		} else if payload.Error != "" {
			apiErr.Message = payload.Error
		}
	}
	return apiErr
}
