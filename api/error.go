package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	go_json "github.com/goccy/go-json"
)

// HTTPError is returned for any response with status >= 400.
type HTTPError struct {
	StatusCode int
	// Response has an already drained body; RawBody holds its bytes.
	Response *http.Response
	// Body is the decoded JSON body, or the raw text when it is not JSON.
	Body    any
	RawBody []byte
}

func (e *HTTPError) Error() string {
	if len(e.RawBody) == 0 {
		return fmt.Sprintf("line api: %d", e.StatusCode)
	}
	return fmt.Sprintf("line api: %d %s", e.StatusCode, bytes.TrimSpace(e.RawBody))
}

// Message returns the "message" field of a JSON error body, if any.
func (e *HTTPError) Message() string {
	if m, ok := e.Body.(map[string]any); ok {
		if msg, ok := m["message"].(string); ok {
			return msg
		}
	}
	return ""
}

func AsHTTPError(err error) *HTTPError {
	var e *HTTPError
	if errors.As(err, &e) {
		return e
	}
	return nil
}

func parseHTTPError(resp *http.Response) error {
	apiErr := &HTTPError{
		StatusCode: resp.StatusCode,
		Response:   resp,
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiErr
	}
	apiErr.RawBody = data

	var body any
	if err := go_json.Unmarshal(data, &body); err != nil {
		apiErr.Body = string(data)
		return apiErr
	}
	apiErr.Body = body
	return apiErr
}
