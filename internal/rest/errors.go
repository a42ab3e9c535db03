package rest

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/logicalclocks/hopsworks-go/internal/domain"
)

// APIError is a non-2xx backend response. The backend reports errors in a
// fixed envelope with a numeric error code and user/dev messages.
type APIError struct {
	StatusCode int
	URL        string
	ErrorCode  int    `json:"errorCode"`
	ErrorMsg   string `json:"errorMsg"`
	UserMsg    string `json:"usrMsg"`
	DevMsg     string `json:"devMsg"`
}

func (e *APIError) Error() string {
	msg := e.ErrorMsg
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.ErrorCode != 0 {
		return fmt.Sprintf("backend error %d (code %d) on %s: %s", e.StatusCode, e.ErrorCode, e.URL, msg)
	}
	return fmt.Sprintf("backend error %d on %s: %s", e.StatusCode, e.URL, msg)
}

// Unwrap maps 404 responses onto domain.ErrNotFound so callers can use
// errors.Is without inspecting status codes.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	return nil
}

func newAPIError(status int, url string, body []byte) error {
	apiErr := &APIError{StatusCode: status, URL: url}
	// Best effort: the envelope is absent on some proxy-level failures.
	_ = json.Unmarshal(body, apiErr)
	return apiErr
}
