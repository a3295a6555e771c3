package marketplace

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// APIError is a structured marketplace rejection: HTTP status plus the
// platform's error code, message and cause list. The error classifier keys
// off the cause codes and the listing's own tags/sub-status, not the HTTP
// status alone.
type APIError struct {
	Status  int        `json:"status"`
	Code    string     `json:"error"`
	Message string     `json:"message"`
	Causes  []APICause `json:"cause,omitempty"`
}

// APICause is one entry in a marketplace error's cause list.
type APICause struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if len(e.Causes) > 0 {
		parts := make([]string, len(e.Causes))
		for i, c := range e.Causes {
			parts[i] = c.Code
		}
		return fmt.Sprintf("marketplace returned %d %s: %s (causes: %s)",
			e.Status, e.Code, e.Message, strings.Join(parts, ", "))
	}
	return fmt.Sprintf("marketplace returned %d %s: %s", e.Status, e.Code, e.Message)
}

// HasCauseCode checks the cause list for the given platform code.
func (e *APIError) HasCauseCode(code string) bool {
	for _, c := range e.Causes {
		if strings.EqualFold(c.Code, code) {
			return true
		}
	}
	return false
}

// CauseCodeContains checks whether any cause code contains the given
// substring, case-insensitively. Platform cause codes are dotted paths
// (e.g. "item.price.invalid") that are more stable matched by fragment.
func (e *APIError) CauseCodeContains(fragment string) bool {
	fragment = strings.ToLower(fragment)
	for _, c := range e.Causes {
		if strings.Contains(strings.ToLower(c.Code), fragment) {
			return true
		}
	}
	return false
}

// IsValidation reports whether the rejection is a 400-class structural or
// validation error.
func (e *APIError) IsValidation() bool {
	return e.Status == http.StatusBadRequest
}

// IsPolicy reports whether the rejection is a policy-class refusal: the
// request was well-formed but the platform will not apply it.
func (e *APIError) IsPolicy() bool {
	return e.Status == http.StatusForbidden || e.Status == http.StatusConflict ||
		e.Status == http.StatusLocked || e.Status == http.StatusUnprocessableEntity
}

// AsAPIError unwraps err into an *APIError if it carries one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// parseAPIError reads a non-2xx marketplace response body into an *APIError.
// An unparseable body still yields an APIError with the raw text as message.
func parseAPIError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("failed to read error body: %v", err)}
	}

	apiErr := APIError{Status: resp.StatusCode}
	if json.Unmarshal(body, &apiErr) != nil || apiErr.Message == "" && apiErr.Code == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	apiErr.Status = resp.StatusCode
	return &apiErr
}
