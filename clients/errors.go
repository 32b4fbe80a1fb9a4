package clients

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx backend response. Body is kept raw so callers can
// decode whatever shape the endpoint returned.
type APIError struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API returned status code: %d, response: %s", e.StatusCode, string(e.Body))
}

// AsAPIError unwraps err into an *APIError if there is one in the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// errorBody covers the two error shapes the backend produces: a plain string
// detail, or a FastAPI-style list of validation issues.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type validationIssue struct {
	Msg string `json:"msg"`
}

// ParseAPIMessage derives a human-readable message from a failed request.
// It accepts either {"detail": "..."} or {"detail": [{"msg": "..."}, ...]}
// and always returns a non-empty string, falling back to fallback when the
// body carries nothing usable (or err is not an API error at all).
func ParseAPIMessage(err error, fallback string) string {
	apiErr, ok := AsAPIError(err)
	if !ok {
		return fallback
	}

	var body errorBody
	if json.Unmarshal(apiErr.Body, &body) != nil || len(body.Detail) == 0 {
		return fallback
	}

	var detail string
	if json.Unmarshal(body.Detail, &detail) == nil {
		if detail = strings.TrimSpace(detail); detail != "" {
			return detail
		}
		return fallback
	}

	var issues []validationIssue
	if json.Unmarshal(body.Detail, &issues) == nil && len(issues) > 0 {
		if msg := strings.TrimSpace(issues[0].Msg); msg != "" {
			return msg
		}
	}
	return fallback
}
