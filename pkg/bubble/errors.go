package bubble

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound     = errors.New("bubble: not found")
	ErrUnauthorized = errors.New("bubble: unauthorized")
)

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	switch {
	case e.Status != "" && e.Message != "":
		return fmt.Sprintf("bubble: http %d: %s: %s", e.StatusCode, e.Status, e.Message)
	case e.Message != "":
		return fmt.Sprintf("bubble: http %d: %s", e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("bubble: http %d", e.StatusCode)
	}
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	default:
		return false
	}
}
