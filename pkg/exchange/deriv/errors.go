package deriv

import (
	"errors"
	"fmt"
)

var (
	ErrClosed       = errors.New("connection closed")
	ErrInvalidToken = errors.New("invalid token")
)

// APIError is the error object the trading API attaches to a failed response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	MsgType string `json:"-"`
}

func (e *APIError) Error() string {
	if e.MsgType == "" {
		return fmt.Sprintf("deriv: %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("deriv %s: %s: %s", e.MsgType, e.Code, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrInvalidToken && e.Code == "InvalidToken"
}
