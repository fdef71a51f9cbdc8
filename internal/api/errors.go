package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// GenericErrorMessage replaces server messages that cannot be read.
const GenericErrorMessage = "Ocorreu um erro na comunicação com o servidor."

// RequestError is returned for every failed request: non-2xx responses and
// transport failures alike. Status is zero when no response was received.
type RequestError struct {
	Err     error
	Message string
	Status  int
}

// Error returns the message meant for the user, unchanged.
func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether the request never got a response.
func (e *RequestError) IsTransport() bool {
	return e.Status == 0
}

type errorBody struct {
	Message string `json:"message"`
}

// parseErrorMessage extracts the message field of an error body.
func parseErrorMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || strings.TrimSpace(eb.Message) == "" {
		return GenericErrorMessage
	}
	return eb.Message
}

// IsAuthFailure reports whether err looks like a rejected or missing token.
// The server has no structured error code, so the message is matched for
// "token" and a 401 status is treated the same way.
func IsAuthFailure(err error) bool {
	if err == nil {
		return false
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		if reqErr.Status == http.StatusUnauthorized {
			return true
		}
		return strings.Contains(strings.ToLower(reqErr.Message), "token")
	}
	return strings.Contains(strings.ToLower(err.Error()), "token")
}
