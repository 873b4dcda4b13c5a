package api

import "net/http"

// Error is an error carrying the HTTP status it should be answered with.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

func NewBadRequestError(message string) *Error {
	return &Error{StatusCode: http.StatusBadRequest, Message: message}
}

func NewInternalServerError(message string) *Error {
	return &Error{StatusCode: http.StatusInternalServerError, Message: message}
}

func NewBadGatewayError(message string) *Error {
	return &Error{StatusCode: http.StatusBadGateway, Message: message}
}

func NewGatewayTimeout(message string) *Error {
	return &Error{StatusCode: http.StatusGatewayTimeout, Message: message}
}
