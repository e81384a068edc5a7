package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// RequestError is the closed taxonomy of failures a request can end with.
// Every value is response-shaped: it carries an HTTP-style status code and a
// human readable message, and the dispatcher turns it into the matching error
// response without losing the request correlation id.
type RequestError interface {
	error
	StatusCode() int
}

// UnknownConnectionIdError reports a connection id the identity service does
// not recognize.
type UnknownConnectionIdError struct {
	ConnectionId string
}

func (e *UnknownConnectionIdError) Error() string {
	return fmt.Sprintf("unknown connection id %q", e.ConnectionId)
}

func (e *UnknownConnectionIdError) StatusCode() int { return http.StatusUnauthorized }

// AuthorizationError reports a recognized connection id with a password that
// does not match.
type AuthorizationError struct {
	ConnectionId string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("incorrect password for connection id %q", e.ConnectionId)
}

func (e *AuthorizationError) StatusCode() int { return http.StatusForbidden }

// BadRequestError is a handler-level validation failure. Handlers do not
// build it themselves; they return an InvalidArgumentError and the dispatcher
// wraps it.
type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string   { return e.Message }
func (e *BadRequestError) StatusCode() int { return http.StatusBadRequest }

// NotAllowedError is a business-rule rejection returned directly by a
// handler, for example a non-host attempting a host-only action.
type NotAllowedError struct {
	Message      string
	ConnectionId string
}

func (e *NotAllowedError) Error() string   { return e.Message }
func (e *NotAllowedError) StatusCode() int { return http.StatusForbidden }

// InternalServerError covers every failure no other taxonomy member claims,
// including the no-handler-produced-a-response condition.
type InternalServerError struct {
	Message string
}

func (e *InternalServerError) Error() string   { return e.Message }
func (e *InternalServerError) StatusCode() int { return http.StatusInternalServerError }

// InvalidArgumentError marks malformed request input. It is not part of the
// response taxonomy itself; the dispatcher remaps it to a BadRequestError
// whose message is "<kind>, <message>".
type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string { return e.Message }

// ErrUnexpectedDatabase wraps storage failures that have no domain meaning.
var ErrUnexpectedDatabase = errors.New("unexpected-database-error")
