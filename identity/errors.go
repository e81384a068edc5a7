package identity

import "errors"

var (
	ErrConnectionNotFound    = errors.New("connection-not-found")
	ErrDuplicateConnectionId = errors.New("duplicate-connection-id")
)
