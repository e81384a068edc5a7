// Package identity issues and validates (connectionId, password) credential
// pairs. Credentials are stored as argon2id hashes behind a pluggable repo.
package identity

import "context"

// Pair is a freshly issued credential pair. The password leaves the server
// exactly once, in the issuing response; only its hash is stored.
type Pair struct {
	ConnectionId string
	Password     string
}

// CredentialRepo persists credential hashes keyed by connection id.
type CredentialRepo interface {
	// SaveCredential stores the hash under the connection id. Returns
	// ErrDuplicateConnectionId if the id is already taken.
	SaveCredential(ctx context.Context, connectionId, passwordHash string) error
	// GetPasswordHash returns ErrConnectionNotFound for an unknown id.
	GetPasswordHash(ctx context.Context, connectionId string) (string, error)
	DeleteCredential(ctx context.Context, connectionId string) error
}

// PasswordHasher hashes passwords and verifies them against stored hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) (bool, error)
}
