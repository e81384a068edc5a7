package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"matchmaking/domain"
)

const passwordBytes = 16

// Service issues credential pairs and authenticates requests against the
// stored hashes. It satisfies both the dispatcher's Authenticator and the
// connection id handler's issuer.
type Service struct {
	repo   CredentialRepo
	hasher PasswordHasher
	logger *slog.Logger
}

func NewService(repo CredentialRepo, hasher PasswordHasher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, hasher: hasher, logger: logger}
}

// Issue creates a fresh credential pair and persists its hash. A connection
// id collision is retried with a new id.
func (s *Service) Issue(ctx context.Context) (string, string, error) {
	password, err := newPassword()
	if err != nil {
		return "", "", err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", "", err
	}

	for {
		connectionId := uuid.NewString()
		err := s.repo.SaveCredential(ctx, connectionId, hash)
		if errors.Is(err, ErrDuplicateConnectionId) {
			continue
		}
		if err != nil {
			return "", "", fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
		}

		s.logger.Info("connection id issued", "connection_id", connectionId)
		return connectionId, password, nil
	}
}

// Authenticate validates a credential pair. An unknown id yields a
// *domain.UnknownConnectionIdError, a wrong password a
// *domain.AuthorizationError.
func (s *Service) Authenticate(ctx context.Context, connectionId, password string) error {
	hash, err := s.repo.GetPasswordHash(ctx, connectionId)
	if errors.Is(err, ErrConnectionNotFound) {
		return &domain.UnknownConnectionIdError{ConnectionId: connectionId}
	}
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
	}

	match, err := s.hasher.Compare(hash, password)
	if err != nil {
		return fmt.Errorf("comparing credentials: %w", err)
	}
	if !match {
		return &domain.AuthorizationError{ConnectionId: connectionId}
	}
	return nil
}

// Revoke forgets the credential pair. Revoking an unknown id is a no-op.
func (s *Service) Revoke(ctx context.Context, connectionId string) error {
	err := s.repo.DeleteCredential(ctx, connectionId)
	if err != nil && !errors.Is(err, ErrConnectionNotFound) {
		return fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
	}
	return nil
}

func newPassword() (string, error) {
	buf := make([]byte, passwordBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating password: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
