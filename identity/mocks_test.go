package identity

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// --- CredentialRepo ---

type MockCredentialRepo struct {
	mock.Mock
}

func (m *MockCredentialRepo) SaveCredential(ctx context.Context, connectionId, passwordHash string) error {
	args := m.Called(ctx, connectionId, passwordHash)
	return args.Error(0)
}

func (m *MockCredentialRepo) GetPasswordHash(ctx context.Context, connectionId string) (string, error) {
	args := m.Called(ctx, connectionId)
	return args.String(0), args.Error(1)
}

func (m *MockCredentialRepo) DeleteCredential(ctx context.Context, connectionId string) error {
	args := m.Called(ctx, connectionId)
	return args.Error(0)
}

// --- PasswordHasher ---

type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Compare(hash, password string) (bool, error) {
	args := m.Called(hash, password)
	return args.Bool(0), args.Error(1)
}
