package handlers

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"matchmaking/message"
)

// --- ConnectionIdIssuer ---

type MockIssuer struct {
	mock.Mock
}

func (m *MockIssuer) Issue(ctx context.Context) (string, string, error) {
	args := m.Called(ctx)
	return args.String(0), args.String(1), args.Error(2)
}

// --- dispatch.Session ---

// fakeSession records pushes instead of writing to a socket.
type fakeSession struct {
	mu     sync.Mutex
	pushed []message.Response
}

func (s *fakeSession) SendSync(resp message.Response) error {
	s.record(resp)
	return nil
}

func (s *fakeSession) SendAsync(resp message.Response) {
	s.record(resp)
}

func (s *fakeSession) record(resp message.Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushed = append(s.pushed, resp)
}

func (s *fakeSession) responses() []message.Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]message.Response(nil), s.pushed...)
}
