package dispatch

import (
	"context"
	"net"

	"github.com/stretchr/testify/mock"

	"matchmaking/message"
)

// --- Authenticator ---

type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, connectionId, password string) error {
	args := m.Called(ctx, connectionId, password)
	return args.Error(0)
}

// --- Session ---

type MockSession struct {
	mock.Mock
}

func (m *MockSession) SendSync(resp message.Response) error {
	args := m.Called(resp)
	return args.Error(0)
}

func (m *MockSession) SendAsync(resp message.Response) {
	m.Called(resp)
}

// --- Handler ---

type stubHandler struct {
	handles       string
	needsAuth     bool
	resp          message.Response
	err           error
	closedCount   int
	handledCount  int
	requiresSess  bool
	sessResp      message.Response
	sessErr       error
	sessionCalled bool
}

func (h *stubHandler) CanHandle(req message.Request) bool {
	return req.MessageType() == h.handles
}

func (h *stubHandler) NeedsAuthentication(message.Request) bool {
	return h.needsAuth
}

func (h *stubHandler) Handle(context.Context, message.Request, net.IP, net.IP) (message.Response, error) {
	h.handledCount++
	return h.resp, h.err
}

func (h *stubHandler) OnSessionClosed(Session) {
	h.closedCount++
}

type stubSessionHandler struct {
	stubHandler
}

func (h *stubSessionHandler) RequiresSession(message.Request) bool {
	return h.requiresSess
}

func (h *stubSessionHandler) HandleWithSession(context.Context, message.Request, Session) (message.Response, error) {
	h.sessionCalled = true
	return h.sessResp, h.sessErr
}
