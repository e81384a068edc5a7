// Package dispatch routes inbound requests to their handlers, enforces
// authentication against the identity service and normalizes failures into
// the typed error responses.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"matchmaking/domain"
	"matchmaking/message"
)

// NoResponseMessage is the fixed message of the error produced when no
// registered handler can answer a request.
const NoResponseMessage = "No response generated by server"

// ErrNoHandler is returned by Dispatch when no registered handler accepts
// the request.
var ErrNoHandler = errors.New("no handler for request")

// Session is the push channel a socket transport hands to the dispatcher.
// Request/response transports pass nil.
type Session interface {
	// SendSync writes the response and reports delivery failure.
	SendSync(resp message.Response) error
	// SendAsync queues the response without blocking the caller.
	SendAsync(resp message.Response)
}

// Handler answers one kind of request.
type Handler interface {
	CanHandle(req message.Request) bool
	NeedsAuthentication(req message.Request) bool
	Handle(ctx context.Context, req message.Request, ipv4, ipv6 net.IP) (message.Response, error)
	// OnSessionClosed releases any per-session state. Most handlers keep
	// none and implement this as a no-op.
	OnSessionClosed(session Session)
}

// SessionHandler is implemented by handlers that need the push channel.
type SessionHandler interface {
	Handler
	RequiresSession(req message.Request) bool
	HandleWithSession(ctx context.Context, req message.Request, session Session) (message.Response, error)
}

// Authenticator validates a (connectionId, password) pair. It returns a
// *domain.UnknownConnectionIdError for an unrecognized id, a
// *domain.AuthorizationError for a password mismatch, nil when the pair is
// valid.
type Authenticator interface {
	Authenticate(ctx context.Context, connectionId, password string) error
}

// Dispatcher holds an ordered handler registry. The first handler whose
// CanHandle accepts the request wins.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers []Handler
	auth     Authenticator
	logger   *slog.Logger
}

func NewDispatcher(auth Authenticator, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{auth: auth, logger: logger}
}

// RegisterHandler appends the handler to the registry. Registering the same
// handler instance twice is a no-op.
func (d *Dispatcher) RegisterHandler(h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.handlers {
		if existing == h {
			return
		}
	}
	d.handlers = append(d.handlers, h)
}

func (d *Dispatcher) RemoveHandler(h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, existing := range d.handlers {
		if existing == h {
			d.handlers = append(d.handlers[:i], d.handlers[i+1:]...)
			return
		}
	}
}

func (d *Dispatcher) RemoveAllHandlers() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = nil
}

// Dispatch routes the request to the first capable handler. Authentication
// runs before the handler and short-circuits on failure. The returned error
// is either a domain taxonomy error or an unclassified handler failure;
// callers that must always answer use DispatchOrCreateError instead.
func (d *Dispatcher) Dispatch(ctx context.Context, req message.Request, ipv4, ipv6 net.IP, session Session) (message.Response, error) {
	handler := d.findHandler(req)
	if handler == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoHandler, req.MessageType())
	}

	if handler.NeedsAuthentication(req) {
		meta := req.Meta()
		if err := d.auth.Authenticate(ctx, meta.ConnectionId, meta.Password); err != nil {
			d.logger.Info("request rejected",
				"message_type", req.MessageType(),
				"connection_id", meta.ConnectionId,
				"reason", err)
			return nil, err
		}
	}

	if session != nil {
		if sh, ok := handler.(SessionHandler); ok && sh.RequiresSession(req) {
			return sh.HandleWithSession(ctx, req, session)
		}
	}
	return handler.Handle(ctx, req, ipv4, ipv6)
}

// DispatchOrCreateError always produces a response. Taxonomy errors pass
// through shaped as their own response kind; an invalid-argument failure
// becomes a BadRequestError and anything else an InternalServerError, both
// with a "<kind>, <message>" message; a request nobody handles becomes an
// InternalServerError with a fixed message. The response's correlation field
// always echoes the request id.
func (d *Dispatcher) DispatchOrCreateError(ctx context.Context, req message.Request, ipv4, ipv6 net.IP, session Session) message.Response {
	resp, err := d.Dispatch(ctx, req, ipv4, ipv6, session)
	if err == nil {
		return resp
	}

	if errors.Is(err, ErrNoHandler) {
		return message.NewErrorResponse(req, &domain.InternalServerError{Message: NoResponseMessage})
	}

	var reqErr domain.RequestError
	if errors.As(err, &reqErr) {
		return message.NewErrorResponse(req, reqErr)
	}

	var invalid *domain.InvalidArgumentError
	if errors.As(err, &invalid) {
		return message.NewErrorResponse(req, &domain.BadRequestError{
			Message: fmt.Sprintf("invalid argument, %s", invalid.Message),
		})
	}

	d.logger.Error("handler failed",
		"message_type", req.MessageType(),
		"request_id", req.Meta().RequestId,
		"error", err)
	return message.NewErrorResponse(req, &domain.InternalServerError{
		Message: fmt.Sprintf("internal error, %s", err.Error()),
	})
}

// NotifySessionClosed fans the close event out to every registered handler
// so per-session state (notably room subscriptions) gets released.
func (d *Dispatcher) NotifySessionClosed(session Session) {
	d.mu.RLock()
	handlers := append([]Handler(nil), d.handlers...)
	d.mu.RUnlock()

	for _, h := range handlers {
		h.OnSessionClosed(session)
	}
}

func (d *Dispatcher) findHandler(req message.Request) Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, h := range d.handlers {
		if h.CanHandle(req) {
			return h
		}
	}
	return nil
}
