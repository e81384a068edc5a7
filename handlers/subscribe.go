package handlers

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"matchmaking/dispatch"
	"matchmaking/domain"
	"matchmaking/message"
	"matchmaking/room"
)

// SubscribeToRoomHandler registers a socket session for push updates: every
// commit on the subscribed room is pushed to the session as a room snapshot
// correlated with the original subscribe request.
type SubscribeToRoomHandler struct {
	provider *room.Provider
	logger   *slog.Logger

	mu sync.Mutex
	// subscriptions by session, then by room id
	subscriptions map[dispatch.Session]map[string]*roomPushListener
}

func NewSubscribeToRoomHandler(provider *room.Provider, logger *slog.Logger) *SubscribeToRoomHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubscribeToRoomHandler{
		provider:      provider,
		logger:        logger,
		subscriptions: make(map[dispatch.Session]map[string]*roomPushListener),
	}
}

func (h *SubscribeToRoomHandler) CanHandle(req message.Request) bool {
	return req.MessageType() == message.TypeSubscribeToRoomRequest
}

func (h *SubscribeToRoomHandler) NeedsAuthentication(message.Request) bool {
	return true
}

func (h *SubscribeToRoomHandler) RequiresSession(message.Request) bool {
	return true
}

// Handle is the session-free path; subscriptions only make sense on a socket.
func (h *SubscribeToRoomHandler) Handle(ctx context.Context, req message.Request, _, _ net.IP) (message.Response, error) {
	return nil, &domain.InvalidArgumentError{Message: "subscriptions require a socket session"}
}

func (h *SubscribeToRoomHandler) HandleWithSession(ctx context.Context, req message.Request, session dispatch.Session) (message.Response, error) {
	r, ok := req.(*message.SubscribeToRoomRequest)
	if !ok {
		return nil, &domain.InvalidArgumentError{Message: "request is not a SubscribeToRoomRequest"}
	}
	meta := r.Meta()

	listener := &roomPushListener{
		session:      session,
		requestId:    meta.RequestId,
		connectionId: meta.ConnectionId,
	}

	h.mu.Lock()
	perRoom, exists := h.subscriptions[session]
	if !exists {
		perRoom = make(map[string]*roomPushListener)
		h.subscriptions[session] = perRoom
	}
	if previous, subscribed := perRoom[r.RoomId]; subscribed {
		h.provider.RemoveCommitListener(r.RoomId, previous)
	}
	perRoom[r.RoomId] = listener
	h.mu.Unlock()

	// Subscribing to an unknown room is legal; pushes start once a room
	// with that id exists and commits.
	h.provider.AddCommitListener(r.RoomId, listener)

	h.logger.Info("session subscribed to room",
		"room_id", r.RoomId,
		"connection_id", meta.ConnectionId)

	return &message.SubscribeToRoomResponse{
		ResponseMeta: message.NewResponseMeta(message.TypeSubscribeToRoomResponse, req, http.StatusOK),
	}, nil
}

// OnSessionClosed drops every subscription held by the session.
func (h *SubscribeToRoomHandler) OnSessionClosed(session dispatch.Session) {
	h.mu.Lock()
	perRoom := h.subscriptions[session]
	delete(h.subscriptions, session)
	h.mu.Unlock()

	for roomId, listener := range perRoom {
		h.provider.RemoveCommitListener(roomId, listener)
	}
	if len(perRoom) > 0 {
		h.logger.Info("session subscriptions released", "count", len(perRoom))
	}
}

// roomPushListener pushes a room snapshot to one session per commit. Pushes
// correlate with the subscribe request that created the listener.
type roomPushListener struct {
	session      dispatch.Session
	requestId    string
	connectionId string
}

func (l *roomPushListener) OnRoomCommitted(r *room.Room) {
	resp := &message.GetRoomDataResponse{
		ResponseMeta: message.ResponseMeta{
			Type:            message.TypeGetRoomDataResponse,
			ProtocolVersion: message.ProtocolVersion,
			ConnectionId:    l.connectionId,
			HttpStatusCode:  http.StatusOK,
			ResponseTo:      l.requestId,
		},
		Room: roomView(r),
	}
	l.session.SendAsync(resp)
}
