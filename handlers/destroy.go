package handlers

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"matchmaking/domain"
	"matchmaking/message"
	"matchmaking/room"
)

// NotAllowedDestroyMessage rejects a destroy attempt by anyone but the host.
const NotAllowedDestroyMessage = "Only the host of a room is allowed to destroy it"

// DestroyRoomHandler deletes a room on behalf of its host. An unknown room
// is reported as "not destroyed", not as an error.
type DestroyRoomHandler struct {
	sessionless
	provider *room.Provider
	logger   *slog.Logger
}

func NewDestroyRoomHandler(provider *room.Provider, logger *slog.Logger) *DestroyRoomHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DestroyRoomHandler{provider: provider, logger: logger}
}

func (h *DestroyRoomHandler) CanHandle(req message.Request) bool {
	return req.MessageType() == message.TypeDestroyRoomRequest
}

func (h *DestroyRoomHandler) NeedsAuthentication(message.Request) bool {
	return true
}

func (h *DestroyRoomHandler) Handle(ctx context.Context, req message.Request, _, _ net.IP) (message.Response, error) {
	r, ok := req.(*message.DestroyRoomRequest)
	if !ok {
		return nil, &domain.InvalidArgumentError{Message: "request is not a DestroyRoomRequest"}
	}
	connectionId := r.Meta().ConnectionId

	tx := h.provider.BeginTransactionWithRoom(r.RoomId)
	if tx == nil {
		return &message.DestroyRoomResponse{
			ResponseMeta:  message.NewResponseMeta(message.TypeDestroyRoomResponse, req, http.StatusOK),
			RoomDestroyed: false,
		}, nil
	}

	if tx.Room().HostConnectionId != connectionId {
		tx.Abort()
		return nil, &domain.NotAllowedError{
			Message:      NotAllowedDestroyMessage,
			ConnectionId: connectionId,
		}
	}

	// Delete while still holding the room lock so no writer can sneak in
	// between the host check and the removal; the abort then releases an
	// orphaned lock slot.
	destroyed := h.provider.DeleteRoom(r.RoomId) != nil
	tx.Abort()

	h.logger.Info("room destroyed by host",
		"room_id", r.RoomId,
		"connection_id", connectionId)

	return &message.DestroyRoomResponse{
		ResponseMeta:  message.NewResponseMeta(message.TypeDestroyRoomResponse, req, http.StatusOK),
		RoomDestroyed: destroyed,
	}, nil
}
