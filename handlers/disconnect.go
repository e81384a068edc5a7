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

// DisconnectHandler removes the requester from every room they are part of.
// Rooms they host are destroyed; rooms they merely joined lose the member.
type DisconnectHandler struct {
	sessionless
	provider *room.Provider
	logger   *slog.Logger
}

func NewDisconnectHandler(provider *room.Provider, logger *slog.Logger) *DisconnectHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DisconnectHandler{provider: provider, logger: logger}
}

func (h *DisconnectHandler) CanHandle(req message.Request) bool {
	return req.MessageType() == message.TypeDisconnectRequest
}

func (h *DisconnectHandler) NeedsAuthentication(message.Request) bool {
	return true
}

func (h *DisconnectHandler) Handle(ctx context.Context, req message.Request, _, _ net.IP) (message.Response, error) {
	if _, ok := req.(*message.DisconnectRequest); !ok {
		return nil, &domain.InvalidArgumentError{Message: "request is not a DisconnectRequest"}
	}
	connectionId := req.Meta().ConnectionId

	disconnected := make([]message.Room, 0)
	destroyed := make([]message.Room, 0)

	affected := func(r *room.Room) bool {
		return r.HostConnectionId == connectionId || r.HasUser(connectionId)
	}
	h.provider.BeginTransactionsForRoomsWithFilter(affected, func(tx *room.Transaction) {
		r := tx.Room()
		if r.HostConnectionId == connectionId {
			// Delete before the abort so no writer can observe the
			// room between host check and removal.
			h.provider.DeleteRoom(r.Id)
			destroyed = append(destroyed, *roomView(r))
			tx.Abort()
			return
		}

		r.ConnectedUsers.RemoveFunc(func(u domain.User) bool {
			return u.ConnectionId == connectionId
		})
		snapshot := *roomView(r)
		tx.Commit()
		disconnected = append(disconnected, snapshot)
	})

	h.logger.Info("connection disconnected",
		"connection_id", connectionId,
		"disconnected_rooms", len(disconnected),
		"destroyed_rooms", len(destroyed))

	return &message.DisconnectResponse{
		ResponseMeta:      message.NewResponseMeta(message.TypeDisconnectResponse, req, http.StatusOK),
		DisconnectedRooms: disconnected,
		DestroyedRooms:    destroyed,
	}, nil
}
