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

// NotAllowedStartGameMessage rejects a start attempt by anyone but the host.
const NotAllowedStartGameMessage = "Only the host of a room is allowed to start the game"

// StartGameHandler flips a room into the started state. Only the host may do
// this; a started room stops matching join requests.
type StartGameHandler struct {
	sessionless
	provider *room.Provider
	logger   *slog.Logger
}

func NewStartGameHandler(provider *room.Provider, logger *slog.Logger) *StartGameHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StartGameHandler{provider: provider, logger: logger}
}

func (h *StartGameHandler) CanHandle(req message.Request) bool {
	return req.MessageType() == message.TypeStartGameRequest
}

func (h *StartGameHandler) NeedsAuthentication(message.Request) bool {
	return true
}

func (h *StartGameHandler) Handle(ctx context.Context, req message.Request, _, _ net.IP) (message.Response, error) {
	r, ok := req.(*message.StartGameRequest)
	if !ok {
		return nil, &domain.InvalidArgumentError{Message: "request is not a StartGameRequest"}
	}
	connectionId := r.Meta().ConnectionId

	resp := &message.GetRoomDataResponse{
		ResponseMeta: message.NewResponseMeta(message.TypeGetRoomDataResponse, req, http.StatusOK),
	}

	tx := h.provider.BeginTransactionWithRoom(r.RoomId)
	if tx == nil {
		return resp, nil
	}

	if tx.Room().HostConnectionId != connectionId {
		tx.Abort()
		return nil, &domain.NotAllowedError{
			Message:      NotAllowedStartGameMessage,
			ConnectionId: connectionId,
		}
	}

	tx.Room().GameStarted = true
	resp.Room = roomView(tx.Room())
	tx.Commit()

	h.logger.Info("game started", "room_id", r.RoomId, "host_connection_id", connectionId)
	return resp, nil
}
