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

// NotAllowedUpdateGameStateMessage rejects a state update by anyone but the
// host.
const NotAllowedUpdateGameStateMessage = "Only the host of a room is allowed to update the game state"

// UpdateGameStateHandler replaces the room's game state and removes the
// acknowledged entries from the host queue.
type UpdateGameStateHandler struct {
	sessionless
	provider *room.Provider
	logger   *slog.Logger
}

func NewUpdateGameStateHandler(provider *room.Provider, logger *slog.Logger) *UpdateGameStateHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UpdateGameStateHandler{provider: provider, logger: logger}
}

func (h *UpdateGameStateHandler) CanHandle(req message.Request) bool {
	return req.MessageType() == message.TypeUpdateGameStateRequest
}

func (h *UpdateGameStateHandler) NeedsAuthentication(message.Request) bool {
	return true
}

func (h *UpdateGameStateHandler) Handle(ctx context.Context, req message.Request, _, _ net.IP) (message.Response, error) {
	r, ok := req.(*message.UpdateGameStateRequest)
	if !ok {
		return nil, &domain.InvalidArgumentError{Message: "request is not an UpdateGameStateRequest"}
	}
	if r.GameData == nil {
		return nil, &domain.InvalidArgumentError{Message: "gameData must not be null"}
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
			Message:      NotAllowedUpdateGameStateMessage,
			ConnectionId: connectionId,
		}
	}

	tx.Room().GameState.ReplaceContents(r.GameData)
	for _, processed := range r.ProcessedData {
		if processed == nil {
			continue
		}
		tx.Room().DataToBeSentToTheHost.RemoveFunc(func(queued *domain.GameData) bool {
			return queued.Equal(processed)
		})
	}
	resp.Room = roomView(tx.Room())
	tx.Commit()

	h.logger.Debug("game state updated",
		"room_id", r.RoomId,
		"host_connection_id", connectionId,
		"processed_entries", len(r.ProcessedData))

	return resp, nil
}
