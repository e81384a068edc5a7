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

// SendDataToHostHandler appends game data to the room's host queue. The queue
// drains when the host acknowledges entries via UpdateGameStateRequest.
type SendDataToHostHandler struct {
	sessionless
	provider *room.Provider
	logger   *slog.Logger
}

func NewSendDataToHostHandler(provider *room.Provider, logger *slog.Logger) *SendDataToHostHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SendDataToHostHandler{provider: provider, logger: logger}
}

func (h *SendDataToHostHandler) CanHandle(req message.Request) bool {
	return req.MessageType() == message.TypeSendDataToHostRequest
}

func (h *SendDataToHostHandler) NeedsAuthentication(message.Request) bool {
	return true
}

func (h *SendDataToHostHandler) Handle(ctx context.Context, req message.Request, _, _ net.IP) (message.Response, error) {
	r, ok := req.(*message.SendDataToHostRequest)
	if !ok {
		return nil, &domain.InvalidArgumentError{Message: "request is not a SendDataToHostRequest"}
	}

	resp := &message.GetRoomDataResponse{
		ResponseMeta: message.NewResponseMeta(message.TypeGetRoomDataResponse, req, http.StatusOK),
	}

	tx := h.provider.BeginTransactionWithRoom(r.RoomId)
	if tx == nil {
		return resp, nil
	}

	for _, data := range r.Data {
		if data == nil {
			continue
		}
		tx.Room().DataToBeSentToTheHost.Add(data.Copy())
	}
	resp.Room = roomView(tx.Room())
	tx.Commit()

	h.logger.Debug("data queued for host",
		"room_id", r.RoomId,
		"connection_id", r.Meta().ConnectionId,
		"entries", len(r.Data))

	return resp, nil
}
