package handlers

import (
	"context"
	"net"
	"net/http"

	"matchmaking/domain"
	"matchmaking/message"
	"matchmaking/room"
)

// GetRoomDataHandler returns a snapshot of one room. An unknown room id
// yields a success response with no room, not an error.
type GetRoomDataHandler struct {
	sessionless
	provider *room.Provider
}

func NewGetRoomDataHandler(provider *room.Provider) *GetRoomDataHandler {
	return &GetRoomDataHandler{provider: provider}
}

func (h *GetRoomDataHandler) CanHandle(req message.Request) bool {
	return req.MessageType() == message.TypeGetRoomDataRequest
}

func (h *GetRoomDataHandler) NeedsAuthentication(message.Request) bool {
	return true
}

func (h *GetRoomDataHandler) Handle(ctx context.Context, req message.Request, _, _ net.IP) (message.Response, error) {
	r, ok := req.(*message.GetRoomDataRequest)
	if !ok {
		return nil, &domain.InvalidArgumentError{Message: "request is not a GetRoomDataRequest"}
	}

	resp := &message.GetRoomDataResponse{
		ResponseMeta: message.NewResponseMeta(message.TypeGetRoomDataResponse, req, http.StatusOK),
	}
	if found := h.provider.Get(r.RoomId); found != nil {
		resp.Room = roomView(found)
	}
	return resp, nil
}
