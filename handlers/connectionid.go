package handlers

import (
	"context"
	"net"
	"net/http"

	"matchmaking/message"
)

// ConnectionIdIssuer hands out fresh credential pairs. Implemented by the
// identity service.
type ConnectionIdIssuer interface {
	Issue(ctx context.Context) (connectionId, password string, err error)
}

// GetConnectionIdHandler answers the only unauthenticated request: issuing a
// new connection identity.
type GetConnectionIdHandler struct {
	sessionless
	issuer ConnectionIdIssuer
}

func NewGetConnectionIdHandler(issuer ConnectionIdIssuer) *GetConnectionIdHandler {
	return &GetConnectionIdHandler{issuer: issuer}
}

func (h *GetConnectionIdHandler) CanHandle(req message.Request) bool {
	return req.MessageType() == message.TypeGetConnectionIdRequest
}

func (h *GetConnectionIdHandler) NeedsAuthentication(message.Request) bool {
	return false
}

func (h *GetConnectionIdHandler) Handle(ctx context.Context, req message.Request, _, _ net.IP) (message.Response, error) {
	connectionId, password, err := h.issuer.Issue(ctx)
	if err != nil {
		return nil, err
	}

	resp := &message.GetConnectionIdResponse{
		ResponseMeta: message.NewResponseMeta(message.TypeGetConnectionIdResponse, req, http.StatusOK),
		Password:     password,
	}
	resp.ConnectionId = connectionId
	return resp, nil
}
