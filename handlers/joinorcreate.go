package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"matchmaking/domain"
	"matchmaking/message"
	"matchmaking/room"
)

// JoinOrCreateRoomHandler joins the requester into the first applicable room
// or creates a fresh one, depending on the requested operation.
type JoinOrCreateRoomHandler struct {
	sessionless
	provider *room.Provider
	logger   *slog.Logger
}

func NewJoinOrCreateRoomHandler(provider *room.Provider, logger *slog.Logger) *JoinOrCreateRoomHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &JoinOrCreateRoomHandler{provider: provider, logger: logger}
}

func (h *JoinOrCreateRoomHandler) CanHandle(req message.Request) bool {
	return req.MessageType() == message.TypeJoinOrCreateRoomRequest
}

func (h *JoinOrCreateRoomHandler) NeedsAuthentication(message.Request) bool {
	return true
}

func (h *JoinOrCreateRoomHandler) Handle(ctx context.Context, req message.Request, ipv4, ipv6 net.IP) (message.Response, error) {
	r, ok := req.(*message.JoinOrCreateRoomRequest)
	if !ok {
		return nil, &domain.InvalidArgumentError{Message: "request is not a JoinOrCreateRoomRequest"}
	}

	switch r.Operation {
	case message.OperationJoinRoom, message.OperationCreateRoom, message.OperationJoinOrCreateRoom:
	default:
		return nil, &domain.InvalidArgumentError{Message: fmt.Sprintf("unknown operation %q", r.Operation)}
	}
	if r.UserName == "" {
		return nil, &domain.InvalidArgumentError{Message: "userName must not be empty"}
	}
	if r.RoomId != "" && r.Operation != message.OperationJoinRoom {
		return nil, &domain.InvalidArgumentError{Message: "a specific room id requires the JoinRoom operation"}
	}

	minSize, maxSize := r.MinRoomSize, r.MaxRoomSize
	if minSize <= 0 {
		minSize = 1
	}
	if maxSize <= 0 {
		maxSize = 2
	}

	user := domain.User{
		ConnectionId: r.Meta().ConnectionId,
		UserName:     r.UserName,
		IPv4:         ipv4,
		IPv6:         ipv6,
	}

	if r.RoomId != "" {
		tx := h.provider.BeginTransactionWithRoom(r.RoomId)
		if tx == nil {
			return nil, &domain.NotAllowedError{
				Message:      fmt.Sprintf("room %q does not exist", r.RoomId),
				ConnectionId: user.ConnectionId,
			}
		}
		if !tx.Room().Matches(r.UserName, r.Whitelist, r.Blacklist, minSize, maxSize) {
			tx.Abort()
			return nil, &domain.NotAllowedError{
				Message:      fmt.Sprintf("room %q is not compatible with the join constraints", r.RoomId),
				ConnectionId: user.ConnectionId,
			}
		}
		return h.join(req, tx, user, message.ResultRoomJoined), nil
	}

	if r.Operation == message.OperationJoinRoom || r.Operation == message.OperationJoinOrCreateRoom {
		if tx := h.provider.HasApplicableRoom(r.UserName, r.Whitelist, r.Blacklist, minSize, maxSize); tx != nil {
			return h.join(req, tx, user, message.ResultRoomJoined), nil
		}
	}

	if r.Operation == message.OperationCreateRoom || r.Operation == message.OperationJoinOrCreateRoom {
		created := h.provider.CreateNewRoom(user.ConnectionId, r.Whitelist, r.Blacklist, minSize, maxSize)
		tx := h.provider.BeginTransactionWithRoom(created.Id)
		if tx == nil {
			return nil, fmt.Errorf("room %q vanished right after creation", created.Id)
		}
		return h.join(req, tx, user, message.ResultRoomCreated), nil
	}

	return &message.JoinOrCreateRoomResponse{
		ResponseMeta: message.NewResponseMeta(message.TypeJoinOrCreateRoomResponse, req, http.StatusOK),
		Result:       message.ResultNothing,
	}, nil
}

// join adds the user to the locked room, commits and builds the response.
func (h *JoinOrCreateRoomHandler) join(req message.Request, tx *room.Transaction, user domain.User, result message.JoinResult) *message.JoinOrCreateRoomResponse {
	roomId := tx.Room().Id
	tx.Room().ConnectedUsers.Add(user)
	tx.Commit()

	h.logger.Info("user joined room",
		"room_id", roomId,
		"connection_id", user.ConnectionId,
		"user_name", user.UserName,
		"result", result)

	return &message.JoinOrCreateRoomResponse{
		ResponseMeta: message.NewResponseMeta(message.TypeJoinOrCreateRoomResponse, req, http.StatusOK),
		Result:       result,
		RoomId:       roomId,
	}
}
