package message

import (
	"errors"

	"matchmaking/domain"
)

// JoinResult tells the requester how a JoinOrCreateRoomRequest ended.
type JoinResult string

const (
	ResultRoomCreated JoinResult = "RoomCreated"
	ResultRoomJoined  JoinResult = "RoomJoined"
	ResultNothing     JoinResult = "Nothing"
)

// Room is the wire snapshot of a room as carried by responses.
type Room struct {
	Id                    string             `json:"id"`
	HostConnectionId      string             `json:"hostConnectionId"`
	Whitelist             []string           `json:"whitelist,omitempty"`
	Blacklist             []string           `json:"blacklist,omitempty"`
	MinRoomSize           int                `json:"minRoomSize"`
	MaxRoomSize           int                `json:"maxRoomSize"`
	ConnectedUsers        []domain.User      `json:"connectedUsers"`
	GameState             *domain.GameData   `json:"gameState"`
	GameStarted           bool               `json:"gameStarted"`
	DataToBeSentToTheHost []*domain.GameData `json:"dataToBeSentToTheHost"`
}

type GetConnectionIdResponse struct {
	ResponseMeta
	Password string `json:"password"`
}

type JoinOrCreateRoomResponse struct {
	ResponseMeta
	Result JoinResult `json:"result"`
	RoomId string     `json:"roomId,omitempty"`
}

// GetRoomDataResponse carries an optional room snapshot. An absent room is a
// success ("we looked, nothing there"), never an error.
type GetRoomDataResponse struct {
	ResponseMeta
	Room *Room `json:"room,omitempty"`
}

type DestroyRoomResponse struct {
	ResponseMeta
	RoomDestroyed bool `json:"roomDestroyed"`
}

type DisconnectResponse struct {
	ResponseMeta
	DisconnectedRooms []Room `json:"disconnectedRooms"`
	DestroyedRooms    []Room `json:"destroyedRooms"`
}

type SubscribeToRoomResponse struct {
	ResponseMeta
}

// ErrorResponse is the wire shape of every taxonomy member; the
// discriminator distinguishes the kinds.
type ErrorResponse struct {
	ResponseMeta
	Message string `json:"message"`
}

// NewErrorResponse maps a taxonomy error to its wire shape, echoing the
// originating request's correlation id.
func NewErrorResponse(req Request, reqErr domain.RequestError) *ErrorResponse {
	resp := &ErrorResponse{
		ResponseMeta: NewResponseMeta(errorDiscriminator(reqErr), req, reqErr.StatusCode()),
		Message:      reqErr.Error(),
	}
	var notAllowed *domain.NotAllowedError
	if errors.As(reqErr, &notAllowed) && notAllowed.ConnectionId != "" {
		resp.ConnectionId = notAllowed.ConnectionId
	}
	return resp
}

func errorDiscriminator(reqErr domain.RequestError) string {
	switch reqErr.(type) {
	case *domain.UnknownConnectionIdError:
		return TypeUnknownConnectionIdError
	case *domain.AuthorizationError:
		return TypeAuthorizationError
	case *domain.BadRequestError:
		return TypeBadRequestError
	case *domain.NotAllowedError:
		return TypeNotAllowedError
	default:
		return TypeInternalServerError
	}
}
