package message

import "matchmaking/domain"

// Operation selects the behavior of a JoinOrCreateRoomRequest.
type Operation string

const (
	OperationJoinRoom         Operation = "JoinRoom"
	OperationCreateRoom       Operation = "CreateRoom"
	OperationJoinOrCreateRoom Operation = "JoinOrCreateRoom"
)

// GetConnectionIdRequest asks the identity service for a fresh
// (connectionId, password) pair. The only request that carries no
// credentials.
type GetConnectionIdRequest struct {
	RequestMeta
}

func NewGetConnectionIdRequest(requestId string) *GetConnectionIdRequest {
	return &GetConnectionIdRequest{RequestMeta: newRequestMeta(TypeGetConnectionIdRequest, "", "", requestId)}
}

// JoinOrCreateRoomRequest joins an applicable room, creates one, or both
// depending on Operation. RoomId pins the join to one specific room and is
// only legal with OperationJoinRoom.
type JoinOrCreateRoomRequest struct {
	RequestMeta
	Operation   Operation `json:"operation"`
	UserName    string    `json:"userName"`
	Whitelist   []string  `json:"whitelist,omitempty"`
	Blacklist   []string  `json:"blacklist,omitempty"`
	MinRoomSize int       `json:"minRoomSize"`
	MaxRoomSize int       `json:"maxRoomSize"`
	RoomId      string    `json:"roomId,omitempty"`
}

func NewJoinOrCreateRoomRequest(connectionId, password, requestId string, operation Operation, userName string, minRoomSize, maxRoomSize int) *JoinOrCreateRoomRequest {
	return &JoinOrCreateRoomRequest{
		RequestMeta: newRequestMeta(TypeJoinOrCreateRoomRequest, connectionId, password, requestId),
		Operation:   operation,
		UserName:    userName,
		MinRoomSize: minRoomSize,
		MaxRoomSize: maxRoomSize,
	}
}

type GetRoomDataRequest struct {
	RequestMeta
	RoomId string `json:"roomId"`
}

func NewGetRoomDataRequest(connectionId, password, requestId, roomId string) *GetRoomDataRequest {
	return &GetRoomDataRequest{
		RequestMeta: newRequestMeta(TypeGetRoomDataRequest, connectionId, password, requestId),
		RoomId:      roomId,
	}
}

type DestroyRoomRequest struct {
	RequestMeta
	RoomId string `json:"roomId"`
}

func NewDestroyRoomRequest(connectionId, password, requestId, roomId string) *DestroyRoomRequest {
	return &DestroyRoomRequest{
		RequestMeta: newRequestMeta(TypeDestroyRoomRequest, connectionId, password, requestId),
		RoomId:      roomId,
	}
}

// DisconnectRequest removes the requester from every room it is a member of
// and destroys every room it hosts.
type DisconnectRequest struct {
	RequestMeta
}

func NewDisconnectRequest(connectionId, password, requestId string) *DisconnectRequest {
	return &DisconnectRequest{RequestMeta: newRequestMeta(TypeDisconnectRequest, connectionId, password, requestId)}
}

type SendDataToHostRequest struct {
	RequestMeta
	RoomId string             `json:"roomId"`
	Data   []*domain.GameData `json:"data"`
}

func NewSendDataToHostRequest(connectionId, password, requestId, roomId string, data []*domain.GameData) *SendDataToHostRequest {
	return &SendDataToHostRequest{
		RequestMeta: newRequestMeta(TypeSendDataToHostRequest, connectionId, password, requestId),
		RoomId:      roomId,
		Data:        data,
	}
}

type StartGameRequest struct {
	RequestMeta
	RoomId string `json:"roomId"`
}

func NewStartGameRequest(connectionId, password, requestId, roomId string) *StartGameRequest {
	return &StartGameRequest{
		RequestMeta: newRequestMeta(TypeStartGameRequest, connectionId, password, requestId),
		RoomId:      roomId,
	}
}

type SubscribeToRoomRequest struct {
	RequestMeta
	RoomId string `json:"roomId"`
}

func NewSubscribeToRoomRequest(connectionId, password, requestId, roomId string) *SubscribeToRoomRequest {
	return &SubscribeToRoomRequest{
		RequestMeta: newRequestMeta(TypeSubscribeToRoomRequest, connectionId, password, requestId),
		RoomId:      roomId,
	}
}

// UpdateGameStateRequest replaces the room's game state wholesale and
// acknowledges entries of the host queue, which are removed.
type UpdateGameStateRequest struct {
	RequestMeta
	RoomId        string             `json:"roomId"`
	GameData      *domain.GameData   `json:"gameData"`
	ProcessedData []*domain.GameData `json:"processedData,omitempty"`
}

func NewUpdateGameStateRequest(connectionId, password, requestId, roomId string, gameData *domain.GameData, processedData []*domain.GameData) *UpdateGameStateRequest {
	return &UpdateGameStateRequest{
		RequestMeta:   newRequestMeta(TypeUpdateGameStateRequest, connectionId, password, requestId),
		RoomId:        roomId,
		GameData:      gameData,
		ProcessedData: processedData,
	}
}
