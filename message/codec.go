package message

import (
	"encoding/json"
	"fmt"
)

// ErrUnknownMessageType is wrapped by the codec when the discriminator maps
// to no known type.
var ErrUnknownMessageType = fmt.Errorf("unknown message type")

type envelope struct {
	MessageType string `json:"messageType"`
}

// DecodeRequest turns one JSON envelope into its concrete request type.
func DecodeRequest(data []byte) (Request, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("malformed request envelope: %w", err)
	}

	var req Request
	switch env.MessageType {
	case TypeGetConnectionIdRequest:
		req = &GetConnectionIdRequest{}
	case TypeJoinOrCreateRoomRequest:
		req = &JoinOrCreateRoomRequest{}
	case TypeGetRoomDataRequest:
		req = &GetRoomDataRequest{}
	case TypeDestroyRoomRequest:
		req = &DestroyRoomRequest{}
	case TypeDisconnectRequest:
		req = &DisconnectRequest{}
	case TypeSendDataToHostRequest:
		req = &SendDataToHostRequest{}
	case TypeStartGameRequest:
		req = &StartGameRequest{}
	case TypeSubscribeToRoomRequest:
		req = &SubscribeToRoomRequest{}
	case TypeUpdateGameStateRequest:
		req = &UpdateGameStateRequest{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessageType, env.MessageType)
	}

	if err := json.Unmarshal(data, req); err != nil {
		return nil, fmt.Errorf("malformed %s: %w", env.MessageType, err)
	}
	return req, nil
}

// EncodeRequest renders a request as one JSON envelope.
func EncodeRequest(req Request) ([]byte, error) {
	return json.Marshal(req)
}

// EncodeResponse renders a response as one JSON envelope.
func EncodeResponse(resp Response) ([]byte, error) {
	return json.Marshal(resp)
}

// DecodeResponse is the client-side counterpart of EncodeResponse. All five
// error discriminators decode to *ErrorResponse.
func DecodeResponse(data []byte) (Response, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("malformed response envelope: %w", err)
	}

	var resp Response
	switch env.MessageType {
	case TypeGetConnectionIdResponse:
		resp = &GetConnectionIdResponse{}
	case TypeJoinOrCreateRoomResponse:
		resp = &JoinOrCreateRoomResponse{}
	case TypeGetRoomDataResponse:
		resp = &GetRoomDataResponse{}
	case TypeDestroyRoomResponse:
		resp = &DestroyRoomResponse{}
	case TypeDisconnectResponse:
		resp = &DisconnectResponse{}
	case TypeSubscribeToRoomResponse:
		resp = &SubscribeToRoomResponse{}
	case TypeUnknownConnectionIdError, TypeAuthorizationError, TypeBadRequestError,
		TypeNotAllowedError, TypeInternalServerError:
		resp = &ErrorResponse{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessageType, env.MessageType)
	}

	if err := json.Unmarshal(data, resp); err != nil {
		return nil, fmt.Errorf("malformed %s: %w", env.MessageType, err)
	}
	return resp, nil
}
