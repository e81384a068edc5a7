// Package message defines the closed set of requests and responses the core
// consumes and produces, plus the JSON envelope codec the transports share.
// Every wire type carries its discriminator in a "messageType" field; the
// codec maps discriminator to concrete type explicitly, with no reflective
// lookup.
package message

// ProtocolVersion is stamped on every message built by this server.
const ProtocolVersion = "1.0"

// Request discriminators.
const (
	TypeGetConnectionIdRequest  = "GetConnectionIdRequest"
	TypeJoinOrCreateRoomRequest = "JoinOrCreateRoomRequest"
	TypeGetRoomDataRequest      = "GetRoomDataRequest"
	TypeDestroyRoomRequest      = "DestroyRoomRequest"
	TypeDisconnectRequest       = "DisconnectRequest"
	TypeSendDataToHostRequest   = "SendDataToHostRequest"
	TypeStartGameRequest        = "StartGameRequest"
	TypeSubscribeToRoomRequest  = "SubscribeToRoomRequest"
	TypeUpdateGameStateRequest  = "UpdateGameStateRequest"
)

// Response discriminators.
const (
	TypeGetConnectionIdResponse  = "GetConnectionIdResponse"
	TypeJoinOrCreateRoomResponse = "JoinOrCreateRoomResponse"
	TypeGetRoomDataResponse      = "GetRoomDataResponse"
	TypeDestroyRoomResponse      = "DestroyRoomResponse"
	TypeDisconnectResponse       = "DisconnectResponse"
	TypeSubscribeToRoomResponse  = "SubscribeToRoomResponse"
)

// Error response discriminators, one per taxonomy member.
const (
	TypeUnknownConnectionIdError = "UnknownConnectionIdError"
	TypeAuthorizationError       = "AuthorizationError"
	TypeBadRequestError          = "BadRequestError"
	TypeNotAllowedError          = "NotAllowedError"
	TypeInternalServerError      = "InternalServerError"
)

// RequestMeta is embedded in every request.
type RequestMeta struct {
	Type            string `json:"messageType"`
	ProtocolVersion string `json:"protocolVersion"`
	ConnectionId    string `json:"connectionId,omitempty"`
	Password        string `json:"password,omitempty"`
	RequestId       string `json:"requestId"`
}

func (m RequestMeta) MessageType() string { return m.Type }
func (m RequestMeta) Meta() RequestMeta   { return m }

// Request is one inbound message.
type Request interface {
	MessageType() string
	Meta() RequestMeta
}

// ResponseMeta is embedded in every response.
type ResponseMeta struct {
	Type            string `json:"messageType"`
	ProtocolVersion string `json:"protocolVersion"`
	ConnectionId    string `json:"connectionId,omitempty"`
	HttpStatusCode  int    `json:"httpStatusCode"`
	ResponseTo      string `json:"responseTo"`
}

func (m ResponseMeta) MessageType() string { return m.Type }
func (m ResponseMeta) Status() int         { return m.HttpStatusCode }
func (m ResponseMeta) CorrelationId() string {
	return m.ResponseTo
}

// Response is one outbound message, solicited or pushed.
type Response interface {
	MessageType() string
	Status() int
}

func newRequestMeta(messageType, connectionId, password, requestId string) RequestMeta {
	return RequestMeta{
		Type:            messageType,
		ProtocolVersion: ProtocolVersion,
		ConnectionId:    connectionId,
		Password:        password,
		RequestId:       requestId,
	}
}

// NewResponseMeta builds the meta for a response to req, echoing the
// request's connection id and request id.
func NewResponseMeta(messageType string, req Request, status int) ResponseMeta {
	return ResponseMeta{
		Type:            messageType,
		ProtocolVersion: ProtocolVersion,
		ConnectionId:    req.Meta().ConnectionId,
		HttpStatusCode:  status,
		ResponseTo:      req.Meta().RequestId,
	}
}
