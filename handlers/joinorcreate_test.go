package handlers

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchmaking/domain"
	"matchmaking/message"
	"matchmaking/room"
)

func joinRequest(connectionId, userName string, op message.Operation, minSize, maxSize int) *message.JoinOrCreateRoomRequest {
	return message.NewJoinOrCreateRoomRequest(connectionId, "pw", "req-"+connectionId, op, userName, minSize, maxSize)
}

func mustJoin(t *testing.T, h *JoinOrCreateRoomHandler, req *message.JoinOrCreateRoomRequest) *message.JoinOrCreateRoomResponse {
	t.Helper()
	resp, err := h.Handle(context.Background(), req, net.ParseIP("203.0.113.7").To4(), nil)
	require.NoError(t, err)
	joinResp, ok := resp.(*message.JoinOrCreateRoomResponse)
	require.True(t, ok)
	return joinResp
}

func TestJoinOrCreateRoom_CreateThenJoin(t *testing.T) {
	t.Parallel()
	p := room.NewProvider(nil)
	h := NewJoinOrCreateRoomHandler(p, nil)

	created := mustJoin(t, h, joinRequest("conn-a", "vatbub", message.OperationJoinOrCreateRoom, 1, 2))
	assert.Equal(t, message.ResultRoomCreated, created.Result)
	require.NotEmpty(t, created.RoomId)

	joined := mustJoin(t, h, joinRequest("conn-b", "heykey", message.OperationJoinOrCreateRoom, 1, 2))
	assert.Equal(t, message.ResultRoomJoined, joined.Result)
	assert.Equal(t, created.RoomId, joined.RoomId)

	// connected users keep join order
	stored := p.Get(created.RoomId)
	users := stored.ConnectedUsers.Items()
	require.Len(t, users, 2)
	assert.Equal(t, "vatbub", users[0].UserName)
	assert.Equal(t, "heykey", users[1].UserName)
	assert.Equal(t, "conn-a", stored.HostConnectionId)
}

func TestJoinOrCreateRoom_SingleSlotRoomYieldsNothing(t *testing.T) {
	t.Parallel()
	p := room.NewProvider(nil)
	h := NewJoinOrCreateRoomHandler(p, nil)

	// host occupies the only slot
	created := mustJoin(t, h, joinRequest("conn-a", "vatbub", message.OperationCreateRoom, 1, 1))
	require.Equal(t, message.ResultRoomCreated, created.Result)

	resp := mustJoin(t, h, joinRequest("conn-b", "heykey", message.OperationJoinRoom, 1, 1))
	assert.Equal(t, message.ResultNothing, resp.Result)
	assert.Empty(t, resp.RoomId)
	assert.Equal(t, 1, p.Get(created.RoomId).ConnectedUsers.Len())
}

func TestJoinOrCreateRoom_JoinOnlyWithoutRoomYieldsNothing(t *testing.T) {
	t.Parallel()
	p := room.NewProvider(nil)
	h := NewJoinOrCreateRoomHandler(p, nil)

	resp := mustJoin(t, h, joinRequest("conn-a", "vatbub", message.OperationJoinRoom, 1, 1))
	assert.Equal(t, message.ResultNothing, resp.Result)
	assert.Empty(t, resp.RoomId)
	assert.Empty(t, p.GetAllRooms())
}

func TestJoinOrCreateRoom_FullRoomSpillsIntoNewOne(t *testing.T) {
	t.Parallel()
	p := room.NewProvider(nil)
	h := NewJoinOrCreateRoomHandler(p, nil)

	first := mustJoin(t, h, joinRequest("conn-a", "vatbub", message.OperationJoinOrCreateRoom, 1, 2))
	mustJoin(t, h, joinRequest("conn-b", "heykey", message.OperationJoinOrCreateRoom, 1, 2))
	third := mustJoin(t, h, joinRequest("conn-c", "third", message.OperationJoinOrCreateRoom, 1, 2))

	assert.Equal(t, message.ResultRoomCreated, third.Result)
	assert.NotEqual(t, first.RoomId, third.RoomId)
}

func TestJoinOrCreateRoom_ExplicitRoomId(t *testing.T) {
	t.Parallel()
	p := room.NewProvider(nil)
	h := NewJoinOrCreateRoomHandler(p, nil)

	created := mustJoin(t, h, joinRequest("conn-a", "vatbub", message.OperationCreateRoom, 1, 4))

	pinned := joinRequest("conn-b", "heykey", message.OperationJoinRoom, 1, 4)
	pinned.RoomId = created.RoomId
	joined := mustJoin(t, h, pinned)
	assert.Equal(t, message.ResultRoomJoined, joined.Result)
	assert.Equal(t, created.RoomId, joined.RoomId)
}

func TestJoinOrCreateRoom_ExplicitUnknownRoomIdNotAllowed(t *testing.T) {
	t.Parallel()
	p := room.NewProvider(nil)
	h := NewJoinOrCreateRoomHandler(p, nil)

	pinned := joinRequest("conn-b", "heykey", message.OperationJoinRoom, 1, 4)
	pinned.RoomId = "no-such-room"

	_, err := h.Handle(context.Background(), pinned, nil, nil)
	var notAllowed *domain.NotAllowedError
	require.ErrorAs(t, err, &notAllowed)
	assert.Equal(t, "conn-b", notAllowed.ConnectionId)
}

func TestJoinOrCreateRoom_ExplicitIncompatibleRoomNotAllowed(t *testing.T) {
	t.Parallel()
	p := room.NewProvider(nil)
	h := NewJoinOrCreateRoomHandler(p, nil)

	created := mustJoin(t, h, joinRequest("conn-a", "vatbub", message.OperationCreateRoom, 1, 4))

	pinned := joinRequest("conn-b", "heykey", message.OperationJoinRoom, 1, 2)
	pinned.RoomId = created.RoomId // ceiling 4 exceeds requested 2

	_, err := h.Handle(context.Background(), pinned, nil, nil)
	var notAllowed *domain.NotAllowedError
	require.ErrorAs(t, err, &notAllowed)

	// the rejected join left the room untouched
	assert.Equal(t, 1, p.Get(created.RoomId).ConnectedUsers.Len())
}

func TestJoinOrCreateRoom_Validation(t *testing.T) {
	t.Parallel()
	p := room.NewProvider(nil)
	h := NewJoinOrCreateRoomHandler(p, nil)

	tests := []struct {
		name string
		req  *message.JoinOrCreateRoomRequest
	}{
		{
			name: "unknown operation",
			req:  joinRequest("conn-a", "vatbub", "Teleport", 1, 2),
		},
		{
			name: "empty user name",
			req:  joinRequest("conn-a", "", message.OperationJoinOrCreateRoom, 1, 2),
		},
		{
			name: "room id with create operation",
			req: func() *message.JoinOrCreateRoomRequest {
				r := joinRequest("conn-a", "vatbub", message.OperationCreateRoom, 1, 2)
				r.RoomId = "some-room"
				return r
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := h.Handle(context.Background(), tt.req, nil, nil)
			var invalid *domain.InvalidArgumentError
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestJoinOrCreateRoom_SizeDefaults(t *testing.T) {
	t.Parallel()
	p := room.NewProvider(nil)
	h := NewJoinOrCreateRoomHandler(p, nil)

	created := mustJoin(t, h, joinRequest("conn-a", "vatbub", message.OperationCreateRoom, 0, 0))

	stored := p.Get(created.RoomId)
	assert.Equal(t, 1, stored.MinRoomSize)
	assert.Equal(t, 2, stored.MaxRoomSize)
}

func TestJoinOrCreateRoom_JoinRecordsAddresses(t *testing.T) {
	t.Parallel()
	p := room.NewProvider(nil)
	h := NewJoinOrCreateRoomHandler(p, nil)

	created := mustJoin(t, h, joinRequest("conn-a", "vatbub", message.OperationCreateRoom, 1, 2))

	user := p.Get(created.RoomId).ConnectedUsers.Get(0)
	assert.Equal(t, net.ParseIP("203.0.113.7").To4(), user.IPv4)
	assert.Nil(t, user.IPv6)
}
