package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchmaking/domain"
	"matchmaking/message"
	"matchmaking/room"
)

func TestSubscribeToRoomHandler_PushesOnCommit(t *testing.T) {
	t.Parallel()
	p := room.NewProvider(nil)
	created := p.CreateNewRoom("conn-host", nil, nil, 1, 4)
	h := NewSubscribeToRoomHandler(p, nil)
	session := &fakeSession{}

	req := message.NewSubscribeToRoomRequest("conn-watcher", "pw", "req-sub", created.Id)
	resp, err := h.HandleWithSession(context.Background(), req, session)
	require.NoError(t, err)
	_, ok := resp.(*message.SubscribeToRoomResponse)
	require.True(t, ok)

	tx := p.BeginTransactionWithRoom(created.Id)
	tx.Room().ConnectedUsers.Add(domain.User{ConnectionId: "conn-a", UserName: "vatbub"})
	tx.Commit()

	pushed := session.responses()
	require.Len(t, pushed, 1)
	push, ok := pushed[0].(*message.GetRoomDataResponse)
	require.True(t, ok)
	assert.Equal(t, "req-sub", push.CorrelationId())
	assert.Equal(t, "conn-watcher", push.ConnectionId)
	require.NotNil(t, push.Room)
	assert.Equal(t, 1, len(push.Room.ConnectedUsers))
}

func TestSubscribeToRoomHandler_AbortDoesNotPush(t *testing.T) {
	t.Parallel()
	p := room.NewProvider(nil)
	created := p.CreateNewRoom("conn-host", nil, nil, 1, 4)
	h := NewSubscribeToRoomHandler(p, nil)
	session := &fakeSession{}

	req := message.NewSubscribeToRoomRequest("conn-watcher", "pw", "req-sub", created.Id)
	_, err := h.HandleWithSession(context.Background(), req, session)
	require.NoError(t, err)

	tx := p.BeginTransactionWithRoom(created.Id)
	tx.Room().GameStarted = true
	tx.Abort()

	assert.Empty(t, session.responses())
}

func TestSubscribeToRoomHandler_ResubscribeReplacesListener(t *testing.T) {
	t.Parallel()
	p := room.NewProvider(nil)
	created := p.CreateNewRoom("conn-host", nil, nil, 1, 4)
	h := NewSubscribeToRoomHandler(p, nil)
	session := &fakeSession{}

	first := message.NewSubscribeToRoomRequest("conn-watcher", "pw", "req-sub-1", created.Id)
	_, err := h.HandleWithSession(context.Background(), first, session)
	require.NoError(t, err)
	second := message.NewSubscribeToRoomRequest("conn-watcher", "pw", "req-sub-2", created.Id)
	_, err = h.HandleWithSession(context.Background(), second, session)
	require.NoError(t, err)

	tx := p.BeginTransactionWithRoom(created.Id)
	tx.Room().GameStarted = true
	tx.Commit()

	// one push, correlated with the latest subscribe request
	pushed := session.responses()
	require.Len(t, pushed, 1)
	push := pushed[0].(*message.GetRoomDataResponse)
	assert.Equal(t, "req-sub-2", push.CorrelationId())
}

func TestSubscribeToRoomHandler_SessionCloseStopsPushes(t *testing.T) {
	t.Parallel()
	p := room.NewProvider(nil)
	created := p.CreateNewRoom("conn-host", nil, nil, 1, 4)
	h := NewSubscribeToRoomHandler(p, nil)
	session := &fakeSession{}

	req := message.NewSubscribeToRoomRequest("conn-watcher", "pw", "req-sub", created.Id)
	_, err := h.HandleWithSession(context.Background(), req, session)
	require.NoError(t, err)

	h.OnSessionClosed(session)

	tx := p.BeginTransactionWithRoom(created.Id)
	tx.Room().GameStarted = true
	tx.Commit()

	assert.Empty(t, session.responses())
}

func TestSubscribeToRoomHandler_TwoSessionsPushedIndependently(t *testing.T) {
	t.Parallel()
	p := room.NewProvider(nil)
	created := p.CreateNewRoom("conn-host", nil, nil, 1, 4)
	h := NewSubscribeToRoomHandler(p, nil)
	sessionA := &fakeSession{}
	sessionB := &fakeSession{}

	_, err := h.HandleWithSession(context.Background(),
		message.NewSubscribeToRoomRequest("conn-a", "pw", "req-a", created.Id), sessionA)
	require.NoError(t, err)
	_, err = h.HandleWithSession(context.Background(),
		message.NewSubscribeToRoomRequest("conn-b", "pw", "req-b", created.Id), sessionB)
	require.NoError(t, err)

	tx := p.BeginTransactionWithRoom(created.Id)
	tx.Room().GameStarted = true
	tx.Commit()

	assert.Len(t, sessionA.responses(), 1)
	assert.Len(t, sessionB.responses(), 1)
}

func TestSubscribeToRoomHandler_PlainHandleRejected(t *testing.T) {
	t.Parallel()
	p := room.NewProvider(nil)
	h := NewSubscribeToRoomHandler(p, nil)

	req := message.NewSubscribeToRoomRequest("conn-watcher", "pw", "req-sub", "room-1")
	_, err := h.Handle(context.Background(), req, nil, nil)

	var invalid *domain.InvalidArgumentError
	assert.ErrorAs(t, err, &invalid)
}
