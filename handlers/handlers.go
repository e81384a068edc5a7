// Package handlers implements one request handler per protocol operation.
// Handlers contain the business rules; locking and persistence stay behind
// the room provider, authentication stays in the dispatcher.
package handlers

import (
	"matchmaking/dispatch"
	"matchmaking/domain"
	"matchmaking/message"
	"matchmaking/room"
)

// sessionless is embedded by handlers that keep no per-session state.
type sessionless struct{}

func (sessionless) OnSessionClosed(dispatch.Session) {}

// roomView builds the wire snapshot of a room.
func roomView(r *room.Room) *message.Room {
	queue := make([]*domain.GameData, 0, r.DataToBeSentToTheHost.Len())
	r.DataToBeSentToTheHost.Each(func(_ int, data *domain.GameData) {
		queue = append(queue, data.Copy())
	})
	return &message.Room{
		Id:                    r.Id,
		HostConnectionId:      r.HostConnectionId,
		Whitelist:             r.Whitelist,
		Blacklist:             r.Blacklist,
		MinRoomSize:           r.MinRoomSize,
		MaxRoomSize:           r.MaxRoomSize,
		ConnectedUsers:        r.ConnectedUsers.Items(),
		GameState:             r.GameState.Copy(),
		GameStarted:           r.GameStarted,
		DataToBeSentToTheHost: queue,
	}
}
