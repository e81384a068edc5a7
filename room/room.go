package room

import (
	"slices"

	"matchmaking/container"
	"matchmaking/domain"
)

// Room is a bounded lobby of users with host-authoritative game state. The
// connected-user list, the host queue and the game-state entries live in
// observable containers so a transaction can watch mutations of its working
// copy. The canonical copy held by the provider has no listeners attached.
//
// Nothing outside the join path validates MinRoomSize against MaxRoomSize or
// re-checks capacity; a handler mutating a working copy directly can exceed
// the bounds. That matches the join-only enforcement the protocol specifies.
type Room struct {
	Id                    string
	HostConnectionId      string
	Whitelist             []string
	Blacklist             []string
	MinRoomSize           int
	MaxRoomSize           int
	ConnectedUsers        *container.List[domain.User]
	GameState             *domain.GameData
	GameStarted           bool
	DataToBeSentToTheHost *container.List[*domain.GameData]
}

func newRoom(id, hostConnectionId string, whitelist, blacklist []string, minRoomSize, maxRoomSize int) *Room {
	return &Room{
		Id:                    id,
		HostConnectionId:      hostConnectionId,
		Whitelist:             slices.Clone(whitelist),
		Blacklist:             slices.Clone(blacklist),
		MinRoomSize:           minRoomSize,
		MaxRoomSize:           maxRoomSize,
		ConnectedUsers:        container.NewList[domain.User](),
		GameState:             domain.NewGameData(hostConnectionId),
		DataToBeSentToTheHost: container.NewList[*domain.GameData](),
	}
}

// Copy returns a deep copy. Container listeners are never carried over.
func (r *Room) Copy() *Room {
	queue := container.NewList[*domain.GameData]()
	r.DataToBeSentToTheHost.Each(func(_ int, data *domain.GameData) {
		queue.Add(data.Copy())
	})
	return &Room{
		Id:                    r.Id,
		HostConnectionId:      r.HostConnectionId,
		Whitelist:             slices.Clone(r.Whitelist),
		Blacklist:             slices.Clone(r.Blacklist),
		MinRoomSize:           r.MinRoomSize,
		MaxRoomSize:           r.MaxRoomSize,
		ConnectedUsers:        r.ConnectedUsers.Copy(),
		GameState:             r.GameState.Copy(),
		GameStarted:           r.GameStarted,
		DataToBeSentToTheHost: queue,
	}
}

// HasUser reports whether a user with the given connection id is connected.
func (r *Room) HasUser(connectionId string) bool {
	found := false
	r.ConnectedUsers.Each(func(_ int, u domain.User) {
		if u.ConnectionId == connectionId {
			found = true
		}
	})
	return found
}

// Matches evaluates the compatibility checks of the matching policy against
// a join request. All eight must hold:
//
//  1. the game has not started;
//  2. one more user still fits below MaxRoomSize;
//  3. the room's configured floor is not lower than what the requester
//     accepts;
//  4. the room's configured ceiling does not exceed what the requester
//     accepts;
//  5. with a requester whitelist, every connected user is on it;
//  6. with a requester blacklist, no connected user is on it;
//  7. with a room whitelist, the requester is on it;
//  8. with a room blacklist, the requester is not on it.
func (r *Room) Matches(userName string, whitelist, blacklist []string, minRoomSize, maxRoomSize int) bool {
	if r.GameStarted {
		return false
	}
	if r.ConnectedUsers.Len()+1 > r.MaxRoomSize {
		return false
	}
	if r.MinRoomSize < minRoomSize {
		return false
	}
	if r.MaxRoomSize > maxRoomSize {
		return false
	}
	if whitelist != nil {
		for _, u := range r.ConnectedUsers.Items() {
			if !slices.Contains(whitelist, u.UserName) {
				return false
			}
		}
	}
	if blacklist != nil {
		for _, u := range r.ConnectedUsers.Items() {
			if slices.Contains(blacklist, u.UserName) {
				return false
			}
		}
	}
	if r.Whitelist != nil && !slices.Contains(r.Whitelist, userName) {
		return false
	}
	if r.Blacklist != nil && slices.Contains(r.Blacklist, userName) {
		return false
	}
	return true
}
