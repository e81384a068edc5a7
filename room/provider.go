package room

import (
	"crypto/rand"
	"encoding/binary"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// CommitListener is notified with the final committed room value after a
// transaction on a subscribed room id persists.
type CommitListener interface {
	OnRoomCommitted(room *Room)
}

// Provider is the single source of truth for all rooms. It owns the room
// collection, a per-room-id lock table and the commit-listener registry, and
// enforces that at most one open transaction exists per room id at any time.
type Provider struct {
	mu        sync.Mutex
	rooms     map[string]*Room
	locks     map[string]*sync.Mutex
	listeners map[string][]CommitListener
	commits   atomic.Uint64
	logger    *slog.Logger
}

func NewProvider(logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		rooms:     make(map[string]*Room),
		locks:     make(map[string]*sync.Mutex),
		listeners: make(map[string][]CommitListener),
		logger:    logger,
	}
}

// CreateNewRoom stores an empty room under a fresh random id and returns a
// copy of it. The room is visible to queries and transactions as soon as this
// returns; the host is not connected yet.
func (p *Provider) CreateNewRoom(hostConnectionId string, whitelist, blacklist []string, minRoomSize, maxRoomSize int) *Room {
	p.mu.Lock()
	id := newRoomId()
	for _, exists := p.rooms[id]; exists; _, exists = p.rooms[id] {
		id = newRoomId()
	}
	r := newRoom(id, hostConnectionId, whitelist, blacklist, minRoomSize, maxRoomSize)
	p.rooms[id] = r
	p.locks[id] = &sync.Mutex{}
	p.mu.Unlock()

	p.logger.Info("room created",
		"room_id", id,
		"host_connection_id", hostConnectionId,
		"min_room_size", minRoomSize,
		"max_room_size", maxRoomSize)

	return r.Copy()
}

// Get returns a defensive copy of the room, or nil if the id is unknown.
// Never blocks.
func (p *Provider) Get(id string) *Room {
	p.mu.Lock()
	defer p.mu.Unlock()

	r, exists := p.rooms[id]
	if !exists {
		return nil
	}
	return r.Copy()
}

// BeginTransactionWithRoom returns nil if the id is unknown. Otherwise it
// blocks until the room's lock slot is free and returns an open transaction
// wrapping a fresh working copy. There is no acquisition timeout; a
// transaction that is never finalized keeps the room locked forever.
func (p *Provider) BeginTransactionWithRoom(id string) *Transaction {
	for {
		p.mu.Lock()
		lock, exists := p.locks[id]
		p.mu.Unlock()
		if !exists {
			return nil
		}

		lock.Lock()

		p.mu.Lock()
		current, exists := p.locks[id]
		if exists && current == lock {
			working := p.rooms[id].Copy()
			p.mu.Unlock()
			return newTransaction(p, id, lock, working)
		}
		p.mu.Unlock()
		lock.Unlock()
		if !exists {
			// deleted while we were waiting
			return nil
		}
		// deleted and re-created under the same id; try the new slot
	}
}

// BeginTransactionsForRoomsWithFilter opens a transaction for every room
// matching the filter and hands it to onEach, which is responsible for
// finalizing it. The filter is re-checked against the locked working copy,
// because room state can change between the initial scan and lock
// acquisition; rooms failing the re-check are aborted without invoking
// onEach.
func (p *Provider) BeginTransactionsForRoomsWithFilter(filter func(*Room) bool, onEach func(*Transaction)) {
	for _, id := range p.roomIdsMatching(filter) {
		tx := p.BeginTransactionWithRoom(id)
		if tx == nil {
			continue
		}
		if !filter(tx.Room()) {
			tx.Abort()
			continue
		}
		onEach(tx)
	}
}

// HasApplicableRoom scans not-yet-started rooms for the first one compatible
// with the join request (first-fit, not best-fit). The winner is returned as
// an open transaction; the caller must add the user and commit, or abort.
// Rooms failing the re-validation under their lock are aborted and the scan
// moves on. Returns nil when nothing matches.
func (p *Provider) HasApplicableRoom(userName string, whitelist, blacklist []string, minRoomSize, maxRoomSize int) *Transaction {
	for _, id := range p.roomIdsMatching(func(r *Room) bool { return !r.GameStarted }) {
		tx := p.BeginTransactionWithRoom(id)
		if tx == nil {
			continue
		}
		if tx.Room().Matches(userName, whitelist, blacklist, minRoomSize, maxRoomSize) {
			return tx
		}
		tx.Abort()
	}
	return nil
}

// DeleteRoom atomically removes the room and returns it, or nil if unknown.
// A transaction still open on the deleted room will finalize against a room
// that no longer exists: its commit persists nothing and notifies nobody.
func (p *Provider) DeleteRoom(id string) *Room {
	p.mu.Lock()
	r, exists := p.rooms[id]
	if !exists {
		p.mu.Unlock()
		return nil
	}
	delete(p.rooms, id)
	delete(p.locks, id)
	delete(p.listeners, id)
	p.mu.Unlock()

	p.logger.Info("room deleted", "room_id", id)
	return r
}

// DeleteRooms removes every room matching the filter in one critical section
// and returns the removed rooms.
func (p *Provider) DeleteRooms(filter func(*Room) bool) []*Room {
	p.mu.Lock()
	var removed []*Room
	for id, r := range p.rooms {
		if !filter(r.Copy()) {
			continue
		}
		removed = append(removed, r)
		delete(p.rooms, id)
		delete(p.locks, id)
		delete(p.listeners, id)
	}
	p.mu.Unlock()

	for _, r := range removed {
		p.logger.Info("room deleted", "room_id", r.Id)
	}
	return removed
}

// ClearRooms removes every room.
func (p *Provider) ClearRooms() {
	p.mu.Lock()
	count := len(p.rooms)
	p.rooms = make(map[string]*Room)
	p.locks = make(map[string]*sync.Mutex)
	p.listeners = make(map[string][]CommitListener)
	p.mu.Unlock()

	p.logger.Info("all rooms cleared", "count", count)
}

func (p *Provider) ContainsRoom(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, exists := p.rooms[id]
	return exists
}

// GetAllRooms returns defensive copies of every known room.
func (p *Provider) GetAllRooms() []*Room {
	p.mu.Lock()
	defer p.mu.Unlock()

	rooms := make([]*Room, 0, len(p.rooms))
	for _, r := range p.rooms {
		rooms = append(rooms, r.Copy())
	}
	return rooms
}

// GetRoomsById returns copies of the rooms whose ids are known; unknown ids
// are skipped.
func (p *Provider) GetRoomsById(ids []string) []*Room {
	p.mu.Lock()
	defer p.mu.Unlock()

	var rooms []*Room
	for _, id := range ids {
		if r, exists := p.rooms[id]; exists {
			rooms = append(rooms, r.Copy())
		}
	}
	return rooms
}

// AddCommitListener registers a listener for commits to the given room id.
// Registering the same listener twice for one room id is a no-op.
func (p *Provider) AddCommitListener(roomId string, listener CommitListener) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, existing := range p.listeners[roomId] {
		if existing == listener {
			return
		}
	}
	p.listeners[roomId] = append(p.listeners[roomId], listener)
}

func (p *Provider) RemoveCommitListener(roomId string, listener CommitListener) {
	p.mu.Lock()
	defer p.mu.Unlock()

	registered := p.listeners[roomId]
	for i, existing := range registered {
		if existing == listener {
			p.listeners[roomId] = append(registered[:i], registered[i+1:]...)
			return
		}
	}
}

// CommitCount reports how many transactions have committed since the
// provider was created.
func (p *Provider) CommitCount() uint64 {
	return p.commits.Load()
}

// commitTransaction persists the working copy as the new canonical room,
// releases the per-room lock and only then notifies the registered commit
// listeners, synchronously on the committing goroutine. A slow listener
// therefore delays the committer but not other writers of the same room;
// moving delivery to an async queue would change push ordering guarantees,
// so it stays synchronous.
func (p *Provider) commitTransaction(tx *Transaction) {
	p.mu.Lock()
	var committed *Room
	var notify []CommitListener
	if _, exists := p.rooms[tx.roomId]; exists {
		committed = tx.working.Copy()
		p.rooms[tx.roomId] = committed
		notify = append(notify, p.listeners[tx.roomId]...)
	}
	p.mu.Unlock()

	p.commits.Add(1)
	tx.lock.Unlock()

	if committed == nil {
		p.logger.Warn("commit against deleted room dropped", "room_id", tx.roomId)
		return
	}

	p.logger.Debug("room transaction committed",
		"room_id", tx.roomId,
		"changes", tx.changes)

	for _, listener := range notify {
		listener.OnRoomCommitted(committed.Copy())
	}
}

// abortTransaction releases the lock without touching the stored room.
func (p *Provider) abortTransaction(tx *Transaction) {
	tx.lock.Unlock()
	p.logger.Debug("room transaction aborted", "room_id", tx.roomId)
}

func (p *Provider) roomIdsMatching(filter func(*Room) bool) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var ids []string
	for id, r := range p.rooms {
		if filter(r.Copy()) {
			ids = append(ids, id)
		}
	}
	return ids
}

// newRoomId renders a random non-negative integer as a compact hex string.
func newRoomId() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 16)
	}
	return strconv.FormatUint(uint64(binary.BigEndian.Uint32(b[:])), 16)
}
