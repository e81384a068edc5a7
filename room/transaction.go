package room

import (
	"sync"

	"matchmaking/container"
	"matchmaking/domain"
)

// Transaction is an exclusive handle on one room. It wraps a mutable working
// copy; commit persists the copy as the new canonical room, abort discards it
// and leaves the stored room untouched. Either way the per-room lock is
// released exactly once. A transaction belongs to the goroutine that opened
// it and must never be shared.
type Transaction struct {
	provider *Provider
	roomId   string
	lock     *sync.Mutex

	mu        sync.Mutex
	finalized bool
	working   *Room
	changes   int

	userListener  *container.ListListener[domain.User]
	queueListener *container.ListListener[*domain.GameData]
	stateListener *container.MapListener[string, any]
}

func newTransaction(provider *Provider, roomId string, lock *sync.Mutex, working *Room) *Transaction {
	tx := &Transaction{
		provider: provider,
		roomId:   roomId,
		lock:     lock,
		working:  working,
	}
	tx.userListener = &container.ListListener[domain.User]{
		OnAdd:    func(int, domain.User) { tx.changes++ },
		OnSet:    func(int, domain.User, domain.User) { tx.changes++ },
		OnRemove: func(int, domain.User) { tx.changes++ },
		OnClear:  func() { tx.changes++ },
	}
	tx.queueListener = &container.ListListener[*domain.GameData]{
		OnAdd:    func(int, *domain.GameData) { tx.changes++ },
		OnSet:    func(int, *domain.GameData, *domain.GameData) { tx.changes++ },
		OnRemove: func(int, *domain.GameData) { tx.changes++ },
		OnClear:  func() { tx.changes++ },
	}
	tx.stateListener = &container.MapListener[string, any]{
		OnPut:    func(string, any, any, bool) { tx.changes++ },
		OnRemove: func(string, any) { tx.changes++ },
		OnClear:  func() { tx.changes++ },
	}
	working.ConnectedUsers.Subscribe(tx.userListener)
	working.DataToBeSentToTheHost.Subscribe(tx.queueListener)
	working.GameState.Entries().Subscribe(tx.stateListener)
	return tx
}

// Room exposes the mutable working copy. It panics after Commit or Abort;
// silently handing out a stale copy would mask post-finalization mutation
// bugs.
func (tx *Transaction) Room() *Room {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	if tx.finalized {
		panic("room: transaction already finalized")
	}
	return tx.working
}

// Commit persists the working copy. Idempotent: the second and every later
// call is a no-op.
func (tx *Transaction) Commit() {
	if !tx.finalize() {
		return
	}
	tx.provider.commitTransaction(tx)
}

// Abort releases the room without persisting anything. Idempotent.
func (tx *Transaction) Abort() {
	if !tx.finalize() {
		return
	}
	tx.provider.abortTransaction(tx)
}

func (tx *Transaction) finalize() bool {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	if tx.finalized {
		return false
	}
	tx.finalized = true
	tx.working.ConnectedUsers.Unsubscribe(tx.userListener)
	tx.working.DataToBeSentToTheHost.Unsubscribe(tx.queueListener)
	tx.working.GameState.Entries().Unsubscribe(tx.stateListener)
	return true
}
