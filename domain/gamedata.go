package domain

import (
	"encoding/json"
	"reflect"
	"time"

	"matchmaking/container"
)

// GameData is an open key/value bag of game state. The host owns the
// authoritative copy; clients send their own bags to the host through the
// room's outbound queue. The entries live in an observable map so that a
// transaction working copy can watch mutations.
type GameData struct {
	CreatedByConnectionId string
	CreatedAtUtc          time.Time
	entries               *container.Map[string, any]
}

func NewGameData(createdByConnectionId string) *GameData {
	return &GameData{
		CreatedByConnectionId: createdByConnectionId,
		CreatedAtUtc:          time.Now().UTC(),
		entries:               container.NewMap[string, any](),
	}
}

// Entries exposes the underlying observable map. Mutating it mutates the
// game data.
func (g *GameData) Entries() *container.Map[string, any] {
	return g.entries
}

func (g *GameData) Get(key string) (any, bool) {
	return g.entries.Get(key)
}

func (g *GameData) GetOrDefault(key string, fallback any) any {
	if value, ok := g.entries.Get(key); ok {
		return value
	}
	return fallback
}

func (g *GameData) Put(key string, value any) {
	g.entries.Put(key, value)
}

func (g *GameData) Remove(key string) (any, bool) {
	return g.entries.Remove(key)
}

func (g *GameData) Contains(key string) bool {
	return g.entries.Contains(key)
}

func (g *GameData) Keys() []string {
	return g.entries.Keys()
}

func (g *GameData) Len() int {
	return g.entries.Len()
}

// Copy returns a defensive copy. Listeners on the entries map are not carried
// over.
func (g *GameData) Copy() *GameData {
	return &GameData{
		CreatedByConnectionId: g.CreatedByConnectionId,
		CreatedAtUtc:          g.CreatedAtUtc,
		entries:               g.entries.Copy(),
	}
}

// ReplaceContents swaps the timestamp, creator and every key for the ones of
// other. The swap is expressed as remove-all-old followed by set-all-new so
// that per-key notifications fire on observed copies.
func (g *GameData) ReplaceContents(other *GameData) {
	for _, key := range g.entries.Keys() {
		g.entries.Remove(key)
	}
	g.CreatedByConnectionId = other.CreatedByConnectionId
	g.CreatedAtUtc = other.CreatedAtUtc
	for _, key := range other.entries.Keys() {
		value, _ := other.entries.Get(key)
		g.entries.Put(key, value)
	}
}

// Equal reports whether two bags hold the same creator, timestamp and
// entries. Used to match caller-acknowledged entries in the host queue.
func (g *GameData) Equal(other *GameData) bool {
	if g == nil || other == nil {
		return g == other
	}
	if g.CreatedByConnectionId != other.CreatedByConnectionId {
		return false
	}
	if !g.CreatedAtUtc.Equal(other.CreatedAtUtc) {
		return false
	}
	return reflect.DeepEqual(g.entries.Items(), other.entries.Items())
}

type gameDataJSON struct {
	CreatedByConnectionId string         `json:"createdByConnectionId"`
	CreatedAtUtc          time.Time      `json:"createdAtUtc"`
	Entries               map[string]any `json:"entries"`
}

func (g *GameData) MarshalJSON() ([]byte, error) {
	return json.Marshal(gameDataJSON{
		CreatedByConnectionId: g.CreatedByConnectionId,
		CreatedAtUtc:          g.CreatedAtUtc,
		Entries:               g.entries.Items(),
	})
}

func (g *GameData) UnmarshalJSON(data []byte) error {
	var wire gameDataJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	g.CreatedByConnectionId = wire.CreatedByConnectionId
	g.CreatedAtUtc = wire.CreatedAtUtc
	g.entries = container.NewMap[string, any]()
	for key, value := range wire.Entries {
		g.entries.Put(key, value)
	}
	return nil
}
