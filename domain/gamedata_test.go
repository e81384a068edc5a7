package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchmaking/container"
)

func TestGameData_PutGetDefault(t *testing.T) {
	t.Parallel()
	g := NewGameData("conn-1")

	g.Put("score", 42)
	value, ok := g.Get("score")
	assert.True(t, ok)
	assert.Equal(t, 42, value)

	assert.Equal(t, "fallback", g.GetOrDefault("missing", "fallback"))
	assert.Equal(t, 42, g.GetOrDefault("score", 0))
}

func TestGameData_ReplaceContents(t *testing.T) {
	t.Parallel()
	g := NewGameData("host")
	g.Put("stale", true)
	g.Put("score", 1)

	other := NewGameData("client")
	other.Put("score", 2)
	other.Put("round", 3)

	puts := 0
	removes := 0
	g.Entries().Subscribe(&container.MapListener[string, any]{
		OnPut:    func(string, any, any, bool) { puts++ },
		OnRemove: func(string, any) { removes++ },
	})

	g.ReplaceContents(other)

	assert.Equal(t, "client", g.CreatedByConnectionId)
	assert.True(t, g.CreatedAtUtc.Equal(other.CreatedAtUtc))
	assert.Equal(t, map[string]any{"score": 2, "round": 3}, g.Entries().Items())
	// every old key removed, every new key put
	assert.Equal(t, 2, removes)
	assert.Equal(t, 2, puts)
}

func TestGameData_Equal(t *testing.T) {
	t.Parallel()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	a := NewGameData("conn")
	a.CreatedAtUtc = created
	a.Put("k", "v")

	b := a.Copy()
	assert.True(t, a.Equal(b))

	b.Put("k", "other")
	assert.False(t, a.Equal(b))

	c := a.Copy()
	c.CreatedAtUtc = created.Add(time.Second)
	assert.False(t, a.Equal(c))

	var nilData *GameData
	assert.False(t, nilData.Equal(a))
	assert.True(t, nilData.Equal(nil))
}

func TestGameData_CopyIsIndependent(t *testing.T) {
	t.Parallel()
	g := NewGameData("conn")
	g.Put("k", 1)

	c := g.Copy()
	c.Put("k", 2)
	c.Put("extra", true)

	value, _ := g.Get("k")
	assert.Equal(t, 1, value)
	assert.False(t, g.Contains("extra"))
}

func TestGameData_JSONRoundTrip(t *testing.T) {
	t.Parallel()
	g := NewGameData("conn-json")
	g.CreatedAtUtc = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	g.Put("name", "vatbub")
	g.Put("score", float64(7))

	data, err := json.Marshal(g)
	require.NoError(t, err)

	decoded := &GameData{}
	require.NoError(t, json.Unmarshal(data, decoded))

	assert.True(t, g.Equal(decoded))
}
