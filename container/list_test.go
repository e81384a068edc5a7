package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestList_AddGetRemove(t *testing.T) {
	t.Parallel()
	l := NewList("a", "b")

	l.Add("c")
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, "c", l.Get(2))

	removed := l.RemoveAt(0)
	assert.Equal(t, "a", removed)
	assert.Equal(t, []string{"b", "c"}, l.Items())
}

func TestList_RemoveFunc(t *testing.T) {
	t.Parallel()
	l := NewList(1, 2, 3, 2)

	value, found := l.RemoveFunc(func(v int) bool { return v == 2 })
	assert.True(t, found)
	assert.Equal(t, 2, value)
	// only the first match goes
	assert.Equal(t, []int{1, 3, 2}, l.Items())

	_, found = l.RemoveFunc(func(v int) bool { return v == 99 })
	assert.False(t, found)
}

func TestList_ListenersFireOnEveryMutation(t *testing.T) {
	t.Parallel()
	l := NewList[string]()

	events := []string{}
	ln := &ListListener[string]{
		OnAdd:    func(i int, v string) { events = append(events, "add:"+v) },
		OnSet:    func(i int, old, new string) { events = append(events, "set:"+old+">"+new) },
		OnRemove: func(i int, v string) { events = append(events, "remove:"+v) },
		OnClear:  func() { events = append(events, "clear") },
	}
	l.Subscribe(ln)
	// second subscribe of the same listener must not double deliveries
	l.Subscribe(ln)

	l.Add("x")
	l.Set(0, "y")
	l.RemoveAt(0)
	l.Clear()

	assert.Equal(t, []string{"add:x", "set:x>y", "remove:y", "clear"}, events)
}

func TestList_UnsubscribeStopsDelivery(t *testing.T) {
	t.Parallel()
	l := NewList[int]()

	count := 0
	ln := &ListListener[int]{OnAdd: func(int, int) { count++ }}
	l.Subscribe(ln)
	l.Add(1)
	l.Unsubscribe(ln)
	l.Add(2)

	assert.Equal(t, 1, count)
}

func TestList_CopyDropsListeners(t *testing.T) {
	t.Parallel()
	l := NewList(1, 2)

	count := 0
	l.Subscribe(&ListListener[int]{OnAdd: func(int, int) { count++ }})

	c := l.Copy()
	c.Add(3)

	assert.Equal(t, 0, count)
	assert.Equal(t, []int{1, 2}, l.Items())
	assert.Equal(t, []int{1, 2, 3}, c.Items())
}
