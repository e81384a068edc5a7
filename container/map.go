package container

// MapListener receives change notifications from a Map. Any callback may be
// nil.
type MapListener[K comparable, V any] struct {
	OnPut    func(key K, old, new V, replaced bool)
	OnRemove func(key K, value V)
	OnClear  func()
}

// Map is a key/value collection whose mutations can be observed. Like List it
// is not safe for concurrent use.
type Map[K comparable, V any] struct {
	items     map[K]V
	keys      []K // insertion order, keeps Keys() deterministic
	listeners []*MapListener[K, V]
}

func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{items: make(map[K]V)}
}

func (m *Map[K, V]) Subscribe(ln *MapListener[K, V]) {
	for _, existing := range m.listeners {
		if existing == ln {
			return
		}
	}
	m.listeners = append(m.listeners, ln)
}

func (m *Map[K, V]) Unsubscribe(ln *MapListener[K, V]) {
	for i, existing := range m.listeners {
		if existing == ln {
			m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
			return
		}
	}
}

func (m *Map[K, V]) Len() int {
	return len(m.items)
}

func (m *Map[K, V]) Get(key K) (V, bool) {
	value, ok := m.items[key]
	return value, ok
}

func (m *Map[K, V]) Contains(key K) bool {
	_, ok := m.items[key]
	return ok
}

func (m *Map[K, V]) Put(key K, value V) {
	old, replaced := m.items[key]
	m.items[key] = value
	if !replaced {
		m.keys = append(m.keys, key)
	}
	for _, ln := range m.listeners {
		if ln.OnPut != nil {
			ln.OnPut(key, old, value, replaced)
		}
	}
}

func (m *Map[K, V]) Remove(key K) (V, bool) {
	value, ok := m.items[key]
	if !ok {
		return value, false
	}
	delete(m.items, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	for _, ln := range m.listeners {
		if ln.OnRemove != nil {
			ln.OnRemove(key, value)
		}
	}
	return value, true
}

func (m *Map[K, V]) Clear() {
	m.items = make(map[K]V)
	m.keys = nil
	for _, ln := range m.listeners {
		if ln.OnClear != nil {
			ln.OnClear()
		}
	}
}

// Keys returns the keys in insertion order.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Items returns a copy of the underlying map.
func (m *Map[K, V]) Items() map[K]V {
	items := make(map[K]V, len(m.items))
	for k, v := range m.items {
		items[k] = v
	}
	return items
}

// Copy returns a shallow value copy of the map. Listeners are not carried
// over.
func (m *Map[K, V]) Copy() *Map[K, V] {
	c := NewMap[K, V]()
	for _, k := range m.keys {
		c.Put(k, m.items[k])
	}
	return c
}
