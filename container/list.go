package container

// ListListener receives change notifications from a List. Any callback may be
// nil, in which case the corresponding event is not delivered.
type ListListener[T any] struct {
	OnAdd    func(index int, value T)
	OnSet    func(index int, old, new T)
	OnRemove func(index int, value T)
	OnClear  func()
}

// List is an ordered collection whose mutations can be observed. It is not
// safe for concurrent use; a transaction working copy is owned by exactly one
// goroutine, and the canonical copies are guarded by the room provider.
type List[T any] struct {
	items     []T
	listeners []*ListListener[T]
}

func NewList[T any](items ...T) *List[T] {
	l := &List[T]{items: make([]T, len(items))}
	copy(l.items, items)
	return l
}

// Subscribe registers a listener. Registering the same listener twice is a
// no-op.
func (l *List[T]) Subscribe(ln *ListListener[T]) {
	for _, existing := range l.listeners {
		if existing == ln {
			return
		}
	}
	l.listeners = append(l.listeners, ln)
}

func (l *List[T]) Unsubscribe(ln *ListListener[T]) {
	for i, existing := range l.listeners {
		if existing == ln {
			l.listeners = append(l.listeners[:i], l.listeners[i+1:]...)
			return
		}
	}
}

func (l *List[T]) Len() int {
	return len(l.items)
}

func (l *List[T]) Get(index int) T {
	return l.items[index]
}

func (l *List[T]) Add(value T) {
	l.items = append(l.items, value)
	for _, ln := range l.listeners {
		if ln.OnAdd != nil {
			ln.OnAdd(len(l.items)-1, value)
		}
	}
}

func (l *List[T]) Set(index int, value T) {
	old := l.items[index]
	l.items[index] = value
	for _, ln := range l.listeners {
		if ln.OnSet != nil {
			ln.OnSet(index, old, value)
		}
	}
}

func (l *List[T]) RemoveAt(index int) T {
	value := l.items[index]
	l.items = append(l.items[:index], l.items[index+1:]...)
	for _, ln := range l.listeners {
		if ln.OnRemove != nil {
			ln.OnRemove(index, value)
		}
	}
	return value
}

// RemoveFunc removes the first element matching the predicate and reports
// whether one was found.
func (l *List[T]) RemoveFunc(match func(T) bool) (T, bool) {
	for i, value := range l.items {
		if match(value) {
			l.RemoveAt(i)
			return value, true
		}
	}
	var zero T
	return zero, false
}

func (l *List[T]) Clear() {
	l.items = l.items[:0]
	for _, ln := range l.listeners {
		if ln.OnClear != nil {
			ln.OnClear()
		}
	}
}

// Items returns a copy of the underlying slice in order.
func (l *List[T]) Items() []T {
	items := make([]T, len(l.items))
	copy(items, l.items)
	return items
}

// Each calls fn for every element in order.
func (l *List[T]) Each(fn func(index int, value T)) {
	for i, value := range l.items {
		fn(i, value)
	}
}

// Copy returns a shallow element copy of the list. Listeners are not carried
// over.
func (l *List[T]) Copy() *List[T] {
	return NewList(l.items...)
}
