package input

// Bus is an in-process Target. Hosts translate their native events into
// Event values and Emit them.
//
// Bus is not safe for concurrent use. Emit and AddListener must run on the
// scheduler goroutine.
type Bus struct {
	caps      Capabilities
	listeners map[EventKind][]*listenerEntry
}

type listenerEntry struct {
	fn      Listener
	removed bool
}

// NewBus creates a bus reporting the given capabilities.
func NewBus(caps Capabilities) *Bus {
	return &Bus{
		caps:      caps,
		listeners: make(map[EventKind][]*listenerEntry),
	}
}

// Capabilities implements Target.
func (b *Bus) Capabilities() Capabilities {
	return b.caps
}

// AddListener implements Target.
func (b *Bus) AddListener(kind EventKind, fn Listener) func() {
	entry := &listenerEntry{fn: fn}
	b.listeners[kind] = append(b.listeners[kind], entry)

	return func() {
		if entry.removed {
			return
		}
		entry.removed = true

		list := b.listeners[kind]
		for i, e := range list {
			if e == entry {
				b.listeners[kind] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
	}
}

// Emit delivers ev to every listener attached for its kind.
// Listeners removed during delivery are skipped.
func (b *Bus) Emit(ev Event) {
	list := b.listeners[ev.Kind]
	if len(list) == 0 {
		return
	}

	snapshot := make([]*listenerEntry, len(list))
	copy(snapshot, list)
	for _, e := range snapshot {
		if !e.removed {
			e.fn(ev)
		}
	}
}

// Len returns the number of attached listeners across all kinds.
func (b *Bus) Len() int {
	n := 0
	for _, list := range b.listeners {
		n += len(list)
	}
	return n
}
