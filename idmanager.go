package marionette

// ID is a canonical identifier token. Two IDs obtained from the same
// IDManager for the same name are the same pointer, so IDs compare with ==.
type ID struct {
	name string
}

// Name returns the string the ID was interned from.
func (id *ID) Name() string {
	if id == nil {
		return ""
	}
	return id.name
}

// String implements fmt.Stringer.
func (id *ID) String() string { return id.Name() }

// IDManager interns identifier strings. It is allocated by
// Framework.Initialize and released by Framework.Dispose.
type IDManager struct {
	ids      map[string]*ID
	released bool
}

func newIDManager() *IDManager {
	return &IDManager{ids: make(map[string]*ID)}
}

// Get returns the canonical ID for name, interning it on first use.
// A nil or released manager hands out fresh, uninterned IDs so callers never
// crash when the framework is torn down underneath them.
func (m *IDManager) Get(name string) *ID {
	if m == nil || m.released {
		return &ID{name: name}
	}
	if id, ok := m.ids[name]; ok {
		return id
	}
	id := &ID{name: name}
	m.ids[name] = id
	return id
}

// GetAll interns every name in order.
func (m *IDManager) GetAll(names []string) []*ID {
	out := make([]*ID, len(names))
	for i, n := range names {
		out[i] = m.Get(n)
	}
	return out
}

// IsRegistered reports whether name has already been interned.
func (m *IDManager) IsRegistered(name string) bool {
	if m == nil || m.released {
		return false
	}
	_, ok := m.ids[name]
	return ok
}

// Len returns the number of interned identifiers.
func (m *IDManager) Len() int {
	if m == nil {
		return 0
	}
	return len(m.ids)
}

// Released reports whether Release has been called.
func (m *IDManager) Released() bool {
	return m != nil && m.released
}

// Release drops every interned identifier. Releasing twice is a no-op.
func (m *IDManager) Release() {
	if m == nil || m.released {
		return
	}
	m.ids = nil
	m.released = true
}
