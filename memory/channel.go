package memory

// MemoryChannel is the ordered mapping from channel name to MemoryTable:
// a process-lifetime singleton that exclusively owns every MemoryTable
// created beneath it. It is a purely structural container — no query
// logic lives here, only lookup and lazy creation.
type MemoryChannel struct {
	tables map[string]*MemoryTable
	order  []string
}

// NewChannel returns an empty MemoryChannel.
func NewChannel() *MemoryChannel {
	return &MemoryChannel{tables: make(map[string]*MemoryTable)}
}

// EnsureTable returns the named channel's MemoryTable, creating an empty
// one (and recording insertion order) if it does not already exist.
func (c *MemoryChannel) EnsureTable(name string) *MemoryTable {
	t, ok := c.tables[name]
	if !ok {
		t = NewTable()
		c.tables[name] = t
		c.order = append(c.order, name)
	}
	return t
}

// Table returns the named channel's MemoryTable, or false if no channel
// by that name has been created.
func (c *MemoryChannel) Table(name string) (*MemoryTable, bool) {
	t, ok := c.tables[name]
	return t, ok
}

// Names returns the channel names in creation order.
func (c *MemoryChannel) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}
