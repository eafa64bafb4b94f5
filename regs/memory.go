package regs

// StoreHook observes a store to a Memory register. It receives the value
// being written and returns the value the register holds afterwards, which
// lets a simulation model read-only status bits and self-clearing bits.
type StoreHook func(addr Address, old, value uint32) uint32

// LoadHook produces the value returned by a load. It receives the stored
// value.
type LoadHook func(addr Address, stored uint32) uint32

// Memory is a sparse, host-side register file implementing Bus. Registers
// that were never written read as zero unless Preset.
//
// Memory is not safe for concurrent use, in the same way the hardware
// register blocks it stands in for are not.
type Memory struct {
	words      map[Address]uint32
	storeHooks map[Address]StoreHook
	loadHooks  map[Address]LoadHook

	loads  uint64
	stores uint64
	trace  []Access
}

// Access records one bus transaction when tracing is enabled.
type Access struct {
	Store bool
	Addr  Address
	Value uint32
}

// NewMemory returns an empty register file.
func NewMemory() *Memory {
	return &Memory{
		words:      make(map[Address]uint32),
		storeHooks: make(map[Address]StoreHook),
		loadHooks:  make(map[Address]LoadHook),
	}
}

// Preset sets a register without running hooks or counting a store.
func (m *Memory) Preset(addr Address, value uint32) {
	m.words[addr] = value
}

// Peek returns a register without running hooks or counting a load.
func (m *Memory) Peek(addr Address) uint32 {
	return m.words[addr]
}

// OnStore installs a hook for stores to addr, replacing any previous one.
func (m *Memory) OnStore(addr Address, hook StoreHook) {
	m.storeHooks[addr] = hook
}

// OnLoad installs a hook for loads from addr, replacing any previous one.
func (m *Memory) OnLoad(addr Address, hook LoadHook) {
	m.loadHooks[addr] = hook
}

// EnableTrace starts recording every load and store.
func (m *Memory) EnableTrace() {
	if m.trace == nil {
		m.trace = make([]Access, 0, 64)
	}
}

// Trace returns the recorded accesses.
func (m *Memory) Trace() []Access {
	return m.trace
}

// Stores returns the recorded stores to addr, in order.
func (m *Memory) Stores(addr Address) []uint32 {
	var out []uint32
	for _, a := range m.trace {
		if a.Store && a.Addr == addr {
			out = append(out, a.Value)
		}
	}
	return out
}

// Counts returns the number of loads and stores performed.
func (m *Memory) Counts() (loads, stores uint64) {
	return m.loads, m.stores
}

// Load implements Bus.
func (m *Memory) Load(addr Address) uint32 {
	m.loads++
	v := m.words[addr]
	if hook, ok := m.loadHooks[addr]; ok {
		v = hook(addr, v)
	}
	if m.trace != nil {
		m.trace = append(m.trace, Access{Addr: addr, Value: v})
	}
	return v
}

// Store implements Bus.
func (m *Memory) Store(addr Address, value uint32) {
	m.stores++
	if m.trace != nil {
		m.trace = append(m.trace, Access{Store: true, Addr: addr, Value: value})
	}
	if hook, ok := m.storeHooks[addr]; ok {
		value = hook(addr, m.words[addr], value)
	}
	m.words[addr] = value
}

// Snapshot copies the current register contents.
func (m *Memory) Snapshot() map[Address]uint32 {
	out := make(map[Address]uint32, len(m.words))
	for k, v := range m.words {
		out[k] = v
	}
	return out
}
