package clk

// Flags selects which rate-setting call is authoritative for a node.
type Flags uint8

const (
	// FlagMin routes rate requests through SetMinRate (floor enforcement).
	FlagMin Flags = 1 << iota
	// FlagMax adds a best-effort SetMaxRate (ceiling raise) before the
	// definitive rate call.
	FlagMax
)

// Has reports whether all bits in f2 are set.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// Ops is the mandatory capability set every clock implementation provides.
// Rate and the enable reference count are owned by the implementation;
// controllers only call through this interface and never mutate state
// directly.
type Ops interface {
	Rate() uint64
	SetRate(rate uint64) error
	SetMinRate(rate uint64) error
	SetMaxRate(rate uint64) error
	Enable() error
	Disable()
	EnableCount() int
}

// EnableStater is an optional capability: a direct hardware enabled query.
// When absent, controllers fall back to a nonzero enable count.
type EnableStater interface {
	IsEnabled() bool
}

// Localer is an optional capability: whether the clock is sourced and
// controlled locally rather than by another processor.
type Localer interface {
	IsLocal() bool
}

// RateLister is an optional capability: enumeration of the discrete rates
// a clock supports. ok == false signals the end of the list.
type RateLister interface {
	ListRate(i int) (rate uint64, ok bool)
}

// ParentSetter is an optional capability: reparenting this clock onto a
// target node. A probe clock's ops must implement it.
type ParentSetter interface {
	SetParent(target *Node) error
}

// Node is one named clock in the registry.
type Node struct {
	Name  string
	Flags Flags
	Ops   Ops
}
