// Package simclk provides an in-memory clock tree implementing the clk.Ops
// contract so the daemon can run without hardware. Rate arithmetic is
// deliberately trivial: a reparented clock follows its parent's rate, and
// min/max enforcement is a pair of hardware bounds. Divider and PLL math
// belong to a real tree, not here.
package simclk

import (
	"sort"
	"sync"

	"codeberg.org/mutker/clkctl/internal/clk"
	"codeberg.org/mutker/clkctl/internal/errors"
)

// Spec describes one simulated clock.
type Spec struct {
	Name string
	// Rate is the initial rate.
	Rate uint64
	// HardMin and HardMax are the hardware bounds. Zero means unbounded
	// on that side.
	HardMin uint64
	HardMax uint64
	// Rates lists discrete supported rates; when non-empty the clock
	// exposes rate enumeration.
	Rates []uint64
	// Local marks the clock as locally sourced and controlled.
	Local bool
	// MuxParents restricts which targets this clock may be reparented
	// onto. Empty means any target.
	MuxParents []string
	// Enabled pre-enables the clock with a reference count of one.
	Enabled bool
}

// Clock is a simulated clock. It implements clk.Ops along with every
// optional capability; use Minimal to strip the optional ones.
type Clock struct {
	mu         sync.Mutex
	name       string
	rate       uint64
	hardMin    uint64
	hardMax    uint64
	ceiling    uint64
	rates      []uint64
	local      bool
	muxParents map[string]bool
	count      int
	parent     string
}

// New builds a simulated clock from its spec.
func New(spec Spec) *Clock {
	c := &Clock{
		name:    spec.Name,
		rate:    spec.Rate,
		hardMin: spec.HardMin,
		hardMax: spec.HardMax,
		local:   spec.Local,
	}

	if len(spec.Rates) > 0 {
		c.rates = append(c.rates, spec.Rates...)
		sort.Slice(c.rates, func(i, j int) bool { return c.rates[i] < c.rates[j] })
	}

	if len(spec.MuxParents) > 0 {
		c.muxParents = make(map[string]bool, len(spec.MuxParents))
		for _, name := range spec.MuxParents {
			c.muxParents[name] = true
		}
	}

	if spec.Enabled {
		c.count = 1
	}

	return c
}

func (c *Clock) Name() string {
	return c.name
}

func (c *Clock) Rate() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rate
}

func (c *Clock) SetRate(rate uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setRateLocked(rate)
}

func (c *Clock) setRateLocked(rate uint64) error {
	errFactory := errors.New()

	if rate < c.hardMin {
		return errFactory.WithData(ErrBelowMinimum, c.name)
	}
	if c.hardMax > 0 && rate > c.hardMax {
		return errFactory.WithData(ErrAboveMaximum, c.name)
	}
	if c.ceiling > 0 && rate > c.ceiling {
		return errFactory.WithData(ErrAboveCeiling, c.name)
	}

	c.rate = rate

	return nil
}

// SetMinRate applies a floor request. The request fails below the
// hardware minimum; otherwise it behaves like a plain rate change.
func (c *Clock) SetMinRate(rate uint64) error {
	return c.SetRate(rate)
}

// SetMaxRate raises or lowers the ceiling. A ceiling below the hardware
// minimum is rejected; the current rate is left untouched.
func (c *Clock) SetMaxRate(rate uint64) error {
	errFactory := errors.New()

	c.mu.Lock()
	defer c.mu.Unlock()

	if rate < c.hardMin {
		return errFactory.WithData(ErrBelowMinimum, c.name)
	}

	c.ceiling = rate

	return nil
}

func (c *Clock) Enable() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
	return nil
}

func (c *Clock) Disable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.count > 0 {
		c.count--
	}
}

func (c *Clock) EnableCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// IsEnabled implements the direct enabled query. The simulator has no
// separate hardware state, so it mirrors the reference count.
func (c *Clock) IsEnabled() bool {
	return c.EnableCount() > 0
}

func (c *Clock) IsLocal() bool {
	return c.local
}

func (c *Clock) ListRate(i int) (uint64, bool) {
	if i < 0 || i >= len(c.rates) {
		return 0, false
	}
	return c.rates[i], true
}

// SetParent reparents this clock onto target: the clock's rate becomes the
// target's rate. Targets outside the mux set are rejected, leaving rate
// and parent untouched. The target may be this clock itself: a probe
// validated against its own registry node self-reparents, so the target
// rate is read before taking c.mu.
func (c *Clock) SetParent(target *clk.Node) error {
	errFactory := errors.New()

	rate := target.Ops.Rate()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.muxParents != nil && !c.muxParents[target.Name] {
		return errFactory.WithData(ErrNotMuxable, target.Name)
	}

	c.parent = target.Name
	c.rate = rate

	return nil
}

// Parent returns the name of the most recent reparent target, or "" when
// the clock was never reparented.
func (c *Clock) Parent() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.parent
}

// minimal wraps a Clock exposing only the mandatory capability set, for
// clocks whose hardware lacks the optional queries.
type minimal struct {
	c *Clock
}

// Minimal strips the optional capabilities from c.
func Minimal(c *Clock) clk.Ops {
	return &minimal{c: c}
}

func (m *minimal) Rate() uint64 { return m.c.Rate() }

func (m *minimal) SetRate(rate uint64) error { return m.c.SetRate(rate) }

func (m *minimal) SetMinRate(rate uint64) error { return m.c.SetMinRate(rate) }

func (m *minimal) SetMaxRate(rate uint64) error { return m.c.SetMaxRate(rate) }

func (m *minimal) Enable() error { return m.c.Enable() }

func (m *minimal) Disable() { m.c.Disable() }

func (m *minimal) EnableCount() int { return m.c.EnableCount() }
