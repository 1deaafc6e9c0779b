package clk

import (
	"sync"

	"codeberg.org/mutker/clkctl/internal/errors"
	"codeberg.org/mutker/clkctl/internal/logger"
)

// Probe performs indirect frequency measurement: it reparents a single
// shared probe clock onto a target and reads the resulting rate. The
// probe's parent is global mutable state, so the reparent-then-read
// sequence is one critical section serialized across all callers.
type Probe struct {
	mu     sync.Mutex
	node   *Node
	setter ParentSetter
}

// NewProbe wraps the probe node resolved at initialization. A nil node, or
// one whose ops cannot reparent, leaves measurement permanently
// unavailable, which is a valid state.
func NewProbe(node *Node) *Probe {
	p := &Probe{}

	if node == nil {
		return p
	}

	setter, ok := node.Ops.(ParentSetter)
	if !ok {
		logger.Warn().
			Str("clock", node.Name).
			Msg("Probe clock cannot reparent, measurement unavailable")
		return p
	}

	p.node = node
	p.setter = setter

	return p
}

// Available reports whether a usable probe was resolved.
func (p *Probe) Available() bool {
	return p.node != nil
}

// Measure reparents the probe onto target and returns the probe's
// resulting rate as the measured rate of target. A failed reparent never
// yields a rate value; the underlying tree decides whether the failure
// left the probe's parent untouched or partial, and no recovery is
// attempted here.
func (p *Probe) Measure(target *Node) (uint64, error) {
	errFactory := errors.New()

	if p.node == nil {
		return 0, errFactory.New(ErrProbeUnavailable)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.setter.SetParent(target); err != nil {
		return 0, errFactory.Wrap(ErrReparentFailed, err)
	}

	return p.node.Ops.Rate(), nil
}

// Validate eagerly runs one reparent cycle against target. It gates
// whether a measurement endpoint is offered for the node at registration
// time; failure is never an error, only capability discovery.
func (p *Probe) Validate(target *Node) bool {
	if p.node == nil {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.setter.SetParent(target) == nil
}
