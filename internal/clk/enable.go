package clk

import "codeberg.org/mutker/clkctl/internal/errors"

// SetEnabled enables or disables the node. Enable failures (e.g. a
// resource being unavailable) are surfaced unchanged; disable cannot fail
// by contract, mirroring hardware disable semantics.
func SetEnabled(n *Node, enabled bool) error {
	errFactory := errors.New()

	if !enabled {
		n.Ops.Disable()
		return nil
	}

	if err := n.Ops.Enable(); err != nil {
		return errFactory.Wrap(ErrEnableFailed, err)
	}

	return nil
}

// IsEnabled reports the node's enable state, using the direct hardware
// query when the ops expose one. The reference-count fallback is a
// documented approximation: a nonzero count means someone requested
// enable, not necessarily that the clock output is active.
func IsEnabled(n *Node) bool {
	if stater, ok := n.Ops.(EnableStater); ok {
		return stater.IsEnabled()
	}

	return n.Ops.EnableCount() > 0
}

// IsLocal reports whether the clock is sourced and controlled locally.
// Nodes whose ops do not implement Localer get a capability error.
func IsLocal(n *Node) (bool, error) {
	errFactory := errors.New()

	localer, ok := n.Ops.(Localer)
	if !ok {
		return false, errFactory.WithData(ErrCapabilityUnsupported, n.Name)
	}

	return localer.IsLocal(), nil
}
