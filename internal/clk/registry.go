package clk

import "codeberg.org/mutker/clkctl/internal/errors"

// Registry holds the set of known clock nodes. Membership is fixed after
// construction; names are unique within a registry.
type Registry struct {
	nodes  []*Node
	byName map[string]*Node
}

// NewRegistry builds a registry from nodes, preserving insertion order.
// A duplicate or invalid node fails construction without partially
// registering anything. An empty node list is legal.
func NewRegistry(nodes []*Node) (*Registry, error) {
	errFactory := errors.New()

	byName := make(map[string]*Node, len(nodes))
	for _, n := range nodes {
		if n == nil || n.Name == "" || n.Ops == nil {
			return nil, errFactory.New(ErrInvalidNode)
		}
		if _, ok := byName[n.Name]; ok {
			return nil, errFactory.WithData(ErrDuplicateName, n.Name)
		}
		byName[n.Name] = n
	}

	return &Registry{
		nodes:  nodes,
		byName: byName,
	}, nil
}

// Lookup resolves a clock by name.
func (r *Registry) Lookup(name string) (*Node, bool) {
	n, ok := r.byName[name]
	return n, ok
}

// Nodes returns all registered nodes in insertion order.
func (r *Registry) Nodes() []*Node {
	return r.nodes
}

// Len returns the number of registered nodes.
func (r *Registry) Len() int {
	return len(r.nodes)
}
