package clk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/mutker/clkctl/internal/clk"
	apperrors "codeberg.org/mutker/clkctl/internal/errors"
)

func TestNewRegistry(t *testing.T) {
	nodes := []*clk.Node{
		node("core_clk", 0, &fakeOps{}),
		node("mdp_clk", clk.FlagMin, &fakeOps{}),
		node("gfx_clk", clk.FlagMax, &fakeOps{}),
	}

	registry, err := clk.NewRegistry(nodes)
	require.NoError(t, err)
	assert.Equal(t, 3, registry.Len())

	// Iteration preserves insertion order and is restartable.
	for i := 0; i < 2; i++ {
		var names []string
		for _, n := range registry.Nodes() {
			names = append(names, n.Name)
		}
		assert.Equal(t, []string{"core_clk", "mdp_clk", "gfx_clk"}, names)
	}
}

func TestRegistryLookup(t *testing.T) {
	want := node("mdp_clk", 0, &fakeOps{})
	registry, err := clk.NewRegistry([]*clk.Node{want})
	require.NoError(t, err)

	got, ok := registry.Lookup("mdp_clk")
	require.True(t, ok)
	assert.Same(t, want, got)

	_, ok = registry.Lookup("missing_clk")
	assert.False(t, ok)
}

func TestNewRegistryDuplicateName(t *testing.T) {
	_, err := clk.NewRegistry([]*clk.Node{
		node("core_clk", 0, &fakeOps{}),
		node("core_clk", 0, &fakeOps{}),
	})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, clk.ErrDuplicateName))
}

func TestNewRegistryInvalidNode(t *testing.T) {
	tests := []struct {
		name string
		node *clk.Node
	}{
		{name: "nil node", node: nil},
		{name: "empty name", node: node("", 0, &fakeOps{})},
		{name: "nil ops", node: &clk.Node{Name: "core_clk"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := clk.NewRegistry([]*clk.Node{tt.node})
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, clk.ErrInvalidNode))
		})
	}
}

func TestNewRegistryEmpty(t *testing.T) {
	registry, err := clk.NewRegistry(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, registry.Len())
}
