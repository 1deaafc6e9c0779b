package clk_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/mutker/clkctl/internal/clk"
	apperrors "codeberg.org/mutker/clkctl/internal/errors"
)

func TestSetEnabled(t *testing.T) {
	ops := &fakeOps{}
	n := node("uart_clk", 0, ops)

	require.NoError(t, clk.SetEnabled(n, true))
	assert.Equal(t, 1, ops.EnableCount())

	require.NoError(t, clk.SetEnabled(n, false))
	assert.Equal(t, 0, ops.EnableCount())
}

func TestSetEnabledFailureSurfaced(t *testing.T) {
	opErr := errors.New("source unavailable")
	ops := &fakeOps{enableErr: opErr}
	n := node("usb_clk", 0, ops)

	err := clk.SetEnabled(n, true)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, clk.ErrEnableFailed))
	assert.ErrorIs(t, err, opErr)
}

func TestDisableNeverFails(t *testing.T) {
	// Disable on an already-disabled clock is a no-op, not an error.
	ops := &fakeOps{}
	n := node("uart_clk", 0, ops)

	require.NoError(t, clk.SetEnabled(n, false))
	assert.Equal(t, 0, ops.EnableCount())
}

func TestIsEnabledDirectQuery(t *testing.T) {
	// The direct query wins over the reference count when present: here the
	// count is nonzero but the hardware reports the output inactive.
	ops := &statedOps{enabled: false}
	ops.count = 2
	n := node("pll_clk", 0, ops)

	assert.False(t, clk.IsEnabled(n))

	ops.enabled = true
	assert.True(t, clk.IsEnabled(n))
}

func TestIsEnabledRefcountFallback(t *testing.T) {
	ops := &fakeOps{}
	n := node("smi_clk", 0, ops)

	assert.False(t, clk.IsEnabled(n))

	require.NoError(t, clk.SetEnabled(n, true))
	assert.True(t, clk.IsEnabled(n), "Nonzero reference count counts as enabled")
}

func TestIsLocal(t *testing.T) {
	ops := &localOps{local: true}
	n := node("axi_clk", 0, ops)

	local, err := clk.IsLocal(n)
	require.NoError(t, err)
	assert.True(t, local)
}

func TestIsLocalUnsupported(t *testing.T) {
	n := node("ebi_clk", 0, &fakeOps{})

	_, err := clk.IsLocal(n)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, clk.ErrCapabilityUnsupported))
}
