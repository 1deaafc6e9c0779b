package clk_test

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/mutker/clkctl/internal/clk"
	apperrors "codeberg.org/mutker/clkctl/internal/errors"
)

func TestMeasure(t *testing.T) {
	probeOps := &muxOps{}
	probe := clk.NewProbe(node("measure", 0, probeOps))
	require.True(t, probe.Available())

	target := node("gfx_clk", 0, &fakeOps{rate: 245760000})

	rate, err := probe.Measure(target)
	require.NoError(t, err)
	assert.Equal(t, uint64(245760000), rate)
	assert.Same(t, target, probeOps.parent, "Probe parent must be the measured target")
}

func TestMeasureReparentFailed(t *testing.T) {
	opErr := errors.New("not muxable")
	probeOps := &muxOps{parentErr: opErr}
	probe := clk.NewProbe(node("measure", 0, probeOps))

	_, err := probe.Measure(node("ebi_clk", 0, &fakeOps{rate: 100}))
	require.Error(t, err, "A failed reparent must never read as a rate")
	assert.True(t, apperrors.HasCode(err, clk.ErrReparentFailed))
	assert.ErrorIs(t, err, opErr)
}

func TestMeasureProbeUnavailable(t *testing.T) {
	probe := clk.NewProbe(nil)
	assert.False(t, probe.Available())

	ops := &fakeOps{rate: 100}
	_, err := probe.Measure(node("core_clk", 0, ops))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, clk.ErrProbeUnavailable))
	assert.Empty(t, ops.Calls(), "No reparent attempt may happen without a probe")
}

func TestMeasureProbeWithoutReparentCapability(t *testing.T) {
	probe := clk.NewProbe(node("measure", 0, &fakeOps{}))
	assert.False(t, probe.Available())
}

func TestValidateGatesOnReparent(t *testing.T) {
	probeOps := &muxOps{}
	probe := clk.NewProbe(node("measure", 0, probeOps))

	assert.True(t, probe.Validate(node("core_clk", 0, &fakeOps{})))

	probeOps.parentErr = errors.New("not muxable")
	assert.False(t, probe.Validate(node("ebi_clk", 0, &fakeOps{})))
}

func TestValidateWithoutProbe(t *testing.T) {
	probe := clk.NewProbe(nil)
	assert.False(t, probe.Validate(node("core_clk", 0, &fakeOps{})))
}

// serializedMuxOps fails the test if a second reparent begins before the
// previous reparent-then-read sequence finished.
type serializedMuxOps struct {
	fakeOps
	busy    atomic.Bool
	overlap atomic.Bool
	target  *clk.Node
}

func (s *serializedMuxOps) SetParent(target *clk.Node) error {
	if !s.busy.CompareAndSwap(false, true) {
		s.overlap.Store(true)
	}
	time.Sleep(time.Millisecond)
	s.target = target
	return nil
}

func (s *serializedMuxOps) Rate() uint64 {
	time.Sleep(time.Millisecond)
	rate := s.target.Ops.Rate()
	s.busy.Store(false)
	return rate
}

func TestMeasureSerialized(t *testing.T) {
	probeOps := &serializedMuxOps{}
	probe := clk.NewProbe(node("measure", 0, probeOps))

	targets := make([]*clk.Node, 8)
	for i := range targets {
		targets[i] = node(fmt.Sprintf("clk_%d", i), 0, &fakeOps{rate: uint64(i+1) * 1000000})
	}

	var wg sync.WaitGroup
	for _, target := range targets {
		target := target
		wg.Add(1)
		go func() {
			defer wg.Done()
			rate, err := probe.Measure(target)
			assert.NoError(t, err)
			assert.Equal(t, target.Ops.Rate(), rate,
				"Each measurement must read its own target's reparent")
		}()
	}
	wg.Wait()

	assert.False(t, probeOps.overlap.Load(), "Reparent-then-read sequences interleaved")
}
