package clk_test

import (
	"sync"

	"codeberg.org/mutker/clkctl/internal/clk"
)

// fakeOps implements clk.Ops and records the order of calls made against
// it. Optional capabilities are added by the embedding types below so that
// capability discovery by type assertion can be exercised both ways.
type fakeOps struct {
	mu        sync.Mutex
	rate      uint64
	maxRate   uint64
	count     int
	calls     []string
	setErr    error
	minErr    error
	maxErr    error
	enableErr error
}

func (f *fakeOps) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeOps) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeOps) Rate() uint64 {
	return f.rate
}

func (f *fakeOps) SetRate(rate uint64) error {
	f.record("set_rate")
	if f.setErr != nil {
		return f.setErr
	}
	f.rate = rate
	return nil
}

func (f *fakeOps) SetMinRate(rate uint64) error {
	f.record("set_min_rate")
	if f.minErr != nil {
		return f.minErr
	}
	f.rate = rate
	return nil
}

func (f *fakeOps) SetMaxRate(rate uint64) error {
	f.record("set_max_rate")
	if f.maxErr != nil {
		return f.maxErr
	}
	f.maxRate = rate
	return nil
}

func (f *fakeOps) Enable() error {
	f.record("enable")
	if f.enableErr != nil {
		return f.enableErr
	}
	f.count++
	return nil
}

func (f *fakeOps) Disable() {
	f.record("disable")
	if f.count > 0 {
		f.count--
	}
}

func (f *fakeOps) EnableCount() int {
	return f.count
}

// statedOps adds the direct enabled query capability.
type statedOps struct {
	fakeOps
	enabled bool
}

func (s *statedOps) IsEnabled() bool {
	return s.enabled
}

// localOps adds the locality capability.
type localOps struct {
	fakeOps
	local bool
}

func (l *localOps) IsLocal() bool {
	return l.local
}

// listedOps adds rate enumeration.
type listedOps struct {
	fakeOps
	rates []uint64
}

func (l *listedOps) ListRate(i int) (uint64, bool) {
	if i < 0 || i >= len(l.rates) {
		return 0, false
	}
	return l.rates[i], true
}

// muxOps adds reparenting: its rate follows whatever target it was last
// reparented onto.
type muxOps struct {
	fakeOps
	parentErr error
	parent    *clk.Node
}

func (m *muxOps) SetParent(target *clk.Node) error {
	m.record("set_parent")
	if m.parentErr != nil {
		return m.parentErr
	}
	m.parent = target
	return nil
}

func (m *muxOps) Rate() uint64 {
	if m.parent != nil {
		return m.parent.Ops.Rate()
	}
	return m.rate
}

func node(name string, flags clk.Flags, ops clk.Ops) *clk.Node {
	return &clk.Node{Name: name, Flags: flags, Ops: ops}
}
