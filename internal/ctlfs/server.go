package ctlfs

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"codeberg.org/mutker/clkctl/internal/clk"
	"codeberg.org/mutker/clkctl/internal/errors"
	"codeberg.org/mutker/clkctl/internal/logger"
	"codeberg.org/mutker/clkctl/internal/telemetry"
)

// Server maps named attribute endpoints per clock onto the core
// controllers: rate, enable, is_local, measure, list_rates per clock, plus
// the registry-wide showall and debug_suspend attributes at the root.
type Server struct {
	mu       sync.RWMutex
	registry *clk.Registry
	probe    *clk.Probe
	reporter *clk.Reporter
	recorder telemetry.Recorder
	root     *dir
	clocks   map[string]*dir
	order    []string

	// debugSuspend is plain read/write state with no logic attached;
	// power-management code outside this daemon consumes it.
	debugSuspend atomic.Uint32

	metrics *metrics
}

// New builds the root container with its registry-wide attributes.
// Failure here is resource exhaustion: the caller must not proceed to
// register individual clocks. recorder may be nil to disable journaling.
func New(registry *clk.Registry, probe *clk.Probe, reporter *clk.Reporter, recorder telemetry.Recorder) (*Server, error) {
	errFactory := errors.New()

	s := &Server{
		registry: registry,
		probe:    probe,
		reporter: reporter,
		recorder: recorder,
		root:     newDir("clk"),
		clocks:   make(map[string]*dir),
		metrics:  newMetrics(),
	}

	if err := s.root.addAttr("debug_suspend", s.readDebugSuspend, s.writeDebugSuspend); err != nil {
		return nil, errFactory.Wrap(ErrResourceExhausted, err)
	}
	if err := s.root.addAttr("showall", s.readShowall, nil); err != nil {
		return nil, errFactory.Wrap(ErrResourceExhausted, err)
	}

	return s, nil
}

// Mount registers every clock in the registry. A per-clock registration
// failure rolls back only that clock's sub-tree and never aborts the rest.
func (s *Server) Mount() {
	for _, n := range s.registry.Nodes() {
		if err := s.AddClock(n); err != nil {
			logger.Warn().
				Str("clock", n.Name).
				Err(err).
				Msg("Clock registration failed, endpoint skipped")
		}
	}
}

// AddClock creates the clock's attribute sub-tree under its lower-cased
// name. The measure attribute is offered only when one eager reparent
// cycle against the node succeeds; list_rates only when the node's ops
// enumerate rates. On failure nothing of the clock's sub-tree survives.
func (s *Server) AddClock(n *clk.Node) error {
	errFactory := errors.New()

	name := strings.ToLower(n.Name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clocks[name]; ok {
		return errFactory.WithData(ErrResourceExhausted, name)
	}

	d := newDir(name)

	if err := d.addAttr("rate", s.readRate(n), s.writeRate(n)); err != nil {
		return err
	}
	if err := d.addAttr("enable", s.readEnable(n), s.writeEnable(n)); err != nil {
		return err
	}
	if err := d.addAttr("is_local", s.readIsLocal(n), nil); err != nil {
		return err
	}

	if s.probe.Validate(n) {
		if err := d.addAttr("measure", s.readMeasure(n), nil); err != nil {
			return err
		}
	}

	if _, ok := n.Ops.(clk.RateLister); ok {
		if err := d.addAttr("list_rates", s.readListRates(n), nil); err != nil {
			return err
		}
	}

	s.clocks[name] = d
	s.order = append(s.order, name)

	return nil
}

// ClockAttrs returns the attribute names registered for the clock, in
// creation order.
func (s *Server) ClockAttrs(name string) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.clocks[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return d.attrNames(), true
}

func (s *Server) lookup(clock, attr string) (*attribute, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if clock == "" {
		return s.root.attr(attr)
	}

	d, ok := s.clocks[clock]
	if !ok {
		return nil, false
	}
	return d.attr(attr)
}

func (s *Server) readRate(n *clk.Node) func() (string, error) {
	return func() (string, error) {
		return strconv.FormatUint(clk.Rate(n), 10), nil
	}
}

func (s *Server) writeRate(n *clk.Node) func(string) error {
	return func(value string) error {
		errFactory := errors.New()

		rate, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return errFactory.Wrap(ErrInvalidValue, err)
		}

		err = clk.SetRate(n, rate)
		s.journal(n.Name, telemetry.OpSetRate, rate, err)
		if err != nil {
			s.metrics.opFailures.WithLabelValues("rate").Inc()
		}
		return err
	}
}

func (s *Server) readEnable(n *clk.Node) func() (string, error) {
	return func() (string, error) {
		return formatBool(clk.IsEnabled(n)), nil
	}
}

func (s *Server) writeEnable(n *clk.Node) func(string) error {
	return func(value string) error {
		errFactory := errors.New()

		v, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return errFactory.Wrap(ErrInvalidValue, err)
		}

		err = clk.SetEnabled(n, v != 0)
		s.journal(n.Name, telemetry.OpSetEnable, min64(v, 1), err)
		if err != nil {
			s.metrics.opFailures.WithLabelValues("enable").Inc()
		}
		return err
	}
}

func (s *Server) readIsLocal(n *clk.Node) func() (string, error) {
	return func() (string, error) {
		local, err := clk.IsLocal(n)
		if err != nil {
			return "", err
		}
		return formatBool(local), nil
	}
}

func (s *Server) readMeasure(n *clk.Node) func() (string, error) {
	return func() (string, error) {
		rate, err := s.probe.Measure(n)
		s.journal(n.Name, telemetry.OpMeasure, rate, err)
		if err != nil {
			s.metrics.opFailures.WithLabelValues("measure").Inc()
			return "", err
		}
		return strconv.FormatUint(rate, 10), nil
	}
}

func (s *Server) readListRates(n *clk.Node) func() (string, error) {
	return func() (string, error) {
		rates, err := clk.ListRates(n)
		if err != nil {
			return "", err
		}

		var b strings.Builder
		for i, rate := range rates {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(strconv.FormatUint(rate, 10))
		}
		return b.String(), nil
	}
}

// readShowall returns the enabled-clock count and, as a side effect,
// emits the formatted list to the diagnostic log.
func (s *Server) readShowall() (string, error) {
	report := s.reporter.Report()
	logger.Info().Msg(report.String())
	s.metrics.enabledClocks.Set(float64(report.Count))
	return strconv.Itoa(report.Count), nil
}

func (s *Server) readDebugSuspend() (string, error) {
	return strconv.FormatUint(uint64(s.debugSuspend.Load()), 10), nil
}

func (s *Server) writeDebugSuspend(value string) error {
	errFactory := errors.New()

	v, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return errFactory.Wrap(ErrInvalidValue, err)
	}

	s.debugSuspend.Store(uint32(v))
	return nil
}

// journal records one control-plane action. Journaling is diagnostic:
// a storage failure is logged and never fails the operation.
func (s *Server) journal(clock string, op telemetry.Operation, value uint64, opErr error) {
	if s.recorder == nil {
		return
	}

	event := &telemetry.Event{
		Timestamp: time.Now(),
		Clock:     clock,
		Op:        op,
		Value:     value,
		OK:        opErr == nil,
	}
	var coded errors.Error
	if errors.As(opErr, &coded) {
		event.ErrorCode = string(coded.Code())
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.recorder.Record(ctx, event); err != nil {
		logger.Warn().Err(err).Msg("Telemetry record failed")
	}
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func min64(v, limit uint64) uint64 {
	if v < limit {
		return v
	}
	return limit
}
