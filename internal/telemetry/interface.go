package telemetry

import (
	"context"
	"time"
)

// Recorder defines the core domain interface
type Recorder interface {
	Record(ctx context.Context, event *Event) error
	Close() error
}

// Repository defines the interface for event storage
type Repository interface {
	Store(ctx context.Context, event *Event) error
	Close() error
}

// Operation identifies one kind of control-plane action
type Operation string

const (
	OpSetRate   Operation = "set_rate"
	OpSetEnable Operation = "set_enable"
	OpMeasure   Operation = "measure"
)

// Event is one journaled control-plane action against a clock
type Event struct {
	Timestamp time.Time
	Clock     string
	Op        Operation
	// Value is the requested rate, the requested enable state (0/1), or
	// the measured rate depending on Op.
	Value uint64
	OK    bool
	// ErrorCode carries the failed operation's code, empty on success.
	ErrorCode string
}
