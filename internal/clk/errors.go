package clk

import "codeberg.org/mutker/clkctl/internal/errors"

const (
	// Registry errors
	ErrDuplicateName = errors.ErrorCode("clk_duplicate_name")
	ErrInvalidNode   = errors.ErrorCode("clk_invalid_node")

	// Rate control errors
	ErrRateSetFailed = errors.ErrorCode("clk_rate_set_failed")

	// Enable control errors
	ErrEnableFailed          = errors.ErrorCode("clk_enable_failed")
	ErrCapabilityUnsupported = errors.ErrorCode("clk_capability_unsupported")

	// Measurement errors
	ErrProbeUnavailable = errors.ErrorCode("clk_probe_unavailable")
	ErrReparentFailed   = errors.ErrorCode("clk_measure_reparent_failed")
)
