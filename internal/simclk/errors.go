package simclk

import "codeberg.org/mutker/clkctl/internal/errors"

const (
	ErrBelowMinimum = errors.ErrorCode("simclk_below_hardware_minimum")
	ErrAboveMaximum = errors.ErrorCode("simclk_above_hardware_maximum")
	ErrAboveCeiling = errors.ErrorCode("simclk_above_ceiling")
	ErrNotMuxable   = errors.ErrorCode("simclk_target_not_muxable")
)
