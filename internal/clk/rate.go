package clk

import (
	"codeberg.org/mutker/clkctl/internal/errors"
	"codeberg.org/mutker/clkctl/internal/logger"
)

// Rate returns the node's current rate as reported by its ops.
func Rate(n *Node) uint64 {
	return n.Ops.Rate()
}

// SetRate applies a rate request honoring the node's MIN/MAX policy flags.
//
// For MAX-flagged nodes the ceiling raise runs first as a best-effort step:
// only increases to the hardware limit succeed, and that is useful during
// debugging sweeps, so its failure is not surfaced and does not block the
// definitive call. For MIN-flagged nodes SetMinRate is the definitive call;
// otherwise plain SetRate is. The definitive call's result is the result of
// the operation, with no automatic retry.
func SetRate(n *Node, rate uint64) error {
	errFactory := errors.New()

	if n.Flags.Has(FlagMax) {
		if err := n.Ops.SetMaxRate(rate); err != nil {
			logger.Debug().
				Str("clock", n.Name).
				Uint64("rate", rate).
				Err(err).
				Msg("Best-effort max rate raise failed")
		}
	}

	var err error
	path := "rate"
	if n.Flags.Has(FlagMin) {
		path = "min_rate"
		err = n.Ops.SetMinRate(rate)
	} else {
		err = n.Ops.SetRate(rate)
	}
	if err != nil {
		logger.Error().
			Str("clock", n.Name).
			Str("path", path).
			Uint64("rate", rate).
			Err(err).
			Msg("Set rate failed")

		return errFactory.Wrap(ErrRateSetFailed, err)
	}

	return nil
}

// ListRates enumerates the discrete rates the node supports. Nodes whose
// ops do not implement RateLister get a capability error.
func ListRates(n *Node) ([]uint64, error) {
	errFactory := errors.New()

	lister, ok := n.Ops.(RateLister)
	if !ok {
		return nil, errFactory.WithData(ErrCapabilityUnsupported, n.Name)
	}

	var rates []uint64
	for i := 0; ; i++ {
		rate, more := lister.ListRate(i)
		if !more {
			break
		}
		rates = append(rates, rate)
	}

	return rates, nil
}
