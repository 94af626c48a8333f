package backtest

import (
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
)

// Param is a typed handle for a tunable strategy parameter. Binding targets
// from the sweep configuration resolve to a Param once, at configuration
// time; evaluations never dispatch on parameter names.
type Param int

const (
	// ParamFastPeriod is the short moving-average length.
	ParamFastPeriod Param = iota
	// ParamSlowPeriod is the long moving-average length.
	ParamSlowPeriod
)

// String returns the configuration name of the parameter.
func (p Param) String() string {
	switch p {
	case ParamFastPeriod:
		return "fast_period"
	case ParamSlowPeriod:
		return "slow_period"
	}

	return "unknown"
}

// ResolveParam converts a textual binding target into its typed handle.
func ResolveParam(binding string) (Param, error) {
	switch binding {
	case "fast_period":
		return ParamFastPeriod, nil
	case "slow_period":
		return ParamSlowPeriod, nil
	default:
		return 0, errors.Newf(errors.ErrCodeInvalidBinding,
			"unknown binding target %q, expected fast_period or slow_period", binding)
	}
}
