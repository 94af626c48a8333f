// Package backtest provides the moving-average-crossover evaluator that
// scores sweep combinations against historical candle data.
package backtest

import (
	"context"

	"github.com/rxtech-lab/argo-sweep/internal/logger"
	"github.com/rxtech-lab/argo-sweep/internal/sweep"
	"github.com/rxtech-lab/argo-sweep/internal/types"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
	"github.com/shopspring/decimal"
)

// ctxCheckInterval is how many candles are processed between cancellation
// checks inside one evaluation.
const ctxCheckInterval = 1024

// Evaluator scores one fast/slow SMA crossover configuration per
// combination: buy when the fast average crosses above the slow one, sell
// on the opposite cross, close any open position on the last candle.
//
// The candle series is shared read-only across evaluations; every Evaluate
// call builds a fresh portfolio, so the evaluator is reentrant.
type Evaluator struct {
	candles        []types.Candle
	closes         []float64
	labelOf        map[Param]string
	initialCapital decimal.Decimal
	log            *logger.Logger
}

// NewEvaluator creates an evaluator over the candle series. The bindings
// map distribution labels to the strategy parameters they set; both the
// fast and the slow period must be bound exactly once.
func NewEvaluator(candles []types.Candle, initialCapital float64, bindings map[string]Param, log *logger.Logger) (*Evaluator, error) {
	if initialCapital <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "initial capital must be positive")
	}

	labelOf := make(map[Param]string, len(bindings))

	for label, param := range bindings {
		if existing, dup := labelOf[param]; dup {
			return nil, errors.Newf(errors.ErrCodeInvalidBinding,
				"parameter %s is bound by both %q and %q", param, existing, label)
		}

		labelOf[param] = label
	}

	for _, param := range []Param{ParamFastPeriod, ParamSlowPeriod} {
		if _, ok := labelOf[param]; !ok {
			return nil, errors.Newf(errors.ErrCodeInvalidBinding, "parameter %s is not bound", param)
		}
	}

	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}

	return &Evaluator{
		candles:        candles,
		closes:         closes,
		labelOf:        labelOf,
		initialCapital: decimal.NewFromFloat(initialCapital),
		log:            log,
	}, nil
}

// Reentrant implements sweep.Evaluator.
func (e *Evaluator) Reentrant() bool {
	return true
}

// Evaluate implements sweep.Evaluator.
func (e *Evaluator) Evaluate(ctx context.Context, combination sweep.Combination) (sweep.Output, error) {
	fast, err := e.periodOf(combination, ParamFastPeriod)
	if err != nil {
		return nil, err
	}

	slow, err := e.periodOf(combination, ParamSlowPeriod)
	if err != nil {
		return nil, err
	}

	if fast > slow {
		return nil, errors.Newf(errors.ErrCodeEvaluationFailed,
			"fast period %d must not exceed slow period %d", fast, slow)
	}

	if len(e.closes) <= slow {
		return nil, errors.Newf(errors.ErrCodeInsufficientData,
			"slow period %d requires more than %d candles", slow, len(e.closes))
	}

	return e.simulate(ctx, fast, slow)
}

func (e *Evaluator) periodOf(combination sweep.Combination, param Param) (int, error) {
	label := e.labelOf[param]

	value, ok := combination.Value(label)
	if !ok {
		return 0, errors.Newf(errors.ErrCodeUnknownLabel,
			"combination does not bind distribution %q", label)
	}

	if value.Kind() != sweep.ValueKindInt {
		return 0, errors.Newf(errors.ErrCodeInvalidValueKind,
			"parameter %s requires an integer value, got %s", param, value.Kind())
	}

	period := int(value.Int())
	if period <= 0 {
		return 0, errors.Newf(errors.ErrCodeEvaluationFailed,
			"parameter %s must be positive, got %d", param, period)
	}

	return period, nil
}

func (e *Evaluator) simulate(ctx context.Context, fast, slow int) (sweep.Output, error) {
	book := newPortfolio(e.initialCapital)

	fastSum := windowSum(e.closes[:slow], fast)
	slowSum := windowSum(e.closes[:slow], slow)

	prevFast := fastSum / float64(fast)
	prevSlow := slowSum / float64(slow)

	for i := slow; i < len(e.closes); i++ {
		if i%ctxCheckInterval == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}

		fastSum += e.closes[i] - e.closes[i-fast]
		slowSum += e.closes[i] - e.closes[i-slow]

		fastMA := fastSum / float64(fast)
		slowMA := slowSum / float64(slow)

		price := decimal.NewFromFloat(e.closes[i])

		switch {
		case fastMA > slowMA && prevFast <= prevSlow:
			book.buy(price)
		case fastMA < slowMA && prevFast >= prevSlow:
			book.sell(price)
		}

		book.markToMarket(price)

		prevFast = fastMA
		prevSlow = slowMA
	}

	lastPrice := decimal.NewFromFloat(e.closes[len(e.closes)-1])

	// Close any open position so the metrics reflect realized results.
	book.sell(lastPrice)
	book.markToMarket(lastPrice)

	hundred := decimal.NewFromInt(100)

	return sweep.Output{
		"final_equity":     book.equity(lastPrice).InexactFloat64(),
		"total_return_pct": book.totalReturn(lastPrice).Mul(hundred).InexactFloat64(),
		"max_drawdown_pct": book.maxDrawdown.Mul(hundred).InexactFloat64(),
		"trade_count":      float64(book.tradeCount()),
		"win_rate":         book.winRate().Mul(hundred).InexactFloat64(),
		"profit_factor":    book.profitFactor().InexactFloat64(),
	}, nil
}

// windowSum returns the sum of the last period values of the slice.
func windowSum(values []float64, period int) float64 {
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}

	return sum
}
