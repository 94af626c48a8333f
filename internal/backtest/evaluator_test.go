package backtest

import (
	"context"
	"sync"
	"testing"

	"github.com/rxtech-lab/argo-sweep/internal/logger"
	"github.com/rxtech-lab/argo-sweep/internal/sweep"
	"github.com/rxtech-lab/argo-sweep/internal/types"
	"github.com/rxtech-lab/argo-sweep/mocks"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type EvaluatorTestSuite struct {
	suite.Suite

	candles  []types.Candle
	bindings map[string]Param
	log      *logger.Logger
}

func TestEvaluatorSuite(t *testing.T) {
	suite.Run(t, new(EvaluatorTestSuite))
}

func (suite *EvaluatorTestSuite) SetupSuite() {
	suite.candles = mocks.GenerateTrending("TEST", 500)
}

func (suite *EvaluatorTestSuite) SetupTest() {
	suite.bindings = map[string]Param{
		"nFast": ParamFastPeriod,
		"nSlow": ParamSlowPeriod,
	}
	suite.log = logger.NewNopLogger()
}

func (suite *EvaluatorTestSuite) newEvaluator() *Evaluator {
	evaluator, err := NewEvaluator(suite.candles, 10000, suite.bindings, suite.log)
	suite.Require().NoError(err)

	return evaluator
}

func (suite *EvaluatorTestSuite) combination(fast, slow int64) sweep.Combination {
	return sweep.NewCombination(
		[]string{"nFast", "nSlow"},
		[]sweep.Value{sweep.IntValue(fast), sweep.IntValue(slow)},
	)
}

func (suite *EvaluatorTestSuite) TestNewEvaluatorRequiresPositiveCapital() {
	_, err := NewEvaluator(suite.candles, 0, suite.bindings, suite.log)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *EvaluatorTestSuite) TestNewEvaluatorRejectsDuplicateBinding() {
	_, err := NewEvaluator(suite.candles, 10000, map[string]Param{
		"a": ParamFastPeriod,
		"b": ParamFastPeriod,
	}, suite.log)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidBinding))
}

func (suite *EvaluatorTestSuite) TestNewEvaluatorRequiresBothPeriods() {
	_, err := NewEvaluator(suite.candles, 10000, map[string]Param{
		"nFast": ParamFastPeriod,
	}, suite.log)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidBinding))
}

func (suite *EvaluatorTestSuite) TestReentrant() {
	suite.True(suite.newEvaluator().Reentrant())
}

func (suite *EvaluatorTestSuite) TestEvaluateProducesMetrics() {
	metrics, err := suite.newEvaluator().Evaluate(context.Background(), suite.combination(5, 20))
	suite.NoError(err)

	for _, key := range []string{
		"final_equity",
		"total_return_pct",
		"max_drawdown_pct",
		"trade_count",
		"win_rate",
		"profit_factor",
	} {
		_, ok := metrics[key]
		suite.True(ok, "metric %s missing", key)
	}

	suite.Greater(metrics["final_equity"], 0.0)
	suite.GreaterOrEqual(metrics["max_drawdown_pct"], 0.0)
	suite.GreaterOrEqual(metrics["trade_count"], 0.0)
}

func (suite *EvaluatorTestSuite) TestEvaluateIsDeterministic() {
	evaluator := suite.newEvaluator()
	combination := suite.combination(5, 20)

	first, err := evaluator.Evaluate(context.Background(), combination)
	suite.NoError(err)

	second, err := evaluator.Evaluate(context.Background(), combination)
	suite.NoError(err)

	suite.Equal(first, second)
}

func (suite *EvaluatorTestSuite) TestEvaluateConcurrentlyMatchesSequential() {
	evaluator := suite.newEvaluator()
	combination := suite.combination(5, 20)

	expected, err := evaluator.Evaluate(context.Background(), combination)
	suite.Require().NoError(err)

	var wg sync.WaitGroup

	results := make([]sweep.Output, 8)
	errs := make([]error, 8)

	for i := 0; i < 8; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = evaluator.Evaluate(context.Background(), combination)
		}(i)
	}

	wg.Wait()

	for i := 0; i < 8; i++ {
		suite.NoError(errs[i])
		suite.Equal(expected, results[i])
	}
}

func (suite *EvaluatorTestSuite) TestEvaluateMissingLabel() {
	combination := sweep.NewCombination([]string{"nFast"}, []sweep.Value{sweep.IntValue(5)})

	_, err := suite.newEvaluator().Evaluate(context.Background(), combination)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeUnknownLabel))
}

func (suite *EvaluatorTestSuite) TestEvaluateRejectsNonIntegerPeriod() {
	combination := sweep.NewCombination(
		[]string{"nFast", "nSlow"},
		[]sweep.Value{sweep.FloatValue(5.5), sweep.IntValue(20)},
	)

	_, err := suite.newEvaluator().Evaluate(context.Background(), combination)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidValueKind))
}

func (suite *EvaluatorTestSuite) TestEvaluateRejectsNonPositivePeriod() {
	_, err := suite.newEvaluator().Evaluate(context.Background(), suite.combination(0, 20))
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeEvaluationFailed))
}

func (suite *EvaluatorTestSuite) TestEvaluateRejectsFastAboveSlow() {
	// Reachable whenever a sweep omits the fast < slow constraint; must
	// surface as a clean error, never an index panic
	suite.NotPanics(func() {
		_, err := suite.newEvaluator().Evaluate(context.Background(), suite.combination(30, 10))
		suite.Error(err)
		suite.True(errors.HasCode(err, errors.ErrCodeEvaluationFailed))
	})
}

func (suite *EvaluatorTestSuite) TestEvaluateEqualPeriods() {
	// Degenerate but legal: the averages coincide, so no cross ever fires
	metrics, err := suite.newEvaluator().Evaluate(context.Background(), suite.combination(10, 10))
	suite.NoError(err)
	suite.Equal(0.0, metrics["trade_count"])
}

func (suite *EvaluatorTestSuite) TestEvaluateInsufficientData() {
	_, err := suite.newEvaluator().Evaluate(context.Background(), suite.combination(5, 500))
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInsufficientData))
}

func (suite *EvaluatorTestSuite) TestEvaluateHonorsCancellation() {
	// Enough candles to cross a cancellation checkpoint
	candles := mocks.GenerateTrending("TEST", 3000)

	evaluator, err := NewEvaluator(candles, 10000, suite.bindings, suite.log)
	suite.Require().NoError(err)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = evaluator.Evaluate(cancelled, suite.combination(5, 20))
	suite.ErrorIs(err, context.Canceled)
}
