package sweep

import (
	"testing"

	"github.com/rxtech-lab/argo-sweep/internal/logger"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
	"github.com/stretchr/testify/suite"
)

const validConfigYAML = `
strategy: sma-crossover
distributions:
  - label: nFast
    binding: fast_period
    range:
      from: 1
      to: 3
      step: 1
  - label: nSlow
    binding: slow_period
    values: [2, 3]
constraints:
  - label: fastBelowSlow
    left: nFast
    operator: "<"
    right: nSlow
sample: 2
seed: 42
workers: 4
timeout_seconds: 30
`

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) TestParseValidConfig() {
	cfg, err := ParseSweepConfig(validConfigYAML)
	suite.NoError(err)
	suite.Require().NotNil(cfg)

	suite.Equal("sma-crossover", cfg.Strategy)
	suite.Len(cfg.Distributions, 2)
	suite.Len(cfg.Constraints, 1)
	suite.Equal(2, cfg.Sample)
	suite.Equal(int64(42), cfg.Seed)
	suite.Equal(4, cfg.Workers)
	suite.Equal(30, cfg.TimeoutSeconds)
}

func (suite *ConfigTestSuite) TestParseInvalidYAML() {
	_, err := ParseSweepConfig("strategy: [unclosed")
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestParseMissingStrategy() {
	content := `
distributions:
  - label: nFast
    binding: fast_period
    values: [1, 2]
`
	_, err := ParseSweepConfig(content)
	suite.Error(err)
	suite.True(errors.IsConfiguration(err))
}

func (suite *ConfigTestSuite) TestParseMissingDistributions() {
	_, err := ParseSweepConfig("strategy: sma-crossover")
	suite.Error(err)
	suite.True(errors.IsConfiguration(err))
}

func (suite *ConfigTestSuite) TestParseValuesAndRangeConflict() {
	content := `
strategy: sma-crossover
distributions:
  - label: nFast
    binding: fast_period
    values: [1, 2]
    range:
      from: 1
      to: 3
      step: 1
`
	_, err := ParseSweepConfig(content)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestParseNeitherValuesNorRange() {
	content := `
strategy: sma-crossover
distributions:
  - label: nFast
    binding: fast_period
`
	_, err := ParseSweepConfig(content)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeEmptyValues))
}

func (suite *ConfigTestSuite) TestParseInvalidRange() {
	content := `
strategy: sma-crossover
distributions:
  - label: nFast
    binding: fast_period
    range:
      from: 1
      to: 3
      step: 0
`
	_, err := ParseSweepConfig(content)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidRange))

	content = `
strategy: sma-crossover
distributions:
  - label: nFast
    binding: fast_period
    range:
      from: 5
      to: 3
      step: 1
`
	_, err = ParseSweepConfig(content)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidRange))
}

func (suite *ConfigTestSuite) TestCandidateValuesFromRange() {
	dc := DistributionConfig{
		Label:   "nFast",
		Binding: "fast_period",
		Range:   &RangeConfig{From: 2, To: 10, Step: 4},
	}

	values, err := dc.CandidateValues()
	suite.NoError(err)
	suite.Require().Len(values, 3)
	suite.Equal(int64(2), values[0].Int())
	suite.Equal(int64(6), values[1].Int())
	suite.Equal(int64(10), values[2].Int())
}

func (suite *ConfigTestSuite) TestCandidateValuesFromList() {
	dc := DistributionConfig{
		Label:   "threshold",
		Binding: "fast_period",
		Values:  []any{1, 2.5, "ema"},
	}

	values, err := dc.CandidateValues()
	suite.NoError(err)
	suite.Require().Len(values, 3)
	suite.Equal(ValueKindInt, values[0].Kind())
	suite.Equal(ValueKindFloat, values[1].Kind())
	suite.Equal(ValueKindString, values[2].Kind())
}

func (suite *ConfigTestSuite) TestCandidateValuesUnsupportedType() {
	dc := DistributionConfig{
		Label:   "bad",
		Binding: "fast_period",
		Values:  []any{true},
	}

	_, err := dc.CandidateValues()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidValueKind))
}

func (suite *ConfigTestSuite) TestApply() {
	cfg, err := ParseSweepConfig(validConfigYAML)
	suite.Require().NoError(err)

	s := NewSweep(cfg.Strategy, nil, nil, logger.NewNopLogger())

	err = cfg.Apply(s, func(binding string) (any, error) {
		return binding, nil
	})
	suite.NoError(err)

	suite.Equal([]string{"nFast", "nSlow"}, s.Space().Labels())

	values, err := s.Space().ValuesOf("nFast")
	suite.NoError(err)
	suite.Len(values, 3)
}

func (suite *ConfigTestSuite) TestApplyInvalidOperator() {
	content := `
strategy: sma-crossover
distributions:
  - label: nFast
    binding: fast_period
    values: [1, 2]
constraints:
  - label: bad
    left: nFast
    operator: "!="
    right: nFast
`
	cfg, err := ParseSweepConfig(content)
	suite.Require().NoError(err)

	s := NewSweep(cfg.Strategy, nil, nil, logger.NewNopLogger())

	err = cfg.Apply(s, func(binding string) (any, error) {
		return binding, nil
	})
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidOperator))
}

func (suite *ConfigTestSuite) TestApplyResolverError() {
	cfg, err := ParseSweepConfig(validConfigYAML)
	suite.Require().NoError(err)

	s := NewSweep(cfg.Strategy, nil, nil, logger.NewNopLogger())

	err = cfg.Apply(s, func(binding string) (any, error) {
		return nil, errors.Newf(errors.ErrCodeInvalidBinding, "unknown binding %q", binding)
	})
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidBinding))
}

func (suite *ConfigTestSuite) TestGenerateSchema() {
	schemaJSON, err := (&SweepConfig{}).GenerateSchemaJSON()
	suite.NoError(err)
	suite.Contains(schemaJSON, "sweep-config")
	suite.Contains(schemaJSON, "distributions")
	suite.Contains(schemaJSON, "constraints")
	suite.Contains(schemaJSON, "seed")
}
