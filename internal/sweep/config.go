package sweep

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
	"gopkg.in/yaml.v2"
)

// RangeConfig declares integer candidates as an inclusive range.
type RangeConfig struct {
	From int64 `yaml:"from" json:"from" jsonschema:"title=From,description=First candidate value (inclusive)"`
	To   int64 `yaml:"to" json:"to" jsonschema:"title=To,description=Last candidate value (inclusive)"`
	Step int64 `yaml:"step" json:"step" jsonschema:"title=Step,description=Increment between candidates,minimum=1"`
}

// DistributionConfig declares one parameter distribution. Candidates come
// from either an explicit value list or an integer range, never both.
type DistributionConfig struct {
	Label   string       `yaml:"label" json:"label" validate:"required" jsonschema:"title=Label,description=Unique distribution label"`
	Binding string       `yaml:"binding" json:"binding" validate:"required" jsonschema:"title=Binding,description=Strategy parameter this distribution sets"`
	Values  []any        `yaml:"values" json:"values,omitempty" jsonschema:"title=Values,description=Explicit candidate values"`
	Range   *RangeConfig `yaml:"range" json:"range,omitempty" jsonschema:"title=Range,description=Integer candidate range"`
}

// ConstraintConfig declares one relational constraint.
type ConstraintConfig struct {
	Label    string `yaml:"label" json:"label" validate:"required" jsonschema:"title=Label,description=Unique constraint label"`
	Left     string `yaml:"left" json:"left" validate:"required" jsonschema:"title=Left,description=Left distribution label"`
	Operator string `yaml:"operator" json:"operator" validate:"required" jsonschema:"title=Operator,description=Relational operator,enum=<,enum=<=,enum=>,enum=>=,enum=="`
	Right    string `yaml:"right" json:"right" validate:"required" jsonschema:"title=Right,description=Right distribution label"`
}

// SweepConfig is the YAML configuration surface of one sweep.
type SweepConfig struct {
	Strategy       string               `yaml:"strategy" json:"strategy" validate:"required" jsonschema:"title=Strategy,description=Strategy identity the sweep optimizes"`
	Distributions  []DistributionConfig `yaml:"distributions" json:"distributions" validate:"required,min=1,dive" jsonschema:"title=Distributions"`
	Constraints    []ConstraintConfig   `yaml:"constraints" json:"constraints,omitempty" validate:"dive" jsonschema:"title=Constraints"`
	Sample         int                  `yaml:"sample" json:"sample" validate:"gte=0" jsonschema:"title=Sample,description=Sample size drawn from the filtered set (0 = exhaustive),minimum=0"`
	Seed           int64                `yaml:"seed" json:"seed" jsonschema:"title=Seed,description=Random seed for reproducible sampling"`
	Workers        int                  `yaml:"workers" json:"workers" validate:"gte=0" jsonschema:"title=Workers,description=Worker pool size (0 or 1 = sequential),minimum=0"`
	TimeoutSeconds int                  `yaml:"timeout_seconds" json:"timeout_seconds" validate:"gte=0" jsonschema:"title=Timeout Seconds,description=Per-evaluation ceiling in seconds (0 = none),minimum=0"`
}

// ParseSweepConfig parses and validates a YAML sweep configuration.
// Every malformed declaration surfaces here, before any generation or
// evaluation begins.
func ParseSweepConfig(content string) (*SweepConfig, error) {
	var cfg SweepConfig

	if err := yaml.Unmarshal([]byte(content), &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse sweep config", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid sweep config", err)
	}

	for _, dc := range cfg.Distributions {
		if len(dc.Values) > 0 && dc.Range != nil {
			return nil, errors.Newf(errors.ErrCodeInvalidConfiguration,
				"distribution %q declares both values and range", dc.Label)
		}

		if len(dc.Values) == 0 && dc.Range == nil {
			return nil, errors.Newf(errors.ErrCodeEmptyValues,
				"distribution %q declares neither values nor range", dc.Label)
		}

		if dc.Range != nil {
			if dc.Range.Step <= 0 {
				return nil, errors.Newf(errors.ErrCodeInvalidRange,
					"distribution %q range step must be positive", dc.Label)
			}

			if dc.Range.From > dc.Range.To {
				return nil, errors.Newf(errors.ErrCodeInvalidRange,
					"distribution %q range is empty (from > to)", dc.Label)
			}
		}
	}

	return &cfg, nil
}

// CandidateValues materializes the candidate sequence of the distribution.
func (dc DistributionConfig) CandidateValues() ([]Value, error) {
	if dc.Range != nil {
		var values []Value
		for v := dc.Range.From; v <= dc.Range.To; v += dc.Range.Step {
			values = append(values, IntValue(v))
		}

		return values, nil
	}

	values := make([]Value, len(dc.Values))

	for i, raw := range dc.Values {
		switch v := raw.(type) {
		case int:
			values[i] = IntValue(int64(v))
		case int64:
			values[i] = IntValue(v)
		case float64:
			values[i] = FloatValue(v)
		case string:
			values[i] = StringValue(v)
		default:
			return nil, errors.Newf(errors.ErrCodeInvalidValueKind,
				"distribution %q has unsupported candidate value %v (%T)", dc.Label, raw, raw)
		}
	}

	return values, nil
}

// BindingResolver converts a textual binding target from the configuration
// into the evaluator's typed handle. Resolution happens once here, never by
// name on every evaluation.
type BindingResolver func(binding string) (any, error)

// Apply declares everything in the configuration on the sweep.
func (c *SweepConfig) Apply(s *Sweep, resolve BindingResolver) error {
	for _, dc := range c.Distributions {
		values, err := dc.CandidateValues()
		if err != nil {
			return err
		}

		binding, err := resolve(dc.Binding)
		if err != nil {
			return err
		}

		if err := s.Declare(dc.Label, binding, values); err != nil {
			return err
		}
	}

	for _, cc := range c.Constraints {
		op, err := ParseOperator(cc.Operator)
		if err != nil {
			return err
		}

		if err := s.DeclareConstraint(cc.Label, cc.Left, cc.Right, op); err != nil {
			return err
		}
	}

	s.SetSample(c.Sample, c.Seed)
	s.SetWorkers(c.Workers)

	if c.TimeoutSeconds > 0 {
		s.SetTimeout(time.Duration(c.TimeoutSeconds) * time.Second)
	}

	return nil
}

// GenerateSchema generates a JSON schema for the sweep configuration.
func (c *SweepConfig) GenerateSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
	}

	schema := reflector.Reflect(c)

	schema.Title = "sweep-config"
	schema.Description = "Configuration schema for a parameter sweep"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema
}

// GenerateSchemaJSON generates the JSON schema as an indented string.
func (c *SweepConfig) GenerateSchemaJSON() (string, error) {
	schemaBytes, err := json.MarshalIndent(c.GenerateSchema(), "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
