package sweep

import (
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
)

// Operator is a relational operator between two distribution values.
type Operator string

const (
	OpLess           Operator = "<"
	OpLessOrEqual    Operator = "<="
	OpGreater        Operator = ">"
	OpGreaterOrEqual Operator = ">="
	OpEqual          Operator = "="
)

// ParseOperator converts the textual form into an Operator.
func ParseOperator(s string) (Operator, error) {
	switch Operator(s) {
	case OpLess, OpLessOrEqual, OpGreater, OpGreaterOrEqual, OpEqual:
		return Operator(s), nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidOperator,
			"unsupported operator %q, expected one of <, <=, >, >=, =", s)
	}
}

func (op Operator) holds(cmp int) bool {
	switch op {
	case OpLess:
		return cmp < 0
	case OpLessOrEqual:
		return cmp <= 0
	case OpGreater:
		return cmp > 0
	case OpGreaterOrEqual:
		return cmp >= 0
	case OpEqual:
		return cmp == 0
	}

	return false
}

// Constraint is a relational rule between two declared distributions.
type Constraint struct {
	Label string
	Left  string
	Right string
	Op    Operator
}

// Evaluate looks up both values in the combination and applies the operator.
// Combinations missing either label fail the constraint.
func (c Constraint) Evaluate(combination Combination) bool {
	left, okL := combination.Value(c.Left)
	right, okR := combination.Value(c.Right)

	if !okL || !okR {
		return false
	}

	cmp, err := left.Compare(right)
	if err != nil {
		return false
	}

	return c.Op.holds(cmp)
}

// ConstraintSet holds the relational constraints of one sweep. All declared
// constraints must hold simultaneously for a combination to survive.
type ConstraintSet struct {
	space       *Space
	constraints []Constraint
	byLabel     map[string]Constraint
}

// NewConstraintSet creates an empty constraint set over the given space.
func NewConstraintSet(space *Space) *ConstraintSet {
	return &ConstraintSet{
		space:       space,
		constraints: nil,
		byLabel:     make(map[string]Constraint),
	}
}

// Declare registers a constraint. It fails with a configuration error if
// either referenced distribution is not declared, if the constraint label
// collides with an existing one, if the operator is unrecognized, or if
// the two distributions carry values of different kinds.
func (cs *ConstraintSet) Declare(label, left, right string, op Operator) error {
	if label == "" {
		return errors.New(errors.ErrCodeEmptyLabel, "constraint label must not be empty")
	}

	if _, exists := cs.byLabel[label]; exists {
		return errors.Newf(errors.ErrCodeDuplicateLabel, "constraint %q is already declared", label)
	}

	if _, err := ParseOperator(string(op)); err != nil {
		return err
	}

	leftDist, ok := cs.space.Distribution(left)
	if !ok {
		return errors.Newf(errors.ErrCodeUnknownLabel,
			"constraint %q references undeclared distribution %q", label, left)
	}

	rightDist, ok := cs.space.Distribution(right)
	if !ok {
		return errors.Newf(errors.ErrCodeUnknownLabel,
			"constraint %q references undeclared distribution %q", label, right)
	}

	if leftDist.Kind() != rightDist.Kind() {
		return errors.Newf(errors.ErrCodeInvalidValueKind,
			"constraint %q compares %s values with %s values", label, leftDist.Kind(), rightDist.Kind())
	}

	constraint := Constraint{
		Label: label,
		Left:  left,
		Right: right,
		Op:    op,
	}
	cs.constraints = append(cs.constraints, constraint)
	cs.byLabel[label] = constraint

	return nil
}

// IsSatisfied reports whether every declared constraint holds for the
// combination. Vacuously true when no constraints are declared.
func (cs *ConstraintSet) IsSatisfied(combination Combination) bool {
	for _, c := range cs.constraints {
		if !c.Evaluate(combination) {
			return false
		}
	}

	return true
}

// Constraints returns the declared constraints in declaration order.
func (cs *ConstraintSet) Constraints() []Constraint {
	out := make([]Constraint, len(cs.constraints))
	copy(out, cs.constraints)

	return out
}

// Len returns the number of declared constraints.
func (cs *ConstraintSet) Len() int {
	return len(cs.constraints)
}
