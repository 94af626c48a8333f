package sweep

import (
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
)

// Distribution declares one parameter of a sweep: a unique label, the
// binding target that tells the evaluator which strategy parameter the
// value sets, and an ordered, non-empty sequence of candidate values.
// Distributions are immutable once declared.
type Distribution struct {
	label   string
	binding any
	values  []Value
}

// Label returns the unique label of the distribution.
func (d Distribution) Label() string {
	return d.label
}

// Binding returns the opaque binding target. The sweep core never
// interprets it; the evaluator resolves it at configuration time.
func (d Distribution) Binding() any {
	return d.binding
}

// Values returns the ordered candidate values.
func (d Distribution) Values() []Value {
	out := make([]Value, len(d.values))
	copy(out, d.values)

	return out
}

// Kind returns the scalar kind shared by all candidate values.
func (d Distribution) Kind() ValueKind {
	return d.values[0].Kind()
}

// Space is the per-sweep distribution table. It is local to one sweep
// configuration; nothing is registered globally.
type Space struct {
	order   []string
	byLabel map[string]Distribution
}

// NewSpace creates an empty distribution table.
func NewSpace() *Space {
	return &Space{
		order:   nil,
		byLabel: make(map[string]Distribution),
	}
}

// Declare registers a distribution. It fails with a configuration error if
// the label is empty or already used, if the candidate set is empty, or if
// the candidates mix value kinds.
func (s *Space) Declare(label string, binding any, values []Value) error {
	if label == "" {
		return errors.New(errors.ErrCodeEmptyLabel, "distribution label must not be empty")
	}

	if _, exists := s.byLabel[label]; exists {
		return errors.Newf(errors.ErrCodeDuplicateLabel, "distribution %q is already declared", label)
	}

	if len(values) == 0 {
		return errors.Newf(errors.ErrCodeEmptyValues, "distribution %q has no candidate values", label)
	}

	kind := values[0].Kind()
	for _, v := range values[1:] {
		if v.Kind() != kind {
			return errors.Newf(errors.ErrCodeInvalidValueKind,
				"distribution %q mixes %s and %s values", label, kind, v.Kind())
		}
	}

	stored := make([]Value, len(values))
	copy(stored, values)

	s.byLabel[label] = Distribution{
		label:   label,
		binding: binding,
		values:  stored,
	}
	s.order = append(s.order, label)

	return nil
}

// ValuesOf returns the ordered candidate values of a declared distribution.
func (s *Space) ValuesOf(label string) ([]Value, error) {
	dist, ok := s.byLabel[label]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeUnknownLabel, "distribution %q is not declared", label)
	}

	return dist.Values(), nil
}

// Distribution returns the declared distribution for a label.
func (s *Space) Distribution(label string) (Distribution, bool) {
	dist, ok := s.byLabel[label]

	return dist, ok
}

// Labels returns all distribution labels in declaration order.
func (s *Space) Labels() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)

	return out
}

// Size returns the number of declared distributions.
func (s *Space) Size() int {
	return len(s.order)
}

// ProductSize returns the size of the unfiltered Cartesian product.
func (s *Space) ProductSize() int {
	if len(s.order) == 0 {
		return 0
	}

	product := 1
	for _, label := range s.order {
		product *= len(s.byLabel[label].values)
	}

	return product
}
