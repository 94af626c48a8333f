package sweep

import (
	"encoding/json"
	"strings"
)

// Combination is one fully-bound assignment of values to all declared
// distributions. Combinations are immutable value objects; equality is
// structural over the label-to-value mapping.
type Combination struct {
	labels []string
	values map[string]Value
}

// NewCombination builds a combination from labels in declaration order and
// their chosen values. The slices must have equal length.
func NewCombination(labels []string, values []Value) Combination {
	stored := make(map[string]Value, len(labels))
	order := make([]string, len(labels))

	for i, label := range labels {
		order[i] = label
		stored[label] = values[i]
	}

	return Combination{labels: order, values: stored}
}

// Value returns the chosen value for a label.
func (c Combination) Value(label string) (Value, bool) {
	v, ok := c.values[label]

	return v, ok
}

// Labels returns the bound labels in declaration order.
func (c Combination) Labels() []string {
	out := make([]string, len(c.labels))
	copy(out, c.labels)

	return out
}

// Len returns the number of bound labels.
func (c Combination) Len() int {
	return len(c.labels)
}

// Key returns the canonical text form of the combination. Two combinations
// are equal iff their keys are equal.
func (c Combination) Key() string {
	var b strings.Builder

	for i, label := range c.labels {
		if i > 0 {
			b.WriteByte(',')
		}

		b.WriteString(label)
		b.WriteByte('=')
		b.WriteString(c.values[label].String())
	}

	return b.String()
}

// Equal reports structural equality.
func (c Combination) Equal(other Combination) bool {
	if len(c.labels) != len(other.labels) {
		return false
	}

	for i, label := range c.labels {
		if other.labels[i] != label {
			return false
		}

		if !c.values[label].Equal(other.values[label]) {
			return false
		}
	}

	return true
}

type combinationEntryJSON struct {
	Label string `json:"label"`
	Value Value  `json:"value"`
}

// MarshalJSON serializes the combination as an ordered list of
// label/value pairs so declaration order survives a store round trip.
func (c Combination) MarshalJSON() ([]byte, error) {
	entries := make([]combinationEntryJSON, len(c.labels))
	for i, label := range c.labels {
		entries[i] = combinationEntryJSON{Label: label, Value: c.values[label]}
	}

	return json.Marshal(entries)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Combination) UnmarshalJSON(data []byte) error {
	var entries []combinationEntryJSON
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}

	labels := make([]string, len(entries))
	values := make([]Value, len(entries))

	for i, e := range entries {
		labels[i] = e.Label
		values[i] = e.Value
	}

	*c = NewCombination(labels, values)

	return nil
}
