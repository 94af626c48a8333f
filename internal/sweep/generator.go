package sweep

import (
	"math/rand"
	"sort"

	"github.com/rxtech-lab/argo-sweep/internal/logger"
	"go.uber.org/zap"
)

// Generator materializes the constraint-filtered, optionally-sampled set of
// combinations for a sweep.
//
// Expansion is depth-first over distribution declaration order: the
// first-declared distribution varies slowest. Constraints are checked as
// soon as both referenced labels are bound, so invalid branches are pruned
// before deeper expansion and memory stays bounded by the surviving set
// rather than the full product.
type Generator struct {
	space       *Space
	constraints *ConstraintSet
	sampleCount int
	seed        int64
	log         *logger.Logger
}

// NewGenerator creates a generator over the given space and constraint set.
func NewGenerator(space *Space, constraints *ConstraintSet, log *logger.Logger) *Generator {
	return &Generator{
		space:       space,
		constraints: constraints,
		sampleCount: 0,
		seed:        0,
		log:         log,
	}
}

// SetSample requests a uniform random sample of size count, drawn without
// replacement from the filtered set using the given seed. A count of zero
// disables sampling.
func (g *Generator) SetSample(count int, seed int64) {
	g.sampleCount = count
	g.seed = seed
}

// Generate returns the ordered, duplicate-free surviving combinations.
// An empty result is valid, not an error.
func (g *Generator) Generate() []Combination {
	labels := g.space.Labels()
	if len(labels) == 0 {
		return nil
	}

	// Constraints become checkable at the depth where their second
	// referenced label is bound.
	depthOf := make(map[string]int, len(labels))
	for i, label := range labels {
		depthOf[label] = i
	}

	checkAt := make([][]Constraint, len(labels))
	for _, c := range g.constraints.Constraints() {
		frontier := depthOf[c.Left]
		if d := depthOf[c.Right]; d > frontier {
			frontier = d
		}

		checkAt[frontier] = append(checkAt[frontier], c)
	}

	candidates := make([][]Value, len(labels))
	for i, label := range labels {
		candidates[i], _ = g.space.ValuesOf(label)
	}

	var (
		surviving []Combination
		bound     = make(map[string]Value, len(labels))
		chosen    = make([]Value, len(labels))
	)

	var expand func(depth int)
	expand = func(depth int) {
		if depth == len(labels) {
			surviving = append(surviving, NewCombination(labels, chosen))

			return
		}

		label := labels[depth]
		for _, v := range candidates[depth] {
			bound[label] = v
			chosen[depth] = v

			if constraintsHold(checkAt[depth], bound) {
				expand(depth + 1)
			}
		}

		delete(bound, label)
	}
	expand(0)

	g.log.Debug("combination generation complete",
		zap.Int("product_size", g.space.ProductSize()),
		zap.Int("surviving", len(surviving)),
		zap.Int("constraints", g.constraints.Len()),
	)

	return g.sample(surviving)
}

func constraintsHold(constraints []Constraint, bound map[string]Value) bool {
	for _, c := range constraints {
		cmp, err := bound[c.Left].Compare(bound[c.Right])
		if err != nil || !c.Op.holds(cmp) {
			return false
		}
	}

	return true
}

// sample draws sampleCount combinations without replacement from the
// surviving set, preserving generation order. Sampling always operates on
// the already-filtered set; with a fixed seed the result is reproducible.
func (g *Generator) sample(surviving []Combination) []Combination {
	k := g.sampleCount
	m := len(surviving)

	if k <= 0 || k >= m {
		return surviving
	}

	rng := rand.New(rand.NewSource(g.seed))
	picked := rng.Perm(m)[:k]
	sort.Ints(picked)

	sampled := make([]Combination, k)
	for i, idx := range picked {
		sampled[i] = surviving[idx]
	}

	g.log.Debug("sampled combinations",
		zap.Int("surviving", m),
		zap.Int("sample", k),
		zap.Int64("seed", g.seed),
	)

	return sampled
}
