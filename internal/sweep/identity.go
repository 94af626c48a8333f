package sweep

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Identity is the deterministic key of one sweep configuration. Two sweeps
// share an identity iff they agree on strategy, every distribution (label,
// binding and candidate values), every constraint, the sample count and the
// sampling seed. The result store uses it to detect "already computed";
// keying on the full configuration rather than the strategy name alone
// means a changed range or constraint never serves stale results.
type Identity string

// Namespace for sweep identity UUIDs, derived once from the module path.
var identityNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/rxtech-lab/argo-sweep"))

// ComputeIdentity derives the sweep identity from the full configuration.
func ComputeIdentity(strategy string, space *Space, constraints *ConstraintSet, sampleCount int, seed int64) Identity {
	var b strings.Builder

	fmt.Fprintf(&b, "strategy:%s\n", strategy)

	for _, label := range space.Labels() {
		dist, _ := space.Distribution(label)
		fmt.Fprintf(&b, "dist:%s|%v|", label, dist.Binding())

		for i, v := range dist.Values() {
			if i > 0 {
				b.WriteByte(',')
			}

			b.WriteString(string(v.Kind()))
			b.WriteByte(':')
			b.WriteString(v.String())
		}

		b.WriteByte('\n')
	}

	for _, c := range constraints.Constraints() {
		fmt.Fprintf(&b, "constraint:%s|%s %s %s\n", c.Label, c.Left, c.Op, c.Right)
	}

	fmt.Fprintf(&b, "sample:%d\nseed:%d\n", sampleCount, seed)

	return Identity(uuid.NewSHA1(identityNamespace, []byte(b.String())).String())
}
