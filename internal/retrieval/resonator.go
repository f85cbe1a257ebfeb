package retrieval

import (
	"context"

	"github.com/amn-labs/holofs/internal/vsa"
)

// FactorizeResult is the outcome of factoring a bound vector back into
// its codebook-aligned factors, grounded on the Rust resonator's
// FactorizeResult shape. Resonator-network factorisation itself is
// out of scope for this module (spec.md §1 Non-goals) — PatternCompleter
// and Factorizer exist only as the seam a future implementation would
// plug into, without a core implementation.
type FactorizeResult struct {
	Factors    []*vsa.SparseVector
	Iterations int
	Converged  bool
}

// PatternCompleter recovers a clean vector from a noisy or partial one,
// e.g. resolving a bundle back toward one of its original operands.
type PatternCompleter interface {
	Complete(ctx context.Context, query *vsa.SparseVector) (*vsa.SparseVector, error)
}

// IdentityCompleter is the default PatternCompleter: it returns its input
// unchanged. Retrieval works without a resonator wired in by depending on
// this no-op rather than on PatternCompleter being absent.
type IdentityCompleter struct{}

// Complete returns query unchanged.
func (IdentityCompleter) Complete(_ context.Context, query *vsa.SparseVector) (*vsa.SparseVector, error) {
	return query, nil
}

// Factorizer decomposes a bound vector into its constituent factors
// against a fixed codebook, mirroring the resonator network's role in
// the original source (src/resonator.rs): iterative cleanup against a
// codebook until convergence or a maximum iteration count.
type Factorizer interface {
	Factorize(bound *vsa.SparseVector, codebook []*vsa.SparseVector) (FactorizeResult, error)
}
