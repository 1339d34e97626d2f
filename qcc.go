// Package qcc constructs qubit coupled cluster ansatze.
//
// Candidate entanglers are ranked by the magnitude of the energy gradient
// they induce at the Hartree-Fock reference, following
// Ryabinkin, Yen, Genin and Izmaylov, J. Chem. Theory Comput. 14, 6317 (2018).
package qcc

import (
	"math"
	"math/bits"
	"slices"

	"qcc/pauli"
)

// Entangler is a candidate generator with its energy gradient at the
// reference state.
type Entangler struct {
	P        pauli.String
	Gradient float64
}

// Group is a set of entanglers with degenerate gradient magnitude.
type Group struct {
	Entanglers []Entangler
	Magnitude  float64
}

// Candidates enumerates entangler generators from the flip patterns of the
// Hamiltonian's off-diagonal terms.
// Each pattern of two or more flipped qubits yields one generator per
// placement of a single Y, so that first order gradients do not vanish at
// a real reference.
func Candidates(h *pauli.Hamiltonian) []pauli.String {
	cands := make([]pauli.String, 0)
	for _, mask := range h.FlipMasks() {
		if bits.OnesCount64(mask) < 2 {
			continue
		}
		for j := 0; j < h.N; j++ {
			if mask&(1<<j) == 0 {
				continue
			}
			cands = append(cands, pauli.String{X: mask, Z: 1 << j})
		}
	}
	return cands
}

// Gradient returns dE/dt at t=0 for the gate exp(-itG) applied to the
// reference state |ref>, which equals -2 Im <ref| G H |ref>.
func Gradient(h *pauli.Hamiltonian, g pauli.String, ref uint64) float64 {
	var sum complex128
	for _, t := range h.Terms {
		p, phase := pauli.Mul(g, t.P)
		if !p.Diagonal() {
			continue
		}
		v := t.Coeff * phase.C() * complex64(complex(float64(p.Sign(ref)), 0))
		sum += complex128(v)
	}
	return -2 * imag(sum)
}

// Rank computes the gradients of all candidate entanglers at the reference
// state, discards those with magnitude below cutoff, and groups the rest
// by degenerate magnitude, groups sorted descending.
// Ties within the cutoff tolerance break by candidate enumeration order.
// The result is empty when every gradient is below cutoff, in which case
// the ansatz degenerates to the pure mean field state.
func Rank(h *pauli.Hamiltonian, ref uint64, cutoff float64) []Group {
	kept := make([]Entangler, 0)
	for _, c := range Candidates(h) {
		grad := Gradient(h, c, ref)
		if math.Abs(grad) < cutoff {
			continue
		}
		kept = append(kept, Entangler{P: c, Gradient: grad})
	}

	slices.SortStableFunc(kept, func(a, b Entangler) int {
		switch {
		case math.Abs(a.Gradient) > math.Abs(b.Gradient):
			return -1
		case math.Abs(a.Gradient) < math.Abs(b.Gradient):
			return 1
		default:
			return 0
		}
	})

	groups := make([]Group, 0)
	for _, e := range kept {
		mag := math.Abs(e.Gradient)
		last := len(groups) - 1
		if last >= 0 && groups[last].Magnitude-mag <= cutoff {
			groups[last].Entanglers = append(groups[last].Entanglers, e)
			continue
		}
		groups = append(groups, Group{Entanglers: []Entangler{e}, Magnitude: mag})
	}
	return groups
}

// Select takes up to k entanglers from the highest magnitude groups.
// A group larger than the remaining budget is truncated in its internal
// order, which is an approximation since its members are degenerate
// symmetry partners.
func Select(groups []Group, k int) []Entangler {
	selected := make([]Entangler, 0, max(k, 0))
	for _, g := range groups {
		for _, e := range g.Entanglers {
			if len(selected) >= k {
				return selected
			}
			selected = append(selected, e)
		}
	}
	return selected
}
