package qcc

import (
	"fmt"
	"math"

	"qcc/pauli"
	"qcc/state"
)

// Ansatz is a mean field rotation layer followed by exponentiated
// entangler gates.
// Its parameter vector is laid out as the qubit polar angles, then the
// qubit azimuthal angles, then one amplitude per entangler.
type Ansatz struct {
	N          int
	Ref        uint64
	Entanglers []Entangler
}

// NewAnsatz returns an ansatz over n qubits with reference occupation ref.
func NewAnsatz(n int, ref uint64, entanglers []Entangler) *Ansatz {
	return &Ansatz{N: n, Ref: ref, Entanglers: entanglers}
}

// NumParams returns the length of the parameter vector.
func (a *Ansatz) NumParams() int {
	return 2*a.N + len(a.Entanglers)
}

// InitialParams returns the starting parameter assignment: polar angle pi
// for occupied qubits and 0 for unoccupied ones, zero azimuthal angles,
// and every entangler amplitude at amp.
func (a *Ansatz) InitialParams(amp float64) []float64 {
	params := make([]float64, a.NumParams())
	for j := 0; j < a.N; j++ {
		if a.Ref&(1<<j) != 0 {
			params[j] = math.Pi
		}
	}
	for i := range a.Entanglers {
		params[2*a.N+i] = amp
	}
	return params
}

// Prepare builds the ansatz state for the given parameters.
func (a *Ansatz) Prepare(params []float64) *state.State {
	if len(params) != a.NumParams() {
		panic(fmt.Sprintf("%d parameters, expected %d", len(params), a.NumParams()))
	}

	s := state.New(a.N)
	for j := 0; j < a.N; j++ {
		s.RY(params[j], j)
		s.RZ(params[a.N+j], j)
	}
	for i, e := range a.Entanglers {
		s.ApplyExp(e.P, params[2*a.N+i])
	}
	return s
}

// Energy returns the expectation value of h in the ansatz state.
func (a *Ansatz) Energy(h *pauli.Hamiltonian, params []float64) float64 {
	return a.Prepare(params).Expect(h)
}
