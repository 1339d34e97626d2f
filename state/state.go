// Package state implements statevector simulation of qubit registers.
//
// A state over n qubits is a rank-n tensor with one axis per qubit, and
// gates are applied by contracting 2x2 matrices over the target axis.
package state

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/fumin/tensor"

	"qcc/pauli"
)

var (
	gateX = [][]complex64{
		{0, 1},
		{1, 0},
	}
	gateY = [][]complex64{
		{0, -1i},
		{1i, 0},
	}
	gateZ = [][]complex64{
		{1, 0},
		{0, -1},
	}
)

// State is the statevector of an n qubit register.
type State struct {
	n int
	t *tensor.Dense

	buf *tensor.Dense
}

// New returns the |0...0> state over n qubits.
func New(n int) *State {
	if n < 1 || n > pauli.MaxQubits {
		panic(fmt.Sprintf("%d qubits", n))
	}
	shape := make([]int, n)
	for i := range shape {
		shape[i] = 2
	}
	s := &State{n: n, t: tensor.Zeros(shape...), buf: tensor.Zeros(1)}
	s.t.SetAt(make([]int, n), 1)
	return s
}

// Qubits returns the number of qubits.
func (s *State) Qubits() int {
	return s.n
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	c := &State{n: s.n, t: tensor.Zeros(1), buf: tensor.Zeros(1)}
	resetCopy(c.t, s.t)
	return c
}

// Amplitude returns the amplitude of the basis state occ,
// where bit j of occ is the occupation of qubit j.
func (s *State) Amplitude(occ uint64) complex64 {
	digits := make([]int, s.n)
	for j := 0; j < s.n; j++ {
		if occ&(1<<j) != 0 {
			digits[j] = 1
		}
	}
	return s.t.At(digits...)
}

// ApplyGate applies a 2x2 gate to qubit q.
func (s *State) ApplyGate(g [][]complex64, q int) {
	if q < 0 || q >= s.n {
		panic(fmt.Sprintf("qubit %d of %d", q, s.n))
	}

	// Contract the gate column with axis q.
	// The contracted axis comes out in front, so cycle it back to q.
	tensor.Contract(s.buf, tensor.T2(g), s.t, [][2]int{{1, q}})
	perm := make([]int, s.n)
	for i := 0; i < q; i++ {
		perm[i] = i + 1
	}
	perm[q] = 0
	for i := q + 1; i < s.n; i++ {
		perm[i] = i
	}
	resetCopy(s.t, s.buf.Transpose(perm...))
}

// RY applies a rotation about the y axis to qubit q.
func (s *State) RY(theta float64, q int) {
	c := complex64(complex(math.Cos(theta/2), 0))
	sn := complex64(complex(math.Sin(theta/2), 0))
	s.ApplyGate([][]complex64{
		{c, -sn},
		{sn, c},
	}, q)
}

// RZ applies a rotation about the z axis to qubit q.
func (s *State) RZ(phi float64, q int) {
	e := complex64(cmplx.Exp(complex(0, phi/2)))
	s.ApplyGate([][]complex64{
		{1 / e, 0},
		{0, e},
	}, q)
}

// ApplyPauli applies the Pauli string p.
func (s *State) ApplyPauli(p pauli.String) {
	for j := 0; j < s.n; j++ {
		x, z := p.X&(1<<j) != 0, p.Z&(1<<j) != 0
		switch {
		case x && z:
			s.ApplyGate(gateY, j)
		case x:
			s.ApplyGate(gateX, j)
		case z:
			s.ApplyGate(gateZ, j)
		}
	}
}

// ApplyExp applies exp(-i t P).
// Since P squares to the identity, exp(-itP) = cos(t) - i sin(t) P.
func (s *State) ApplyExp(p pauli.String, t float64) {
	flipped := s.Clone()
	flipped.ApplyPauli(p)

	c := complex64(complex(math.Cos(t), 0))
	ms := complex64(complex(0, -math.Sin(t)))
	for ijk, v := range flipped.t.All() {
		s.t.SetAt(ijk, c*s.t.At(ijk...)+ms*v)
	}
}

// Inner returns <a|b>.
func Inner(a, b *State) complex128 {
	if a.n != b.n {
		panic(fmt.Sprintf("%d %d", a.n, b.n))
	}
	var ip complex128
	for ijk, v := range a.t.All() {
		ip += complex128(conj(v)) * complex128(b.t.At(ijk...))
	}
	return ip
}

// Norm returns the norm of s.
func (s *State) Norm() float64 {
	return math.Sqrt(real(Inner(s, s)))
}

// Expect returns the expectation value <s|H|s>.
func (s *State) Expect(h *pauli.Hamiltonian) float64 {
	var e complex128
	for _, term := range h.Terms {
		flipped := s.Clone()
		flipped.ApplyPauli(term.P)
		e += complex128(term.Coeff) * Inner(s, flipped)
	}
	return real(e)
}

func conj(v complex64) complex64 {
	return complex(real(v), -imag(v))
}

func resetCopy(dst, src *tensor.Dense) *tensor.Dense {
	shape := src.Shape()
	zeroDigit := make([]int, len(shape))
	dst.Reset(shape...).Set(zeroDigit, src)
	return dst
}
