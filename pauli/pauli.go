// Package pauli implements the algebra of Pauli strings.
//
// A Pauli string is encoded symplectically by two bitmasks X and Z,
// where qubit j carries X if only bit j of X is set, Z if only bit j of Z
// is set, and Y if both are set.
// Products are tracked exactly up to the global phase i^k.
package pauli

import (
	"fmt"
	"math/bits"
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"qcc/mat"
)

// MaxQubits is the largest supported system size.
const MaxQubits = 64

var (
	identity2 = [][]complex64{
		{1, 0},
		{0, 1},
	}
	phases = [4]complex64{1, 1i, -1, -1i}
)

// String is a product of single qubit Pauli operators.
// The zero String is the identity.
type String struct {
	X uint64
	Z uint64
}

// Phase is a power of the imaginary unit, i^K.
type Phase struct {
	K int
}

// C returns the phase as a complex number.
func (p Phase) C() complex64 {
	return phases[((p.K%4)+4)%4]
}

// Mul returns the product a*b and its global phase.
func Mul(a, b String) (String, Phase) {
	c := String{X: a.X ^ b.X, Z: a.Z ^ b.Z}
	k := a.Ys() + b.Ys() - c.Ys() + 2*bits.OnesCount64(a.Z&b.X)
	return c, Phase{K: k}
}

// Commute reports whether a and b commute.
func Commute(a, b String) bool {
	return (bits.OnesCount64(a.X&b.Z)+bits.OnesCount64(a.Z&b.X))%2 == 0
}

// Ys returns the number of Y factors.
func (s String) Ys() int {
	return bits.OnesCount64(s.X & s.Z)
}

// Weight returns the number of non-identity factors.
func (s String) Weight() int {
	return bits.OnesCount64(s.X | s.Z)
}

// Support returns the mask of qubits acted on non-trivially.
func (s String) Support() uint64 {
	return s.X | s.Z
}

// Diagonal reports whether s is diagonal in the computational basis.
func (s String) Diagonal() bool {
	return s.X == 0
}

// Sign returns <occ|s|occ> for a diagonal s, where bit j of occ is the
// occupation of qubit j.
// Sign panics when s is not diagonal.
func (s String) Sign(occ uint64) int {
	if !s.Diagonal() {
		panic(fmt.Sprintf("not diagonal %s", s))
	}
	if bits.OnesCount64(s.Z&occ)%2 == 1 {
		return -1
	}
	return 1
}

func (s String) String() string {
	if s.X == 0 && s.Z == 0 {
		return "I"
	}
	parts := make([]string, 0, s.Weight())
	support := s.Support()
	for j := 0; j < MaxQubits; j++ {
		if support&(1<<j) == 0 {
			continue
		}
		parts = append(parts, s.at(j)+strconv.Itoa(j))
	}
	return strings.Join(parts, " ")
}

func (s String) at(j int) string {
	x, z := s.X&(1<<j) != 0, s.Z&(1<<j) != 0
	switch {
	case x && z:
		return "Y"
	case x:
		return "X"
	case z:
		return "Z"
	default:
		return "I"
	}
}

// Parse parses strings of the form "X0 Y1 Z3".
// The identity is written "I" or the empty string.
func Parse(str string) (String, error) {
	var s String
	fields := strings.Fields(str)
	if len(fields) == 1 && fields[0] == "I" {
		return s, nil
	}
	for _, f := range fields {
		if len(f) < 2 {
			return String{}, errors.Errorf("%q %q", str, f)
		}
		j, err := strconv.Atoi(f[1:])
		if err != nil {
			return String{}, errors.Wrap(err, fmt.Sprintf("%q", f))
		}
		if j < 0 || j >= MaxQubits {
			return String{}, errors.Errorf("qubit %d out of range", j)
		}
		if s.Support()&(1<<j) != 0 {
			return String{}, errors.Errorf("%q duplicate qubit %d", str, j)
		}
		switch f[0] {
		case 'X':
			s.X |= 1 << j
		case 'Y':
			s.X |= 1 << j
			s.Z |= 1 << j
		case 'Z':
			s.Z |= 1 << j
		default:
			return String{}, errors.Errorf("%q %q", str, f)
		}
	}
	return s, nil
}

// Matrix returns the dense realization of s over n qubits, with qubit 0
// as the leftmost Kronecker factor.
func (s String) Matrix(n int) *mat.COO {
	m := mat.COOIdentity(1)
	for j := 0; j < n; j++ {
		m.Kron(mat.M(s.site(j)))
	}
	return m
}

func (s String) site(j int) [][]complex64 {
	switch s.at(j) {
	case "X":
		return mat.PauliX
	case "Y":
		return mat.PauliY
	case "Z":
		return mat.PauliZ
	default:
		return identity2
	}
}

// BasisIndex returns the row index of the basis state occ in the
// big-endian Kronecker ordering used by Matrix.
func BasisIndex(occ uint64, n int) int {
	idx := 0
	for j := 0; j < n; j++ {
		if occ&(1<<j) != 0 {
			idx |= 1 << (n - 1 - j)
		}
	}
	return idx
}

// Term is a Pauli string scaled by a coefficient.
type Term struct {
	Coeff complex64
	P     String
}

// Hamiltonian is an unordered collection of Pauli terms over N qubits.
type Hamiltonian struct {
	N     int
	Terms []Term
}

// Add appends a term.
func (h *Hamiltonian) Add(coeff complex64, p String) {
	h.Terms = append(h.Terms, Term{Coeff: coeff, P: p})
}

// ExpectBasis returns <occ|H|occ>.
func (h *Hamiltonian) ExpectBasis(occ uint64) float64 {
	var e float64
	for _, t := range h.Terms {
		if !t.P.Diagonal() {
			continue
		}
		e += float64(real(t.Coeff)) * float64(t.P.Sign(occ))
	}
	return e
}

// Matrix returns the dense 2^N realization of the Hamiltonian.
func (h *Hamiltonian) Matrix() *mat.COO {
	m := mat.COOZeros(1<<h.N, 1<<h.N)
	for _, t := range h.Terms {
		m.Add(t.Coeff, t.P.Matrix(h.N))
	}
	return m
}

// FlipMasks returns the distinct X supports of the off-diagonal terms,
// in first appearance order.
func (h *Hamiltonian) FlipMasks() []uint64 {
	masks := make([]uint64, 0)
	for _, t := range h.Terms {
		if t.P.X == 0 {
			continue
		}
		if !slices.Contains(masks, t.P.X) {
			masks = append(masks, t.P.X)
		}
	}
	return masks
}
