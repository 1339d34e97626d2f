package state

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/cmplx"
	"testing"

	"qcc/pauli"
)

const tolerance = 1e-5

func TestNew(t *testing.T) {
	t.Parallel()
	s := New(3)
	if s.Qubits() != 3 {
		t.Fatalf("%d", s.Qubits())
	}
	if v := s.Amplitude(0); v != 1 {
		t.Fatalf("%v", v)
	}
	for occ := uint64(1); occ < 8; occ++ {
		if v := s.Amplitude(occ); v != 0 {
			t.Fatalf("%d %v", occ, v)
		}
	}
	if math.Abs(s.Norm()-1) > tolerance {
		t.Fatalf("%f", s.Norm())
	}
}

func TestApplyPauli(t *testing.T) {
	t.Parallel()
	tests := []struct {
		p string
		// amplitudes of the result of applying p to |00>.
		amps map[uint64]complex64
	}{
		{p: "X0", amps: map[uint64]complex64{0b01: 1}},
		{p: "Y0", amps: map[uint64]complex64{0b01: 1i}},
		{p: "Z0", amps: map[uint64]complex64{0b00: 1}},
		{p: "X0 X1", amps: map[uint64]complex64{0b11: 1}},
		{p: "Y0 Z1", amps: map[uint64]complex64{0b01: 1i}},
	}
	for _, test := range tests {
		t.Run(test.p, func(t *testing.T) {
			t.Parallel()
			p, err := pauli.Parse(test.p)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			s := New(2)
			s.ApplyPauli(p)
			for occ := uint64(0); occ < 4; occ++ {
				if d := cmplx.Abs(complex128(s.Amplitude(occ) - test.amps[occ])); d > tolerance {
					t.Fatalf("%d %v %v", occ, s.Amplitude(occ), test.amps[occ])
				}
			}
		})
	}
}

func TestRY(t *testing.T) {
	t.Parallel()
	// RY(pi) maps |0> to |1>.
	s := New(2)
	s.RY(math.Pi, 1)
	if d := cmplx.Abs(complex128(s.Amplitude(0b10) - 1)); d > tolerance {
		t.Fatalf("%v", s.Amplitude(0b10))
	}

	// RY(pi/2) prepares the symmetric superposition.
	s = New(1)
	s.RY(math.Pi/2, 0)
	h := complex64(complex(1/math.Sqrt2, 0))
	if d := cmplx.Abs(complex128(s.Amplitude(0) - h)); d > tolerance {
		t.Fatalf("%v", s.Amplitude(0))
	}
	if d := cmplx.Abs(complex128(s.Amplitude(1) - h)); d > tolerance {
		t.Fatalf("%v", s.Amplitude(1))
	}
}

func TestRZ(t *testing.T) {
	t.Parallel()
	s := New(1)
	s.ApplyGate([][]complex64{{0, 1}, {1, 0}}, 0)
	s.RZ(math.Pi/3, 0)
	want := complex64(cmplx.Exp(complex(0, math.Pi/6)))
	if d := cmplx.Abs(complex128(s.Amplitude(1) - want)); d > tolerance {
		t.Fatalf("%v %v", s.Amplitude(1), want)
	}
}

func TestApplyExp(t *testing.T) {
	t.Parallel()
	// exp(-itX) on |0> gives cos(t)|0> - i sin(t)|1>.
	const theta = 0.3
	s := New(1)
	s.ApplyExp(pauli.String{X: 1}, theta)
	c := complex64(complex(math.Cos(theta), 0))
	ms := complex64(complex(0, -math.Sin(theta)))
	if d := cmplx.Abs(complex128(s.Amplitude(0) - c)); d > tolerance {
		t.Fatalf("%v %v", s.Amplitude(0), c)
	}
	if d := cmplx.Abs(complex128(s.Amplitude(1) - ms)); d > tolerance {
		t.Fatalf("%v %v", s.Amplitude(1), ms)
	}

	// A two qubit flip entangles |00> with |11>.
	s = New(2)
	p, err := pauli.Parse("X0 X1")
	if err != nil {
		t.Fatalf("%+v", err)
	}
	s.ApplyExp(p, theta)
	if d := cmplx.Abs(complex128(s.Amplitude(0b00) - c)); d > tolerance {
		t.Fatalf("%v %v", s.Amplitude(0b00), c)
	}
	if d := cmplx.Abs(complex128(s.Amplitude(0b11) - ms)); d > tolerance {
		t.Fatalf("%v %v", s.Amplitude(0b11), ms)
	}
	if math.Abs(s.Norm()-1) > tolerance {
		t.Fatalf("%f", s.Norm())
	}
}

// TestApplyExpPeriod checks exp(-i pi P) = -1 on any Pauli string.
func TestApplyExpPeriod(t *testing.T) {
	t.Parallel()
	p, err := pauli.Parse("Y0 X1 X2")
	if err != nil {
		t.Fatalf("%+v", err)
	}
	s := New(3)
	s.RY(0.7, 0)
	s.RY(1.9, 2)
	want := s.Clone()
	s.ApplyExp(p, math.Pi)
	ip := Inner(want, s)
	if cmplx.Abs(ip+1) > tolerance {
		t.Fatalf("%v", ip)
	}
}

func TestInner(t *testing.T) {
	t.Parallel()
	a := New(2)
	b := a.Clone()
	if ip := Inner(a, b); cmplx.Abs(ip-1) > tolerance {
		t.Fatalf("%v", ip)
	}

	b.ApplyPauli(pauli.String{X: 1})
	if ip := Inner(a, b); cmplx.Abs(ip) > tolerance {
		t.Fatalf("%v", ip)
	}

	// <0|Y|0> picks up the conjugate on the left argument.
	a = New(1)
	a.ApplyGate([][]complex64{{0, -1i}, {1i, 0}}, 0)
	c := New(1)
	c.ApplyGate([][]complex64{{0, 1}, {1, 0}}, 0)
	if ip := Inner(a, c); cmplx.Abs(ip-complex(0, -1)) > tolerance {
		t.Fatalf("%v", ip)
	}
}

func TestExpect(t *testing.T) {
	t.Parallel()
	h := &pauli.Hamiltonian{N: 2}
	z0, err := pauli.Parse("Z0")
	if err != nil {
		t.Fatalf("%+v", err)
	}
	x0, err := pauli.Parse("X0")
	if err != nil {
		t.Fatalf("%+v", err)
	}
	h.Add(1, z0)
	h.Add(0.5, x0)

	tests := []struct {
		theta float64
		e     float64
	}{
		{theta: 0, e: 1},
		{theta: math.Pi, e: -1},
		{theta: math.Pi / 2, e: 0.5},
		{theta: 0.4, e: math.Cos(0.4) + 0.5*math.Sin(0.4)},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%f", test.theta), func(t *testing.T) {
			t.Parallel()
			s := New(2)
			s.RY(test.theta, 0)
			if e := s.Expect(h); math.Abs(e-test.e) > tolerance {
				t.Fatalf("%f %f", e, test.e)
			}
		})
	}
}

func TestCloneIndependent(t *testing.T) {
	t.Parallel()
	s := New(2)
	c := s.Clone()
	c.ApplyPauli(pauli.String{X: 0b11})
	if v := s.Amplitude(0); v != 1 {
		t.Fatalf("%v", v)
	}
	if v := c.Amplitude(0b11); cmplx.Abs(complex128(v-1)) > tolerance {
		t.Fatalf("%v", v)
	}
}

func TestMain(m *testing.M) {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds | log.Llongfile | log.LstdFlags)

	m.Run()
}
