// Package molecule provides qubit Hamiltonian fixtures for small molecules.
package molecule

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"qcc/pauli"
)

//go:embed h2_jw.csv
var h2JW []byte

//go:embed h2_curve.csv
var h2Curve []byte

// Molecule is a molecular system mapped to qubits.
type Molecule struct {
	Name       string
	NElectrons int
	// Ref is the Hartree-Fock occupation, bit j for qubit j.
	Ref uint64
	H   *pauli.Hamiltonian
}

// H2 returns the hydrogen molecule in the STO-3G basis at its equilibrium
// bond length of 0.7414 Angstrom, Jordan-Wigner mapped to 4 qubits.
// The identity coefficient includes the nuclear repulsion.
func H2() *Molecule {
	h, err := ReadHamiltonian(bytes.NewReader(h2JW), 4)
	if err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
	return &Molecule{Name: "H2", NElectrons: 2, Ref: 0b0011, H: h}
}

// HF returns the Hartree-Fock energy, the diagonal expectation of the
// Hamiltonian at the reference occupation.
func (m *Molecule) HF() float64 {
	return m.H.ExpectBasis(m.Ref)
}

// FCI returns the full configuration interaction ground energy by exact
// diagonalization.
func (m *Molecule) FCI() float64 {
	vvs := m.H.Matrix().Eigen()
	return real(vvs[0].Val)
}

// ReadHamiltonian parses a CSV term list with records of the form
// "X0 Y1 Z3",coefficient.
func ReadHamiltonian(r io.Reader, n int) (*pauli.Hamiltonian, error) {
	h := &pauli.Hamiltonian{N: n}
	cr := csv.NewReader(r)
	i := -1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "")
		}
		i++
		if len(record) != 2 {
			return nil, errors.Errorf("%d %#v", i, record)
		}

		p, err := pauli.Parse(record[0])
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("%d %#v", i, record))
		}
		if highest := p.Support(); highest>>n != 0 {
			return nil, errors.Errorf("%d %q acts outside %d qubits", i, record[0], n)
		}
		coeff, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("%d %#v", i, record))
		}
		h.Add(complex64(complex(coeff, 0)), p)
	}
	if len(h.Terms) == 0 {
		return nil, errors.Errorf("empty hamiltonian")
	}
	return h, nil
}

// CurvePoint is one point of a potential energy curve.
type CurvePoint struct {
	// R is the bond length in Angstrom.
	R float64
	// E is the full CI energy in Hartree.
	E float64
}

// H2DissociationCurve returns the H2 potential energy curve dataset used
// by the regression fitting examples.
func H2DissociationCurve() []CurvePoint {
	points, err := readCurve(bytes.NewReader(h2Curve))
	if err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
	return points
}

func readCurve(r io.Reader) ([]CurvePoint, error) {
	points := make([]CurvePoint, 0)
	cr := csv.NewReader(r)
	i := -1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "")
		}
		i++
		if len(record) != 2 {
			return nil, errors.Errorf("%d %#v", i, record)
		}

		var p CurvePoint
		if p.R, err = strconv.ParseFloat(record[0], 64); err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("%d %#v", i, record))
		}
		if p.E, err = strconv.ParseFloat(record[1], 64); err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("%d %#v", i, record))
		}
		points = append(points, p)
	}
	return points, nil
}
