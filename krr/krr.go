// Package krr implements kernel ridge regression.
//
// Training solves (K + lambda I) alpha = y, and prediction computes
// K* alpha against the stored training points.
package krr

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Kernel selects the kernel function.
type Kernel string

const (
	Linear   Kernel = "linear"
	Gaussian Kernel = "gaussian"
)

// Model is a kernel ridge regression model.
type Model struct {
	kernel Kernel
	// lambda is the ridge regularization strength.
	lambda float64
	// sigma is the gaussian kernel width.
	sigma float64

	trainX [][]float64
	alpha  *mat.VecDense
}

// New returns an untrained model.
func New(kernel Kernel, lambda, sigma float64) *Model {
	return &Model{kernel: kernel, lambda: lambda, sigma: sigma}
}

// Fit trains the model on inputs x and targets y.
func (m *Model) Fit(x [][]float64, y []float64) error {
	if len(x) == 0 {
		return errors.Errorf("no training data")
	}
	if len(x) != len(y) {
		return errors.Errorf("%d %d", len(x), len(y))
	}
	p := len(x[0])
	for i, xi := range x {
		if len(xi) != p {
			return errors.Errorf("%d %d %d", i, len(xi), p)
		}
	}

	n := len(x)
	k := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := m.k(x[i], x[j])
			if i == j {
				v += m.lambda
			}
			k.SetSym(i, j, v)
		}
	}

	// The ridge makes the kernel matrix positive definite.
	var ch mat.Cholesky
	if ok := ch.Factorize(k); !ok {
		return errors.Errorf("kernel matrix not positive definite")
	}
	alpha := mat.NewVecDense(n, nil)
	if err := ch.SolveVecTo(alpha, mat.NewVecDense(n, y)); err != nil {
		return errors.Wrap(err, "")
	}

	m.trainX = x
	m.alpha = alpha
	return nil
}

// Predict returns the model predictions at x.
func (m *Model) Predict(x [][]float64) ([]float64, error) {
	if m.alpha == nil {
		return nil, errors.Errorf("not fitted")
	}

	y := make([]float64, len(x))
	for i, xi := range x {
		if len(xi) != len(m.trainX[0]) {
			return nil, errors.Errorf("%d %d %d", i, len(xi), len(m.trainX[0]))
		}
		var v float64
		for j, xj := range m.trainX {
			v += m.k(xi, xj) * m.alpha.AtVec(j)
		}
		y[i] = v
	}
	return y, nil
}

func (m *Model) k(a, b []float64) float64 {
	switch m.kernel {
	case Gaussian:
		var dist float64
		for i, ai := range a {
			d := ai - b[i]
			dist += d * d
		}
		return math.Exp(-0.5 * dist / (m.sigma * m.sigma))
	default:
		var dot float64
		for i, ai := range a {
			dot += ai * b[i]
		}
		return dot
	}
}
