// Package vqe minimizes ansatz energies variationally.
package vqe

import (
	"fmt"
	"math/rand/v2"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"

	"qcc"
	"qcc/pauli"
)

// Options are options for Minimize.
type Options struct {
	gradientThreshold float64
	majorIterations   int
	fdStep            float64
	restarts          int
	perturbation      float64
	seed              uint64
}

// NewOptions returns the default minimization options.
// The gradient threshold and the finite difference step sit above the
// complex64 noise floor of the statevector simulation.
func NewOptions() Options {
	opt := Options{}
	opt.gradientThreshold = 1e-4
	opt.majorIterations = 500
	opt.fdStep = 1e-3
	opt.restarts = 1
	opt.perturbation = 0.1
	opt.seed = 1
	return opt
}

// GradientThreshold sets the convergence threshold on the gradient norm.
func (opt Options) GradientThreshold(t float64) Options {
	opt.gradientThreshold = t
	return opt
}

// MajorIterations sets the iteration budget per attempt.
func (opt Options) MajorIterations(n int) Options {
	opt.majorIterations = n
	return opt
}

// Restarts sets the number of independent optimization attempts.
func (opt Options) Restarts(n int) Options {
	opt.restarts = n
	return opt
}

// Perturbation sets the scale of the random offsets added to the
// entangler amplitudes on restarts after the first.
func (opt Options) Perturbation(p float64) Options {
	opt.perturbation = p
	return opt
}

// Seed sets the random seed of the restart perturbations.
func (opt Options) Seed(s uint64) Options {
	opt.seed = s
	return opt
}

// Result is the outcome of a minimization.
type Result struct {
	Energy  float64
	Params  []float64
	Restart int
}

// Minimize minimizes the energy of the ansatz over h starting from init,
// using BFGS with central difference gradients.
// Attempts after the first perturb the entangler amplitudes of init; the
// lowest energy over all attempts wins.
// Optimizer failures are surfaced as-is when no attempt succeeds.
func Minimize(h *pauli.Hamiltonian, a *qcc.Ansatz, init []float64, options ...Options) (Result, error) {
	opt := NewOptions()
	if len(options) > 0 {
		opt = options[0]
	}
	if len(init) != a.NumParams() {
		return Result{}, errors.Errorf("%d parameters, expected %d", len(init), a.NumParams())
	}

	objective := func(x []float64) float64 {
		return a.Energy(h, x)
	}
	problem := optimize.Problem{
		Func: objective,
		Grad: func(grad, x []float64) {
			fd.Gradient(grad, objective, x, &fd.Settings{Formula: fd.Central, Step: opt.fdStep})
		},
	}
	settings := &optimize.Settings{
		GradientThreshold: opt.gradientThreshold,
		MajorIterations:   opt.majorIterations,
	}

	rng := rand.New(rand.NewPCG(opt.seed, opt.seed))
	best := Result{Restart: -1}
	var lastErr error
	for i := 0; i < max(opt.restarts, 1); i++ {
		x0 := make([]float64, len(init))
		copy(x0, init)
		if i > 0 {
			for j := 2 * a.N; j < len(x0); j++ {
				x0[j] += (rng.Float64()*2 - 1) * opt.perturbation
			}
		}

		res, err := optimize.Minimize(problem, x0, settings, &optimize.BFGS{})
		if err != nil {
			lastErr = errors.Wrap(err, fmt.Sprintf("restart %d", i))
			continue
		}

		if best.Restart < 0 || res.F < best.Energy {
			best = Result{Energy: res.F, Params: res.X, Restart: i}
		}
	}
	if best.Restart < 0 {
		return Result{}, lastErr
	}
	return best, nil
}
