// Package minimize adapts the gonum optimizers to the flat-vector
// objective contract used by the estimators: a closure returning the loss
// and its gradient for a candidate parameter vector.
package minimize

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// Objective evaluates the loss and its gradient at x. The returned
// gradient must have the same length as x.
type Objective func(x []float64) (float64, []float64)

// Settings bounds the optimization run. Zero values fall back to the
// defaults below.
type Settings struct {
	// MaxIterations caps the number of major iterations. Default 100.
	MaxIterations int

	// Tolerance is the gradient-norm threshold for convergence.
	// Default 1e-10.
	Tolerance float64
}

// Result reports the best iterate found and convergence metadata.
type Result struct {
	X          []float64
	F          float64
	Iterations int

	// Converged is false when the run stopped on the iteration limit
	// rather than a convergence criterion.
	Converged bool
}

const (
	defaultMaxIterations = 100
	defaultTolerance     = 1e-10
)

// Minimize runs conjugate-gradient descent from x0. Hitting the iteration
// limit is not an error; the best iterate found is returned with
// Converged set to false. A returned error means the optimizer could not
// produce any iterate at all.
func Minimize(objective Objective, x0 []float64, settings Settings) (*Result, error) {
	if settings.MaxIterations <= 0 {
		settings.MaxIterations = defaultMaxIterations
	}
	if settings.Tolerance <= 0 {
		settings.Tolerance = defaultTolerance
	}

	// The optimizer asks for value and gradient separately; one shared
	// evaluation serves both when it probes the same point.
	var (
		lastX []float64
		lastF float64
		lastG []float64
	)
	evaluate := func(x []float64) {
		if lastX != nil && floats.Equal(lastX, x) {
			return
		}
		lastF, lastG = objective(x)
		lastX = append(lastX[:0], x...)
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			evaluate(x)
			return lastF
		},
		Grad: func(grad, x []float64) {
			evaluate(x)
			copy(grad, lastG)
		},
	}

	opts := optimize.Settings{
		MajorIterations:   settings.MaxIterations,
		GradientThreshold: settings.Tolerance,
	}

	result, err := optimize.Minimize(problem, x0, &opts, &optimize.CG{})
	if result == nil || len(result.X) == 0 {
		if err != nil {
			return nil, fmt.Errorf("minimize: %w", err)
		}
		return nil, fmt.Errorf("minimize: optimizer produced no iterate")
	}

	converged := err == nil
	switch result.Status {
	case optimize.IterationLimit, optimize.FunctionEvaluationLimit,
		optimize.RuntimeLimit, optimize.Failure, optimize.NotTerminated:
		converged = false
	}

	return &Result{
		X:          append([]float64(nil), result.X...),
		F:          result.F,
		Iterations: result.Stats.MajorIterations,
		Converged:  converged,
	}, nil
}
