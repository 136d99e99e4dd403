// Package learning provides estimators over manifold-valued data. The
// geodesic regression estimator fits an intercept point and a coefficient
// tangent vector so that y_i ≈ Exp(X_i · coef, intercept) in the geodesic
// distance.
package learning

import (
	"fmt"
	"log"

	"github.com/manifold-ml/manifold/internal/array"
	"github.com/manifold-ml/manifold/internal/autodiff"
	"github.com/manifold-ml/manifold/internal/backend/cpu"
	"github.com/manifold-ml/manifold/internal/geometry"
	"github.com/manifold-ml/manifold/internal/minimize"
	"github.com/manifold-ml/manifold/internal/random"
)

// Method selects the fitting strategy.
type Method int

const (
	// Extrinsic minimizes over the flattened ambient parameterization
	// with a conjugate-gradient optimizer.
	Extrinsic Method = iota

	// Riemannian takes geodesic gradient steps intrinsic to the
	// manifold, transporting the coefficient alongside the intercept.
	Riemannian
)

// String returns the method name.
func (m Method) String() string {
	switch m {
	case Extrinsic:
		return "extrinsic"
	case Riemannian:
		return "riemannian"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// Initialization selects the starting parameter for fitting.
type Initialization interface {
	isInitialization()
}

// RandomInit starts from a random point with a small random tangent
// perturbation. This is the default.
type RandomInit struct{}

func (RandomInit) isInitialization() {}

// WarmStartInit starts from the first target with a zero tangent, or from
// the previous fit when the estimator was already fitted.
type WarmStartInit struct{}

func (WarmStartInit) isInitialization() {}

// ExplicitInit starts from the given intercept and coefficient.
type ExplicitInit struct {
	Intercept *array.Array
	Coef      *array.Array
}

func (ExplicitInit) isInitialization() {}

// Config tunes the estimator. Zero values fall back to the defaults noted
// per field.
type Config struct {
	// Metric overrides the space's own metric.
	Metric geometry.Metric

	// Method is the fitting strategy. Default Extrinsic.
	Method Method

	// NoCenterX disables subtracting the predictor mean before fitting.
	NoCenterX bool

	// MaxIterations caps the optimizer. Default 100.
	MaxIterations int

	// Tolerance is the convergence threshold. Default 1e-5.
	Tolerance float64

	// InitStepSize seeds the riemannian step-size schedule. Default 0.1.
	InitStepSize float64

	// Regularization weights a penalty pulling the intercept toward the
	// manifold during extrinsic fitting. Non-negative. Default 1.
	Regularization *float64

	// Initialization selects the starting parameter. Default RandomInit.
	Initialization Initialization

	// Verbose logs per-iteration progress of the riemannian method.
	Verbose bool

	// Backend executes array operations. Default the pure-Go engine.
	Backend array.Backend

	// Rand drives random initialization. Default the process-wide
	// generator.
	Rand *random.Generator
}

// GeodesicRegression fits manifold-valued observations as a function of a
// scalar predictor. Construct with New, fit with Fit; Intercept, Coef and
// TrainingScore are only meaningful after a Fit call.
type GeodesicRegression struct {
	space  geometry.Space
	metric geometry.Metric
	cfg    Config

	// Intercept is the fitted base point on the manifold.
	Intercept *array.Array

	// Coef is the fitted tangent vector at Intercept.
	Coef *array.Array

	// TrainingScore is the manifold R² computed when requested in Fit.
	TrainingScore float64

	// Converged reports whether the last Fit met its convergence
	// criterion within the iteration budget.
	Converged bool

	meanX  float64
	fitted bool
}

// New creates a geodesic regression estimator over the given space.
func New(space geometry.Space, cfg Config) *GeodesicRegression {
	if cfg.Metric == nil {
		cfg.Metric = space
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 100
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = 1e-5
	}
	if cfg.InitStepSize <= 0 {
		cfg.InitStepSize = 0.1
	}
	if cfg.Regularization == nil {
		reg := 1.0
		cfg.Regularization = &reg
	}
	if cfg.Initialization == nil {
		cfg.Initialization = RandomInit{}
	}
	if cfg.Backend == nil {
		cfg.Backend = cpu.New()
	}
	if cfg.Rand == nil {
		cfg.Rand = random.Default()
	}
	return &GeodesicRegression{space: space, metric: cfg.Metric, cfg: cfg}
}

// paramShape is the stacked (2, *pointShape) parameter layout holding
// [intercept, coefficient].
func (r *GeodesicRegression) paramShape() array.Shape {
	return append(array.Shape{2}, r.space.PointShape()...)
}

// unpackParam splits the stacked parameter into intercept and coefficient.
func (r *GeodesicRegression) unpackParam(b array.Backend, param *array.Array) (intercept, coef *array.Array) {
	shape := r.space.PointShape()
	parts := b.Split(param, 2)
	return b.Reshape(parts[0], shape), b.Reshape(parts[1], shape)
}

// packParam stacks intercept and coefficient into one parameter array.
func (r *GeodesicRegression) packParam(b array.Backend, intercept, coef *array.Array) *array.Array {
	shape := r.space.PointShape()
	leading := append(array.Shape{1}, shape...)
	return b.Concat([]*array.Array{
		b.Reshape(intercept, leading),
		b.Reshape(coef, leading),
	}, 0)
}

// predict evaluates Exp(X_i · coef, intercept) for every predictor value.
func (r *GeodesicRegression) predict(b array.Backend, x, intercept, coef *array.Array) *array.Array {
	pointRank := len(r.space.PointShape())
	scaled := b.Mul(expandScalars(b, x, pointRank), coef)
	return r.metric.Exp(b, scaled, intercept)
}

// Loss computes the mean squared geodesic distance between the targets and
// the geodesic predictions, plus the off-manifold penalty on the intercept
// weighted by the regularization coefficient. x has shape (n), y has shape
// (n, *pointShape) and param the stacked (2, *pointShape) layout.
func (r *GeodesicRegression) Loss(b array.Backend, x, y, param *array.Array) *array.Array {
	intercept, coef := r.unpackParam(b, param)

	// The optimizer iterates in the ambient parameterization, so the model
	// is evaluated at the projected intercept and the coefficient projected
	// into its tangent space; the penalty below still sees the raw
	// intercept, keeping the iterates near the manifold.
	base := r.space.Projection(b, intercept)
	tangent := r.space.ToTangent(b, coef, base)
	pred := r.predict(b, x, base, tangent)
	loss := b.Mean(r.metric.SquaredDist(b, y, pred))

	if reg := *r.cfg.Regularization; reg > 0 {
		delta := b.Sub(r.space.Projection(b, intercept), intercept)
		loss = b.Add(loss, b.MulScalar(b.Sum(b.Mul(delta, delta)), reg))
	}
	return loss
}

// Fit estimates the intercept and coefficient from predictors x (shape
// (n)) and targets y (shape (n, *pointShape)). When computeTrainingScore
// is true the manifold R² about the Fréchet mean of y is stored in
// TrainingScore. A non-converged run is not an error; the best iterate is
// kept and Converged is set to false.
func (r *GeodesicRegression) Fit(x, y *array.Array, computeTrainingScore bool) error {
	if len(x.Shape()) != 1 {
		return fmt.Errorf("learning: predictors must be 1-D, got shape %v", x.Shape())
	}
	n := x.Shape()[0]
	wantY := append(array.Shape{n}, r.space.PointShape()...)
	if !y.Shape().Equal(wantY) {
		return fmt.Errorf("learning: targets must have shape %v, got %v", wantY, y.Shape())
	}

	b := r.cfg.Backend
	xc := x
	r.meanX = 0
	if !r.cfg.NoCenterX {
		r.meanX = b.Mean(x).Float()
		xc = b.SubScalar(x, r.meanX)
	}

	param0, err := r.initialParam(b, y)
	if err != nil {
		return err
	}

	var best *array.Array
	switch r.cfg.Method {
	case Extrinsic:
		best, err = r.fitExtrinsic(b, xc, y, param0)
	case Riemannian:
		best, err = r.fitRiemannian(b, xc, y, param0)
	default:
		return fmt.Errorf("learning: unknown method %v", r.cfg.Method)
	}
	if err != nil {
		return err
	}

	// Optimization happens in the ambient parameterization, so the result
	// can drift off the manifold; project back before exposing it.
	intercept, coef := r.unpackParam(b, best)
	r.Intercept = r.space.Projection(b, intercept)
	r.Coef = r.space.ToTangent(b, coef, r.Intercept)
	r.fitted = true

	if computeTrainingScore {
		r.TrainingScore = r.score(b, xc, y)
	}
	return nil
}

// Predict maps predictor values to points along the fitted geodesic.
func (r *GeodesicRegression) Predict(x *array.Array) *array.Array {
	b := r.cfg.Backend
	if r.meanX != 0 {
		x = b.SubScalar(x, r.meanX)
	}
	return r.predict(b, x, r.Intercept, r.Coef)
}

// initialParam builds the starting parameter per the configured policy.
func (r *GeodesicRegression) initialParam(b array.Backend, y *array.Array) (*array.Array, error) {
	shape := r.space.PointShape()
	switch init := r.cfg.Initialization.(type) {
	case RandomInit:
		intercept := r.space.RandomPoint(b, r.cfg.Rand, 1)
		noise := r.cfg.Rand.Normal(0, 1e-2, shape...)
		coef := r.space.ToTangent(b, noise, intercept)
		return r.packParam(b, intercept, coef), nil
	case WarmStartInit:
		if r.fitted {
			return r.packParam(b, r.Intercept, r.Coef), nil
		}
		first := b.Reshape(b.Take(y, []int{0}, 0), shape)
		return r.packParam(b, first, array.Zeros(shape)), nil
	case ExplicitInit:
		if init.Intercept == nil || init.Coef == nil {
			return nil, fmt.Errorf("learning: explicit initialization requires both intercept and coefficient")
		}
		return r.packParam(b, init.Intercept, init.Coef), nil
	default:
		return nil, fmt.Errorf("learning: unknown initialization %T", init)
	}
}

// fitExtrinsic minimizes the loss over the flattened parameter with
// conjugate gradients, differentiating through the autodiff decorator.
func (r *GeodesicRegression) fitExtrinsic(b array.Backend, x, y, param0 *array.Array) (*array.Array, error) {
	objective := autodiff.ValueAndGradHost(b, func(ab array.Backend, param *array.Array) *array.Array {
		return r.Loss(ab, x, y, param)
	}, r.paramShape())

	result, err := minimize.Minimize(objective, param0.Floats(), minimize.Settings{
		MaxIterations: r.cfg.MaxIterations,
		Tolerance:     r.cfg.Tolerance,
	})
	if err != nil {
		return nil, err
	}
	r.Converged = result.Converged
	if r.cfg.Verbose {
		log.Printf("geodesic regression: extrinsic fit finished after %d iterations, loss %g, converged %t",
			result.Iterations, result.F, result.Converged)
	}
	return array.MustFromSlice(result.X, r.paramShape()), nil
}

// fitRiemannian performs geodesic gradient descent: the intercept moves by
// the exponential map against its tangent gradient, and the coefficient is
// parallel transported to the updated intercept. The step size backtracks
// whenever a step fails to decrease the loss and regrows every fifth
// accepted step, so a single bad region does not pin the descent to a
// vanishing step for the rest of the run.
func (r *GeodesicRegression) fitRiemannian(b array.Backend, x, y, param0 *array.Array) (*array.Array, error) {
	vg := autodiff.ValueAndGrad(b, func(ab array.Backend, param *array.Array) *array.Array {
		return r.Loss(ab, x, y, param)
	})

	param := param0
	lossValue, grad := vg(param)
	current := lossValue.Float()
	step := r.cfg.InitStepSize
	accepted := 0
	r.Converged = false

	for iter := 0; iter < r.cfg.MaxIterations; iter++ {
		intercept, coef := r.unpackParam(b, param)
		gradIntercept, gradCoef := r.unpackParam(b, grad)

		// Euclidean gradients become Riemannian ones by projection into
		// the tangent space at the current intercept.
		tangentGradIntercept := r.space.ToTangent(b, gradIntercept, intercept)
		tangentGradCoef := r.space.ToTangent(b, gradCoef, intercept)

		var (
			candidate *array.Array
			next      float64
		)
		for {
			newIntercept := r.metric.Exp(b, b.MulScalar(tangentGradIntercept, -step), intercept)
			movedCoef := r.metric.ParallelTransport(b,
				b.Sub(coef, b.MulScalar(tangentGradCoef, step)), intercept, newIntercept)
			candidate = r.packParam(b, newIntercept, movedCoef)

			nextValue, nextGrad := vg(candidate)
			next = nextValue.Float()
			if next < current || step < 1e-16 {
				grad = nextGrad
				break
			}
			step /= 2
		}

		if r.cfg.Verbose {
			log.Printf("geodesic regression: riemannian iteration %d, loss %g, step %g", iter, next, step)
		}

		improvement := current - next
		param = candidate
		current = next
		if improvement >= 0 && improvement < r.cfg.Tolerance {
			r.Converged = true
			break
		}
		accepted++
		if accepted%5 == 0 {
			step *= 2
		}
	}
	return param, nil
}

// score computes 1 − RSS/TSS with both sums taken in squared geodesic
// distance, the total variance measured about the Fréchet mean of y.
func (r *GeodesicRegression) score(b array.Backend, x, y *array.Array) float64 {
	pred := r.predict(b, x, r.Intercept, r.Coef)
	rss := b.Sum(r.metric.SquaredDist(b, y, pred)).Float()

	mean := geometry.FrechetMean(b, r.metric, y, geometry.FrechetOptions{})
	tss := b.Sum(r.metric.SquaredDist(b, y, mean)).Float()
	if tss == 0 {
		if rss == 0 {
			return 1
		}
		return 0
	}
	return 1 - rss/tss
}

// expandScalars reshapes a batch of scalars (n,) so it broadcasts against
// points of the given rank.
func expandScalars(b array.Backend, x *array.Array, pointRank int) *array.Array {
	shape := x.Shape().Clone()
	for i := 0; i < pointRank; i++ {
		shape = append(shape, 1)
	}
	return b.Reshape(x, shape)
}
