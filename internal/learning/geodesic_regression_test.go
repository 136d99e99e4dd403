package learning

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manifold-ml/manifold/internal/array"
	"github.com/manifold-ml/manifold/internal/autodiff"
	"github.com/manifold-ml/manifold/internal/backend/cpu"
	"github.com/manifold-ml/manifold/internal/geometry"
	"github.com/manifold-ml/manifold/internal/random"
)

// makeDataset builds noiseless targets y_i = Exp(x_i · coef, intercept)
// with a centered predictor.
func makeDataset(t *testing.T, space geometry.Space, g *random.Generator, n int) (x, y, intercept, coef *array.Array) {
	t.Helper()
	b := cpu.New()

	raw, err := g.Uniform(0, 1, n)
	require.NoError(t, err)
	x = b.SubScalar(raw, b.Mean(raw).Float())

	intercept = space.RandomPoint(b, g, 1)
	coef = space.ToTangent(b, g.Normal(0, 0.5, space.PointShape()...), intercept)

	pointRank := len(space.PointShape())
	scaled := b.Mul(expandScalars(b, x, pointRank), coef)
	y = space.Exp(b, scaled, intercept)
	return x, y, intercept, coef
}

func TestLossZeroAtTrueParametersEuclidean(t *testing.T) {
	space := geometry.NewEuclidean(3)
	g := random.NewGenerator(42)
	x, y, intercept, coef := makeDataset(t, space, g, 20)

	b := cpu.New()
	r := New(space, Config{})
	param := r.packParam(b, intercept, coef)

	loss := r.Loss(b, x, y, param)
	assert.InDelta(t, 0, loss.Float(), 1e-10)
}

func TestLossZeroAtTrueParametersHypersphere(t *testing.T) {
	space := geometry.NewHypersphere(4)
	g := random.NewGenerator(42)
	x, y, intercept, coef := makeDataset(t, space, g, 20)

	b := cpu.New()
	r := New(space, Config{})
	param := r.packParam(b, intercept, coef)

	loss := r.Loss(b, x, y, param)
	assert.InDelta(t, 0, loss.Float(), 1e-6)
}

func TestLossPermutationInvariant(t *testing.T) {
	space := geometry.NewEuclidean(2)
	g := random.NewGenerator(5)
	x, y, intercept, coef := makeDataset(t, space, g, 4)

	b := cpu.New()
	r := New(space, Config{})
	param := r.packParam(b, intercept, coef)

	// Reverse the sample order.
	rev := []int{3, 2, 1, 0}
	xr := b.Take(x, rev, 0)
	yr := b.Take(y, rev, 0)

	assert.InDelta(t, r.Loss(b, x, y, param).Float(), r.Loss(b, xr, yr, param).Float(), 1e-12)
}

func TestLossGradientFiniteAndNonZero(t *testing.T) {
	for _, tc := range []struct {
		name  string
		space geometry.Space
	}{
		{"euclidean", geometry.NewEuclidean(3)},
		{"hypersphere", geometry.NewHypersphere(4)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			g := random.NewGenerator(7)
			x, y, _, _ := makeDataset(t, tc.space, g, 10)

			b := cpu.New()
			r := New(tc.space, Config{})

			// Generic parameter away from the optimum.
			intercept := tc.space.RandomPoint(b, g, 1)
			coef := tc.space.ToTangent(b, g.Normal(0, 0.5, tc.space.PointShape()...), intercept)
			param := r.packParam(b, intercept, coef)

			vg := autodiff.ValueAndGrad(b, func(ab array.Backend, p *array.Array) *array.Array {
				return r.Loss(ab, x, y, p)
			})
			value, grad := vg(param)

			require.True(t, grad.Shape().Equal(param.Shape()))
			assert.True(t, !math.IsNaN(value.Float()) && !math.IsInf(value.Float(), 0))
			nonZero := false
			for _, v := range grad.Floats() {
				require.False(t, math.IsNaN(v) || math.IsInf(v, 0), "gradient entry not finite")
				if v != 0 {
					nonZero = true
				}
			}
			assert.True(t, nonZero, "gradient must not be uniformly zero")
		})
	}
}

func TestFitExtrinsicEuclidean(t *testing.T) {
	space := geometry.NewEuclidean(3)
	g := random.NewGenerator(42)
	x, y, intercept, coef := makeDataset(t, space, g, 20)

	r := New(space, Config{Initialization: WarmStartInit{}, Tolerance: 1e-10})
	require.NoError(t, r.Fit(x, y, true))

	assert.True(t, r.Converged)
	assert.InDeltaSlice(t, intercept.Floats(), r.Intercept.Floats(), 1e-6)
	assert.InDeltaSlice(t, coef.Floats(), r.Coef.Floats(), 1e-6)
	assert.GreaterOrEqual(t, r.TrainingScore, 1-5e-3)
}

func TestLossInvariantToOffManifoldIntercept(t *testing.T) {
	space := geometry.NewHypersphere(4)
	g := random.NewGenerator(11)
	x, y, intercept, coef := makeDataset(t, space, g, 12)

	b := cpu.New()
	reg := 0.0
	r := New(space, Config{Regularization: &reg})

	onSphere := r.Loss(b, x, y, r.packParam(b, intercept, coef))
	scaled := r.Loss(b, x, y, r.packParam(b, b.MulScalar(intercept, 1.5), coef))

	// Without the penalty the model sees only the projected intercept and
	// the tangent part of the coefficient, so scaling the intercept off the
	// sphere must not change the loss.
	assert.InDelta(t, onSphere.Float(), scaled.Float(), 1e-12)
}

func TestFitExtrinsicHypersphere(t *testing.T) {
	space := geometry.NewHypersphere(4)
	g := random.NewGenerator(42)
	x, y, intercept, coef := makeDataset(t, space, g, 20)

	r := New(space, Config{
		Initialization: WarmStartInit{},
		MaxIterations:  50,
	})
	require.NoError(t, r.Fit(x, y, true))

	assert.True(t, r.Converged)
	assert.GreaterOrEqual(t, r.TrainingScore, 1-5e-3)

	// The fitted intercept sits on the sphere.
	b := cpu.New()
	assert.InDelta(t, 1, b.Dot(r.Intercept, r.Intercept).Float(), 1e-9)

	// Compare coefficients after transporting the fitted one to the true
	// intercept.
	moved := space.ParallelTransport(b, r.Coef, r.Intercept, intercept)
	diff := b.Sub(moved, coef)
	assert.Less(t, math.Sqrt(b.Dot(diff, diff).Float()), 0.6)
}

func TestFitRiemannianEuclidean(t *testing.T) {
	space := geometry.NewEuclidean(3)
	g := random.NewGenerator(42)
	x, y, intercept, _ := makeDataset(t, space, g, 20)

	r := New(space, Config{
		Method:         Riemannian,
		Initialization: WarmStartInit{},
		MaxIterations:  200,
		Tolerance:      1e-12,
	})
	require.NoError(t, r.Fit(x, y, true))

	assert.InDeltaSlice(t, intercept.Floats(), r.Intercept.Floats(), 1e-3)
	assert.GreaterOrEqual(t, r.TrainingScore, 1-5e-3)
}

func TestFitRiemannianHypersphere(t *testing.T) {
	space := geometry.NewHypersphere(4)
	g := random.NewGenerator(42)
	x, y, intercept, coef := makeDataset(t, space, g, 20)

	r := New(space, Config{
		Method:         Riemannian,
		Initialization: WarmStartInit{},
		MaxIterations:  100,
		Tolerance:      1e-8,
	})
	require.NoError(t, r.Fit(x, y, true))

	assert.GreaterOrEqual(t, r.TrainingScore, 1-1e-1)

	// The fitted intercept sits on the sphere.
	b := cpu.New()
	assert.InDelta(t, 1, b.Dot(r.Intercept, r.Intercept).Float(), 1e-9)

	moved := space.ParallelTransport(b, r.Coef, r.Intercept, intercept)
	diff := b.Sub(moved, coef)
	assert.Less(t, math.Sqrt(b.Dot(diff, diff).Float()), 0.6)
}

func TestFitExplicitInitialization(t *testing.T) {
	space := geometry.NewEuclidean(2)
	g := random.NewGenerator(3)
	x, y, intercept, coef := makeDataset(t, space, g, 10)

	r := New(space, Config{
		Initialization: ExplicitInit{Intercept: intercept, Coef: coef},
	})
	require.NoError(t, r.Fit(x, y, false))

	// Starting at the optimum must stay at the optimum.
	assert.InDeltaSlice(t, intercept.Floats(), r.Intercept.Floats(), 1e-6)
}

func TestFitExplicitInitializationMissingCoef(t *testing.T) {
	space := geometry.NewEuclidean(2)
	g := random.NewGenerator(3)
	x, y, intercept, _ := makeDataset(t, space, g, 10)

	r := New(space, Config{Initialization: ExplicitInit{Intercept: intercept}})
	require.Error(t, r.Fit(x, y, false))
}

func TestFitInputValidation(t *testing.T) {
	space := geometry.NewEuclidean(2)
	r := New(space, Config{})

	x := array.Zeros(array.Shape{5})
	badY := array.Zeros(array.Shape{5, 3})
	require.Error(t, r.Fit(x, badY, false))

	badX := array.Zeros(array.Shape{5, 1})
	y := array.Zeros(array.Shape{5, 2})
	require.Error(t, r.Fit(badX, y, false))
}

func TestPredictFollowsFittedGeodesic(t *testing.T) {
	space := geometry.NewEuclidean(2)
	g := random.NewGenerator(8)
	x, y, _, _ := makeDataset(t, space, g, 15)

	r := New(space, Config{Initialization: WarmStartInit{}, Tolerance: 1e-10})
	require.NoError(t, r.Fit(x, y, false))

	pred := r.Predict(x)
	require.True(t, pred.Shape().Equal(y.Shape()))
	assert.InDeltaSlice(t, y.Floats(), pred.Floats(), 1e-5)
}

func TestHostAdapterMatchesNativeValues(t *testing.T) {
	space := geometry.NewEuclidean(3)
	g := random.NewGenerator(21)
	x, y, intercept, coef := makeDataset(t, space, g, 8)

	b := cpu.New()
	r := New(space, Config{})
	param := r.packParam(b, intercept, coef)

	f := func(ab array.Backend, p *array.Array) *array.Array {
		return r.Loss(ab, x, y, p)
	}
	value, grad := autodiff.ValueAndGrad(b, f)(param)
	hostValue, hostGrad := autodiff.ValueAndGradHost(b, f, param.Shape())(param.Floats())

	assert.InDelta(t, value.Float(), hostValue, 1e-12)
	assert.InDeltaSlice(t, grad.Floats(), hostGrad, 1e-12)
}
