package autodiff

import (
	"github.com/manifold-ml/manifold/internal/array"
	"github.com/manifold-ml/manifold/internal/autodiff/ops"
)

// Func is a scalar-valued function of one array parameter. The function
// must perform all array work through the backend it is handed, and must
// use the param array itself rather than a copy, so the recorded graph
// reaches the parameter.
type Func func(b array.Backend, param *array.Array) *array.Array

// ValueAndGrad returns a function computing f's value together with its
// gradient with respect to the parameter. Every call replays the forward
// pass on a fresh tape, so the returned function is safe to call with
// different parameters.
//
// A parameter the function never touches gets a zero gradient.
func ValueAndGrad(base array.Backend, f Func) func(param *array.Array) (*array.Array, *array.Array) {
	return func(param *array.Array) (*array.Array, *array.Array) {
		ad := New(base)
		ad.Tape().StartRecording()
		value := f(ad, param)
		ad.Tape().StopRecording()

		seed := ops.OnesLike(value)
		grads := ad.Tape().Backward(value, seed, ad)
		grad, ok := grads[param]
		if !ok {
			grad = ops.ZerosLike(param)
		}
		return value, grad
	}
}

// ValueAndGradHost is ValueAndGrad with a host-slice calling convention:
// the parameter arrives as a flat []float64, is reshaped to shape, and the
// value and gradient come back as host scalars and slices. This is the
// form numerical optimizers consume.
func ValueAndGradHost(base array.Backend, f Func, shape array.Shape) func(x []float64) (float64, []float64) {
	vg := ValueAndGrad(base, f)
	return func(x []float64) (float64, []float64) {
		param := array.MustFromSlice(x, shape)
		value, grad := vg(param)
		return value.Float(), grad.Floats()
	}
}
