// Package ops defines the differentiable operations recorded on the
// gradient tape. Each operation stores its inputs and output during the
// forward pass and computes input gradients from the output gradient
// during the backward pass.
package ops

import "github.com/manifold-ml/manifold/internal/array"

// Operation is one node of the recorded computation.
type Operation interface {
	// Backward computes gradients for the inputs given the output
	// gradient, in input order.
	Backward(outputGrad *array.Array, b array.Backend) []*array.Array

	// Inputs returns the operation's input arrays.
	Inputs() []*array.Array

	// Output returns the array produced by the operation.
	Output() *array.Array
}

// MultiOutputOperation is an operation producing several outputs (Split).
// The tape collects gradients for all outputs before calling BackwardMulti.
type MultiOutputOperation interface {
	Operation

	// Outputs returns all arrays produced by the operation.
	Outputs() []*array.Array

	// BackwardMulti computes input gradients given gradients for every
	// output.
	BackwardMulti(outputGrads []*array.Array, b array.Backend) []*array.Array
}
