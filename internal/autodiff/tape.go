// Package autodiff provides reverse-mode automatic differentiation as a
// decorator around any array backend. Operations executed through the
// decorator are recorded on a gradient tape; walking the tape in reverse
// yields gradients for every array that took part in the computation.
package autodiff

import (
	"github.com/manifold-ml/manifold/internal/array"
	"github.com/manifold-ml/manifold/internal/autodiff/ops"
)

// GradientTape records operations during the forward pass and computes
// gradients during the backward pass.
//
// Usage:
//
//	tape := NewGradientTape()
//	tape.StartRecording()
//	// ... perform operations ...
//	grads := tape.Backward(output, seed, backend)
type GradientTape struct {
	operations []ops.Operation
	recording  bool
}

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return &GradientTape{
		operations: make([]ops.Operation, 0, 64),
	}
}

// StartRecording enables operation recording.
func (t *GradientTape) StartRecording() {
	t.recording = true
}

// StopRecording disables operation recording.
func (t *GradientTape) StopRecording() {
	t.recording = false
}

// IsRecording reports whether the tape is currently recording.
func (t *GradientTape) IsRecording() bool {
	return t.recording
}

// Record adds an operation to the tape when recording is enabled.
func (t *GradientTape) Record(op ops.Operation) {
	if t.recording {
		t.operations = append(t.operations, op)
	}
}

// Clear removes all recorded operations. Recording state is preserved.
func (t *GradientTape) Clear() {
	t.operations = t.operations[:0]
}

// NumOps returns the number of recorded operations.
func (t *GradientTape) NumOps() int {
	return len(t.operations)
}

// Backward walks the tape in reverse from output, whose gradient is seeded
// with seed, and returns a map from each participating array to its
// accumulated gradient. Gradients are accumulated when an array feeds
// several operations.
func (t *GradientTape) Backward(output, seed *array.Array, backend array.Backend) map[*array.Array]*array.Array {
	grads := make(map[*array.Array]*array.Array)
	if len(t.operations) == 0 {
		return grads
	}

	// Gradient operations must not land on the tape.
	wasRecording := t.recording
	t.recording = false
	defer func() { t.recording = wasRecording }()

	grads[output] = seed

	for i := len(t.operations) - 1; i >= 0; i-- {
		op := t.operations[i]
		inputGrads := t.computeInputGrads(op, grads, backend)
		if inputGrads == nil {
			continue
		}
		t.accumulateGrads(op, inputGrads, grads, backend)
	}

	return grads
}

// computeInputGrads computes gradients for an operation's inputs, or nil
// when no gradient flows to the operation.
func (t *GradientTape) computeInputGrads(
	op ops.Operation,
	grads map[*array.Array]*array.Array,
	backend array.Backend,
) []*array.Array {
	if multiOp, ok := op.(ops.MultiOutputOperation); ok {
		outputs := multiOp.Outputs()
		outputGrads := make([]*array.Array, len(outputs))
		hasAnyGrad := false
		for j, out := range outputs {
			if grad, exists := grads[out]; exists {
				outputGrads[j] = grad
				hasAnyGrad = true
			}
		}
		if !hasAnyGrad {
			return nil
		}
		return multiOp.BackwardMulti(outputGrads, backend)
	}

	outputGrad, ok := grads[op.Output()]
	if !ok {
		return nil
	}
	return op.Backward(outputGrad, backend)
}

// accumulateGrads adds the computed input gradients into the gradient map.
func (t *GradientTape) accumulateGrads(
	op ops.Operation,
	inputGrads []*array.Array,
	grads map[*array.Array]*array.Array,
	backend array.Backend,
) {
	for j, input := range op.Inputs() {
		if j >= len(inputGrads) || inputGrads[j] == nil {
			continue
		}
		if existing, ok := grads[input]; ok {
			grads[input] = backend.Add(existing, inputGrads[j])
		} else {
			grads[input] = inputGrads[j]
		}
	}
}
