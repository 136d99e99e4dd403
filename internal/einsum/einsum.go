// Package einsum evaluates Einstein-summation expressions over arrays.
//
// The evaluator supports any number of operands, explicit output subscripts
// and a single ellipsis per term. Ellipsis dimensions broadcast across
// operands following the usual NumPy rules; labeled dimensions must match
// exactly. Every engine shares this evaluator so that einsum results agree
// across engines by construction.
package einsum

import (
	"fmt"
	"strings"

	"github.com/manifold-ml/manifold/internal/array"
)

// term is one parsed operand subscript: labels before and after the
// ellipsis, or all labels in pre when no ellipsis is present.
type term struct {
	pre  []rune
	post []rune
	ell  bool
}

func parseTerm(spec string) (term, error) {
	idx := strings.Index(spec, "...")
	if idx < 0 {
		if strings.Contains(spec, ".") {
			return term{}, fmt.Errorf("malformed ellipsis in %q", spec)
		}
		return term{pre: []rune(spec)}, nil
	}
	rest := spec[idx+3:]
	if strings.Contains(rest, ".") {
		return term{}, fmt.Errorf("multiple ellipses in %q", spec)
	}
	return term{pre: []rune(spec[:idx]), post: []rune(rest), ell: true}, nil
}

// labels returns all letter labels of the term in dimension order.
func (t term) labels() []rune {
	out := make([]rune, 0, len(t.pre)+len(t.post))
	out = append(out, t.pre...)
	out = append(out, t.post...)
	return out
}

// Einsum evaluates subscripts over the operands. The output subscript is
// mandatory ("lhs->rhs" form).
func Einsum(subscripts string, operands ...*array.Array) (*array.Array, error) {
	subscripts = strings.ReplaceAll(subscripts, " ", "")
	lhs, rhs, found := strings.Cut(subscripts, "->")
	if !found {
		return nil, fmt.Errorf("einsum: missing explicit output in %q", subscripts)
	}
	specs := strings.Split(lhs, ",")
	if len(specs) != len(operands) {
		return nil, fmt.Errorf("einsum: %d operand subscripts for %d operands", len(specs), len(operands))
	}

	terms := make([]term, len(specs))
	for i, spec := range specs {
		t, err := parseTerm(spec)
		if err != nil {
			return nil, fmt.Errorf("einsum: %w", err)
		}
		terms[i] = t
	}
	outTerm, err := parseTerm(rhs)
	if err != nil {
		return nil, fmt.Errorf("einsum: %w", err)
	}

	// Resolve per-operand ellipsis shapes and the broadcast batch shape.
	batch := array.Shape{}
	ellShapes := make([]array.Shape, len(operands))
	for i, op := range operands {
		t := terms[i]
		nd := len(op.Shape())
		nLabels := len(t.pre) + len(t.post)
		if !t.ell {
			if nLabels != nd {
				return nil, fmt.Errorf("einsum: subscript %q does not match operand %d with shape %v", specs[i], i, op.Shape())
			}
			ellShapes[i] = array.Shape{}
			continue
		}
		if nLabels > nd {
			return nil, fmt.Errorf("einsum: subscript %q has more labels than operand %d dimensions %v", specs[i], i, op.Shape())
		}
		ellShapes[i] = op.Shape()[len(t.pre) : nd-len(t.post)].Clone()
		merged, _, err := array.BroadcastShapes(batch, ellShapes[i])
		if err != nil {
			return nil, fmt.Errorf("einsum: incompatible ellipsis dimensions: %w", err)
		}
		batch = merged
	}

	// Collect label sizes; labeled dimensions must agree exactly.
	sizes := map[rune]int{}
	for i, op := range operands {
		t := terms[i]
		shape := op.Shape()
		for j, label := range t.pre {
			if err := noteSize(sizes, label, shape[j]); err != nil {
				return nil, err
			}
		}
		for j, label := range t.post {
			dim := shape[len(shape)-len(t.post)+j]
			if err := noteSize(sizes, label, dim); err != nil {
				return nil, err
			}
		}
	}

	outLabels := outTerm.labels()
	for _, label := range outLabels {
		if _, ok := sizes[label]; !ok {
			return nil, fmt.Errorf("einsum: output label %q does not appear in any operand", string(label))
		}
	}
	seen := map[rune]bool{}
	for _, label := range outLabels {
		if seen[label] {
			return nil, fmt.Errorf("einsum: repeated output label %q", string(label))
		}
		seen[label] = true
	}
	var sumLabels []rune
	for _, t := range terms {
		for _, label := range t.labels() {
			if !seen[label] {
				seen[label] = true
				sumLabels = append(sumLabels, label)
			}
		}
	}

	if !outTerm.ell && len(batch) > 0 {
		return nil, fmt.Errorf("einsum: operands carry ellipsis dimensions %v but output %q has no ellipsis", batch, rhs)
	}

	// Output shape: batch dims at the ellipsis position, then label dims.
	outShape := array.Shape{}
	for _, label := range outTerm.pre {
		outShape = append(outShape, sizes[label])
	}
	if outTerm.ell {
		pre := outShape.Clone()
		outShape = append(pre, batch...)
	}
	for _, label := range outTerm.post {
		outShape = append(outShape, sizes[label])
	}

	dtype := operands[0].DType()
	for _, op := range operands[1:] {
		dtype = array.Promote(dtype, op.DType())
	}
	result := array.MustNew(outShape, dtype)

	strides := make([][]int, len(operands))
	for i, op := range operands {
		strides[i] = op.Shape().ComputeStrides()
	}

	assign := map[rune]int{}
	batchIdx := make([]int, len(batch))
	outIdx := 0

	var iterOut func(outDim int)
	var iterBatchThenLabels func(batchDim int)
	var iterLabels func(labelPos int)
	var accumulate func(sumPos int) float64

	// flatIndex maps the current batch/label assignment to operand i's
	// flat buffer offset, honoring size-1 broadcast on ellipsis dims.
	flatIndex := func(i int) int {
		t := terms[i]
		shape := operands[i].Shape()
		str := strides[i]
		flat := 0
		for j, label := range t.pre {
			flat += assign[label] * str[j]
		}
		nEll := len(shape) - len(t.pre) - len(t.post)
		for j := 0; j < nEll; j++ {
			dim := len(t.pre) + j
			bi := batchIdx[len(batch)-nEll+j]
			if shape[dim] == 1 {
				bi = 0
			}
			flat += bi * str[dim]
		}
		for j, label := range t.post {
			flat += assign[label] * str[len(shape)-len(t.post)+j]
		}
		return flat
	}

	accumulate = func(sumPos int) float64 {
		if sumPos == len(sumLabels) {
			prod := 1.0
			for i, op := range operands {
				prod *= op.FloatAt(flatIndex(i))
			}
			return prod
		}
		label := sumLabels[sumPos]
		total := 0.0
		for v := 0; v < sizes[label]; v++ {
			assign[label] = v
			total += accumulate(sumPos + 1)
		}
		return total
	}

	iterLabels = func(labelPos int) {
		if labelPos == len(outLabels) {
			result.SetFloat(outIdx, accumulate(0))
			outIdx++
			return
		}
		label := outLabels[labelPos]
		for v := 0; v < sizes[label]; v++ {
			assign[label] = v
			iterLabels(labelPos + 1)
		}
	}

	iterBatchThenLabels = func(batchDim int) {
		if batchDim == len(batch) {
			iterLabels(len(outTerm.pre))
			return
		}
		for v := 0; v < batch[batchDim]; v++ {
			batchIdx[batchDim] = v
			iterBatchThenLabels(batchDim + 1)
		}
	}

	iterOut = func(outDim int) {
		if outDim == len(outTerm.pre) {
			iterBatchThenLabels(0)
			return
		}
		label := outTerm.pre[outDim]
		for v := 0; v < sizes[label]; v++ {
			assign[label] = v
			iterOut(outDim + 1)
		}
	}

	iterOut(0)
	return result, nil
}

func noteSize(sizes map[rune]int, label rune, dim int) error {
	if prev, ok := sizes[label]; ok && prev != dim {
		return fmt.Errorf("einsum: label %q bound to both %d and %d", string(label), prev, dim)
	}
	sizes[label] = dim
	return nil
}
