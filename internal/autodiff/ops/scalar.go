package ops

import "github.com/tabular-ml/tabular/internal/tensor"

// ScalarOp represents an element-wise operation with a constant scalar:
// x + s, x - s, x * s, or x / s. The scalar is a constant, so only the
// tensor input receives a gradient.
type ScalarOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
	// gradScale multiplies the output gradient to produce the input gradient:
	// 1 for add/sub, s for mul, 1/s for div.
	gradScale float64
}

// NewAddScalarOp records x + s.
func NewAddScalarOp(input, output *tensor.RawTensor) *ScalarOp {
	return &ScalarOp{input: input, output: output, gradScale: 1}
}

// NewSubScalarOp records x - s.
func NewSubScalarOp(input, output *tensor.RawTensor) *ScalarOp {
	return &ScalarOp{input: input, output: output, gradScale: 1}
}

// NewMulScalarOp records x * s.
func NewMulScalarOp(input, output *tensor.RawTensor, s float64) *ScalarOp {
	return &ScalarOp{input: input, output: output, gradScale: s}
}

// NewDivScalarOp records x / s.
func NewDivScalarOp(input, output *tensor.RawTensor, s float64) *ScalarOp {
	return &ScalarOp{input: input, output: output, gradScale: 1 / s}
}

// Backward scales the output gradient by the recorded factor.
func (op *ScalarOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	if op.gradScale == 1 {
		return []*tensor.RawTensor{outputGrad}
	}
	return []*tensor.RawTensor{backend.MulScalar(outputGrad, op.gradScale)}
}

// Inputs returns the tensor input.
func (op *ScalarOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *ScalarOp) Output() *tensor.RawTensor { return op.output }
