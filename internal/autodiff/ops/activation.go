package ops

import "github.com/tabular-ml/tabular/internal/tensor"

// ReLUOp represents the rectified linear unit: output = max(0, x).
type ReLUOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewReLUOp creates a new ReLU operation.
func NewReLUOp(input, output *tensor.RawTensor) *ReLUOp {
	return &ReLUOp{input: input, output: output}
}

// Backward passes the gradient through where the input was positive.
// d(ReLU(x))/dx = 1 if x > 0, else 0.
func (op *ReLUOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	inputGrad, err := tensor.NewRaw(op.input.Shape(), op.input.DType(), backend.Device())
	if err != nil {
		panic(err)
	}

	switch op.input.DType() {
	case tensor.Float32:
		in, grad, out := op.input.AsFloat32(), outputGrad.AsFloat32(), inputGrad.AsFloat32()
		for i, v := range in {
			if v > 0 {
				out[i] = grad[i]
			}
		}
	case tensor.Float64:
		in, grad, out := op.input.AsFloat64(), outputGrad.AsFloat64(), inputGrad.AsFloat64()
		for i, v := range in {
			if v > 0 {
				out[i] = grad[i]
			}
		}
	}

	return []*tensor.RawTensor{inputGrad}
}

// Inputs returns the input tensor.
func (op *ReLUOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *ReLUOp) Output() *tensor.RawTensor { return op.output }

// SigmoidOp represents the logistic activation: σ(x) = 1 / (1 + exp(-x)).
type SigmoidOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSigmoidOp creates a new sigmoid operation.
func NewSigmoidOp(input, output *tensor.RawTensor) *SigmoidOp {
	return &SigmoidOp{input: input, output: output}
}

// Backward computes the gradient for sigmoid using the saved output:
// dσ/dx = σ(x) * (1 - σ(x)).
func (op *SigmoidOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	ones := onesLike(op.output, backend.Device())
	oneMinus := backend.Sub(ones, op.output)
	derivative := backend.Mul(op.output, oneMinus)
	inputGrad := backend.Mul(outputGrad, derivative)
	return []*tensor.RawTensor{inputGrad}
}

// Inputs returns the input tensor.
func (op *SigmoidOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *SigmoidOp) Output() *tensor.RawTensor { return op.output }
