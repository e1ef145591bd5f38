package ops

import "github.com/tabular-ml/tabular/internal/tensor"

// SumOp represents a full reduction: output = sum(x), shape [1].
type SumOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSumOp creates a new SumOp.
func NewSumOp(input, output *tensor.RawTensor) *SumOp {
	return &SumOp{input: input, output: output}
}

// Backward broadcasts the scalar output gradient to every input element.
func (op *SumOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	inputGrad, err := tensor.NewRaw(op.input.Shape(), op.input.DType(), backend.Device())
	if err != nil {
		panic(err)
	}

	switch op.input.DType() {
	case tensor.Float32:
		g := outputGrad.AsFloat32()[0]
		out := inputGrad.AsFloat32()
		for i := range out {
			out[i] = g
		}
	case tensor.Float64:
		g := outputGrad.AsFloat64()[0]
		out := inputGrad.AsFloat64()
		for i := range out {
			out[i] = g
		}
	}

	return []*tensor.RawTensor{inputGrad}
}

// Inputs returns the input tensor.
func (op *SumOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the scalar sum tensor.
func (op *SumOp) Output() *tensor.RawTensor { return op.output }
