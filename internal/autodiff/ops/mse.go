package ops

import (
	"fmt"

	"github.com/tabular-ml/tabular/internal/tensor"
)

// MSEForward computes mean squared error over all elements:
// mean((predictions - targets)²). Returns a scalar tensor of shape [1].
func MSEForward(predictions, targets *tensor.RawTensor, device tensor.Device) *tensor.RawTensor {
	if !predictions.Shape().Equal(targets.Shape()) {
		panic(fmt.Sprintf("mse: shape mismatch: predictions %v vs targets %v",
			predictions.Shape(), targets.Shape()))
	}
	if predictions.DType() != tensor.Float32 || targets.DType() != tensor.Float32 {
		panic("mse: only float32 tensors are supported")
	}

	p := predictions.AsFloat32()
	t := targets.AsFloat32()

	var total float64
	for i, pi := range p {
		diff := float64(pi - t[i])
		total += diff * diff
	}
	mean := float32(total / float64(len(p)))

	result, err := tensor.NewRaw(tensor.Shape{1}, tensor.Float32, device)
	if err != nil {
		panic(err)
	}
	result.AsFloat32()[0] = mean
	return result
}

// MSEBackward computes the gradient of the mean squared error with respect
// to the predictions: 2 * (predictions - targets) / N.
func MSEBackward(predictions, targets *tensor.RawTensor, device tensor.Device) *tensor.RawTensor {
	p := predictions.AsFloat32()
	t := targets.AsFloat32()

	grad, err := tensor.NewRaw(predictions.Shape(), tensor.Float32, device)
	if err != nil {
		panic(err)
	}

	out := grad.AsFloat32()
	n := float32(len(p))
	for i, pi := range p {
		out[i] = 2 * (pi - t[i]) / n
	}
	return grad
}

// MSEOp records the fused mean-squared-error loss.
type MSEOp struct {
	predictions *tensor.RawTensor
	targets     *tensor.RawTensor
	output      *tensor.RawTensor
}

// NewMSEOp creates a new MSEOp.
func NewMSEOp(predictions, targets, output *tensor.RawTensor) *MSEOp {
	return &MSEOp{predictions: predictions, targets: targets, output: output}
}

// Backward computes the prediction gradient; targets receive none.
func (op *MSEOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad := MSEBackward(op.predictions, op.targets, backend.Device())

	if g := outputGrad.AsFloat32()[0]; g != 1 {
		grad = backend.MulScalar(grad, g)
	}

	return []*tensor.RawTensor{grad, nil}
}

// Inputs returns [predictions, targets].
func (op *MSEOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.predictions, op.targets}
}

// Output returns the scalar loss tensor.
func (op *MSEOp) Output() *tensor.RawTensor { return op.output }
