package ops

import (
	"fmt"
	"math"

	"github.com/tabular-ml/tabular/internal/tensor"
)

// BCEWithLogitsForward computes binary cross-entropy directly on logits,
// averaged over all elements. Targets are expected in [0, 1].
//
// The max-based formulation keeps the computation stable for large
// magnitude logits:
//
//	loss(z, y) = max(z, 0) - z*y + log(1 + exp(-|z|))
//
// Returns a scalar tensor of shape [1].
func BCEWithLogitsForward(logits, targets *tensor.RawTensor, device tensor.Device) *tensor.RawTensor {
	if !logits.Shape().Equal(targets.Shape()) {
		panic(fmt.Sprintf("bce_with_logits: shape mismatch: logits %v vs targets %v",
			logits.Shape(), targets.Shape()))
	}
	if logits.DType() != tensor.Float32 || targets.DType() != tensor.Float32 {
		panic("bce_with_logits: only float32 tensors are supported")
	}

	z := logits.AsFloat32()
	y := targets.AsFloat32()

	var total float64
	for i, zi := range z {
		zf := float64(zi)
		yf := float64(y[i])
		total += math.Max(zf, 0) - zf*yf + math.Log1p(math.Exp(-math.Abs(zf)))
	}
	mean := float32(total / float64(len(z)))

	result, err := tensor.NewRaw(tensor.Shape{1}, tensor.Float32, device)
	if err != nil {
		panic(err)
	}
	result.AsFloat32()[0] = mean
	return result
}

// BCEWithLogitsBackward computes the gradient of the mean BCE-with-logits
// loss with respect to the logits: (σ(z) - y) / N.
func BCEWithLogitsBackward(logits, targets *tensor.RawTensor, device tensor.Device) *tensor.RawTensor {
	z := logits.AsFloat32()
	y := targets.AsFloat32()

	grad, err := tensor.NewRaw(logits.Shape(), tensor.Float32, device)
	if err != nil {
		panic(err)
	}

	out := grad.AsFloat32()
	n := float32(len(z))
	for i, zi := range z {
		sigma := float32(1.0 / (1.0 + math.Exp(float64(-zi))))
		out[i] = (sigma - y[i]) / n
	}
	return grad
}

// BCEWithLogitsOp records the fused binary cross-entropy loss so the
// gradient reaches the logits in one step instead of through a chain of
// sigmoid/log/mul records.
type BCEWithLogitsOp struct {
	logits  *tensor.RawTensor
	targets *tensor.RawTensor
	output  *tensor.RawTensor
}

// NewBCEWithLogitsOp creates a new BCEWithLogitsOp.
func NewBCEWithLogitsOp(logits, targets, output *tensor.RawTensor) *BCEWithLogitsOp {
	return &BCEWithLogitsOp{logits: logits, targets: targets, output: output}
}

// Backward computes the logit gradient; targets are labels and receive none.
func (op *BCEWithLogitsOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad := BCEWithLogitsBackward(op.logits, op.targets, backend.Device())

	// Scale by the incoming gradient of the scalar loss.
	if g := outputGrad.AsFloat32()[0]; g != 1 {
		grad = backend.MulScalar(grad, g)
	}

	return []*tensor.RawTensor{grad, nil}
}

// Inputs returns [logits, targets].
func (op *BCEWithLogitsOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.logits, op.targets}
}

// Output returns the scalar loss tensor.
func (op *BCEWithLogitsOp) Output() *tensor.RawTensor { return op.output }
