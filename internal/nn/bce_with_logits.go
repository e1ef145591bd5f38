package nn

import (
	"math"

	"github.com/tabular-ml/tabular/internal/tensor"
)

// BCEWithLogitsBackend is an interface for backends with a fused binary
// cross-entropy kernel.
//
// Backends implementing this interface (e.g., autodiff backend) provide a
// gradient-aware implementation with a closed-form backward pass.
type BCEWithLogitsBackend interface {
	BCEWithLogits(logits, targets *tensor.RawTensor) *tensor.RawTensor
}

// BCEWithLogitsLoss computes binary cross-entropy on raw logits.
//
// Loss = mean(max(z, 0) - z*y + log(1 + exp(-|z|)))
//
// Combining the sigmoid and the cross-entropy in one expression avoids the
// overflow that computing log(sigmoid(z)) directly would hit for large
// negative logits. Targets are expected in {0, 1} but any value in [0, 1]
// works (soft labels).
//
// Example:
//
//	bce := nn.NewBCEWithLogitsLoss(backend)
//	logits := model.Forward(input)
//	loss := bce.Forward(logits, targets)
type BCEWithLogitsLoss[B tensor.Backend] struct {
	backend B
}

// NewBCEWithLogitsLoss creates a new binary cross-entropy loss on logits.
func NewBCEWithLogitsLoss[B tensor.Backend](backend B) *BCEWithLogitsLoss[B] {
	return &BCEWithLogitsLoss[B]{
		backend: backend,
	}
}

// Forward computes the BCE loss.
//
// Parameters:
//   - logits: raw model outputs (pre-sigmoid) with shape [batch_size, 1] or [batch_size]
//   - targets: labels in [0, 1] with the same shape as logits
//
// Returns a scalar loss value with shape [1].
func (l *BCEWithLogitsLoss[B]) Forward(logits, targets *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if !logits.Shape().Equal(targets.Shape()) {
		panic("BCEWithLogitsLoss: logits and targets must have the same shape")
	}

	// Fused gradient-aware path when the backend provides it.
	if bceBackend, ok := any(l.backend).(BCEWithLogitsBackend); ok {
		lossRaw := bceBackend.BCEWithLogits(logits.Raw(), targets.Raw())
		return tensor.New[float32, B](lossRaw, l.backend)
	}

	// Manual computation, numerically stable form.
	z := logits.Raw().AsFloat32()
	y := targets.Raw().AsFloat32()

	var sum float64
	for i := range z {
		zi := float64(z[i])
		yi := float64(y[i])
		sum += math.Max(zi, 0) - zi*yi + math.Log1p(math.Exp(-math.Abs(zi)))
	}
	mean := float32(sum / float64(len(z)))

	lossRaw, err := tensor.NewRaw(tensor.Shape{1}, tensor.Float32, l.backend.Device())
	if err != nil {
		panic(err)
	}
	lossRaw.AsFloat32()[0] = mean

	return tensor.New[float32, B](lossRaw, l.backend)
}

// Parameters returns an empty slice (loss functions have no trainable parameters).
func (l *BCEWithLogitsLoss[B]) Parameters() []*Parameter[B] {
	return nil
}
