package nn

import (
	"github.com/tabular-ml/tabular/internal/tensor"
)

// MSEBackend is an interface for backends with a fused mean squared error
// kernel with a closed-form backward pass.
type MSEBackend interface {
	MSE(predictions, targets *tensor.RawTensor) *tensor.RawTensor
}

// MSELoss computes Mean Squared Error loss.
//
// Loss = mean((predictions - targets)²)
//
// MSE is the standard loss for regression tasks where the goal is to
// predict continuous values.
//
// Example:
//
//	mse := nn.NewMSELoss(backend)
//	predictions := model.Forward(input)
//	loss := mse.Forward(predictions, targets)
type MSELoss[B tensor.Backend] struct {
	backend B
}

// NewMSELoss creates a new MSE loss function.
func NewMSELoss[B tensor.Backend](backend B) *MSELoss[B] {
	return &MSELoss[B]{
		backend: backend,
	}
}

// Forward computes the MSE loss.
//
// Parameters:
//   - predictions: model predictions with shape [batch_size, ...]
//   - targets: ground truth targets with same shape as predictions
//
// Returns a scalar loss value with shape [1].
func (m *MSELoss[B]) Forward(predictions, targets *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if !predictions.Shape().Equal(targets.Shape()) {
		panic("MSELoss: predictions and targets must have the same shape")
	}

	// Fused gradient-aware path when the backend provides it.
	if mseBackend, ok := any(m.backend).(MSEBackend); ok {
		lossRaw := mseBackend.MSE(predictions.Raw(), targets.Raw())
		return tensor.New[float32, B](lossRaw, m.backend)
	}

	p := predictions.Raw().AsFloat32()
	t := targets.Raw().AsFloat32()

	var sum float64
	for i := range p {
		d := float64(p[i] - t[i])
		sum += d * d
	}
	mean := float32(sum / float64(len(p)))

	lossRaw, err := tensor.NewRaw(tensor.Shape{1}, tensor.Float32, m.backend.Device())
	if err != nil {
		panic(err)
	}
	lossRaw.AsFloat32()[0] = mean

	return tensor.New[float32, B](lossRaw, m.backend)
}

// Parameters returns an empty slice (loss functions have no trainable parameters).
func (m *MSELoss[B]) Parameters() []*Parameter[B] {
	return nil
}
