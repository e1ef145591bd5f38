package metrics

import (
	"github.com/tabular-ml/tabular/internal/tensor"
)

// MeanSquaredError is the average squared difference between predictions
// and targets.
type MeanSquaredError[B tensor.Backend] struct{}

// NewMeanSquaredError creates a new MSE metric.
func NewMeanSquaredError[B tensor.Backend]() *MeanSquaredError[B] {
	return &MeanSquaredError[B]{}
}

// Name returns "mean_squared_error".
func (m *MeanSquaredError[B]) Name() string { return "mean_squared_error" }

// Compute returns mean((predictions - targets)²).
func (m *MeanSquaredError[B]) Compute(predictions, targets *tensor.Tensor[float32, B]) float32 {
	preds := predictions.Raw().AsFloat32()
	labels := targets.Raw().AsFloat32()
	if len(preds) != len(labels) {
		panic("metrics: predictions and targets must have the same number of elements")
	}
	if len(preds) == 0 {
		return 0
	}

	var sum float64
	for i := range preds {
		d := float64(preds[i] - labels[i])
		sum += d * d
	}
	return float32(sum / float64(len(preds)))
}
