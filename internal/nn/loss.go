package nn

import (
	"github.com/tabular-ml/tabular/internal/tensor"
)

// Loss is the interface implemented by loss functions.
//
// A loss takes predictions and targets of matching shape and reduces them
// to a scalar tensor with shape [1].
type Loss[B tensor.Backend] interface {
	// Forward computes the scalar loss from predictions and targets.
	Forward(predictions, targets *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns an empty slice (loss functions have no trainable
	// parameters).
	Parameters() []*Parameter[B]
}
