package autodiff

import (
	"fmt"

	"github.com/tabular-ml/tabular/internal/tensor"
)

// BackwardCapable is satisfied by backends that can compute gradients.
// Training code depends on this interface rather than on the concrete
// AutodiffBackend type.
type BackwardCapable interface {
	tensor.Backend
	GetTape() *GradientTape
}

// GetTape implements BackwardCapable.
func (b *AutodiffBackend[B]) GetTape() *GradientTape {
	return b.tape
}

// Backward computes gradients of the given loss with respect to every
// tensor on the tape, seeding the loss gradient with ones. Returns a map
// keyed by raw tensor.
func Backward[T tensor.DType, B tensor.Backend](loss *tensor.Tensor[T, B], backend tensor.Backend) (map[*tensor.RawTensor]*tensor.RawTensor, error) {
	capable, ok := backend.(BackwardCapable)
	if !ok {
		return nil, fmt.Errorf("backend %s does not support automatic differentiation", backend.Name())
	}

	tape := capable.GetTape()
	if tape.NumOps() == 0 {
		return nil, fmt.Errorf("gradient tape is empty, nothing to differentiate")
	}

	seed, err := tensor.NewRaw(loss.Shape(), loss.Raw().DType(), loss.Raw().Device())
	if err != nil {
		return nil, fmt.Errorf("allocating seed gradient: %w", err)
	}
	switch seed.DType() {
	case tensor.Float32:
		data := seed.AsFloat32()
		for i := range data {
			data[i] = 1.0
		}
	case tensor.Float64:
		data := seed.AsFloat64()
		for i := range data {
			data[i] = 1.0
		}
	default:
		return nil, fmt.Errorf("cannot differentiate %s tensor", seed.DType())
	}

	return tape.Backward(seed, backend), nil
}
