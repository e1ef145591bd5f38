package ops

import (
	"fmt"

	"github.com/tabular-ml/tabular/internal/tensor"
)

// onesLike creates a tensor of ones with the same shape and dtype as t.
func onesLike(t *tensor.RawTensor, device tensor.Device) *tensor.RawTensor {
	result, err := tensor.NewRaw(t.Shape(), t.DType(), device)
	if err != nil {
		panic(err)
	}
	switch t.DType() {
	case tensor.Float32:
		data := result.AsFloat32()
		for i := range data {
			data[i] = 1.0
		}
	case tensor.Float64:
		data := result.AsFloat64()
		for i := range data {
			data[i] = 1.0
		}
	default:
		panic(fmt.Sprintf("onesLike: unsupported dtype %s", t.DType()))
	}
	return result
}

// reduceBroadcast sums a gradient over the dimensions that were broadcast
// during the forward pass, so it matches the original input shape.
//
// Example: forward broadcast [1, 5] + [3, 5] produced a [3, 5] output; the
// gradient for the [1, 5] input is the [3, 5] output gradient summed over
// rows.
func reduceBroadcast(grad *tensor.RawTensor, targetShape tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	gradShape := grad.Shape()
	if gradShape.Equal(targetShape) {
		return grad
	}

	result, err := tensor.NewRaw(targetShape, grad.DType(), backend.Device())
	if err != nil {
		panic(fmt.Sprintf("reduceBroadcast: %v", err))
	}

	gradStrides := gradShape.ComputeStrides()
	targetStrides := targetShape.ComputeStrides()
	offset := len(gradShape) - len(targetShape)
	n := gradShape.NumElements()

	// Accumulate every gradient element into the target position obtained by
	// pinning broadcast coordinates to 0.
	targetIndex := func(flat int) int {
		idx := 0
		for dim := 0; dim < len(gradShape); dim++ {
			coord := flat / gradStrides[dim]
			flat -= coord * gradStrides[dim]

			tDim := dim - offset
			if tDim < 0 || targetShape[tDim] == 1 {
				continue
			}
			idx += coord * targetStrides[tDim]
		}
		return idx
	}

	switch grad.DType() {
	case tensor.Float32:
		in, out := grad.AsFloat32(), result.AsFloat32()
		for i := 0; i < n; i++ {
			out[targetIndex(i)] += in[i]
		}
	case tensor.Float64:
		in, out := grad.AsFloat64(), result.AsFloat64()
		for i := 0; i < n; i++ {
			out[targetIndex(i)] += in[i]
		}
	default:
		panic(fmt.Sprintf("reduceBroadcast: unsupported dtype %s", grad.DType()))
	}

	return result
}
