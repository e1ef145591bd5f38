package cpu

import (
	"fmt"

	"github.com/tabular-ml/tabular/internal/tensor"
)

// Reshape returns a tensor with the same data and a new shape.
// The element count must be preserved.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if t.NumElements() != newShape.NumElements() {
		panic(fmt.Sprintf("reshape: cannot reshape %v into %v", t.Shape(), newShape))
	}

	result, err := tensor.NewRaw(newShape, t.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	copy(result.Data(), t.Data())
	return result
}

// Transpose permutes the tensor's dimensions. With no axes given, all
// dimensions are reversed (standard transpose for 2D).
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)

	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: got %d axes for %dD tensor", len(axes), ndim))
	}

	newShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		if ax < 0 || ax >= ndim {
			panic(fmt.Sprintf("transpose: axis %d out of range for %dD tensor", ax, ndim))
		}
		newShape[i] = shape[ax]
	}

	result, err := tensor.NewRaw(newShape, t.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("transpose: %v", err))
	}

	oldStrides := shape.ComputeStrides()
	newStrides := newShape.ComputeStrides()
	n := t.NumElements()

	// Map each output index back to the source index through the permutation.
	srcIndex := func(flat int) int {
		src := 0
		for dim := 0; dim < ndim; dim++ {
			coord := flat / newStrides[dim]
			flat -= coord * newStrides[dim]
			src += coord * oldStrides[axes[dim]]
		}
		return src
	}

	switch t.DType() {
	case tensor.Float32:
		in, out := t.AsFloat32(), result.AsFloat32()
		for i := 0; i < n; i++ {
			out[i] = in[srcIndex(i)]
		}
	case tensor.Float64:
		in, out := t.AsFloat64(), result.AsFloat64()
		for i := 0; i < n; i++ {
			out[i] = in[srcIndex(i)]
		}
	case tensor.Int32:
		in, out := t.AsInt32(), result.AsInt32()
		for i := 0; i < n; i++ {
			out[i] = in[srcIndex(i)]
		}
	default:
		panic(fmt.Sprintf("transpose: unsupported dtype %s", t.DType()))
	}

	return result
}
