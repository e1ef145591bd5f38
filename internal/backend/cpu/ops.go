package cpu

import (
	"fmt"

	"github.com/tabular-ml/tabular/internal/tensor"
)

// binaryKernel is a scalar combine function specialized per dtype below.
type binaryKernel struct {
	f32 func(a, b float32) float32
	f64 func(a, b float64) float64
	i32 func(a, b int32) int32
}

var addKernel = binaryKernel{
	f32: func(a, b float32) float32 { return a + b },
	f64: func(a, b float64) float64 { return a + b },
	i32: func(a, b int32) int32 { return a + b },
}

var subKernel = binaryKernel{
	f32: func(a, b float32) float32 { return a - b },
	f64: func(a, b float64) float64 { return a - b },
	i32: func(a, b int32) int32 { return a - b },
}

var mulKernel = binaryKernel{
	f32: func(a, b float32) float32 { return a * b },
	f64: func(a, b float64) float64 { return a * b },
	i32: func(a, b int32) int32 { return a * b },
}

var divKernel = binaryKernel{
	f32: func(a, b float32) float32 { return a / b },
	f64: func(a, b float64) float64 { return a / b },
	i32: func(a, b int32) int32 { return a / b },
}

// applyInplace runs the kernel over same-shape operands, writing the result
// into a's buffer.
func applyInplace(name string, a, b *tensor.RawTensor, kernel binaryKernel) {
	applyVectorized(name, a, a, b, kernel)
}

// applyVectorized runs the kernel over same-shape operands.
func applyVectorized(name string, result, a, b *tensor.RawTensor, kernel binaryKernel) {
	switch a.DType() {
	case tensor.Float32:
		av, bv, out := a.AsFloat32(), b.AsFloat32(), result.AsFloat32()
		for i := range out {
			out[i] = kernel.f32(av[i], bv[i])
		}
	case tensor.Float64:
		av, bv, out := a.AsFloat64(), b.AsFloat64(), result.AsFloat64()
		for i := range out {
			out[i] = kernel.f64(av[i], bv[i])
		}
	case tensor.Int32:
		av, bv, out := a.AsInt32(), b.AsInt32(), result.AsInt32()
		for i := range out {
			out[i] = kernel.i32(av[i], bv[i])
		}
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, a.DType()))
	}
}

// applyBroadcast runs the kernel over broadcast operands by mapping every
// output index back to the source indices.
func applyBroadcast(name string, result, a, b *tensor.RawTensor, outShape tensor.Shape, kernel binaryKernel) {
	outStrides := outShape.ComputeStrides()
	aIdx := broadcastIndexer(a.Shape(), outShape)
	bIdx := broadcastIndexer(b.Shape(), outShape)
	n := outShape.NumElements()

	switch a.DType() {
	case tensor.Float32:
		av, bv, out := a.AsFloat32(), b.AsFloat32(), result.AsFloat32()
		for i := 0; i < n; i++ {
			out[i] = kernel.f32(av[aIdx(i, outStrides)], bv[bIdx(i, outStrides)])
		}
	case tensor.Float64:
		av, bv, out := a.AsFloat64(), b.AsFloat64(), result.AsFloat64()
		for i := 0; i < n; i++ {
			out[i] = kernel.f64(av[aIdx(i, outStrides)], bv[bIdx(i, outStrides)])
		}
	case tensor.Int32:
		av, bv, out := a.AsInt32(), b.AsInt32(), result.AsInt32()
		for i := 0; i < n; i++ {
			out[i] = kernel.i32(av[aIdx(i, outStrides)], bv[bIdx(i, outStrides)])
		}
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, a.DType()))
	}
}

// broadcastIndexer returns a function translating a flat output index into a
// flat index of the (possibly smaller) source shape.
func broadcastIndexer(srcShape, outShape tensor.Shape) func(flat int, outStrides []int) int {
	srcStrides := srcShape.ComputeStrides()
	offset := len(outShape) - len(srcShape)

	return func(flat int, outStrides []int) int {
		srcFlat := 0
		for dim := 0; dim < len(outShape); dim++ {
			coord := flat / outStrides[dim]
			flat -= coord * outStrides[dim]

			srcDim := dim - offset
			if srcDim < 0 {
				continue
			}
			if srcShape[srcDim] == 1 {
				continue // broadcast dimension, coordinate pinned to 0
			}
			srcFlat += coord * srcStrides[srcDim]
		}
		return srcFlat
	}
}
