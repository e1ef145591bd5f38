// Package ops defines operation records for automatic differentiation.
//
// Each operation captures the tensors involved in a forward computation and
// knows how to turn the gradient of its output into gradients of its inputs:
//   - AddOp/SubOp: gradient flows through, reduced over broadcast dims
//   - MulOp/DivOp: product/quotient rules
//   - MatMulOp: d(A@B)/dA = grad@B^T, d(A@B)/dB = A^T@grad
//   - TransposeOp/ReshapeOp: gradient permuted/reshaped back
//   - SigmoidOp/ReLUOp: activation derivatives
//   - BCEWithLogitsOp/MSEOp: fused loss gradients
package ops

import "github.com/tabular-ml/tabular/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
// Operations are recorded during the forward pass and replayed in reverse
// during backpropagation.
type Operation interface {
	// Backward computes gradients for inputs given the output gradient.
	// Returns a slice of gradients corresponding to each input tensor.
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the input tensors for this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}
