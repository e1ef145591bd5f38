package autodiff_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabular-ml/tabular/internal/autodiff"
	"github.com/tabular-ml/tabular/internal/backend/cpu"
	"github.com/tabular-ml/tabular/internal/tensor"
)

func TestSquareGradient(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x, err := tensor.FromSlice([]float32{2}, tensor.Shape{1}, backend)
	require.NoError(t, err)

	// y = x * x, dy/dx = 2x = 4 (both multiplicands are the same tensor,
	// so the gradients accumulate).
	y := x.Mul(x)

	grads, err := autodiff.Backward(y, backend)
	require.NoError(t, err)

	grad, ok := grads[x.Raw()]
	require.True(t, ok, "no gradient for x")
	assert.InDelta(t, 4.0, grad.AsFloat32()[0], 1e-5)
}

func TestAddSubGradients(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	a, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)
	b, _ := tensor.FromSlice([]float32{3, 4}, tensor.Shape{2}, backend)

	// y = sum(a - b), dy/da = 1, dy/db = -1.
	y := a.Sub(b).Sum()

	grads, err := autodiff.Backward(y, backend)
	require.NoError(t, err)

	for _, g := range grads[a.Raw()].AsFloat32() {
		assert.InDelta(t, 1.0, g, 1e-5)
	}
	for _, g := range grads[b.Raw()].AsFloat32() {
		assert.InDelta(t, -1.0, g, 1e-5)
	}
}

func TestMatMulGradient(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	a, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	b, _ := tensor.FromSlice([]float32{5, 6, 7, 8}, tensor.Shape{2, 2}, backend)

	y := a.MatMul(b).Sum()

	grads, err := autodiff.Backward(y, backend)
	require.NoError(t, err)

	// dy/da = ones @ b^T: each row is [5+6, 7+8] = [11, 15].
	gradA := grads[a.Raw()].AsFloat32()
	wantA := []float32{11, 15, 11, 15}
	for i := range wantA {
		assert.InDelta(t, wantA[i], gradA[i], 1e-4)
	}

	// dy/db = a^T @ ones: rows [1+3, 1+3] and [2+4, 2+4].
	gradB := grads[b.Raw()].AsFloat32()
	wantB := []float32{4, 4, 6, 6}
	for i := range wantB {
		assert.InDelta(t, wantB[i], gradB[i], 1e-4)
	}
}

func TestBroadcastAddGradientReduces(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	a, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	bias, _ := tensor.FromSlice([]float32{10, 20, 30}, tensor.Shape{1, 3}, backend)

	y := a.Add(bias).Sum()

	grads, err := autodiff.Backward(y, backend)
	require.NoError(t, err)

	// The bias gradient must be summed over the broadcast batch dimension.
	gradBias := grads[bias.Raw()]
	require.True(t, gradBias.Shape().Equal(tensor.Shape{1, 3}),
		"bias gradient shape = %v", gradBias.Shape())
	for _, g := range gradBias.AsFloat32() {
		assert.InDelta(t, 2.0, g, 1e-5)
	}
}

func TestSigmoidGradient(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float32{0}, tensor.Shape{1}, backend)

	out := backend.Sigmoid(x.Raw())
	y := tensor.New[float32](out, backend)

	grads, err := autodiff.Backward(y, backend)
	require.NoError(t, err)

	// d sigmoid(0) = 0.5 * (1 - 0.5) = 0.25.
	assert.InDelta(t, 0.25, grads[x.Raw()].AsFloat32()[0], 1e-5)
}

func TestBCEWithLogitsForwardAndGradient(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	logits, _ := tensor.FromSlice([]float32{0}, tensor.Shape{1}, backend)
	targets, _ := tensor.FromSlice([]float32{1}, tensor.Shape{1}, backend)

	lossRaw := backend.BCEWithLogits(logits.Raw(), targets.Raw())
	loss := tensor.New[float32](lossRaw, backend)

	// BCE at logit 0 with any target is ln 2.
	assert.InDelta(t, math.Ln2, float64(loss.Item()), 1e-5)

	grads, err := autodiff.Backward(loss, backend)
	require.NoError(t, err)

	// d loss / d logit = (sigmoid(0) - 1) / 1 = -0.5.
	assert.InDelta(t, -0.5, grads[logits.Raw()].AsFloat32()[0], 1e-5)

	// Targets do not receive gradients.
	_, ok := grads[targets.Raw()]
	assert.False(t, ok, "targets should not have a gradient")
}

func TestMSEForwardAndGradient(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	preds, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)
	targets, _ := tensor.FromSlice([]float32{0, 0}, tensor.Shape{2}, backend)

	lossRaw := backend.MSE(preds.Raw(), targets.Raw())
	loss := tensor.New[float32](lossRaw, backend)

	// (1 + 4) / 2 = 2.5.
	assert.InDelta(t, 2.5, float64(loss.Item()), 1e-5)

	grads, err := autodiff.Backward(loss, backend)
	require.NoError(t, err)

	// d loss / d pred = 2 * (pred - target) / N.
	grad := grads[preds.Raw()].AsFloat32()
	assert.InDelta(t, 1.0, grad[0], 1e-5)
	assert.InDelta(t, 2.0, grad[1], 1e-5)
}

func TestRecordedInputsNotOverwritten(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	a, _ := tensor.FromSlice([]float32{10, 20}, tensor.Shape{2}, backend)
	b, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)

	// The CPU backend reuses a uniquely owned left operand in place; the
	// decorator must force an allocation so the tape's recorded input stays
	// valid for the backward pass.
	z := a.Sub(b)
	require.NotSame(t, a.Raw(), z.Raw(), "recorded input buffer was reused for the result")

	wantA := []float32{10, 20}
	for i, v := range a.Raw().AsFloat32() {
		assert.InDelta(t, wantA[i], v, 1e-6, "input a[%d] changed", i)
	}

	y := z.Sum()
	grads, err := autodiff.Backward(y, backend)
	require.NoError(t, err)
	for _, g := range grads[a.Raw()].AsFloat32() {
		assert.InDelta(t, 1.0, g, 1e-5)
	}
}

func TestBackwardWithoutTapeFails(t *testing.T) {
	backend := autodiff.New(cpu.New())

	x, _ := tensor.FromSlice([]float32{1}, tensor.Shape{1}, backend)

	_, err := autodiff.Backward(x, backend)
	assert.Error(t, err)
}

func TestTapeClear(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float32{1}, tensor.Shape{1}, backend)
	_ = x.Add(x)

	require.Greater(t, backend.Tape().NumOps(), 0)
	backend.Tape().Clear()
	assert.Equal(t, 0, backend.Tape().NumOps())
}

func TestRecordingToggle(t *testing.T) {
	backend := autodiff.New(cpu.New())

	x, _ := tensor.FromSlice([]float32{1}, tensor.Shape{1}, backend)
	_ = x.Add(x)
	assert.Equal(t, 0, backend.Tape().NumOps(), "ops recorded while not recording")

	backend.Tape().StartRecording()
	_ = x.Add(x)
	assert.Equal(t, 1, backend.Tape().NumOps())

	backend.Tape().StopRecording()
	_ = x.Add(x)
	assert.Equal(t, 1, backend.Tape().NumOps())
}
