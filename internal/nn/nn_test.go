package nn_test

import (
	"math"
	"testing"

	"github.com/tabular-ml/tabular/internal/autodiff"
	"github.com/tabular-ml/tabular/internal/backend/cpu"
	"github.com/tabular-ml/tabular/internal/nn"
	"github.com/tabular-ml/tabular/internal/tensor"
)

// Helper to check if values are approximately equal.
//
//nolint:unparam // epsilon is always 1e-4 in tests, but keeping it as parameter for flexibility
func floatEqual(a, b, epsilon float32) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < epsilon
}

func TestParameter(t *testing.T) {
	backend := autodiff.New(cpu.New())

	data, _ := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3}, backend)
	param := nn.NewParameter("test_param", data)

	if param.Name() != "test_param" {
		t.Errorf("Name() = %s, want test_param", param.Name())
	}
	if param.Tensor() != data {
		t.Error("Tensor() should return the original tensor")
	}
	if param.Grad() != nil {
		t.Error("Grad() should initially be nil")
	}

	grad, _ := tensor.FromSlice([]float32{0.1, 0.2, 0.3}, tensor.Shape{3}, backend)
	param.SetGrad(grad)
	if param.Grad() != grad {
		t.Error("SetGrad() should set the gradient")
	}

	param.ZeroGrad()
	if param.Grad() != nil {
		t.Error("ZeroGrad() should clear the gradient")
	}
}

func TestLinearCreation(t *testing.T) {
	backend := autodiff.New(cpu.New())

	layer := nn.NewLinear(10, 5, backend)

	if layer.InFeatures() != 10 {
		t.Errorf("InFeatures() = %d, want 10", layer.InFeatures())
	}
	if layer.OutFeatures() != 5 {
		t.Errorf("OutFeatures() = %d, want 5", layer.OutFeatures())
	}

	weight := layer.Weight().Tensor()
	if !weight.Shape().Equal(tensor.Shape{5, 10}) {
		t.Errorf("Weight shape = %v, want [5 10]", weight.Shape())
	}
	bias := layer.Bias().Tensor()
	if !bias.Shape().Equal(tensor.Shape{5}) {
		t.Errorf("Bias shape = %v, want [5]", bias.Shape())
	}

	params := layer.Parameters()
	if len(params) != 2 {
		t.Errorf("Parameters() returned %d parameters, want 2", len(params))
	}
}

func TestLinearForward(t *testing.T) {
	backend := autodiff.New(cpu.New())

	layer := nn.NewLinear(2, 1, backend)

	// Fix weights and bias for a deterministic check.
	copy(layer.Weight().Tensor().Raw().AsFloat32(), []float32{0.5, -0.5})
	copy(layer.Bias().Tensor().Raw().AsFloat32(), []float32{1.0})

	input, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	output := layer.Forward(input)

	if !output.Shape().Equal(tensor.Shape{2, 1}) {
		t.Fatalf("Output shape = %v, want [2 1]", output.Shape())
	}

	// Row 0: 1*0.5 + 2*(-0.5) + 1 = 0.5
	// Row 1: 3*0.5 + 4*(-0.5) + 1 = 0.5
	for i, v := range output.Data() {
		if !floatEqual(v, 0.5, 1e-4) {
			t.Errorf("output[%d] = %v, want 0.5", i, v)
		}
	}
}

func TestLinearForwardBadShapePanics(t *testing.T) {
	backend := autodiff.New(cpu.New())
	layer := nn.NewLinear(3, 1, backend)

	input, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{1, 2}, backend)

	defer func() {
		if recover() == nil {
			t.Error("expected panic for feature count mismatch")
		}
	}()
	layer.Forward(input)
}

func TestSequential(t *testing.T) {
	backend := autodiff.New(cpu.New())

	model := nn.NewSequential(
		nn.Module[*autodiff.AutodiffBackend[*cpu.CPUBackend]](nn.NewLinear(4, 3, backend)),
		nn.NewReLU[*autodiff.AutodiffBackend[*cpu.CPUBackend]](),
		nn.NewLinear(3, 2, backend),
	)

	if model.Len() != 3 {
		t.Errorf("Len() = %d, want 3", model.Len())
	}
	// Two Linear layers, two parameters each.
	if got := len(model.Parameters()); got != 4 {
		t.Errorf("Parameters() returned %d, want 4", got)
	}

	input := tensor.Randn[float32](tensor.Shape{5, 4}, backend)
	output := model.Forward(input)
	if !output.Shape().Equal(tensor.Shape{5, 2}) {
		t.Errorf("Output shape = %v, want [5 2]", output.Shape())
	}
}

func TestReLUForward(t *testing.T) {
	backend := autodiff.New(cpu.New())
	relu := nn.NewReLU[*autodiff.AutodiffBackend[*cpu.CPUBackend]]()

	input, _ := tensor.FromSlice([]float32{-2, 0, 3}, tensor.Shape{3}, backend)
	output := relu.Forward(input)

	want := []float32{0, 0, 3}
	for i, v := range output.Data() {
		if v != want[i] {
			t.Errorf("output[%d] = %v, want %v", i, v, want[i])
		}
	}
	if relu.Parameters() != nil {
		t.Error("ReLU should have no parameters")
	}
}

func TestSigmoidForward(t *testing.T) {
	backend := autodiff.New(cpu.New())
	sigmoid := nn.NewSigmoid[*autodiff.AutodiffBackend[*cpu.CPUBackend]]()

	input, _ := tensor.FromSlice([]float32{0}, tensor.Shape{1}, backend)
	output := sigmoid.Forward(input)

	if !floatEqual(output.Data()[0], 0.5, 1e-5) {
		t.Errorf("Sigmoid(0) = %v, want 0.5", output.Data()[0])
	}
}

func TestBCEWithLogitsLossKnownValues(t *testing.T) {
	backend := cpu.New()
	bce := nn.NewBCEWithLogitsLoss(backend)

	// Logit 0 gives ln 2 regardless of target.
	logits, _ := tensor.FromSlice([]float32{0, 0}, tensor.Shape{2, 1}, backend)
	targets, _ := tensor.FromSlice([]float32{0, 1}, tensor.Shape{2, 1}, backend)

	loss := bce.Forward(logits, targets)
	if !loss.Shape().Equal(tensor.Shape{1}) {
		t.Fatalf("Loss shape = %v, want [1]", loss.Shape())
	}
	if !floatEqual(loss.Item(), float32(math.Ln2), 1e-5) {
		t.Errorf("Loss = %v, want ln 2", loss.Item())
	}
}

func TestBCEWithLogitsLossLargeLogitsStable(t *testing.T) {
	backend := cpu.New()
	bce := nn.NewBCEWithLogitsLoss(backend)

	// Large magnitudes must not overflow to Inf or NaN.
	logits, _ := tensor.FromSlice([]float32{100, -100}, tensor.Shape{2}, backend)
	targets, _ := tensor.FromSlice([]float32{1, 0}, tensor.Shape{2}, backend)

	loss := bce.Forward(logits, targets).Item()
	if math.IsNaN(float64(loss)) || math.IsInf(float64(loss), 0) {
		t.Fatalf("Loss = %v for large logits", loss)
	}
	// Confident correct predictions give a loss near zero.
	if loss > 1e-3 {
		t.Errorf("Loss = %v, want near 0", loss)
	}
}

func TestBCEWithLogitsLossShapeMismatchPanics(t *testing.T) {
	backend := cpu.New()
	bce := nn.NewBCEWithLogitsLoss(backend)

	logits, _ := tensor.FromSlice([]float32{0, 0}, tensor.Shape{2}, backend)
	targets, _ := tensor.FromSlice([]float32{1}, tensor.Shape{1}, backend)

	defer func() {
		if recover() == nil {
			t.Error("expected panic for shape mismatch")
		}
	}()
	bce.Forward(logits, targets)
}

func TestMSELossKnownValues(t *testing.T) {
	backend := cpu.New()
	mse := nn.NewMSELoss(backend)

	preds, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2, 1}, backend)
	targets, _ := tensor.FromSlice([]float32{0, 0}, tensor.Shape{2, 1}, backend)

	loss := mse.Forward(preds, targets)
	if !floatEqual(loss.Item(), 2.5, 1e-5) {
		t.Errorf("Loss = %v, want 2.5", loss.Item())
	}
}

func TestLossFusedPathMatchesManual(t *testing.T) {
	// The autodiff backend takes the fused kernel path; the bare CPU
	// backend computes manually. Both must agree.
	adBackend := autodiff.New(cpu.New())
	cpuBackend := cpu.New()

	logitData := []float32{0.3, -1.2, 2.5}
	targetData := []float32{1, 0, 1}

	adLogits, _ := tensor.FromSlice(logitData, tensor.Shape{3}, adBackend)
	adTargets, _ := tensor.FromSlice(targetData, tensor.Shape{3}, adBackend)
	cpuLogits, _ := tensor.FromSlice(logitData, tensor.Shape{3}, cpuBackend)
	cpuTargets, _ := tensor.FromSlice(targetData, tensor.Shape{3}, cpuBackend)

	fused := nn.NewBCEWithLogitsLoss(adBackend).Forward(adLogits, adTargets).Item()
	manual := nn.NewBCEWithLogitsLoss(cpuBackend).Forward(cpuLogits, cpuTargets).Item()

	if !floatEqual(fused, manual, 1e-5) {
		t.Errorf("fused loss = %v, manual loss = %v", fused, manual)
	}
}
