package tensor_test

import (
	"testing"

	"github.com/tabular-ml/tabular/internal/backend/cpu"
	"github.com/tabular-ml/tabular/internal/tensor"
)

func TestFromSlice(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}

	if !x.Shape().Equal(tensor.Shape{2, 3}) {
		t.Errorf("Shape = %v, want [2 3]", x.Shape())
	}
	if x.DType() != tensor.Float32 {
		t.Errorf("DType = %v, want Float32", x.DType())
	}
	if got := x.At(1, 2); got != 6 {
		t.Errorf("At(1, 2) = %v, want 6", got)
	}
}

func TestFromSliceSizeMismatch(t *testing.T) {
	backend := cpu.New()

	_, err := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{2, 3}, backend)
	if err == nil {
		t.Fatal("expected error for mismatched data length")
	}
}

func TestCreationHelpers(t *testing.T) {
	backend := cpu.New()

	zeros := tensor.Zeros[float32](tensor.Shape{2, 2}, backend)
	for _, v := range zeros.Data() {
		if v != 0 {
			t.Fatalf("Zeros contains %v", v)
		}
	}

	ones := tensor.Ones[float32](tensor.Shape{2, 2}, backend)
	for _, v := range ones.Data() {
		if v != 1 {
			t.Fatalf("Ones contains %v", v)
		}
	}

	full := tensor.Full[float32](tensor.Shape{3}, 2.5, backend)
	for _, v := range full.Data() {
		if v != 2.5 {
			t.Fatalf("Full contains %v", v)
		}
	}
}

func TestItem(t *testing.T) {
	backend := cpu.New()

	x, _ := tensor.FromSlice([]float32{42}, tensor.Shape{1}, backend)
	if got := x.Item(); got != 42 {
		t.Errorf("Item() = %v, want 42", got)
	}
}

func TestSetAt(t *testing.T) {
	backend := cpu.New()

	x := tensor.Zeros[float32](tensor.Shape{2, 2}, backend)
	x.Set(3.5, 1, 0)
	if got := x.At(1, 0); got != 3.5 {
		t.Errorf("At(1, 0) = %v after Set, want 3.5", got)
	}
}

func TestElementwiseOps(t *testing.T) {
	backend := cpu.New()

	a, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	b, _ := tensor.FromSlice([]float32{5, 6, 7, 8}, tensor.Shape{2, 2}, backend)

	sum := a.Add(b)
	wantSum := []float32{6, 8, 10, 12}
	for i, v := range sum.Data() {
		if v != wantSum[i] {
			t.Errorf("Add result[%d] = %v, want %v", i, v, wantSum[i])
		}
	}

	// Same-shape ops may reuse the left operand's buffer, so fresh operands
	// for the next op.
	c, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	prod := c.Mul(b)
	wantProd := []float32{5, 12, 21, 32}
	for i, v := range prod.Data() {
		if v != wantProd[i] {
			t.Errorf("Mul result[%d] = %v, want %v", i, v, wantProd[i])
		}
	}
}

func TestReductions(t *testing.T) {
	backend := cpu.New()

	a, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)

	total := a.Sum()
	if got := total.Item(); got != 21 {
		t.Errorf("Sum = %v, want 21", got)
	}

	rowSums := a.SumDim(-1, true)
	if !rowSums.Shape().Equal(tensor.Shape{2, 1}) {
		t.Fatalf("SumDim shape = %v, want [2 1]", rowSums.Shape())
	}
	if got := rowSums.Data(); got[0] != 6 || got[1] != 15 {
		t.Errorf("SumDim = %v, want [6 15]", got)
	}

	colMeans := a.MeanDim(0, false)
	if !colMeans.Shape().Equal(tensor.Shape{3}) {
		t.Fatalf("MeanDim shape = %v, want [3]", colMeans.Shape())
	}
	if got := colMeans.Data(); got[0] != 2.5 || got[1] != 3.5 || got[2] != 4.5 {
		t.Errorf("MeanDim = %v, want [2.5 3.5 4.5]", got)
	}
}

func TestScalarOps(t *testing.T) {
	backend := cpu.New()

	a, _ := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3}, backend)

	doubled := a.MulScalar(2)
	want := []float32{2, 4, 6}
	for i, v := range doubled.Data() {
		if v != want[i] {
			t.Errorf("MulScalar result[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestTranspose2D(t *testing.T) {
	backend := cpu.New()

	a, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	at := a.T()

	if !at.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("Transposed shape = %v, want [3 2]", at.Shape())
	}
	if got := at.At(2, 1); got != 6 {
		t.Errorf("At(2, 1) of transpose = %v, want 6", got)
	}
}
