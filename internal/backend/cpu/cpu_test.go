package cpu_test

import (
	"math"
	"testing"

	"github.com/tabular-ml/tabular/internal/backend/cpu"
	"github.com/tabular-ml/tabular/internal/tensor"
)

func floatEqual(a, b, epsilon float32) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < epsilon
}

func rawFromSlice(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	copy(raw.AsFloat32(), data)
	return raw
}

func TestAddBroadcast(t *testing.T) {
	backend := cpu.New()

	a := rawFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := rawFromSlice(t, []float32{10, 20, 30}, tensor.Shape{1, 3})

	result := backend.Add(a, b)
	want := []float32{11, 22, 33, 14, 25, 36}
	for i, v := range result.AsFloat32() {
		if v != want[i] {
			t.Errorf("result[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestSubDivElementwise(t *testing.T) {
	backend := cpu.New()

	a := rawFromSlice(t, []float32{10, 20, 30}, tensor.Shape{3})
	b := rawFromSlice(t, []float32{2, 4, 5}, tensor.Shape{3})

	diff := backend.Sub(a, b)
	wantDiff := []float32{8, 16, 25}
	for i, v := range diff.AsFloat32() {
		if v != wantDiff[i] {
			t.Errorf("Sub result[%d] = %v, want %v", i, v, wantDiff[i])
		}
	}

	// Fresh operands: same-shape ops may update the left operand in place.
	c := rawFromSlice(t, []float32{10, 20, 30}, tensor.Shape{3})
	quot := backend.Div(c, b)
	wantQuot := []float32{5, 5, 6}
	for i, v := range quot.AsFloat32() {
		if v != wantQuot[i] {
			t.Errorf("Div result[%d] = %v, want %v", i, v, wantQuot[i])
		}
	}
}

func TestBinaryOpInplaceUniqueBuffer(t *testing.T) {
	backend := cpu.New()

	a := rawFromSlice(t, []float32{1, 2, 3}, tensor.Shape{3})
	b := rawFromSlice(t, []float32{10, 20, 30}, tensor.Shape{3})

	// A uniquely owned left operand is reused as the result buffer.
	result := backend.Add(a, b)
	if result != a {
		t.Error("Add did not reuse the unique left operand's buffer")
	}
	want := []float32{11, 22, 33}
	for i, v := range result.AsFloat32() {
		if v != want[i] {
			t.Errorf("result[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestBinaryOpSharedBufferAllocates(t *testing.T) {
	backend := cpu.New()

	a := rawFromSlice(t, []float32{1, 2, 3}, tensor.Shape{3})
	b := rawFromSlice(t, []float32{10, 20, 30}, tensor.Shape{3})

	restore := a.ForceNonUnique()
	defer restore()

	result := backend.Add(a, b)
	if result == a {
		t.Fatal("Add reused a shared buffer")
	}
	wantA := []float32{1, 2, 3}
	for i, v := range a.AsFloat32() {
		if v != wantA[i] {
			t.Errorf("input a[%d] = %v after Add, want %v", i, v, wantA[i])
		}
	}
	want := []float32{11, 22, 33}
	for i, v := range result.AsFloat32() {
		if v != want[i] {
			t.Errorf("result[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestBinaryOpBroadcastNeverInplace(t *testing.T) {
	backend := cpu.New()

	// Rank-padded same-size shapes must not reuse the left buffer: the
	// result shape is [1 3], the left operand's is [3].
	a := rawFromSlice(t, []float32{1, 2, 3}, tensor.Shape{3})
	b := rawFromSlice(t, []float32{10, 20, 30}, tensor.Shape{1, 3})

	result := backend.Add(a, b)
	if result == a {
		t.Fatal("Add reused the left buffer across a rank change")
	}
	if !result.Shape().Equal(tensor.Shape{1, 3}) {
		t.Errorf("result shape = %v, want [1 3]", result.Shape())
	}
}

func TestMatMul(t *testing.T) {
	backend := cpu.New()

	// [2x3] @ [3x2] = [2x2]
	a := rawFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := rawFromSlice(t, []float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})

	result := backend.MatMul(a, b)
	if !result.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("MatMul shape = %v, want [2 2]", result.Shape())
	}
	want := []float32{58, 64, 139, 154}
	for i, v := range result.AsFloat32() {
		if v != want[i] {
			t.Errorf("MatMul result[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestMatMulShapeMismatchPanics(t *testing.T) {
	backend := cpu.New()

	a := rawFromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := rawFromSlice(t, []float32{1, 2, 3}, tensor.Shape{3, 1})

	defer func() {
		if recover() == nil {
			t.Error("expected panic for incompatible MatMul shapes")
		}
	}()
	backend.MatMul(a, b)
}

func TestTranspose(t *testing.T) {
	backend := cpu.New()

	a := rawFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	result := backend.Transpose(a)

	if !result.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("Transpose shape = %v, want [3 2]", result.Shape())
	}
	want := []float32{1, 4, 2, 5, 3, 6}
	for i, v := range result.AsFloat32() {
		if v != want[i] {
			t.Errorf("Transpose result[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestReshape(t *testing.T) {
	backend := cpu.New()

	a := rawFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	result := backend.Reshape(a, tensor.Shape{3, 2})

	if !result.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("Reshape shape = %v, want [3 2]", result.Shape())
	}
	for i, v := range result.AsFloat32() {
		if v != a.AsFloat32()[i] {
			t.Errorf("Reshape changed data at %d", i)
		}
	}
}

func TestScalarOps(t *testing.T) {
	backend := cpu.New()

	a := rawFromSlice(t, []float32{1, 2, 3}, tensor.Shape{3})

	mul := backend.MulScalar(a, float32(2))
	wantMul := []float32{2, 4, 6}
	for i, v := range mul.AsFloat32() {
		if v != wantMul[i] {
			t.Errorf("MulScalar result[%d] = %v, want %v", i, v, wantMul[i])
		}
	}

	add := backend.AddScalar(a, float32(10))
	wantAdd := []float32{11, 12, 13}
	for i, v := range add.AsFloat32() {
		if v != wantAdd[i] {
			t.Errorf("AddScalar result[%d] = %v, want %v", i, v, wantAdd[i])
		}
	}
}

func TestSum(t *testing.T) {
	backend := cpu.New()

	a := rawFromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	result := backend.Sum(a)

	if !result.Shape().Equal(tensor.Shape{1}) {
		t.Fatalf("Sum shape = %v, want [1]", result.Shape())
	}
	if got := result.AsFloat32()[0]; got != 10 {
		t.Errorf("Sum = %v, want 10", got)
	}
}

func TestSumDim(t *testing.T) {
	backend := cpu.New()

	a := rawFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	rows := backend.SumDim(a, -1, true)
	if !rows.Shape().Equal(tensor.Shape{2, 1}) {
		t.Fatalf("SumDim(-1, keep) shape = %v, want [2 1]", rows.Shape())
	}
	wantRows := []float32{6, 15}
	for i, v := range rows.AsFloat32() {
		if v != wantRows[i] {
			t.Errorf("SumDim(-1) result[%d] = %v, want %v", i, v, wantRows[i])
		}
	}

	cols := backend.SumDim(a, 0, false)
	if !cols.Shape().Equal(tensor.Shape{3}) {
		t.Fatalf("SumDim(0) shape = %v, want [3]", cols.Shape())
	}
	wantCols := []float32{5, 7, 9}
	for i, v := range cols.AsFloat32() {
		if v != wantCols[i] {
			t.Errorf("SumDim(0) result[%d] = %v, want %v", i, v, wantCols[i])
		}
	}
}

func TestSumDimOutOfRangePanics(t *testing.T) {
	backend := cpu.New()

	a := rawFromSlice(t, []float32{1, 2}, tensor.Shape{2})

	defer func() {
		if recover() == nil {
			t.Error("expected panic for out-of-range dimension")
		}
	}()
	backend.SumDim(a, 1, false)
}

func TestMeanDim(t *testing.T) {
	backend := cpu.New()

	a := rawFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	result := backend.MeanDim(a, -1, true)
	if !result.Shape().Equal(tensor.Shape{2, 1}) {
		t.Fatalf("MeanDim shape = %v, want [2 1]", result.Shape())
	}
	want := []float32{2, 5}
	for i, v := range result.AsFloat32() {
		if v != want[i] {
			t.Errorf("MeanDim result[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestExpLog(t *testing.T) {
	backend := cpu.New()

	a := rawFromSlice(t, []float32{0, 1}, tensor.Shape{2})
	exp := backend.Exp(a)
	if !floatEqual(exp.AsFloat32()[0], 1, 1e-5) {
		t.Errorf("Exp(0) = %v, want 1", exp.AsFloat32()[0])
	}
	if !floatEqual(exp.AsFloat32()[1], float32(math.E), 1e-5) {
		t.Errorf("Exp(1) = %v, want e", exp.AsFloat32()[1])
	}

	b := rawFromSlice(t, []float32{1, float32(math.E)}, tensor.Shape{2})
	log := backend.Log(b)
	if !floatEqual(log.AsFloat32()[0], 0, 1e-5) {
		t.Errorf("Log(1) = %v, want 0", log.AsFloat32()[0])
	}
	if !floatEqual(log.AsFloat32()[1], 1, 1e-5) {
		t.Errorf("Log(e) = %v, want 1", log.AsFloat32()[1])
	}
}

func TestReLUSigmoid(t *testing.T) {
	backend := cpu.New()

	a := rawFromSlice(t, []float32{-1, 0, 2}, tensor.Shape{3})

	relu := backend.ReLU(a)
	wantReLU := []float32{0, 0, 2}
	for i, v := range relu.AsFloat32() {
		if v != wantReLU[i] {
			t.Errorf("ReLU result[%d] = %v, want %v", i, v, wantReLU[i])
		}
	}

	sigmoid := backend.Sigmoid(a)
	if !floatEqual(sigmoid.AsFloat32()[1], 0.5, 1e-5) {
		t.Errorf("Sigmoid(0) = %v, want 0.5", sigmoid.AsFloat32()[1])
	}
	if sigmoid.AsFloat32()[0] >= 0.5 || sigmoid.AsFloat32()[2] <= 0.5 {
		t.Error("Sigmoid is not monotonic around 0")
	}
}
