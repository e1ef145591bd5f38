// Copyright 2025 Tabular ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/tabular-ml/tabular/internal/autodiff"
	"github.com/tabular-ml/tabular/internal/backend/cpu"
	"github.com/tabular-ml/tabular/tensor"
)

// TestBackendInterface verifies that the compute backends implement
// tensor.Backend.
func TestBackendInterface(_ *testing.T) {
	var _ tensor.Backend = (*cpu.CPUBackend)(nil)
	var _ tensor.Backend = (*autodiff.AutodiffBackend[*cpu.CPUBackend])(nil)
}

// TestRawTensorAPI verifies the RawTensor type alias exposes the expected API.
func TestRawTensorAPI(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}

	// Test Shape() method.
	shape := raw.Shape()
	if !shape.Equal(tensor.Shape{2, 3}) {
		t.Errorf("Shape() = %v, want [2 3]", shape)
	}

	// Test DType() method.
	dtype := raw.DType()
	if dtype != tensor.Float32 {
		t.Errorf("DType() = %v, want Float32", dtype)
	}

	// Test Device() method.
	device := raw.Device()
	if device != tensor.CPU {
		t.Errorf("Device() = %v, want CPU", device)
	}

	// Test NumElements() method.
	n := raw.NumElements()
	if n != 6 {
		t.Errorf("NumElements() = %d, want 6", n)
	}

	// Test ByteSize() method.
	byteSize := raw.ByteSize()
	expected := 6 * 4 // 6 elements * 4 bytes (float32)
	if byteSize != expected {
		t.Errorf("ByteSize() = %d, want %d", byteSize, expected)
	}

	// Test Clone() method: a clone owns its own buffer.
	data := raw.AsFloat32()
	data[0] = 42

	clone := raw.Clone()
	if clone == nil {
		t.Fatal("Clone() returned nil")
	}
	if clone.AsFloat32()[0] != 42 {
		t.Errorf("Clone()[0] = %v, want 42", clone.AsFloat32()[0])
	}

	clone.AsFloat32()[0] = 7
	if data[0] != 42 {
		t.Error("writing to clone mutated the original buffer")
	}

	// Test IsUnique() and ForceNonUnique().
	if !raw.IsUnique() {
		t.Error("IsUnique() = false for a freshly created tensor, want true")
	}

	restore := raw.ForceNonUnique()
	if raw.IsUnique() {
		t.Error("IsUnique() = true after ForceNonUnique(), want false")
	}
	restore()
	if !raw.IsUnique() {
		t.Error("IsUnique() = false after restore, want true")
	}
}

// TestTensorAPI exercises the high-level generic tensor through the facade.
func TestTensorAPI(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}

	y := tensor.Ones[float32](tensor.Shape{2, 2}, backend)
	z := x.Add(y)

	want := []float32{2, 3, 4, 5}
	got := z.Raw().AsFloat32()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Add()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

// TestBroadcastShapes verifies broadcasting through the facade.
func TestBroadcastShapes(t *testing.T) {
	shape, broadcast, err := tensor.BroadcastShapes(tensor.Shape{2, 3}, tensor.Shape{1, 3})
	if err != nil {
		t.Fatalf("BroadcastShapes failed: %v", err)
	}
	if !broadcast {
		t.Error("broadcast = false for [2 3] and [1 3], want true")
	}
	if !shape.Equal(tensor.Shape{2, 3}) {
		t.Errorf("shape = %v, want [2 3]", shape)
	}
}
