package metrics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabular-ml/tabular/internal/backend/cpu"
	"github.com/tabular-ml/tabular/internal/metrics"
	"github.com/tabular-ml/tabular/internal/tensor"
)

type cpuBackend = *cpu.CPUBackend

func tensorOf(t *testing.T, data []float32) *tensor.Tensor[float32, cpuBackend] {
	t.Helper()
	out, err := tensor.FromSlice(data, tensor.Shape{len(data)}, cpu.New())
	require.NoError(t, err)
	return out
}

func TestAccuracy(t *testing.T) {
	// Logits threshold at 0: predictions are [1, 0, 1, 0].
	preds := tensorOf(t, []float32{2.0, -1.0, 0.5, -0.5})
	targets := tensorOf(t, []float32{1, 0, 0, 0})

	acc := metrics.NewAccuracy[cpuBackend]().Compute(preds, targets)
	assert.InDelta(t, 0.75, acc, 1e-6)
}

func TestPrecisionRecall(t *testing.T) {
	// Predictions: [1, 1, 0, 0]; targets: [1, 0, 1, 0].
	// TP=1, FP=1, FN=1 -> precision 0.5, recall 0.5.
	preds := tensorOf(t, []float32{1.0, 1.0, -1.0, -1.0})
	targets := tensorOf(t, []float32{1, 0, 1, 0})

	precision := metrics.NewPrecision[cpuBackend]().Compute(preds, targets)
	recall := metrics.NewRecall[cpuBackend]().Compute(preds, targets)

	assert.InDelta(t, 0.5, precision, 1e-6)
	assert.InDelta(t, 0.5, recall, 1e-6)
}

func TestPrecisionNoPositivePredictions(t *testing.T) {
	preds := tensorOf(t, []float32{-1, -2})
	targets := tensorOf(t, []float32{1, 0})

	precision := metrics.NewPrecision[cpuBackend]().Compute(preds, targets)
	assert.Zero(t, precision)
}

func TestAUCPerfectRanking(t *testing.T) {
	// Every positive scores above every negative.
	preds := tensorOf(t, []float32{0.9, 0.8, -0.5, -0.7})
	targets := tensorOf(t, []float32{1, 1, 0, 0})

	auc := metrics.NewAUC[cpuBackend]().Compute(preds, targets)
	assert.InDelta(t, 1.0, auc, 1e-6)
}

func TestAUCReversedRanking(t *testing.T) {
	preds := tensorOf(t, []float32{-0.9, -0.8, 0.5, 0.7})
	targets := tensorOf(t, []float32{1, 1, 0, 0})

	auc := metrics.NewAUC[cpuBackend]().Compute(preds, targets)
	assert.InDelta(t, 0.0, auc, 1e-6)
}

func TestAUCTiedScores(t *testing.T) {
	// All scores identical: chance-level ranking.
	preds := tensorOf(t, []float32{0.5, 0.5, 0.5, 0.5})
	targets := tensorOf(t, []float32{1, 1, 0, 0})

	auc := metrics.NewAUC[cpuBackend]().Compute(preds, targets)
	assert.InDelta(t, 0.5, auc, 1e-6)
}

func TestAUCSingleClass(t *testing.T) {
	preds := tensorOf(t, []float32{0.1, 0.2})
	targets := tensorOf(t, []float32{1, 1})

	auc := metrics.NewAUC[cpuBackend]().Compute(preds, targets)
	assert.InDelta(t, 0.5, auc, 1e-6)
}

func TestMeanSquaredError(t *testing.T) {
	preds := tensorOf(t, []float32{1, 2, 3})
	targets := tensorOf(t, []float32{1, 0, 0})

	mse := metrics.NewMeanSquaredError[cpuBackend]().Compute(preds, targets)
	// (0 + 4 + 9) / 3.
	assert.InDelta(t, 13.0/3.0, mse, 1e-5)
}

func TestMetricNames(t *testing.T) {
	assert.Equal(t, "accuracy", metrics.NewAccuracy[cpuBackend]().Name())
	assert.Equal(t, "precision", metrics.NewPrecision[cpuBackend]().Name())
	assert.Equal(t, "recall", metrics.NewRecall[cpuBackend]().Name())
	assert.Equal(t, "auc", metrics.NewAUC[cpuBackend]().Name())
	assert.Equal(t, "mean_squared_error", metrics.NewMeanSquaredError[cpuBackend]().Name())
}
