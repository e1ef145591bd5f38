// Package metrics implements evaluation metrics for prediction tasks.
//
// Metrics are computed outside the gradient tape from raw prediction and
// target values. Binary classification metrics accept raw logits and
// threshold them at 0, which is equivalent to thresholding sigmoid
// probabilities at 0.5.
package metrics

import (
	"github.com/tabular-ml/tabular/internal/tensor"
)

// Metric computes a scalar evaluation score from predictions and targets.
//
// Predictions and targets must have the same number of elements. Metrics
// never participate in gradient computation.
type Metric[B tensor.Backend] interface {
	// Name returns the metric name used in result maps (e.g., "precision").
	Name() string

	// Compute returns the metric value for the given predictions and targets.
	Compute(predictions, targets *tensor.Tensor[float32, B]) float32
}

// confusionCounts tallies the binary confusion matrix from logits and
// {0, 1} targets.
func confusionCounts[B tensor.Backend](predictions, targets *tensor.Tensor[float32, B]) (tp, fp, tn, fn int) {
	preds := predictions.Raw().AsFloat32()
	labels := targets.Raw().AsFloat32()
	if len(preds) != len(labels) {
		panic("metrics: predictions and targets must have the same number of elements")
	}

	for i := range preds {
		predicted := preds[i] > 0 // sigmoid(x) > 0.5 iff x > 0
		actual := labels[i] > 0.5
		switch {
		case predicted && actual:
			tp++
		case predicted && !actual:
			fp++
		case !predicted && !actual:
			tn++
		default:
			fn++
		}
	}
	return tp, fp, tn, fn
}
