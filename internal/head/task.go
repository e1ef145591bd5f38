// Package head implements multi-task prediction heads for tabular models.
//
// A Head attaches one or more prediction tasks (binary classification,
// regression) onto a shared feature representation produced by an upstream
// model body. Given column metadata describing which features are targets
// and of what kind, it builds per-target loss functions, metric sets, and
// optional projection layers, and aggregates per-task losses into one
// scalar for optimization.
package head

import (
	"github.com/tabular-ml/tabular/internal/metrics"
	"github.com/tabular-ml/tabular/internal/nn"
	"github.com/tabular-ml/tabular/internal/tensor"
)

// Task is a single prediction target: a loss function, a metric set, and
// optional body and pre transforms.
//
// Forward applies body then pre, either of which may be nil. The pre
// transform is typically a projection from the shared representation down
// to the task's output width (e.g., Linear(d, 1) producing one logit).
type Task[B tensor.Backend] struct {
	loss    nn.Loss[B]
	metrics []metrics.Metric[B]
	body    nn.Module[B]
	pre     nn.Module[B]
}

// NewTask creates a task from a loss, a metric set, and optional body and
// pre transforms (nil for identity).
func NewTask[B tensor.Backend](loss nn.Loss[B], metricSet []metrics.Metric[B], body, pre nn.Module[B]) *Task[B] {
	return &Task[B]{
		loss:    loss,
		metrics: metricSet,
		body:    body,
		pre:     pre,
	}
}

// BinaryClassification creates a binary classification task.
//
// The loss is binary cross-entropy on logits. When metricSet is nil the
// default metrics are precision, recall, accuracy, and AUC.
func BinaryClassification[B tensor.Backend](backend B, metricSet []metrics.Metric[B]) *Task[B] {
	if metricSet == nil {
		metricSet = []metrics.Metric[B]{
			metrics.NewPrecision[B](),
			metrics.NewRecall[B](),
			metrics.NewAccuracy[B](),
			metrics.NewAUC[B](),
		}
	}
	return NewTask(nn.Loss[B](nn.NewBCEWithLogitsLoss(backend)), metricSet, nil, nil)
}

// Regression creates a regression task.
//
// The loss is mean squared error. When metricSet is nil the default metric
// is mean squared error.
func Regression[B tensor.Backend](backend B, metricSet []metrics.Metric[B]) *Task[B] {
	if metricSet == nil {
		metricSet = []metrics.Metric[B]{
			metrics.NewMeanSquaredError[B](),
		}
	}
	return NewTask(nn.Loss[B](nn.NewMSELoss(backend)), metricSet, nil, nil)
}

// Forward applies the body transform then the pre transform to the input.
// A nil transform is skipped; with both nil the input passes through
// unchanged.
func (t *Task[B]) Forward(inputs *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	x := inputs
	if t.body != nil {
		x = t.body.Forward(x)
	}
	if t.pre != nil {
		x = t.pre.Forward(x)
	}
	return x
}

// ComputeLoss runs the forward pass and applies the loss function to the
// resulting predictions and the targets. Returns a scalar tensor. Shape
// mismatches panic per the loss function's own validation.
func (t *Task[B]) ComputeLoss(inputs, targets *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	predictions := t.Forward(inputs)
	return t.loss.Forward(predictions, targets)
}

// CalculateMetrics computes every registered metric on the given
// predictions and targets, returning a map from metric name to value.
// Predictions are used as-is; callers pass task outputs, not raw features.
func (t *Task[B]) CalculateMetrics(predictions, targets *tensor.Tensor[float32, B]) map[string]float32 {
	outputs := make(map[string]float32, len(t.metrics))
	for _, metric := range t.metrics {
		outputs[metric.Name()] = metric.Compute(predictions, targets)
	}
	return outputs
}

// Parameters returns the trainable parameters of the body and pre
// transforms.
func (t *Task[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	if t.body != nil {
		params = append(params, t.body.Parameters()...)
	}
	if t.pre != nil {
		params = append(params, t.pre.Parameters()...)
	}
	return params
}

// SetBody sets the task's body transform.
func (t *Task[B]) SetBody(body nn.Module[B]) {
	t.body = body
}

// SetPre sets the task's pre transform.
func (t *Task[B]) SetPre(pre nn.Module[B]) {
	t.pre = pre
}

// Body returns the task's body transform, nil when absent.
func (t *Task[B]) Body() nn.Module[B] {
	return t.body
}

// Pre returns the task's pre transform, nil when absent.
func (t *Task[B]) Pre() nn.Module[B] {
	return t.pre
}

// Loss returns the task's loss function.
func (t *Task[B]) Loss() nn.Loss[B] {
	return t.loss
}

// Metrics returns the task's metric set.
func (t *Task[B]) Metrics() []metrics.Metric[B] {
	return t.metrics
}
