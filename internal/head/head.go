package head

import (
	"fmt"

	"github.com/tabular-ml/tabular/internal/nn"
	"github.com/tabular-ml/tabular/internal/schema"
	"github.com/tabular-ml/tabular/internal/tensor"
)

// Head owns a mapping from target name to Task and a mapping from target
// name to scalar loss weight. It aggregates predictions and losses across
// tasks, and can be constructed automatically from column metadata.
//
// Task iteration order is the registration order, so forward, loss, and
// metric computation are deterministic across runs.
//
// Lifecycle: construct (manually or via FromSchema), register tasks before
// training begins, then call Forward/ComputeLoss repeatedly. No structural
// mutation during training.
type Head[B tensor.Backend] struct {
	inputSize []int
	taskNames []string
	tasks     map[string]*Task[B]
	weights   map[string]float32
	backend   B
}

// NewHead creates an empty head. inputSize is the shape of the shared
// feature representation; the last dimension is the feature width used by
// logit layers.
func NewHead[B tensor.Backend](backend B, inputSize ...int) *Head[B] {
	return &Head[B]{
		inputSize: inputSize,
		tasks:     make(map[string]*Task[B]),
		weights:   make(map[string]float32),
		backend:   backend,
	}
}

// FromSchema builds a head from column metadata: one binary classification
// task per column tagged as a binary target and one regression task per
// column tagged as a regression target.
//
// When addLogits is true each task gets a Linear(lastDim, 1) projection.
// Weights are looked up in taskWeights with a default of 1; taskWeights may
// be nil.
//
// Multi-class classification targets are not supported.
func FromSchema[B tensor.Backend](
	group *schema.ColumnGroup,
	backend B,
	addLogits bool,
	taskWeights map[string]float32,
	inputSize ...int,
) *Head[B] {
	if taskWeights == nil {
		taskWeights = map[string]float32{}
	}
	h := NewHead(backend, inputSize...)

	for _, name := range group.GetTagged(schema.TagBinaryTarget).Columns() {
		h.AddBinaryClassificationTask(name, addLogits, lookupWeight(taskWeights, name))
	}

	for _, name := range group.GetTagged(schema.TagRegressionTarget).Columns() {
		h.AddRegressionTask(name, addLogits, lookupWeight(taskWeights, name))
	}

	return h
}

func lookupWeight(weights map[string]float32, name string) float32 {
	if w, ok := weights[name]; ok {
		return w
	}
	return 1
}

// Build records the feature width of the upstream representation. Device
// placement is carried by the backend the layers were constructed on.
func (h *Head[B]) Build(inputSize ...int) {
	h.inputSize = inputSize
}

// InputSize returns the recorded input dimensions.
func (h *Head[B]) InputSize() []int {
	return h.inputSize
}

// AddTask registers a task under a target name. A non-nil pre transform is
// attached to the task itself. A zero weight is skipped, leaving the
// default weight of 1 in effect.
//
// Returns the head for chaining.
func (h *Head[B]) AddTask(name string, task *Task[B], pre nn.Module[B], weight float32) *Head[B] {
	h.register(name, task)
	if pre != nil {
		task.SetPre(pre)
	}
	if weight != 0 {
		h.weights[name] = weight
	}
	return h
}

// AddBinaryClassificationTask registers a binary classification task with
// the default metric set. When addLogitLayer is true a Linear projection
// from the last input dimension to one logit is attached as the task's pre
// transform. A zero weight is skipped.
func (h *Head[B]) AddBinaryClassificationTask(name string, addLogitLayer bool, weight float32) *Head[B] {
	task := BinaryClassification(h.backend, nil)
	h.register(name, task)

	if addLogitLayer {
		task.SetPre(nn.NewLinear(h.lastInputDim(), 1, h.backend))
	}
	if weight != 0 {
		h.weights[name] = weight
	}
	return h
}

// AddRegressionTask registers a regression task with the default metric
// set. When addLogitLayer is true a Linear projection from the last input
// dimension to one output is attached as the task's pre transform. A zero
// weight is skipped.
func (h *Head[B]) AddRegressionTask(name string, addLogitLayer bool, weight float32) *Head[B] {
	task := Regression(h.backend, nil)
	h.register(name, task)

	if addLogitLayer {
		task.SetPre(nn.NewLinear(h.lastInputDim(), 1, h.backend))
	}
	if weight != 0 {
		h.weights[name] = weight
	}
	return h
}

func (h *Head[B]) register(name string, task *Task[B]) {
	if _, exists := h.tasks[name]; !exists {
		h.taskNames = append(h.taskNames, name)
	}
	h.tasks[name] = task
}

func (h *Head[B]) lastInputDim() int {
	if len(h.inputSize) == 0 {
		panic("head: input size not set, call Build or construct with an input size before adding logit layers")
	}
	return h.inputSize[len(h.inputSize)-1]
}

// Weight returns the loss weight for a task name, defaulting to 1 for
// names that were never assigned a weight.
func (h *Head[B]) Weight(name string) float32 {
	if w, ok := h.weights[name]; ok {
		return w
	}
	return 1
}

// Task returns the registered task for a target name.
func (h *Head[B]) Task(name string) (*Task[B], bool) {
	task, ok := h.tasks[name]
	return task, ok
}

// TaskNames returns the registered target names in registration order.
func (h *Head[B]) TaskNames() []string {
	names := make([]string, len(h.taskNames))
	copy(names, h.taskNames)
	return names
}

// Len returns the number of registered tasks.
func (h *Head[B]) Len() int {
	return len(h.taskNames)
}

// PopLabels removes the entry for every registered task name from the
// inputs mapping and returns the removed entries. Used to separate label
// columns from feature columns before a forward pass.
//
// Returns an error when a task name is absent from inputs; entries removed
// before the failure stay removed.
func (h *Head[B]) PopLabels(inputs map[string]*tensor.Tensor[float32, B]) (map[string]*tensor.Tensor[float32, B], error) {
	labels := make(map[string]*tensor.Tensor[float32, B], len(h.taskNames))
	for _, name := range h.taskNames {
		value, ok := inputs[name]
		if !ok {
			return nil, fmt.Errorf("head: label %q not found in inputs", name)
		}
		delete(inputs, name)
		labels[name] = value
	}
	return labels, nil
}

// Forward runs every task's forward pass on the shared representation and
// returns a map from task name to task output.
func (h *Head[B]) Forward(logits *tensor.Tensor[float32, B]) map[string]*tensor.Tensor[float32, B] {
	outputs := make(map[string]*tensor.Tensor[float32, B], len(h.taskNames))
	for _, name := range h.taskNames {
		outputs[name] = h.tasks[name].Forward(logits)
	}
	return outputs
}

// ComputeLoss computes each task's loss from its target and logit entries,
// scales it by the task weight, and sums across tasks into one scalar.
//
// Returns an error when a task name is missing from either mapping, or
// when the head has no tasks.
func (h *Head[B]) ComputeLoss(
	targets map[string]*tensor.Tensor[float32, B],
	logits map[string]*tensor.Tensor[float32, B],
) (*tensor.Tensor[float32, B], error) {
	if len(h.taskNames) == 0 {
		return nil, fmt.Errorf("head: no tasks registered")
	}

	var total *tensor.Tensor[float32, B]
	for _, name := range h.taskNames {
		target, ok := targets[name]
		if !ok {
			return nil, fmt.Errorf("head: target %q not found in targets", name)
		}
		prediction, ok := logits[name]
		if !ok {
			return nil, fmt.Errorf("head: target %q not found in logits", name)
		}

		// logits holds task outputs from Forward, so the loss applies
		// directly without re-running the task's transforms.
		loss := h.tasks[name].Loss().Forward(prediction, target)
		weighted := loss.MulScalar(h.Weight(name))
		if total == nil {
			total = weighted
		} else {
			total = total.Add(weighted)
		}
	}
	return total, nil
}

// CalculateMetrics computes every task's metrics from its target and logit
// entries. Results are keyed "task/metric" (e.g., "click/accuracy").
//
// Returns an error when a task name is missing from either mapping.
func (h *Head[B]) CalculateMetrics(
	targets map[string]*tensor.Tensor[float32, B],
	logits map[string]*tensor.Tensor[float32, B],
) (map[string]float32, error) {
	results := make(map[string]float32)
	for _, name := range h.taskNames {
		target, ok := targets[name]
		if !ok {
			return nil, fmt.Errorf("head: target %q not found in targets", name)
		}
		prediction, ok := logits[name]
		if !ok {
			return nil, fmt.Errorf("head: target %q not found in logits", name)
		}

		for metric, value := range h.tasks[name].CalculateMetrics(prediction, target) {
			results[name+"/"+metric] = value
		}
	}
	return results, nil
}

// Parameters returns the trainable parameters of every task in
// registration order, for use by an optimizer.
func (h *Head[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	for _, name := range h.taskNames {
		params = append(params, h.tasks[name].Parameters()...)
	}
	return params
}
