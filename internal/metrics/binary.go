package metrics

import (
	"sort"

	"github.com/tabular-ml/tabular/internal/tensor"
)

// Accuracy is the fraction of correctly classified examples.
type Accuracy[B tensor.Backend] struct{}

// NewAccuracy creates a new accuracy metric.
func NewAccuracy[B tensor.Backend]() *Accuracy[B] {
	return &Accuracy[B]{}
}

// Name returns "accuracy".
func (a *Accuracy[B]) Name() string { return "accuracy" }

// Compute returns (TP + TN) / N.
func (a *Accuracy[B]) Compute(predictions, targets *tensor.Tensor[float32, B]) float32 {
	tp, fp, tn, fn := confusionCounts(predictions, targets)
	total := tp + fp + tn + fn
	if total == 0 {
		return 0
	}
	return float32(tp+tn) / float32(total)
}

// Precision is the fraction of positive predictions that are correct.
type Precision[B tensor.Backend] struct{}

// NewPrecision creates a new precision metric.
func NewPrecision[B tensor.Backend]() *Precision[B] {
	return &Precision[B]{}
}

// Name returns "precision".
func (p *Precision[B]) Name() string { return "precision" }

// Compute returns TP / (TP + FP), or 0 when nothing was predicted positive.
func (p *Precision[B]) Compute(predictions, targets *tensor.Tensor[float32, B]) float32 {
	tp, fp, _, _ := confusionCounts(predictions, targets)
	if tp+fp == 0 {
		return 0
	}
	return float32(tp) / float32(tp+fp)
}

// Recall is the fraction of actual positives that were predicted positive.
type Recall[B tensor.Backend] struct{}

// NewRecall creates a new recall metric.
func NewRecall[B tensor.Backend]() *Recall[B] {
	return &Recall[B]{}
}

// Name returns "recall".
func (r *Recall[B]) Name() string { return "recall" }

// Compute returns TP / (TP + FN), or 0 when there are no actual positives.
func (r *Recall[B]) Compute(predictions, targets *tensor.Tensor[float32, B]) float32 {
	tp, _, _, fn := confusionCounts(predictions, targets)
	if tp+fn == 0 {
		return 0
	}
	return float32(tp) / float32(tp+fn)
}

// AUC is the area under the ROC curve.
//
// Computed via the rank statistic: AUC equals the probability that a
// randomly chosen positive example scores higher than a randomly chosen
// negative one. Ties contribute half. Thresholding is not applied, so raw
// logits and probabilities give the same result.
type AUC[B tensor.Backend] struct{}

// NewAUC creates a new AUC metric.
func NewAUC[B tensor.Backend]() *AUC[B] {
	return &AUC[B]{}
}

// Name returns "auc".
func (a *AUC[B]) Name() string { return "auc" }

// Compute returns the ROC AUC, or 0.5 when one class is absent.
func (a *AUC[B]) Compute(predictions, targets *tensor.Tensor[float32, B]) float32 {
	preds := predictions.Raw().AsFloat32()
	labels := targets.Raw().AsFloat32()
	if len(preds) != len(labels) {
		panic("metrics: predictions and targets must have the same number of elements")
	}

	type scored struct {
		score    float32
		positive bool
	}
	examples := make([]scored, len(preds))
	numPos := 0
	for i := range preds {
		pos := labels[i] > 0.5
		examples[i] = scored{score: preds[i], positive: pos}
		if pos {
			numPos++
		}
	}
	numNeg := len(examples) - numPos
	if numPos == 0 || numNeg == 0 {
		return 0.5
	}

	sort.Slice(examples, func(i, j int) bool {
		return examples[i].score < examples[j].score
	})

	// Sum ranks of positives, averaging ranks within tied groups.
	ranks := make([]float64, len(examples))
	for i := 0; i < len(examples); {
		j := i
		for j < len(examples) && examples[j].score == examples[i].score {
			j++
		}
		// 1-based ranks i+1 .. j averaged.
		avg := float64(i+1+j) / 2.0
		for k := i; k < j; k++ {
			ranks[k] = avg
		}
		i = j
	}

	var rankSum float64
	for i, ex := range examples {
		if ex.positive {
			rankSum += ranks[i]
		}
	}

	auc := (rankSum - float64(numPos)*float64(numPos+1)/2.0) /
		(float64(numPos) * float64(numNeg))
	return float32(auc)
}
