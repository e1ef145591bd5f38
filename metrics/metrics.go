// Copyright 2025 Tabular ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package metrics provides evaluation metrics for prediction tasks.
//
// Binary classification metrics accept raw logits and threshold them at 0,
// equivalent to thresholding sigmoid probabilities at 0.5.
package metrics

import (
	"github.com/tabular-ml/tabular/internal/metrics"
	"github.com/tabular-ml/tabular/internal/tensor"
)

// Metric computes a scalar evaluation score from predictions and targets.
type Metric[B tensor.Backend] = metrics.Metric[B]

// Accuracy is the fraction of correctly classified examples.
type Accuracy[B tensor.Backend] = metrics.Accuracy[B]

// NewAccuracy creates a new accuracy metric.
func NewAccuracy[B tensor.Backend]() *Accuracy[B] {
	return metrics.NewAccuracy[B]()
}

// Precision is the fraction of positive predictions that are correct.
type Precision[B tensor.Backend] = metrics.Precision[B]

// NewPrecision creates a new precision metric.
func NewPrecision[B tensor.Backend]() *Precision[B] {
	return metrics.NewPrecision[B]()
}

// Recall is the fraction of actual positives that were predicted positive.
type Recall[B tensor.Backend] = metrics.Recall[B]

// NewRecall creates a new recall metric.
func NewRecall[B tensor.Backend]() *Recall[B] {
	return metrics.NewRecall[B]()
}

// AUC is the area under the ROC curve.
type AUC[B tensor.Backend] = metrics.AUC[B]

// NewAUC creates a new AUC metric.
func NewAUC[B tensor.Backend]() *AUC[B] {
	return metrics.NewAUC[B]()
}

// MeanSquaredError is the average squared difference between predictions
// and targets.
type MeanSquaredError[B tensor.Backend] = metrics.MeanSquaredError[B]

// NewMeanSquaredError creates a new MSE metric.
func NewMeanSquaredError[B tensor.Backend]() *MeanSquaredError[B] {
	return metrics.NewMeanSquaredError[B]()
}
