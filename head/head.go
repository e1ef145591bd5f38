// Copyright 2025 Tabular ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package head provides multi-task prediction heads for tabular models.
//
// A Head attaches one or more prediction tasks (binary classification,
// regression) onto a shared feature representation. It can be constructed
// automatically from a column schema:
//
//	import (
//	    "github.com/tabular-ml/tabular/backend/cpu"
//	    "github.com/tabular-ml/tabular/autodiff"
//	    "github.com/tabular-ml/tabular/head"
//	    "github.com/tabular-ml/tabular/schema"
//	)
//
//	backend := autodiff.New(cpu.New())
//	group := schema.NewColumnGroup(
//	    schema.ColumnSchema{Name: "click", Tags: []schema.Tag{schema.TagBinaryTarget}},
//	    schema.ColumnSchema{Name: "rating", Tags: []schema.Tag{schema.TagRegressionTarget}},
//	)
//	h := head.FromSchema(group, backend, true, nil, 100)
//
//	outputs := h.Forward(features)
//	loss, err := h.ComputeLoss(labels, outputs)
package head

import (
	"github.com/tabular-ml/tabular/internal/head"
	"github.com/tabular-ml/tabular/internal/metrics"
	"github.com/tabular-ml/tabular/internal/schema"
	"github.com/tabular-ml/tabular/internal/tensor"
)

// Task is a single prediction target: loss, metric set, and optional body
// and pre transforms.
type Task[B tensor.Backend] = head.Task[B]

// Head aggregates prediction tasks over a shared representation.
type Head[B tensor.Backend] = head.Head[B]

// NewHead creates an empty head with the given input size.
func NewHead[B tensor.Backend](backend B, inputSize ...int) *Head[B] {
	return head.NewHead(backend, inputSize...)
}

// FromSchema builds a head from column metadata: one binary classification
// task per binary-target column and one regression task per
// regression-target column.
func FromSchema[B tensor.Backend](
	group *schema.ColumnGroup,
	backend B,
	addLogits bool,
	taskWeights map[string]float32,
	inputSize ...int,
) *Head[B] {
	return head.FromSchema(group, backend, addLogits, taskWeights, inputSize...)
}

// BinaryClassification creates a binary classification task with BCE loss
// and, when metricSet is nil, the default metrics precision, recall,
// accuracy, and AUC.
func BinaryClassification[B tensor.Backend](backend B, metricSet []metrics.Metric[B]) *Task[B] {
	return head.BinaryClassification(backend, metricSet)
}

// Regression creates a regression task with MSE loss and, when metricSet
// is nil, the default metric mean squared error.
func Regression[B tensor.Backend](backend B, metricSet []metrics.Metric[B]) *Task[B] {
	return head.Regression(backend, metricSet)
}
