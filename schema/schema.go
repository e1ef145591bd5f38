// Copyright 2025 Tabular ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package schema describes dataset columns and their semantic roles.
//
// Example:
//
//	group := schema.NewColumnGroup(
//	    schema.ColumnSchema{Name: "click", Tags: []schema.Tag{schema.TagBinaryTarget}},
//	    schema.ColumnSchema{Name: "rating", Tags: []schema.Tag{schema.TagRegressionTarget}},
//	)
//	targets := group.GetTagged(schema.TagBinaryTarget).Columns()
package schema

import (
	"github.com/tabular-ml/tabular/internal/schema"
)

// Tag marks the semantic role of a column.
type Tag = schema.Tag

// Column role tags.
const (
	TagBinaryTarget     Tag = schema.TagBinaryTarget
	TagRegressionTarget Tag = schema.TagRegressionTarget
	TagCategorical      Tag = schema.TagCategorical
	TagContinuous       Tag = schema.TagContinuous
)

// ColumnSchema describes one dataset column.
type ColumnSchema = schema.ColumnSchema

// ColumnGroup is an ordered collection of column schemas.
type ColumnGroup = schema.ColumnGroup

// NewColumnGroup creates a column group from the given columns.
func NewColumnGroup(columns ...ColumnSchema) *ColumnGroup {
	return schema.NewColumnGroup(columns...)
}

// Load reads a column group from a YAML schema file.
func Load(path string) (*ColumnGroup, error) {
	return schema.Load(path)
}

// Parse decodes a column group from YAML bytes.
func Parse(data []byte) (*ColumnGroup, error) {
	return schema.Parse(data)
}

// Save writes the column group to a YAML schema file.
func Save(g *ColumnGroup, path string) error {
	return schema.Save(g, path)
}
