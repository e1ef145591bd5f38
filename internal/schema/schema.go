// Package schema describes dataset columns and their semantic roles.
//
// A ColumnGroup is an ordered collection of column schemas, each carrying
// a set of tags. Prediction heads consume tagged views of the group to
// discover which columns are training targets and of what kind.
package schema

// Tag marks the semantic role of a column.
type Tag string

// Column role tags.
const (
	TagBinaryTarget     Tag = "binary_target"
	TagRegressionTarget Tag = "regression_target"
	TagCategorical      Tag = "categorical"
	TagContinuous       Tag = "continuous"
)

// ColumnSchema describes one dataset column.
type ColumnSchema struct {
	Name string `yaml:"name"`
	Tags []Tag  `yaml:"tags"`
}

// HasTag reports whether the column carries the given tag.
func (c ColumnSchema) HasTag(tag Tag) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ColumnGroup is an ordered collection of column schemas.
//
// Order is preserved through filtering so that task construction is
// deterministic across runs.
type ColumnGroup struct {
	columns []ColumnSchema
}

// NewColumnGroup creates a column group from the given columns.
func NewColumnGroup(columns ...ColumnSchema) *ColumnGroup {
	return &ColumnGroup{columns: columns}
}

// Add appends a column to the group.
func (g *ColumnGroup) Add(column ColumnSchema) {
	g.columns = append(g.columns, column)
}

// GetTagged returns a new group containing only columns that carry the
// given tag, in their original order.
func (g *ColumnGroup) GetTagged(tag Tag) *ColumnGroup {
	tagged := &ColumnGroup{}
	for _, c := range g.columns {
		if c.HasTag(tag) {
			tagged.columns = append(tagged.columns, c)
		}
	}
	return tagged
}

// Columns returns the column names in order.
func (g *ColumnGroup) Columns() []string {
	names := make([]string, len(g.columns))
	for i, c := range g.columns {
		names[i] = c.Name
	}
	return names
}

// Schemas returns the column schemas in order.
func (g *ColumnGroup) Schemas() []ColumnSchema {
	out := make([]ColumnSchema, len(g.columns))
	copy(out, g.columns)
	return out
}

// Len returns the number of columns in the group.
func (g *ColumnGroup) Len() int {
	return len(g.columns)
}
