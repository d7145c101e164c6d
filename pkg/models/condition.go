package models

// ColumnSource answers header queries over the run's sample metadata.
// Implementations must not mutate the underlying resource.
type ColumnSource interface {
	HasColumn(name string) (bool, error)
}

// Condition gates a step on the shape of external metadata. A false result
// skips the step; it is never an error. The only supported predicate is
// column presence, which covers the group-significance steps that only make
// sense when the study design recorded that variable.
type Condition struct {
	MetadataColumn string `json:"metadata_column" yaml:"metadata_column" validate:"required"`
}

// Evaluate reports whether the condition holds against the given source.
func (c *Condition) Evaluate(src ColumnSource) (bool, error) {
	return src.HasColumn(c.MetadataColumn)
}
