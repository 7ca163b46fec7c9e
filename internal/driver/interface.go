package driver

import "context"

// Row is one solution of the scheme query. Optional variables left
// unbound by the graph are empty strings; sentinel substitution happens
// in the model layer.
type Row struct {
	Individual  string
	Name        string
	Description string
	Narrative   string
	Source      string
}

// GraphDriver executes the canonical scheme query against a triple
// store. activityClass is the local name of the target fraud-activity
// class in the GFO namespace.
type GraphDriver interface {
	FindSchemes(ctx context.Context, activityClass string) ([]Row, error)
	Close(ctx context.Context) error
}
