package driver

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/knakk/sparql"
)

// EndpointDriver runs the canonical query against a remote SPARQL 1.1
// endpoint. The prepared query text is sent unmodified; all engine
// semantics (closure, union, collation) are the endpoint's.
type EndpointDriver struct {
	repo     *sparql.Repo
	endpoint string
}

// NewEndpointDriver connects to the endpoint at addr.
func NewEndpointDriver(addr string, timeout time.Duration) (*EndpointDriver, error) {
	repo, err := sparql.NewRepo(addr, sparql.Timeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SPARQL endpoint '%s': %w", addr, err)
	}
	slog.Info("Connected to SPARQL endpoint", "endpoint", addr)
	return &EndpointDriver{repo: repo, endpoint: addr}, nil
}

// FindSchemes executes the prepared scheme query remotely.
func (d *EndpointDriver) FindSchemes(ctx context.Context, activityClass string) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q, err := BuildSchemeQuery(activityClass)
	if err != nil {
		return nil, err
	}
	res, err := d.repo.Query(q)
	if err != nil {
		return nil, fmt.Errorf("SPARQL query failed: %w", err)
	}

	solutions := res.Solutions()
	rows := make([]Row, 0, len(solutions))
	for _, sol := range solutions {
		row := Row{}
		if t, ok := sol["individual"]; ok {
			row.Individual = t.String()
		}
		if t, ok := sol["individualName"]; ok {
			row.Name = t.String()
		}
		if t, ok := sol["description"]; ok {
			row.Description = t.String()
		}
		if t, ok := sol["narrative"]; ok {
			row.Narrative = t.String()
		}
		if t, ok := sol["source"]; ok {
			row.Source = t.String()
		}
		rows = append(rows, row)
	}

	// The endpoint already ordered by name; re-sorting keeps the
	// contract independent of endpoint quirks.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].Individual < rows[j].Individual
	})
	return rows, nil
}

// Close implements GraphDriver. knakk/sparql holds no persistent
// connection state.
func (d *EndpointDriver) Close(ctx context.Context) error { return nil }
