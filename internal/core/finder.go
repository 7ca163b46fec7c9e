// Package core wires the ontology session, the activity mapping, and a
// graph driver into the scheme search operation.
package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/antifraudworks/schemefinder/internal/core/model"
	"github.com/antifraudworks/schemefinder/internal/driver"
)

// Finder resolves an activity label through the mapping, runs the
// scheme query on its driver, and maps rows into display records.
// It is stateless per invocation; all session state lives in Session.
type Finder struct {
	driver     driver.GraphDriver
	activities *ActivityMap
	logger     *slog.Logger
}

// NewFinder builds a Finder over the given driver and mapping.
func NewFinder(d driver.GraphDriver, activities *ActivityMap, logger *slog.Logger) *Finder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Finder{driver: d, activities: activities, logger: logger}
}

// Activities returns the finder's activity mapping.
func (f *Finder) Activities() *ActivityMap { return f.activities }

// Search returns the Federal Fraud Schemes related to the activity with
// the given display label, ordered by scheme name ascending. An empty
// result is not an error.
func (f *Finder) Search(ctx context.Context, label string) ([]model.SchemeResult, error) {
	class, ok := f.activities.ClassFor(label)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownActivity, label)
	}

	start := time.Now()
	rows, err := f.driver.FindSchemes(ctx, class)
	if err != nil {
		if errors.Is(err, driver.ErrNoGraph) {
			return nil, ErrNoOntology
		}
		return nil, err
	}

	results := make([]model.SchemeResult, 0, len(rows))
	for _, r := range rows {
		results = append(results, model.NewSchemeResult(r.Individual, r.Name, r.Description, r.Narrative, r.Source))
	}

	f.logger.Info("Scheme search completed",
		"activity", label,
		"class", class,
		"results", len(results),
		"duration", time.Since(start))
	return results, nil
}
