package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antifraudworks/schemefinder/internal/core/model"
	"github.com/antifraudworks/schemefinder/internal/driver"
)

type fakeDriver struct {
	rows      []driver.Row
	err       error
	lastClass string
}

func (f *fakeDriver) FindSchemes(ctx context.Context, activityClass string) ([]driver.Row, error) {
	f.lastClass = activityClass
	return f.rows, f.err
}

func (f *fakeDriver) Close(ctx context.Context) error { return nil }

func testFinder(t *testing.T, d driver.GraphDriver) *Finder {
	t.Helper()
	am, err := NewActivityMap(DefaultActivities())
	require.NoError(t, err)
	return NewFinder(d, am, nil)
}

func TestSearchMapsLabelToClass(t *testing.T) {
	fake := &fakeDriver{}
	f := testFinder(t, fake)

	_, err := f.Search(context.Background(), "Healthcare Fraud")
	require.NoError(t, err)
	assert.Equal(t, "HealthcareFraud", fake.lastClass)
}

func TestSearchUnknownLabel(t *testing.T) {
	f := testFinder(t, &fakeDriver{})

	_, err := f.Search(context.Background(), "Horse Theft")
	assert.ErrorIs(t, err, ErrUnknownActivity)
}

func TestSearchAppliesSentinels(t *testing.T) {
	fake := &fakeDriver{rows: []driver.Row{
		{
			Individual: "https://gaoinnovations.gov/antifraud_resource/howfraudworks/gfo/SchemeX",
			Name:       "Scheme X",
		},
	}}
	f := testFinder(t, fake)

	results, err := f.Search(context.Background(), "Tax Fraud")
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "Scheme X", results[0].Name)
	assert.Equal(t, "SchemeX", results[0].LocalName)
	assert.Equal(t, model.NoDescription, results[0].Description)
	assert.Equal(t, model.NoNarrative, results[0].Narrative)
	assert.Equal(t, model.NoSource, results[0].Source)
}

func TestSearchKeepsBoundFields(t *testing.T) {
	fake := &fakeDriver{rows: []driver.Row{
		{
			Individual:  "https://example.gov/SchemeY",
			Name:        "Scheme Y",
			Description: "desc",
			Narrative:   "narr",
			Source:      "https://example.gov/report",
		},
	}}
	f := testFinder(t, fake)

	results, err := f.Search(context.Background(), "Wire Fraud")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "desc", results[0].Description)
	assert.Equal(t, "narr", results[0].Narrative)
	assert.Equal(t, "https://example.gov/report", results[0].Source)
}

func TestSearchEmptyResultIsNotAnError(t *testing.T) {
	f := testFinder(t, &fakeDriver{})

	results, err := f.Search(context.Background(), "Mail Fraud")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchTranslatesMissingGraph(t *testing.T) {
	f := testFinder(t, &fakeDriver{err: driver.ErrNoGraph})

	_, err := f.Search(context.Background(), "Tax Fraud")
	assert.ErrorIs(t, err, ErrNoOntology)
}

func TestSearchPropagatesDriverErrors(t *testing.T) {
	boom := errors.New("endpoint unreachable")
	f := testFinder(t, &fakeDriver{err: boom})

	_, err := f.Search(context.Background(), "Tax Fraud")
	assert.ErrorIs(t, err, boom)
}
