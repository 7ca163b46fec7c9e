package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antifraudworks/schemefinder/internal/config"
	"github.com/antifraudworks/schemefinder/internal/core"
	"github.com/antifraudworks/schemefinder/internal/driver"
)

const serverFixture = `
@prefix gfo: <https://gaoinnovations.gov/antifraud_resource/howfraudworks/gfo/> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix dcterms: <http://purl.org/dc/terms/> .

gfo:FraudActivity a owl:Class ;
    rdfs:label "Fraud Activity" .

gfo:HealthcareFraud a owl:Class ;
    rdfs:subClassOf gfo:FraudActivity ;
    rdfs:label "Healthcare Fraud" .

gfo:FederalFraudScheme a owl:Class ;
    rdfs:label "Federal Fraud Scheme" .

gfo:involves a owl:ObjectProperty .

gfo:TestSchemeA a gfo:FederalFraudScheme , gfo:HealthcareFraud ;
    rdfs:label "Test Scheme A" ;
    dcterms:description "Phantom billing" .
`

func newTestServer(t *testing.T) (*Server, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	session := core.NewSession(nil)
	t.Cleanup(func() { session.Close() })

	activities, err := core.NewActivityMap(core.DefaultActivities())
	require.NoError(t, err)

	finder := core.NewFinder(driver.NewMemoryDriver(session.Ensure), activities, nil)
	srv := &Server{
		Config:    config.Default(),
		Session:   session,
		Finder:    finder,
		logger:    slog.Default(),
		uploadDir: t.TempDir(),
	}
	return srv, srv.SetupRouter()
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/ontology", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var payload map[string]any
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	}
	return rec, payload
}

func TestIndexServesUI(t *testing.T) {
	_, r := newTestServer(t)

	rec, _ := doJSON(t, r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Fraud Activity Search")
}

func TestListActivities(t *testing.T) {
	_, r := newTestServer(t)

	rec, payload := doJSON(t, r, http.MethodGet, "/api/activities", "")
	require.Equal(t, http.StatusOK, rec.Code)

	activities := payload["activities"].([]any)
	assert.Len(t, activities, 35)
	assert.Equal(t, "Public Emergency Fraud", activities[0])
}

func TestGetOntologyBeforeUpload(t *testing.T) {
	_, r := newTestServer(t)

	rec, _ := doJSON(t, r, http.MethodGet, "/api/ontology", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchWithoutOntology(t *testing.T) {
	_, r := newTestServer(t)

	rec, payload := doJSON(t, r, http.MethodPost, "/api/search", `{"activity":"Tax Fraud"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "No ontology loaded", payload["error"])
}

func TestUploadAndSearch(t *testing.T) {
	_, r := newTestServer(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, uploadRequest(t, "fixture.ttl", serverFixture))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var uploaded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploaded))
	assert.Equal(t, "fixture.ttl", uploaded["file"])
	assert.Equal(t, float64(12), uploaded["triples"])

	rec2, payload := doJSON(t, r, http.MethodPost, "/api/search", `{"activity":"Healthcare Fraud"}`)
	require.Equal(t, http.StatusOK, rec2.Code)
	assert.Equal(t, float64(1), payload["count"])

	results := payload["results"].([]any)
	first := results[0].(map[string]any)
	assert.Equal(t, "Test Scheme A", first["name"])
	assert.Equal(t, "Phantom billing", first["description"])
	assert.Equal(t, "No narrative available", first["narrative"])
	assert.Equal(t, "No source available", first["source"])
}

func TestSearchZeroMatches(t *testing.T) {
	_, r := newTestServer(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, uploadRequest(t, "fixture.ttl", serverFixture))
	require.Equal(t, http.StatusOK, rec.Code)

	rec2, payload := doJSON(t, r, http.MethodPost, "/api/search", `{"activity":"Wire Fraud"}`)
	require.Equal(t, http.StatusOK, rec2.Code)
	assert.Equal(t, float64(0), payload["count"])
	assert.Equal(t, "No Federal Fraud Schemes found for Wire Fraud", payload["message"])
}

func TestSearchUnknownActivity(t *testing.T) {
	_, r := newTestServer(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, uploadRequest(t, "fixture.ttl", serverFixture))
	require.Equal(t, http.StatusOK, rec.Code)

	rec2, _ := doJSON(t, r, http.MethodPost, "/api/search", `{"activity":"Horse Theft"}`)
	assert.Equal(t, http.StatusBadRequest, rec2.Code)
}

func TestSearchInvalidBody(t *testing.T) {
	_, r := newTestServer(t)

	rec, _ := doJSON(t, r, http.MethodPost, "/api/search", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec2, _ := doJSON(t, r, http.MethodPost, "/api/search", `{"activity":""}`)
	assert.Equal(t, http.StatusBadRequest, rec2.Code)
}

func TestUploadRejectsUnsupportedExtension(t *testing.T) {
	_, r := newTestServer(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, uploadRequest(t, "malware.exe", "zzz"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadMalformedOntology(t *testing.T) {
	srv, r := newTestServer(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, uploadRequest(t, "broken.ttl", "@prefix broken <"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.False(t, srv.Session.Loaded())
}

func TestUploadFailureKeepsPreviousGraph(t *testing.T) {
	srv, r := newTestServer(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, uploadRequest(t, "fixture.ttl", serverFixture))
	require.Equal(t, http.StatusOK, rec.Code)

	rec2 := httptest.NewRecorder()
	r.ServeHTTP(rec2, uploadRequest(t, "broken.ttl", "@prefix broken <"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec2.Code)

	assert.True(t, srv.Session.Loaded())
	assert.Equal(t, 12, srv.Session.TripleCount())
}

func TestOntologyStatsAndClasses(t *testing.T) {
	_, r := newTestServer(t)

	rec, _ := doJSON(t, r, http.MethodGet, "/api/ontology/stats", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	up := httptest.NewRecorder()
	r.ServeHTTP(up, uploadRequest(t, "fixture.ttl", serverFixture))
	require.Equal(t, http.StatusOK, up.Code)

	rec2, payload := doJSON(t, r, http.MethodGet, "/api/ontology/stats", "")
	require.Equal(t, http.StatusOK, rec2.Code)
	stats := payload["stats"].(map[string]any)
	assert.Equal(t, float64(12), stats["triples"])

	rec3, payload3 := doJSON(t, r, http.MethodGet, "/api/ontology/classes", "")
	require.Equal(t, http.StatusOK, rec3.Code)
	classes := payload3["classes"].([]any)
	assert.Contains(t, classes, "HealthcareFraud")
	assert.Contains(t, classes, "FederalFraudScheme")
}

func TestReloadOntology(t *testing.T) {
	_, r := newTestServer(t)

	rec, _ := doJSON(t, r, http.MethodPost, "/api/ontology/reload", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	up := httptest.NewRecorder()
	r.ServeHTTP(up, uploadRequest(t, "fixture.ttl", serverFixture))
	require.Equal(t, http.StatusOK, up.Code)

	rec2, payload := doJSON(t, r, http.MethodPost, "/api/ontology/reload", "")
	require.Equal(t, http.StatusOK, rec2.Code)
	assert.Equal(t, float64(12), payload["triples"])
}

func TestMetricsEndpoint(t *testing.T) {
	_, r := newTestServer(t)

	rec, _ := doJSON(t, r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "schemefinder_")
}
