package server

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/antifraudworks/schemefinder/internal/core"
)

// acceptedExtensions mirrors the uploader's file-type allowlist.
var acceptedExtensions = map[string]bool{
	".owl":    true,
	".rdf":    true,
	".xml":    true,
	".ttl":    true,
	".nt":     true,
	".n3":     true,
	".jsonld": true,
}

// UploadOntology receives a multipart ontology file, parses it, and
// installs it as the session graph. A parse failure keeps the previous
// graph.
func (s *Server) UploadOntology(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: expected a 'file' form field"})
		return
	}

	name := filepath.Base(file.Filename)
	if !acceptedExtensions[strings.ToLower(filepath.Ext(name))] {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Unsupported file type '%s'", filepath.Ext(name)),
			"hint":  "Supported formats: OWL, RDF, TTL, NT, N3, JSON-LD",
		})
		return
	}

	dst := filepath.Join(s.uploadDir, name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		s.logger.Error("Failed to save upload", "file", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save uploaded file"})
		return
	}

	g, err := s.Session.Load(dst)
	if err != nil {
		ontologyLoads.WithLabelValues("error").Inc()
		s.logger.Warn("Failed to load ontology", "file", name, "error", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": fmt.Sprintf("Error loading ontology: %s", err),
		})
		return
	}

	ontologyLoads.WithLabelValues("ok").Inc()
	ontologyTriples.Set(float64(g.Len()))
	if unknown := s.Finder.Activities().UnknownClasses(g); len(unknown) > 0 {
		s.logger.Warn("Activity mapping names classes absent from the ontology", "classes", unknown)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"file":    name,
		"triples": g.Len(),
		"session": s.Session.ID,
	})
}

// GetOntology reports the currently loaded graph.
func (s *Server) GetOntology(c *gin.Context) {
	if !s.Session.Loaded() {
		c.JSON(http.StatusNotFound, gin.H{"error": "No ontology loaded", "hint": "Upload an ontology file to begin"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"file":      filepath.Base(s.Session.Path()),
		"triples":   s.Session.TripleCount(),
		"loaded_at": s.Session.LoadedAt().Format(time.RFC3339),
		"session":   s.Session.ID,
	})
}

// ReloadOntology re-parses the current source file on demand.
func (s *Server) ReloadOntology(c *gin.Context) {
	g, err := s.Session.Reload()
	if err != nil {
		if errors.Is(err, core.ErrNoOntology) {
			c.JSON(http.StatusConflict, gin.H{"error": "No ontology loaded", "hint": "Upload an ontology file first"})
			return
		}
		ontologyLoads.WithLabelValues("error").Inc()
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fmt.Sprintf("Error reloading ontology: %s", err)})
		return
	}
	ontologyLoads.WithLabelValues("ok").Inc()
	ontologyTriples.Set(float64(g.Len()))
	c.JSON(http.StatusOK, gin.H{"status": "success", "triples": g.Len()})
}

// OntologyClasses lists the declared owl:Class local names.
func (s *Server) OntologyClasses(c *gin.Context) {
	g := s.Session.Graph()
	if g == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No ontology loaded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"classes":    g.Classes(),
		"predicates": g.PredicateNames(),
	})
}

// OntologyStats reports graph-level counts.
func (s *Server) OntologyStats(c *gin.Context) {
	g := s.Session.Graph()
	if g == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No ontology loaded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": g.Stats()})
}

// ListActivities returns the dropdown labels in mapping order.
func (s *Server) ListActivities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"activities": s.Finder.Activities().Labels()})
}

type SearchRequest struct {
	Activity string `json:"activity"`
}

// Search runs the scheme query for the selected activity label.
func (s *Server) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Activity == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please select a fraud activity type"})
		return
	}

	start := time.Now()
	results, err := s.Finder.Search(c.Request.Context(), req.Activity)
	searchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		switch {
		case errors.Is(err, core.ErrUnknownActivity):
			schemeSearches.WithLabelValues("bad_request").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unknown fraud activity %q", req.Activity)})
		case errors.Is(err, core.ErrNoOntology):
			schemeSearches.WithLabelValues("no_ontology").Inc()
			c.JSON(http.StatusConflict, gin.H{"error": "No ontology loaded", "hint": "Upload an ontology file first"})
		default:
			schemeSearches.WithLabelValues("error").Inc()
			s.logger.Error("Search failed", "activity", req.Activity, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": fmt.Sprintf("SPARQL query failed: %s", err),
				"hint":  "Make sure your ontology file is properly loaded",
			})
		}
		return
	}

	schemeSearches.WithLabelValues("ok").Inc()
	message := fmt.Sprintf("Found %d Federal Fraud Schemes related to %s", len(results), req.Activity)
	if len(results) == 0 {
		message = fmt.Sprintf("No Federal Fraud Schemes found for %s", req.Activity)
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(results),
		"message": message,
		"results": results,
	})
}
