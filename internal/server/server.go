package server

import (
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/antifraudworks/schemefinder/internal/config"
	"github.com/antifraudworks/schemefinder/internal/core"
	"github.com/antifraudworks/schemefinder/internal/driver"
)

type Server struct {
	Config  *config.Config
	Session *core.Session
	Finder  *core.Finder

	logger    *slog.Logger
	uploadDir string
}

func NewServer() *Server {
	logger := slog.Default()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Warning: could not load %s: %v. Using defaults", cfgPath, err)
		cfg = config.Default()
	}

	// Override config with env vars if present
	if p := os.Getenv("PORT"); p != "" {
		cfg.Server.Port = p
	}
	if p := os.Getenv("ONTOLOGY_PATH"); p != "" {
		cfg.Ontology.DefaultPath = p
	}
	if p := os.Getenv("ACTIVITIES_PATH"); p != "" {
		cfg.Ontology.ActivitiesPath = p
	}
	if p := os.Getenv("SPARQL_ENDPOINT"); p != "" {
		cfg.SPARQL.Endpoint = p
	}

	var activities *core.ActivityMap
	if cfg.Ontology.ActivitiesPath != "" {
		activities, err = core.LoadActivities(cfg.Ontology.ActivitiesPath)
	} else {
		activities, err = core.NewActivityMap(core.DefaultActivities())
	}
	if err != nil {
		log.Fatalf("Failed to load activity mapping: %v", err)
	}

	session := core.NewSession(logger)
	if cfg.Ontology.WatchSource {
		if err := session.Watch(); err != nil {
			logger.Warn("Ontology watcher unavailable", "error", err)
		}
	}

	var d driver.GraphDriver
	if cfg.SPARQL.Endpoint != "" {
		d, err = driver.NewEndpointDriver(cfg.SPARQL.Endpoint, time.Duration(cfg.SPARQL.TimeoutSeconds)*time.Second)
		if err != nil {
			log.Fatalf("Failed to connect to SPARQL endpoint: %v", err)
		}
	} else {
		d = driver.NewMemoryDriver(session.Ensure)
	}

	finder := core.NewFinder(d, activities, logger)

	srv := &Server{
		Config:    cfg,
		Session:   session,
		Finder:    finder,
		logger:    logger,
		uploadDir: cfg.Ontology.UploadDir,
	}
	if srv.uploadDir == "" {
		srv.uploadDir = os.TempDir()
	}

	srv.loadDefaultOntology()
	return srv
}

// loadDefaultOntology installs the bundled ontology when it exists and
// nothing has been uploaded yet.
func (s *Server) loadDefaultOntology() {
	path := s.Config.Ontology.DefaultPath
	if path == "" || s.Session.Loaded() {
		return
	}
	if _, err := os.Stat(path); err != nil {
		s.logger.Info("No default ontology present", "path", path)
		return
	}
	g, err := s.Session.Load(path)
	if err != nil {
		ontologyLoads.WithLabelValues("error").Inc()
		s.logger.Warn("Failed to load default ontology", "path", path, "error", err)
		return
	}
	ontologyLoads.WithLabelValues("ok").Inc()
	ontologyTriples.Set(float64(g.Len()))
	if unknown := s.Finder.Activities().UnknownClasses(g); len(unknown) > 0 {
		s.logger.Warn("Activity mapping names classes absent from the ontology", "classes", unknown)
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/", s.Index)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.POST("/ontology", s.UploadOntology)
	api.GET("/ontology", s.GetOntology)
	api.POST("/ontology/reload", s.ReloadOntology)
	api.GET("/ontology/classes", s.OntologyClasses)
	api.GET("/ontology/stats", s.OntologyStats)
	api.GET("/activities", s.ListActivities)
	api.POST("/search", s.Search)

	return r
}
