package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devgraph-ai/devgraph"
	"github.com/devgraph-ai/devgraph/pkg/config"
	"github.com/devgraph-ai/devgraph/pkg/server/handlers"
)

// Server represents the HTTP server
type Server struct {
	config *config.Config
	router *gin.Engine
	graph  devgraph.DevGraph
	server *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, client devgraph.DevGraph) *Server {
	return &Server{
		config: cfg,
		graph:  client,
	}
}

// Setup sets up the server routes and middleware
func (s *Server) Setup() {
	// Set gin mode
	gin.SetMode(s.config.Server.Mode)

	// Create router
	s.router = gin.New()

	// Add middleware
	s.router.Use(gin.Logger())
	s.router.Use(gin.Recovery())
	s.router.Use(corsMiddleware())

	// Setup routes
	s.setupRoutes()

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
}

// setupRoutes sets up all the routes
func (s *Server) setupRoutes() {
	// Create handlers
	healthHandler := handlers.NewHealthHandler(s.graph)
	ingestHandler := handlers.NewIngestHandler(s.graph)
	queryHandler := handlers.NewQueryHandler(s.graph)
	graphHandler := handlers.NewGraphHandler(s.graph)

	// Health endpoints
	s.router.GET("/health", healthHandler.HealthCheck)
	s.router.GET("/ready", healthHandler.ReadinessCheck)
	s.router.GET("/live", healthHandler.LivenessCheck)

	// API v1 routes
	v1 := s.router.Group("/api/v1")
	{
		// Ingest routes
		ingest := v1.Group("/ingest")
		{
			ingest.POST("", ingestHandler.IngestRecord)
			ingest.POST("/batch", ingestHandler.IngestBatch)
		}

		// Query and ripple routes
		v1.POST("/query", queryHandler.Query)
		v1.POST("/ripple", queryHandler.Ripple)

		// Graph routes
		v1.GET("/artifacts/:id", graphHandler.GetArtifact)
		v1.GET("/artifacts/:id/neighbors", graphHandler.GetNeighbors)
		v1.POST("/artifacts", graphHandler.AddArtifact)
		v1.POST("/relationships", graphHandler.AddRelationship)
		v1.GET("/stats", graphHandler.GetStats)
	}
}

// Router returns the underlying router, exposed for handler tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the server
func (s *Server) Start() error {
	fmt.Printf("Starting server on %s\n", s.server.Addr)
	return s.server.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	fmt.Println("Stopping server...")
	return s.server.Shutdown(ctx)
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
