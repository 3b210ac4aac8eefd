package api

import (
	"database/sql"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/railops/rake-planner/internal/config"
	"github.com/railops/rake-planner/internal/db"
	"github.com/railops/rake-planner/internal/planner"
	"github.com/railops/rake-planner/internal/queue"
	"github.com/railops/rake-planner/internal/services"
	"github.com/rs/cors"
)

// Server wires the HTTP surface over the planning engine, reference-data
// store and job queue.
type Server struct {
	config          *config.Config
	db              *db.Queries
	rawDB           *sql.DB
	router          *mux.Router
	natsManager     *queue.Manager
	registry        *planner.Registry
	auditService    *services.AuditService
	settingsService *services.SettingsService
	rateLimiter     *services.RateLimiterService
	validator       *requestValidator
	jobSlots        chan struct{}
}

// NewServer creates a new API server instance.
func NewServer(cfg *config.Config, queries *db.Queries, natsManager *queue.Manager, database *sql.DB, rateLimiter *services.RateLimiterService) *Server {
	auditService := services.NewAuditService(queries)
	settingsService := services.NewSettingsService(queries, auditService)

	s := &Server{
		config:          cfg,
		db:              queries,
		rawDB:           database,
		router:          mux.NewRouter(),
		natsManager:     natsManager,
		registry:        planner.NewRegistry(),
		auditService:    auditService,
		settingsService: settingsService,
		rateLimiter:     rateLimiter,
		validator:       newRequestValidator(),
		jobSlots:        make(chan struct{}, cfg.MaxConcurrentJobs),
	}

	s.setupRoutes()
	return s
}

// Router returns the configured HTTP router wrapped in CORS middleware.
func (s *Server) Router() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{s.config.CORSAllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: s.config.CORSAllowCredentials,
		MaxAge:           300,
	})

	return c.Handler(s.router)
}

func (s *Server) setupRoutes() {
	s.router.Use(s.recoveryMiddleware)
	s.router.Use(s.loggingMiddleware)

	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	api.HandleFunc("/jobs", s.handleCreateJob).Methods("POST")
	api.HandleFunc("/jobs", s.handleListJobs).Methods("GET")
	api.HandleFunc("/jobs/{id}", s.handleGetJob).Methods("GET")
	api.HandleFunc("/jobs/{id}/cancel", s.handleCancelJob).Methods("POST")
	api.HandleFunc("/jobs/{id}/progress", s.handleJobProgressSSE).Methods("GET")

	api.HandleFunc("/plans/{id}", s.handleGetPlan).Methods("GET")
	api.HandleFunc("/plans/{id}/commit", s.handleCommitPlan).Methods("POST")
	api.HandleFunc("/plans/{id}/explain", s.handleExplainPlan).Methods("GET")

	api.HandleFunc("/orders", s.handleListOrders).Methods("GET")
	api.HandleFunc("/orders", s.handleUpsertOrder).Methods("POST")
	api.HandleFunc("/orders/import", s.handleImportOrdersCSV).Methods("POST")

	api.HandleFunc("/stockyards", s.handleListStockyards).Methods("GET")
	api.HandleFunc("/rakes", s.handleListRakes).Methods("GET")

	api.HandleFunc("/products", s.handleListProducts).Methods("GET")
	api.HandleFunc("/products", s.handleUpsertProduct).Methods("POST")
	api.HandleFunc("/products/{code}", s.handleDeleteProduct).Methods("DELETE")

	api.HandleFunc("/wagon-types", s.handleListWagonTypes).Methods("GET")
	api.HandleFunc("/wagon-types", s.handleUpsertWagonType).Methods("POST")

	api.HandleFunc("/loading-points", s.handleListLoadingPoints).Methods("GET")
	api.HandleFunc("/compatibility", s.handleListCompatibility).Methods("GET")

	api.HandleFunc("/settings", s.handleListSettings).Methods("GET")
	api.HandleFunc("/settings/{key}", s.handleUpsertSetting).Methods("PUT")

	api.HandleFunc("/audit-logs", s.handleListAuditLogs).Methods("GET")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
