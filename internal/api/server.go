package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"fleet-tyre-manager/internal/auth"
	"fleet-tyre-manager/internal/db"
	"fleet-tyre-manager/internal/models"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type contextKey string

const userIDKey contextKey = "user_id"

// Server represents the API server
type Server struct {
	db        *db.Database
	router    *mux.Router
	log       *logrus.Logger
	jwtSecret string
	tokenTTL  time.Duration
}

// NewServer creates a new API server
func NewServer(database *db.Database, log *logrus.Logger, jwtSecret string) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{
		db:        database,
		router:    mux.NewRouter(),
		log:       log,
		jwtSecret: jwtSecret,
		tokenTTL:  24 * time.Hour,
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.Use(s.loggingMiddleware)
	s.router.Use(jsonMiddleware)
	s.router.Use(corsMiddleware)

	// Routes are registered per method, so a browser preflight OPTIONS
	// lands here instead of in the middleware chain.
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Public
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/api/v1/auth/register", s.handleRegister).Methods("POST")
	s.router.HandleFunc("/api/v1/auth/login", s.handleLogin).Methods("POST")

	// Everything below requires a bearer token
	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.Use(s.authMiddleware)

	// Fleets and membership
	api.HandleFunc("/fleets", s.handleListFleets).Methods("GET")
	api.HandleFunc("/fleets", s.handleCreateFleet).Methods("POST")
	api.HandleFunc("/fleets/{id}", s.handleGetFleet).Methods("GET")
	api.HandleFunc("/fleets/{id}", s.handleDeleteFleet).Methods("DELETE")
	api.HandleFunc("/fleets/{id}/members", s.handleListMembers).Methods("GET")
	api.HandleFunc("/fleets/{id}/members", s.handleAddMember).Methods("POST")
	api.HandleFunc("/fleets/{id}/members/{userID}", s.handleRemoveMember).Methods("DELETE")

	// Vehicles
	api.HandleFunc("/fleets/{id}/vehicles", s.handleListVehicles).Methods("GET")
	api.HandleFunc("/fleets/{id}/vehicles", s.handleCreateVehicle).Methods("POST")
	api.HandleFunc("/vehicles/{id}", s.handleGetVehicle).Methods("GET")
	api.HandleFunc("/vehicles/{id}", s.handleUpdateVehicle).Methods("PUT")
	api.HandleFunc("/vehicles/{id}", s.handleDeleteVehicle).Methods("DELETE")
	api.HandleFunc("/vehicles/{id}/layout", s.handleVehicleLayout).Methods("GET")
	api.HandleFunc("/positions", s.handlePositionOptions).Methods("GET")
	api.HandleFunc("/vehicle-types", s.handleVehicleTypes).Methods("GET")

	// Tyres
	api.HandleFunc("/fleets/{id}/tyres", s.handleListTyres).Methods("GET")
	api.HandleFunc("/fleets/{id}/tyres", s.handleCreateTyre).Methods("POST")
	api.HandleFunc("/tyres/{id}", s.handleGetTyre).Methods("GET")
	api.HandleFunc("/tyres/{id}", s.handleUpdateTyre).Methods("PUT")
	api.HandleFunc("/tyres/{id}", s.handleDeleteTyre).Methods("DELETE")
	api.HandleFunc("/tyres/{id}/fit", s.handleFitTyre).Methods("POST")
	api.HandleFunc("/tyres/{id}/remove", s.handleRemoveTyre).Methods("POST")

	// Stock
	api.HandleFunc("/fleets/{id}/stock", s.handleListStock).Methods("GET")
	api.HandleFunc("/fleets/{id}/stock", s.handleCreateStockItem).Methods("POST")
	api.HandleFunc("/stock/{id}", s.handleUpdateStockItem).Methods("PUT")
	api.HandleFunc("/stock/{id}", s.handleDeleteStockItem).Methods("DELETE")
	api.HandleFunc("/stock/{id}/fit", s.handleFitFromStock).Methods("POST")

	// Analytics
	api.HandleFunc("/fleets/{id}/analytics/costs", s.handleCostAnalytics).Methods("GET")
	api.HandleFunc("/fleets/{id}/analytics/tread", s.handleTreadAnalytics).Methods("GET")

	// Stats
	api.HandleFunc("/stats", s.handleStats).Methods("GET")
}

// Router returns the configured router
func (s *Server) Router() *mux.Router {
	return s.router
}

// Middleware

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		}).Info("request")
	})
}

func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := auth.ParseToken(s.jwtSecret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentUserID returns the authenticated user from the request context.
func currentUserID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

// requireMember checks the caller's role in the fleet and writes the error
// response itself when access is denied. write=true demands manager or
// owner; ownerOnly additionally restricts to the owner role.
func (s *Server) requireMember(w http.ResponseWriter, r *http.Request, fleetID string, write, ownerOnly bool) bool {
	role, err := s.db.GetMemberRole(fleetID, currentUserID(r))
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusForbidden, "not a member of this fleet")
		return false
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return false
	}
	if ownerOnly && role != models.RoleOwner {
		respondError(w, http.StatusForbidden, "owner role required")
		return false
	}
	if write && role == models.RoleViewer {
		respondError(w, http.StatusForbidden, "write access required")
		return false
	}
	return true
}

// Response helpers
type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Meta    *meta       `json:"meta,omitempty"`
}

type meta struct {
	Total  int `json:"total,omitempty"`
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiResponse{Success: true, Data: data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiResponse{Success: false, Error: message})
}

func respondWithMeta(w http.ResponseWriter, data interface{}, m *meta) {
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(apiResponse{Success: true, Data: data, Meta: m})
}

// respondNotFoundOr maps sql.ErrNoRows to 404 and anything else to 500.
func respondNotFoundOr(w http.ResponseWriter, err error, what string) {
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusNotFound, what+" not found")
		return
	}
	respondError(w, http.StatusInternalServerError, err.Error())
}

// Handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.GetStats()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
