package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/nickyhof/FlatDB/db"
	"github.com/nickyhof/FlatDB/logger"
	"github.com/nickyhof/FlatDB/op"
	"github.com/nickyhof/FlatDB/ps"
	"github.com/nickyhof/FlatDB/sql"
)

// NewHTTPHandler routes the HTTP API:
//
//	POST /query    {"query": "..."} -> Response
//	GET  /tables   -> Response with TablesResponse
//	GET  /healthz  -> {"status": "ok"}
func NewHTTPHandler(s *Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/tables", s.handleTables)
	r.Post("/query", s.handleQuery)

	return r
}

// requestID tags each request with a uuid, echoed in X-Request-ID and
// attached to the request context for logging.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), logger.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	identity, err := s.requestIdentity(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse("auth", err))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("", fmt.Errorf("invalid request body: %w", err)))
		return
	}

	ctx := context.WithValue(r.Context(), logger.UserKey, identity.String())
	logger.DebugContext(ctx, "http query", "query", req.Query)

	result, err := s.execute(ctx, identity, req.Query)
	if err != nil {
		writeJSON(w, statusFor(err), errorResponse("", err))
		return
	}
	writeJSON(w, http.StatusOK, resultResponse(result))
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requestIdentity(r); err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse("auth", err))
		return
	}

	names, err := op.GetCatalog(s.instance.Storage).TableNames(r.Context())
	if errors.Is(err, ps.ErrNotSupported) {
		writeJSON(w, http.StatusNotImplemented, errorResponse("tables", err))
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("tables", err))
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, successResponse("tables", TablesResponse{Tables: names}))
}

// statusFor maps a statement error to an HTTP status.
func statusFor(err error) int {
	var parseErr *sql.ParseError
	var evalErr *db.EvaluationError
	switch {
	case errors.As(err, &parseErr), errors.As(err, &evalErr):
		return http.StatusBadRequest
	case errors.Is(err, ps.ErrTableNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}
