package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/chaintrack-labs/chaintrack-go/pkg/batch"
	"github.com/chaintrack-labs/chaintrack-go/pkg/persistence"
	"github.com/chaintrack-labs/chaintrack-go/pkg/verification"
)

/*
Server exposes the read side of chaintrack over HTTP. Nothing here writes to
the ledger; batches and movements are created through the CLI.

Routes:

	GET  /verify?productId=&batchCode=
	  - Consumer verification, the target of every product's QR code
	  - Always 200 with a verification result unless the check itself failed

	GET  /batches
	GET  /batches/{batchCode}
	  - Batch with its product count and movement history

	GET  /batches/{batchCode}/products/{productId}/proof
	  - The stored inclusion proof {leaf, proof, root}

	POST /proofs/verify
	  - Request: { leaf, proof, root, batchCode? }
	  - Standalone check, plus the ledger root check when batchCode is given
	  - Malformed digests are rejected with 400

	GET  /health
	  - Persistence health

Errors are JSON {"error": "..."}. An unreachable ledger maps to 503 so
clients can tell it apart from a failed verification.
*/
type Server struct {
	store      persistence.IBatchPersistence
	manager    *batch.Manager
	verifier   *verification.Verifier
	logger     *zap.Logger
	httpServer *http.Server
}

// NewServer creates a new server instance
func NewServer(
	store persistence.IBatchPersistence,
	manager *batch.Manager,
	verifier *verification.Verifier,
	port int,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		store:    store,
		manager:  manager,
		verifier: verifier,
		logger:   logger,
	}

	router := mux.NewRouter()
	router.Use(s.logRequests)

	router.HandleFunc("/verify", s.handleVerify).Methods(http.MethodGet)

	router.HandleFunc("/batches", s.handleListBatches).Methods(http.MethodGet)
	router.HandleFunc("/batches/{batchCode}", s.handleGetBatch).Methods(http.MethodGet)
	router.HandleFunc("/batches/{batchCode}/products/{productId}/proof", s.handleGetProof).Methods(http.MethodGet)

	router.HandleFunc("/proofs/verify", s.handleVerifyProof).Methods(http.MethodPost)

	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start starts the HTTP server in the background
func (s *Server) Start() error {
	go func() {
		s.logger.Sugar().Infow("Starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Sugar().Errorw("HTTP server error", "error", err)
		}
	}()
	return nil
}

// Stop gracefully shuts the server down
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// GetHandler returns the HTTP handler (for testing)
func (s *Server) GetHandler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Sugar().Debugw("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start).String(),
		)
	})
}
