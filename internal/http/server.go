package http

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	applog "expbook/internal/log"
	"expbook/internal/middleware/security"
	"expbook/internal/middleware/trace"
	"expbook/internal/services"
)

type Server struct {
	http.Server
	expenses  *services.ExpenseService
	logger    *applog.Logger
	tracer    *trace.Middleware
	startedAt time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
// Forwarding headers are honoured only from trustedProxies.
func NewServer(addr string, trustedProxies []*net.IPNet, expenses *services.ExpenseService, logger *applog.Logger) *Server {
	if logger == nil {
		logger = applog.FromContext(context.Background())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		expenses:  expenses,
		logger:    logger,
		tracer:    trace.NewMiddleware(trace.NewClientIP(trustedProxies).FromRequest, logger),
		startedAt: time.Now(),
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /summary", s.handleSummary)
	mux.HandleFunc("GET /expenses", s.handleListExpenses)
	mux.HandleFunc("POST /expenses", s.handleCreateExpense)
	mux.HandleFunc("GET /expenses/{id}", s.handleGetExpense)
	mux.HandleFunc("PUT /expenses/{id}", s.handleUpdateExpense)
	mux.HandleFunc("DELETE /expenses/{id}", s.handleDeleteExpense)

	// Edit and delete need a selected expense.
	mux.HandleFunc("GET /expenses/{$}", handleNoSelection)
	mux.HandleFunc("PUT /expenses/{$}", handleNoSelection)
	mux.HandleFunc("DELETE /expenses/{$}", handleNoSelection)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	var handler http.Handler = mux
	handler = applog.RequestIDMiddleware(trace.FromRequest)(handler)
	handler = applog.Middleware(logger)(handler)
	handler = headers.Middleware(handler)
	handler = s.tracer.Middleware(handler)
	s.Handler = handler

	return s
}

// Metrics returns the request counters collected by the trace middleware.
func (s *Server) Metrics() trace.Metrics {
	return s.tracer.GetMetrics()
}

// Shutdown gracefully shuts down the server and releases the expense service.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		shutdownErr = s.Server.Shutdown(ctx)
		if err := s.expenses.Close(); err != nil {
			s.logger.WarnContext(ctx, "Failed to close expense service",
				applog.FieldError, err.Error(),
				applog.FieldOperation, applog.OpShutdown)
		}
	})

	return shutdownErr
}
