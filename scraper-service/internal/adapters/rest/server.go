package rest

import (
	"context"
	"net/http"

	"github.com/open-ssl/krisha/pkg/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	httpServer *http.Server
	logger     logging.LoggerPort
}

func NewServer(port string, filtersHandler *FilterHandler, baseLogger logging.LoggerPort) *Server {
	r := chi.NewRouter()

	r.Use(LoggerMiddleware(baseLogger), middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/filters", filtersHandler.CreateFilter)
		r.Get("/filters", filtersHandler.ListFilters)
		// внутренний роут для notification-service
		r.Get("/filters/active", filtersHandler.ListActiveFilters)
		r.Delete("/filters/{filterID}", filtersHandler.DeleteFilter)
	})

	return &Server{
		httpServer: &http.Server{
			Addr:    ":" + port,
			Handler: r,
		},
		logger: baseLogger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST server", logging.Fields{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST server...", nil)
	return s.httpServer.Shutdown(ctx)
}
