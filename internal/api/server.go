package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/handlers"
)

// handler wraps the routes with the middleware shared by every request,
// outermost first: request id, access log, proxy headers, CORS, panic
// recovery and session identification.
func (s *ForumApp) handler(mux *http.ServeMux, allowedOrigins []string) http.Handler {
	var h http.Handler = s.identify(mux)

	h = s.errorHandler(h)

	h = handlers.CORS(
		handlers.MaxAge(3600),
		handlers.AllowedOrigins(allowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept"}),
		handlers.AllowCredentials(),
	)(h)

	h = handlers.ProxyHeaders(h)

	if s.log != nil {
		h = handlers.CombinedLoggingHandler(s.log.Writer(), h)
	}

	return requestId(h)
}

func (s *ForumApp) Start() error {
	s.log.Printf("starting server on %s\n", s.srv.Addr)
	return s.srv.ListenAndServe()
}

func (s *ForumApp) Shutdown(ctx context.Context) error {
	s.log.Println("shutting down HTTP server...")
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
