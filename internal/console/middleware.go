package console

import (
	"net/http"
	"time"

	"github.com/follysitou/sygpress-console/internal/logging"
)

// responseWriter captures the status code for request logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// tracingMiddleware assigns every request a trace ID and logs it on
// completion.
func tracingMiddleware(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get("X-Trace-ID")
			if traceID == "" {
				traceID = logging.NewTraceID()
			}
			ctx := logging.WithTraceID(r.Context(), traceID)
			w.Header().Set("X-Trace-ID", traceID)

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(rw, r.WithContext(ctx))

			logger.LogRequest(ctx, r.Method, r.URL.Path, rw.statusCode, time.Since(start))
		})
	}
}

// identityMiddleware copies the session identity into the request context
// so log lines carry the acting user.
func (s *Server) identityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sess, ok := s.store.Current(); ok {
			ctx := r.Context()
			ctx = contextWithUser(ctx, sess.UserID, sess.Role.String())
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}
