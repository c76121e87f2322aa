package server

import (
	"net/http"
	"strconv"
	"time"

	"chirp/internal/auth"
)

// authedHandler is a handler that runs with a verified identity attached.
type authedHandler func(http.ResponseWriter, *http.Request, *auth.Claims)

// requireAuth is the session guard. A missing, empty or unverifiable token
// cookie is not an error: the request is redirected to the login entry
// point and the wrapped handler never runs.
func (s *Server) requireAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := s.currentClaims(r)
		if claims == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r, claims)
	}
}

// currentClaims returns the verified identity on the request, or nil.
func (s *Server) currentClaims(r *http.Request) *auth.Claims {
	cookie, err := r.Cookie(s.CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	claims, err := auth.Verify(s.secret, cookie.Value)
	if err != nil {
		return nil
	}
	return claims
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// instrument wraps the mux with request logging and prometheus counters.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		s.metrics.requests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		s.metrics.duration.WithLabelValues(r.Method).Observe(elapsed.Seconds())
		s.log.Info().
			Str("method", r.Method).
			Str("route", route).
			Int("status", rec.status).
			Dur("elapsed", elapsed).
			Msg("request")
	})
}
