package server

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// anyOrigin in the allow-list admits every origin.
const anyOrigin = "*"

// normalizeOrigin reduces an origin to lower-case scheme://host[:port] so
// "http://LocalHost:5173/" and "http://localhost:5173" compare equal.
func normalizeOrigin(origin string) string {
	origin = strings.TrimSpace(origin)
	if origin == anyOrigin {
		return origin
	}
	u, err := url.Parse(origin)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return strings.ToLower(strings.TrimRight(origin, "/"))
	}
	return strings.ToLower(u.Scheme + "://" + u.Host)
}

func (s *Server) allowOrigin(origin string) bool {
	if _, ok := s.origins[anyOrigin]; ok {
		return true
	}
	_, ok := s.origins[normalizeOrigin(origin)]
	return ok
}

// cors answers preflight requests and tags responses for allow-listed
// browser origins. Requests without an Origin header pass untouched.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		h := w.Header()
		h.Add("Vary", "Origin")
		allowed := s.allowOrigin(origin)
		if allowed {
			h.Set("Access-Control-Allow-Origin", origin)
		}

		if r.Method != http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			writeAPIJSON(w, http.StatusForbidden, errorResponse{Error: "origin not allowed"})
			return
		}
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		h.Set("Access-Control-Max-Age", "600")
		w.WriteHeader(http.StatusNoContent)
	})
}

// statusWriter remembers the status code for the request log.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// logRequests writes one debug record per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		if sw.status == 0 {
			sw.status = http.StatusOK
		}
		s.logger.Debug("api request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", sw.status),
			slog.Duration("took", time.Since(start)))
	})
}
