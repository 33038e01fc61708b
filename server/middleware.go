package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/videocatcher/videocatcher/credential"
	"github.com/videocatcher/videocatcher/log"
	"golang.org/x/time/rate"
)

// UserCookie names the cookie carrying the opaque user identifier.
const UserCookie = "vc_uid"

type contextKey struct{ name string }

var userKey = &contextKey{"user"}

// userOf returns the identifier attached by identify.
func userOf(r *http.Request) string {
	user, _ := r.Context().Value(userKey).(string)
	return user
}

// identify attaches the caller's user identifier, issuing a new one when absent or malformed.
func (s *Server) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var user string
		if c, err := r.Cookie(UserCookie); err == nil && credential.ValidUser(c.Value) {
			user = c.Value
		} else {
			user = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     UserCookie,
				Value:    user,
				Path:     "/",
				MaxAge:   int((365 * 24 * time.Hour).Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

// limit rejects clients that start downloads faster than the configured rate.
func (s *Server) limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Rate > 0 && !s.limiter(clientIP(r)).Allow() {
			w.Header().Set("Retry-After", "1")
			s.fail(w, r, http.StatusTooManyRequests, "Too many requests, slow down.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) limiter(client string) *rate.Limiter {
	burst := s.Burst
	if burst <= 0 {
		burst = 1
	}

	s.limitersMu.Lock()
	defer s.limitersMu.Unlock()

	l, ok := s.limiters.Get(client)
	if !ok {
		l = rate.NewLimiter(s.Rate, burst)
	}
	// refreshed on every hit, so only idle clients are forgotten
	s.limiters.Set(client, l, cache.DefaultExpiration)
	return l.(*rate.Limiter)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// requestLogger writes one structured entry per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			log.WithFields(log.Fields{
				"request_id": middleware.GetReqID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"duration":   time.Since(start).Round(time.Millisecond).String(),
				"remote":     r.RemoteAddr,
			}).Info("request")
		}()

		next.ServeHTTP(ww, r)
	})
}
