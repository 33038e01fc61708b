// Package server exposes the service over HTTP: the download form and API, per-user cookie
// uploads, the administrator cookie panel and operational endpoints.
package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
	"github.com/videocatcher/videocatcher/auth"
	"github.com/videocatcher/videocatcher/catcher"
	"github.com/videocatcher/videocatcher/credential"
	"github.com/videocatcher/videocatcher/history"
	"github.com/videocatcher/videocatcher/key"
	"github.com/videocatcher/videocatcher/log"
	"github.com/videocatcher/videocatcher/where"
	"golang.org/x/time/rate"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"since": func(t time.Time) string {
		return time.Since(t).Round(time.Minute).String()
	},
}).ParseFS(templateFS, "templates/*.html"))

// Server holds the HTTP surface and its session state.
type Server struct {
	Service     *catcher.Service
	History     *history.Log
	Credentials *credential.Store
	// Downloads is the directory persisted downloads are written to and served from.
	Downloads string

	AdminPassword  string
	UploadToken    string
	SessionTTL     time.Duration
	MaxUploadBytes int64

	// Rate and Burst bound how often one client may start a download.
	Rate  rate.Limit
	Burst int

	sessions   *cache.Cache
	limiters   *cache.Cache
	limitersMu sync.Mutex
}

// New returns a server over service configured by the server.* and admin.* settings.
// Admin secrets left empty in the configuration are read from the system keyring.
func New(service *catcher.Service) *Server {
	ttl := time.Duration(viper.GetInt(key.AdminSessionMinutes)) * time.Minute

	return &Server{
		Service:        service,
		History:        history.Default(),
		Credentials:    service.Credentials,
		Downloads:      where.Downloads(),
		AdminPassword:  auth.Resolve(auth.AdminPassword, viper.GetString(key.AdminPassword)),
		UploadToken:    auth.Resolve(auth.UploadToken, viper.GetString(key.AdminUploadToken)),
		SessionTTL:     ttl,
		MaxUploadBytes: viper.GetInt64(key.ServerMaxUploadBytes),
		Rate:           rate.Limit(viper.GetFloat64(key.ServerRateLimit)),
		Burst:          viper.GetInt(key.ServerBurst),
		sessions:       cache.New(ttl, 10*time.Minute),
		limiters:       cache.New(10*time.Minute, 10*time.Minute),
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.identify)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/files/{name}", s.handleFile)

	r.With(s.limit).Get("/download", s.handleDownload)
	r.With(s.limit).Post("/download", s.handleDownload)
	r.Post("/cookies", s.handleCookieUpload)

	r.Route("/api", func(r chi.Router) {
		r.With(s.limit).Post("/resolve", s.handleResolve)
		r.With(s.limit).Post("/download", s.handlePersist)
		r.Get("/history", s.handleHistory)
		r.Get("/cookies", s.handleCookieStatus)
		r.Post("/cookies", s.handleCookieUpload)
		r.Delete("/cookies", s.handleCookieDelete)
		r.Post("/upload_cookies", s.handleTokenUpload)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Get("/login", s.handleLoginPage)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Get("/", s.handleAdmin)
			r.Post("/cookies", s.handleAdminUpload)
			r.Delete("/cookies", s.handleAdminDelete)
			r.Post("/cookies/delete", s.handleAdminDelete)
		})
	})

	return r
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
