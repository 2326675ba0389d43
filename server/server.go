package server

import (
	"context"
	"crypto/subtle"
	"mime"
	"net"
	"net/http"
	"time"

	"github.com/0xPolygonHermez/zkevm-node/log"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/unidonate/unidonate-vault/metrics"
)

const (
	defaultReadTimeout       = 5 * time.Second
	defaultHeartbeatInterval = 30 * time.Second
	defaultHost              = "127.0.0.1"
	anyOrigin                = "*"
	shutdownTimeout          = 5 * time.Second
)

// Server exposes the vault hook over HTTP
type Server struct {
	cfg     Config
	hook    vaultHookInterface
	router  *mux.Router
	handler http.Handler
}

// NewServer creates the router for the hook
func NewServer(cfg Config, hook vaultHookInterface) *Server {
	if cfg.ReadTimeout.Duration <= 0 {
		cfg.ReadTimeout.Duration = defaultReadTimeout
	}
	if cfg.HeartbeatInterval.Duration <= 0 {
		cfg.HeartbeatInterval.Duration = defaultHeartbeatInterval
	}
	if cfg.Host == "" {
		cfg.Host = defaultHost
	}
	s := &Server{
		cfg:    cfg,
		hook:   hook,
		router: mux.NewRouter(),
	}
	s.setupRoutes()
	s.handler = s.router
	if cfg.AllowedOrigin != "" {
		s.handler = cors.New(cors.Options{
			AllowedOrigins: []string{cfg.AllowedOrigin},
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
		}).Handler(s.router)
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/vault/state", s.handleState).Methods(http.MethodGet)
	api.HandleFunc("/vault/stream", s.handleStream).Methods(http.MethodGet)

	writes := api.NewRoute().Subrouter()
	writes.HandleFunc("/vault/deposit", s.handleDeposit).Methods(http.MethodPost)
	writes.HandleFunc("/vault/withdraw", s.handleWithdraw).Methods(http.MethodPost)
	writes.HandleFunc("/vault/refetch", s.handleRefetch).Methods(http.MethodPost)
	writes.Use(s.writeGuardMiddleware)

	s.router.Use(s.loggingMiddleware)
}

// Handler returns the http handler with all the routes
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is done
func (s *Server) Run(ctx context.Context) error {
	if len(s.cfg.HTTPPort) == 0 {
		return errors.Errorf("invalid TCP port for HTTP server: '%s'", s.cfg.HTTPPort)
	}
	srv := &http.Server{
		Addr:        net.JoinHostPort(s.cfg.Host, s.cfg.HTTPPort),
		Handler:     s.handler,
		ReadTimeout: s.cfg.ReadTimeout.Duration,
		IdleTimeout: 60 * time.Second, //nolint:gomnd
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Infof("HTTP server listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "serving http")
	}
	return nil
}

// writeGuardMiddleware protects the routes that sign txs. Cross origin requests must come from
// the allowed origin and carry a JSON body, so a browser always sends a preflight first.
func (s *Server) writeGuardMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" && !s.originAllowed(origin) {
			writeJSON(w, http.StatusForbidden, errorResponse{Code: http.StatusForbidden, Message: "origin not allowed"})
			return
		}
		if s.cfg.AuthToken != "" {
			expected := []byte("Bearer " + s.cfg.AuthToken)
			if subtle.ConstantTimeCompare([]byte(r.Header.Get("Authorization")), expected) != 1 {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Code: http.StatusUnauthorized, Message: "missing or invalid token"})
				return
			}
		}
		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "application/json" {
			writeJSON(w, http.StatusUnsupportedMediaType, errorResponse{Code: http.StatusUnsupportedMediaType, Message: "content type must be application/json"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	return s.cfg.AllowedOrigin == anyOrigin || origin == s.cfg.AllowedOrigin
}

type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriterWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Flush keeps the stream handler working behind the wrapper
func (w *responseWriterWrapper) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		duration := time.Since(start)
		metrics.RecordRequest(route, wrapper.statusCode, duration)
		log.Debugf("%s %s %d %s", r.Method, r.URL.Path, wrapper.statusCode, duration)
	})
}
