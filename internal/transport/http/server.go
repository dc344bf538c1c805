package http

import (
	"bufio"
	"context"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"crowdpong/internal/app"
	"crowdpong/internal/config"
	"crowdpong/internal/transport/ws"
)

// Server represents the HTTP server
type Server struct {
	server  *http.Server
	session *app.Session
	config  *config.Config
	logger  *slog.Logger
	webFS   fs.FS
	qr      QREncoder
	limiter *ipLimiter
}

// NewServer creates a new HTTP server. webFS holds the pages at its root and
// assets under static/.
func NewServer(cfg *config.Config, session *app.Session, logger *slog.Logger, webFS fs.FS) *Server {
	s := &Server{
		session: session,
		config:  cfg,
		logger:  logger,
		webFS:   webFS,
		qr:      PNGEncoder{},
		limiter: newIPLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst),
	}

	s.server = &http.Server{
		Addr:        cfg.GetAddr(),
		Handler:     s.Handler(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	return s
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.setupRoutes(mux)
	return s.middleware(mux)
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux) {
	// API routes
	mux.Handle("GET /api/health", s.rateLimit(http.HandlerFunc(s.handleHealth)))
	mux.Handle("GET /api/state", s.rateLimit(http.HandlerFunc(s.handleState)))
	mux.Handle("GET /api/qr", s.rateLimit(http.HandlerFunc(s.handleQR)))

	// WebSocket
	wsHandler := ws.NewHandler(s.session, s.logger)
	mux.Handle("GET /ws", wsHandler)

	// Static files and pages
	mux.HandleFunc("GET /static/", s.handleStatic)
	mux.HandleFunc("GET /display", s.handlePage("display.html"))
	mux.HandleFunc("GET /admin", s.handlePage("admin.html"))
	mux.HandleFunc("GET /{$}", s.handlePage("index.html"))
}

// middleware wraps the handler with logging and other middleware
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Add CORS headers
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		// Wrap response writer to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		// Log request (skip static files in production)
		if s.config.IsDevelopment() || !isStaticRequest(r.URL.Path) {
			s.logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration", time.Since(start),
			)
		}
	})
}

// rateLimit rejects API requests over the per-client rate
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(clientIP(r)) {
			w.Header().Set("Retry-After", "1")
			s.sendError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("server starting", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.server.Shutdown(ctx)
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack implements http.Hijacker for WebSocket support
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

// Flush implements http.Flusher
func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// isStaticRequest checks if the request is for a static file
func isStaticRequest(path string) bool {
	return strings.HasPrefix(path, "/static/")
}

// clientIP returns the remote host without its port
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
