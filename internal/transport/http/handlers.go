package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"crowdpong/internal/app"
)

const (
	defaultQRSize = 256
	minQRSize     = 128
	maxQRSize     = 1024
)

// Response is the envelope for API errors
type Response struct {
	Success bool       `json:"success"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is the response for health check
type HealthResponse struct {
	Status string `json:"status"`
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, &HealthResponse{
		Status: "ok",
	})
}

// handleState handles GET /api/state
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	info, err := s.session.Status(r.Context())
	if err != nil {
		if errors.Is(err, app.ErrSessionClosed) {
			s.sendError(w, http.StatusServiceUnavailable, "SESSION_CLOSED", "Match is not running")
			return
		}
		s.logger.Warn("state query failed", "error", err)
		s.sendError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}

	s.sendJSON(w, &info)
}

// handleQR handles GET /api/qr, a PNG of the player join URL
func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	size := defaultQRSize
	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < minQRSize || n > maxQRSize {
			s.sendError(w, http.StatusBadRequest, "INVALID_SIZE", "size must be between 128 and 1024")
			return
		}
		size = n
	}

	png, err := s.qr.Encode(s.joinURL(r), size)
	if err != nil {
		s.logger.Error("failed to encode qr code", "error", err)
		s.sendError(w, http.StatusInternalServerError, "QR_FAILED", "Failed to render QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}

// joinURL is PUBLIC_URL when set, otherwise derived from the request
func (s *Server) joinURL(r *http.Request) string {
	if s.config.Server.PublicURL != "" {
		return strings.TrimRight(s.config.Server.PublicURL, "/") + "/"
	}

	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/"
}

// handleStatic serves static files
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	// Strip /static/ prefix
	path := strings.TrimPrefix(r.URL.Path, "/static/")

	file, err := s.webFS.Open("static/" + path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil || stat.IsDir() {
		http.NotFound(w, r)
		return
	}

	seeker, ok := file.(io.ReadSeeker)
	if !ok {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, stat.Name(), stat.ModTime(), seeker)
}

// handlePage serves one of the embedded HTML pages
func (s *Server) handlePage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, err := s.webFS.Open(name)
		if err != nil {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		defer file.Close()

		stat, err := file.Stat()
		if err != nil {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}

		seeker, ok := file.(io.ReadSeeker)
		if !ok {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		http.ServeContent(w, r, name, stat.ModTime(), seeker)
	}
}

// sendJSON writes a JSON body with status 200
func (s *Server) sendJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

// sendError sends an error JSON response
func (s *Server) sendError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}
