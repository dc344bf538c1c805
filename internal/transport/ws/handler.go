package ws

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"crowdpong/internal/app"
)

// Handler handles WebSocket connections
type Handler struct {
	session  *app.Session
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(session *app.Session, logger *slog.Logger) *Handler {
	return &Handler{
		session: session,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Phones join from whatever origin the QR code led them to
				return true
			},
		},
		logger: logger,
	}
}

// ServeHTTP upgrades the request and serves the connection until it closes.
// Every connection gets a fresh id; its role is decided by the first messages it sends.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := NewClient(conn, h.session, clientID, h.logger)

	h.logger.Info("websocket connected", "clientID", clientID, "remote", r.RemoteAddr)

	client.Run(r.Context())

	h.logger.Info("websocket disconnected", "clientID", clientID)
}
