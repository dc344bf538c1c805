package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"crowdpong/internal/app"
	"crowdpong/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Client represents a WebSocket client connection
type Client struct {
	conn    *websocket.Conn
	session *app.Session
	id      string
	send    chan []byte
	done    chan struct{}
	logger  *slog.Logger
	mu      sync.Mutex
	closed  bool

	// set by admin:join; only touched by the read pump
	admin bool
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, session *app.Session, id string, logger *slog.Logger) *Client {
	return &Client{
		conn:    conn,
		session: session,
		id:      id,
		send:    make(chan []byte, sendBufferSize),
		done:    make(chan struct{}),
		logger:  logger.With("clientID", id),
	}
}

// ID implements app.ClientConnection interface
func (c *Client) ID() string {
	return c.id
}

// Send implements app.ClientConnection interface. It never blocks; when the
// buffer is full the message is dropped.
func (c *Client) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		c.logger.Warn("send buffer full, message dropped")
		return nil
	}
}

// Close implements app.ClientConnection interface
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's write pump and reads until the connection ends
func (c *Client) Run(ctx context.Context) {
	go c.writePump()
	c.readPump(ctx)
}

// readPump pumps messages from the WebSocket connection
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		leaveCtx, cancel := context.WithTimeout(context.Background(), writeWait)
		defer cancel()
		if err := c.session.Leave(leaveCtx, c.id); err != nil && !errors.Is(err, app.ErrSessionClosed) {
			c.logger.Warn("failed to leave session", "error", err)
		}
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "error", err)
			}
			break
		}

		if err := c.handleMessage(ctx, message); errors.Is(err, app.ErrSessionClosed) {
			break
		}
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes an incoming message from the client. Only a closed
// session is reported back to the read pump.
func (c *Client) handleMessage(ctx context.Context, data []byte) error {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid message format")
		return nil
	}

	var err error
	switch msg.Type {
	case MsgJoin:
		err = c.handleJoin(ctx, msg.Payload)
	case MsgInput:
		err = c.handleInput(ctx, msg.Payload)
	case MsgRelease:
		err = c.session.Release(ctx, c.id)
	case MsgStart:
		err = c.handleStart(ctx, msg.Payload)
	case MsgPause:
		err = c.handleAdmin(ctx, app.ActionPause, "")
	case MsgResume:
		err = c.handleAdmin(ctx, app.ActionResume, "")
	case MsgReset:
		err = c.handleAdmin(ctx, app.ActionReset, "")
	case MsgResetPlayers:
		err = c.handleAdmin(ctx, app.ActionResetPlayers, "")
	case MsgDisplayJoin:
		err = c.session.Observe(ctx, app.GroupDisplays, c)
	case MsgAdminJoin:
		c.admin = true
		err = c.session.Observe(ctx, app.GroupAdmins, c)
	case MsgDiagJoin:
		err = c.session.Observe(ctx, app.GroupDiagnostics, c)
	case MsgPing:
		c.sendMessage(MsgPong, nil)
	default:
		c.sendError(ErrCodeUnknownType, "Unknown message type")
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, app.ErrSessionClosed):
		return err
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrUnknownParticipant),
		errors.Is(err, domain.ErrInvalidDirection):
		c.logger.Debug("message ignored", "type", msg.Type, "error", err)
	default:
		c.logger.Warn("message failed", "type", msg.Type, "error", err)
		c.sendError(ErrCodeInternalError, "Message could not be processed")
	}
	return nil
}

// handleJoin handles a join message; the nickname is optional
func (c *Client) handleJoin(ctx context.Context, raw json.RawMessage) error {
	var payload JoinPayload
	if err := decodePayload(raw, &payload); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return nil
	}

	_, err := c.session.Join(ctx, c, payload.Nickname)
	return err
}

// handleInput handles an input message. Unknown directions are dropped.
func (c *Client) handleInput(ctx context.Context, raw json.RawMessage) error {
	var payload InputPayload
	if err := decodePayload(raw, &payload); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return nil
	}

	dir, err := domain.ParseDirection(payload.Direction)
	if err != nil {
		return err
	}
	return c.session.Input(ctx, c.id, dir)
}

// handleStart handles a start message with an optional topology
func (c *Client) handleStart(ctx context.Context, raw json.RawMessage) error {
	var payload StartPayload
	if err := decodePayload(raw, &payload); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return nil
	}

	var topology domain.Topology
	if payload.Topology != "" {
		t, err := domain.ParseTopology(payload.Topology)
		if err != nil {
			c.sendError(ErrCodeInvalidAction, "Unknown control topology")
			return nil
		}
		topology = t
	}
	return c.handleAdmin(ctx, app.ActionStart, topology)
}

// handleAdmin forwards a lifecycle command from an admin connection
func (c *Client) handleAdmin(ctx context.Context, action app.AdminAction, topology domain.Topology) error {
	if !c.admin {
		c.sendError(ErrCodeNotAdmin, "Only admins can control the match")
		return nil
	}
	return c.session.Admin(ctx, action, topology)
}

// sendMessage encodes and queues a message for this client only
func (c *Client) sendMessage(msgType MessageType, payload interface{}) {
	data, err := json.Marshal(NewServerMessage(msgType, payload))
	if err != nil {
		c.logger.Error("failed to encode message", "type", msgType, "error", err)
		return
	}
	c.Send(data)
}

// sendError sends an error message to the client
func (c *Client) sendError(code, message string) {
	c.sendMessage(MsgError, &ErrorPayload{
		Code:    code,
		Message: message,
	})
}
