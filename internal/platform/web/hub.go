// Package web serves blockfall over WebSocket. Each connection plays its
// own session; the browser sends raw touch, key, mouse and scroll events
// and receives every rendered frame.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/blockfall/internal/input"
	"github.com/vovakirdan/blockfall/internal/session"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Time allowed for the hello message after the upgrade.
	helloWait = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one WebSocket connection and the session it plays.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	sess   *session.Session
	logger *log.Logger
}

// Hub tracks the connected clients.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	count      chan chan int
	done       chan struct{}

	launcher session.Launcher
	logger   *log.Logger
}

// NewHub creates a hub that starts sessions with l.
func NewHub(l session.Launcher, logger *log.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		count:      make(chan chan int),
		done:       make(chan struct{}),
		launcher:   l,
		logger:     logger,
	}
}

// Run starts the hub's event loop. When ctx is cancelled every client is
// disconnected.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Info("client connected", "session", client.sess.ID(), "clients", len(h.clients))

		case client := <-h.unregister:
			h.unregisterClient(client)

		case reply := <-h.count:
			reply <- len(h.clients)

		case <-ctx.Done():
			for client := range h.clients {
				h.unregisterClient(client)
			}
			return
		}
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	reply := make(chan int)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.done:
		return 0
	}
}

// unregisterClient closes the client's session. The frame pump then closes
// the send buffer, which ends the write pump.
func (h *Hub) unregisterClient(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	client.sess.Close()
	h.logger.Info("client disconnected", "session", client.sess.ID(), "clients", len(h.clients))
}

// ServeWS upgrades the request, waits for the hello message and starts a
// session for the connection.
func (h *Hub) ServeWS(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	hello, err := readHello(conn)
	if err != nil {
		h.logger.Warn("bad hello", "remote", r.RemoteAddr, "error", err)
		writeError(conn, err.Error())
		conn.Close()
		return
	}

	variant := hello.Variant
	if variant == "" {
		variant = "classic"
	}
	player := hello.Player
	if player == "" {
		player = "guest"
	}

	sess, err := h.launcher.Launch(ctx, variant, player, input.Capabilities{Touch: hello.Touch})
	if err != nil {
		writeError(conn, err.Error())
		conn.Close()
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, 16),
		sess:   sess,
		logger: h.logger.With("session", sess.ID()),
	}
	client.queue(ServerMessage{Type: MsgWelcome, SessionID: sess.ID(), Variant: variant})

	select {
	case h.register <- client:
	case <-h.done:
		sess.Close()
		conn.Close()
		return
	}

	go client.writePump()
	go client.framePump()
	go client.readPump()
}

func readHello(conn *websocket.Conn) (ClientMessage, error) {
	conn.SetReadLimit(maxMessageSize)
	//nolint:errcheck // A failed deadline surfaces as a read error
	conn.SetReadDeadline(time.Now().Add(helloWait))

	var msg ClientMessage
	if err := conn.ReadJSON(&msg); err != nil {
		return msg, err
	}
	if msg.Type != MsgHello {
		return msg, &protocolError{want: MsgHello, got: msg.Type}
	}
	return msg, nil
}

type protocolError struct {
	want, got string
}

func (e *protocolError) Error() string {
	return "web: expected " + e.want + " message, got " + e.got
}

func writeError(conn *websocket.Conn, text string) {
	//nolint:errcheck // Best-effort notice before closing
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	//nolint:errcheck // Best-effort notice before closing
	conn.WriteJSON(ServerMessage{Type: MsgError, Error: text})
}

// queue marshals msg onto the send buffer. A full buffer drops the message;
// frames are snapshots, so the next one supersedes it.
func (c *Client) queue(msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("cannot marshal message", "type", msg.Type, "error", err)
		return
	}
	select {
	case c.send <- data:
	default:
		c.logger.Debug("send buffer full, dropping message", "type", msg.Type)
	}
}

// framePump forwards session frames until the session closes. It is the
// only sender on c.send once the client is registered.
func (c *Client) framePump() {
	defer close(c.send)
	for {
		select {
		case f := <-c.sess.Frames():
			c.queue(ServerMessage{Type: MsgFrame, Frame: framePayload(f)})
		case <-c.sess.Done():
			return
		}
	}
}

// readPump applies client messages to the session.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	//nolint:errcheck // A failed deadline surfaces as a read error
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket error", "error", err)
			}
			return
		}
		c.handle(msg)
	}
}

func (c *Client) handle(msg ClientMessage) {
	switch msg.Type {
	case MsgVisibility:
		c.sess.SetVisible(msg.Visible)
	case MsgRestart:
		c.sess.Restart()
	case MsgPause:
		c.sess.TogglePause()
	default:
		if ev, ok := inputEvent(msg); ok {
			c.sess.Emit(ev)
			return
		}
		c.logger.Debug("ignoring message", "type", msg.Type)
	}
}

// writePump pumps queued messages to the WebSocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			//nolint:errcheck // A failed deadline surfaces as a write error
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				//nolint:errcheck // Connection is closing anyway
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			//nolint:errcheck // A failed deadline surfaces as a write error
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
