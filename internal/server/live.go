package server

import (
	"encoding/base64"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/user/riskboard-go/internal/dashboard"
	"github.com/user/riskboard-go/internal/models"
)

const writeWait = 10 * time.Second

// Message types exchanged on the live channel.
const (
	MsgResize  = "resize"
	MsgRefresh = "refresh"
	MsgFrame   = "frame"
	MsgStats   = "stats"
	MsgError   = "error"
)

// ClientMessage is sent by the browser.
type ClientMessage struct {
	Type   string `json:"type"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// ServerMessage is pushed to the browser.
type ServerMessage struct {
	Type   string            `json:"type"`
	Chart  string            `json:"chart,omitempty"`
	PNG    string            `json:"png,omitempty"`
	Width  int               `json:"width,omitempty"`
	Height int               `json:"height,omitempty"`
	Stats  []models.StatCard `json:"stats,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// liveConn serializes writes to one websocket.
type liveConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *liveConn) send(msg ServerMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(msg)
}

// close sends a going-away close frame and closes the connection.
func (c *liveConn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	_ = c.conn.Close()
}

// checkViewport applies the chart image size limits to a browser viewport.
func checkViewport(width, height int) error {
	if width <= 0 || width > maxImageSide || height < 0 || height > maxImageSide {
		return errParamRange
	}
	return nil
}

// handleLive mounts the page for one browser. The page starts without a
// layout; charts attach on the first resize message carrying the window
// size. The session is unmounted when the connection closes.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	page, err := dashboard.Lookup(r.PathValue("name"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "page", page.Name, "error", err)
		return
	}
	lc := &liveConn{conn: conn}
	defer conn.Close()

	sess, err := dashboard.Mount(page, dashboard.Options{
		Engine: s.engine,
		Seed:   s.seed,
		Logger: s.logger,
		OnFrame: func(name string, f models.Frame) {
			err := lc.send(ServerMessage{
				Type:   MsgFrame,
				Chart:  name,
				PNG:    base64.StdEncoding.EncodeToString(f.Data),
				Width:  f.Width,
				Height: f.Height,
			})
			if err != nil {
				s.logger.Debug("frame push failed", "page", page.Name, "chart", name, "error", err)
			}
		},
	})
	if err != nil {
		_ = lc.send(ServerMessage{Type: MsgError, Error: err.Error()})
		return
	}
	s.track(sess, lc)
	defer func() {
		sess.Unmount()
		s.untrack(sess)
	}()

	if err := lc.send(ServerMessage{Type: MsgStats, Stats: sess.Stats()}); err != nil {
		return
	}

	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("websocket closed", "session", sess.ID(), "error", err)
			}
			return
		}

		switch msg.Type {
		case MsgResize:
			if err := checkViewport(msg.Width, msg.Height); err != nil {
				s.logger.Warn("rejected resize", "session", sess.ID(), "width", msg.Width, "height", msg.Height)
				if err := lc.send(ServerMessage{Type: MsgError, Error: "resize: " + err.Error()}); err != nil {
					return
				}
				continue
			}
			sess.Resize(msg.Width, msg.Height)
		case MsgRefresh:
			sess.Refresh()
			if err := lc.send(ServerMessage{Type: MsgStats, Stats: sess.Stats()}); err != nil {
				return
			}
		default:
			s.logger.Warn("unknown live message", "session", sess.ID(), "type", msg.Type)
			if err := lc.send(ServerMessage{Type: MsgError, Error: "unknown message type " + msg.Type}); err != nil {
				return
			}
		}
	}
}
