package api

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/thenoetrevino/listboard/internal/notify"
	"github.com/thenoetrevino/listboard/internal/reorder"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
	wsToastQueue = 16
)

// Push is one websocket message. Board pushes carry the whole board;
// toast pushes carry a notification.
type Push struct {
	Type     string         `json:"type"`
	Board    *reorder.Board `json:"board,omitempty"`
	Severity string         `json:"severity,omitempty"`
	Message  string         `json:"message,omitempty"`
}

const (
	PushBoard = "board"
	PushToast = "toast"
)

func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  4 * 1024,
		WriteBufferSize: 32 * 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || slices.Contains(s.origins, origin) {
				return true
			}
			return strings.Contains(origin, "://"+strings.TrimSpace(r.Host))
		},
	}
}

// websocket streams the caller's board: once on connect, then after every
// change, with toasts interleaved as they are shown.
func (s *Server) websocket(c *gin.Context) {
	b, ok := s.board(c)
	if !ok {
		return
	}

	upgrader := s.upgrader()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already answered the request
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	dirty := make(chan struct{}, 1)
	markDirty := func() {
		select {
		case dirty <- struct{}{}:
		default:
		}
	}
	toasts := make(chan notify.Message, wsToastQueue)

	stopChanges := b.OnChange(markDirty)
	defer stopChanges()
	stopToasts := b.Notifier.AddSink(notify.FuncSink(func(m notify.Message) {
		select {
		case toasts <- m:
		default:
			// A slow client drops toasts rather than stalling the board
		}
	}))
	defer stopToasts()

	go readPump(conn, cancel)

	markDirty()
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		var push Push
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(wsWriteWait))
			return
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
			continue
		case <-dirty:
			snap := b.Snapshot()
			push = Push{Type: PushBoard, Board: &snap}
		case m := <-toasts:
			push = Push{Type: PushToast, Severity: m.Severity.String(), Message: m.Text}
		}

		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(push); err != nil {
			s.logger.Debug("websocket closed", "user_id", string(userID(c)), "error", err)
			return
		}
	}
}

// readPump discards client frames and cancels once the peer goes away
func readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	conn.SetReadLimit(4 * 1024)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
