// internal/adapters/in/http/admin/handler/feed_handler.go
package adminHandler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	notifdom "github.com/tisoftshake/softshake/internal/domain/notification"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

// FeedHandler upgrades GET /admin/ws and pushes every change signal as
// {"kind": "...", "at": "..."}. Clients re-fetch the affected list on each message.
type FeedHandler struct {
	feed     notifdom.Feed
	upgrader websocket.Upgrader
	clients  atomic.Int64
}

// NewFeedHandler allows origins from the same list as CORS; "*" allows any.
func NewFeedHandler(feed notifdom.Feed, allowedOrigins []string) *FeedHandler {
	allowed := map[string]bool{}
	for _, o := range allowedOrigins {
		allowed[strings.TrimRight(strings.TrimSpace(o), "/")] = true
	}
	return &FeedHandler{
		feed: feed,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || allowed["*"] {
					return true
				}
				return allowed[strings.TrimRight(origin, "/")]
			},
		},
	}
}

// Clients is the number of open sockets.
func (h *FeedHandler) Clients() int64 { return h.clients.Load() }

func (h *FeedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.feed == nil {
		http.Error(w, "change feed is not configured", http.StatusServiceUnavailable)
		return
	}

	// Subscribe before upgrading so a feed error can still answer over plain HTTP.
	ctx, cancel := context.WithCancel(context.Background())
	events, err := h.feed.Subscribe(ctx)
	if err != nil {
		cancel()
		log.Printf("[admin.ws] WARN: subscribe failed: %v", err)
		http.Error(w, "change feed unavailable", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		cancel()
		log.Printf("[admin.ws] WARN: upgrade failed: %v", err)
		return
	}

	n := h.clients.Add(1)
	log.Printf("[admin.ws] client connected remote=%s clients=%d", r.RemoteAddr, n)

	go h.readPump(conn, cancel)
	h.writePump(ctx, conn, events)

	cancel()
	_ = conn.Close()
	n = h.clients.Add(-1)
	log.Printf("[admin.ws] client disconnected remote=%s clients=%d", r.RemoteAddr, n)
}

// readPump only watches for close and pong frames; inbound messages are ignored.
func (h *FeedHandler) readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	conn.SetReadLimit(512)
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

func (h *FeedHandler) writePump(ctx context.Context, conn *websocket.Conn, events <-chan notifdom.Event) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(wsWriteWait))
			return

		case e, ok := <-events:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed closed"), time.Now().Add(wsWriteWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(e); err != nil {
				return
			}

		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}
