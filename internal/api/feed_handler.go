package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"petshare-backend-go/internal/core"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// FeedHandler serves the feed snapshot and its live WebSocket stream.
type FeedHandler struct {
	feedService core.FeedService
	logger      *zap.Logger
	upgrader    websocket.Upgrader
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(feedService core.FeedService, logger *zap.Logger) *FeedHandler {
	return &FeedHandler{
		feedService: feedService,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The socket is guarded by the session middleware; origin
			// enforcement belongs to the CORS layer.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Snapshot handles GET /api/v1/feed: the current sorted feed plus the
// loading flag (true only until the first push has arrived).
func (h *FeedHandler) Snapshot(c *gin.Context) {
	posts, loading := h.feedService.Snapshot()
	c.JSON(http.StatusOK, FeedResponse{Posts: posts, Loading: loading})
}

// Stream handles GET /api/v1/feed/ws. Each connection gets the current
// snapshot immediately, then the full re-sorted list on every feed change.
// Exactly one feed subscription exists per connection, released on close.
func (h *FeedHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	id, updates := h.feedService.Subscribe()
	defer h.feedService.Unsubscribe(id)

	// Reader goroutine: we never expect client messages, but reading is
	// required to notice closes and answer pings.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	posts, loading := h.feedService.Snapshot()
	if err := h.write(conn, FeedResponse{Posts: posts, Loading: loading}); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case sorted, ok := <-updates:
			if !ok {
				return
			}
			if err := h.write(conn, FeedResponse{Posts: sorted}); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (h *FeedHandler) write(conn *websocket.Conn, payload FeedResponse) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(payload); err != nil {
		h.logger.Debug("Feed stream write failed; dropping client", zap.Error(err))
		return err
	}
	return nil
}
