package handlers

import (
	"net/http"
	"time"

	"github.com/agromanage/agromanage/internal/realtime"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Non-browser clients send no Origin.
	if origin == "" {
		return true
	}

	for _, allowed := range h.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}

	return false
}

// AlertStream upgrades the request and keeps the connection registered with
// the hub until the client goes away.
func (h *Handler) AlertStream(c *gin.Context) {
	upgrader := websocket.Upgrader{CheckOrigin: h.checkOrigin}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}

	conn.SetReadLimit(realtime.MaxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(realtime.PongWait)); err != nil {
		h.Logger.Warn("Failed to set initial read deadline", zap.Error(err))
		conn.Close()
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(realtime.PongWait))
	})

	client := h.Hub.Register(conn)
	defer h.Hub.Unregister(client)

	err = client.WriteJSON(realtime.Event{
		Type:    realtime.EventConnected,
		Message: "Subscribed to weather alerts",
	})
	if err != nil {
		h.Logger.Warn("Failed to send welcome message", zap.Error(err))
		return
	}

	done := make(chan struct{})
	defer close(done)

	go func() {
		ticker := time.NewTicker(realtime.PingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := client.WritePing(); err != nil {
					return
				}
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.Logger.Info("Websocket closed unexpectedly", zap.Error(err))
			}
			return
		}
	}
}
