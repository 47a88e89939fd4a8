package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	priceStreamPushInterval = 5 * time.Second
	priceStreamWriteWait    = 10 * time.Second
	priceStreamPongWait     = 60 * time.Second
)

var priceStreamUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handlePriceStream upgrades the connection and pushes the full price snapshot
// on an interval until the client disconnects. Reads are drained only to
// service pong frames and detect closure.
func (s *Server) handlePriceStream(c *gin.Context) {
	conn, err := priceStreamUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Warn("Price stream upgrade failed", zap.Error(err))
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(priceStreamPongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(priceStreamPongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					zap.L().Debug("Price stream read error", zap.Error(err))
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(priceStreamPushInterval)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	push := func() error {
		conn.SetWriteDeadline(time.Now().Add(priceStreamWriteWait))
		return conn.WriteJSON(gin.H{"prices": s.poller.Snapshots()})
	}

	if err := push(); err != nil {
		return
	}

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			conn.SetWriteDeadline(time.Now().Add(priceStreamWriteWait))
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return
		case <-ticker.C:
			if err := push(); err != nil {
				return
			}
		}
	}
}
