// internal/server/handlers/websocket.go

package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// WebSocketConfig contains configuration for WebSocket connections
type WebSocketConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period
	PingPeriod time.Duration

	// Period between heartbeat frames when no events are flowing
	HeartbeatPeriod time.Duration
}

// DefaultWebSocketConfig returns the default WebSocket configuration
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		WriteWait:       10 * time.Second,
		PongWait:        60 * time.Second,
		PingPeriod:      (60 * time.Second * 9) / 10,
		HeartbeatPeriod: 30 * time.Second,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// In production, this should be more restrictive
		return true
	},
}

// trendStreamClient is one connected consumer of the resolution stream.
type trendStreamClient struct {
	conn   *websocket.Conn
	send   chan []byte
	sub    *nats.Subscription
	logger *zap.Logger
}

// TrendsWebSocketHandler streams resolution events to connected clients.
// Every resolution the server performs is forwarded as it is published on
// subject. With no NATS connection the stream degrades to heartbeats only.
func TrendsWebSocketHandler(natsConn *nats.Conn, subject string, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		client := &trendStreamClient{
			conn:   conn,
			send:   make(chan []byte, 256),
			logger: logger,
		}

		if natsConn != nil {
			sub, err := natsConn.Subscribe(subject, func(msg *nats.Msg) {
				select {
				case client.send <- msg.Data:
				default:
					// Slow consumer: drop rather than block the NATS callback.
				}
			})
			if err != nil {
				logger.Warn("resolution stream subscribe failed", zap.Error(err))
				conn.Close()
				return
			}
			client.sub = sub
		}

		go client.writePump()
		go client.readPump()

		welcome, _ := json.Marshal(map[string]any{
			"type":   "welcome",
			"stream": subject,
			"live":   natsConn != nil,
			"time":   time.Now().UTC(),
		})
		client.send <- welcome

		logger.Info("trend stream client connected",
			zap.String("remote", r.RemoteAddr),
			zap.Bool("live", natsConn != nil))
	}
}

// readPump consumes control frames; the stream is one-way so inbound data
// frames are discarded.
func (c *trendStreamClient) readPump() {
	config := DefaultWebSocketConfig()

	defer c.close()

	c.conn.SetReadLimit(1024)
	c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("trend stream read error", zap.Error(err))
			}
			return
		}
	}
}

// writePump forwards queued events and keeps the connection alive with
// pings and heartbeats.
func (c *trendStreamClient) writePump() {
	config := DefaultWebSocketConfig()
	pingTicker := time.NewTicker(config.PingPeriod)
	heartbeat := time.NewTicker(config.HeartbeatPeriod)
	defer func() {
		pingTicker.Stop()
		heartbeat.Stop()
		c.close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-heartbeat.C:
			beat, _ := json.Marshal(map[string]any{
				"type": "heartbeat",
				"time": time.Now().UTC(),
			})
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, beat); err != nil {
				return
			}

		case <-pingTicker.C:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *trendStreamClient) close() {
	if c.sub != nil {
		c.sub.Unsubscribe()
		c.sub = nil
	}
	c.conn.Close()
}
