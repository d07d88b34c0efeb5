package http

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/leo-ars/cfhoot/internal/coordinator"
	"github.com/rs/zerolog"
)

// connectionConfig mirrors mcdev12-dynasty's ConnectionConfig: the same
// write-deadline/ping-interval/read-limit knobs, applied here to a single
// game's WebSocket instead of a shared connection pool.
type connectionConfig struct {
	WriteTimeout   time.Duration
	ReadTimeout    time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64
}

func defaultConnectionConfig() connectionConfig {
	return connectionConfig{
		WriteTimeout:   10 * time.Second,
		ReadTimeout:    60 * time.Second,
		PingInterval:   30 * time.Second,
		MaxMessageSize: 8192,
	}
}

// wsConnection adapts a *websocket.Conn to coordinator.Connection: a
// buffered Send channel drained by a dedicated writer goroutine (so only
// one goroutine ever calls WriteMessage), plus a ping ticker and
// pong-driven read deadline to detect dead peers.
type wsConnection struct {
	conn   *websocket.Conn
	send   chan coordinator.OutboundMessage
	cfg    connectionConfig
	log    zerolog.Logger
	closed chan struct{}
}

func newWSConnection(conn *websocket.Conn, cfg connectionConfig, log zerolog.Logger) *wsConnection {
	return &wsConnection{
		conn:   conn,
		send:   make(chan coordinator.OutboundMessage, 64),
		cfg:    cfg,
		log:    log,
		closed: make(chan struct{}),
	}
}

// Send implements coordinator.Connection. It never blocks the caller (the
// Coordinator's single mailbox goroutine): a full buffer means a
// pathologically slow client, and it's better to drop a broadcast than to
// stall every other player's delivery.
func (c *wsConnection) Send(msg coordinator.OutboundMessage) {
	select {
	case c.send <- msg:
	case <-c.closed:
	default:
		c.log.Warn().Msg("dropping outbound message, send buffer full")
	}
}

// Close implements coordinator.Connection.
func (c *wsConnection) Close() {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}
}

// writePump is the only goroutine allowed to call WriteMessage/WriteJSON on
// this connection, per gorilla/websocket's single-writer requirement.
func (c *wsConnection) writePump() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.log.Debug().Err(err).Msg("ws write failed")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.Debug().Err(err).Msg("ws ping failed")
				return
			}
		case <-c.closed:
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// readPump blocks reading frames until the connection breaks, forwarding
// each text message to onMessage. Pongs refresh the read deadline so a
// connection that stops responding to pings gets reaped.
func (c *wsConnection) readPump(onMessage func(raw []byte), onClose func()) {
	defer func() {
		c.Close()
		c.conn.Close()
		onClose()
	}()

	c.conn.SetReadLimit(c.cfg.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		onMessage(message)
	}
}
