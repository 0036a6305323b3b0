package activity

import (
	"context"
	"log/slog"
	"time"

	"github.com/coder/websocket"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/vrcadmin/internal/hub"
)

const (
	sendBuffer   = 16
	writeTimeout = 10 * time.Second
)

// client is a middleman between one websocket connection and the hub.
type client struct {
	conn       *websocket.Conn
	hub        *hub.Hub
	subscriber *hub.Subscriber
	logger     *slog.Logger
}

// ServeWS upgrades the request and streams activity fragments until the
// browser disconnects.
func ServeWS(h *hub.Hub, logger *slog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		conn, err := websocket.Accept(c.Response(), c.Request(), nil)
		if err != nil {
			logger.Error("Failed to accept activity websocket", "error", err)
			return nil
		}

		sub := h.Join(sendBuffer)
		if sub == nil {
			conn.Close(websocket.StatusGoingAway, "shutting down")
			return nil
		}

		cl := &client{conn: conn, hub: h, subscriber: sub, logger: logger}
		ctx, cancel := context.WithCancel(c.Request().Context())
		defer cancel()

		go cl.writePump(ctx)
		cl.readPump(ctx)
		return nil
	}
}

// readPump discards inbound frames and returns when the connection ends.
// The htmx ws extension never needs to send on this socket.
func (cl *client) readPump(ctx context.Context) {
	defer func() {
		cl.hub.Leave(cl.subscriber)
		cl.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		if _, _, err := cl.conn.Read(ctx); err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				cl.logger.Debug("Activity websocket closed")
			} else if ctx.Err() == nil {
				cl.logger.Debug("Activity websocket read ended", "error", err)
			}
			return
		}
	}
}

// writePump forwards hub fragments to the connection until the subscriber is
// closed.
func (cl *client) writePump(ctx context.Context) {
	defer cl.conn.Close(websocket.StatusNormalClosure, "")

	for message := range cl.subscriber.Send {
		wctx, cancel := context.WithTimeout(ctx, writeTimeout)
		err := cl.conn.Write(wctx, websocket.MessageText, message)
		cancel()
		if err != nil {
			cl.logger.Debug("Activity websocket write failed", "error", err)
			return
		}
	}
}
