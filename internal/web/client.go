package web

import (
	"time"

	"github.com/gorilla/websocket"
)

type client struct {
	server *Server
	conn   *websocket.Conn
	send   chan []byte
}

// readPump forwards key events until the connection is closed.
func (c *client) readPump() {
	defer func() {
		c.server.unregister(c)
		_ = c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.server.handleMessage(message)
	}
}

// writePump sends queued frames until the send channel is closed.
func (c *client) writePump() {
	defer func() { _ = c.conn.Close() }()

	for message := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
