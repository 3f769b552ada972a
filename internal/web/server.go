// Package web streams the display to browsers over WebSocket and receives
// remote keypad input.
//
// Server to client messages are binary: MessageFrame followed by the frame
// packed as 1 bit per pixel, row major, most significant bit first.
// Client to server messages are binary: MessageKey, key, state (0 released,
// 1 pressed).
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/keyboard"
	"github.com/retroenv/retrogolib/log"
)

// Message types.
const (
	MessageFrame byte = 1
	MessageKey   byte = 2
)

// FrameSize is the size of a packed frame in bytes.
const FrameSize = display.Width * display.Height / 8

const (
	sendBufferSize  = 8
	writeTimeout    = time.Second
	shutdownTimeout = 2 * time.Second
)

// Frame is the read only view of the display that is published.
type Frame interface {
	Pixels() [display.Width * display.Height]bool
	Checksum() uint64
}

// Server is the WebSocket frontend.
type Server struct {
	logger   *log.Logger
	keys     *keyboard.Keypad
	upgrader websocket.Upgrader

	mu       sync.Mutex
	clients  map[*client]struct{}
	frame    []byte // last published message
	checksum uint64
}

// NewServer returns a new server that forwards remote key events to keys.
func NewServer(logger *log.Logger, keys *keyboard.Keypad) *Server {
	s := &Server{
		logger:  logger,
		keys:    keys,
		clients: make(map[*client]struct{}),
		frame:   append([]byte{MessageFrame}, make([]byte, FrameSize)...),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  64,
		WriteBufferSize: 1 + FrameSize,
		CheckOrigin:     func(*http.Request) bool { return true },
	}
	return s
}

// Handler returns the HTTP handler serving the viewer page on / and the
// WebSocket endpoint on /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.serveIndex)
	mux.HandleFunc("/ws", s.serveWebSocket)
	return mux
}

// ListenAndServe serves the handler on addr until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve serves the handler on the listener until the context is cancelled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		s.closeClients()
	}()

	s.logger.Info("Serving web frontend", log.String("address", listener.Addr().String()))
	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving http: %w", err)
	}
	return nil
}

// Publish sends the frame to all clients if it changed since the last call.
// It is called from the scheduler goroutine once per tick.
func (s *Server) Publish(frame Frame) {
	checksum := frame.Checksum()

	s.mu.Lock()
	defer s.mu.Unlock()

	if checksum == s.checksum {
		return
	}
	s.checksum = checksum
	s.frame = packFrame(frame.Pixels())

	for c := range s.clients {
		select {
		case c.send <- s.frame:
		default:
			// slow clients skip frames
		}
	}
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) serveWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Upgrading connection failed", log.Err(err))
		return
	}

	c := &client{
		server: s,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
	}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	c.send <- s.frame
	s.mu.Unlock()

	s.logger.Debug("Client connected", log.String("remote", r.RemoteAddr))

	go c.writePump()
	go c.readPump()
}

func (s *Server) unregister(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[c]; !ok {
		return
	}
	delete(s.clients, c)
	close(c.send)

	// keys held by the last client would otherwise stay pressed
	if len(s.clients) == 0 {
		s.keys.ReleaseAll()
	}
}

func (s *Server) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for c := range s.clients {
		delete(s.clients, c)
		close(c.send)
	}
}

// handleMessage applies a key event received from a client.
func (s *Server) handleMessage(message []byte) {
	if len(message) != 3 || message[0] != MessageKey {
		s.logger.Debug("Ignoring invalid client message", log.Int("length", len(message)))
		return
	}
	key, state := message[1], message[2]
	if key >= keyboard.KeyCount {
		return
	}
	s.keys.Set(key, state != 0)
}

// packFrame returns a frame message with 8 pixels per byte.
func packFrame(pixels [display.Width * display.Height]bool) []byte {
	buf := make([]byte, 1+FrameSize)
	buf[0] = MessageFrame
	for i, on := range pixels {
		if on {
			buf[1+i/8] |= 0x80 >> (i % 8)
		}
	}
	return buf
}
