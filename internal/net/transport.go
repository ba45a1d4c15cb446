package net

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// sendBuffer is how many frames may queue for a slow viewer before older
// ones are dropped.
const sendBuffer = 4

// viewer is one connected watcher of the live page.
type viewer struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub fans composited PNG frames out to websocket viewers and serves the
// latest frame over plain HTTP. It never touches the session's buffers:
// frames arrive already encoded.
type Hub struct {
	mu       sync.RWMutex
	viewers  map[string]*viewer
	latest   []byte
	closed   bool
	upgrader websocket.Upgrader
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		viewers: make(map[string]*viewer),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Viewers returns the number of connected viewers.
func (h *Hub) Viewers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.viewers)
}

// Publish stores frame as the latest snapshot and queues it for every
// viewer. A viewer whose queue is full loses its oldest frame.
func (h *Hub) Publish(frame []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.latest = frame
	for _, v := range h.viewers {
		enqueue(v.send, frame)
	}
}

func enqueue(ch chan []byte, frame []byte) {
	for {
		select {
		case ch <- frame:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Handler serves GET /snapshot.png and the /live websocket.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/snapshot.png", h.serveSnapshot)
	mux.HandleFunc("/live", h.serveLive)
	return mux
}

func (h *Hub) serveSnapshot(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	frame := h.latest
	h.mu.RUnlock()
	if frame == nil {
		http.Error(w, "no page yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(frame)
}

func (h *Hub) serveLive(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[SHARE] upgrade from %s failed: %v", r.RemoteAddr, err)
		return
	}
	v := &viewer{id: uuid.NewString(), conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.viewers[v.id] = v
	if h.latest != nil {
		enqueue(v.send, h.latest)
	}
	h.mu.Unlock()
	log.Printf("[SHARE] viewer %s connected from %s", v.id, r.RemoteAddr)

	go h.writeLoop(v)
	h.readLoop(v)
}

// readLoop discards anything the viewer sends and returns once the
// connection drops.
func (h *Hub) readLoop(v *viewer) {
	defer h.remove(v)
	for {
		if _, _, err := v.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(v *viewer) {
	for frame := range v.send {
		_ = v.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := v.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			log.Printf("[SHARE] send to %s failed: %v", v.id, err)
			v.conn.Close()
			return
		}
	}
}

func (h *Hub) remove(v *viewer) {
	h.mu.Lock()
	if _, ok := h.viewers[v.id]; ok {
		delete(h.viewers, v.id)
		close(v.send)
	}
	h.mu.Unlock()
	v.conn.Close()
	log.Printf("[SHARE] viewer %s disconnected", v.id)
}

// Close disconnects every viewer and stops accepting new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	viewers := h.viewers
	h.viewers = make(map[string]*viewer)
	h.mu.Unlock()
	for _, v := range viewers {
		close(v.send)
		v.conn.Close()
	}
}

// Serve runs the hub's HTTP server on port until ctx is cancelled.
func Serve(ctx context.Context, port int, h *Hub) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", port, err)
	}
	srv := &http.Server{Handler: h.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		h.Close()
	}()
	log.Printf("[SHARE] serving live page on port %d", port)
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
