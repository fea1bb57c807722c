package stream

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kirinyoku/courtgo/internal/domain"
)

const (
	sendBuffer = 64
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 512
)

// Peer is one websocket subscriber.
type Peer struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Hub fans session change notifications out to every connected peer.
type Hub struct {
	mu       sync.RWMutex
	peers    map[*Peer]struct{}
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}

	return &Hub{
		peers:  make(map[*Peer]struct{}),
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Any origin may subscribe.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Register adds a peer and returns the function that removes it.
func (h *Hub) Register(conn *websocket.Conn) (*Peer, func()) {
	conn.SetReadLimit(maxMsgSize)

	p := &Peer{
		Conn: conn,
		Send: make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	h.peers[p] = struct{}{}
	h.mu.Unlock()

	h.logger.Debug("stream peer registered", "remote", conn.RemoteAddr().String())

	var once sync.Once
	return p, func() { once.Do(func() { h.unregister(p) }) }
}

func (h *Hub) unregister(p *Peer) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.peers, p)
	close(p.Send)

	h.logger.Debug("stream peer unregistered", "remote", p.Conn.RemoteAddr().String())
}

// Broadcast queues data for every peer. A peer whose buffer is full misses
// the message instead of stalling the publisher.
func (h *Hub) Broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for p := range h.peers {
		select {
		case p.Send <- data:
		default:
			h.logger.Warn("stream peer send buffer full", "remote", p.Conn.RemoteAddr().String())
		}
	}
}

// PublishSessionChanged broadcasts msg as JSON.
func (h *Hub) PublishSessionChanged(_ context.Context, msg domain.SessionChanged) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.Broadcast(b)

	return nil
}

func (h *Hub) PeerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// Serve upgrades the request and streams notifications until the peer leaves.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	peer, cleanup := h.Register(conn)

	go h.writePump(peer)

	h.readPump(peer)
	cleanup()
}

// readPump drains client frames so control messages are processed and a
// closed connection is noticed.
func (h *Hub) readPump(p *Peer) {
	defer func() {
		_ = p.Conn.Close()
	}()

	_ = p.Conn.SetReadDeadline(time.Now().Add(pongWait))
	p.Conn.SetPongHandler(func(string) error {
		return p.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := p.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Debug("stream read error", "error", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(p *Peer) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = p.Conn.Close()
	}()

	for {
		select {
		case data, ok := <-p.Send:
			_ = p.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = p.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := p.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = p.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
