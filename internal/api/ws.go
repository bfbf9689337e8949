package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"mimir/internal/engine/depth"
)

// fillBroadcaster fans out each tick's OrderResults to every connected
// /ws/fills client. It is a supplemental feature beyond spec.md's
// minimum façade: a harness can observe fills as they're produced
// instead of polling GET /tick.
type fillBroadcaster struct {
	mu      sync.RWMutex
	clients map[*wsClient]bool
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

func newFillBroadcaster() *fillBroadcaster {
	return &fillBroadcaster{clients: make(map[*wsClient]bool)}
}

func (b *fillBroadcaster) register(c *wsClient) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clients[c] = true
}

func (b *fillBroadcaster) unregister(c *wsClient) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		close(c.send)
	}
}

func (b *fillBroadcaster) broadcast(results []depth.OrderResult) {
	if len(results) == 0 {
		return
	}
	dtos := make([]resultDTO, len(results))
	for i, r := range results {
		dtos[i] = resultToDTO(r)
	}
	data, err := json.Marshal(dtos)
	if err != nil {
		log.Error().Err(err).Msg("api: failed to marshal fill broadcast")
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for c := range b.clients {
		select {
		case c.send <- data:
		default:
			log.Warn().Msg("api: ws client too slow, dropping")
		}
	}
}

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (s *Server) handleWSFills(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("api: ws upgrade failed")
		return
	}

	client := &wsClient{conn: conn, send: make(chan []byte, 64)}
	s.fills.register(client)

	go client.writePump()
	go client.readPump(s.fills)
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains the connection (fills are one-way) so a dead socket
// is noticed via the read-side error instead of only on write failure.
func (c *wsClient) readPump(b *fillBroadcaster) {
	defer func() {
		b.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}
