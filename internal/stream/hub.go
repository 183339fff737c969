// Package stream publishes a running simulation to WebSocket clients. A Hub
// is both the particle renderer and the chart surface of a controller:
// frames carry scaled positions, chart messages carry the full series of one
// chart.
package stream

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/san-kum/brownsim/internal/dynamo"
)

const (
	TypeFrame = "frame"
	TypeChart = "chart"
)

// Message is the JSON envelope sent to clients.
type Message struct {
	Type      string          `json:"type"`
	Frame     int             `json:"frame,omitempty"`
	Positions [][3]float64    `json:"positions,omitempty"`
	Chart     string          `json:"chart,omitempty"`
	Title     string          `json:"title,omitempty"`
	Series    []dynamo.Series `json:"series,omitempty"`
}

// clientQueue is the number of messages buffered per client.
const clientQueue = 64

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans simulation output out to every connected client. Render and Plot
// must be called from one goroutine, the one driving the controller. Neither
// blocks: each client has its own queue and a writer goroutine.
type Hub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]bool

	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	done       chan struct{}
	closeOnce  sync.Once
	wg         sync.WaitGroup
	writers    sync.WaitGroup

	chartMu    sync.Mutex
	charts     map[string][]byte
	pending    []string
	chartReady chan struct{}

	objects map[int]struct{}
	next    int
	frames  int
	dropped atomic.Int64
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Hub{
		logger:     logger,
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		charts:     make(map[string][]byte),
		chartReady: make(chan struct{}, 1),
		objects:    make(map[int]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}

	h.wg.Add(1)
	go h.run()

	return h
}

func (h *Hub) AddObject() int {
	h.next++
	h.objects[h.next] = struct{}{}
	return h.next
}

func (h *Hub) RemoveObject(id int) { delete(h.objects, id) }
func (h *Hub) LiveObjects() int    { return len(h.objects) }

// Dropped is the number of frames discarded because the hub queue or a
// client queue was full.
func (h *Hub) Dropped() int64 { return h.dropped.Load() }

func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Render queues a frame of the first LiveObjects() positions. Frames are
// dropped rather than stalling the simulation when clients fall behind.
func (h *Hub) Render(positions []dynamo.Vec3) {
	n := len(positions)
	if live := len(h.objects); n > live {
		n = live
	}
	h.frames++
	msg := Message{Type: TypeFrame, Frame: h.frames, Positions: make([][3]float64, 0, n)}
	for _, p := range positions[:n] {
		if p.IsValid() {
			msg.Positions = append(msg.Positions, [3]float64{p.X, p.Y, p.Z})
		}
	}

	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Debug("frame not encoded", "error", err)
		return
	}
	select {
	case h.broadcast <- data:
	case <-h.done:
	default:
		h.dropped.Add(1)
	}
}

// Plot stores the latest update of a chart and wakes the broadcaster.
// Updates to the same chart coalesce while the broadcaster is busy, and the
// latest update of every chart is replayed to clients when they connect.
func (h *Hub) Plot(chart dynamo.ChartID, series []dynamo.Series) error {
	data, err := json.Marshal(Message{Type: TypeChart, Chart: chart.String(), Title: chart.Title(), Series: series})
	if err != nil {
		return err
	}

	name := chart.String()
	h.chartMu.Lock()
	if !slices.Contains(h.pending, name) {
		h.pending = append(h.pending, name)
	}
	h.charts[name] = data
	h.chartMu.Unlock()

	select {
	case h.chartReady <- struct{}{}:
	default:
	}
	return nil
}

// ServeHTTP upgrades the request and keeps the client registered until it
// disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientQueue)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}
	h.logger.Debug("client connected", "remote", r.RemoteAddr)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	select {
	case h.unregister <- c:
	case <-h.done:
	}
	h.logger.Debug("client disconnected", "remote", r.RemoteAddr)
}

func (h *Hub) run() {
	defer h.wg.Done()
	for {
		select {
		case <-h.done:
			return

		case c := <-h.register:
			// Pending updates go out before the replay so the new client
			// sees each chart once.
			h.flushCharts()

			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
			h.writers.Add(1)
			go h.writeLoop(c)

			h.chartMu.Lock()
			replay := make([][]byte, 0, len(h.charts))
			for _, data := range h.charts {
				replay = append(replay, data)
			}
			h.chartMu.Unlock()
			for _, data := range replay {
				if !h.enqueue(c, data) {
					h.remove(c)
					break
				}
			}

		case c := <-h.unregister:
			h.remove(c)

		case <-h.chartReady:
			h.flushCharts()

		case data := <-h.broadcast:
			for _, c := range h.snapshot() {
				if !h.enqueue(c, data) {
					h.dropped.Add(1)
				}
			}
		}
	}
}

// flushCharts sends every pending chart update to the connected clients. A
// client too slow to take a chart update is disconnected.
func (h *Hub) flushCharts() {
	h.chartMu.Lock()
	updates := make([][]byte, 0, len(h.pending))
	for _, name := range h.pending {
		updates = append(updates, h.charts[name])
	}
	h.pending = h.pending[:0]
	h.chartMu.Unlock()

	if len(updates) == 0 {
		return
	}
	for _, c := range h.snapshot() {
		for _, data := range updates {
			if !h.enqueue(c, data) {
				h.logger.Warn("disconnecting slow client", "remote", c.conn.RemoteAddr())
				h.remove(c)
				break
			}
		}
	}
}

func (h *Hub) snapshot() []*client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	return clients
}

func (h *Hub) enqueue(c *client, data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (h *Hub) writeLoop(c *client) {
	defer h.writers.Done()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Debug("client write failed", "error", err)
			c.conn.Close()
			for range c.send {
			}
			return
		}
	}
}

// remove is called only by run, or by Close once run has returned.
func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		c.conn.Close()
	}
}

// Close disconnects every client and stops the broadcaster.
func (h *Hub) Close() error {
	h.closeOnce.Do(func() {
		close(h.done)
		h.wg.Wait()

		for _, c := range h.snapshot() {
			h.remove(c)
		}
		h.writers.Wait()
	})
	return nil
}
