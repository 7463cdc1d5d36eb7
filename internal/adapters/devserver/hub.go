package devserver

import (
	"bufio"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go.trai.ch/plume/internal/core/domain"
	"go.trai.ch/plume/internal/core/ports"
)

const (
	clientBuffer      = 8
	heartbeatInterval = 30 * time.Second
)

var _ ports.Reloader = (*Hub)(nil)

// Hub is the registry of connected live reload clients.
// Every method is safe for concurrent use.
type Hub struct {
	mu       sync.RWMutex
	nextID   int
	clients  map[int]*Client
	lastHash string
	closed   bool
	metrics  ports.Metrics
}

// Client is one connected browser.
type Client struct {
	id   int
	ch   chan []byte
	done chan struct{}
}

// Messages yields the encoded reload events sent to the client.
func (c *Client) Messages() <-chan []byte {
	return c.ch
}

// Done is closed when the client has been disconnected.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// NewHub creates an empty registry. A nil metrics discards observations.
func NewHub(metrics ports.Metrics) *Hub {
	return &Hub{clients: map[int]*Client{}, metrics: metrics}
}

// Connect registers a new client. It returns nil once the hub is shut down.
func (h *Hub) Connect() *Client {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}

	c := &Client{id: h.nextID, ch: make(chan []byte, clientBuffer), done: make(chan struct{})}
	h.nextID++
	h.clients[c.id] = c
	h.setClients(len(h.clients))
	return c
}

// Disconnect removes the client. Removing a client twice is a no-op.
func (h *Hub) Disconnect(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c.id)
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Reload broadcasts event to every client.
func (h *Hub) Reload(event domain.ReloadEvent) {
	h.Broadcast(event)
}

// Broadcast sends event to every client and reports how many received it.
// Events repeating the previous hash are dropped. Clients whose buffers are
// full are disconnected.
func (h *Hub) Broadcast(event domain.ReloadEvent) int {
	payload, err := json.Marshal(event)
	if err != nil {
		return 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || (event.Hash != "" && event.Hash == h.lastHash) {
		return 0
	}
	h.lastHash = event.Hash

	sent := 0
	for id, c := range h.clients {
		select {
		case c.ch <- payload:
			sent++
		default:
			h.removeLocked(id)
		}
	}

	if h.metrics != nil {
		h.metrics.ObserveReload(event.Kind.String(), string(event.Mode))
	}
	return sent
}

// Shutdown disconnects every client and refuses new ones.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id := range h.clients {
		h.removeLocked(id)
	}
}

func (h *Hub) removeLocked(id int) {
	c, ok := h.clients[id]
	if !ok {
		return
	}
	delete(h.clients, id)
	close(c.done)
	h.setClients(len(h.clients))
}

func (h *Hub) setClients(n int) {
	if h.metrics != nil {
		h.metrics.SetClients(n)
	}
}

// ServeHTTP streams reload events to the caller as Server-Sent Events.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	c := h.Connect()
	if c == nil {
		http.Error(w, "live reload shutting down", http.StatusServiceUnavailable)
		return
	}
	defer h.Disconnect(c)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	bw := bufio.NewWriter(w)
	send := func(s string) bool {
		if _, err := bw.WriteString(s); err != nil {
			return false
		}
		if err := bw.Flush(); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	if !send(": connected\n\n") {
		return
	}

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-c.done:
			return
		case <-heartbeat.C:
			if !send(": ping\n\n") {
				return
			}
		case msg := <-c.ch:
			if !send("data: " + string(msg) + "\n\n") {
				return
			}
		}
	}
}
