// Package gateway streams completed analysis reports to websocket
// clients. One hub, one broadcast topic; slow clients drop messages
// instead of stalling the analysis path.
package gateway

import (
	"log/slog"
	"sync"

	"alpha-enginev1/internal/metrics"
	"alpha-enginev1/internal/model"
)

const clientSendBuffer = 16

// Hub fans completed reports out to connected clients. Safe for
// concurrent use; Publish never blocks.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	prom    *metrics.Metrics
	log     *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(prom *metrics.Metrics, log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		clients: make(map[*Client]struct{}),
		prom:    prom,
		log:     log,
	}
}

// Publish sends the report to every connected client, dropping it on any
// client whose send buffer is full. Implements analysis.Sink.
func (h *Hub) Publish(r *model.Report) {
	payload := r.JSON()

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			if h.prom != nil {
				h.prom.WSDropsTotal.Inc()
			}
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	if h.prom != nil {
		h.prom.WSClients.Set(float64(n))
	}
	h.log.Info("ws client connected", slog.Int("clients", n))
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if h.prom != nil {
		h.prom.WSClients.Set(float64(n))
	}
	h.log.Info("ws client disconnected", slog.Int("clients", n))
}
