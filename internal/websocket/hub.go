package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"bikepulse/internal/config"
	"bikepulse/internal/dataset"
	"bikepulse/internal/infrastructure"
	"bikepulse/pkg/contracts/events"
)

const broadcastBuffer = 16

// Hub maintains the set of active clients and broadcasts messages to the clients
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu      sync.RWMutex
	logger  *slog.Logger
	metrics *infrastructure.DashboardMetrics
	cfg     config.WebSocketConfig

	totalConnections int64
	messagesSent     int64
	dropped          int64

	quit    chan struct{}
	running bool
}

// NewHub creates a hub. Ping and pong timings for its clients come from cfg.
func NewHub(cfg config.WebSocketConfig, metrics *infrastructure.DashboardMetrics, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	if cfg.PongWait <= 0 {
		cfg.PongWait = 60 * time.Second
	}
	if cfg.PingPeriod <= 0 || cfg.PingPeriod >= cfg.PongWait {
		cfg.PingPeriod = cfg.PongWait * 9 / 10
	}

	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger.With(slog.String("component", "websocket.hub")),
		metrics:    metrics,
		cfg:        cfg,
		quit:       make(chan struct{}),
	}
}

// Start runs the hub loop in the background. Calling it twice is a no-op.
func (h *Hub) Start() {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()

	go h.Run()
}

// Run is the hub's main loop. It returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case <-h.quit:
			h.logger.Info("Hub shutting down")
			return

		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client, "client closed")

		case message := <-h.broadcast:
			h.fanOut(message)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	ctx := client.context()
	msg, err := encode(events.MessageTypeConnection, events.Connection{
		Status:   "connected",
		Message:  "Connected to bikepulse live updates",
		ClientID: client.id,
	}, client.traceID)

	h.mu.Lock()
	h.clients[client] = true
	count := len(h.clients)
	h.totalConnections++
	if err == nil {
		select {
		case client.send <- msg:
		default:
			h.logger.WarnContext(ctx, "Failed to send connection message - client buffer full",
				slog.String("client_id", client.id))
		}
	}
	h.mu.Unlock()

	infrastructure.RecordWebSocketConnection(ctx, h.metrics, 1)
	h.logger.InfoContext(ctx, "Client registered",
		slog.Int("total_clients", count),
		slog.String("client_id", client.id),
		slog.String("remote_addr", client.remoteAddr))
}

// removeClient closes client's send channel once, whoever asks first.
func (h *Hub) removeClient(client *Client, reason string) {
	h.mu.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)
	close(client.send)
	count := len(h.clients)
	h.mu.Unlock()

	ctx := client.context()
	infrastructure.RecordWebSocketConnection(ctx, h.metrics, -1)
	h.logger.InfoContext(ctx, "Client unregistered",
		slog.String("reason", reason),
		slog.Int("total_clients", count),
		slog.String("client_id", client.id),
		slog.Duration("connection_duration", time.Since(client.connectedAt)))
}

func (h *Hub) fanOut(message []byte) {
	// Sends are non-blocking, so they run under the read lock to keep Stop
	// from closing a channel mid-send.
	var stale []*Client
	delivered := int64(0)
	h.mu.RLock()
	count := len(h.clients)
	for client := range h.clients {
		select {
		case client.send <- message:
			delivered++
		default:
			stale = append(stale, client)
		}
	}
	h.mu.RUnlock()

	h.mu.Lock()
	h.messagesSent += delivered
	h.dropped += int64(len(stale))
	h.mu.Unlock()

	for _, client := range stale {
		h.removeClient(client, "send buffer full")
	}

	h.logger.Debug("Broadcast delivered",
		slog.Int("client_count", count),
		slog.Int("dropped", len(stale)),
		slog.Int("message_size", len(message)))
}

// Broadcast sends a typed message to every connected client.
func (h *Hub) Broadcast(messageType events.MessageType, data interface{}) {
	msg, err := encode(messageType, data, "")
	if err != nil {
		h.logger.Error("Failed to marshal broadcast message",
			slog.String("type", string(messageType)),
			slog.String("error", err.Error()))
		return
	}

	select {
	case h.broadcast <- msg:
	case <-h.quit:
	}
}

// BroadcastDatasetReloaded tells browsers the rental tables changed. It has the
// shape of dataset.ReloadFunc so it can be handed to a watcher directly.
func (h *Hub) BroadcastDatasetReloaded(ctx context.Context, tables *dataset.Tables, err error) {
	if err != nil {
		h.logger.WarnContext(ctx, "Announcing failed dataset reload", slog.String("error", err.Error()))
		h.Broadcast(events.MessageTypeDatasetError, events.DatasetError{Error: err.Error()})
		return
	}
	if tables == nil {
		return
	}

	data := events.DatasetReloaded{
		Fingerprint: tables.Fingerprint,
		DailyRows:   len(tables.Daily.Rows),
		HourlyRows:  len(tables.Hourly.Rows),
	}
	if bounds, berr := tables.Bounds(); berr == nil {
		data.Bounds = &bounds
	}
	h.Broadcast(events.MessageTypeDatasetReloaded, data)
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.quit:
		client.conn.Close()
	}
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stats returns counters for the health endpoint.
func (h *Hub) Stats() map[string]interface{} {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return map[string]interface{}{
		"active_clients":    len(h.clients),
		"total_connections": h.totalConnections,
		"messages_sent":     h.messagesSent,
		"dropped_clients":   h.dropped,
	}
}

// Stop ends the hub loop and closes every client.
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	close(h.quit)
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
		infrastructure.RecordWebSocketConnection(context.Background(), h.metrics, -1)
	}
	h.mu.Unlock()
}

func encode(messageType events.MessageType, data interface{}, traceID string) ([]byte, error) {
	return json.Marshal(events.NewMessage(messageType, data, traceID))
}
