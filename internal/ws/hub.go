package ws

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/worktalk/worktalk-backend/pkg/logger"
)

const redisPubSubChannel = "chat-events"

var liveSessions = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "ws_live_sessions",
	Help: "Number of live WebSocket sessions",
})

// Event is a real-time push event sent to client sessions
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hub is the connection registry. It maps a user id to the set of that
// user's live sessions and fans events out to all of them. A user may
// hold any number of simultaneous sessions (multi-device).
type Hub struct {
	// Registered clients grouped by user ID
	clients map[uint64]map[*Client]bool

	// Register/unregister channels
	register   chan *Client
	unregister chan *Client

	// Broadcast to a specific user
	broadcast chan *targetedEvent

	mu          sync.RWMutex
	redisClient *redis.Client
	instanceID  string
	ctx         context.Context
	cancel      context.CancelFunc
}

type targetedEvent struct {
	UserID uint64
	Event  *Event
}

// NewHub creates a new Hub
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:     make(map[uint64]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *targetedEvent, 256),
		redisClient: redisClient,
		instanceID:  uuid.NewString(),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Register adds a client session to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client session from the hub
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// SessionCount returns the number of live sessions for a user
func (h *Hub) SessionCount(userID uint64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	// Start Redis subscriber if Redis is available
	if h.redisClient != nil {
		go h.subscribeRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.userID] == nil {
				h.clients[client.userID] = make(map[*Client]bool)
			}
			h.clients[client.userID][client] = true
			h.mu.Unlock()
			liveSessions.Inc()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.userID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.clients, client.userID)
					}
					liveSessions.Dec()
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.deliver(msg)

		case <-h.ctx.Done():
			return
		}
	}
}

// deliver pushes one event to every live session of one user. A
// session whose send buffer is full is treated as stale and pruned;
// delivery to the user's other sessions continues.
func (h *Hub) deliver(msg *targetedEvent) {
	data, err := json.Marshal(msg.Event)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.clients[msg.UserID]
	if !ok {
		// No live sessions: nothing queued, the user's next history
		// fetch covers the gap.
		return
	}
	for client := range clients {
		select {
		case client.send <- data:
		default:
			logger.GetLogger().Warn().
				Uint64("user_id", msg.UserID).
				Str("event", msg.Event.Type).
				Msg("pruning stale websocket session")
			close(client.send)
			delete(clients, client)
			liveSessions.Dec()
		}
	}
	if len(clients) == 0 {
		delete(h.clients, msg.UserID)
	}
}

// SendToUser sends an event to every session of one user
// (local + Redis publish for other instances)
func (h *Hub) SendToUser(userID uint64, event *Event) {
	// Local broadcast
	h.broadcast <- &targetedEvent{UserID: userID, Event: event}

	// Publish to Redis for multi-instance support. The origin tag lets
	// the local subscriber skip its own publishes; each session gets the
	// event exactly once.
	if h.redisClient != nil {
		msg := &redisMessage{
			Origin: h.instanceID,
			UserID: strconv.FormatUint(userID, 10),
			Event:  event,
		}
		data, err := json.Marshal(msg)
		if err == nil {
			h.redisClient.Publish(h.ctx, redisPubSubChannel, data) //nolint:errcheck
		}
	}
}

// SendToUsers fans one event out to a resolved recipient set
func (h *Hub) SendToUsers(userIDs []uint64, event *Event) {
	for _, id := range userIDs {
		h.SendToUser(id, event)
	}
}

type redisMessage struct {
	Origin string `json:"origin"`
	UserID string `json:"user_id"`
	Event  *Event `json:"event"`
}

// subscribeRedis listens for events published by other instances
func (h *Hub) subscribeRedis() {
	pubsub := h.redisClient.Subscribe(h.ctx, redisPubSubChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.dispatchRemote(msg.Payload)
		case <-h.ctx.Done():
			return
		}
	}
}

// dispatchRemote re-broadcasts an event received over pub/sub to local
// sessions. Publishes from this instance were already delivered
// locally and are dropped.
func (h *Hub) dispatchRemote(payload string) {
	var rm redisMessage
	if err := json.Unmarshal([]byte(payload), &rm); err != nil {
		return
	}
	if rm.Origin == h.instanceID {
		return
	}
	userID, err := strconv.ParseUint(rm.UserID, 10, 64)
	if err != nil {
		return
	}
	// Only local broadcast (don't re-publish to Redis)
	h.broadcast <- &targetedEvent{UserID: userID, Event: rm.Event}
}

// Stop gracefully shuts down the hub
func (h *Hub) Stop() {
	h.cancel()
}
