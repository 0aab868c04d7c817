package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"

	writeWait = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// client is one open socket plus its subscription state. Writes to the
// socket are serialized through mu (gorilla allows one writer at a
// time). alive is guarded by the hub mutex.
type client struct {
	id            string
	role          string
	conn          *websocket.Conn
	subscriptions map[string]struct{}
	alive         bool
	mu            sync.Mutex
}

func (cl *client) write(messageType int, data []byte) error {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return cl.conn.WriteMessage(messageType, data)
}

// Hub is the in-memory realtime registry: connection table, per-order
// rooms, and the admin broadcast group. All map access goes through the
// mutex; callers never touch the maps directly.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	rooms   map[string]map[string]struct{}
	admins  map[string]struct{}

	interval  time.Duration
	done      chan struct{}
	closeOnce sync.Once
}

// Stats is a snapshot of registry size, exposed on the admin dashboard.
type Stats struct {
	TotalClients    int `json:"totalClients"`
	AdminClients    int `json:"adminClients"`
	CustomerClients int `json:"customerClients"`
	ActiveRooms     int `json:"activeRooms"`
}

func NewHub() *Hub {
	return &Hub{
		clients:  make(map[string]*client),
		rooms:    make(map[string]map[string]struct{}),
		admins:   make(map[string]struct{}),
		interval: 30 * time.Second,
		done:     make(chan struct{}),
	}
}

// Run drives the heartbeat loop until Close is called. Meant to run in
// its own goroutine.
func (h *Hub) Run() {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			h.sweep()
		}
	}
}

func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
	h.mu.Lock()
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	h.mu.Unlock()
	for _, id := range ids {
		h.Disconnect(id)
	}
}

// inboundMessage is the client->server frame: subscribe, unsubscribe,
// or ping.
type inboundMessage struct {
	Type        string `json:"type"`
	OrderNumber string `json:"orderNumber"`
}

// HandleConnection upgrades the request and runs the read loop for the
// connection. Role comes from the ?type= query parameter and cannot
// change afterwards.
func (h *Hub) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("❌ WebSocket upgrade failed:", err)
		return
	}

	role := c.DefaultQuery("type", RoleCustomer)
	if role != RoleAdmin {
		role = RoleCustomer
	}

	cl := &client{
		id:            "client_" + uuid.NewString(),
		role:          role,
		conn:          conn,
		subscriptions: make(map[string]struct{}),
		alive:         true,
	}

	h.mu.Lock()
	h.clients[cl.id] = cl
	if role == RoleAdmin {
		h.admins[cl.id] = struct{}{}
	}
	h.mu.Unlock()

	h.send(cl, map[string]any{
		"type":     "connected",
		"clientId": cl.id,
		"message":  "Connected to Tum Panich real-time updates",
	})

	conn.SetPongHandler(func(string) error {
		h.markAlive(cl.id)
		return nil
	})

	h.readLoop(cl)
}

func (h *Hub) readLoop(cl *client) {
	defer h.Disconnect(cl.id)
	for {
		_, raw, err := cl.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Printf("WebSocket message parse error from %s: %v", cl.id, err)
			continue
		}
		switch msg.Type {
		case "subscribe":
			if msg.OrderNumber != "" {
				h.Subscribe(cl.id, msg.OrderNumber)
			}
		case "unsubscribe":
			if msg.OrderNumber != "" {
				h.Unsubscribe(cl.id, msg.OrderNumber)
			}
		case "ping":
			h.send(cl, map[string]any{"type": "pong"})
		default:
			log.Printf("Unknown WebSocket message type %q from %s", msg.Type, cl.id)
		}
	}
}

// Subscribe idempotently adds a connection to an order room and
// acknowledges with a subscribed frame.
func (h *Hub) Subscribe(clientID, orderNumber string) {
	h.mu.Lock()
	cl, ok := h.clients[clientID]
	if !ok {
		h.mu.Unlock()
		return
	}
	cl.subscriptions[orderNumber] = struct{}{}
	room, ok := h.rooms[orderNumber]
	if !ok {
		room = make(map[string]struct{})
		h.rooms[orderNumber] = room
	}
	room[clientID] = struct{}{}
	h.mu.Unlock()

	h.send(cl, map[string]any{
		"type":        "subscribed",
		"orderNumber": orderNumber,
	})
}

// Unsubscribe removes the connection from the room; the last member out
// deletes the room.
func (h *Hub) Unsubscribe(clientID, orderNumber string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cl, ok := h.clients[clientID]
	if !ok {
		return
	}
	delete(cl.subscriptions, orderNumber)
	h.removeFromRoom(clientID, orderNumber)
}

// removeFromRoom must be called with the hub mutex held.
func (h *Hub) removeFromRoom(clientID, orderNumber string) {
	room, ok := h.rooms[orderNumber]
	if !ok {
		return
	}
	delete(room, clientID)
	if len(room) == 0 {
		delete(h.rooms, orderNumber)
	}
}

// Disconnect drops a connection and all of its room memberships. Safe
// to call multiple times and for ids that were never connected.
func (h *Hub) Disconnect(clientID string) {
	h.mu.Lock()
	cl, ok := h.clients[clientID]
	if !ok {
		h.mu.Unlock()
		return
	}
	for orderNumber := range cl.subscriptions {
		h.removeFromRoom(clientID, orderNumber)
	}
	delete(h.admins, clientID)
	delete(h.clients, clientID)
	h.mu.Unlock()

	_ = cl.conn.Close()
}

func (h *Hub) markAlive(clientID string) {
	h.mu.Lock()
	if cl, ok := h.clients[clientID]; ok {
		cl.alive = true
	}
	h.mu.Unlock()
}

// sweep is one heartbeat pass: terminate connections that never
// answered the previous ping, then ping the rest.
func (h *Hub) sweep() {
	h.mu.Lock()
	var stale []string
	var live []*client
	for id, cl := range h.clients {
		if !cl.alive {
			stale = append(stale, id)
			continue
		}
		cl.alive = false
		live = append(live, cl)
	}
	h.mu.Unlock()

	for _, id := range stale {
		log.Printf("💔 Terminating unresponsive client %s", id)
		h.Disconnect(id)
	}
	for _, cl := range live {
		if err := cl.write(websocket.PingMessage, nil); err != nil {
			h.Disconnect(cl.id)
		}
	}
}

// send marshals and pushes one frame to one client. Delivery is best
// effort: a dead socket is logged and skipped, never surfaced to the
// caller.
func (h *Hub) send(cl *client, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("WebSocket marshal error for %s: %v", cl.id, err)
		return
	}
	if err := cl.write(websocket.TextMessage, data); err != nil {
		log.Printf("WebSocket send error for %s: %v", cl.id, err)
	}
}

// BroadcastOrderUpdate pushes an order_update frame to every member of
// the order's room. No room means no one is listening; that is a no-op.
func (h *Hub) BroadcastOrderUpdate(orderNumber string, data any) {
	members := h.roomMembers(orderNumber)
	if len(members) == 0 {
		return
	}
	msg := map[string]any{
		"type":        "order_update",
		"orderNumber": orderNumber,
		"data":        data,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	}
	for _, cl := range members {
		h.send(cl, msg)
	}
	log.Printf("📢 Broadcasted update for order %s to %d clients", orderNumber, len(members))
}

// NotifyNewOrder tells every admin connection about a freshly created
// order.
func (h *Hub) NotifyNewOrder(data any) {
	admins := h.adminMembers()
	if len(admins) == 0 {
		return
	}
	msg := map[string]any{
		"type":      "new_order",
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	for _, cl := range admins {
		h.send(cl, msg)
	}
}

// NotifyAdminOrderUpdate tells every admin connection about a status
// change on any order.
func (h *Hub) NotifyAdminOrderUpdate(orderNumber, status string, data any) {
	admins := h.adminMembers()
	if len(admins) == 0 {
		return
	}
	msg := map[string]any{
		"type":        "order_status_changed",
		"orderNumber": orderNumber,
		"status":      status,
		"data":        data,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	}
	for _, cl := range admins {
		h.send(cl, msg)
	}
}

func (h *Hub) roomMembers(orderNumber string) []*client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[orderNumber]
	if !ok {
		return nil
	}
	members := make([]*client, 0, len(room))
	for id := range room {
		if cl, ok := h.clients[id]; ok {
			members = append(members, cl)
		}
	}
	return members
}

func (h *Hub) adminMembers() []*client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	members := make([]*client, 0, len(h.admins))
	for id := range h.admins {
		if cl, ok := h.clients[id]; ok {
			members = append(members, cl)
		}
	}
	return members
}

func (h *Hub) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return Stats{
		TotalClients:    len(h.clients),
		AdminClients:    len(h.admins),
		CustomerClients: len(h.clients) - len(h.admins),
		ActiveRooms:     len(h.rooms),
	}
}
