package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/wricardo/life-maze/game/room"
)

// ErrHubStopped is returned by calls made after Run has returned.
var ErrHubStopped = errors.New("hub stopped")

// Config wires a Hub.
type Config struct {
	// Sizes is the maze size of every level, in order.
	Sizes          []int
	AutoStartDelay time.Duration
	// Seed overrides the room seed source; tests pin it.
	Seed func() int64
	// AllowedOrigins lists accepted Origin headers; "*" or empty accepts all.
	AllowedOrigins []string
	Logger         logrus.FieldLogger
}

// frame is one raw message read from a client.
type frame struct {
	client *Client
	data   []byte
}

// Hub is the single dispatch loop. It owns the room manager and every
// connection binding; nothing outside Run touches them.
type Hub struct {
	rooms *room.Manager

	// clients by connection id
	clients map[string]*Client

	// bound clients by room id, then player id
	players map[string]map[string]*Client

	register   chan *Client
	unregister chan *Client
	inbound    chan frame
	tasks      chan func()
	done       chan struct{}

	upgrader websocket.Upgrader
	validate *validator.Validate
	log      logrus.FieldLogger
}

// NewHub creates a hub. Call Run to start processing.
func NewHub(cfg Config) *Hub {
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	h := &Hub{
		clients:    make(map[string]*Client),
		players:    make(map[string]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan frame, 64),
		tasks:      make(chan func(), 16),
		done:       make(chan struct{}),
		validate:   validator.New(),
		log:        cfg.Logger.WithField("component", "hub"),
	}

	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(cfg.AllowedOrigins),
	}

	h.rooms = room.NewManager(room.Config{
		Sizes:          cfg.Sizes,
		Scheduler:      h,
		AutoStartDelay: cfg.AutoStartDelay,
		Seed:           cfg.Seed,
		OnStart:        h.broadcastGameStart,
		Logger:         cfg.Logger,
	})

	return h
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 || slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}

// Run processes events until ctx is cancelled. All room state is mutated
// from this goroutine only.
func (h *Hub) Run(ctx context.Context) {
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.clients[client.id] = client
			h.log.WithFields(logrus.Fields{
				"conn_id": client.id,
				"remote":  client.remote,
				"clients": len(h.clients),
			}).Info("Client connected")

		case client := <-h.unregister:
			h.disconnect(client)

		case f := <-h.inbound:
			h.handleFrame(f.client, f.data)

		case task := <-h.tasks:
			task()
		}
	}
}

func (h *Hub) shutdown() {
	close(h.done)
	for _, client := range h.clients {
		client.close()
	}
	h.log.WithField("clients", len(h.clients)).Info("Hub stopped")
}

// AfterFunc schedules f onto the hub loop after d. It makes Hub the
// room.Scheduler of its manager.
func (h *Hub) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, func() {
		h.post(f)
	})
}

// post queues f for the loop. It reports false once the hub has stopped.
func (h *Hub) post(f func()) bool {
	select {
	case <-h.done:
		return false
	default:
	}

	select {
	case h.tasks <- f:
		return true
	case <-h.done:
		return false
	}
}

// call runs fn on the hub loop and waits for its result.
func call[T any](ctx context.Context, h *Hub, fn func() T) (T, error) {
	result := make(chan T, 1)
	var zero T

	select {
	case h.tasks <- func() { result <- fn() }:
	case <-h.done:
		return zero, ErrHubStopped
	case <-ctx.Done():
		return zero, ctx.Err()
	}

	select {
	case v := <-result:
		return v, nil
	case <-h.done:
		return zero, ErrHubStopped
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// ListRooms snapshots the active rooms.
func (h *Hub) ListRooms(ctx context.Context) ([]room.Summary, error) {
	return call(ctx, h, h.rooms.ListRooms)
}

// ClientCount returns the number of open connections.
func (h *Hub) ClientCount(ctx context.Context) (int, error) {
	return call(ctx, h, func() int { return len(h.clients) })
}

// ServeWS upgrades the request and starts the client pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	client := &Client{
		id:     uuid.NewString(),
		remote: r.RemoteAddr,
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// disconnect tears down a client and releases its player slot.
func (h *Hub) disconnect(client *Client) {
	if _, ok := h.clients[client.id]; !ok {
		return
	}
	delete(h.clients, client.id)
	client.close()

	log := h.log.WithFields(logrus.Fields{
		"conn_id":   client.id,
		"room_id":   client.roomID,
		"player_id": client.playerID,
	})
	log.Info("Client disconnected")

	if !client.bound() {
		return
	}

	roomID, playerID := client.roomID, client.playerID
	h.unbind(client)

	if !h.rooms.RemovePlayer(roomID, playerID) {
		return
	}
	if r, ok := h.rooms.Room(roomID); ok {
		h.broadcast(roomID, newRoster(TypePlayerLeft, playerID, r.Players), "")
	}
}

func (h *Hub) bind(client *Client, roomID, playerID string) {
	client.roomID, client.playerID = roomID, playerID
	if h.players[roomID] == nil {
		h.players[roomID] = make(map[string]*Client)
	}
	h.players[roomID][playerID] = client
}

func (h *Hub) unbind(client *Client) {
	if members, ok := h.players[client.roomID]; ok {
		delete(members, client.playerID)
		if len(members) == 0 {
			delete(h.players, client.roomID)
		}
	}
}

// broadcast sends msg to every player of the room except excludeID. Sockets
// that are closed or backed up are skipped.
func (h *Hub) broadcast(roomID string, msg any, excludeID string) {
	r, ok := h.rooms.Room(roomID)
	if !ok {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		h.log.WithError(err).Error("Failed to marshal broadcast message")
		return
	}

	members := h.players[roomID]
	for _, p := range r.Players {
		if p.ID == excludeID {
			continue
		}
		if client, ok := members[p.ID]; ok {
			client.enqueue(data)
		}
	}
}

// reply sends msg to a single client.
func (h *Hub) reply(client *Client, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.WithError(err).Error("Failed to marshal reply")
		return
	}
	client.enqueue(data)
}

func (h *Hub) broadcastGameStart(r *room.Room) {
	h.broadcast(r.ID, newGameStart(r), "")
}
