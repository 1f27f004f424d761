package room

import (
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/wricardo/life-maze/game/maze"
)

const (
	// DefaultAutoStartDelay is the grace period between the last ready flip
	// and the game start.
	DefaultAutoStartDelay = 500 * time.Millisecond

	seedRange = 1_000_000
)

// Scheduler runs f after d. Implementations must run f on the same goroutine
// that drives the Manager.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// Config wires a Manager to its collaborators. Only Sizes is required.
type Config struct {
	Sizes          []int
	Scheduler      Scheduler
	AutoStartDelay time.Duration
	Seed           func() int64
	OnStart        func(*Room)
	Logger         logrus.FieldLogger
}

// Manager owns every active room. It is not safe for concurrent use: all
// calls, including scheduled auto-start tasks, must come from one goroutine.
type Manager struct {
	rooms map[string]*Room
	cfg   Config
	log   logrus.FieldLogger
}

// NewManager creates an empty room manager
func NewManager(cfg Config) *Manager {
	if cfg.AutoStartDelay <= 0 {
		cfg.AutoStartDelay = DefaultAutoStartDelay
	}
	if cfg.Seed == nil {
		cfg.Seed = func() int64 { return rand.Int64N(seedRange) }
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	return &Manager{
		rooms: make(map[string]*Room),
		cfg:   cfg,
		log:   cfg.Logger.WithField("component", "room"),
	}
}

// EnsureRoom returns the room with the given id, creating it with a fresh
// seed and maze set if needed.
func (m *Manager) EnsureRoom(id string) *Room {
	if r, ok := m.rooms[id]; ok {
		return r
	}

	seed := m.cfg.Seed()
	r := &Room{
		ID:      id,
		Seed:    seed,
		Mazes:   maze.GenerateAll(m.cfg.Sizes, seed),
		Players: []*Player{},
	}
	m.rooms[id] = r

	m.log.WithFields(logrus.Fields{
		"room_id": id,
		"seed":    seed,
		"levels":  len(r.Mazes),
	}).Info("Room created")
	return r
}

// Room returns an existing room
func (m *Manager) Room(id string) (*Room, bool) {
	r, ok := m.rooms[id]
	return r, ok
}

// Player returns a member of an existing room
func (m *Manager) Player(roomID, playerID string) (*Player, bool) {
	r, ok := m.rooms[roomID]
	if !ok {
		return nil, false
	}
	return r.Player(playerID)
}

// Count returns the number of active rooms
func (m *Manager) Count() int {
	return len(m.rooms)
}

// TryAddPlayer appends a player to an existing room.
func (m *Manager) TryAddPlayer(roomID string, spec PlayerSpec) (*Player, error) {
	r, ok := m.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}

	switch {
	case len(r.Players) >= MaxPlayers:
		return nil, fmt.Errorf("%w (max %d players)", ErrRoomFull, MaxPlayers)
	case r.GameStarted:
		return nil, ErrGameInProgress
	case r.ColorTaken(spec.Color):
		return nil, fmt.Errorf("%w: %s", ErrColorTaken, spec.Color)
	}
	if _, exists := r.Player(spec.ID); exists {
		return nil, fmt.Errorf("%w: %s", ErrPlayerExists, spec.ID)
	}

	p := &Player{
		ID:          spec.ID,
		Name:        spec.Name,
		CharacterID: spec.CharacterID,
		Color:       spec.Color,
	}
	r.Players = append(r.Players, p)

	m.log.WithFields(logrus.Fields{
		"room_id":   roomID,
		"player_id": p.ID,
		"players":   len(r.Players),
	}).Info("Player joined")
	return p, nil
}

// RemovePlayer drops a player and deletes the room once it is empty. It
// reports whether the player was found.
func (m *Manager) RemovePlayer(roomID, playerID string) bool {
	r, ok := m.rooms[roomID]
	if !ok {
		return false
	}
	if _, ok := r.Player(playerID); !ok {
		return false
	}

	r.Players = lo.Filter(r.Players, func(p *Player, _ int) bool {
		return p.ID != playerID
	})

	fields := logrus.Fields{"room_id": roomID, "player_id": playerID, "players": len(r.Players)}
	m.log.WithFields(fields).Info("Player left")

	if len(r.Players) == 0 {
		delete(m.rooms, roomID)
		m.log.WithField("room_id", roomID).Info("Room deleted")
	}
	return true
}

// SetReady marks a player ready and schedules the auto-start when the room
// becomes all-ready. It reports whether the player was found.
func (m *Manager) SetReady(roomID, playerID string) bool {
	r, ok := m.rooms[roomID]
	if !ok {
		return false
	}
	p, ok := r.Player(playerID)
	if !ok {
		return false
	}

	p.Ready = true

	if r.AllReady() && !r.GameStarted && !r.autoStartPending {
		m.scheduleAutoStart(r)
	}
	return true
}

// AllReady reports whether the room can start. Missing rooms are never ready.
func (m *Manager) AllReady(roomID string) bool {
	r, ok := m.rooms[roomID]
	return ok && r.AllReady()
}

// StartGame is the explicit start request. It starts the room only when it
// is all-ready and not already started, and reports whether it did.
func (m *Manager) StartGame(roomID string) bool {
	r, ok := m.rooms[roomID]
	if !ok || !r.AllReady() || r.GameStarted {
		return false
	}
	m.start(r, "explicit")
	return true
}

// UpdateProgress stores the reported level and/or finish time. Nil fields
// are left unchanged. It reports whether the player was found.
func (m *Manager) UpdateProgress(roomID, playerID string, level *int, finishTime *float64) bool {
	p, ok := m.Player(roomID, playerID)
	if !ok {
		return false
	}
	if level != nil {
		p.Level = *level
	}
	if finishTime != nil {
		p.Time = *finishTime
	}
	return true
}

// Leaderboard ranks an existing room. Missing rooms yield nil.
func (m *Manager) Leaderboard(roomID string) []LeaderboardEntry {
	r, ok := m.rooms[roomID]
	if !ok {
		return nil
	}
	return r.Leaderboard()
}

// ListRooms snapshots every room, ordered by id.
func (m *Manager) ListRooms() []Summary {
	ids := slices.Sorted(maps.Keys(m.rooms))
	return lo.Map(ids, func(id string, _ int) Summary {
		return m.rooms[id].Summary()
	})
}

func (m *Manager) scheduleAutoStart(r *Room) {
	r.autoStartPending = true
	m.log.WithFields(logrus.Fields{
		"room_id": r.ID,
		"delay":   m.cfg.AutoStartDelay,
	}).Debug("All players ready, scheduling start")

	if m.cfg.Scheduler == nil {
		m.autoStart(r)
		return
	}
	m.cfg.Scheduler.AfterFunc(m.cfg.AutoStartDelay, func() {
		m.autoStart(r)
	})
}

// autoStart runs after the grace delay. The room may have been emptied and
// recreated under the same id meanwhile, so identity is checked as well.
func (m *Manager) autoStart(r *Room) {
	r.autoStartPending = false
	if current, ok := m.rooms[r.ID]; !ok || current != r || r.GameStarted {
		return
	}
	m.start(r, "auto")
}

func (m *Manager) start(r *Room, trigger string) {
	r.GameStarted = true
	m.log.WithFields(logrus.Fields{
		"room_id": r.ID,
		"players": len(r.Players),
		"trigger": trigger,
	}).Info("Game started")

	if m.cfg.OnStart != nil {
		m.cfg.OnStart(r)
	}
}
