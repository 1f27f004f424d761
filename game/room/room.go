package room

import (
	"errors"

	"github.com/samber/lo"
	"github.com/wricardo/life-maze/game/maze"
)

// MaxPlayers caps the size of a room.
const MaxPlayers = 5

var (
	// ErrRoomNotFound is returned when a player is added to a room that does not exist.
	ErrRoomNotFound   = errors.New("room not found")
	// ErrRoomFull is returned when a room already holds MaxPlayers players.
	ErrRoomFull       = errors.New("room is full")
	// ErrColorTaken is returned when another player in the room has the same color.
	ErrColorTaken     = errors.New("color already taken")
	// ErrGameInProgress is returned when joining a room whose race has started.
	ErrGameInProgress = errors.New("game already in progress")
	// ErrPlayerExists is returned when the player id is already in the room.
	ErrPlayerExists   = errors.New("player already in room")
)

// Player is a member of a room. Level and Time are the progress fields
// reported by the client.
type Player struct {
	ID          string
	Name        string
	CharacterID int
	Color       string
	Level       int
	Time        float64
	Ready       bool
}

// PlayerSpec carries the join request fields.
type PlayerSpec struct {
	ID          string
	Name        string
	CharacterID int
	Color       string
}

// Room is one shared session. Players are kept in join order.
type Room struct {
	ID          string
	Seed        int64
	Mazes       []maze.Maze
	Players     []*Player
	GameStarted bool

	autoStartPending bool
}

// Player looks up a member by id.
func (r *Room) Player(id string) (*Player, bool) {
	return lo.Find(r.Players, func(p *Player) bool {
		return p.ID == id
	})
}

// ColorTaken reports an exact, case-sensitive match against member colors.
func (r *Room) ColorTaken(color string) bool {
	return lo.ContainsBy(r.Players, func(p *Player) bool {
		return p.Color == color
	})
}

// AllReady is true when at least two players are present and all are ready.
func (r *Room) AllReady() bool {
	return len(r.Players) >= 2 && lo.EveryBy(r.Players, func(p *Player) bool {
		return p.Ready
	})
}

// Summary is the discovery view of a room.
type Summary struct {
	RoomID      string          `json:"roomId"`
	PlayerCount int             `json:"playerCount"`
	MaxPlayers  int             `json:"maxPlayers"`
	GameStarted bool            `json:"gameStarted"`
	Players     []PlayerSummary `json:"players"`
}

// PlayerSummary is the public part of a player shown in the lobby.
type PlayerSummary struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Summary builds the discovery view.
func (r *Room) Summary() Summary {
	return Summary{
		RoomID:      r.ID,
		PlayerCount: len(r.Players),
		MaxPlayers:  MaxPlayers,
		GameStarted: r.GameStarted,
		Players: lo.Map(r.Players, func(p *Player, _ int) PlayerSummary {
			return PlayerSummary{Name: p.Name, Color: p.Color}
		}),
	}
}

const playerIDLength = 9

var playerIDCharset = append(append([]rune{}, lo.LowerCaseLettersCharset...), lo.NumbersCharset...)

// NewPlayerID generates an id for clients that did not bring their own.
func NewPlayerID() string {
	return "player_" + lo.RandomString(playerIDLength, playerIDCharset)
}
