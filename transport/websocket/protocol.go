package websocket

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/wricardo/life-maze/game/maze"
	"github.com/wricardo/life-maze/game/room"
)

var (
	// ErrMalformedMessage is returned for frames that are not a JSON object with a type.
	ErrMalformedMessage   = errors.New("malformed message")
	// ErrUnknownMessageType is returned for a type no client may send.
	ErrUnknownMessageType = errors.New("unknown message type")
)

// Message types shared by both directions.
const (
	TypeJoin           = "join"
	TypeJoined         = "joined"
	TypePlayerReady    = "playerReady"
	TypeStartGame      = "startGame"
	TypeGameStart      = "gameStart"
	TypePlayerUpdate   = "playerUpdate"
	TypePlayerLevelUp  = "playerLevelUp"
	TypePlayerFinished = "playerFinished"
	TypePlayerLeft     = "playerLeft"
	TypeError          = "error"
)

// Inbound is a decoded client message. The set of implementations is closed;
// handlers switch over the concrete types.
type Inbound interface {
	inbound()
}

// Join binds the connection to a room.
type Join struct {
	RoomID      string `json:"roomId" validate:"required,max=128"`
	PlayerID    string `json:"playerId,omitempty" validate:"max=128"`
	PlayerName  string `json:"playerName,omitempty" validate:"max=64"`
	CharacterID int    `json:"characterId,omitempty" validate:"min=0"`
	Color       string `json:"color"`
}

// Ready marks the bound player ready.
type Ready struct{}

// StartGame asks to start the bound room.
type StartGame struct{}

// Position is a location in maze cell units.
type Position struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

// PlayerUpdate is a live position report.
type PlayerUpdate struct {
	Position Position `json:"position"`
	Level    int      `json:"level"`
}

// PlayerLevelUp reports that the player advanced to Level.
type PlayerLevelUp struct {
	Level int `json:"level"`
}

// PlayerFinished reports the player's elapsed race time.
type PlayerFinished struct {
	Time float64 `json:"time"`
}

func (Join) inbound()           {}
func (Ready) inbound()          {}
func (StartGame) inbound()      {}
func (PlayerUpdate) inbound()   {}
func (PlayerLevelUp) inbound()  {}
func (PlayerFinished) inbound() {}

// Decode parses one client frame.
func Decode(data []byte) (Inbound, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	switch envelope.Type {
	case "":
		return nil, fmt.Errorf("%w: missing type", ErrMalformedMessage)
	case TypeJoin:
		return decodeAs[Join](data, envelope.Type)
	case TypePlayerReady:
		return Ready{}, nil
	case TypeStartGame:
		return StartGame{}, nil
	case TypePlayerUpdate:
		return decodeAs[PlayerUpdate](data, envelope.Type)
	case TypePlayerLevelUp:
		return decodeAs[PlayerLevelUp](data, envelope.Type)
	case TypePlayerFinished:
		return decodeAs[PlayerFinished](data, envelope.Type)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessageType, envelope.Type)
	}
}

func decodeAs[T Inbound](data []byte, kind string) (Inbound, error) {
	var msg T
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedMessage, kind, err)
	}
	return msg, nil
}

// Outbound messages

// RosterPlayer is a lobby entry.
type RosterPlayer struct {
	PlayerID    string `json:"playerId"`
	Name        string `json:"name"`
	CharacterID int    `json:"characterId"`
	Color       string `json:"color"`
	Ready       bool   `json:"ready"`
}

// RosterMessage carries the full player list. It is sent as joined,
// playerReady and playerLeft.
type RosterMessage struct {
	Type     string         `json:"type"`
	PlayerID string         `json:"playerId"`
	Players  []RosterPlayer `json:"players"`
}

// StartPlayer is a racer announced in gameStart.
type StartPlayer struct {
	PlayerID    string `json:"playerId"`
	Name        string `json:"name"`
	CharacterID int    `json:"characterId"`
	Color       string `json:"color"`
}

// GameStartMessage hands every client the room's maze set.
type GameStartMessage struct {
	Type     string        `json:"type"`
	Players  []StartPlayer `json:"players"`
	Mazes    []maze.Maze   `json:"mazes"`
	RoomSeed int64         `json:"roomSeed"`
}

// PlayerUpdateMessage relays a position to the other players.
type PlayerUpdateMessage struct {
	Type        string   `json:"type"`
	PlayerID    string   `json:"playerId"`
	Position    Position `json:"position"`
	Level       int      `json:"level"`
	Name        string   `json:"name"`
	CharacterID int      `json:"characterId"`
	Color       string   `json:"color"`
}

// LevelUpMessage relays a level change.
type LevelUpMessage struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
	Level    int    `json:"level"`
}

// FinishedMessage carries the ranked leaderboard.
type FinishedMessage struct {
	Type        string                  `json:"type"`
	Leaderboard []room.LeaderboardEntry `json:"leaderboard"`
}

// ErrorMessage is sent to a single client.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func newRoster(kind, playerID string, players []*room.Player) RosterMessage {
	return RosterMessage{
		Type:     kind,
		PlayerID: playerID,
		Players: lo.Map(players, func(p *room.Player, _ int) RosterPlayer {
			return RosterPlayer{
				PlayerID:    p.ID,
				Name:        p.Name,
				CharacterID: p.CharacterID,
				Color:       p.Color,
				Ready:       p.Ready,
			}
		}),
	}
}

func newGameStart(r *room.Room) GameStartMessage {
	return GameStartMessage{
		Type: TypeGameStart,
		Players: lo.Map(r.Players, func(p *room.Player, _ int) StartPlayer {
			return StartPlayer{PlayerID: p.ID, Name: p.Name, CharacterID: p.CharacterID, Color: p.Color}
		}),
		Mazes:    r.Mazes,
		RoomSeed: r.Seed,
	}
}

func newError(msg string) ErrorMessage {
	return ErrorMessage{Type: TypeError, Message: msg}
}
