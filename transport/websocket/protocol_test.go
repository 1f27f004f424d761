package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wricardo/life-maze/game/maze"
	"github.com/wricardo/life-maze/game/room"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Inbound
	}{
		{
			name:  "join",
			input: `{"type":"join","roomId":"r1","playerId":"p1","playerName":"Ann","characterId":3,"color":"0x4fc3f7"}`,
			expected: Join{
				RoomID: "r1", PlayerID: "p1", PlayerName: "Ann", CharacterID: 3, Color: "0x4fc3f7",
			},
		},
		{
			name:     "join with optional fields missing",
			input:    `{"type":"join","roomId":"r1","color":"red"}`,
			expected: Join{RoomID: "r1", Color: "red"},
		},
		{
			name:     "ready ignores extra fields",
			input:    `{"type":"playerReady","roomId":"r1","playerId":"p1"}`,
			expected: Ready{},
		},
		{
			name:     "start",
			input:    `{"type":"startGame"}`,
			expected: StartGame{},
		},
		{
			name:     "update",
			input:    `{"type":"playerUpdate","position":{"x":1.5,"z":-2},"level":2}`,
			expected: PlayerUpdate{Position: Position{X: 1.5, Z: -2}, Level: 2},
		},
		{
			name:     "level up",
			input:    `{"type":"playerLevelUp","level":7}`,
			expected: PlayerLevelUp{Level: 7},
		},
		{
			name:     "finished",
			input:    `{"type":"playerFinished","time":93.25}`,
			expected: PlayerFinished{Time: 93.25},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   error
	}{
		{"not json", `hello`, ErrMalformedMessage},
		{"array", `[1,2]`, ErrMalformedMessage},
		{"missing type", `{"roomId":"r1"}`, ErrMalformedMessage},
		{"wrong field type", `{"type":"playerLevelUp","level":"three"}`, ErrMalformedMessage},
		{"wrong position shape", `{"type":"playerUpdate","position":[1,2]}`, ErrMalformedMessage},
		{"unknown type", `{"type":"teleport"}`, ErrUnknownMessageType},
		{"server-only type", `{"type":"gameStart"}`, ErrUnknownMessageType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Decode([]byte(tt.input))
			assert.Nil(t, msg)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestRosterWireFormat(t *testing.T) {
	players := []*room.Player{
		{ID: "p1", Name: "Ann", CharacterID: 2, Color: "red", Ready: true, Level: 4},
	}

	data, err := json.Marshal(newRoster(TypeJoined, "p1", players))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"type": "joined",
		"playerId": "p1",
		"players": [{"playerId":"p1","name":"Ann","characterId":2,"color":"red","ready":true}]
	}`, string(data))
}

func TestGameStartWireFormat(t *testing.T) {
	r := &room.Room{
		ID:    "r1",
		Seed:  42,
		Mazes: []maze.Maze{maze.Generate(2, 42)},
		Players: []*room.Player{
			{ID: "p1", Name: "Ann", CharacterID: 1, Color: "red", Ready: true},
		},
	}

	data, err := json.Marshal(newGameStart(r))
	require.NoError(t, err)

	var decoded struct {
		Type     string                `json:"type"`
		Players  []map[string]any      `json:"players"`
		Mazes    [][][]map[string]bool `json:"mazes"`
		RoomSeed int64                 `json:"roomSeed"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, TypeGameStart, decoded.Type)
	assert.Equal(t, int64(42), decoded.RoomSeed)
	require.Len(t, decoded.Players, 1)
	assert.NotContains(t, decoded.Players[0], "ready")
	require.Len(t, decoded.Mazes, 1)
	require.Len(t, decoded.Mazes[0], 2)
	assert.Equal(t, r.Mazes[0][1][0].Top, decoded.Mazes[0][1][0]["top"])
}
