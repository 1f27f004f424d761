package service

import "github.com/wricardo/life-maze/game/maze"

// LevelInfo describes a level for listing
type LevelInfo struct {
	Index     int    `json:"index"`
	StageName string `json:"stageName"`
	AgeRange  string `json:"ageRange"`
	Quote     string `json:"quote,omitempty"`
	MazeSize  int    `json:"mazeSize"`
}

// MazePreview is the maze a room with RoomSeed plays on Level
type MazePreview struct {
	Level     int        `json:"level"`
	RoomSeed  int64      `json:"roomSeed"`
	LevelSeed int64      `json:"levelSeed"`
	Size      int        `json:"size"`
	Maze      maze.Maze  `json:"maze"`
	Stats     maze.Stats `json:"stats"`
	ASCII     string     `json:"ascii"`
}

// ServerStats summarizes live activity
type ServerStats struct {
	Rooms        int `json:"rooms"`
	StartedRooms int `json:"startedRooms"`
	Players      int `json:"players"`
	Connections  int `json:"connections"`
}
