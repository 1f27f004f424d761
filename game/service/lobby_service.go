package service

import (
	"context"

	"github.com/wricardo/life-maze/game/config"
	"github.com/wricardo/life-maze/game/room"
)

// LobbyService defines the read-only operations behind discovery endpoints
type LobbyService interface {
	// Rooms
	ListRooms(ctx context.Context) ([]room.Summary, error)
	Stats(ctx context.Context) (*ServerStats, error)

	// Levels and mazes
	ListLevels(ctx context.Context) ([]LevelInfo, error)
	PreviewMaze(ctx context.Context, level int, roomSeed int64) (*MazePreview, error)
}

// RoomDirectory answers room queries from the live hub
type RoomDirectory interface {
	ListRooms(ctx context.Context) ([]room.Summary, error)
	ClientCount(ctx context.Context) (int, error)
}

// LevelSource provides the active level configuration
type LevelSource interface {
	Levels() []config.Level
	Level(i int) (config.Level, error)
}
