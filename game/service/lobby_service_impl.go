package service

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/wricardo/life-maze/game/config"
	"github.com/wricardo/life-maze/game/maze"
	"github.com/wricardo/life-maze/game/room"
)

// lobbyServiceImpl implements the LobbyService interface
type lobbyServiceImpl struct {
	rooms  RoomDirectory
	levels LevelSource
}

// NewLobbyService creates a new lobby service instance
func NewLobbyService(rooms RoomDirectory, levels LevelSource) LobbyService {
	return &lobbyServiceImpl{
		rooms:  rooms,
		levels: levels,
	}
}

// ListRooms returns a snapshot of active rooms
func (s *lobbyServiceImpl) ListRooms(ctx context.Context) ([]room.Summary, error) {
	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	if rooms == nil {
		rooms = []room.Summary{}
	}
	return rooms, nil
}

// Stats aggregates room and connection counts
func (s *lobbyServiceImpl) Stats(ctx context.Context) (*ServerStats, error) {
	rooms, err := s.ListRooms(ctx)
	if err != nil {
		return nil, err
	}

	conns, err := s.rooms.ClientCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count connections: %w", err)
	}

	return &ServerStats{
		Rooms: len(rooms),
		StartedRooms: lo.CountBy(rooms, func(r room.Summary) bool {
			return r.GameStarted
		}),
		Players: lo.SumBy(rooms, func(r room.Summary) int {
			return r.PlayerCount
		}),
		Connections: conns,
	}, nil
}

// ListLevels returns the active level sequence
func (s *lobbyServiceImpl) ListLevels(ctx context.Context) ([]LevelInfo, error) {
	return lo.Map(s.levels.Levels(), func(l config.Level, i int) LevelInfo {
		return LevelInfo{
			Index:     i,
			StageName: l.StageName,
			AgeRange:  l.AgeRange,
			Quote:     l.Quote,
			MazeSize:  l.MazeSize,
		}
	}), nil
}

// PreviewMaze generates the maze a room seeded with roomSeed plays on the
// given level.
func (s *lobbyServiceImpl) PreviewMaze(ctx context.Context, level int, roomSeed int64) (*MazePreview, error) {
	l, err := s.levels.Level(level)
	if err != nil {
		return nil, err
	}

	levelSeed := maze.LevelSeed(roomSeed, level)
	m, err := maze.New(l.MazeSize, levelSeed)
	if err != nil {
		return nil, fmt.Errorf("level %d: %w", level, err)
	}

	return &MazePreview{
		Level:     level,
		RoomSeed:  roomSeed,
		LevelSeed: levelSeed,
		Size:      m.Size(),
		Maze:      m,
		Stats:     m.Analyze(),
		ASCII:     m.String(),
	}, nil
}
