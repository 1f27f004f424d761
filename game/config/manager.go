package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

var (
	// ErrLevelNotFound is returned for a level index outside the configuration.
	ErrLevelNotFound = errors.New("level not found")
	// ErrInvalidLevels wraps parse and validation failures of a level file.
	ErrInvalidLevels = errors.New("invalid level configuration")
)

// levelFile wraps a level list so the slice bounds can be validated.
type levelFile struct {
	Levels []Level `validate:"min=1,max=64,dive"`
}

// Manager holds the active level configuration
type Manager struct {
	path     string
	levels   []Level
	validate *validator.Validate
	mu       sync.RWMutex
}

// NewManager creates a manager serving the levels in path, or DefaultLevels
// when path is empty.
func NewManager(path string) (*Manager, error) {
	m := &Manager{
		path:     path,
		validate: validator.New(),
	}

	if err := m.Reload(); err != nil {
		return nil, err
	}
	return m, nil
}

// Levels returns a copy of the level sequence
func (m *Manager) Levels() []Level {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.levels)
}

// Level returns the level at index i
func (m *Manager) Level(i int) (Level, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if i < 0 || i >= len(m.levels) {
		return Level{}, fmt.Errorf("%w: %d (have %d levels)", ErrLevelNotFound, i, len(m.levels))
	}
	return m.levels[i], nil
}

// Sizes returns the maze size of every level, in order
func (m *Manager) Sizes() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Sizes(m.levels)
}

// Source describes where the levels came from, for startup logging
func (m *Manager) Source() string {
	if m.path == "" {
		return "built-in"
	}
	return m.path
}

// Reload re-reads the level file. On failure the previous levels stay active.
func (m *Manager) Reload() error {
	levels := slices.Clone(DefaultLevels)

	if m.path != "" {
		loaded, err := m.load(m.path)
		if err != nil {
			return err
		}
		levels = loaded
	}

	m.mu.Lock()
	m.levels = levels
	m.mu.Unlock()
	return nil
}

func (m *Manager) load(path string) ([]Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read level file: %w", err)
	}

	var file levelFile
	if err := json.Unmarshal(data, &file.Levels); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevels, err)
	}

	if err := m.validate.Struct(file); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := lo.Map(verrs, func(item validator.FieldError, _ int) string {
				return item.Error()
			})
			return nil, fmt.Errorf("%w: %v", ErrInvalidLevels, msgs)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevels, err)
	}

	return file.Levels, nil
}
