package maze

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSize is returned by New for a size below 1.
	ErrInvalidSize = errors.New("maze size must be positive")
	// ErrInvalidSeed is returned by New for a seed outside [0, MaxSeed].
	ErrInvalidSeed = errors.New("maze seed out of range")
)

// LevelSeedStride separates the seeds of consecutive levels of one room.
const LevelSeedStride = 1000

// Direction names one side of a cell.
type Direction int

const (
	Top Direction = iota
	Right
	Bottom
	Left
)

// directions is the fixed neighbour enumeration order. The generator draws
// from the same index space as clients, so this order is part of the protocol.
var directions = [4]Direction{Top, Right, Bottom, Left}

func (d Direction) String() string {
	return [...]string{"top", "right", "bottom", "left"}[d]
}

// Delta returns the column/row offset of the neighbour on side d.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Top:
		return 0, -1
	case Right:
		return 1, 0
	case Bottom:
		return 0, 1
	default:
		return -1, 0
	}
}

// Opposite returns the side facing back from the neighbour.
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// Cell holds the four wall flags of a grid unit.
type Cell struct {
	Top    bool `json:"top"`
	Right  bool `json:"right"`
	Bottom bool `json:"bottom"`
	Left   bool `json:"left"`
}

// Wall reports whether the wall on side d is present.
func (c Cell) Wall(d Direction) bool {
	switch d {
	case Top:
		return c.Top
	case Right:
		return c.Right
	case Bottom:
		return c.Bottom
	default:
		return c.Left
	}
}

func (c *Cell) clear(d Direction) {
	switch d {
	case Top:
		c.Top = false
	case Right:
		c.Right = false
	case Bottom:
		c.Bottom = false
	default:
		c.Left = false
	}
}

// Maze is a square grid addressed as m[y][x].
type Maze [][]Cell

// Point is a cell coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size returns the side length of the grid.
func (m Maze) Size() int {
	return len(m)
}

// InBounds reports whether (x, y) addresses a cell of m.
func (m Maze) InBounds(x, y int) bool {
	return y >= 0 && y < len(m) && x >= 0 && x < len(m[y])
}

// CanMove reports whether a passage leads from (x, y) towards d.
func (m Maze) CanMove(x, y int, d Direction) bool {
	if !m.InBounds(x, y) {
		return false
	}
	dx, dy := d.Delta()
	return m.InBounds(x+dx, y+dy) && !m[y][x].Wall(d)
}

// Generate builds a size×size maze from seed. Two calls with the same
// arguments return identical grids. It panics if size <= 0 or the seed is
// outside [0, MaxSeed]; use New for untrusted input.
func Generate(size int, seed int64) Maze {
	if seed < 0 || seed > MaxSeed {
		panic(fmt.Sprintf("maze: seed %d out of range", seed))
	}
	return GenerateFrom(size, NewLCG(seed))
}

// GenerateRandom builds a maze from the process-wide random source, for
// offline play where no other party needs the same layout.
func GenerateRandom(size int) Maze {
	return GenerateFrom(size, unseeded{})
}

// New is the checked form of Generate.
func New(size int, seed int64) (Maze, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	if seed < 0 || seed > MaxSeed {
		return nil, fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidSeed, seed, int64(MaxSeed))
	}
	return Generate(size, seed), nil
}

// GenerateFrom runs the depth-first carve with an arbitrary source.
func GenerateFrom(size int, src Source) Maze {
	if size <= 0 {
		panic(fmt.Sprintf("maze: invalid size %d", size))
	}

	m := make(Maze, size)
	for y := range m {
		m[y] = make([]Cell, size)
		for x := range m[y] {
			m[y][x] = Cell{Top: true, Right: true, Bottom: true, Left: true}
		}
	}

	visited := make([]bool, size*size)
	visited[0] = true
	stack := []Point{{X: 0, Y: 0}}

	var candidates [4]Direction
	for len(stack) > 0 {
		cur := stack[len(stack)-1]

		n := 0
		for _, d := range directions {
			dx, dy := d.Delta()
			nx, ny := cur.X+dx, cur.Y+dy
			if m.InBounds(nx, ny) && !visited[ny*size+nx] {
				candidates[n] = d
				n++
			}
		}

		if n == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		d := candidates[int(src.Float64()*float64(n))]
		dx, dy := d.Delta()
		next := Point{X: cur.X + dx, Y: cur.Y + dy}

		m[cur.Y][cur.X].clear(d)
		m[next.Y][next.X].clear(d.Opposite())
		visited[next.Y*size+next.X] = true
		stack = append(stack, next)
	}

	return m
}

// LevelSeed derives the seed of level index i from a room seed.
func LevelSeed(roomSeed int64, level int) int64 {
	return roomSeed + int64(level)*LevelSeedStride
}

// GenerateAll returns one maze per entry of sizes, level i seeded with
// LevelSeed(roomSeed, i).
func GenerateAll(sizes []int, roomSeed int64) []Maze {
	mazes := make([]Maze, len(sizes))
	for i, size := range sizes {
		mazes[i] = Generate(size, LevelSeed(roomSeed, i))
	}
	return mazes
}
