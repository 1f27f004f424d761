package maze

import (
	"encoding/json"
	"errors"
	"testing"
)

// Reference renderings produced by the browser client's generator for the
// same (size, seed) pairs.
const (
	golden4x42 = `+--+--+--+--+
|  |        |
+  +  +--+--+
|  |        |
+  +  +--+  +
|  |     |  |
+  +--+--+  +
|           |
+--+--+--+--+
`
	golden5x7 = `+--+--+--+--+--+
|     |     |  |
+--+  +  +  +  +
|  |     |     |
+  +--+--+--+  +
|  |     |     |
+  +  +  +  +--+
|     |  |     |
+  +--+  +--+  +
|     |        |
+--+--+--+--+--+
`
)

func TestGenerate_MatchesClientReference(t *testing.T) {
	tests := []struct {
		size     int
		seed     int64
		expected string
	}{
		{4, 42, golden4x42},
		{5, 7, golden5x7},
	}

	for _, tt := range tests {
		got := Generate(tt.size, tt.seed).String()
		if got != tt.expected {
			t.Errorf("Generate(%d, %d):\nexpected\n%s\ngot\n%s", tt.size, tt.seed, tt.expected, got)
		}
	}
}

func TestGenerate_SeedOneCells(t *testing.T) {
	m := Generate(3, 1)

	expected := Maze{
		{{Top: true, Bottom: true, Left: true}, {Top: true, Right: true}, {Top: true, Right: true, Left: true}},
		{{Top: true, Right: true, Left: true}, {Right: true, Left: true}, {Right: true, Left: true}},
		{{Bottom: true, Left: true}, {Bottom: true}, {Right: true, Bottom: true}},
	}

	for y := range expected {
		for x := range expected[y] {
			if m[y][x] != expected[y][x] {
				t.Errorf("cell (%d,%d): expected %+v, got %+v", x, y, expected[y][x], m[y][x])
			}
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	for _, size := range []int{1, 2, 5, 12, 20, 48} {
		for _, seed := range []int64{0, 1, 1000, 123456, 999999} {
			a := Generate(size, seed)
			b := Generate(size, seed)
			if a.String() != b.String() {
				t.Fatalf("Generate(%d, %d) not deterministic", size, seed)
			}
		}
	}
}

func TestGenerate_PerfectMaze(t *testing.T) {
	for _, size := range []int{1, 2, 3, 10, 20, 36, 48} {
		for _, seed := range []int64{0, 7, 4242, 777777} {
			m := Generate(size, seed)

			if m.Size() != size {
				t.Fatalf("expected size %d, got %d", size, m.Size())
			}
			if got := m.Passages(); got != size*size-1 {
				t.Errorf("size %d seed %d: expected %d passages, got %d", size, seed, size*size-1, got)
			}
			if got := m.Reachable(Point{}); got != size*size {
				t.Errorf("size %d seed %d: flood fill reached %d of %d cells", size, seed, got, size*size)
			}
		}
	}
}

func TestGenerate_WallsMirrored(t *testing.T) {
	m := Generate(24, 55555)

	for y := range m {
		for x := range m[y] {
			if x+1 < m.Size() && m[y][x].Right != m[y][x+1].Left {
				t.Errorf("asymmetric vertical wall between (%d,%d) and (%d,%d)", x, y, x+1, y)
			}
			if y+1 < m.Size() && m[y][x].Bottom != m[y+1][x].Top {
				t.Errorf("asymmetric horizontal wall between (%d,%d) and (%d,%d)", x, y, x, y+1)
			}
		}
	}
}

func TestGenerate_BoundaryWallsIntact(t *testing.T) {
	m := Generate(16, 99)
	n := m.Size()

	for i := 0; i < n; i++ {
		if !m[0][i].Top || !m[n-1][i].Bottom || !m[i][0].Left || !m[i][n-1].Right {
			t.Fatalf("outer wall missing at index %d", i)
		}
	}
}

func TestGenerate_PanicsOnInvalidSize(t *testing.T) {
	for _, size := range []int{0, -3} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("expected panic for size %d", size)
				}
			}()
			Generate(size, 1)
		}()
	}
}

func TestNew(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		m, err := New(6, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m.String() != Generate(6, 10).String() {
			t.Error("New should match Generate")
		}
	})

	t.Run("invalid size", func(t *testing.T) {
		if _, err := New(0, 10); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("expected ErrInvalidSize, got %v", err)
		}
	})

	t.Run("negative seed", func(t *testing.T) {
		if _, err := New(5, -1); !errors.Is(err, ErrInvalidSeed) {
			t.Errorf("expected ErrInvalidSeed, got %v", err)
		}
	})

	t.Run("seed above max", func(t *testing.T) {
		if _, err := New(5, MaxSeed+1); !errors.Is(err, ErrInvalidSeed) {
			t.Errorf("expected ErrInvalidSeed, got %v", err)
		}
	})
}

func TestGenerateRandom(t *testing.T) {
	m := GenerateRandom(15)
	if got := m.Passages(); got != 15*15-1 {
		t.Errorf("expected spanning tree, got %d passages", got)
	}
	if got := m.Reachable(Point{}); got != 15*15 {
		t.Errorf("expected all cells reachable, got %d", got)
	}
}

func TestGenerateAll(t *testing.T) {
	sizes := []int{20, 28, 12}
	roomSeed := int64(123456)

	mazes := GenerateAll(sizes, roomSeed)
	if len(mazes) != len(sizes) {
		t.Fatalf("expected %d mazes, got %d", len(sizes), len(mazes))
	}

	for i, m := range mazes {
		if m.Size() != sizes[i] {
			t.Errorf("level %d: expected size %d, got %d", i, sizes[i], m.Size())
		}
		expected := Generate(sizes[i], roomSeed+int64(i)*1000)
		if m.String() != expected.String() {
			t.Errorf("level %d does not use seed roomSeed + %d", i, i*1000)
		}
	}
}

func TestLevelSeed(t *testing.T) {
	if got := LevelSeed(500, 0); got != 500 {
		t.Errorf("expected 500, got %d", got)
	}
	if got := LevelSeed(500, 9); got != 9500 {
		t.Errorf("expected 9500, got %d", got)
	}
}

func TestDirection(t *testing.T) {
	for _, d := range directions {
		if d.Opposite().Opposite() != d {
			t.Errorf("%v: opposite is not an involution", d)
		}
		dx, dy := d.Delta()
		ox, oy := d.Opposite().Delta()
		if dx != -ox || dy != -oy {
			t.Errorf("%v: delta not mirrored by opposite", d)
		}
	}
	if Left.String() != "left" || Top.String() != "top" {
		t.Error("unexpected direction names")
	}
}

func TestMaze_JSONLayout(t *testing.T) {
	m := Generate(2, 3)

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var rows [][]map[string]bool
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(rows) != 2 || len(rows[0]) != 2 {
		t.Fatalf("expected 2x2 rows, got %v", rows)
	}
	for _, key := range []string{"top", "right", "bottom", "left"} {
		if _, ok := rows[1][0][key]; !ok {
			t.Errorf("cell missing %q key", key)
		}
	}
	if rows[0][0]["top"] != m[0][0].Top || rows[1][1]["left"] != m[1][1].Left {
		t.Error("JSON rows do not follow m[y][x] addressing")
	}
}
