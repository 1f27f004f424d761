package maze

// Passages counts the open walls between adjacent cells. A perfect maze of
// side n has exactly n*n-1.
func (m Maze) Passages() int {
	count := 0
	for y := range m {
		for x := range m[y] {
			// count each shared wall once, from its left/top owner
			if m.CanMove(x, y, Right) {
				count++
			}
			if m.CanMove(x, y, Bottom) {
				count++
			}
		}
	}
	return count
}

// DeadEnds counts cells with exactly one open side.
func (m Maze) DeadEnds() int {
	count := 0
	for y := range m {
		for x := range m[y] {
			open := 0
			for _, d := range directions {
				if m.CanMove(x, y, d) {
					open++
				}
			}
			if open == 1 {
				count++
			}
		}
	}
	return count
}

// Distances runs a breadth-first search from start and returns the step
// count to every cell, -1 for unreachable ones, indexed [y][x].
func (m Maze) Distances(start Point) [][]int {
	dist := make([][]int, len(m))
	for y := range m {
		dist[y] = make([]int, len(m[y]))
		for x := range dist[y] {
			dist[y][x] = -1
		}
	}
	if !m.InBounds(start.X, start.Y) {
		return dist
	}

	dist[start.Y][start.X] = 0
	queue := []Point{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range directions {
			if !m.CanMove(cur.X, cur.Y, d) {
				continue
			}
			dx, dy := d.Delta()
			nx, ny := cur.X+dx, cur.Y+dy
			if dist[ny][nx] >= 0 {
				continue
			}
			dist[ny][nx] = dist[cur.Y][cur.X] + 1
			queue = append(queue, Point{X: nx, Y: ny})
		}
	}
	return dist
}

// Reachable counts the cells reachable from start.
func (m Maze) Reachable(start Point) int {
	count := 0
	for _, row := range m.Distances(start) {
		for _, d := range row {
			if d >= 0 {
				count++
			}
		}
	}
	return count
}

// Stats summarizes a maze for tooling output.
type Stats struct {
	Size           int `json:"size"`
	Cells          int `json:"cells"`
	Passages       int `json:"passages"`
	DeadEnds       int `json:"dead_ends"`
	SolutionLength int `json:"solution_length"` // steps from (0,0) to the goal cell
}

// Goal returns the bottom-right cell players race to.
func (m Maze) Goal() Point {
	return Point{X: m.Size() - 1, Y: m.Size() - 1}
}

// Analyze computes Stats for m.
func (m Maze) Analyze() Stats {
	stats := Stats{
		Size:           m.Size(),
		Cells:          m.Size() * m.Size(),
		Passages:       m.Passages(),
		DeadEnds:       m.DeadEnds(),
		SolutionLength: -1,
	}
	if m.Size() > 0 {
		goal := m.Goal()
		stats.SolutionLength = m.Distances(Point{})[goal.Y][goal.X]
	}
	return stats
}
