package maze

import "strings"

// String renders the maze as ASCII art, one text row per wall line and one
// per cell line:
//
//	+--+--+
//	|     |
//	+  +--+
func (m Maze) String() string {
	var b strings.Builder
	for y := range m {
		// top walls
		for x := range m[y] {
			b.WriteByte('+')
			if m[y][x].Top {
				b.WriteString("--")
			} else {
				b.WriteString("  ")
			}
		}
		b.WriteString("+\n")

		// left walls and cell bodies
		for x := range m[y] {
			if m[y][x].Left {
				b.WriteByte('|')
			} else {
				b.WriteByte(' ')
			}
			b.WriteString("  ")
		}
		if n := len(m[y]); n > 0 && m[y][n-1].Right {
			b.WriteByte('|')
		} else {
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}

	if n := len(m); n > 0 {
		for x := range m[n-1] {
			b.WriteByte('+')
			if m[n-1][x].Bottom {
				b.WriteString("--")
			} else {
				b.WriteString("  ")
			}
		}
		b.WriteString("+\n")
	}
	return b.String()
}
