// Package maze generates the perfect mazes that every LIFE level is played on.
//
// Generation is a randomized depth-first traversal driven by an explicit
// stack, starting at the top-left cell (0,0). When a seed is supplied the only
// randomness source is a small linear congruential generator (LCG) whose
// output browser clients reproduce bit-for-bit, so a server and any number of
// clients agree on the exact wall layout of a room's maze set given nothing
// but the room seed.
//
// Core Types:
//
// Maze is a square grid of Cell values addressed as m[y][x] (x is the column,
// y the row). A Cell holds the four wall flags. The JSON form of a Maze is the
// array-of-rows layout browser clients consume directly.
//
// Usage:
//
//	m := maze.Generate(20, 123456)
//	fmt.Println(m)
//
//	// one maze per level, level i seeded with roomSeed + i*1000
//	mazes := maze.GenerateAll([]int{20, 28, 36}, roomSeed)
//
// Invariants:
//
// Every generated maze is a spanning tree over its cells: exactly Size*Size-1
// passages, all cells reachable from (0,0), and walls always mirrored between
// neighbours.
package maze
