// Command analyze prints quick, human-readable statistics about the mazes a
// room plays for a given seed: size, dead ends and the length of the shortest
// path from the entrance to the goal for every level.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/samber/lo"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/life-maze/game/config"
	"github.com/wricardo/life-maze/game/maze"
)

// LevelReport is the analysis of one level's maze.
type LevelReport struct {
	Index     int
	StageName string
	LevelSeed int64
	Stats     maze.Stats
}

// DeadEndRatio is the share of cells with exactly one opening.
func (r LevelReport) DeadEndRatio() float64 {
	if r.Stats.Cells == 0 {
		return 0
	}
	return float64(r.Stats.DeadEnds) / float64(r.Stats.Cells)
}

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "Print per-level maze statistics for a room seed",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:     "seed",
				Usage:    "Room seed",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "levels",
				Usage:   "JSON level file (built-in levels when empty)",
				Sources: cli.EnvVars("LEVELS_FILE"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			levels, err := config.NewManager(cmd.String("levels"))
			if err != nil {
				return err
			}
			reports, err := analyzeLevels(levels.Levels(), cmd.Int64("seed"))
			if err != nil {
				return err
			}
			printReports(cmd.Root().Writer, cmd.Int64("seed"), reports)
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// analyzeLevels generates every level's maze for roomSeed and measures it.
func analyzeLevels(levels []config.Level, roomSeed int64) ([]LevelReport, error) {
	reports := make([]LevelReport, 0, len(levels))
	for i, level := range levels {
		seed := maze.LevelSeed(roomSeed, i)
		m, err := maze.New(level.MazeSize, seed)
		if err != nil {
			return nil, fmt.Errorf("level %d: %w", i, err)
		}
		reports = append(reports, LevelReport{
			Index:     i,
			StageName: level.StageName,
			LevelSeed: seed,
			Stats:     m.Analyze(),
		})
	}
	return reports, nil
}

func printReports(w io.Writer, roomSeed int64, reports []LevelReport) {
	fmt.Fprintf(w, "=== Room seed %d ===\n", roomSeed)
	fmt.Fprintf(w, "%-3s %-22s %-6s %-14s %-9s %-10s %s\n", "#", "Stage", "Size", "Level seed", "Dead ends", "Ratio", "Shortest path")

	for _, r := range reports {
		fmt.Fprintf(w, "%-3d %-22s %-6s %-14d %-9d %-10s %d\n",
			r.Index,
			r.StageName,
			fmt.Sprintf("%dx%d", r.Stats.Size, r.Stats.Size),
			r.LevelSeed,
			r.Stats.DeadEnds,
			fmt.Sprintf("%.1f%%", r.DeadEndRatio()*100),
			r.Stats.SolutionLength,
		)
	}

	if len(reports) == 0 {
		return
	}

	longest := lo.MaxBy(reports, func(a, b LevelReport) bool {
		return a.Stats.SolutionLength > b.Stats.SolutionLength
	})
	total := lo.SumBy(reports, func(r LevelReport) int { return r.Stats.SolutionLength })

	fmt.Fprintf(w, "\nLongest path: level %d (%s), %d steps\n", longest.Index, longest.StageName, longest.Stats.SolutionLength)
	fmt.Fprintf(w, "Total steps for a perfect run: %d\n", total)
}
