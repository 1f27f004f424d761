// Command validate checks level files before they are handed to the server
// with --levels. For every file it checks:
//   - JSON structure and required fields (via the level config loader)
//   - Maze sizes within the supported range
//   - Connectivity: every level's maze, for a spread of sample room seeds,
//     reaches all cells from the entrance and is a perfect maze
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/life-maze/game/config"
	"github.com/wricardo/life-maze/game/maze"
)

// sampleSeeds are the room seeds each level is generated with during the
// connectivity check. The last one is the largest room seed whose ten
// levels stay in range.
var sampleSeeds = []int64{0, 1, 42, 999_999, maze.MaxSeed - 9*maze.LevelSeedStride}

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Messages contains informational lines; otherwise it
// accumulates the errors that were found.
type ValidationResult struct {
	File     string
	Valid    bool
	Messages []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Messages = append(r.Messages, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...any) {
	r.Messages = append(r.Messages, "✓ "+fmt.Sprintf(format, args...))
}

// validateLevels loads and validates a single level file.
func validateLevels(filePath string) ValidationResult {
	result := ValidationResult{
		File:     filepath.Base(filePath),
		Valid:    true,
		Messages: []string{},
	}

	manager, err := config.NewManager(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			result.fail("Cannot read file: %v", err)
		} else {
			result.fail("%v", err)
		}
		return result
	}

	levels := manager.Levels()
	result.info("%d levels", len(levels))

	connectivity := validateConnectivity(levels, sampleSeeds)
	if !connectivity.Valid {
		result.Valid = false
	}
	result.Messages = append(result.Messages, connectivity.Messages...)

	return result
}

// validateConnectivity generates every level for each room seed and checks
// that all cells are reachable from (0,0) through exactly cells-1 passages.
func validateConnectivity(levels []config.Level, roomSeeds []int64) ValidationResult {
	result := ValidationResult{Valid: true, Messages: []string{}}

	for i, level := range levels {
		for _, roomSeed := range roomSeeds {
			seed := maze.LevelSeed(roomSeed, i)
			m, err := maze.New(level.MazeSize, seed)
			if err != nil {
				result.fail("Level %d (%s): %v", i, level.StageName, err)
				break
			}

			cells := level.MazeSize * level.MazeSize
			if reached := m.Reachable(maze.Point{}); reached != cells {
				result.fail("Level %d (%s) seed %d: only %d of %d cells reachable", i, level.StageName, seed, reached, cells)
			}
			if passages := m.Passages(); passages != cells-1 {
				result.fail("Level %d (%s) seed %d: %d passages, want %d", i, level.StageName, seed, passages, cells-1)
			}
		}
	}

	if result.Valid {
		result.info("All levels connected for %d sample seeds", len(roomSeeds))
	}
	return result
}

// main validates the files named on the command line, or levels/*.json when
// none are given, printing a concise report and exiting with non-zero status
// if any are invalid.
func main() {
	files := os.Args[1:]
	if len(files) == 0 {
		var err error
		files, err = filepath.Glob(filepath.Join("levels", "*.json"))
		if err != nil {
			fmt.Printf("Error finding level files: %v\n", err)
			os.Exit(1)
		}
	}

	if len(files) == 0 {
		fmt.Println("No level files to validate")
		return
	}

	allValid := true
	for _, file := range files {
		result := validateLevels(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Messages {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Messages {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All level files are valid!")
	} else {
		fmt.Println("❌ Some level files have errors")
		os.Exit(1)
	}
}
