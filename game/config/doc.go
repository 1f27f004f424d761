// Package config provides the level configuration for LIFE mazes.
//
// A level is one life stage: a display name, an age range, a quote and the
// side length of its maze. The ordered level sequence is the only input,
// besides the room seed, that decides every maze of a room, so servers and
// clients must run with the same table.
//
// Sources:
//
// By default the built-in DefaultLevels table is served. A JSON file holding
// an array of levels can replace it:
//
//	[
//	  {"stageName": "Innocent Beginnings", "ageRange": "0-6", "mazeSize": 20},
//	  {"stageName": "School Years", "ageRange": "7-18", "mazeSize": 28}
//	]
//
// Usage:
//
//	manager, err := config.NewManager(os.Getenv("LEVELS_FILE"))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sizes := manager.Sizes()
//	mazes := maze.GenerateAll(sizes, roomSeed)
//
// Validation:
//
// Level files are checked with go-playground/validator:
//   - between 1 and 64 levels
//   - every mazeSize in [2, 128]
//   - stageName and ageRange present
//
// Failures wrap ErrInvalidLevels.
package config
