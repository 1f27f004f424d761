// Package room manages multiplayer rooms for LIFE races.
//
// A room groups up to MaxPlayers players that race through the same maze
// set. The set is derived from a seed drawn when the room is created, so a
// room that empties and is recreated under the same id gets new mazes.
//
// Core Types:
//
//   - Manager: owns all rooms; creates them lazily, deletes them when empty
//   - Room: players in join order, seed, mazes and the started flag
//   - Player: identity, color, readiness and race progress
//   - Summary / LeaderboardEntry: read-only projections for clients
//
// Lifecycle:
//
//	m := room.NewManager(room.Config{Sizes: levels.Sizes(), Scheduler: loop})
//	r := m.EnsureRoom("lobby-1")
//	p, err := m.TryAddPlayer(r.ID, room.PlayerSpec{ID: "p1", Color: "0x4fc3f7"})
//	m.SetReady(r.ID, p.ID) // auto-start is scheduled once everyone is ready
//
// Operations that name a room or player that no longer exists do nothing
// and report false; late messages after a disconnect are expected.
//
// Concurrency:
//
// Manager has no locks. It must be driven from a single goroutine, and the
// Scheduler must deliver deferred auto-start tasks back onto that goroutine.
// The websocket Hub is the only production caller.
package room
