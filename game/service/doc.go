// Package service provides the lobby layer shared by the REST API and the
// MCP tools.
//
// The service package implements:
//   - Room discovery backed by the live websocket hub
//   - Level listing from the active level configuration
//   - Deterministic maze previews for a (level, room seed) pair
//   - Aggregate server statistics
//
// Core Interfaces:
//
// LobbyService is the read-only facade used by transports.
// RoomDirectory is satisfied by *websocket.Hub; every call is answered on the
// hub loop so snapshots are consistent.
// LevelSource is satisfied by *config.Manager.
//
// Usage:
//
//	levels, _ := config.NewManager("")
//	hub := websocket.NewHub(websocket.Config{Sizes: levels.Sizes()})
//	lobby := service.NewLobbyService(hub, levels)
//
//	preview, err := lobby.PreviewMaze(ctx, 0, 424242)
//	fmt.Print(preview.ASCII)
//
// Room mutation is not exposed here; rooms only change through the
// websocket protocol.
package service
