// Package mcp exposes the maze server to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool calls the server's REST API and
// formats the JSON answer as plain text.
//
// Tools:
//   - list_rooms: active rooms, their players and race status
//   - server_stats: room, player and connection counts
//   - list_levels: the life-stage levels and maze sizes
//   - preview_maze: ASCII rendering of the maze a room seed plays on a level
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
