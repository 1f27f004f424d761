// Package websocket provides the real-time room protocol for LIFE races.
//
// The package implements:
//   - The Hub event loop that owns every room and connection binding
//   - Client read/write pumps with ping/pong keepalive
//   - The session protocol: join, ready, start, position relay, level-up
//     and finish messages
//   - A closed set of inbound message types decoded from JSON
//
// Architecture:
//
// A single Hub goroutine processes registrations, disconnects, inbound
// frames, deferred auto-start tasks and discovery queries, one at a time.
// Room state therefore needs no locks. Each connection runs a read pump that
// forwards raw frames to the hub and a write pump that drains a buffered
// send channel.
//
// Message Protocol:
//
// Every frame is a JSON object with a "type" field.
//
// Client to server:
//   - join {roomId, playerId?, playerName?, characterId?, color}
//   - playerReady, startGame
//   - playerUpdate {position: {x, z}, level}
//   - playerLevelUp {level}
//   - playerFinished {time}
//
// Server to client:
//   - joined, playerReady, playerLeft {playerId, players}
//   - gameStart {players, mazes, roomSeed}
//   - playerUpdate, playerLevelUp, playerFinished {leaderboard}
//   - error {message}
//
// Connection Lifecycle:
//
// 1. Client connects to /ws and is registered with the hub
// 2. A join binds the connection to one room and player for its lifetime
// 3. Ready flips are broadcast; once everyone is ready the start is deferred
// 4. Position updates are relayed to everyone but the sender
// 5. Disconnection removes the player and notifies the rest of the room
//
// Malformed frames and non-join frames on an unbound connection are logged
// and dropped. Join rejections are sent to the requesting client only.
//
// Usage:
//
//	hub := websocket.NewHub(websocket.Config{Sizes: levels.Sizes()})
//	go hub.Run(ctx)
//
//	router.HandleFunc("/ws", hub.ServeWS)
package websocket
