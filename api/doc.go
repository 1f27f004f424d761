// Package api provides the HTTP surface of the LIFE maze server.
//
// Endpoints:
//
//	GET  /rooms                          room discovery, {"rooms": [...]}
//	GET  /api                            endpoint index
//	GET  /api/health                     liveness
//	GET  /api/rooms                      same as /rooms
//	GET  /api/stats                      room, player and connection counts
//	GET  /api/levels                     active level configuration
//	GET  /api/levels/{level}/maze?seed=S maze a room seeded S plays on level
//	GET  /assets/images/{1-5}.jpg        avatar images, cached for an hour
//	WS   /ws (or an upgrade of /)        realtime room protocol
//
// Maze previews accept format=ascii to return a text rendering instead of
// JSON. Anything outside the avatar allow-list is a 404.
//
// CORS headers are added by rs/cors according to Options.AllowedOrigins.
//
// Usage:
//
//	server := api.NewServer(lobby, hub, api.Options{AssetsDir: "frontend/assets/images"})
//	http.ListenAndServe(":8080", server)
package api
