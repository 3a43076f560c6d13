// Package mcp exposes Quoridor to Model Context Protocol clients.
//
// Client is a thin proxy: every tool translates its arguments into a call
// against the REST API and formats the JSON reply as text. It can be served
// over stdio or mounted on the HTTP server at /mcp.
//
// Tools:
//   - create_room, join_room: take a seat and receive a player token
//   - list_rooms, get_room: inspect live rooms
//   - game_state: board drawing plus the legal pawn moves
//   - move_pawn, place_wall: act on behalf of a token
//   - game_instructions: the rules in plain text
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
