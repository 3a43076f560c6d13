// Package api provides the HTTP REST surface of the Quoridor server.
//
// Endpoints:
//
// Rooms:
//   - POST /api/rooms - Create a room and take seat 0 ({timer_duration})
//   - GET /api/rooms - List live rooms
//   - GET /api/rooms/{code} - Room details
//   - DELETE /api/rooms/{code} - Destroy a room
//   - POST /api/rooms/{code}/join - Take the free seat
//
// Match:
//   - GET /api/rooms/{code}/state - Current snapshot
//   - GET /api/rooms/{code}/board - Text board with legal moves
//   - POST /api/rooms/{code}/move - Move a pawn ({token, x, y})
//   - POST /api/rooms/{code}/wall - Place a wall ({token, x, y, orientation})
//
// Other:
//   - GET /ws?code=&token= - WebSocket for the token's seat
//   - GET /healthz - Liveness
//
// Error mapping:
//
// Unknown rooms answer 404, full rooms 409, unknown tokens 403 and bad
// bodies or timer durations 400. An action that breaks a game rule is not
// an HTTP error: it answers 200 with {"accepted": false}.
package api
