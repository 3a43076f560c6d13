// Package session holds the live rooms of the Quoridor server.
//
// Manager is the room registry. It creates rooms with unique four character
// codes (A-Z, 0-9, matched case-insensitively), binds joining players to the
// next free seat, looks rooms up and destroys them. Idle rooms can be reaped
// with CleanupExpiredSessions.
//
// Session is one room. It owns an engine.Match, the player tokens bound to
// its two seats and a turn clock. Every operation on a room takes the room
// lock, so player actions and clock ticks for one match are applied one at
// a time while different rooms proceed independently.
//
// Events:
//
// Rooms report state changes through a Notifier. Accepted actions produce a
// state broadcast, followed by a game over event on a win or a fresh timer
// tick otherwise. Rejected actions produce nothing. While both seats are
// bound and the match is undecided, the clock broadcasts the remaining
// seconds once per second and skips the turn when it runs out.
//
// Usage:
//
//	manager := session.NewManager(
//		session.WithNotifier(hub),
//		session.WithLogger(logger),
//	)
//
//	room, seat, token, err := manager.Create(30)
//	room, seat, token, err = manager.Join(room.Code)
//
//	snap, err := room.Move(seat, engine.Position{X: 4, Y: 1})
package session
