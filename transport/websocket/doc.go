// Package websocket is the realtime gateway for Quoridor rooms.
//
// A central Hub tracks the connections attached to each room and fans out
// the events rooms report through session.Notifier. Room code and player
// token are given as query parameters (/ws?code=ABCD&token=...) and every
// connection acts for the seat its token is bound to.
//
// Message Protocol:
//
// Outgoing messages share one envelope:
//   - {event: "game_update", code, state}   after every state change
//   - {event: "game_over", code, winner}    when a pawn reaches its goal row
//   - {event: "timer_tick", code, remaining} once per second while the clock runs
//   - {event: "action_rejected", code}      to the sender of an illegal action only
//
// Incoming intents:
//   - {action: "move", x, y}
//   - {action: "place_wall", x, y, orientation: "H"|"V"}
//
// Concurrency:
//
// Rooms call the Notifier methods while holding their lock, so those
// methods only enqueue onto a buffered channel. The Run goroutine owns the
// room map and is the only writer to client send channels.
//
// Usage:
//
//	hub := websocket.NewHub(logger, settings.OriginAllowed)
//	go hub.Run(ctx)
//
//	rooms := session.NewManager(session.WithNotifier(hub))
//	svc := service.NewGameService(rooms, logger)
//
//	hub.ServeWS(w, r, code, seat, svc)
package websocket
