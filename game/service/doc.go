// Package service is the match façade used by every transport.
//
// GameService wraps the room registry with the operations clients need:
// creating and joining rooms, resolving player tokens to seats, submitting
// moves and walls, and reading state. Each operation runs in its own
// OpenTelemetry span tagged with the room code and seat.
//
// Rule violations are reported as a rejected ActionResult rather than an
// error, and the reason is never included. Lookup failures are returned as
// errors wrapping session.ErrRoomNotFound, session.ErrRoomFull or
// session.ErrUnknownPlayer so transports can map them to status codes.
//
// Usage:
//
//	rooms := session.NewManager(session.WithNotifier(hub))
//	svc := service.NewGameService(rooms, logger)
//
//	host, err := svc.CreateMatch(ctx, 30)
//	guest, err := svc.JoinMatch(ctx, host.Code)
//
//	seat, err := svc.Authorize(ctx, host.Code, host.Token)
//	res, err := svc.SubmitMove(ctx, host.Code, seat, 4, 1)
//	if !res.Accepted {
//		// illegal move, state unchanged
//	}
package service
