// Package config loads the server settings.
//
// Settings come from QUORIDOR_* environment variables parsed with
// github.com/caarlos0/env. Every field has a default, so an empty
// environment yields a runnable server on 0.0.0.0:8080 with 30 second
// turns. Command line flags in main override individual fields before
// Validate is called.
//
//	QUORIDOR_HOST              listen host (0.0.0.0)
//	QUORIDOR_PORT              listen port (8080)
//	QUORIDOR_DEFAULT_TIMER     turn length for rooms created without one: 15, 30 or 60 (30)
//	QUORIDOR_ALLOWED_ORIGINS   comma separated browser origins, * for any (*)
//	QUORIDOR_ROOM_IDLE_TTL     idle time before a room is destroyed (2h)
//	QUORIDOR_CLEANUP_INTERVAL  how often idle rooms are reaped (5m)
//	QUORIDOR_OTEL_ENDPOINT     OTLP/HTTP trace endpoint, tracing is off when empty
//	QUORIDOR_DEBUG             development logging
package config
