package service

import "github.com/worktalk/worktalk-backend/internal/ws"

// Pusher delivers an event to every live session of a user. Delivery
// is best-effort and must never block or fail the caller; the hub
// absorbs stale-session errors internally.
type Pusher interface {
	SendToUser(userID uint64, event *ws.Event)
}
