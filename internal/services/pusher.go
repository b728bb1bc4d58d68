package services

// RealtimePusher pushes an event to a connected user's sockets. The
// websocket hub satisfies it through an adapter; a nil pusher disables
// pushes, which is the state in tests and in the worker process.
type RealtimePusher interface {
	PushToUser(userID, eventType string, payload interface{})
}
