package port

// NotificationBus fans transient events out to currently connected
// subscribers. No persistence, no replay, no delivery guarantee.
type NotificationBus interface {
	Broadcast(name string, payload any)
}
