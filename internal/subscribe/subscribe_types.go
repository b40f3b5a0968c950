package subscribe

// EventKind tags a decoded bus notification.
type EventKind int

const (
	// StatusChanged carries a new PlaybackStatus string from the
	// tracked player.
	StatusChanged EventKind = iota
	// PlayerAppeared means the monitored well-known name gained an
	// owner on the bus.
	PlayerAppeared
	// PlayerLost means the monitored name lost its owner, or the
	// PlaybackStatus property was invalidated.
	PlayerLost
)

type PlaybackEvent struct {
	Kind   EventKind
	Player string // well-known bus name, when known
	Status string // raw PlaybackStatus value, StatusChanged only
}
