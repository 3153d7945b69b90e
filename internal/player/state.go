package player

// State is the transport state of a Player.
type State int

const (
	StateStopped State = iota
	StateConnecting
	StatePlaying
	StatePaused
	StateError
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateConnecting:
		return "connecting"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateError:
		return "error"
	}
	return "unknown"
}

// EventKind tells what an Event reports.
type EventKind int

const (
	// EventStarted is sent once audio starts flowing to the device.
	EventStarted EventKind = iota
	// EventTitle carries a new ICY stream title.
	EventTitle
	// EventError reports that the stream failed and playback stopped.
	EventError
)

// Event is an asynchronous notification from the stream goroutine.
// Generation identifies the Play call it belongs to, so a consumer can drop
// events from a stream it has since replaced.
type Event struct {
	Kind       EventKind
	Generation uint64
	Title      string
	Err        error
}
