package suspend

import (
	"log/slog"
	"sync"

	"github.com/photon-delight/vlc-audio-suspend-inhibitor/pkg/gsettings"
)

// Event is a playback lifecycle event fed into the controller.
type Event int

const (
	EventPlaying Event = iota
	EventPausedOrStopped
	EventPeerLost
	EventTerminating
)

func (e Event) String() string {
	switch e {
	case EventPlaying:
		return "playing"
	case EventPausedOrStopped:
		return "paused-or-stopped"
	case EventPeerLost:
		return "peer-lost"
	case EventTerminating:
		return "terminating"
	default:
		return "unknown"
	}
}

// Gateway is the settings-store access the controller needs.
// *gsettings.Store satisfies it.
type Gateway interface {
	Read() (gsettings.Timeouts, error)
	Write(gsettings.Timeouts) error
}

// Controller owns the save/disable/restore state machine. It is the
// only component that writes to the settings store. The saved pair is
// non-nil exactly while suspend is suppressed.
type Controller struct {
	mu    sync.Mutex
	store Gateway
	saved *gsettings.Timeouts
}

func NewController(store Gateway) *Controller {
	return &Controller{store: store}
}

// OnPlaybackStateChanged runs one event through the transition table.
// Events must arrive in bus order; the internal mutex serializes
// callers (watch loop, IPC, signal path).
func (c *Controller) OnPlaybackStateChanged(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ev {
	case EventPlaying:
		c.suppress()
	case EventPausedOrStopped, EventPeerLost, EventTerminating:
		c.restore(ev)
	}
}

// Shutdown restores the suspend policy if it is still suppressed.
// Safe to call more than once; called on every termination path.
func (c *Controller) Shutdown() {
	c.OnPlaybackStateChanged(EventTerminating)
}

// Status reports the current state and a copy of the saved pair, nil
// when idle.
func (c *Controller) Status() (string, *gsettings.Timeouts) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.saved == nil {
		return "idle", nil
	}
	saved := *c.saved
	return "suppressed", &saved
}

func (c *Controller) suppress() {
	if c.saved != nil {
		// Already suppressed; the store currently holds zeros, so
		// re-reading here would clobber the real saved values.
		slog.Debug("playback event while already suppressed, keeping saved timeouts")
		return
	}

	pair, err := c.store.Read()
	if err != nil {
		slog.Error("cannot read current suspend timeouts, leaving policy untouched", "error", err)
		return
	}

	c.saved = &pair
	slog.Info("playback started, disabling idle suspend", "saved", pair)

	if err := c.store.Write(gsettings.Timeouts{}); err != nil {
		// Stay suppressed with the saved pair intact: the next
		// stop-class event retries the restore instead of losing
		// the user's values.
		slog.Error("failed to zero suspend timeouts", "error", err)
	}
}

func (c *Controller) restore(ev Event) {
	if c.saved == nil {
		slog.Debug("stop-class event while idle, nothing to restore", "event", ev)
		return
	}

	if err := c.store.Write(*c.saved); err != nil {
		slog.Error("failed to restore suspend timeouts, will retry on next stop event",
			"event", ev, "saved", *c.saved, "error", err)
		return
	}

	slog.Info("restored idle suspend timeouts", "event", ev, "restored", *c.saved)
	c.saved = nil
}
