package watchers

import (
	"log/slog"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/photon-delight/vlc-audio-suspend-inhibitor/internal/subscribe"
	"github.com/photon-delight/vlc-audio-suspend-inhibitor/internal/suspend"
	"github.com/photon-delight/vlc-audio-suspend-inhibitor/pkg/playerinfo"
)

// PlaybackWatcher drives the controller from decoded bus events. One
// loop owns all dispatch, so events reach the controller in bus order.
type PlaybackWatcher struct {
	Controller *suspend.Controller
	Events     <-chan subscribe.PlaybackEvent
	Interval   time.Duration

	// Seams over the bus, wired by NewPlaybackWatcher.
	FindPlayer    func() (string, error)
	InitialStatus func(name string) (string, error)
	Attach        func(name string)
}

func NewPlaybackWatcher(conn *dbus.Conn, sub *subscribe.Subscriber, controller *suspend.Controller, prefix string, interval time.Duration) *PlaybackWatcher {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &PlaybackWatcher{
		Controller: controller,
		Events:     sub.Events(),
		Interval:   interval,
		FindPlayer: func() (string, error) {
			return playerinfo.FindPlayer(conn, prefix)
		},
		InitialStatus: func(name string) (string, error) {
			return playerinfo.PlaybackStatus(conn, name)
		},
		Attach: sub.Attach,
	}
}

// Start runs the watch loop until stop is closed or the event channel
// ends. The controller is always shut down on the way out, so the
// suspend policy is restored on every exit path.
func (w *PlaybackWatcher) Start(stop <-chan struct{}) {
	defer w.Controller.Shutdown()

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	tracked := w.discover()

	for {
		select {
		case <-stop:
			return
		case ev, ok := <-w.Events:
			if !ok {
				slog.Error("bus event stream closed")
				return
			}
			tracked = w.handle(ev, tracked)
		case <-ticker.C:
			if tracked == "" {
				tracked = w.discover()
			}
		}
	}
}

// discover looks for an already-running player and, when found, feeds
// its current status through the normal mapping so a daemon started
// mid-playback suppresses immediately.
func (w *PlaybackWatcher) discover() string {
	name, err := w.FindPlayer()
	if err != nil {
		slog.Warn("player discovery failed", "error", err)
		return ""
	}
	if name == "" {
		return ""
	}

	slog.Info("found media player", "name", name)
	w.Attach(name)

	status, err := w.InitialStatus(name)
	if err != nil {
		slog.Warn("cannot fetch initial playback status", "name", name, "error", err)
		return name
	}
	w.dispatchStatus(status)
	return name
}

func (w *PlaybackWatcher) handle(ev subscribe.PlaybackEvent, tracked string) string {
	switch ev.Kind {
	case subscribe.PlayerAppeared:
		slog.Info("media player appeared on bus", "name", ev.Player)
		if status, err := w.InitialStatus(ev.Player); err == nil {
			w.dispatchStatus(status)
		}
		return ev.Player

	case subscribe.StatusChanged:
		slog.Debug("playback status changed", "name", ev.Player, "status", ev.Status)
		w.dispatchStatus(ev.Status)
		return tracked

	case subscribe.PlayerLost:
		slog.Info("media player left the bus", "name", ev.Player)
		w.Controller.OnPlaybackStateChanged(suspend.EventPeerLost)
		return ""
	}
	return tracked
}

// dispatchStatus maps the MPRIS status string onto controller events.
// Values outside the documented domain are ignored, not errors.
func (w *PlaybackWatcher) dispatchStatus(status string) {
	switch status {
	case "Playing":
		w.Controller.OnPlaybackStateChanged(suspend.EventPlaying)
	case "Paused", "Stopped":
		w.Controller.OnPlaybackStateChanged(suspend.EventPausedOrStopped)
	default:
		slog.Debug("ignoring unrecognized playback status", "status", status)
	}
}
