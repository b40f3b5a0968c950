package subscribe

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/godbus/dbus/v5"

	"github.com/photon-delight/vlc-audio-suspend-inhibitor/pkg/playerinfo"
)

const (
	propertiesChangedSignal = "org.freedesktop.DBus.Properties.PropertiesChanged"
	nameOwnerChangedSignal  = "org.freedesktop.DBus.NameOwnerChanged"
)

// Subscriber turns raw session-bus signals into PlaybackEvents for a
// single media player, identified by a well-known-name prefix. Signals
// from other senders on the MPRIS object path are dropped.
type Subscriber struct {
	conn    *dbus.Conn
	prefix  string
	signals chan *dbus.Signal
	events  chan PlaybackEvent
	attach  chan string
}

// NewSubscriber registers the bus matches and starts the decode loop.
// A failed match registration is fatal for the daemon, so it is
// returned rather than logged.
func NewSubscriber(conn *dbus.Conn, prefix string) (*Subscriber, error) {
	s := &Subscriber{
		conn:    conn,
		prefix:  prefix,
		signals: make(chan *dbus.Signal, 50),
		events:  make(chan PlaybackEvent, 20),
		attach:  make(chan string, 1),
	}

	call := conn.BusObject().Call(
		"org.freedesktop.DBus.AddMatch", 0,
		"type='signal',interface='org.freedesktop.DBus.Properties',member='PropertiesChanged',path='"+playerinfo.ObjectPath+"'",
	)
	if call.Err != nil {
		return nil, fmt.Errorf("PropertiesChanged AddMatch: %w", call.Err)
	}

	call = conn.BusObject().Call(
		"org.freedesktop.DBus.AddMatch", 0,
		"type='signal',sender='org.freedesktop.DBus',interface='org.freedesktop.DBus',member='NameOwnerChanged'",
	)
	if call.Err != nil {
		return nil, fmt.Errorf("NameOwnerChanged AddMatch: %w", call.Err)
	}

	conn.Signal(s.signals)
	go s.loop()
	return s, nil
}

func (s *Subscriber) Events() <-chan PlaybackEvent {
	return s.events
}

// Attach tells the subscriber which well-known name the watcher found
// via discovery, so property signals can be matched to its owner.
func (s *Subscriber) Attach(name string) {
	s.attach <- name
}

func (s *Subscriber) loop() {
	defer close(s.events)

	// Unique name of the connection currently owning the monitored
	// well-known name. Empty while no player is tracked.
	var owner string
	var name string

	for {
		select {
		case n := <-s.attach:
			var o string
			err := s.conn.BusObject().Call("org.freedesktop.DBus.GetNameOwner", 0, n).Store(&o)
			if err != nil {
				slog.Warn("cannot resolve owner of player name", "name", n, "error", err)
				continue
			}
			owner, name = o, n
			slog.Debug("tracking player", "name", name, "owner", owner)

		case sig, ok := <-s.signals:
			if !ok {
				return
			}
			if sig == nil {
				continue
			}

			switch sig.Name {
			case nameOwnerChangedSignal:
				n, oldOwner, newOwner, ok := decodeNameOwnerChanged(sig)
				if !ok {
					slog.Warn("dropping malformed NameOwnerChanged signal", "body", sig.Body)
					continue
				}
				if !strings.HasPrefix(n, s.prefix) {
					continue
				}
				if newOwner == "" {
					if oldOwner != "" {
						owner, name = "", ""
						s.events <- PlaybackEvent{Kind: PlayerLost, Player: n}
					}
					continue
				}
				owner, name = newOwner, n
				s.events <- PlaybackEvent{Kind: PlayerAppeared, Player: n}

			case propertiesChangedSignal:
				if owner == "" || sig.Sender != owner {
					continue
				}
				status, invalidated, ok := decodePropertiesChanged(sig)
				if !ok {
					slog.Warn("dropping malformed PropertiesChanged signal", "sender", sig.Sender, "body", sig.Body)
					continue
				}
				if invalidated {
					s.events <- PlaybackEvent{Kind: PlayerLost, Player: name}
					continue
				}
				if status != "" {
					s.events <- PlaybackEvent{Kind: StatusChanged, Player: name, Status: status}
				}
			}
		}
	}
}

func decodeNameOwnerChanged(sig *dbus.Signal) (name, oldOwner, newOwner string, ok bool) {
	if len(sig.Body) != 3 {
		return "", "", "", false
	}
	name, ok1 := sig.Body[0].(string)
	oldOwner, ok2 := sig.Body[1].(string)
	newOwner, ok3 := sig.Body[2].(string)
	if !ok1 || !ok2 || !ok3 {
		return "", "", "", false
	}
	return name, oldOwner, newOwner, true
}

// decodePropertiesChanged extracts the PlaybackStatus value from a
// PropertiesChanged body (sa{sv}as). status is "" when the signal is
// well-formed but carries no PlaybackStatus change; invalidated is
// true when PlaybackStatus appears in the invalidated list.
func decodePropertiesChanged(sig *dbus.Signal) (status string, invalidated bool, ok bool) {
	if len(sig.Body) < 3 {
		return "", false, false
	}

	iface, isString := sig.Body[0].(string)
	if !isString {
		return "", false, false
	}
	if iface != playerinfo.PlayerInterface && iface != "org.mpris.MediaPlayer2" {
		// Some other interface on the same object; not ours.
		return "", false, true
	}

	props, isMap := sig.Body[1].(map[string]dbus.Variant)
	if !isMap {
		return "", false, false
	}
	invalidatedProps, isList := sig.Body[2].([]string)
	if !isList {
		return "", false, false
	}

	for _, p := range invalidatedProps {
		if p == playerinfo.StatusProperty {
			return "", true, true
		}
	}

	v, present := props[playerinfo.StatusProperty]
	if !present {
		return "", false, true
	}
	status, isString = v.Value().(string)
	if !isString {
		return "", false, false
	}
	return status, false, true
}
