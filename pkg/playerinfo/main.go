package playerinfo

import (
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
)

const (
	ObjectPath      = "/org/mpris/MediaPlayer2"
	PlayerInterface = "org.mpris.MediaPlayer2.Player"
	StatusProperty  = "PlaybackStatus"
)

// FindPlayer lists the session-bus names and returns the first one
// matching the given well-known-name prefix, or "" when the player is
// not on the bus.
func FindPlayer(conn *dbus.Conn, prefix string) (string, error) {
	var names []string
	err := conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names)
	if err != nil {
		return "", fmt.Errorf("ListNames: %w", err)
	}

	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			return n, nil
		}
	}
	return "", nil
}

// PlaybackStatus fetches the current PlaybackStatus property from the
// named player via a synchronous Properties.Get call.
func PlaybackStatus(conn *dbus.Conn, name string) (string, error) {
	obj := conn.Object(name, ObjectPath)
	call := obj.Call("org.freedesktop.DBus.Properties.Get", 0, PlayerInterface, StatusProperty)
	if call.Err != nil {
		return "", fmt.Errorf("Properties.Get %s: %w", StatusProperty, call.Err)
	}

	var v dbus.Variant
	if err := call.Store(&v); err != nil {
		return "", fmt.Errorf("decode %s: %w", StatusProperty, err)
	}
	status, ok := v.Value().(string)
	if !ok {
		return "", fmt.Errorf("unexpected %s type %T", StatusProperty, v.Value())
	}
	return status, nil
}
