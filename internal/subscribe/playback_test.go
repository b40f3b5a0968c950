package subscribe

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photon-delight/vlc-audio-suspend-inhibitor/pkg/playerinfo"
)

func propertiesChanged(iface string, props map[string]dbus.Variant, invalidated []string) *dbus.Signal {
	return &dbus.Signal{
		Sender: ":1.42",
		Path:   dbus.ObjectPath(playerinfo.ObjectPath),
		Name:   propertiesChangedSignal,
		Body:   []interface{}{iface, props, invalidated},
	}
}

func TestDecodePropertiesChangedStatus(t *testing.T) {
	sig := propertiesChanged(playerinfo.PlayerInterface,
		map[string]dbus.Variant{"PlaybackStatus": dbus.MakeVariant("Playing")},
		nil)

	status, invalidated, ok := decodePropertiesChanged(sig)
	require.True(t, ok)
	assert.False(t, invalidated)
	assert.Equal(t, "Playing", status)
}

func TestDecodePropertiesChangedOtherProperty(t *testing.T) {
	sig := propertiesChanged(playerinfo.PlayerInterface,
		map[string]dbus.Variant{"Volume": dbus.MakeVariant(0.5)},
		nil)

	status, invalidated, ok := decodePropertiesChanged(sig)
	require.True(t, ok)
	assert.False(t, invalidated)
	assert.Empty(t, status)
}

func TestDecodePropertiesChangedOtherInterface(t *testing.T) {
	sig := propertiesChanged("org.mpris.MediaPlayer2.TrackList",
		map[string]dbus.Variant{"PlaybackStatus": dbus.MakeVariant("Playing")},
		nil)

	status, _, ok := decodePropertiesChanged(sig)
	require.True(t, ok)
	assert.Empty(t, status)
}

func TestDecodePropertiesChangedInvalidated(t *testing.T) {
	sig := propertiesChanged(playerinfo.PlayerInterface,
		map[string]dbus.Variant{},
		[]string{"PlaybackStatus"})

	_, invalidated, ok := decodePropertiesChanged(sig)
	require.True(t, ok)
	assert.True(t, invalidated)
}

func TestDecodePropertiesChangedMalformed(t *testing.T) {
	tests := []struct {
		name string
		body []interface{}
	}{
		{name: "short body", body: []interface{}{playerinfo.PlayerInterface}},
		{name: "iface not a string", body: []interface{}{42, map[string]dbus.Variant{}, []string{}}},
		{name: "props not a map", body: []interface{}{playerinfo.PlayerInterface, "nope", []string{}}},
		{name: "invalidated not a list", body: []interface{}{playerinfo.PlayerInterface, map[string]dbus.Variant{}, "nope"}},
		{name: "status not a string", body: []interface{}{
			playerinfo.PlayerInterface,
			map[string]dbus.Variant{"PlaybackStatus": dbus.MakeVariant(int32(1))},
			[]string{},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := &dbus.Signal{Name: propertiesChangedSignal, Body: tt.body}
			_, _, ok := decodePropertiesChanged(sig)
			assert.False(t, ok)
		})
	}
}

func TestDecodeNameOwnerChanged(t *testing.T) {
	sig := &dbus.Signal{
		Name: nameOwnerChangedSignal,
		Body: []interface{}{"org.mpris.MediaPlayer2.vlc", ":1.42", ""},
	}

	name, oldOwner, newOwner, ok := decodeNameOwnerChanged(sig)
	require.True(t, ok)
	assert.Equal(t, "org.mpris.MediaPlayer2.vlc", name)
	assert.Equal(t, ":1.42", oldOwner)
	assert.Empty(t, newOwner)
}

func TestDecodeNameOwnerChangedMalformed(t *testing.T) {
	sig := &dbus.Signal{
		Name: nameOwnerChangedSignal,
		Body: []interface{}{"org.mpris.MediaPlayer2.vlc", ":1.42"},
	}

	_, _, _, ok := decodeNameOwnerChanged(sig)
	assert.False(t, ok)
}
