package gsettings

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrStoreUnavailable is returned when the gsettings command cannot be
// invoked or produces output that does not parse.
var ErrStoreUnavailable = errors.New("settings store unavailable")

const (
	DefaultSchema     = "org.gnome.settings-daemon.plugins.power"
	DefaultACKey      = "sleep-inactive-ac-timeout"
	DefaultBatteryKey = "sleep-inactive-battery-timeout"
)

// Timeouts holds the two GNOME idle-suspend timeouts, in seconds.
// 0 means "never suspend due to inactivity".
type Timeouts struct {
	AC      int
	Battery int
}

func (t Timeouts) String() string {
	return fmt.Sprintf("ac=%ds battery=%ds", t.AC, t.Battery)
}

// Store reads and writes the idle-suspend timeout keys via gsettings.
// It keeps no state; callers decide about retries.
type Store struct {
	Schema     string
	ACKey      string
	BatteryKey string
}

func NewStore() *Store {
	return &Store{
		Schema:     DefaultSchema,
		ACKey:      DefaultACKey,
		BatteryKey: DefaultBatteryKey,
	}
}

// runGsettings is a seam for tests.
var runGsettings = func(args ...string) (string, error) {
	out, err := exec.Command("gsettings", args...).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Read fetches both current timeout values.
func (s *Store) Read() (Timeouts, error) {
	ac, err := s.readKey(s.ACKey)
	if err != nil {
		return Timeouts{}, err
	}
	battery, err := s.readKey(s.BatteryKey)
	if err != nil {
		return Timeouts{}, err
	}
	return Timeouts{AC: ac, Battery: battery}, nil
}

// Write sets both timeout values. It stops at the first failing key.
func (s *Store) Write(t Timeouts) error {
	if err := s.writeKey(s.ACKey, t.AC); err != nil {
		return err
	}
	return s.writeKey(s.BatteryKey, t.Battery)
}

func (s *Store) readKey(key string) (int, error) {
	out, err := runGsettings("get", s.Schema, key)
	if err != nil {
		return 0, fmt.Errorf("%w: get %s %s: %v", ErrStoreUnavailable, s.Schema, key, err)
	}
	v, err := parseTimeout(out)
	if err != nil {
		return 0, fmt.Errorf("%w: get %s %s: %v", ErrStoreUnavailable, s.Schema, key, err)
	}
	return v, nil
}

func (s *Store) writeKey(key string, value int) error {
	if _, err := runGsettings("set", s.Schema, key, strconv.Itoa(value)); err != nil {
		return fmt.Errorf("%w: set %s %s: %v", ErrStoreUnavailable, s.Schema, key, err)
	}
	return nil
}

// parseTimeout accepts both the bare form ("300") and the typed form
// gsettings prints for these keys ("uint32 300").
func parseTimeout(out string) (int, error) {
	fields := strings.Fields(out)
	if len(fields) == 0 {
		return 0, errors.New("empty output")
	}
	v, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return 0, fmt.Errorf("unexpected output %q", out)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative timeout %d", v)
	}
	return v, nil
}
