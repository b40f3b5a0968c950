package gsettings

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeout(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		want    int
		wantErr bool
	}{
		{name: "typed uint32", out: "uint32 300", want: 300},
		{name: "bare integer", out: "600", want: 600},
		{name: "zero", out: "uint32 0", want: 0},
		{name: "trailing newline already trimmed", out: "uint32 1200", want: 1200},
		{name: "empty", out: "", wantErr: true},
		{name: "garbage", out: "not-a-number", wantErr: true},
		{name: "negative", out: "-5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTimeout(tt.out)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStoreRead(t *testing.T) {
	defer func(orig func(...string) (string, error)) { runGsettings = orig }(runGsettings)

	outputs := map[string]string{
		DefaultACKey:      "uint32 300",
		DefaultBatteryKey: "uint32 600",
	}
	runGsettings = func(args ...string) (string, error) {
		require.Len(t, args, 3)
		require.Equal(t, "get", args[0])
		require.Equal(t, DefaultSchema, args[1])
		return outputs[args[2]], nil
	}

	s := NewStore()
	got, err := s.Read()
	require.NoError(t, err)
	assert.Equal(t, Timeouts{AC: 300, Battery: 600}, got)
}

func TestStoreReadCommandFailure(t *testing.T) {
	defer func(orig func(...string) (string, error)) { runGsettings = orig }(runGsettings)

	runGsettings = func(args ...string) (string, error) {
		return "", errors.New("exec: \"gsettings\": executable file not found in $PATH")
	}

	_, err := NewStore().Read()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStoreUnavailable))
}

func TestStoreReadMalformedOutput(t *testing.T) {
	defer func(orig func(...string) (string, error)) { runGsettings = orig }(runGsettings)

	runGsettings = func(args ...string) (string, error) {
		return "no such key", nil
	}

	_, err := NewStore().Read()
	assert.True(t, errors.Is(err, ErrStoreUnavailable))
}

func TestStoreWrite(t *testing.T) {
	defer func(orig func(...string) (string, error)) { runGsettings = orig }(runGsettings)

	var calls [][]string
	runGsettings = func(args ...string) (string, error) {
		calls = append(calls, args)
		return "", nil
	}

	err := NewStore().Write(Timeouts{AC: 0, Battery: 0})
	require.NoError(t, err)
	require.Len(t, calls, 2)
	assert.Equal(t, []string{"set", DefaultSchema, DefaultACKey, "0"}, calls[0])
	assert.Equal(t, []string{"set", DefaultSchema, DefaultBatteryKey, "0"}, calls[1])
}

func TestStoreWriteStopsAtFirstFailure(t *testing.T) {
	defer func(orig func(...string) (string, error)) { runGsettings = orig }(runGsettings)

	var calls int
	runGsettings = func(args ...string) (string, error) {
		calls++
		return "", errors.New("dconf backend error")
	}

	err := NewStore().Write(Timeouts{AC: 300, Battery: 600})
	assert.True(t, errors.Is(err, ErrStoreUnavailable))
	assert.Equal(t, 1, calls)
}
