package manager

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/photon-delight/vlc-audio-suspend-inhibitor/internal/suspend"
)

// AppManager tracks the watcher goroutines and serves the local IPC
// socket used by the status/stop commands.
type AppManager struct {
	mu         sync.Mutex
	stops      []chan struct{}
	wg         sync.WaitGroup
	controller *suspend.Controller
	instanceID string
}

var Manage = &AppManager{}

func getSocketPath() string {
	var baseDir string
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		baseDir = runtimeDir
	} else {
		baseDir = os.TempDir()
	}

	socketDir := filepath.Join(baseDir, appDirName)
	if err := os.MkdirAll(socketDir, 0o755); err != nil {
		return filepath.Join(os.TempDir(), appDirName+".sock")
	}
	return filepath.Join(socketDir, "socket.sock")
}

// SetController hands the manager the controller instance so the IPC
// server can answer STATUS and trigger a clean shutdown.
func (m *AppManager) SetController(c *suspend.Controller) {
	m.mu.Lock()
	m.controller = c
	m.instanceID = uuid.NewString()
	m.mu.Unlock()
}

func (m *AppManager) StartIPCServer() {
	socketPath := getSocketPath()
	_ = os.Remove(socketPath)

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		slog.Error("cannot listen on IPC socket", "path", socketPath, "error", err)
		return
	}
	defer listener.Close()

	slog.Info("IPC server listening", "path", socketPath)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if strings.Contains(err.Error(), "use of closed network connection") {
				return
			}
			continue
		}
		go m.handleConnection(conn)
	}
}

func (m *AppManager) handleConnection(conn net.Conn) {
	defer conn.Close()

	buf := make([]byte, 1024)
	n, err := conn.Read(buf)
	if err != nil {
		return
	}

	command := strings.TrimSpace(string(buf[:n]))

	switch command {
	case "STOP":
		slog.Info("received STOP via IPC, shutting down")
		_, _ = conn.Write([]byte("OK: shutting down"))
		_ = conn.Close()

		go func() {
			m.StopAll()
			time.Sleep(100 * time.Millisecond)
			os.Exit(0)
		}()

	case "STATUS":
		m.mu.Lock()
		controller := m.controller
		instance := m.instanceID
		m.mu.Unlock()

		if controller == nil {
			_, _ = conn.Write([]byte("ERR: not initialized"))
			return
		}
		state, saved := controller.Status()
		if saved != nil {
			_, _ = fmt.Fprintf(conn, "OK: state=%s saved=%q instance=%s", state, saved, instance)
		} else {
			_, _ = fmt.Fprintf(conn, "OK: state=%s instance=%s", state, instance)
		}

	default:
		_, _ = conn.Write([]byte("ERR: unknown command"))
	}
}

// StartWatcher runs f in a goroutine, restarting it after a panic so a
// bad notification cannot take the daemon down for good.
func (m *AppManager) StartWatcher(f func(stop <-chan struct{})) {
	stop := make(chan struct{})
	m.mu.Lock()
	m.stops = append(m.stops, stop)
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		for {
			func() {
				defer func() {
					if r := recover(); r != nil {
						slog.Error("watcher panic", "panic", r)
					}
				}()
				f(stop)
			}()

			select {
			case <-stop:
				return
			case <-time.After(2 * time.Second):
				slog.Warn("restarting watcher")
			}
		}
	}()
}

// StopAll closes every stop channel and waits for the watchers to
// finish, so the restore in the watcher's shutdown path has completed
// by the time StopAll returns.
func (m *AppManager) StopAll() {
	m.mu.Lock()
	stops := m.stops
	m.stops = nil
	m.mu.Unlock()

	for _, s := range stops {
		close(s)
	}
	m.wg.Wait()
}

func (m *AppManager) ConnectIPC() (net.Conn, error) {
	return net.DialTimeout("unix", getSocketPath(), 500*time.Millisecond)
}

func (m *AppManager) SendIPCCommand(cmd string) (string, error) {
	conn, err := m.ConnectIPC()
	if err != nil {
		return "", err
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(cmd)); err != nil {
		return "", err
	}

	buf := make([]byte, 1024)
	n, err := conn.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}

	return string(buf[:n]), nil
}
