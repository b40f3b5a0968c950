package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"

	"github.com/photon-delight/vlc-audio-suspend-inhibitor/internal/logging"
	"github.com/photon-delight/vlc-audio-suspend-inhibitor/internal/manager"
	"github.com/photon-delight/vlc-audio-suspend-inhibitor/internal/subscribe"
	"github.com/photon-delight/vlc-audio-suspend-inhibitor/internal/suspend"
	"github.com/photon-delight/vlc-audio-suspend-inhibitor/internal/watchers"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the daemon in the foreground",
	Run: func(cmd *cobra.Command, args []string) {
		if conn, err := manager.Manage.ConnectIPC(); err == nil {
			conn.Close()
			fmt.Println("Daemon already running.")
			return
		}

		if err := logging.Setup(manager.Config.LogLevel()); err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		manager.Config.Watch(func() {
			if err := logging.SetLevel(manager.Config.LogLevel()); err != nil {
				slog.Warn("ignoring invalid log level from config reload", "error", err)
			}
		})

		conn, err := dbus.ConnectSessionBus()
		if err != nil {
			slog.Error("cannot connect to session bus", "error", err)
			os.Exit(1)
		}
		defer conn.Close()

		prefix := manager.Config.PlayerPrefix()
		sub, err := subscribe.NewSubscriber(conn, prefix)
		if err != nil {
			slog.Error("cannot subscribe to bus signals", "error", err)
			os.Exit(1)
		}

		controller := suspend.NewController(manager.Config.Store())
		manager.Manage.SetController(controller)

		watcher := watchers.NewPlaybackWatcher(conn, sub, controller, prefix,
			manager.Config.DiscoveryInterval())
		manager.Manage.StartWatcher(watcher.Start)
		go manager.Manage.StartIPCServer()

		slog.Info("monitoring playback", "player", prefix)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		sig := <-sigChan

		slog.Info("received signal, shutting down", "signal", sig)
		manager.Manage.StopAll()
		// Idempotent; covers the case where the watcher had already
		// exited before the stop channel closed.
		controller.Shutdown()
	},
}
