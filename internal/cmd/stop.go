package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/photon-delight/vlc-audio-suspend-inhibitor/internal/manager"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop a running daemon, restoring the suspend policy",
	Run: func(cmd *cobra.Command, args []string) {
		response, err := manager.Manage.SendIPCCommand("STOP")
		if err != nil {
			fmt.Printf("Error: %v (is the daemon running?)\n", err)
			return
		}

		fmt.Printf("Daemon response: %s\n", response)
		if strings.Contains(response, "OK") {
			fmt.Println("Daemon shut down.")
		}
	},
}
