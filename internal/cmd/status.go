package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/photon-delight/vlc-audio-suspend-inhibitor/internal/manager"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the daemon currently suppresses suspend",
	Run: func(cmd *cobra.Command, args []string) {
		response, err := manager.Manage.SendIPCCommand("STATUS")
		if err != nil {
			fmt.Printf("Error: %v (is the daemon running?)\n", err)
			return
		}
		fmt.Println(response)
	},
}
