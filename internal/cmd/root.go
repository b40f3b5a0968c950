package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:     "vlc-suspend-inhibit",
	Version: Version,
	Short:   "Keep GNOME from suspending while VLC plays media",
	Long: "vlc-suspend-inhibit watches VLC's MPRIS playback status on the session bus\n" +
		"and zeroes the GNOME idle-suspend timeouts while media plays, restoring the\n" +
		"saved values when playback stops, VLC exits, or the daemon is terminated.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(generateConfigCmd)
}
