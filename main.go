package main

import (
	"github.com/photon-delight/vlc-audio-suspend-inhibitor/internal/cmd"
)

func main() {
	cmd.Execute()
}
