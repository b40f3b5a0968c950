package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/photon-delight/vlc-audio-suspend-inhibitor/pkg/gsettings"
)

type fileConfig struct {
	Player struct {
		Name string `yaml:"name"`
	} `yaml:"player"`
	Gsettings struct {
		Schema     string `yaml:"schema"`
		ACKey      string `yaml:"ac_key"`
		BatteryKey string `yaml:"battery_key"`
	} `yaml:"gsettings"`
	Discovery struct {
		IntervalSeconds int `yaml:"interval_seconds"`
	} `yaml:"discovery"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

func defaultFileConfig() fileConfig {
	var c fileConfig
	c.Player.Name = "vlc"
	c.Gsettings.Schema = gsettings.DefaultSchema
	c.Gsettings.ACKey = gsettings.DefaultACKey
	c.Gsettings.BatteryKey = gsettings.DefaultBatteryKey
	c.Discovery.IntervalSeconds = 10
	c.Log.Level = "info"
	return c
}

var generateConfigCmd = &cobra.Command{
	Use:   "generate-config",
	Short: "Write the default config.yaml",
	Run: func(cmd *cobra.Command, args []string) {
		configDir, err := os.UserConfigDir()
		if err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}

		dir := filepath.Join(configDir, "vlc-suspend-inhibit")
		path := filepath.Join(dir, "config.yaml")

		if _, err := os.Stat(path); err == nil {
			fmt.Printf("%s already exists, not overwriting.\n", path)
			return
		}

		data, err := yaml.Marshal(defaultFileConfig())
		if err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}

		fmt.Println("Wrote", path)
	},
}
