package manager

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/photon-delight/vlc-audio-suspend-inhibitor/pkg/gsettings"
)

const appDirName = "vlc-suspend-inhibit"

var (
	once sync.Once
	v    *viper.Viper
)

type ConfigManager struct{}

var Config = &ConfigManager{}

// Load returns the viper singleton. The config file is optional; every
// key has a default so a bare install works against GNOME + VLC.
func (c *ConfigManager) Load() *viper.Viper {
	once.Do(func() {
		v = viper.New()

		v.SetDefault("player.name", "vlc")
		v.SetDefault("gsettings.schema", gsettings.DefaultSchema)
		v.SetDefault("gsettings.ac_key", gsettings.DefaultACKey)
		v.SetDefault("gsettings.battery_key", gsettings.DefaultBatteryKey)
		v.SetDefault("discovery.interval_seconds", 10)
		v.SetDefault("log.level", "info")

		configDir, err := os.UserConfigDir()
		if err != nil {
			slog.Warn("cannot determine config dir, using defaults", "error", err)
			return
		}

		confPath := filepath.Join(configDir, appDirName, "config.yaml")
		v.SetConfigFile(confPath)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			if os.IsNotExist(err) {
				slog.Debug("no config file, using defaults", "path", confPath)
			} else {
				slog.Warn("failed to read config file, using defaults", "path", confPath, "error", err)
			}
		}
	})

	return v
}

func (c *ConfigManager) Watch(onChange func()) {
	c.Load().WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		onChange()
	})
}

// PlayerPrefix is the well-known-name prefix matched on the bus, e.g.
// "org.mpris.MediaPlayer2.vlc" (VLC appends ".instanceNNN" when more
// than one instance runs).
func (c *ConfigManager) PlayerPrefix() string {
	return "org.mpris.MediaPlayer2." + c.Load().GetString("player.name")
}

func (c *ConfigManager) Store() *gsettings.Store {
	cfg := c.Load()
	return &gsettings.Store{
		Schema:     cfg.GetString("gsettings.schema"),
		ACKey:      cfg.GetString("gsettings.ac_key"),
		BatteryKey: cfg.GetString("gsettings.battery_key"),
	}
}

func (c *ConfigManager) DiscoveryInterval() time.Duration {
	return time.Duration(c.Load().GetInt("discovery.interval_seconds")) * time.Second
}

func (c *ConfigManager) LogLevel() string {
	return c.Load().GetString("log.level")
}
