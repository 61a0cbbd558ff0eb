package app

import (
	"log/slog"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// WatchConfig re-reads the configuration file on change and hands valid
// configurations to apply. Invalid edits are logged and ignored.
// It does nothing when no configuration file was loaded.
func WatchConfig(v *viper.Viper, logger *slog.Logger, apply func(*Config)) bool {
	if v.ConfigFileUsed() == "" {
		return false
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}

		cfg, err := decode(v)
		if err != nil {
			logger.Error("ignoring invalid configuration change", "file", e.Name, "error", err)
			return
		}

		logger.Info("configuration changed", "file", e.Name)
		apply(cfg)
	})
	v.WatchConfig()
	return true
}
