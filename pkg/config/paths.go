package config

import (
	"path/filepath"

	"github.com/spf13/viper"
)

// BaseSettingsDir is the directory holding the config file in use, or
// ./.shopassist when none was found.
func BaseSettingsDir() string {
	// Check if config.path is explicitly set (for testing)
	if configPath := viper.GetString("config.path"); configPath != "" {
		return configPath
	}

	if currentConfig := viper.ConfigFileUsed(); currentConfig != "" {
		return filepath.Dir(currentConfig)
	}
	return ".shopassist"
}

func BuildSettingsPath(target string) string {
	return filepath.Join(BaseSettingsDir(), target)
}
