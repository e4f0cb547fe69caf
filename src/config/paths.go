package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
)

const appName = "convo"

// StoragePaths contains paths for application storage
type StoragePaths struct {
	DatabasePath string
	LogPath      string
	PromptsPath  string
}

// GetDefaultStoragePaths returns default storage paths using XDG base directories
func GetDefaultStoragePaths() StoragePaths {
	return StoragePaths{
		DatabasePath: filepath.Join(xdg.StateHome, appName, "conversations.db"),
		LogPath:      filepath.Join(xdg.StateHome, appName, "logs"),
		PromptsPath:  filepath.Join(xdg.ConfigHome, appName, "prompts"),
	}
}

// GetConfigPaths returns the configuration file paths to check
func GetConfigPaths() ConfigPrecedence {
	userConfigPath := filepath.Join(xdg.ConfigHome, appName, "config.json")

	// System config path varies by OS
	systemConfigPath := "/etc/convo/config.json"
	if runtime.GOOS == "windows" {
		systemConfigPath = filepath.Join(os.Getenv("PROGRAMDATA"), appName, "config.json")
	}

	return ConfigPrecedence{
		SystemConfig:      systemConfigPath,
		UserConfig:        userConfigPath,
		ProjectConfig:     ".convo.json",
		LocalConfig:       ".convo.local.json",
		EnvironmentPrefix: "CONVO",
	}
}
