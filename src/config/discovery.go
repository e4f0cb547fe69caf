package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// projectConfigNames are checked in each directory, first match wins.
var projectConfigNames = []string{
	".convo.json",
	filepath.Join(".convo", "config.json"),
}

// FindProjectConfig walks up from startDir looking for a project config,
// stopping at stopDir (usually the home directory) or the filesystem root.
func FindProjectConfig(fsys afero.Fs, startDir, stopDir string) (string, error) {
	currentDir := startDir
	for {
		for _, name := range projectConfigNames {
			configPath := filepath.Join(currentDir, name)
			if ok, _ := afero.Exists(fsys, configPath); ok {
				return configPath, nil
			}
		}

		if currentDir == stopDir {
			break
		}
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", fmt.Errorf("no project configuration found")
}
