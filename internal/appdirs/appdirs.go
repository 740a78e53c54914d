package appdirs

import (
	"os"
	"path/filepath"
)

const (
	appDirName = "workspace-mcp"
)

func DataDir() (string, error) {
	if override := os.Getenv("WORKSPACEMCP_DATA_DIR"); override != "" {
		return override, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appDirName), nil
}

func LogsDir(dataDir string) string {
	return filepath.Join(dataDir, "logs")
}
