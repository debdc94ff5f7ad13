package logging

import (
	"os"
	"path/filepath"
)

// DefaultLogDir returns the default log directory (~/.datashed/logs/).
// Falls back to the temp directory if the home directory is unavailable.
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".datashed", "logs")
	}
	return filepath.Join(home, ".datashed", "logs")
}

// DefaultLogPath returns the default debug log path.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "datashed.log")
}
