package logging

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultLogDir returns the default log directory (~/.satire/logs/).
// Falls back to the temp directory if the home directory is
// unavailable.
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".satire", "logs")
	}
	return filepath.Join(home, ".satire", "logs")
}

// DefaultLogPath returns the default log path for a component
// ("satire-index" or "satire-query").
func DefaultLogPath(component string) string {
	return filepath.Join(DefaultLogDir(), component+".log")
}

// FindLogFile attempts to find a log file for viewing. Priority:
//  1. Explicit path (if provided)
//  2. The default path for the given component
//
// Returns an error if no log file is found.
func FindLogFile(explicit, component string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit, nil
		}
		return "", fmt.Errorf("log file not found: %s", explicit)
	}

	defaultPath := DefaultLogPath(component)
	if _, err := os.Stat(defaultPath); err == nil {
		return defaultPath, nil
	}

	return "", fmt.Errorf("no log file found. run with debug=1 first.\nexpected at: %s", defaultPath)
}

// EnsureLogDir creates the log directory if it doesn't exist.
func EnsureLogDir() error {
	return os.MkdirAll(DefaultLogDir(), 0o755)
}
