package internal

import (
	"os"
	"path/filepath"
)

// DefaultDatabasePath returns the default location of the session database
func DefaultDatabasePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".ragchat", "sessions.db"), nil
}
