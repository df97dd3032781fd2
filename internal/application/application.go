// Package application resolves the repodeck directory and wires the
// components used by the CLI into an [App].
package application

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/inovacc/repodeck/internal/store"
)

const (
	// AppName names the application directory and the user agent
	AppName = "repodeck"

	// Version is reported in the user agent
	Version = "0.1.0"
)

// Default database file names per storage driver.
const (
	boltFile   = "repodeck.bolt"
	sqliteFile = "repodeck.db"
)

var (
	once   sync.Once
	appDir string
	errDir error
)

// GetApplicationDirectory returns the repodeck configuration directory.
// Linux: ~/.config/repodeck (via os.UserConfigDir)
// Windows: C:\Users\{username}\AppData\Local\repodeck (via os.UserCacheDir)
func GetApplicationDirectory() (string, error) {
	once.Do(lazyLoad)

	if errDir != nil {
		return "", errDir
	}

	return appDir, nil
}

// DefaultStoragePath returns the database file used by driver when no path
// is configured.
func DefaultStoragePath(driver string) (string, error) {
	dir, err := GetApplicationDirectory()
	if err != nil {
		return "", err
	}

	if driver == store.DriverSQLite {
		return filepath.Join(dir, sqliteFile), nil
	}

	return filepath.Join(dir, boltFile), nil
}

func lazyLoad() {
	var (
		baseDir string
		err     error
	)

	switch runtime.GOOS {
	case "windows":
		baseDir, err = os.UserCacheDir()
	default:
		baseDir, err = os.UserConfigDir()
	}

	if err != nil {
		errDir = fmt.Errorf("failed to get config directory: %w", err)
		return
	}

	appDir = filepath.Join(baseDir, AppName)
}
