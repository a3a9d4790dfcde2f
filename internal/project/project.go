package project

import (
	"os"
	"path/filepath"
)

// Paths holds the directories and files semdiff uses on a machine.
type Paths struct {
	ConfigDir  string // <user-config>/semdiff/
	ConfigFile string // <user-config>/semdiff/config.yaml
	CacheDir   string // <user-cache>/semdiff/
	HistoryDB  string // <user-cache>/semdiff/history.db
	LogDir     string // <user-cache>/semdiff/logs/
}

// NewPaths constructs all path constants, preferring SEMDIFF_HOME when set
// so tests and sandboxed runs stay self-contained.
func NewPaths() Paths {
	if home := os.Getenv("SEMDIFF_HOME"); home != "" {
		return fromBase(home, home)
	}

	configBase, err := os.UserConfigDir()
	if err != nil {
		configBase = "."
	}
	cacheBase, err := os.UserCacheDir()
	if err != nil {
		cacheBase = "."
	}
	return fromBase(filepath.Join(configBase, "semdiff"), filepath.Join(cacheBase, "semdiff"))
}

func fromBase(configDir, cacheDir string) Paths {
	return Paths{
		ConfigDir:  configDir,
		ConfigFile: filepath.Join(configDir, "config.yaml"),
		CacheDir:   cacheDir,
		HistoryDB:  filepath.Join(cacheDir, "history.db"),
		LogDir:     filepath.Join(cacheDir, "logs"),
	}
}

// EnsureCacheDir creates the cache directory tree if missing.
func (p Paths) EnsureCacheDir() error {
	return os.MkdirAll(p.CacheDir, 0o755)
}
