package config

import (
	"os"
	"path/filepath"
)

const appName = "scry-daemon"

// DataPath returns the directory holding durable state, honoring the
// configured override.
func (c *Config) DataPath() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return appName
	}
	return filepath.Join(home, ".local", "share", appName)
}

// CachePath returns the directory holding the card cache and status file.
func (c *Config) CachePath() string {
	if c.CacheDir != "" {
		return c.CacheDir
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return appName
	}
	return filepath.Join(dir, appName)
}

// StateFile is the durable match history and identity store.
func (c *Config) StateFile() string {
	return filepath.Join(c.DataPath(), "state.json")
}

// CardCacheFile is the card resolution cache.
func (c *Config) CardCacheFile() string {
	return filepath.Join(c.CachePath(), "card_cache.json")
}

// StatusFile is the waybar status snapshot.
func (c *Config) StatusFile() string {
	return filepath.Join(c.CachePath(), "waybar.json")
}

// DBGlobs returns the card database glob patterns, configured ones first.
func (c *Config) DBGlobs() []string {
	globs := append([]string(nil), c.CardDBGlobs...)
	for _, g := range defaultDBGlobs() {
		globs = append(globs, g)
	}
	return globs
}

const arenaLogSuffix = "AppData/LocalLow/Wizards Of The Coast/MTGA/Player.log"

// CandidateLogPaths lists the known Steam/Proton/Wine Player.log locations.
func CandidateLogPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	user := os.Getenv("USER")
	if user == "" {
		user = "user"
	}

	proton := "steamapps/compatdata/2141910/pfx/drive_c/users/steamuser/" + arenaLogSuffix
	return []string{
		filepath.Join("/mnt/Games/SteamLibrary", proton),
		filepath.Join(home, ".local/share/Steam", proton),
		filepath.Join(home, ".steam/steam", proton),
		filepath.Join(home, ".var/app/com.valvesoftware.Steam/.local/share/Steam", proton),
		filepath.Join(home, "Games/magic-the-gathering-arena/drive_c/users", user, arenaLogSuffix),
		filepath.Join(home, ".wine/drive_c/users", user, arenaLogSuffix),
	}
}

// DiscoverLogPaths returns the candidate paths that exist on this machine.
func DiscoverLogPaths() []string {
	var found []string
	for _, p := range CandidateLogPaths() {
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			found = append(found, p)
		}
	}
	return found
}

func defaultDBGlobs() []string {
	rawDB := "steamapps/common/MTGA/MTGA_Data/Downloads/Raw/Raw_CardDatabase_*.mtga"
	globs := []string{filepath.Join("/mnt/Games/SteamLibrary", rawDB)}
	home, err := os.UserHomeDir()
	if err != nil {
		return globs
	}
	return append(globs,
		filepath.Join(home, ".local/share/Steam", rawDB),
		filepath.Join(home, ".steam/steam", rawDB),
		filepath.Join(home, ".var/app/com.valvesoftware.Steam/.local/share/Steam", rawDB),
	)
}
