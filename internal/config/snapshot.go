package config

import "time"

// SnapshotConfig controls the offline snapshot cache. The cache keeps a
// rendered copy of the page on disk so `atrium snapshot` can serve it when
// the content file is missing. The page itself never touches it.
type SnapshotConfig struct {
	Enabled  bool   `yaml:"enabled" env:"ATRIUM_SNAPSHOT"`
	CacheDir string `yaml:"cache_dir" env:"ATRIUM_CACHE_DIR"`

	// Debounce is the quiet period after a content-file change before the
	// snapshot refreshes.
	Debounce string `yaml:"debounce"`
}

// RefreshDebounce returns the snapshot refresh quiet period.
func (s *SnapshotConfig) RefreshDebounce() time.Duration {
	return durationOr(s.Debounce, 500*time.Millisecond)
}

func (s *SnapshotConfig) validate() error {
	if s.Debounce == "" {
		return nil
	}
	_, err := parseDuration("snapshot.debounce", s.Debounce)
	return err
}
