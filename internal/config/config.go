package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration. Every pipeline
// default lives here so callers (and tests) can override per run
// instead of relying on ambient package state.
type Config struct {
	// ScheduleURL is the paginated schedule listing endpoint.
	ScheduleURL string `yaml:"schedule_url" json:"schedule_url"`

	// EventURL is the event-detail base; detail requests go to
	// <EventURL><token>/.
	EventURL string `yaml:"event_url" json:"event_url"`

	// InstructorID is the identifier of the instructor whose classes
	// are being watched.
	InstructorID int `yaml:"instructor_id" json:"instructor_id"`

	// UnitList / ActivityList / TimezoneFromUnit are fixed identifiers
	// forwarded verbatim as schedule query parameters.
	UnitList         string `yaml:"unit_list" json:"unit_list"`
	ActivityList     string `yaml:"activity_list" json:"activity_list"`
	TimezoneFromUnit string `yaml:"timezone_from_unit" json:"timezone_from_unit"`

	// Pages lists which schedule pages to download, in order.
	Pages []int `yaml:"pages" json:"pages"`

	// WindowDays is the length of the date window when no explicit end
	// date is given: end = start + WindowDays.
	WindowDays int `yaml:"window_days" json:"window_days"`

	// Country selects the holiday calendar used for day classification
	// (ISO 3166-1 alpha-2, e.g. "BR").
	Country string `yaml:"country" json:"country"`

	// RefreshCron is a cron-style schedule string (e.g. "*/15 * * * *")
	// used by watch mode to re-run the check periodically.
	RefreshCron string `yaml:"refresh" json:"refresh"`
}

// DefaultConfig returns an in-memory default configuration mirroring
// the studio's public API identifiers.
func DefaultConfig() *Config {
	return &Config{
		ScheduleURL:      "https://studiovelocity.com.br/api/v1/events/schedule/",
		EventURL:         "https://studiovelocity.com.br/api/v1/events/events/",
		InstructorID:     525,
		UnitList:         "35",
		ActivityList:     "1",
		TimezoneFromUnit: "35",
		Pages:            []int{1, 2},
		WindowDays:       14,
		Country:          "BR",
		RefreshCron:      "*/15 * * * *",
	}
}

// Normalize fills in missing/zero values with defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	def := DefaultConfig()

	if c.ScheduleURL == "" {
		c.ScheduleURL = def.ScheduleURL
	}
	if c.EventURL == "" {
		c.EventURL = def.EventURL
	}
	if c.InstructorID <= 0 {
		c.InstructorID = def.InstructorID
	}
	if c.UnitList == "" {
		c.UnitList = def.UnitList
	}
	if c.ActivityList == "" {
		c.ActivityList = def.ActivityList
	}
	if c.TimezoneFromUnit == "" {
		c.TimezoneFromUnit = def.TimezoneFromUnit
	}
	if len(c.Pages) == 0 {
		c.Pages = append([]int(nil), def.Pages...)
	}
	if c.WindowDays <= 0 {
		c.WindowDays = def.WindowDays
	}
	if c.Country == "" {
		c.Country = def.Country
	}
	if c.RefreshCron == "" {
		c.RefreshCron = def.RefreshCron
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path, atomically
// via a temp file + rename, with final 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".spotwatch-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	return nil
}

// Save is a convenience method on Config that delegates to the
// package-level Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
