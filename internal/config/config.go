package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hpungsan/moodlog/internal/entry"
)

// DirName is the name of both the global (~/.moodlog) and repo-local config directories.
const DirName = ".moodlog"

// Config holds application configuration.
type Config struct {
	// Emotions is the ordered emotion catalog. Replaced wholesale, never merged.
	Emotions []entry.Emotion `json:"emotions,omitempty" validate:"omitempty,dive"`

	// DayBoundaryHour is the local hour before which an entry counts toward the
	// previous day. Nil means entry.DefaultDayBoundaryHour.
	DayBoundaryHour *int `json:"day_boundary_hour,omitempty" validate:"omitempty,min=0,max=23"`

	// ReportCount is the number of most recent entries included in a report.
	ReportCount int `json:"report_count,omitempty" validate:"min=0,max=365"`

	// ReportRecipient pre-fills the report's mailto address.
	ReportRecipient string `json:"report_recipient,omitempty" validate:"omitempty,email"`

	// ReportRecipientLabel is used in the report greeting ("Hi <label>,").
	ReportRecipientLabel string `json:"report_recipient_label,omitempty" validate:"omitempty,max=64"`

	// AllowedPaths is an allowlist of directories for import/export operations.
	// Paths outside ~/.moodlog/exports require either being in this list or AllowUnsafePaths=true.
	// Paths should be absolute (relative paths are ignored).
	AllowedPaths []string `json:"allowed_paths,omitempty"`

	// AllowUnsafePaths disables directory restrictions for import/export.
	// Symlink and extension checks still apply.
	AllowUnsafePaths bool `json:"allow_unsafe_paths,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// 0 means use sql.DB default (unlimited).
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty" validate:"min=0"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty" validate:"min=0"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`

	// LogFormat is console or json.
	LogFormat string `json:"log_format,omitempty" validate:"omitempty,oneof=console json"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Emotions:    entry.DefaultEmotions(),
		ReportCount: 7,
		LogLevel:    "warn",
		LogFormat:   "console",
	}
}

// BoundaryHour returns the effective day-boundary hour.
func (c *Config) BoundaryHour() int {
	if c.DayBoundaryHour == nil {
		return entry.DefaultDayBoundaryHour
	}
	return *c.DayBoundaryHour
}

// Catalog builds the emotion catalog from Emotions.
func (c *Config) Catalog() (entry.Catalog, error) {
	return entry.NewCatalog(c.Emotions)
}

var validate = validator.New()

// Validate checks field ranges and that the emotion catalog is usable.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	if _, err := c.Catalog(); err != nil {
		return fmt.Errorf("emotions: %w", err)
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.TrimPrefix(e.Namespace(), "Config.")
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "min", "max":
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", field, e.Tag(), e.Param()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email", field))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return errors.New("invalid config: " + strings.Join(msgs, "; "))
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.moodlog.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.moodlog) and repo (.moodlog) directories.
// Repo config is found by walking upward from startDir to find the nearest .moodlog/config.json.
// Repo config takes precedence for scalar values; string arrays are merged (deduplicated).
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	// Apply defaults, then global, then repo
	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest .moodlog/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	if startDir == "" {
		return ""
	}
	dir := startDir
	for {
		configPath := filepath.Join(dir, DirName, "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the path is empty or the file doesn't exist.
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}
	return cfg, nil
}

func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; string arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	// Emotions: overlay replaces base if set
	result.Emotions = base.Emotions
	if len(overlay.Emotions) > 0 {
		result.Emotions = overlay.Emotions
	}

	result.DayBoundaryHour = base.DayBoundaryHour
	if overlay.DayBoundaryHour != nil {
		result.DayBoundaryHour = overlay.DayBoundaryHour
	}

	result.ReportCount = pickInt(base.ReportCount, overlay.ReportCount)
	result.DBMaxOpenConns = pickInt(base.DBMaxOpenConns, overlay.DBMaxOpenConns)
	result.DBMaxIdleConns = pickInt(base.DBMaxIdleConns, overlay.DBMaxIdleConns)

	result.ReportRecipient = pickString(base.ReportRecipient, overlay.ReportRecipient)
	result.ReportRecipientLabel = pickString(base.ReportRecipientLabel, overlay.ReportRecipientLabel)
	result.LogLevel = pickString(base.LogLevel, overlay.LogLevel)
	result.LogFormat = pickString(base.LogFormat, overlay.LogFormat)

	// Booleans: overlay wins if true, else base
	result.AllowUnsafePaths = base.AllowUnsafePaths || overlay.AllowUnsafePaths

	result.AllowedPaths = mergeStringSlice(base.AllowedPaths, overlay.AllowedPaths)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

func pickInt(base, overlay int) int {
	if overlay != 0 {
		return overlay
	}
	return base
}

func pickString(base, overlay string) string {
	if s := strings.TrimSpace(overlay); s != "" {
		return s
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
