// =============================================================================
// Political Fund Report Compiler - Configuration Module
// =============================================================================
//
// This module loads the main configuration file (config.yaml).
//
// The threshold table and the form catalog have statutory defaults compiled
// into the policy package. The configuration may override them; either way
// they are built once at start-up and injected into the compiler.
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/fund-report-compiler/internal/policy"
	"github.com/ginjaninja78/fund-report-compiler/internal/xmlwriter"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// OutputDir is where generated reports are written.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// OutputArchiveDir receives a copy of every written report.
	// Default: "./output_archive"
	OutputArchiveDir string `yaml:"output_archive_dir"`

	// LogDir receives validation error logs and run summaries.
	// Default: "./logs"
	LogDir string `yaml:"log_dir"`

	// =========================================================================
	// DATA SOURCES
	// =========================================================================

	// LedgerFile is the XLSX ledger workbook.
	// Default: "./data/ledger.xlsx"
	LedgerFile string `yaml:"ledger_file"`

	// ProfilesFile is the YAML file of organization profiles.
	// Default: "./data/profiles.yaml"
	ProfilesFile string `yaml:"profiles_file"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of organizations compiled at once.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// ContinueOnValidationError keeps compiling when validation reports
	// errors; the errors are returned alongside the document. When false the
	// compilation fails instead.
	// Default: true
	ContinueOnValidationError *bool `yaml:"continue_on_validation_error"`

	// UTCOffsetHours is the offset used for the timestamp in file names.
	// Default: 9 (Japan Standard Time)
	UTCOffsetHours *int `yaml:"utc_offset_hours"`

	// Encoding controls Shift_JIS conversion.
	Encoding EncodingConfig `yaml:"encoding"`

	// Document holds the fixed HEAD values.
	Document DocumentConfig `yaml:"document"`

	// =========================================================================
	// POLICY OVERRIDES
	// =========================================================================

	// Thresholds replaces the whole threshold table when non-empty.
	Thresholds []policy.Rule `yaml:"thresholds"`

	// FormCatalog replaces the presence-flag positions when non-empty.
	FormCatalog FormCatalogConfig `yaml:"form_catalog"`
}

// EncodingConfig selects the policy for characters outside Shift_JIS.
type EncodingConfig struct {
	// Unsupported is "error" or "replace".
	// Default: "error"
	Unsupported string `yaml:"unsupported"`

	// Replacement is the substitute character for "replace".
	// Default: "〓"
	Replacement string `yaml:"replacement"`
}

// DocumentConfig holds the HEAD values written into every report.
type DocumentConfig struct {
	Version      string `yaml:"version"`
	App          string `yaml:"app"`
	FileFormatNo string `yaml:"file_format_no"`
	KokujiNen    string `yaml:"kokuji_nen"`
}

// FormCatalogConfig overrides the built-in form catalog.
type FormCatalogConfig struct {
	FlagLength int                `yaml:"flag_length"`
	Entries    []policy.FormEntry `yaml:"entries"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read, parsed or validated.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseMainConfig(data)
}

// ParseMainConfig parses, defaults and validates configuration bytes.
func ParseMainConfig(data []byte) (*MainConfig, error) {
	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration used when no config file exists.
func Default() *MainConfig {
	var config MainConfig
	applyMainConfigDefaults(&config)
	return &config
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.OutputArchiveDir == "" {
		config.OutputArchiveDir = "./output_archive"
	}
	if config.LogDir == "" {
		config.LogDir = "./logs"
	}
	if config.LedgerFile == "" {
		config.LedgerFile = "./data/ledger.xlsx"
	}
	if config.ProfilesFile == "" {
		config.ProfilesFile = "./data/profiles.yaml"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 4
	}
	if config.ContinueOnValidationError == nil {
		continueOnError := true
		config.ContinueOnValidationError = &continueOnError
	}
	if config.UTCOffsetHours == nil {
		offset := 9
		config.UTCOffsetHours = &offset
	}
	if config.Encoding.Unsupported == "" {
		config.Encoding.Unsupported = string(xmlwriter.EncodingError)
	}
	if config.Encoding.Replacement == "" {
		config.Encoding.Replacement = string(xmlwriter.DefaultReplacement)
	}
	if config.Document.Version == "" {
		config.Document.Version = "20240101"
	}
	if config.Document.App == "" {
		config.Document.App = "fund-report-compiler"
	}
	if config.Document.FileFormatNo == "" {
		config.Document.FileFormatNo = "1"
	}
	if config.Document.KokujiNen == "" {
		config.Document.KokujiNen = "2024"
	}
	if config.FormCatalog.FlagLength == 0 {
		config.FormCatalog.FlagLength = policy.DefaultFlagLength
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	switch config.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", config.LogLevel)
	}

	if config.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be at least 1, got %d", config.MaxConcurrency)
	}

	if h := *config.UTCOffsetHours; h < -12 || h > 14 {
		return fmt.Errorf("utc_offset_hours out of range: %d", h)
	}

	switch xmlwriter.EncodingPolicy(config.Encoding.Unsupported) {
	case xmlwriter.EncodingError, xmlwriter.EncodingReplace:
	default:
		return fmt.Errorf("unknown encoding policy %q", config.Encoding.Unsupported)
	}
	if n := len([]rune(config.Encoding.Replacement)); n != 1 {
		return fmt.Errorf("encoding replacement must be a single character, got %q", config.Encoding.Replacement)
	}

	if _, err := config.ThresholdPolicy(); err != nil {
		return err
	}
	if _, err := config.FormCatalogPolicy(); err != nil {
		return err
	}
	return nil
}

// EnsureDirectories creates the output, archive and log directories.
func (c *MainConfig) EnsureDirectories() error {
	for _, dir := range []string{c.OutputDir, c.OutputArchiveDir, c.LogDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// =============================================================================
// DERIVED SETTINGS
// =============================================================================

// ThresholdPolicy builds the threshold table: the override when present,
// the statutory defaults otherwise.
func (c *MainConfig) ThresholdPolicy() (*policy.ThresholdPolicy, error) {
	if len(c.Thresholds) == 0 {
		return policy.DefaultThresholdPolicy(), nil
	}
	p, err := policy.NewThresholdPolicy(c.Thresholds)
	if err != nil {
		return nil, fmt.Errorf("thresholds: %w", err)
	}
	return p, nil
}

// FormCatalogPolicy builds the form catalog.
func (c *MainConfig) FormCatalogPolicy() (*policy.FormCatalog, error) {
	entries := c.FormCatalog.Entries
	if len(entries) == 0 {
		entries = policy.DefaultFormEntries()
	}
	catalog, err := policy.NewFormCatalog(entries, c.FormCatalog.FlagLength)
	if err != nil {
		return nil, fmt.Errorf("form_catalog: %w", err)
	}
	return catalog, nil
}

// EncodeOptions converts the encoding section.
func (c *MainConfig) EncodeOptions() xmlwriter.EncodeOptions {
	return xmlwriter.EncodeOptions{
		Policy:      xmlwriter.EncodingPolicy(c.Encoding.Unsupported),
		Replacement: []rune(c.Encoding.Replacement)[0],
	}
}

// DocumentHead converts the document section. Presence flags are filled in
// per compilation.
func (c *MainConfig) DocumentHead() xmlwriter.DocumentHead {
	return xmlwriter.DocumentHead{
		Version:      c.Document.Version,
		App:          c.Document.App,
		FileFormatNo: c.Document.FileFormatNo,
		KokujiNen:    c.Document.KokujiNen,
	}
}

// Location is the fixed zone used for file name timestamps.
func (c *MainConfig) Location() *time.Location {
	hours := *c.UTCOffsetHours
	return time.FixedZone(fmt.Sprintf("UTC%+d", hours), hours*3600)
}
