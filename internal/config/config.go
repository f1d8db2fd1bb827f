// Package config provides configuration management for the pdf2latex application.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"pdf2latex/internal/logger"
	"pdf2latex/internal/types"
)

const (
	// DefaultConfigFileName is the default configuration file name
	DefaultConfigFileName = "pdf2latex-config.json"
	// EnvFontDir is the environment variable overriding the font directory
	EnvFontDir = "PDF2LATEX_FONT_DIR"
	// EnvThreads is the environment variable overriding the thread count
	EnvThreads = "PDF2LATEX_THREADS"
	// DefaultThreads is the default number of concurrent line-matching tasks
	DefaultThreads = 8
	// DefaultDPI is the rasterization resolution. The font library is
	// rendered at the same resolution, which is what makes the pixel
	// distance comparable.
	DefaultDPI = 512
	// DefaultDistThreshold is the good-enough match distance
	DefaultDistThreshold = 4.0
	// DefaultDistUnalignedThreshold is the distance above which the
	// unaligned fallback pass re-matches a glyph
	DefaultDistUnalignedThreshold = 32.0
	// DefaultCharThreshold is the ink threshold for glyph extraction
	DefaultCharThreshold = 75
)

// Manager manages application configuration
type Manager struct {
	configPath string
	config     *types.Config
}

// NewManager creates a new Manager with the specified config path.
// If configPath is empty, it uses the default path in the user's config directory.
func NewManager(configPath string) (*Manager, error) {
	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			logger.Error("failed to get user home directory", err)
			return nil, types.NewAppError(types.ErrConfig, "failed to get user home directory", err)
		}
		configPath = filepath.Join(homeDir, ".config", "pdf2latex", DefaultConfigFileName)
	}

	logger.Debug("config manager initialized", logger.String("configPath", configPath))
	return &Manager{
		configPath: configPath,
		config:     defaultConfig(),
	}, nil
}

// defaultConfig returns a Config with default values
func defaultConfig() *types.Config {
	return &types.Config{
		FontDir:                "",
		Threads:                DefaultThreads,
		DPI:                    DefaultDPI,
		DistThreshold:          DefaultDistThreshold,
		DistUnalignedThreshold: DefaultDistUnalignedThreshold,
		CharThreshold:          DefaultCharThreshold,
		FormulaModelPath:       "",
		FormulaModelEnabled:    false,
		Verbose:                false,
	}
}

// Load loads configuration from the config file.
// If the file doesn't exist, it uses default values.
// Environment variables take precedence over file values.
func (m *Manager) Load() error {
	logger.Debug("loading configuration", logger.String("path", m.configPath))

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("config file not found, using defaults", logger.String("path", m.configPath))
			m.config = defaultConfig()
		} else {
			logger.Error("failed to read config file", err, logger.String("path", m.configPath))
			return types.NewAppError(types.ErrConfig, "failed to read config file", err)
		}
	} else {
		config := &types.Config{}
		if err := json.Unmarshal(data, config); err != nil {
			logger.Warn("invalid config file format, using defaults",
				logger.String("path", m.configPath), logger.Err(err))
			m.config = defaultConfig()
		} else {
			logger.Debug("configuration loaded",
				logger.String("path", m.configPath),
				logger.String("fontDir", config.FontDir),
				logger.Int("threads", config.Threads))
			m.config = config
		}
	}

	m.applyDefaults()
	m.applyEnvironment()

	return nil
}

// applyDefaults fills zero-valued fields with defaults
func (m *Manager) applyDefaults() {
	if m.config.Threads <= 0 {
		m.config.Threads = DefaultThreads
	}
	if m.config.DPI <= 0 {
		m.config.DPI = DefaultDPI
	}
	if m.config.DistThreshold <= 0 {
		m.config.DistThreshold = DefaultDistThreshold
	}
	if m.config.DistUnalignedThreshold <= 0 {
		m.config.DistUnalignedThreshold = DefaultDistUnalignedThreshold
	}
	if m.config.CharThreshold == 0 {
		m.config.CharThreshold = DefaultCharThreshold
	}
	if m.config.FontDir == "" {
		if homeDir, err := os.UserHomeDir(); err == nil {
			m.config.FontDir = filepath.Join(homeDir, ".config", "pdf2latex", "fonts")
		}
	}
}

// applyEnvironment overrides config values from environment variables
func (m *Manager) applyEnvironment() {
	if dir := os.Getenv(EnvFontDir); dir != "" {
		m.config.FontDir = dir
	}
	if raw := os.Getenv(EnvThreads); raw != "" {
		if threads, err := strconv.Atoi(raw); err == nil && threads > 0 {
			m.config.Threads = threads
		} else {
			logger.Warn("ignoring invalid thread count from environment", logger.String("value", raw))
		}
	}
}

// Save writes the current configuration to the config file
func (m *Manager) Save() error {
	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return types.NewAppError(types.ErrConfig, "failed to create config directory", err)
	}

	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return types.NewAppError(types.ErrConfig, "failed to marshal config", err)
	}

	if err := os.WriteFile(m.configPath, data, 0644); err != nil {
		return types.NewAppError(types.ErrConfig, "failed to write config file", err)
	}

	logger.Debug("configuration saved", logger.String("path", m.configPath))
	return nil
}

// Get returns the current configuration
func (m *Manager) Get() *types.Config {
	return m.config
}
