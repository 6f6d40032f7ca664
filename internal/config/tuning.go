package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/banshee-data/depth.report/internal/scan"
)

// TuningConfig represents optional tuning parameters for the depth service.
// All fields are pointers so a partial JSON file only overrides what it
// names; the Get* accessors carry the defaults.
type TuningConfig struct {
	// Frame pipeline params
	Workers        *int    `json:"workers,omitempty"`
	QueueDepth     *int    `json:"queue_depth,omitempty"`
	RequestTimeout *string `json:"request_timeout,omitempty"` // duration string like "2s"

	// Rendering params
	DefaultColormap *string `json:"default_colormap,omitempty"`
}

// Helper functions to create pointers
func ptrString(v string) *string { return &v }
func ptrInt(v int) *int          { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Accessors on an empty config return the built-in defaults.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// DefaultTuningConfig returns a TuningConfig with every field set to its
// built-in default. Useful as a template for writing a tuning file.
func DefaultTuningConfig() *TuningConfig {
	return &TuningConfig{
		Workers:         ptrInt(10),
		QueueDepth:      ptrInt(64),
		RequestTimeout:  ptrString("2s"),
		DefaultColormap: ptrString(scan.DefaultTransform),
	}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
// Fields omitted from the JSON file retain their default values, so
// partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	// Validate the config file path.
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse JSON into empty config. The Get* methods provide fallback
	// defaults for any fields not specified in the JSON.
	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.Workers != nil {
		if *c.Workers < 1 {
			return fmt.Errorf("workers must be at least 1, got %d", *c.Workers)
		}
	}

	if c.QueueDepth != nil {
		if *c.QueueDepth < 0 {
			return fmt.Errorf("queue_depth must be non-negative, got %d", *c.QueueDepth)
		}
	}

	// Validate RequestTimeout can be parsed if set
	if c.RequestTimeout != nil && *c.RequestTimeout != "" {
		d, err := time.ParseDuration(*c.RequestTimeout)
		if err != nil {
			return fmt.Errorf("invalid request_timeout '%s': %w", *c.RequestTimeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("request_timeout must be positive, got %s", *c.RequestTimeout)
		}
	}

	if c.DefaultColormap != nil && *c.DefaultColormap != "" {
		if _, err := scan.LookupTransform(*c.DefaultColormap); err != nil {
			return fmt.Errorf("invalid default_colormap '%s': %w", *c.DefaultColormap, err)
		}
	}

	return nil
}

// GetWorkers returns the workers value or the default.
func (c *TuningConfig) GetWorkers() int {
	if c.Workers == nil {
		return 10 // default
	}
	return *c.Workers
}

// GetQueueDepth returns the queue_depth value or the default.
func (c *TuningConfig) GetQueueDepth() int {
	if c.QueueDepth == nil {
		return 64 // default
	}
	return *c.QueueDepth
}

// GetRequestTimeout parses and returns the RequestTimeout as a time.Duration.
func (c *TuningConfig) GetRequestTimeout() time.Duration {
	if c.RequestTimeout == nil || *c.RequestTimeout == "" {
		return 2 * time.Second // default
	}
	d, err := time.ParseDuration(*c.RequestTimeout)
	if err != nil {
		return 2 * time.Second // default on parse error
	}
	return d
}

// GetDefaultColormap returns the default_colormap value or the default.
func (c *TuningConfig) GetDefaultColormap() string {
	if c.DefaultColormap == nil || *c.DefaultColormap == "" {
		return scan.DefaultTransform
	}
	if _, err := scan.LookupTransform(*c.DefaultColormap); err != nil {
		return scan.DefaultTransform // default on unknown name
	}
	return *c.DefaultColormap
}
