package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrMissingKey marks a required configuration key that is absent or empty.
var ErrMissingKey = errors.New("missing required configuration key")

const (
	EnvUploadConfig     = "DDMUP_UPLOAD_CONFIG"
	EnvValidationConfig = "DDMUP_VALIDATION_CONFIG"

	DefaultUploadFile     = "ddmup.yaml"
	DefaultValidationFile = "validation.yaml"

	defaultConfigDir      = "/etc/ddmup"
	defaultCommandTimeout = 120 * time.Second
)

// UploadConfig drives the run launcher. Immutable after Load.
type UploadConfig struct {
	WrapperPath      string `yaml:"wrapper_path"`
	SamplesheetsRoot string `yaml:"samplesheets_root"`
	PipelineID       string `yaml:"pipeline_id"`
}

// FastqTest describes one negative-path fixture for the validator: a folder
// the wrapper must reject, and the error text it is expected to print.
type FastqTest struct {
	Label         string `yaml:"label"`
	Folder        string `yaml:"folder"`
	ExpectedError string `yaml:"expected_error"`
}

// ValidationConfig drives the environment validator. Immutable after Load.
type ValidationConfig struct {
	WrapperPath             string      `yaml:"wrapper_path"`
	ExpectedLoginIAMMessage string      `yaml:"expected_login_iam_message"`
	RecentRunsToCheck       int         `yaml:"recent_runs_to_check"`
	PipelineID              string      `yaml:"pipeline_id"`
	ReferenceName           string      `yaml:"reference_name"`
	FastqTests              []FastqTest `yaml:"fastq_tests"`
	CommandTimeoutSeconds   int         `yaml:"command_timeout_seconds"`
	LockPath                string      `yaml:"lock_path"`
}

// CommandTimeout is the per-invocation deadline for synchronous wrapper
// calls. The detached upload spawn is not subject to it.
func (c *ValidationConfig) CommandTimeout() time.Duration {
	if c.CommandTimeoutSeconds > 0 {
		return time.Duration(c.CommandTimeoutSeconds) * time.Second
	}
	return defaultCommandTimeout
}

// LockFile returns the validator's single-instance lock path, derived from
// the config path unless overridden.
func (c *ValidationConfig) LockFile(configPath string) string {
	if c.LockPath != "" {
		return c.LockPath
	}
	return configPath + ".lock"
}

// ResolvePath picks the config file to load: explicit flag value first, then
// the environment, then /etc/ddmup, then the working directory. A .env file
// in the working directory is honored for the environment lookup.
func ResolvePath(explicit, envKey, filename string) string {
	_ = godotenv.Load()
	if explicit != "" {
		return explicit
	}
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	etc := filepath.Join(defaultConfigDir, filename)
	if _, err := os.Stat(etc); err == nil {
		return etc
	}
	return filename
}

// LoadUpload reads and validates the launcher configuration.
func LoadUpload(path string) (*UploadConfig, error) {
	var cfg UploadConfig
	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.WrapperPath == "" {
		return nil, fmt.Errorf("%w: wrapper_path (%s)", ErrMissingKey, path)
	}
	if cfg.SamplesheetsRoot == "" {
		return nil, fmt.Errorf("%w: samplesheets_root (%s)", ErrMissingKey, path)
	}
	if cfg.PipelineID == "" {
		return nil, fmt.Errorf("%w: pipeline_id (%s)", ErrMissingKey, path)
	}
	return &cfg, nil
}

// LoadValidation reads and validates the validator configuration.
func LoadValidation(path string) (*ValidationConfig, error) {
	var cfg ValidationConfig
	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.WrapperPath == "" {
		return nil, fmt.Errorf("%w: wrapper_path (%s)", ErrMissingKey, path)
	}
	if cfg.ExpectedLoginIAMMessage == "" {
		return nil, fmt.Errorf("%w: expected_login_iam_message (%s)", ErrMissingKey, path)
	}
	if cfg.RecentRunsToCheck <= 0 {
		return nil, fmt.Errorf("%w: recent_runs_to_check must be a positive integer (%s)", ErrMissingKey, path)
	}
	if cfg.PipelineID == "" {
		return nil, fmt.Errorf("%w: pipeline_id (%s)", ErrMissingKey, path)
	}
	if cfg.ReferenceName == "" {
		return nil, fmt.Errorf("%w: reference_name (%s)", ErrMissingKey, path)
	}
	for i, ft := range cfg.FastqTests {
		if ft.Label == "" {
			return nil, fmt.Errorf("fastq_tests[%d]: %w: label (%s)", i, ErrMissingKey, path)
		}
		if ft.Folder == "" {
			return nil, fmt.Errorf("fastq_tests[%d]: %w: folder (%s)", i, ErrMissingKey, path)
		}
		if ft.ExpectedError == "" {
			return nil, fmt.Errorf("fastq_tests[%d]: %w: expected_error (%s)", i, ErrMissingKey, path)
		}
	}
	return &cfg, nil
}

func loadYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("configuration file not found at %s", path)
		}
		return fmt.Errorf("read configuration %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("configuration %s must be a YAML mapping: %w", path, err)
	}
	return nil
}
