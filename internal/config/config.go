package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// RotaOverride defines overrides to apply when generating rotas
type RotaOverride struct {
	RRule          string   `yaml:"rrule" validate:"required"`
	PrefilledAllocations []string `yaml:"prefilledAllocations,omitempty"`
	ShiftSize      *int     `yaml:"shiftSize,omitempty" validate:"omitempty,min=1"`
}

// SolverConfig holds the solver-tunable knobs spec.md §6.4 exposes.
// Defaults match the original_source Stage-1/Stage-2 solver defaults.
type SolverConfig struct {
	MaxTimeSeconds    int   `yaml:"maxTimeSeconds" validate:"required,min=1"`
	KBest             int   `yaml:"kBest" validate:"required,min=1,max=8"`
	Seed              int64 `yaml:"seed,omitempty"`
	LogSearchProgress bool  `yaml:"logSearchProgress,omitempty"`
}

// DefaultSolverConfig mirrors original_source's out-of-the-box solver
// tuning: a one-minute budget, 3-best enumeration, no fixed seed.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		MaxTimeSeconds: 60,
		KBest:          3,
	}
}

// Config represents the application configuration
type Config struct {
	VolunteerSheetID     string         `yaml:"volunteerSheetID" validate:"required"`
	ServiceVolunteersTab string         `yaml:"serviceVolunteersTab" validate:"required"`
	DatabaseSheetID      string         `yaml:"databaseSheetID" validate:"required"`
	RotaOverrides        []RotaOverride `yaml:"rotaOverrides,omitempty" validate:"dive"`
	Solver               SolverConfig   `yaml:"solver"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadWithEnv loads and validates the configuration with an environment suffix
// For example, env="test" will look for "rota_config.test.yaml"
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Config{Solver: DefaultSolverConfig()}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	// Run struct validation
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// Validate rrule syntax for each override
	for i, override := range cfg.RotaOverrides {
		if _, err := rrule.StrToRRule(override.RRule); err != nil {
			return fmt.Errorf("invalid rrule in rotaOverrides[%d]: %w", i, err)
		}
	}

	return nil
}

// findConfigFile searches for config file in current directory and home directory
// If env is provided, it adds it as an extension (e.g., "rota_config.test.yaml")
func findConfigFile(env string) (string, error) {
	configFileName := "rota_config.yaml"
	if env != "" {
		configFileName = "rota_config." + env + ".yaml"
	}

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
