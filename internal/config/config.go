// Package config loads generator settings from defaults, an optional YAML
// file, POLYSYNTH_ environment variables and command-line flags.
package config

import (
	"fmt"
	"os"
	"strings"

	"polysynth/domain/polynomial"
	"polysynth/domain/variant"
	"polysynth/internal"
	"polysynth/internal/errors"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment override. Nested keys use a double
// underscore: POLYSYNTH_POLYNOMIAL__MAX_VARS sets polynomial.max_vars.
const EnvPrefix = "POLYSYNTH_"

// DefaultConfigFile is read from the working directory when no --config is given
const DefaultConfigFile = "polysynth.yaml"

// Output formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Config represents the complete generator configuration
type Config struct {
	Rows        int               `koanf:"rows"`
	Runs        int               `koanf:"runs"`
	Seed        uint64            `koanf:"seed"`
	Workers     int               `koanf:"workers"`
	BaseName    string            `koanf:"base_name"`
	LogLevel    string            `koanf:"log_level"`
	Polynomial  PolynomialConfig  `koanf:"polynomial"`
	Targets     TargetsConfig     `koanf:"targets"`
	Categorical CategoricalConfig `koanf:"categorical"`
	Output      OutputConfig      `koanf:"output"`
	Catalog     CatalogConfig     `koanf:"catalog"`
}

// PolynomialConfig bounds the randomly drawn polynomial
type PolynomialConfig struct {
	MinVars            int     `koanf:"min_vars"`
	MaxVars            int     `koanf:"max_vars"`
	MinDegree          int     `koanf:"min_degree"`
	MaxDegree          int     `koanf:"max_degree"`
	MaxTerms           int     `koanf:"max_terms"`
	MinCoef            float64 `koanf:"min_coef"`
	MaxCoef            float64 `koanf:"max_coef"`
	MinDependentSpread float64 `koanf:"min_dependent_spread"`
	MaxAttempts        int     `koanf:"max_attempts"`
}

// TargetsConfig toggles the target policies
type TargetsConfig struct {
	Linear    bool `koanf:"linear"`
	NonLinear bool `koanf:"non_linear"`
}

// CategoricalConfig toggles the categorical profiles and sets their cardinalities
type CategoricalConfig struct {
	Fraction          float64 `koanf:"fraction"`
	None              bool    `koanf:"none"`
	High              bool    `koanf:"high"`
	Low               bool    `koanf:"low"`
	Binary            bool    `koanf:"binary"`
	HighCardinality   int     `koanf:"high_cardinality"`
	LowCardinality    int     `koanf:"low_cardinality"`
	BinaryCardinality int     `koanf:"binary_cardinality"`
}

// OutputConfig holds artifact locations
type OutputConfig struct {
	DatasetsDir string `koanf:"datasets_dir"`
	MetadataDir string `koanf:"metadata_dir"`
	Format      string `koanf:"format"`
}

// CatalogConfig enables registration of generated datasets in Postgres
type CatalogConfig struct {
	DatabaseURL string `koanf:"database_url"`
}

// Defaults returns the default key/value layer
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"rows":                            3000,
		"runs":                            1,
		"seed":                            0,
		"workers":                         4,
		"base_name":                       "synthetic_poly",
		"log_level":                       "INFO",
		"polynomial.min_vars":             5,
		"polynomial.max_vars":             34,
		"polynomial.min_degree":           0,
		"polynomial.max_degree":           11,
		"polynomial.max_terms":            13,
		"polynomial.min_coef":             -10.0,
		"polynomial.max_coef":             10.0,
		"polynomial.min_dependent_spread": 0.0,
		"polynomial.max_attempts":         10,
		"targets.linear":                  true,
		"targets.non_linear":              true,
		"categorical.fraction":            0.3,
		"categorical.none":                true,
		"categorical.high":                true,
		"categorical.low":                 true,
		"categorical.binary":              true,
		"categorical.high_cardinality":    100,
		"categorical.low_cardinality":     5,
		"categorical.binary_cardinality":  2,
		"output.datasets_dir":             "./datasets",
		"output.metadata_dir":             "./metadata",
		"output.format":                   FormatCSV,
		"catalog.database_url":            "",
	}
}

// flagKeys maps flag names whose config key is not the snake_case flag name
var flagKeys = map[string]string{
	"format":       "output.format",
	"datasets-dir": "output.datasets_dir",
	"metadata-dir": "output.metadata_dir",
	"database-url": "catalog.database_url",
}

// RegisterFlags adds the overridable settings to a flag set
func RegisterFlags(flags *pflag.FlagSet) {
	flags.Int("rows", 3000, "rows per dataset")
	flags.Int("runs", 1, "independent runs, each with a fresh polynomial")
	flags.Uint64("seed", 0, "random seed (0 derives one from the clock)")
	flags.Int("workers", 4, "variants written concurrently")
	flags.String("base-name", "synthetic_poly", "dataset name prefix")
	flags.String("log-level", "INFO", "ERROR, WARN, INFO, DEBUG or TRACE")
	flags.String("format", FormatCSV, "dataset file format (csv or xlsx)")
	flags.String("datasets-dir", "./datasets", "directory receiving dataset files")
	flags.String("metadata-dir", "./metadata", "directory receiving metadata records")
	flags.String("database-url", "", "Postgres URL of the dataset catalog (empty disables it)")
}

// Load reads configuration in layers. Later layers win:
// defaults, config file, .env plus environment, explicitly set flags.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load defaults")
	}

	path, err := resolveConfigFile(configFile)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.WithCode(errors.CodeConfigInvalid,
				fmt.Errorf("error reading config file %s: %w", path, err))
		}
	}

	// .env is optional; existing environment variables take precedence over it
	_ = godotenv.Load()

	if legacy := os.Getenv("LOG_LEVEL"); legacy != "" && os.Getenv(EnvPrefix+"LOG_LEVEL") == "" {
		if err := k.Set("log_level", legacy); err != nil {
			return nil, errors.Wrap(err, "failed to apply LOG_LEVEL")
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load env vars")
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, errors.Wrap(err, "failed to load flags")
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("unable to decode config: %w", err))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey turns POLYSYNTH_POLYNOMIAL__MAX_VARS into polynomial.max_vars
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func resolveConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", errors.ConfigInvalidf("config file %s: %v", explicit, err)
		}
		return explicit, nil
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile, nil
	}
	return "", nil
}

// Validate rejects settings the generator cannot honor
func (c *Config) Validate() error {
	p := c.Polynomial
	switch {
	case c.Rows <= 0:
		return errors.ConfigInvalidf("rows must be positive, got %d", c.Rows)
	case c.Runs <= 0:
		return errors.ConfigInvalidf("runs must be positive, got %d", c.Runs)
	case c.Workers <= 0:
		return errors.ConfigInvalidf("workers must be positive, got %d", c.Workers)
	case strings.TrimSpace(c.BaseName) == "":
		return errors.ConfigInvalid("base_name cannot be empty")
	case !validLevel(c.LogLevel):
		return errors.ConfigInvalidf("unknown log_level %q", c.LogLevel)
	case p.MinVars < 1:
		return errors.ConfigInvalidf("polynomial.min_vars must be at least 1, got %d", p.MinVars)
	case p.MinVars > p.MaxVars:
		return errors.ConfigInvalidf("polynomial.min_vars %d exceeds max_vars %d", p.MinVars, p.MaxVars)
	case p.MaxTerms < 1:
		return errors.ConfigInvalidf("polynomial.max_terms must be at least 1, got %d", p.MaxTerms)
	case p.MinDegree < 0:
		return errors.ConfigInvalidf("polynomial.min_degree cannot be negative, got %d", p.MinDegree)
	case p.MinDegree > p.MaxDegree:
		return errors.ConfigInvalidf("polynomial.min_degree %d exceeds max_degree %d", p.MinDegree, p.MaxDegree)
	case p.MinCoef > p.MaxCoef:
		return errors.ConfigInvalidf("polynomial.min_coef %g exceeds max_coef %g", p.MinCoef, p.MaxCoef)
	case p.MinDependentSpread < 0:
		return errors.ConfigInvalidf("polynomial.min_dependent_spread cannot be negative, got %g", p.MinDependentSpread)
	case p.MaxAttempts < 1:
		return errors.ConfigInvalidf("polynomial.max_attempts must be at least 1, got %d", p.MaxAttempts)
	case c.Categorical.Fraction <= 0 || c.Categorical.Fraction > 1:
		return errors.ConfigInvalidf("categorical.fraction must be in (0, 1], got %g", c.Categorical.Fraction)
	case len(c.EnabledTargets()) == 0:
		return errors.ConfigInvalid("at least one target policy must be enabled")
	case len(c.EnabledProfiles()) == 0:
		return errors.ConfigInvalid("at least one categorical profile must be enabled")
	case c.Output.Format != FormatCSV && c.Output.Format != FormatXLSX:
		return errors.ConfigInvalidf("output.format must be %s or %s, got %q", FormatCSV, FormatXLSX, c.Output.Format)
	}
	return nil
}

func validLevel(s string) bool {
	_, err := internal.ParseLevel(s)
	return err == nil
}

// Level returns the parsed log level
func (c *Config) Level() internal.LogLevel {
	level, _ := internal.ParseLevel(c.LogLevel)
	return level
}

// EnabledTargets returns the enabled target policies in enumeration order
func (c *Config) EnabledTargets() []variant.TargetPolicy {
	var out []variant.TargetPolicy
	if c.Targets.Linear {
		out = append(out, variant.Linear)
	}
	if c.Targets.NonLinear {
		out = append(out, variant.NonLinear)
	}
	return out
}

// EnabledProfiles returns the enabled categorical profiles in enumeration order
func (c *Config) EnabledProfiles() []variant.CategoricalProfile {
	var out []variant.CategoricalProfile
	if c.Categorical.None {
		out = append(out, variant.NoCategorical)
	}
	if c.Categorical.High {
		out = append(out, variant.HighCardinality)
	}
	if c.Categorical.Low {
		out = append(out, variant.LowCardinality)
	}
	if c.Categorical.Binary {
		out = append(out, variant.Binary)
	}
	return out
}

// Cardinality returns the number of categories a profile asks for; 0 for NONE
func (c *Config) Cardinality(profile variant.CategoricalProfile) int {
	switch profile {
	case variant.HighCardinality:
		return c.Categorical.HighCardinality
	case variant.LowCardinality:
		return c.Categorical.LowCardinality
	case variant.Binary:
		return c.Categorical.BinaryCardinality
	default:
		return 0
	}
}

// Bounds returns the polynomial draw bounds
func (c *Config) Bounds() polynomial.Bounds {
	return polynomial.Bounds{
		MinVars:  c.Polynomial.MinVars,
		MaxVars:  c.Polynomial.MaxVars,
		MaxTerms: c.Polynomial.MaxTerms,
		MinCoef:  c.Polynomial.MinCoef,
		MaxCoef:  c.Polynomial.MaxCoef,
	}
}
