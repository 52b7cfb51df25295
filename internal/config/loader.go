package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, as in
// CRLKIT_PARSER_MAXFIELDSIZE.
const EnvPrefix = "CRLKIT"

// Loader errors.
var (
	ErrFileNotFound = errors.New("configuration file not found")
	ErrInvalidYAML  = errors.New("invalid YAML format")
)

// NewViper returns a viper instance with all defaults registered and
// environment overrides enabled. Callers may bind command line flags to it
// before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the YAML file at path into v, if path is not empty, and
// returns the merged configuration. Precedence from high to low is flags
// bound to v, environment, file, defaults.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
			}
			return nil, err
		}
		if err := readYAML(v, data); err != nil {
			return nil, err
		}
	}
	return decode(v)
}

// LoadConfig loads configuration from a file path.
func LoadConfig(path string) (*Config, error) {
	return Load(NewViper(), path)
}

// ParseConfig parses configuration from YAML data.
// It substitutes environment variables and applies defaults for missing values.
func ParseConfig(data []byte) (*Config, error) {
	v := NewViper()
	if err := readYAML(v, data); err != nil {
		return nil, err
	}
	return decode(v)
}

func readYAML(v *viper.Viper, data []byte) error {
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(substituteEnvVars(data))); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	return nil
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// substituteEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment variable values.
func substituteEnvVars(data []byte) []byte {
	return envVarPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		content := string(match[2 : len(match)-1])

		if idx := strings.Index(content, ":-"); idx != -1 {
			if val := os.Getenv(content[:idx]); val != "" {
				return []byte(val)
			}
			return []byte(content[idx+2:])
		}

		return []byte(os.Getenv(content))
	})
}
