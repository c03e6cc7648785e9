package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RuntimeOS mirrors runtime.GOOS so tests can branch on platform-specific
// path behavior without importing runtime themselves.
const RuntimeOS = runtime.GOOS

// Config is the top-level application configuration. Field names map to the
// keys in warden.yaml; environment variables use the WARDEN_ prefix with dots
// replaced by underscores (e.g. WARDEN_DATABASE_DSN).
type Config struct {
	// Regions lists the AWS regions every operation fans out to.
	Regions []string `mapstructure:"regions" yaml:"regions"`
	Params  struct {
		// OperatorsKey is the Parameter Store name holding the operator roster.
		OperatorsKey string `mapstructure:"operators_key" yaml:"operators_key"`
		// KeyPrefix is the path prefix under which per-operator SSH keys live.
		KeyPrefix string `mapstructure:"key_prefix" yaml:"key_prefix"`
	} `mapstructure:"params" yaml:"params"`
	Database struct {
		Type string `mapstructure:"type" yaml:"type"`
		Dsn  string `mapstructure:"dsn" yaml:"dsn"`
	} `mapstructure:"database" yaml:"database"`
	Language string `mapstructure:"language" yaml:"language"`
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		// Machine-wide location.
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Warden")
		default: // anything unix-like
			configDir = "/etc/warden"
		}
	} else {
		// Per-user location.
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("resolving user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "warden")
	}

	return filepath.Join(configDir, "warden.yaml"), nil
}

// LoadConfig populates a config struct from defaults, config files, the
// environment and bound CLI flags, in ascending precedence. When no usable
// config file exists the parsed struct is still returned together with a
// viper.ConfigFileNotFoundError so callers can decide to write a default file.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, additional_config_file_path *string) (T, error) {
	var c T

	// 1. Baseline defaults.
	for key, value := range defaults {
		viper.SetDefault(key, value)
	}

	viper.SetConfigType("yaml")

	// 2. Collect candidate config files in precedence order. An explicit
	// --config path replaces the search; otherwise the user path, the system
	// path and finally ./warden.yaml are consulted. Zero-length candidates
	// are treated as not found so a stray touched file does not mask the
	// search.
	var candidates []string
	if additional_config_file_path != nil && *additional_config_file_path != "" {
		candidates = append(candidates, *additional_config_file_path)
	} else {
		if userConfigPath, err := GetConfigPath(false); err == nil {
			candidates = append(candidates, userConfigPath)
		}
		if systemConfigPath, err := GetConfigPath(true); err == nil {
			candidates = append(candidates, systemConfigPath)
		}
		candidates = append(candidates, "warden.yaml") // current dir
	}

	// 3. Read the first usable candidate. A malformed file is fatal here;
	// the not-found case is remembered and reported after parsing finishes.
	var fileErr error = viper.ConfigFileNotFoundError{}
	for _, candidate := range candidates {
		if fi, err := os.Stat(candidate); err != nil || fi.Size() == 0 {
			continue
		}
		viper.SetConfigFile(candidate)
		if err := viper.ReadInConfig(); err != nil {
			return c, err
		}
		fileErr = nil
		break
	}

	// 4. A dotfile left over from older releases still merges in underneath.
	mergeLegacyConfig()

	// 5. Environment variables, then bound flags on top of everything.
	viper.AutomaticEnv()
	viper.AllowEmptyEnv(true)
	viper.SetEnvPrefix("warden")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return c, err
	}

	if err := viper.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, fileErr
}

// mergeLegacyConfig folds a `.warden.yaml` from the current directory into
// the loaded configuration. Early releases used that dotfile name and it
// still deserves to be honored.
func mergeLegacyConfig() {
	legacyConfigFile := ".warden.yaml"
	if _, err := os.Stat(legacyConfigFile); err != nil {
		return
	}
	viper.SetConfigFile(legacyConfigFile)
	// A malformed dotfile must not take down startup; it simply stops
	// contributing settings.
	_ = viper.MergeInConfig()
}

// Save persists the current viper state to the user configuration file. It is
// used after commands mutate settings at runtime (e.g. language switches) so
// the change survives the process.
func Save() error {
	path, err := GetConfigPath(false)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(viper.AllSettings())
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", configDir, err)
	}

	return os.WriteFile(path, data, 0600) // the DSN may carry credentials
}

// WriteConfigFile marshals c to the user or system config path, creating
// missing directories on the way.
func WriteConfigFile[T any](c *T, system bool) error {
	path, err := GetConfigPath(system)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", configDir, err)
	}

	return os.WriteFile(path, data, 0600) // the DSN may carry credentials
}
