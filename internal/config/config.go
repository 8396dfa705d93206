package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// NDKRootEnv names the required environment variable pointing at the NDK
// installation that provides the device-control and build executables.
const NDKRootEnv = "ANDROID_NDK_ROOT"

// Config holds application configuration
type Config struct {
	// Global settings
	Format  string `mapstructure:"format"`
	Quiet   bool   `mapstructure:"quiet"`
	Verbose bool   `mapstructure:"verbose"`

	// Default values for commands
	Defaults DefaultsConfig `mapstructure:"defaults"`
}

// DefaultsConfig holds default values for the attach command
type DefaultsConfig struct {
	Port    int    `mapstructure:"port"`
	Project string `mapstructure:"project"`
	Adb     string `mapstructure:"adb"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Format: "auto",
		Defaults: DefaultsConfig{
			Port:    10000,
			Project: ".",
		},
	}
}

// Load loads configuration from files and environment
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("adbg")
	v.SetConfigType("yaml")

	// Config paths, lowest precedence first
	v.AddConfigPath("/etc/adbg/")
	if configDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(configDir, "adbg"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
		v.SetConfigName(".adbg")
	}
	v.AddConfigPath(".")

	// Environment variables
	v.SetEnvPrefix("ADBG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.BindEnv("format", "ADBG_FORMAT")
	v.BindEnv("quiet", "ADBG_QUIET")
	v.BindEnv("verbose", "ADBG_VERBOSE")
	v.BindEnv("defaults.port", "ADBG_PORT")
	v.BindEnv("defaults.adb", "ADBG_ADB")

	cfg := Default()
	v.SetDefault("format", cfg.Format)
	v.SetDefault("quiet", cfg.Quiet)
	v.SetDefault("verbose", cfg.Verbose)
	v.SetDefault("defaults.port", cfg.Defaults.Port)
	v.SetDefault("defaults.project", cfg.Defaults.Project)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// Config file not found; use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ConfigFile returns the path to the config file that was loaded
func ConfigFile() string {
	v := viper.New()

	v.SetConfigName("adbg")
	v.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err == nil {
		return v.ConfigFileUsed()
	}

	v.SetConfigName(".adbg")
	if err := v.ReadInConfig(); err == nil {
		return v.ConfigFileUsed()
	}

	return ""
}

// NDKRoot resolves and validates the toolkit root. A space in the path
// breaks the shell-quoted tool invocations further down the line, so it is
// rejected here rather than failing obscurely later.
func NDKRoot() (string, error) {
	root := os.Getenv(NDKRootEnv)
	if root == "" {
		return "", fmt.Errorf("%s is not set", NDKRootEnv)
	}
	if strings.ContainsRune(root, ' ') {
		return "", fmt.Errorf("%s contains a space character: %q", NDKRootEnv, root)
	}
	return root, nil
}

// ResolveADB locates the device-control executable: an explicit override
// first, then the NDK installation, then $PATH. A malformed NDK root is
// always fatal; a merely unset one falls through to $PATH.
func ResolveADB(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	root, err := NDKRoot()
	if err == nil {
		candidate := filepath.Join(root, "platform-tools", "adb")
		if _, statErr := os.Stat(candidate); statErr == nil {
			return candidate, nil
		}
	} else if strings.ContainsRune(os.Getenv(NDKRootEnv), ' ') {
		return "", err
	}
	if path, lookErr := exec.LookPath("adb"); lookErr == nil {
		return path, nil
	}
	return "", fmt.Errorf("adb not found; set %s or pass --adb", NDKRootEnv)
}
