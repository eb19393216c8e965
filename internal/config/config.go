// Package config loads nestling's settings from defaults, an optional
// nestling.yml, NESTLING_* environment variables (including a local .env)
// and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// NESTLING_INSTALL_INSTALLER=uv.
const EnvPrefix = "NESTLING"

// Config is the resolved configuration.
type Config struct {
	DefaultTier string        `mapstructure:"default_tier"`
	Install     InstallConfig `mapstructure:"install"`
	Output      OutputConfig  `mapstructure:"output"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// InstallConfig controls the post-generation installer step.
type InstallConfig struct {
	Skip      bool          `mapstructure:"skip"`
	Installer string        `mapstructure:"installer"`
	Python    string        `mapstructure:"python"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// OutputConfig holds presentation settings.
type OutputConfig struct {
	Spinner bool `mapstructure:"spinner"`
}

// LoadOptions tells Load where to look.
type LoadOptions struct {
	// File is an explicit config path. It must exist when set.
	File string
	// Dirs are searched for nestling.yml when File is empty. Nil means the
	// working directory and $XDG_CONFIG_HOME/nestling.
	Dirs []string
	// DotEnv is the .env file loaded into the environment first. Empty
	// means ".env"; a missing file is not an error.
	DotEnv string
	// Flags maps config keys to the flags that override them.
	Flags map[string]*pflag.Flag
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("default_tier", "")
	v.SetDefault("install.skip", false)
	v.SetDefault("install.installer", "pip")
	v.SetDefault("install.python", "python3")
	v.SetDefault("install.timeout", time.Duration(0))
	v.SetDefault("output.spinner", true)
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := decode(v)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load resolves the configuration.
func Load(opts LoadOptions) (*Config, error) {
	if err := loadDotEnv(opts.DotEnv); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, flag := range opts.Flags {
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("binding flag --%s: %w", flag.Name, err)
		}
	}

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("nestling")
		v.SetConfigType("yaml")
		for _, dir := range searchDirs(opts.Dirs) {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.DefaultTier = strings.TrimSpace(cfg.DefaultTier)
	cfg.Install.Installer = strings.ToLower(strings.TrimSpace(cfg.Install.Installer))
	return &cfg, nil
}

// Validate checks values that have no sensible fallback.
func (c *Config) Validate() error {
	if c.Install.Installer == "" {
		return errors.New("install.installer must not be empty")
	}
	if c.Install.Python == "" {
		return errors.New("install.python must not be empty")
	}
	if c.Install.Timeout < 0 {
		return fmt.Errorf("install.timeout must not be negative, got %s", c.Install.Timeout)
	}
	return nil
}

func searchDirs(dirs []string) []string {
	if dirs != nil {
		return dirs
	}
	dirs = []string{"."}
	if base, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(base, "nestling"))
	}
	return dirs
}

// loadDotEnv adds the file's variables to the environment without
// replacing ones already set.
func loadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
