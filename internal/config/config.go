// Package config loads ddmem.Config, ddapi.Client settings, and ddsubmit
// secrets from file/environment via viper, grounded on the
// viper.SetDefault/AddConfigPath idiom used by virtual-vectorfs's
// pkg/config/config.go in the examples pack.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/ddstats/ddcore/ddmem"
	"github.com/ddstats/ddcore/ddsubmit"
)

// Config is the top-level configuration for a ddcore-based client.
type Config struct {
	Memory  MemoryConfig  `mapstructure:"memory"`
	API     APIConfig     `mapstructure:"api"`
	Secrets SecretsConfig `mapstructure:"secrets"`
}

// MemoryConfig mirrors ddmem.Config's fields for file/env loading.
type MemoryConfig struct {
	Variant             string `mapstructure:"variant"`
	ProcessName         string `mapstructure:"process_name"`
	BlockMarkerOverride uint64 `mapstructure:"block_marker_override"`
	MayCreateChild      bool   `mapstructure:"may_create_child"`
}

// APIConfig configures the ddapi.Client base URL.
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// SecretsConfig mirrors ddsubmit.Secrets for file/env loading.
type SecretsConfig struct {
	Password string `mapstructure:"password"`
	Salt     string `mapstructure:"salt"`
	IV       string `mapstructure:"iv"`
}

// Load reads configuration from configPath if non-empty, otherwise searches
// the working directory, its parent, and /etc/ddcore. Environment variables
// prefixed DDCORE_ (e.g. DDCORE_API_BASE_URL) override both file values and
// defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("..")
		v.AddConfigPath("/etc/ddcore")
		v.SetConfigName("ddcore")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("ddcore")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("memory.variant", "linux_native")
	v.SetDefault("memory.process_name", "")
	v.SetDefault("memory.block_marker_override", 0)
	v.SetDefault("memory.may_create_child", false)

	v.SetDefault("api.base_url", "https://devildaggers.info/")

	v.SetDefault("secrets.password", "")
	v.SetDefault("secrets.salt", "")
	v.SetDefault("secrets.iv", "")

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("config: read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	return &cfg, nil
}

// parseVariant maps a config string onto ddmem.Variant.
func parseVariant(s string) (ddmem.Variant, error) {
	switch s {
	case "linux_native":
		return ddmem.VariantLinuxNative, nil
	case "windows_native":
		return ddmem.VariantWindowsNative, nil
	case "linux_proton":
		return ddmem.VariantLinuxProton, nil
	default:
		return 0, fmt.Errorf("config: unknown memory variant %q", s)
	}
}

// ToDDMemConfig converts the loaded configuration into a ddmem.Config.
func (c *Config) ToDDMemConfig() (ddmem.Config, error) {
	variant, err := parseVariant(c.Memory.Variant)
	if err != nil {
		return ddmem.Config{}, err
	}
	return ddmem.Config{
		Variant:             variant,
		ProcessName:         c.Memory.ProcessName,
		BlockMarkerOverride: c.Memory.BlockMarkerOverride,
		MayCreateChild:      c.Memory.MayCreateChild,
	}, nil
}

// ToSecrets converts the loaded configuration into a ddsubmit.Secrets,
// returning ddsubmit.ErrMissingSecrets if any field is blank.
func (c *Config) ToSecrets() (ddsubmit.Secrets, error) {
	s := ddsubmit.Secrets{Password: c.Secrets.Password, Salt: c.Secrets.Salt, IV: c.Secrets.IV}
	if s.Password == "" || s.Salt == "" || s.IV == "" {
		return ddsubmit.Secrets{}, ddsubmit.ErrMissingSecrets
	}
	return s, nil
}
