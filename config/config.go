// Copyright 2024 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
	"github.com/stratastor/logger"
	"github.com/stratastor/warren/internal/constants"
	"gopkg.in/yaml.v3"
)

var (
	instance   *Config
	once       sync.Once
	configPath string // Tracks where the config was loaded from
)

type Config struct {
	Server struct {
		Port            int      `mapstructure:"port" validate:"min=1,max=65535"`
		LogLevel        string   `mapstructure:"logLevel"`
		Daemonize       bool     `mapstructure:"daemonize"`
		AllowedNetworks []string `mapstructure:"allowedNetworks" validate:"dive,cidr"`
	} `mapstructure:"server"`

	Health struct {
		Interval string `mapstructure:"interval" validate:"omitempty,duration"`
		Endpoint string `mapstructure:"endpoint" validate:"required,startswith=/"`
	} `mapstructure:"health"`

	Logs struct {
		Path      string `mapstructure:"path"`
		Retention string `mapstructure:"retention"`
		Output    string `mapstructure:"output" validate:"oneof=stdout file"` // stdout or file
	} `mapstructure:"logs"`

	Logger struct {
		LogLevel     string `mapstructure:"logLevel" validate:"oneof=debug info warn error"`
		EnableSentry bool   `mapstructure:"enableSentry"`
		SentryDSN    string `mapstructure:"sentryDSN" validate:"required_if=EnableSentry true"`
	} `mapstructure:"logger"`

	// Tools locates the external binaries. Timeout bounds every invocation;
	// "0s" leaves them unbounded.
	Tools struct {
		ZFS       string `mapstructure:"zfs" validate:"required"`
		Zpool     string `mapstructure:"zpool" validate:"required"`
		Chmod     string `mapstructure:"chmod" validate:"required"`
		Lsblk     string `mapstructure:"lsblk" validate:"required"`
		Smartctl  string `mapstructure:"smartctl" validate:"required"`
		Exportfs  string `mapstructure:"exportfs" validate:"required"`
		Systemctl string `mapstructure:"systemctl" validate:"required"`
		Sudo      bool   `mapstructure:"sudo"`
		Timeout   string `mapstructure:"timeout" validate:"duration"`
	} `mapstructure:"tools"`

	NFS struct {
		ExportsFile    string   `mapstructure:"exportsFile" validate:"required,startswith=/"`
		DefaultOptions []string `mapstructure:"defaultOptions" validate:"min=1"`
		Unit           string   `mapstructure:"unit" validate:"required"`
	} `mapstructure:"nfs"`

	// Audit compares the exports file with the live NFS view on an interval
	// and whenever the file changes.
	Audit struct {
		Enabled  bool   `mapstructure:"enabled"`
		Interval string `mapstructure:"interval" validate:"duration"`
		Watch    bool   `mapstructure:"watch"`
	} `mapstructure:"audit"`

	Journal struct {
		Enabled bool   `mapstructure:"enabled"`
		Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
		Retain  int    `mapstructure:"retain" validate:"min=0"`
	} `mapstructure:"journal"`

	Environment string `mapstructure:"environment" validate:"oneof=dev prod test"`
}

// LoadConfig loads the configuration with precedence rules.
func LoadConfig(configFilePath string) *Config {
	once.Do(func() {
		// Setup basic logger for initialization
		logConfig := logger.Config{
			LogLevel:     "info",
			EnableSentry: false,
			SentryDSN:    "",
		}
		l, err := logger.NewTag(logConfig, "config")
		if err != nil {
			fmt.Printf("Failed to create logger: %v\n", err)
			os.Exit(1)
		}

		// Reset viper to avoid any potential carryover
		viper.Reset()
		viper.SetConfigType("yaml")

		// Determine which config file to use with clear priorities
		systemConfigPath := filepath.Join(GetConfigDir(), constants.ConfigFileName)

		if configFilePath != "" {
			// 1. Priority: Explicit path from command line
			configPath = configFilePath
		} else if envPath := os.Getenv(constants.EnvConfigPath); envPath != "" {
			// 2. Priority: Environment variable
			configPath = envPath
		} else {
			// 3. Priority: Always default to system-wide config
			configPath = systemConfigPath
		}

		l.Info("Using config file", "path", configPath)

		// Convert to absolute path if possible for consistency
		absPath, err := filepath.Abs(configPath)
		if err == nil {
			configPath = absPath
		}

		viper.SetConfigFile(configPath)
		SetDefaults(viper.GetViper())

		// Bind environment variables
		viper.AutomaticEnv()
		viper.SetEnvPrefix(constants.EnvPrefix)
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

		err = viper.ReadInConfig()
		if err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
				l.Info("Config file not found, creating default", "path", configPath)

				var cfg Config
				if err := viper.Unmarshal(&cfg); err != nil {
					l.Error("Failed to unmarshal default configuration", "err", err)
				}
				instance = &cfg

				if err := SaveConfig(configPath); err != nil {
					l.Error("Failed to save default configuration", "err", err)
				}
			} else {
				// Some other error (parse error, etc.)
				l.Error("Error reading config file", "err", err)

				// Still use defaults
				var cfg Config
				if err := viper.Unmarshal(&cfg); err != nil {
					l.Error("Failed to unmarshal default configuration", "err", err)
				}
				instance = &cfg
			}
		} else {
			l.Info("Config file loaded successfully", "path", viper.ConfigFileUsed())
			configPath = viper.ConfigFileUsed()

			var cfg Config
			if err := viper.Unmarshal(&cfg); err != nil {
				l.Error("Failed to parse configuration", "err", err)
				cfg = Config{}
				_ = viper.Unmarshal(&cfg)
			}
			instance = &cfg
		}

		if err := Validate(instance); err != nil {
			l.Warn("Configuration failed validation", "err", err)
		}

		debugCfg := *instance
		if debugCfg.Logger.SentryDSN != "" {
			debugCfg.Logger.SentryDSN = "[REDACTED]"
		}
		l.Debug("Loaded configuration", "config", fmt.Sprintf("%+v", debugCfg))
	})

	return instance
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("environment", "dev")
	v.SetDefault("server.port", 8043)
	v.SetDefault("server.logLevel", "debug")
	v.SetDefault("server.daemonize", false)
	v.SetDefault("server.allowedNetworks", []string{})
	v.SetDefault("health.interval", "30s")
	v.SetDefault("health.endpoint", "/health")
	v.SetDefault("logs.path", "/var/log/warren/warren.log")
	v.SetDefault("logs.retention", "7d")
	v.SetDefault("logs.output", "stdout")
	v.SetDefault("logger.logLevel", "debug")
	v.SetDefault("logger.enableSentry", false)
	v.SetDefault("logger.sentryDSN", "")

	v.SetDefault("tools.zfs", "/usr/sbin/zfs")
	v.SetDefault("tools.zpool", "/usr/sbin/zpool")
	v.SetDefault("tools.chmod", "/usr/bin/chmod")
	v.SetDefault("tools.lsblk", "/usr/bin/lsblk")
	v.SetDefault("tools.smartctl", "/usr/sbin/smartctl")
	v.SetDefault("tools.exportfs", "/usr/sbin/exportfs")
	v.SetDefault("tools.systemctl", "/usr/bin/systemctl")
	v.SetDefault("tools.sudo", false)
	v.SetDefault("tools.timeout", "0s")

	v.SetDefault("nfs.exportsFile", "/etc/exports")
	v.SetDefault("nfs.defaultOptions", []string{"rw", "sync", "no_root_squash"})
	v.SetDefault("nfs.unit", "nfs-server")

	v.SetDefault("audit.enabled", false)
	v.SetDefault("audit.interval", "5m")
	v.SetDefault("audit.watch", true)

	v.SetDefault("journal.enabled", true)
	v.SetDefault("journal.path", GetJournalDir())
	v.SetDefault("journal.retain", 10000)
}

// ToolTimeout parses Tools.Timeout. Anything unparsable means no timeout.
func (c *Config) ToolTimeout() time.Duration {
	d, err := time.ParseDuration(c.Tools.Timeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// AuditInterval parses Audit.Interval, falling back to five minutes.
func (c *Config) AuditInterval() time.Duration {
	d, err := time.ParseDuration(c.Audit.Interval)
	if err != nil || d <= 0 {
		return 5 * time.Minute
	}
	return d
}

// SaveConfig persists the current configuration to a specified path.
func SaveConfig(path string) error {
	if path == "" {
		if err := EnsureDirectories(); err != nil {
			return err
		}
		path = filepath.Join(GetConfigDir(), constants.ConfigFileName)
	}

	// Create parent directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configYAML, err := yaml.Marshal(instance)
	if err != nil {
		return fmt.Errorf("failed to serialize configuration: %w", err)
	}

	if err := os.WriteFile(path, configYAML, 0644); err != nil {
		return fmt.Errorf("failed to write configuration to file: %w", err)
	}

	configPath = path
	return nil
}

// GetLoadedConfigPath returns the path of the currently loaded configuration file.
func GetLoadedConfigPath() string {
	return configPath
}

// GetConfig returns the current configuration instance.
func GetConfig() *Config {
	if instance == nil {
		return LoadConfig("")
	}
	return instance
}

func NewLoggerConfig(cfg *Config) logger.Config {
	if cfg == nil {
		return logger.Config{
			LogLevel:     "info",
			EnableSentry: false,
			SentryDSN:    "",
		}
	}

	return logger.Config{
		LogLevel:     cfg.Logger.LogLevel,
		EnableSentry: cfg.Logger.EnableSentry,
		SentryDSN:    cfg.Logger.SentryDSN,
	}
}
