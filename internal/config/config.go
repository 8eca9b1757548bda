// Package config carga la configuración desde archivo y variables de
// entorno VETDESK_*.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type SessionConfig struct {
	// TokenPath es el archivo donde se persiste el token de sesión.
	// Vacío usa la ruta por defecto bajo el directorio de configuración
	// del usuario.
	TokenPath string `mapstructure:"token_path"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	FilePath   string `mapstructure:"filepath"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

type StubConfig struct {
	Listen    string        `mapstructure:"listen"`
	Driver    string        `mapstructure:"driver"`
	DSN       string        `mapstructure:"dsn"`
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
	Logging LogConfig     `mapstructure:"logging"`
	Stub    StubConfig    `mapstructure:"stub"`
}

// Load lee la configuración. Con file vacío busca vetdesk.yaml en el
// directorio actual y en ~/.config/vetdesk; un archivo inexistente no es
// error, los defaults y el entorno alcanzan.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("VETDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
	} else {
		v.SetConfigName("vetdesk")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "vetdesk"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: read: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("api.timeout", "10s")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.max_size", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 14)
	v.SetDefault("logging.compress", true)
	v.SetDefault("stub.listen", ":8080")
	v.SetDefault("stub.driver", "sqlite")
	v.SetDefault("stub.dsn", "vetdesk-stub.db")
	v.SetDefault("stub.jwt_secret", "dev-only-secret-change-me-0123456")
	v.SetDefault("stub.token_ttl", "24h")
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("config: api.base_url is required")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("config: api.timeout must be positive")
	}
	switch c.Stub.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("config: unsupported stub.driver %q", c.Stub.Driver)
	}
	return nil
}
