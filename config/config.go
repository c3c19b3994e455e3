package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode   string `mapstructure:"mode"`
	Dotenv string `mapstructure:"dotenv"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Repositories struct {
		Postgres struct {
			Host     string `mapstructure:"host"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			Password string `mapstructure:"password"`
			DB       string `mapstructure:"db"`
			SSLMode  string `mapstructure:"sslmode"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Auth struct {
		JWTSecret   string        `mapstructure:"jwtSecret"`
		TokenExpiry time.Duration `mapstructure:"tokenExpiry"`
		BcryptCost  int           `mapstructure:"bcryptCost"`
	} `mapstructure:"auth"`
	Throttle struct {
		Window time.Duration `mapstructure:"window"`
		Limit  int           `mapstructure:"limit"`
	} `mapstructure:"throttle"`
	Upload struct {
		Dest        string `mapstructure:"dest"`
		MaxFileSize int64  `mapstructure:"maxFileSize"`
	} `mapstructure:"upload"`
}

// InitConfig loads configuration from a config.yml on disk, falling back to
// the embedded defaults. Every key can be overridden by environment, e.g.
// AUTH_JWTSECRET or REPOSITORIES_POSTGRES_HOST.
func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return config, nil
}
