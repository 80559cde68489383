package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode     string `mapstructure:"mode"`
	Handlers struct {
		Prometheus struct {
			Port string `mapstructure:"port"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort    string        `mapstructure:"HTTPPort"`
		BasePath    string        `mapstructure:"basePath"`
		Timeout     time.Duration `mapstructure:"HTTPTimeout"`
		CORSOrigins []string      `mapstructure:"corsOrigins"`
	} `mapstructure:"server"`
	Security struct {
		PasswordHash struct {
			Algorithm string `mapstructure:"algorithm"`
			Cost      int    `mapstructure:"cost"`
		} `mapstructure:"passwordHash"`
	} `mapstructure:"security"`
}

const (
	hashCostKey     = "security.passwordHash.cost"
	defaultHashCost = 10
)

// envBindings maps config keys onto the environment variables operators
// already use for this service.
var envBindings = map[string]string{
	"server.HTTPPort":                 "PORT",
	"server.basePath":                 "API_BASE_PATH",
	hashCostKey:                       "BCRYPT_SALT_ROUNDS",
	"security.passwordHash.algorithm": "PASSWORD_HASH_ALGORITHM",
	"repositories.postgres.host":      "POSTGRES_HOST",
	"repositories.postgres.port":      "POSTGRES_PORT",
	"repositories.postgres.username":  "POSTGRES_USER",
	"repositories.postgres.password":  "POSTGRES_PASSWORD",
	"repositories.postgres.db":        "POSTGRES_DB",
	"repositories.postgres.SSLMODE":   "POSTGRES_SSLMODE",
	"handlers.prometheus.port":        "PROMETHEUS_PORT",
}

func InitConfig() (Config, error) {
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	return load(v)
}

// load applies environment overrides and decodes v into a Config.
func load(v *viper.Viper) (Config, error) {
	var config Config

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	// A cost that is not a number falls back to the default.
	cost, err := strconv.Atoi(strings.TrimSpace(v.GetString(hashCostKey)))
	if err != nil {
		cost = defaultHashCost
	}
	v.Set(hashCostKey, cost)

	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Server.BasePath == "" {
		config.Server.BasePath = "/api/v1"
	}
	if config.Server.HTTPPort == "" {
		config.Server.HTTPPort = "3000"
	}
	return config, nil
}
