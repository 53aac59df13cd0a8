package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env     string        `mapstructure:"env"`
	Debug   bool          `mapstructure:"debug"`
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Admin   AdminConfig   `mapstructure:"admin"`
	Teacher TeacherConfig `mapstructure:"teacher"`
	Seed    bool          `mapstructure:"seed_demo"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// StorageConfig selects the key-value backend: "redis" or "memory".
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	Prefix string `mapstructure:"prefix"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AdminConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type TeacherConfig struct {
	EmailDomain    string `mapstructure:"email_domain"`
	PasswordLength int    `mapstructure:"password_length"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("debug", false)
	v.SetDefault("server.port", ":8080")
	v.SetDefault("storage.driver", "redis")
	v.SetDefault("storage.prefix", "")
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 8)
	v.SetDefault("admin.username", "Admin")
	v.SetDefault("admin.password", "Admin123")
	v.SetDefault("teacher.email_domain", "Edoura")
	v.SetDefault("teacher.password_length", 8)
	v.SetDefault("seed_demo", false)
}

// Load reads configuration from, in increasing precedence: defaults,
// config/config.<env>.yaml, config/.env.<env> and EDOURA_* environment variables.
func Load() (*Config, error) {
	env := os.Getenv("ENV")
	if env == "" {
		env = "local"
	}
	env = strings.ToLower(env)

	// .env file is optional
	dotEnvPath := filepath.Join("config", ".env."+env)
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat %s: %w", dotEnvPath, err)
	}

	v := viper.New()
	setDefaults(v)
	v.Set("env", env)

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	v.SetConfigType("yaml")
	v.AddConfigPath("/configs")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("EDOURA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "redis", "memory":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Teacher.PasswordLength <= 0 {
		return fmt.Errorf("teacher.password_length must be positive, got %d", c.Teacher.PasswordLength)
	}
	if c.Teacher.EmailDomain == "" {
		return fmt.Errorf("teacher.email_domain is required")
	}
	return nil
}
