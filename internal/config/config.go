package config

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	LLM    LLMConfig
	Server ServerConfig
	Store  StoreConfig
	Log    LogConfig
}

// LLMConfig holds the generative-text service configuration.
// Any OpenAI-compatible endpoint works; the default points at Gemini.
type LLMConfig struct {
	Provider     string `mapstructure:"provider"`
	BaseURL      string `mapstructure:"base_url"`
	APIKey       string `mapstructure:"api_key"`
	Model        string `mapstructure:"model"`
	SystemPrompt string `mapstructure:"system_prompt"`
}

// ServerConfig holds the server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

// StoreConfig selects where the conversation log is persisted between sessions.
type StoreConfig struct {
	Driver    string `mapstructure:"driver"` // sqlite, redis or memory
	Path      string `mapstructure:"path"`
	RedisAddr string `mapstructure:"redis_addr"`
	Key       string `mapstructure:"key"`
}

// LogConfig holds the logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.base_url", "https://generativelanguage.googleapis.com/v1beta/openai")
	v.SetDefault("llm.model", "gemini-1.5-flash")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.system_prompt", "")
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "8080")
	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.path", "advisor.db")
	v.SetDefault("store.redis_addr", "localhost:6379")
	v.SetDefault("store.key", "messages")
	v.SetDefault("log.level", "info")
}

// Load reads config.yaml from the working directory, or the file named by
// CONFIG_PATH (or path, when non-empty). A missing file is not an error: defaults
// and ADVISOR_* environment variables still apply.
func Load(path ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("ADVISOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file := os.Getenv("CONFIG_PATH")
	if len(path) > 0 && path[0] != "" {
		file = path[0]
	}
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
