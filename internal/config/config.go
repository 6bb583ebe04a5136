package config

import (
	"os"
	"strconv"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig    `json:"server" mapstructure:"server"`
	Database    DatabaseConfig  `json:"database" mapstructure:"database"`
	Inference   InferenceConfig `json:"inference" mapstructure:"inference"`
	CORSOrigins string          `json:"cors_origins" mapstructure:"cors_origins"`
}

type ServerConfig struct {
	Host string `json:"host" mapstructure:"host"`
	Port int    `json:"port" mapstructure:"port"`
}

type DatabaseConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     int    `json:"port" mapstructure:"port"`
	User     string `json:"user" mapstructure:"user"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
	SSLMode  string `json:"sslmode" mapstructure:"sslmode"`
}

// InferenceConfig points at an OpenAI-compatible endpoint. BaseURL includes
// the version prefix; the client appends /chat/completions.
type InferenceConfig struct {
	BaseURL        string `json:"base_url" mapstructure:"base_url"`
	APIKey         string `json:"api_key" mapstructure:"api_key"`
	Model          string `json:"model" mapstructure:"model"`
	TimeoutSeconds int    `json:"timeout_seconds" mapstructure:"timeout_seconds"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("json")

	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Set defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "chatportal")
	viper.SetDefault("database.database", "chatportal")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("inference.base_url", "http://localhost:11434/v1")
	viper.SetDefault("inference.model", "llama3")
	viper.SetDefault("inference.timeout_seconds", 60)
	viper.SetDefault("cors_origins", "http://localhost:3000,http://localhost:5173")

	if err := viper.ReadInConfig(); err != nil {
		// Defaults plus environment variables cover every setting, so a
		// missing config file is not an error.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	loadEnvOverrides(&cfg)

	return &cfg, nil
}

func loadEnvOverrides(cfg *Config) {
	if port := os.Getenv("CHATPORTAL_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if host := os.Getenv("CHATPORTAL_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if origins := os.Getenv("CHATPORTAL_CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = origins
	}

	// Database overrides
	if dbHost := os.Getenv("POSTGRES_HOST"); dbHost != "" {
		cfg.Database.Host = dbHost
	}
	if dbPort := os.Getenv("POSTGRES_PORT"); dbPort != "" {
		if port, err := strconv.Atoi(dbPort); err == nil {
			cfg.Database.Port = port
		}
	}
	if dbUser := os.Getenv("POSTGRES_USER"); dbUser != "" {
		cfg.Database.User = dbUser
	}
	if dbPass := os.Getenv("POSTGRES_PASSWORD"); dbPass != "" {
		cfg.Database.Password = dbPass
	}
	if dbName := os.Getenv("POSTGRES_DB"); dbName != "" {
		cfg.Database.Database = dbName
	}

	// Inference overrides
	if baseURL := os.Getenv("INFERENCE_BASE_URL"); baseURL != "" {
		cfg.Inference.BaseURL = baseURL
	}
	if apiKey := os.Getenv("INFERENCE_API_KEY"); apiKey != "" {
		cfg.Inference.APIKey = apiKey
	}
	if model := os.Getenv("INFERENCE_MODEL"); model != "" {
		cfg.Inference.Model = model
	}
}
