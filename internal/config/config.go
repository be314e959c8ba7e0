package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	Server        ServerConfig        `json:"server"`
	Database      DatabaseConfig      `json:"database"`
	Holidays      HolidaysConfig      `json:"holidays"`
	Notifications NotificationsConfig `json:"notifications"`
	Broadcast     BroadcastConfig     `json:"broadcast"`
	Security      SecurityConfig      `json:"security"`
	Logging       LoggingConfig       `json:"logging"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	SSLMode  string `json:"ssl_mode"`
}

// HolidaysConfig covers the bank holiday feed and its cache.
type HolidaysConfig struct {
	FeedURL     string        `json:"feed_url"`
	Division    string        `json:"division"`
	CacheTTL    time.Duration `json:"cache_ttl"`
	RefreshCron string        `json:"refresh_cron"`
}

// NotificationsConfig covers outbound email.
type NotificationsConfig struct {
	FromAddress string `json:"from_address"`
}

// BroadcastConfig covers the integration event topic.
type BroadcastConfig struct {
	TopicARN string `json:"topic_arn"`
}

// SecurityConfig
type SecurityConfig struct {
	JWTSecret string `json:"jwt_secret"`
}

// LoggingConfig
type LoggingConfig struct {
	Level string `json:"level"`
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Default config
	config := &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    os.Getenv("USER"),
			DBName:  "appeals_back_office",
			SSLMode: "disable",
		},
		Holidays: HolidaysConfig{
			Division:    "england-and-wales",
			CacheTTL:    24 * time.Hour,
			RefreshCron: "0 3 * * *",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}

	// Load from file if exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Override with environment variables
	overrideWithEnv(config)

	return config, nil
}

func overrideWithEnv(config *Config) {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if dbHost := os.Getenv("DATABASE_HOST"); dbHost != "" {
		config.Database.Host = dbHost
	}
	if dbUser := os.Getenv("DATABASE_USER"); dbUser != "" {
		config.Database.User = dbUser
	}
	if dbPass := os.Getenv("DATABASE_PASSWORD"); dbPass != "" {
		config.Database.Password = dbPass
	}
	if dbName := os.Getenv("DATABASE_DBNAME"); dbName != "" {
		config.Database.DBName = dbName
	}
	if feedURL := os.Getenv("HOLIDAY_FEED_URL"); feedURL != "" {
		config.Holidays.FeedURL = feedURL
	}
	if division := os.Getenv("HOLIDAY_DIVISION"); division != "" {
		config.Holidays.Division = division
	}
	if topicARN := os.Getenv("BROADCAST_TOPIC_ARN"); topicARN != "" {
		config.Broadcast.TopicARN = topicARN
	}
	if fromAddress := os.Getenv("NOTIFY_FROM_ADDRESS"); fromAddress != "" {
		config.Notifications.FromAddress = fromAddress
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.Security.JWTSecret = secret
	}
}

// GetDatabaseURL returns the database connection string
func (c *DatabaseConfig) GetDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
