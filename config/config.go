package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Logger    LoggerConfig
	Mail      MailConfig
	Scheduler SchedulerConfig
	Upload    UploadConfig
	Seed      SeedConfig
}

type AppConfig struct {
	Env        string
	Port       string
	MainRoutes string
	NodeID     int64
}

type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
	Debug           bool
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether an SMTP server is configured.
func (m MailConfig) Enabled() bool {
	return m.Host != ""
}

type SchedulerConfig struct {
	SessionSweepSpec   string
	SessionIdleTimeout time.Duration
}

type UploadConfig struct {
	ColumnAliasesFile string
	MaxFileSize       int64
}

type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
	WarehouseCode string
}

// LoadConfig membaca file .env dan environment variable.
// An empty envFile loads ./.env when it exists.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Println("Warning: .env file not readable, using system environment variables:", err)
	}

	cfg := &Config{
		App: AppConfig{
			Env:        getEnv("APP_ENV", "production"),
			Port:       getEnv("APP_PORT", "9000"),
			MainRoutes: getEnv("MAIN_ROUTES", "/api"),
			NodeID:     int64(getEnvAsInt("SNOWFLAKE_NODE", 1)),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "postgres"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "warehouse_admin"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: time.Duration(getEnvAsInt("DB_CONN_MAX_LIFETIME", 300)) * time.Second,
			AutoMigrate:     getEnvAsBool("DB_AUTO_MIGRATE", true),
			Debug:           getEnvAsBool("DB_DEBUG", false),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", ""),
			Expiration: time.Duration(getEnvAsInt("JWT_EXPIRATION", 86400)) * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("ALLOWED_ORIGINS", []string{"http://127.0.0.1:3000", "http://localhost:3000"}),
		},
		Logger: LoggerConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "json"),
		},
		Mail: MailConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "no-reply@warehouse.local"),
		},
		Scheduler: SchedulerConfig{
			SessionSweepSpec:   getEnv("LOG_SESSION_SWEEP", "@every 5m"),
			SessionIdleTimeout: time.Duration(getEnvAsInt("LOG_SESSION_IDLE_MINUTES", 30)) * time.Minute,
		},
		Upload: UploadConfig{
			ColumnAliasesFile: getEnv("UPLOAD_COLUMN_ALIASES", ""),
			MaxFileSize:       int64(getEnvAsInt("UPLOAD_MAX_FILE_SIZE", 10*1024*1024)),
		},
		Seed: SeedConfig{
			AdminEmail:    getEnv("SEED_ADMIN_EMAIL", "admin@warehouse.local"),
			AdminPassword: getEnv("SEED_ADMIN_PASSWORD", ""),
			WarehouseCode: getEnv("SEED_WAREHOUSE_CODE", "MAIN"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c.App.Port == "" {
		return errors.New("APP_PORT must be provided")
	}
	if !strings.HasPrefix(c.App.MainRoutes, "/") {
		return fmt.Errorf("MAIN_ROUTES must start with '/': %q", c.App.MainRoutes)
	}
	switch c.Database.Driver {
	case "postgres", "mysql", "mssql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.Database.Driver)
	}
	if c.Database.Name == "" {
		return errors.New("DB_NAME must be provided")
	}
	if len(c.JWT.Secret) < 16 {
		return errors.New("JWT_SECRET must be at least 16 characters")
	}
	if c.JWT.Expiration <= 0 {
		return errors.New("JWT_EXPIRATION must be positive")
	}
	if c.Scheduler.SessionIdleTimeout <= 0 {
		return errors.New("LOG_SESSION_IDLE_MINUTES must be positive")
	}
	return nil
}

// IsDevelopment reports whether APP_ENV selects development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development" || c.App.Env == "dev"
}

// getEnv membaca environment variable dengan nilai default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt membaca environment variable sebagai integer
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool membaca environment variable sebagai boolean
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
