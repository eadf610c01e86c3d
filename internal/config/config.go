package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Canvas   CanvasConfig   `yaml:"canvas"`
	Vault    VaultConfig    `yaml:"vault"`
	Sync     SyncConfig     `yaml:"sync"`
	LogLevel string         `yaml:"log_level"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	JWTSecret       string        `yaml:"jwt_secret"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// RedisConfig is optional. Without an address run locks are held in process.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// RabbitMQConfig is optional. Without a URL finished runs are not published.
type RabbitMQConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
}

type CanvasConfig struct {
	Platform            string        `yaml:"platform"`
	DefaultInstitution  string        `yaml:"default_institution"`
	AllowedHosts        []string      `yaml:"allowed_hosts"`
	CoursesPageSize     int           `yaml:"courses_page_size"`
	AssignmentsPageSize int           `yaml:"assignments_page_size"`
	MaxPages            int           `yaml:"max_pages"`
	Timeout             time.Duration `yaml:"timeout"`
	Retry               RetryConfig   `yaml:"retry"`
}

type RetryConfig struct {
	MaxAttempts    int           `yaml:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
}

// VaultConfig says where the token encryption key comes from. The key is read
// from KeyEnv unless AWSSecretID is set.
type VaultConfig struct {
	KeyEnv      string `yaml:"key_env"`
	AWSSecretID string `yaml:"aws_secret_id"`
	AWSRegion   string `yaml:"aws_region"`
	AWSEndpoint string `yaml:"aws_endpoint"`
}

type SyncConfig struct {
	LockTTL            time.Duration `yaml:"lock_ttl"`
	RunTTL             time.Duration `yaml:"run_ttl"`
	RunTimeout         time.Duration `yaml:"run_timeout"`
	BackgroundInterval time.Duration `yaml:"background_interval"`
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = 2 * time.Minute
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 30 * time.Second
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = "lms_sync"
	}
	if c.RabbitMQ.RoutingKey == "" {
		c.RabbitMQ.RoutingKey = "sync_runs"
	}
	if c.RabbitMQ.QueueName == "" {
		c.RabbitMQ.QueueName = "lms_sync_runs"
	}
	if c.Canvas.Platform == "" {
		c.Canvas.Platform = "canvas"
	}
	if c.Canvas.DefaultInstitution == "" {
		c.Canvas.DefaultInstitution = "QUT"
	}
	if c.Canvas.CoursesPageSize == 0 {
		c.Canvas.CoursesPageSize = 50
	}
	if c.Canvas.AssignmentsPageSize == 0 {
		c.Canvas.AssignmentsPageSize = 100
	}
	if c.Canvas.MaxPages == 0 {
		c.Canvas.MaxPages = 1000
	}
	if c.Canvas.Timeout == 0 {
		c.Canvas.Timeout = 30 * time.Second
	}
	if c.Canvas.Retry.MaxAttempts == 0 {
		c.Canvas.Retry.MaxAttempts = 3
	}
	if c.Canvas.Retry.InitialBackoff == 0 {
		c.Canvas.Retry.InitialBackoff = 1 * time.Second
	}
	if c.Canvas.Retry.MaxBackoff == 0 {
		c.Canvas.Retry.MaxBackoff = 30 * time.Second
	}
	if c.Vault.KeyEnv == "" {
		c.Vault.KeyEnv = "CANVAS_TOKEN_KEY"
	}
	if c.Sync.LockTTL == 0 {
		c.Sync.LockTTL = 15 * time.Minute
	}
	if c.Sync.RunTTL == 0 {
		c.Sync.RunTTL = 10 * time.Minute
	}
	if c.Sync.RunTimeout == 0 {
		c.Sync.RunTimeout = 10 * time.Minute
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.JWTSecret) == "" {
		errs = append(errs, errors.New("server.jwt_secret is required"))
	}
	if len(c.Canvas.AllowedHosts) == 0 {
		errs = append(errs, errors.New("canvas.allowed_hosts must list at least one host"))
	}
	if c.Sync.LockTTL < c.Sync.RunTimeout {
		errs = append(errs, errors.New("sync.lock_ttl must not be shorter than sync.run_timeout"))
	}
	return errors.Join(errs...)
}
