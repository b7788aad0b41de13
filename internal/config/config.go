package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/EVCharge-ReservationService/pkg/sqlbuilder"
	"github.com/m04kA/EVCharge-ReservationService/pkg/types"
)

// ErrInvalidConfig возвращается, когда конфигурация не проходит валидацию
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Database     DatabaseConfig     `toml:"database"`
	Logs         LogsConfig         `toml:"logs"`
	Metrics      MetricsConfig      `toml:"metrics"`
	Business     BusinessConfig     `toml:"business"`
	Sessions     SessionsConfig     `toml:"sessions"`
	Admin        AdminConfig        `toml:"admin"`
	PlateService PlateServiceConfig `toml:"plate_service"`
	RateLimit    RateLimitConfig    `toml:"rate_limit"`
	Redis        RedisConfig        `toml:"redis"`
	Tracing      TracingConfig      `toml:"tracing"`
	Kafka        KafkaConfig        `toml:"kafka"`
	CORS         CORSConfig         `toml:"cors"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	Driver          string `toml:"driver"` // postgres | sqlite
	Path            string `toml:"path"`   // файл sqlite
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	DSNOverride     string `toml:"dsn"`
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type BusinessConfig struct {
	Open     string `toml:"open"`  // HH:MM
	Close    string `toml:"close"` // HH:MM
	Timezone string `toml:"timezone"`
}

type SessionsConfig struct {
	AutoSeed  bool `toml:"auto_seed"`
	SeedCount int  `toml:"seed_count"`
}

type AdminConfig struct {
	Email    string `toml:"email"`
	Password string `toml:"password"`
	Token    string `toml:"token"`
}

type PlateServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

type RateLimitConfig struct {
	Enabled  bool    `toml:"enabled"`
	Backend  string  `toml:"backend"` // memory | redis
	RPS      float64 `toml:"rps"`
	Burst    int     `toml:"burst"`
	Limit    int     `toml:"limit"`  // запросов на окно (redis)
	Window   int     `toml:"window"` // секунды (redis)
	FailOpen bool    `toml:"fail_open"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type TracingConfig struct {
	Enabled     bool    `toml:"enabled"`
	Endpoint    string  `toml:"endpoint"`
	SampleRatio float64 `toml:"sample_ratio"`
}

type KafkaConfig struct {
	Enabled bool   `toml:"enabled"`
	Brokers string `toml:"brokers"` // через запятую
	Topic   string `toml:"topic"`
}

type CORSConfig struct {
	Origins []string `toml:"origins"`
}

// Default возвращает конфигурацию по умолчанию (демо режим на sqlite)
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8000,
			ReadTimeout:     15,
			WriteTimeout:    75,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Driver:          "sqlite",
			Path:            "data/ev_charging.db",
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "evcharge-reservation-service",
		},
		Business: BusinessConfig{
			Open:     "09:00",
			Close:    "22:00",
			Timezone: "Asia/Seoul",
		},
		Sessions: SessionsConfig{AutoSeed: true, SeedCount: 4},
		Admin: AdminConfig{
			Email:    "admin@demo.dev",
			Password: "admin123",
			Token:    "admin-demo-token",
		},
		PlateService: PlateServiceConfig{
			URL:     "http://localhost:8001/v1/recognize",
			Timeout: 60,
		},
		RateLimit: RateLimitConfig{
			Backend:  "memory",
			RPS:      5,
			Burst:    10,
			Limit:    60,
			Window:   60,
			FailOpen: true,
		},
		Redis:   RedisConfig{Addr: "localhost:6379"},
		Tracing: TracingConfig{Endpoint: "localhost:4317", SampleRatio: 1},
		Kafka:   KafkaConfig{Topic: "reservations"},
	}
}

// Load читает config.toml поверх значений по умолчанию, затем .env и переменные окружения.
// Отсутствующий файл конфигурации не считается ошибкой
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to decode %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}

	// .env опционален
	_ = godotenv.Load()

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Database.Driver, "DATABASE_DRIVER")
	setString(&c.Database.DSNOverride, "DATABASE_DSN")
	setString(&c.Database.Path, "DATABASE_PATH")
	setString(&c.Database.Host, "DB_HOST")
	setInt(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.DBName, "DB_NAME")

	setInt(&c.Server.HTTPPort, "HTTP_PORT")
	setString(&c.Logs.Level, "LOG_LEVEL")
	setString(&c.Logs.File, "LOG_FILE")

	setString(&c.Business.Timezone, "BUSINESS_TIMEZONE")
	setBool(&c.Sessions.AutoSeed, "AUTO_SEED_SESSIONS")

	setString(&c.Admin.Email, "ADMIN_EMAIL")
	setString(&c.Admin.Password, "ADMIN_PASSWORD")
	setString(&c.Admin.Token, "ADMIN_TOKEN")

	setString(&c.PlateService.URL, "PLATE_SERVICE_URL")

	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")

	setBool(&c.Tracing.Enabled, "OTEL_ENABLED")
	setString(&c.Tracing.Endpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")

	setString(&c.Kafka.Brokers, "KAFKA_BROKERS")
	if c.Kafka.Brokers != "" && os.Getenv("KAFKA_BROKERS") != "" {
		c.Kafka.Enabled = true
	}

	if v := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); v != "" {
		c.CORS.Origins = splitList(v)
	}
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	dialect, err := sqlbuilder.ParseDialect(c.Database.Driver)
	if err != nil {
		return fmt.Errorf("%w: database.driver: %v", ErrInvalidConfig, err)
	}
	if dialect == sqlbuilder.SQLite && c.Database.Path == "" && c.Database.DSNOverride == "" {
		return fmt.Errorf("%w: database.path is required for sqlite", ErrInvalidConfig)
	}
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port out of range: %d", ErrInvalidConfig, c.Server.HTTPPort)
	}

	open, err := types.NewTimeStringFromString(c.Business.Open)
	if err != nil {
		return fmt.Errorf("%w: business.open: %v", ErrInvalidConfig, err)
	}
	closeTime, err := types.NewTimeStringFromString(c.Business.Close)
	if err != nil {
		return fmt.Errorf("%w: business.close: %v", ErrInvalidConfig, err)
	}
	if !open.IsBefore(closeTime) {
		return fmt.Errorf("%w: business.open must be before business.close", ErrInvalidConfig)
	}
	if _, err := time.LoadLocation(c.Business.Timezone); err != nil {
		return fmt.Errorf("%w: business.timezone: %v", ErrInvalidConfig, err)
	}

	if c.Sessions.SeedCount < 0 {
		return fmt.Errorf("%w: sessions.seed_count must be non-negative", ErrInvalidConfig)
	}
	if c.Admin.Token == "" {
		return fmt.Errorf("%w: admin.token is required", ErrInvalidConfig)
	}

	switch c.RateLimit.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("%w: rate_limit.backend must be memory or redis", ErrInvalidConfig)
	}

	return nil
}

// Dialect возвращает диалект хранилища (конфигурация уже провалидирована)
func (d DatabaseConfig) Dialect() sqlbuilder.Dialect {
	dialect, _ := sqlbuilder.ParseDialect(d.Driver)
	return dialect
}

// DSN возвращает строку подключения для выбранного драйвера
func (d DatabaseConfig) DSN() string {
	if d.DSNOverride != "" {
		return d.DSNOverride
	}
	if d.Dialect() == sqlbuilder.SQLite {
		return "file:" + d.Path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// Location возвращает часовой пояс бизнеса
func (b BusinessConfig) Location() *time.Location {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SessionNames имена сессий для первичного заполнения
func (s SessionsConfig) SessionNames() []string {
	names := make([]string, 0, s.SeedCount)
	for i := 1; i <= s.SeedCount; i++ {
		names = append(names, fmt.Sprintf("Session %d", i))
	}
	return names
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		*dst = true
	case "0", "false", "no", "off":
		*dst = false
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
