package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"

	"github.com/yourusername/studyplan-api/internal/service/planner"
)

// Config хранит все настройки приложения
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Log       LogConfig       `mapstructure:"log"`
	Planner   PlannerConfig   `mapstructure:"planner"`
	Digest    DigestConfig    `mapstructure:"digest"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	ReadTimeout    int      `mapstructure:"read_timeout"`  // секунды
	WriteTimeout   int      `mapstructure:"write_timeout"` // секунды
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host          string `mapstructure:"host"`
	Port          string `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	DBName        string `mapstructure:"dbname"`
	SSLMode       string `mapstructure:"sslmode"`
	MigrationsDir string `mapstructure:"migrations_dir"`
}

// RedisConfig содержит унифицированные настройки подключения к Redis.
// Поддерживает режимы: single, sentinel, cluster.
type RedisConfig struct {
	// Mode: "single", "sentinel", "cluster". По умолчанию "single".
	Mode string `mapstructure:"mode"`

	// Addrs: список адресов (хост:порт). Для 'single' берётся первый.
	Addrs []string `mapstructure:"addrs"`

	// Addr: адрес для режима 'single', если Addrs пуст.
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: только для режима "sentinel"
	MasterName string `mapstructure:"master_name"`

	MaxRetries      int `mapstructure:"max_retries"`
	MinRetryBackoff int `mapstructure:"min_retry_backoff"` // мс
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"` // мс
}

// LogConfig: режим и уровень zap-логгера
type LogConfig struct {
	Mode  string `mapstructure:"mode"`
	Level string `mapstructure:"level"`
}

// PlannerConfig: настройки генерации планов
type PlannerConfig struct {
	DefaultDailyHours float64       `mapstructure:"default_daily_hours"`
	MinDailyHours     float64       `mapstructure:"min_daily_hours"`
	MaxDailyHours     float64       `mapstructure:"max_daily_hours"`
	DefaultTargetExam string        `mapstructure:"default_target_exam"`
	DefaultDaysToExam int           `mapstructure:"default_days_to_exam"`
	WeekCacheTTL      time.Duration `mapstructure:"week_cache_ttl"`

	// Timezone: IANA-зона, в которой считаются дни плана, серии и час приветствия
	Timezone string `mapstructure:"timezone"`
}

// Location загружает часовой пояс планировщика; пустое значение означает UTC
func (p PlannerConfig) Location() (*time.Location, error) {
	if p.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(p.Timezone)
}

// DigestConfig: еженедельная рассылка через Resend
type DigestConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	ResendAPIKey string `mapstructure:"resend_api_key"`
	From         string `mapstructure:"from"`
}

// RateLimitConfig: лимит запросов к API на IP
type RateLimitConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxRequests int           `mapstructure:"max_requests"`
	Window      time.Duration `mapstructure:"window"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// PostgresURL: URL-форма DSN для golang-migrate и lib/pq
func (d *DatabaseConfig) PostgresURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

func setDefaults(vip *viper.Viper) {
	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.read_timeout", 15)
	vip.SetDefault("server.write_timeout", 30)
	vip.SetDefault("server.allowed_origins", []string{"*"})

	vip.SetDefault("database.port", "5432")
	vip.SetDefault("database.sslmode", "disable")
	vip.SetDefault("database.migrations_dir", "migrations")

	vip.SetDefault("redis.mode", "single")

	vip.SetDefault("log.mode", "development")
	vip.SetDefault("log.level", "info")

	vip.SetDefault("planner.default_daily_hours", 6.0)
	vip.SetDefault("planner.min_daily_hours", 1.0)
	vip.SetDefault("planner.max_daily_hours", 14.0)
	vip.SetDefault("planner.default_target_exam", planner.DefaultExamID)
	vip.SetDefault("planner.default_days_to_exam", 180)
	vip.SetDefault("planner.week_cache_ttl", "6h")
	vip.SetDefault("planner.timezone", "Asia/Kolkata")

	vip.SetDefault("digest.enabled", false)
	vip.SetDefault("digest.from", "StudyPlan <digest@studyplan.app>")

	vip.SetDefault("ratelimit.enabled", true)
	vip.SetDefault("ratelimit.max_requests", 120)
	vip.SetDefault("ratelimit.window", "1m")
}

func bindEnv(vip *viper.Viper) {
	// Database
	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")
	vip.BindEnv("database.migrations_dir", "DATABASE_MIGRATIONS_DIR")

	// Redis
	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	// Server
	vip.BindEnv("server.port", "SERVER_PORT")
	vip.BindEnv("server.allowed_origins", "SERVER_ALLOWED_ORIGINS")

	// Log
	vip.BindEnv("log.mode", "LOG_MODE")
	vip.BindEnv("log.level", "LOG_LEVEL")

	// Planner
	vip.BindEnv("planner.default_daily_hours", "PLANNER_DEFAULT_DAILY_HOURS")
	vip.BindEnv("planner.min_daily_hours", "PLANNER_MIN_DAILY_HOURS")
	vip.BindEnv("planner.max_daily_hours", "PLANNER_MAX_DAILY_HOURS")
	vip.BindEnv("planner.default_target_exam", "PLANNER_DEFAULT_TARGET_EXAM")
	vip.BindEnv("planner.default_days_to_exam", "PLANNER_DEFAULT_DAYS_TO_EXAM")
	vip.BindEnv("planner.week_cache_ttl", "PLANNER_WEEK_CACHE_TTL")
	vip.BindEnv("planner.timezone", "PLANNER_TIMEZONE")

	// Digest
	vip.BindEnv("digest.enabled", "DIGEST_ENABLED")
	vip.BindEnv("digest.resend_api_key", "RESEND_API_KEY")
	vip.BindEnv("digest.from", "DIGEST_FROM")

	// Rate limit
	vip.BindEnv("ratelimit.enabled", "RATELIMIT_ENABLED")
	vip.BindEnv("ratelimit.max_requests", "RATELIMIT_MAX_REQUESTS")
	vip.BindEnv("ratelimit.window", "RATELIMIT_WINDOW")
}

// Load загружает конфигурацию: значения по умолчанию, затем файл (если есть), затем env
func Load(configPath string) (*Config, error) {
	vip := viper.New()

	setDefaults(vip)
	bindEnv(vip)

	if configPath != "" {
		vip.SetConfigFile(configPath)
		// Отсутствие файла не ошибка: хватает env и значений по умолчанию
		if err := vip.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// REDIS_ADDRS и SERVER_ALLOWED_ORIGINS приходят из env одной строкой через запятую
	cfg.Redis.Addrs = splitList(cfg.Redis.Addrs)
	cfg.Server.AllowedOrigins = splitList(cfg.Server.AllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет обязательные параметры и границы планировщика
func (c *Config) Validate() error {
	if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
		return fmt.Errorf("database configuration (host, dbname, user) is incomplete (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}

	p := c.Planner
	if p.MinDailyHours <= 0 || p.MaxDailyHours < p.MinDailyHours {
		return fmt.Errorf("planner daily hours bounds are invalid: min=%.1f max=%.1f", p.MinDailyHours, p.MaxDailyHours)
	}
	if p.DefaultDailyHours < p.MinDailyHours || p.DefaultDailyHours > p.MaxDailyHours {
		return fmt.Errorf("planner default daily hours %.1f is outside [%.1f, %.1f]", p.DefaultDailyHours, p.MinDailyHours, p.MaxDailyHours)
	}
	if _, ok := planner.ExamConfigFor(p.DefaultTargetExam); !ok {
		return fmt.Errorf("planner default target exam %q is not supported", p.DefaultTargetExam)
	}
	if _, err := p.Location(); err != nil {
		return fmt.Errorf("planner timezone %q is invalid: %w", p.Timezone, err)
	}

	if c.Digest.Enabled && (c.Digest.ResendAPIKey == "" || c.Digest.From == "") {
		return fmt.Errorf("digest is enabled but RESEND_API_KEY or DIGEST_FROM is empty")
	}
	return nil
}

func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
