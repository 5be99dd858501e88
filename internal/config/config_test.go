package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setDatabaseEnv(t *testing.T) {
	t.Setenv("DATABASE_HOST", "localhost")
	t.Setenv("DATABASE_USER", "planner")
	t.Setenv("DATABASE_DBNAME", "studyplan")
}

func TestLoad_DefaultsAndEnv(t *testing.T) {
	setDatabaseEnv(t)
	t.Setenv("REDIS_ADDRS", "redis-1:6379, redis-2:6379")
	t.Setenv("PLANNER_WEEK_CACHE_TTL", "30m")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, []string{"redis-1:6379", "redis-2:6379"}, cfg.Redis.Addrs)
	assert.Equal(t, 6.0, cfg.Planner.DefaultDailyHours)
	assert.Equal(t, 1.0, cfg.Planner.MinDailyHours)
	assert.Equal(t, 14.0, cfg.Planner.MaxDailyHours)
	assert.Equal(t, "jee-main", cfg.Planner.DefaultTargetExam)
	assert.Equal(t, 30*time.Minute, cfg.Planner.WeekCacheTTL)
	assert.Equal(t, "Asia/Kolkata", cfg.Planner.Timezone)
	assert.False(t, cfg.Digest.Enabled)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
}

func TestLoad_FromFile(t *testing.T) {
	setDatabaseEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: "9090"
planner:
  default_daily_hours: 4.5
  default_target_exam: neet
log:
  mode: production
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 4.5, cfg.Planner.DefaultDailyHours)
	assert.Equal(t, "neet", cfg.Planner.DefaultTargetExam)
	assert.Equal(t, "production", cfg.Log.Mode)
}

func TestLoad_MissingDatabase(t *testing.T) {
	t.Setenv("DATABASE_HOST", "")
	t.Setenv("DATABASE_USER", "")
	t.Setenv("DATABASE_DBNAME", "")

	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Database: DatabaseConfig{Host: "h", User: "u", DBName: "d"},
			Planner: PlannerConfig{
				DefaultDailyHours: 6,
				MinDailyHours:     1,
				MaxDailyHours:     14,
				DefaultTargetExam: "jee-main",
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"валидная конфигурация", func(c *Config) {}, false},
		{"часы по умолчанию выше максимума", func(c *Config) { c.Planner.DefaultDailyHours = 15 }, true},
		{"min больше max", func(c *Config) { c.Planner.MinDailyHours = 10; c.Planner.MaxDailyHours = 5 }, true},
		{"неизвестный экзамен", func(c *Config) { c.Planner.DefaultTargetExam = "gate" }, true},
		{"неизвестный часовой пояс", func(c *Config) { c.Planner.Timezone = "Mars/Olympus" }, true},
		{"digest без ключа", func(c *Config) { c.Digest.Enabled = true; c.Digest.From = "a@b.c" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPlannerConfig_Location(t *testing.T) {
	loc, err := PlannerConfig{}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	loc, err = PlannerConfig{Timezone: "Asia/Kolkata"}.Location()
	require.NoError(t, err)
	_, offset := time.Date(2025, 1, 6, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, 5*3600+30*60, offset)
}

func TestPostgresURL(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "plan", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/plan?sslmode=disable", d.PostgresURL())
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=plan sslmode=disable", d.PostgresConnectionString())
}
