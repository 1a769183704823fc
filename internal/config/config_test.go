package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:                     "8080",
		Env:                      "development",
		StoreKey:                 "clique-db",
		StoreDriver:              DriverMemory,
		DBHost:                   "localhost",
		DBName:                   "clique",
		DBPassword:               "password",
		DBSSLMode:                "disable",
		DBConnMaxLifetimeMinutes: 30,
		SQLitePath:               "clique.db",
		MongoURI:                 "mongodb://127.0.0.1:27017",
		MongoDatabase:            "clique",
		TracingSamplerRatio:      1,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"defaults", func(*Config) {}, false},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"blank store key", func(c *Config) { c.StoreKey = "  " }, true},
		{"unknown driver", func(c *Config) { c.StoreDriver = "etcd" }, true},
		{"redis without url", func(c *Config) { c.StoreDriver = DriverRedis }, true},
		{"redis with url", func(c *Config) { c.StoreDriver = DriverRedis; c.RedisURL = "redis://localhost:6379" }, false},
		{"sqlite without path", func(c *Config) { c.StoreDriver = DriverSQLite; c.SQLitePath = "" }, true},
		{"postgres in development", func(c *Config) { c.StoreDriver = DriverPostgres }, false},
		{"postgres bad lifetime", func(c *Config) { c.StoreDriver = DriverPostgres; c.DBConnMaxLifetimeMinutes = 0 }, true},
		{"mongo without database", func(c *Config) { c.StoreDriver = DriverMongo; c.MongoDatabase = "" }, true},
		{"sampler out of range", func(c *Config) { c.TracingSamplerRatio = 2 }, true},
		{"memory in production", func(c *Config) { c.Env = "production" }, true},
		{"postgres in production with defaults", func(c *Config) { c.Env = "production"; c.StoreDriver = DriverPostgres }, true},
		{"postgres in production hardened", func(c *Config) {
			c.Env = "prod"
			c.StoreDriver = DriverPostgres
			c.DBPassword = "s3cure-pa55"
			c.DBSSLMode = "verify-full"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_EnvOverridesAndNormalization(t *testing.T) {
	defer viper.Reset()
	t.Chdir(t.TempDir())

	t.Setenv("APP_ENV", "test")
	t.Setenv("STORE_DRIVER", "  SQLite ")
	t.Setenv("SQLITE_PATH", "/tmp/clique-test.db")
	t.Setenv("FEATURE_FLAGS", "exclusive_swipes=on")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "/tmp/clique-test.db", cfg.SQLitePath)
	assert.Equal(t, "exclusive_swipes=on", cfg.FeatureFlags)
	assert.Equal(t, "clique-db", cfg.StoreKey)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
}

func TestLoadConfig_ReadsDotEnv(t *testing.T) {
	defer viper.Reset()
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("STORE_KEY=from-dotenv\n"), 0o600))
	t.Setenv("APP_ENV", "test")
	t.Cleanup(func() { _ = os.Unsetenv("STORE_KEY") })

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.StoreKey)
}

func TestLoadConfig_MissingProfile(t *testing.T) {
	defer viper.Reset()
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "staging")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	c := validConfig()
	assert.Equal(t, "host=localhost port= user= password=password dbname=clique sslmode=disable", c.PostgresDSN())
}
