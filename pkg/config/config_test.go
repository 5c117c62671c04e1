package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/storefront/pkg/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, "storefront", cfg.ServiceName)
	assert.Equal(t, 3000, cfg.HTTP.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "ecommerce", cfg.Mongo.Database)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Kafka.Enabled())
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 600, cfg.RateLimit.IdleTTL)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
service_name = "shop"

[http]
port = 8081

[mongo]
database = "shop_test"

[redis]
addr = "localhost:6379"

[kafka]
brokers = ["localhost:9092"]
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "shop", cfg.ServiceName)
	assert.Equal(t, "0.0.0.0:8081", cfg.HTTP.Addr())
	assert.Equal(t, "shop_test", cfg.Mongo.Database)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "storefront:chat", cfg.Redis.ChatChannel)
	assert.True(t, cfg.Kafka.Enabled())
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
[http]
port = 8081
`)
	t.Setenv("APP_HTTP_PORT", "9090")
	t.Setenv("APP_MONGO_URI", "mongodb://mongo:27017")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "mongodb://mongo:27017", cfg.Mongo.URI)
}

func TestLoadInvalidFile(t *testing.T) {
	path := writeConfig(t, "this is = = not toml")

	_, err := config.Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{
			ServiceName: "storefront",
			HTTP:        config.HTTPConfig{Port: 3000},
			Mongo:       config.MongoConfig{URI: "mongodb://localhost:27017", Database: "ecommerce"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr string
	}{
		{
			name:   "valid config: ok",
			mutate: func(*config.Config) {},
		},
		{
			name:    "missing service name: error",
			mutate:  func(c *config.Config) { c.ServiceName = "" },
			wantErr: "service_name is required",
		},
		{
			name:    "port out of range: error",
			mutate:  func(c *config.Config) { c.HTTP.Port = 70000 },
			wantErr: "invalid HTTP port: 70000",
		},
		{
			name:    "missing mongo database: error",
			mutate:  func(c *config.Config) { c.Mongo.Database = "" },
			wantErr: "mongo database is required",
		},
		{
			name: "redis ratelimit without redis: error",
			mutate: func(c *config.Config) {
				c.RateLimit = config.RateLimitConfig{Enabled: true, Backend: "redis", QPS: 10}
			},
			wantErr: "redis ratelimit backend requires redis.addr",
		},
		{
			name: "unknown ratelimit backend: error",
			mutate: func(c *config.Config) {
				c.RateLimit = config.RateLimitConfig{Enabled: true, Backend: "memcached", QPS: 10}
			},
			wantErr: "unknown ratelimit backend: memcached",
		},
		{
			name: "local ratelimit with zero qps: error",
			mutate: func(c *config.Config) {
				c.RateLimit = config.RateLimitConfig{Enabled: true, Backend: "local"}
			},
			wantErr: "invalid ratelimit qps: 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "dev", cfg.Environment)
		})
	}
}
