package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0", cfg.ServerHost)
				assert.Equal(t, 8080, cfg.ServerPort)
				assert.Equal(t, "postgres", cfg.DBDriver)
				assert.Equal(t, 25, cfg.DBMaxOpenConnections)
				assert.Equal(t, 5, cfg.DBMaxIdleConnections)
				assert.Equal(t, 5*time.Minute, cfg.DBConnMaxLifetime)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, 24*time.Hour, cfg.KeyRotationInterval)
				assert.Equal(t, 1, cfg.KeyRetentionDepth)
				assert.Equal(t, 24, cfg.TokenDefaultExpiryHours)
				assert.Equal(t, 87600, cfg.TokenMaxExpiryHours)
				assert.Equal(t, 1000, cfg.BulkMaxItems)
				assert.Equal(t, 8, cfg.BulkConcurrency)
				assert.Equal(t, 14400*time.Second, cfg.AuthTokenExpiration)
				assert.Equal(t, "memory", cfg.RateLimitBackend)
				assert.Equal(t, 100, cfg.RateLimitBurst)
				assert.Equal(t, "log", cfg.AuditPublisher)
				assert.Equal(t, "blob", cfg.ScannerSource)
				assert.Equal(t, 60*time.Minute, cfg.ScannerInterval)
			},
		},
		{
			name: "load custom database configuration",
			envVars: map[string]string{
				"DB_DRIVER":               "mysql",
				"DB_CONNECTION_STRING":    "user:password@tcp(localhost:3306)/testdb",
				"DB_MAX_OPEN_CONNECTIONS": "50",
				"DB_MAX_IDLE_CONNECTIONS": "10",
				"DB_CONN_MAX_LIFETIME":    "10",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "mysql", cfg.DBDriver)
				assert.Equal(t, "user:password@tcp(localhost:3306)/testdb", cfg.DBConnectionString)
				assert.Equal(t, 50, cfg.DBMaxOpenConnections)
				assert.Equal(t, 10, cfg.DBMaxIdleConnections)
				assert.Equal(t, 10*time.Minute, cfg.DBConnMaxLifetime)
			},
		},
		{
			name: "load custom key management configuration",
			envVars: map[string]string{
				"MASTER_SECRET":               "c2VjcmV0",
				"KMS_KEY_URI":                 "base64key://abc",
				"KEY_ROTATION_INTERVAL_HOURS": "0",
				"KEY_RETENTION_DEPTH":         "3",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "c2VjcmV0", cfg.MasterSecret)
				assert.Equal(t, "base64key://abc", cfg.KMSKeyURI)
				assert.Equal(t, time.Duration(0), cfg.KeyRotationInterval)
				assert.Equal(t, 3, cfg.KeyRetentionDepth)
			},
		},
		{
			name: "load custom relay and scanner configuration",
			envVars: map[string]string{
				"AUDIT_RELAY_ENABLED":          "true",
				"AUDIT_RELAY_INTERVAL_SECONDS": "2",
				"AUDIT_PUBLISHER":              "kafka",
				"KAFKA_BROKERS":                "k1:9092,k2:9092",
				"SCANNER_ENABLED":              "true",
				"SCANNER_SOURCE":               "minio",
				"SCANNER_MINIO_BUCKETS":        "a,b",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.AuditRelayEnabled)
				assert.Equal(t, 2*time.Second, cfg.AuditRelayInterval)
				assert.Equal(t, "kafka", cfg.AuditPublisher)
				assert.Equal(t, []string{"k1:9092", "k2:9092"}, SplitList(cfg.KafkaBrokers))
				assert.True(t, cfg.ScannerEnabled)
				assert.Equal(t, "minio", cfg.ScannerSource)
				assert.Equal(t, []string{"a", "b"}, SplitList(cfg.ScannerMinioBuckets))
			},
		},
		{
			name: "load custom log level",
			envVars: map[string]string{
				"LOG_LEVEL": "debug",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, "debug", cfg.GetGinMode())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()

			for key, value := range tt.envVars {
				err := os.Setenv(key, value)
				require.NoError(t, err)
			}

			cfg := Load()

			tt.validate(t, cfg)
		})
	}
}

func TestGetGinMode(t *testing.T) {
	for level, expected := range map[string]string{
		"debug": "debug",
		"info":  "release",
		"warn":  "release",
		"":      "release",
	} {
		cfg := &Config{LogLevel: level}
		assert.Equal(t, expected, cfg.GetGinMode(), "level %q", level)
	}
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList(""))
	assert.Nil(t, SplitList(" , ,"))
	assert.Equal(t, []string{"a", "b"}, SplitList(" a ,b,"))
}
