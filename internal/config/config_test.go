package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"APP_PORT", "LOG_LEVEL", "STORE_DRIVER", "STOCK_PATH", "CUSTOMERS_PATH", "STORE_WATCH",
	"FIREBASE_DATABASE_URL", "FIREBASE_PROJECT_ID", "FIREBASE_CREDENTIALS_PATH", "FIREBASE_POLL_INTERVAL",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "SNAPSHOT_CACHE_TTL",
	"MONGODB_URI", "MONGODB_DB_NAME",
	"GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_REPORT_ID", "GOOGLE_SHEET_REPORT_RANGE",
	"REPORT_CRON_SCHEDULE", "TIMEZONE", "REPORT_DIGEST_ROWS",
	"WHATSAPP_TOKEN", "WHATSAPP_PHONE_NUMBER_ID", "WHATSAPP_BASE_URL", "WHATSAPP_API_VERSION", "WHATSAPP_REPORT_RECIPIENT",
}

// clearEnv blanks every key Load reads; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_MemoryDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "rentals/stock", cfg.Store.StockPath)
	assert.Equal(t, "rentals/customers", cfg.Store.CustomersPath)
	assert.True(t, cfg.Store.Watch)
	assert.Equal(t, 5*time.Second, cfg.Firebase.PollInterval)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "0 20 * * *", cfg.Reporting.CronSchedule)
	assert.Equal(t, 10, cfg.Reporting.DigestRows)
	assert.False(t, cfg.Cache.Enabled())
	assert.False(t, cfg.MongoDB.Enabled())
	assert.False(t, cfg.Sheets.Enabled())
	assert.False(t, cfg.WhatsApp.Enabled())
}

func TestLoad_FirebaseRequiresURL(t *testing.T) {
	clearEnv(t)

	_, err := Load(missingEnvFile(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FIREBASE_DATABASE_URL")

	t.Setenv("FIREBASE_DATABASE_URL", "https://example-default-rtdb.firebaseio.com")
	t.Setenv("FIREBASE_POLL_INTERVAL", "2s")
	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, StoreDriverFirebase, cfg.Store.Driver)
	assert.Equal(t, 2*time.Second, cfg.Firebase.PollInterval)
}

func TestLoad_FromEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides variables that are already set, even if empty.
	for _, key := range []string{"STORE_DRIVER", "APP_PORT", "REDIS_ADDR"} {
		require.NoError(t, os.Unsetenv(key))
	}

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("STORE_DRIVER=memory\nAPP_PORT=9090\nREDIS_ADDR=localhost:6379\n"), 0o600))
	t.Cleanup(func() {
		for _, key := range []string{"STORE_DRIVER", "APP_PORT", "REDIS_ADDR"} {
			_ = os.Unsetenv(key)
		}
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Cache.Enabled())
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"driver":     {"STORE_DRIVER": "postgres"},
		"duration":   {"STORE_DRIVER": "memory", "SNAPSHOT_CACHE_TTL": "soon"},
		"int":        {"STORE_DRIVER": "memory", "REDIS_DB": "zero"},
		"bool":       {"STORE_DRIVER": "memory", "STORE_WATCH": "maybe"},
		"timezone":   {"STORE_DRIVER": "memory", "TIMEZONE": "Mars/Olympus"},
		"sheets":     {"STORE_DRIVER": "memory", "GOOGLE_SHEET_REPORT_ID": "sheet-id"},
		"whatsapp":   {"STORE_DRIVER": "memory", "WHATSAPP_TOKEN": "token"},
		"recipients": {"STORE_DRIVER": "memory", "WHATSAPP_TOKEN": "token", "WHATSAPP_PHONE_NUMBER_ID": "123"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load(missingEnvFile(t))
			assert.Error(t, err)
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	var cfg *Config
	assert.Error(t, cfg.Validate())
}
