package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: Server{
			Host:                   "127.0.0.1",
			Port:                   8080,
			ShutdownTimeoutSeconds: 15,
		},
		TelegramAPI: TelegramAPI{
			APIID:       12345,
			APIHash:     "hash",
			PhoneNumber: "+79001234567",
			SessionFile: "tg.session",
		},
		Tracking: Tracking{
			WebhookURL:  "https://example.com/webhook",
			ExpiryHours: 24,
		},
		Logging: Logging{Level: "info"},
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("MissingAPIID", func(t *testing.T) {
		cfg := validConfig()
		cfg.TelegramAPI.APIID = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("MissingAPIHash", func(t *testing.T) {
		cfg := validConfig()
		cfg.TelegramAPI.APIHash = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("BadPort", func(t *testing.T) {
		cfg := validConfig()
		cfg.Server.Port = 70000
		assert.Error(t, cfg.Validate())
	})

	t.Run("BadExpiry", func(t *testing.T) {
		cfg := validConfig()
		cfg.Tracking.ExpiryHours = -1
		assert.Error(t, cfg.Validate())
	})

	t.Run("BadLogLevel", func(t *testing.T) {
		cfg := validConfig()
		cfg.Logging.Level = "verbose"
		assert.Error(t, cfg.Validate())
	})
}

func TestConfigAccessors(t *testing.T) {
	cfg := validConfig()

	assert.Equal(t, "127.0.0.1:8080", cfg.Address())
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout())
	assert.Equal(t, 24*time.Hour, cfg.ExpiryHorizon())
}

func TestAllowedChatIDs(t *testing.T) {
	t.Run("EmptyMeansNoFilter", func(t *testing.T) {
		cfg := validConfig()
		assert.Nil(t, cfg.AllowedChatIDs())
	})

	t.Run("ListBecomesSet", func(t *testing.T) {
		cfg := validConfig()
		cfg.Tracking.AllowedChatIDs = []int64{-100123456, 555}
		allowed := cfg.AllowedChatIDs()
		require.Len(t, allowed, 2)
		assert.Contains(t, allowed, int64(-100123456))
		assert.Contains(t, allowed, int64(555))
	})
}

func TestParseChatIDList(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		ids, err := parseChatIDList("  ")
		require.NoError(t, err)
		assert.Nil(t, ids)
	})

	t.Run("CommaSeparated", func(t *testing.T) {
		ids, err := parseChatIDList("-100123, 555 ,-42")
		require.NoError(t, err)
		assert.Equal(t, []int64{-100123, 555, -42}, ids)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := parseChatIDList("-100123,abc")
		assert.Error(t, err)
	})
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("API_ID", "12345")
	t.Setenv("API_HASH", "hash")
	t.Setenv("PHONE_NUMBER", "+79001234567")
	t.Setenv("API_KEY", "secret")
	t.Setenv("WEBHOOK_URL", "https://example.com/webhook")
	t.Setenv("ALLOWED_CHAT_IDS", "-100123,555")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := loadFromEnv()
	require.NoError(t, err)
	cfg.applyDefaults()

	assert.Equal(t, 12345, cfg.TelegramAPI.APIID)
	assert.Equal(t, "secret", cfg.Security.APIKey)
	assert.Equal(t, "https://example.com/webhook", cfg.Tracking.WebhookURL)
	assert.Equal(t, []int64{-100123, 555}, cfg.Tracking.AllowedChatIDs)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, DefaultTrackExpiryHours, cfg.Tracking.ExpiryHours)
	assert.Equal(t, DefaultSessionFile, cfg.TelegramAPI.SessionFile)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvMissingRequired(t *testing.T) {
	t.Setenv("API_ID", "")
	t.Setenv("API_HASH", "")
	t.Setenv("PHONE_NUMBER", "")

	_, err := loadFromEnv()
	assert.Error(t, err)
}
