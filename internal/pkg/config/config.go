// Package config предоставляет управление конфигурацией приложения
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Server содержит конфигурацию HTTP-сервера
type Server struct {
	Host                   string `json:"host" yaml:"host"`
	Port                   int    `json:"port" yaml:"port"`
	ShutdownTimeoutSeconds int    `json:"shutdown_timeout_seconds" yaml:"shutdown_timeout_seconds"`
}

// TelegramAPI содержит конфигурацию подключения к Telegram API
type TelegramAPI struct {
	APIID       int    `json:"api_id" yaml:"api_id"`
	APIHash     string `json:"api_hash" yaml:"api_hash"`
	PhoneNumber string `json:"phone_number" yaml:"phone_number"`
	SessionFile string `json:"session_file" yaml:"session_file"`
}

// Security содержит конфигурацию авторизации HTTP API
type Security struct {
	APIKey string `json:"api_key" yaml:"api_key"`
}

// Tracking содержит конфигурацию отслеживания ответов
type Tracking struct {
	// WebhookURL — адрес приемника уведомлений. Пустое значение
	// отключает отслеживание целиком.
	WebhookURL string `json:"webhook_url" yaml:"webhook_url"`
	// AllowedChatIDs — необязательный список чатов, для которых
	// классифицируются входящие сообщения. Пустой список означает
	// "все чаты".
	AllowedChatIDs []int64 `json:"allowed_chat_ids" yaml:"allowed_chat_ids"`
	// ExpiryHours — горизонт хранения учетных записей в часах.
	ExpiryHours int `json:"expiry_hours" yaml:"expiry_hours"`
}

// Logging содержит конфигурацию логирования
type Logging struct {
	Level string `json:"level" yaml:"level"` // debug, info, warn, error
}

// Config содержит конфигурацию приложения
type Config struct {
	Server      Server      `json:"server" yaml:"server"`
	TelegramAPI TelegramAPI `json:"telegram_api" yaml:"telegram_api"`
	Security    Security    `json:"security" yaml:"security"`
	Tracking    Tracking    `json:"tracking" yaml:"tracking"`
	Logging     Logging     `json:"logging" yaml:"logging"`
}

// LoadConfig загружает конфигурацию приложения из переменных окружения, .env файла или config.yml
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла, если он существует
	if err := godotenv.Load(); err != nil {
		// Если .env файла не существует, это нормально, мы будем полагаться на переменные окружения или config.yml
	}

	// Попытка загрузки из config.yml сначала
	cfg, err := loadFromYAML("config.yml")
	if err != nil {
		// Если загрузка YAML не удалась, используем переменные окружения
		cfg, err = loadFromEnv()
		if err != nil {
			return nil, fmt.Errorf("не удалось загрузить конфигурацию из env: %w", err)
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

// loadFromYAML загружает конфигурацию из YAML-файла
func loadFromYAML(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать файл конфигурации %s: %w", filename, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("не удалось разобрать YAML конфигурацию: %w", err)
	}

	return &cfg, nil
}

// loadFromEnv загружает конфигурацию из переменных окружения
func loadFromEnv() (*Config, error) {
	apiIDStr := getEnv("API_ID", "")
	apiHash := getEnv("API_HASH", "")
	phoneNumber := getEnv("PHONE_NUMBER", "")
	sessionFile := getEnv("SESSION_FILE", DefaultSessionFile)
	apiKey := getEnv("API_KEY", "")
	webhookURL := getEnv("WEBHOOK_URL", "")
	allowedStr := getEnv("ALLOWED_CHAT_IDS", "")
	expiryStr := getEnv("TRACK_EXPIRY_HOURS", strconv.Itoa(DefaultTrackExpiryHours))
	host := getEnv("SERVER_HOST", DefaultServerHost)
	portStr := getEnv("SERVER_PORT", strconv.Itoa(DefaultServerPort))
	logLevel := getEnv("LOG_LEVEL", DefaultLogLevel)

	if apiIDStr == "" || apiHash == "" || phoneNumber == "" {
		return nil, fmt.Errorf("API_ID, API_HASH и PHONE_NUMBER должны быть установлены в переменных окружения")
	}

	apiID, err := strconv.Atoi(apiIDStr)
	if err != nil {
		return nil, fmt.Errorf("недопустимый API_ID: %w", err)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("недопустимый SERVER_PORT: %w", err)
	}

	expiryHours, err := strconv.Atoi(expiryStr)
	if err != nil {
		return nil, fmt.Errorf("недопустимый TRACK_EXPIRY_HOURS: %w", err)
	}

	allowed, err := parseChatIDList(allowedStr)
	if err != nil {
		return nil, fmt.Errorf("недопустимый ALLOWED_CHAT_IDS: %w", err)
	}

	return &Config{
		Server: Server{
			Host: host,
			Port: port,
		},
		TelegramAPI: TelegramAPI{
			APIID:       apiID,
			APIHash:     apiHash,
			PhoneNumber: phoneNumber,
			SessionFile: sessionFile,
		},
		Security: Security{
			APIKey: apiKey,
		},
		Tracking: Tracking{
			WebhookURL:     webhookURL,
			AllowedChatIDs: allowed,
			ExpiryHours:    expiryHours,
		},
		Logging: Logging{
			Level: logLevel,
		},
	}, nil
}

// parseChatIDList разбирает список идентификаторов чатов, разделенных запятыми
func parseChatIDList(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("неверный идентификатор чата %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// applyDefaults заполняет незаданные поля значениями по умолчанию
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultServerHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
	if c.Server.ShutdownTimeoutSeconds == 0 {
		c.Server.ShutdownTimeoutSeconds = int(DefaultShutdownTimeout / time.Second)
	}
	if c.TelegramAPI.SessionFile == "" {
		c.TelegramAPI.SessionFile = DefaultSessionFile
	}
	if c.Tracking.ExpiryHours == 0 {
		c.Tracking.ExpiryHours = DefaultTrackExpiryHours
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
}

// Address возвращает адрес сервера в формате "host:port"
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ShutdownTimeout возвращает предел времени корректной остановки сервера
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutSeconds) * time.Second
}

// ExpiryHorizon возвращает горизонт хранения учетных записей
func (c *Config) ExpiryHorizon() time.Duration {
	return time.Duration(c.Tracking.ExpiryHours) * time.Hour
}

// AllowedChatIDs возвращает разрешенные чаты в виде множества.
// Пустое множество означает отсутствие фильтрации.
func (c *Config) AllowedChatIDs() map[int64]struct{} {
	if len(c.Tracking.AllowedChatIDs) == 0 {
		return nil
	}
	allowed := make(map[int64]struct{}, len(c.Tracking.AllowedChatIDs))
	for _, id := range c.Tracking.AllowedChatIDs {
		allowed[id] = struct{}{}
	}
	return allowed
}

// Validate проверяет, являются ли значения конфигурации допустимыми
func (c *Config) Validate() error {
	if c.TelegramAPI.APIID <= 0 {
		return fmt.Errorf("telegram_api.api_id должно быть положительным целым числом")
	}
	if c.TelegramAPI.APIHash == "" {
		return fmt.Errorf("telegram_api.api_hash не может быть пустым")
	}
	if c.TelegramAPI.PhoneNumber == "" {
		return fmt.Errorf("telegram_api.phone_number не может быть пустым")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port должен быть действительным номером порта (1-65535)")
	}

	if c.Server.ShutdownTimeoutSeconds <= 0 {
		return fmt.Errorf("server.shutdown_timeout_seconds должно быть положительным")
	}

	if c.Tracking.ExpiryHours <= 0 {
		return fmt.Errorf("tracking.expiry_hours должно быть положительным")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// all good
	default:
		return fmt.Errorf("logging.level должен быть одним из: debug, info, warn, error")
	}

	return nil
}

// getEnv извлекает значение переменной окружения или возвращает значение по умолчанию, если она не установлена
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
