package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит всю конфигурацию приложения
type Config struct {
	AppName string
	Port    string

	API      APIConfig
	Session  SessionConfig
	HTTP     HTTPConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig

	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
}

type APIConfig struct {
	BaseURL         string // hosted backend с объектами
	AuthURL         string // сервис авторизации; пусто = BaseURL
	DefaultPageSize int
	FallbackEnabled bool // показывать демонстрационный объект, если карточка не загрузилась
}

type SessionConfig struct {
	Secret    string
	TTL       time.Duration
	ScrollTTL time.Duration
	// IdleEviction - через сколько неактивная сессия выгружается из памяти
	IdleEviction time.Duration
	// CookieSecure - выставлять Secure у cookie сессии (за HTTPS)
	CookieSecure bool
}

type HTTPConfig struct {
	AllowedOrigins []string
}

type PostgresConfig struct {
	DatabaseURL string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RabbitMQConfig struct {
	URL      string
	Exchange string
}

type StdoutLogConfig struct {
	Level  string
	IsJSON bool
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// LoadConfig загружает конфигурацию из переменных окружения.
// .env файл необязателен: без него используются переменные окружения процесса.
func LoadConfig(envPath ...string) (*Config, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		AppName: getEnv("APP_NAME", "listing-site"),
		Port:    getEnv("PORT", "8080"),
	}

	cfg.API.BaseURL = strings.TrimSpace(os.Getenv("API_BASE_URL"))
	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL environment variable is required")
	}
	cfg.API.AuthURL = getEnv("AUTH_API_URL", "")
	cfg.API.DefaultPageSize = getEnvAsInt("DEFAULT_PAGE_SIZE", 12)
	if cfg.API.DefaultPageSize <= 0 {
		log.Printf("Warning: DEFAULT_PAGE_SIZE must be positive, got %d. Using 12\n", cfg.API.DefaultPageSize)
		cfg.API.DefaultPageSize = 12
	}
	cfg.API.FallbackEnabled = getEnvAsBool("PROPERTY_FALLBACK_ENABLED", true)

	cfg.Session.Secret = getEnv("SESSION_SECRET", "")
	if cfg.Session.Secret == "" {
		log.Println("WARNING: SESSION_SECRET is not set, session cookies will not survive a restart")
	}
	cfg.Session.TTL = time.Duration(getEnvAsInt("SESSION_TTL_HOURS", 24*30)) * time.Hour
	cfg.Session.ScrollTTL = time.Duration(getEnvAsInt("SCROLL_TTL_MINUTES", 30)) * time.Minute
	cfg.Session.IdleEviction = time.Duration(getEnvAsInt("SESSION_IDLE_MINUTES", 60)) * time.Minute
	cfg.Session.CookieSecure = getEnvAsBool("SESSION_COOKIE_SECURE", false)

	cfg.HTTP.AllowedOrigins = getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"})

	cfg.Postgres.DatabaseURL = getEnv("DATABASE_URL", "")

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", 0)

	cfg.RabbitMQ.URL = getEnv("RABBITMQ_URL", "")
	cfg.RabbitMQ.Exchange = getEnv("EVENTS_EXCHANGE", "listing_site_events")

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnv("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnv("STDOUT_LOG_LEVEL", "debug")
	cfg.StdoutLogger.IsJSON = getEnvAsBool("STDOUT_LOG_JSON", false)

	return cfg, nil
}

// getEnv - чтение переменной окружения со значением по умолчанию
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(strings.TrimSpace(valueStr))
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(strings.TrimSpace(valStr))
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

// getEnvAsList - значения через запятую, пустые элементы отбрасываются
func getEnvAsList(key string, defaultValue []string) []string {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(valStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
