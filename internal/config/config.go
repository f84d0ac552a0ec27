package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config application settings
type Config struct {
	Server    ServerConfig
	WebSocket WebSocketConfig
	CORS      CORSConfig
	Database  DatabaseConfig
	Store     StoreConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Runware   RunwareConfig
	Gemini    GeminiConfig
	Canvas    CanvasConfig
	Log       LogConfig

	// EnvFileLoaded whether a .env file was found
	EnvFileLoaded bool
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	// GenerateRateLimit requests per minute per client on image/chat endpoints
	GenerateRateLimit int
}

// WebSocketConfig canvas socket settings
type WebSocketConfig struct {
	ReadBufferSize  int
	WriteBufferSize int
	// MaxMessageSize largest accepted client frame in bytes
	MaxMessageSize int64
}

// CORSConfig CORS settings
type CORSConfig struct {
	AllowOrigins string
	AllowHeaders string
}

// DatabaseConfig SQL settings. Driver is postgres or sqlite.
type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	TimeZone   string
	SQLitePath string
}

// StoreConfig key-value backend selection: db, redis or memory
type StoreConfig struct {
	Backend string
	// Warm preloads every application key into the in-process cache at startup
	Warm bool
}

// RedisConfig Redis settings
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// AuthConfig session token settings
type AuthConfig struct {
	JWTSecret     string
	SessionExpiry time.Duration
	SecureCookie  bool
}

// RunwareConfig image generation vendor settings
type RunwareConfig struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
}

// GeminiConfig chat vendor settings
type GeminiConfig struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
}

// CanvasConfig initial canvas bounds for new sessions
type CanvasConfig struct {
	Width  float64
	Height float64
}

// LogConfig logger settings
type LogConfig struct {
	Level       string
	Development bool
}

const insecureSecret = "change-this-secret-in-production"

// Load reads settings from the environment, after an optional .env file
func Load() (*Config, error) {
	envLoaded := godotenv.Load() == nil

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, errors.New("required environment variable JWT_SECRET is not set")
	}
	if jwtSecret == insecureSecret && !getBool("DEV_MODE", false) {
		return nil, errors.New("JWT_SECRET must be changed from the default value")
	}

	cfg := &Config{
		EnvFileLoaded: envLoaded,
		Server: ServerConfig{
			Port:              getEnv("PORT", ":8080"),
			ReadTimeout:       getDuration("READ_TIMEOUT", 10*time.Second),
			WriteTimeout:      getDuration("WRITE_TIMEOUT", 90*time.Second),
			IdleTimeout:       getDuration("IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout:   getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
			GenerateRateLimit: getInt("GENERATE_RATE_LIMIT", 20),
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  getInt("WS_READ_BUFFER_SIZE", 4*1024),
			WriteBufferSize: getInt("WS_WRITE_BUFFER_SIZE", 16*1024),
			MaxMessageSize:  int64(getInt("WS_MAX_MESSAGE_SIZE", 8*1024*1024)),
		},
		CORS: CORSConfig{
			AllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
			AllowHeaders: getEnv("CORS_ALLOW_HEADERS", "Origin, Content-Type, Accept, Authorization"),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			User:       getEnv("DB_USER", "postgres"),
			Password:   getEnv("DB_PASSWORD", ""),
			Name:       getEnv("DB_NAME", "surana"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			TimeZone:   getEnv("DB_TIMEZONE", "UTC"),
			SQLitePath: getEnv("SQLITE_PATH", "surana.db"),
		},
		Store: StoreConfig{
			Backend: strings.ToLower(getEnv("STORE_BACKEND", "db")),
			Warm:    getBool("STORE_WARM", true),
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "localhost:6379"),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getInt("REDIS_DB", 0),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "surana:"),
		},
		Auth: AuthConfig{
			JWTSecret:     jwtSecret,
			SessionExpiry: getDuration("SESSION_EXPIRY", 30*24*time.Hour),
			SecureCookie:  getBool("SECURE_COOKIE", false),
		},
		Runware: RunwareConfig{
			BaseURL: getEnv("RUNWARE_BASE_URL", "https://api.runware.ai"),
			Model:   getEnv("RUNWARE_MODEL", "runware:100@1"),
			APIKey:  getEnv("RUNWARE_API_KEY", ""),
			Timeout: getDuration("RUNWARE_TIMEOUT", 60*time.Second),
		},
		Gemini: GeminiConfig{
			BaseURL: getEnv("GEMINI_BASE_URL", ""),
			Model:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			Timeout: getDuration("GEMINI_TIMEOUT", 30*time.Second),
		},
		Canvas: CanvasConfig{
			Width:  getFloat("CANVAS_WIDTH", 600),
			Height: getFloat("CANVAS_HEIGHT", 600),
		},
		Log: LogConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getBool("DEV_MODE", false),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want postgres or sqlite)", c.Database.Driver)
	}
	switch c.Store.Backend {
	case "db", "redis", "memory":
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q (want db, redis or memory)", c.Store.Backend)
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas size must be positive, got %vx%v", c.Canvas.Width, c.Canvas.Height)
	}
	return nil
}

// getEnv reads a variable with a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getInt reads an integer variable
func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getFloat reads a float variable
func getFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getBool reads a boolean variable
func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

// getDuration reads a duration; bare numbers are seconds
func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if !strings.ContainsAny(value, "smh") {
			if secs, err := strconv.Atoi(value); err == nil {
				return time.Duration(secs) * time.Second
			}
		}
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
