package config

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/sangkips/ventapett-pos/pkg/money"
)

type Config struct {
	App       AppConfig
	Upstream  UpstreamConfig
	JWT       JWTConfig
	State     StateConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Cashout   CashoutConfig
	Tax       TaxConfig
	Printer   PrinterConfig
	Store     StoreConfig
	Log       LogConfig
	Metrics   MetricsConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

// UpstreamConfig points at the REST API that owns sales, products and users.
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

// StateConfig selects the durable key-value store: postgres, sqlite, redis or memory.
type StateConfig struct {
	Driver     string
	SQLitePath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

// CashoutConfig drives the reconciliation view.
type CashoutConfig struct {
	BaseFloat int64
	Timezone  string
	// FetchMode is "snapshot" (fetch once, filter locally) or "per-date".
	FetchMode string
	ViewTTL   time.Duration
}

type TaxConfig struct {
	Rate decimal.Decimal
}

type PrinterConfig struct {
	Type      string
	USBPath   string
	Address   string
	CharWidth int
}

// StoreConfig is printed on receipts.
type StoreConfig struct {
	Name    string
	Address string
}

type LogConfig struct {
	Level  string
	Format string
}

type MetricsConfig struct {
	Enabled bool
}

const (
	FetchModeSnapshot = "snapshot"
	FetchModePerDate  = "per-date"
)

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "ventapett-pos")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("UPSTREAM_BASE_URL", "http://localhost:3000/api")
	v.SetDefault("UPSTREAM_TIMEOUT_SECONDS", 15)
	v.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	v.SetDefault("JWT_EXPIRY_HOURS", 12)
	v.SetDefault("STATE_DRIVER", "postgres")
	v.SetDefault("STATE_SQLITE_PATH", "./data/pos-state.db")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "ventapett")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "America/Santiago")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_PREFIX", "pos:")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	v.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_DURATION", 60)
	v.SetDefault("CASHOUT_BASE_FLOAT", 50000)
	v.SetDefault("CASHOUT_TIMEZONE", "America/Santiago")
	v.SetDefault("CASHOUT_FETCH_MODE", FetchModeSnapshot)
	v.SetDefault("CASHOUT_VIEW_TTL_MINUTES", 30)
	v.SetDefault("TAX_RATE", "0.19")
	v.SetDefault("PRINTER_TYPE", "none")
	v.SetDefault("PRINTER_USB_PATH", "/dev/usb/lp0")
	v.SetDefault("PRINTER_ADDRESS", "")
	v.SetDefault("PRINTER_CHAR_WIDTH", 32)
	v.SetDefault("STORE_NAME", "VentaPett")
	v.SetDefault("STORE_ADDRESS", "Av. Matta 4234")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("METRICS_ENABLED", true)
}

// Load reads .env and the environment through the global viper instance.
func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.WithError(err).Warn(".env file not found, using environment variables")
	}

	SetDefaults(viper.GetViper())
	return FromViper(viper.GetViper())
}

// FromViper builds the typed config from an already populated viper.
func FromViper(v *viper.Viper) *Config {
	fetchMode := strings.ToLower(v.GetString("CASHOUT_FETCH_MODE"))
	if fetchMode != FetchModePerDate {
		fetchMode = FetchModeSnapshot
	}

	return &Config{
		App: AppConfig{
			Name:  v.GetString("APP_NAME"),
			Env:   v.GetString("APP_ENV"),
			Port:  v.GetString("APP_PORT"),
			Debug: v.GetBool("APP_DEBUG"),
		},
		Upstream: UpstreamConfig{
			BaseURL: strings.TrimRight(v.GetString("UPSTREAM_BASE_URL"), "/"),
			Timeout: time.Duration(v.GetInt("UPSTREAM_TIMEOUT_SECONDS")) * time.Second,
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(v.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		State: StateConfig{
			Driver:     strings.ToLower(v.GetString("STATE_DRIVER")),
			SQLitePath: v.GetString("STATE_SQLITE_PATH"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
			Timezone: v.GetString("DB_TIMEZONE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			Prefix:   v.GetString("REDIS_PREFIX"),
		},
		CORS: CORSConfig{
			AllowedOrigins: v.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: v.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: v.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: v.GetInt("RATE_LIMIT_DURATION"),
		},
		Cashout: CashoutConfig{
			BaseFloat: v.GetInt64("CASHOUT_BASE_FLOAT"),
			Timezone:  v.GetString("CASHOUT_TIMEZONE"),
			FetchMode: fetchMode,
			ViewTTL:   time.Duration(v.GetInt("CASHOUT_VIEW_TTL_MINUTES")) * time.Minute,
		},
		Tax: TaxConfig{
			Rate: money.ParseRate(v.GetString("TAX_RATE")),
		},
		Printer: PrinterConfig{
			Type:      v.GetString("PRINTER_TYPE"),
			USBPath:   v.GetString("PRINTER_USB_PATH"),
			Address:   v.GetString("PRINTER_ADDRESS"),
			CharWidth: v.GetInt("PRINTER_CHAR_WIDTH"),
		},
		Store: StoreConfig{
			Name:    v.GetString("STORE_NAME"),
			Address: v.GetString("STORE_ADDRESS"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
		},
	}
}

// Location resolves the cashout timezone, falling back to the host zone.
func (c *CashoutConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		logrus.WithError(err).WithField("timezone", c.Timezone).Warn("unknown cashout timezone, using local time")
		return time.Local
	}
	return loc
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
