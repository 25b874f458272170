package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Data       DataConfig
	PostgreSQL PostgreSQLConfig
	Reasoning  ReasoningConfig
	Ranking    RankingConfig
	Quote      QuoteConfig
	Logging    LoggingConfig

	// Warnings lists values that failed to parse and were replaced by
	// defaults. They are logged once the logger exists.
	Warnings []EnvWarning
}

// EnvWarning describes an unparsable environment value
type EnvWarning struct {
	Key      string
	Value    string
	Expected string
	Default  string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
	// RequestTimeout bounds a whole document request, in seconds
	RequestTimeout int
}

// DataConfig selects where the record snapshot is loaded from
type DataConfig struct {
	Source         string // "json" or "postgres"
	PropertiesFile string
	ContactsFile   string
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string // full connection string, preferred when set
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
}

// ReasoningConfig holds the OpenAI-compatible reasoning service configuration
type ReasoningConfig struct {
	APIKey      string
	APIBase     string
	ChatModel   string
	Temperature float64
	MaxTokens   int
	Timeout     int // seconds, per attempt
	MaxRetries  int
	RateLimit   float64 // requests per second, 0 disables limiting
	RateBurst   int
	AppURL      string // attribution headers for OpenRouter
	AppTitle    string
	Enabled     bool
}

// RankingConfig holds the preference-fit weights
type RankingConfig struct {
	WeightBudget     float64
	WeightArea       float64
	WeightRooms      float64
	WeightType       float64
	WeightLocation   float64
	LocationRadiusKm float64 // full location score inside this distance
	LocationCutoffKm float64 // zero location score beyond this distance
}

// QuoteConfig holds quote document settings
type QuoteConfig struct {
	CompanyName  string
	Tagline      string
	Currency     string
	ValidityDays int
	FeesFile     string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	env := &envReader{}
	cfg := &Config{
		Server: ServerConfig{
			Port:           env.getInt("SERVER_PORT", 8000),
			Host:           env.get("SERVER_HOST", "0.0.0.0"),
			GinMode:        env.get("GIN_MODE", "release"),
			AllowedOrigins: env.get("CORS_ALLOWED_ORIGINS", "*"),
			RequestTimeout: env.getInt("REQUEST_TIMEOUT", 60),
		},
		Data: DataConfig{
			Source:         strings.ToLower(env.get("DATA_SOURCE", "json")),
			PropertiesFile: env.get("PROPERTIES_FILE", "data/properties.json"),
			ContactsFile:   env.get("CONTACTS_FILE", "data/contacts.json"),
		},
		PostgreSQL: PostgreSQLConfig{
			DSN:                env.get("DATABASE_URL", env.get("PG_DSN", "")),
			Host:               env.get("PG_HOST", "localhost"),
			Port:               env.getInt("PG_PORT", 5432),
			User:               env.get("PG_USER", "postgres"),
			Password:           env.get("PG_PASSWORD", ""),
			Database:           env.get("PG_DATABASE", "dar_ai"),
			SSLMode:            env.get("PG_SSLMODE", "disable"),
			MaxConnections:     env.getInt("PG_MAX_CONNECTIONS", 5),
			MaxIdleConnections: env.getInt("PG_MAX_IDLE_CONNECTIONS", 2),
		},
		Reasoning: ReasoningConfig{
			APIKey:      env.get("OPENROUTER_API_KEY", env.get("OPENAI_API_KEY", "")),
			APIBase:     strings.TrimRight(env.get("OPENAI_API_BASE", "https://openrouter.ai/api/v1"), "/"),
			ChatModel:   env.get("OPENAI_CHAT_MODEL", "openai/gpt-4o-mini"),
			Temperature: env.getFloat("OPENAI_CHAT_TEMPERATURE", 0.7),
			MaxTokens:   env.getInt("OPENAI_CHAT_MAX_TOKENS", 2000),
			Timeout:     env.getInt("OPENAI_TIMEOUT", 15),
			MaxRetries:  env.getInt("OPENAI_MAX_RETRIES", 1),
			RateLimit:   env.getFloat("OPENAI_RATE_LIMIT", 5),
			RateBurst:   env.getInt("OPENAI_RATE_BURST", 5),
			AppURL:      env.get("OPENROUTER_APP_URL", ""),
			AppTitle:    env.get("OPENROUTER_APP_TITLE", "Dar.ai PDF Service"),
		},
		Ranking: RankingConfig{
			WeightBudget:     env.getFloat("RANK_WEIGHT_BUDGET", 0.35),
			WeightArea:       env.getFloat("RANK_WEIGHT_AREA", 0.20),
			WeightRooms:      env.getFloat("RANK_WEIGHT_ROOMS", 0.15),
			WeightType:       env.getFloat("RANK_WEIGHT_TYPE", 0.15),
			WeightLocation:   env.getFloat("RANK_WEIGHT_LOCATION", 0.15),
			LocationRadiusKm: env.getFloat("RANK_LOCATION_RADIUS_KM", 5),
			LocationCutoffKm: env.getFloat("RANK_LOCATION_CUTOFF_KM", 25),
		},
		Quote: QuoteConfig{
			CompanyName:  env.get("QUOTE_COMPANY_NAME", "Dar.ai Real Estate"),
			Tagline:      env.get("QUOTE_TAGLINE", "Your Trusted Partner in Real Estate"),
			Currency:     env.get("QUOTE_CURRENCY", "DZD"),
			ValidityDays: env.getInt("QUOTE_VALIDITY_DAYS", 30),
			FeesFile:     env.get("QUOTE_FEES_FILE", ""),
		},
		Logging: LoggingConfig{
			Level:  env.get("LOG_LEVEL", "info"),
			Format: env.get("LOG_FORMAT", "json"),
		},
	}
	cfg.Reasoning.Enabled = cfg.Reasoning.APIKey != "" && !env.getBool("OPENAI_DISABLED", false)
	cfg.Warnings = env.warnings

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would make the pipeline misbehave
func (c *Config) Validate() error {
	switch c.Data.Source {
	case "json", "postgres":
	default:
		return fmt.Errorf("invalid DATA_SOURCE %q, must be json or postgres", c.Data.Source)
	}

	weights := []float64{
		c.Ranking.WeightBudget,
		c.Ranking.WeightArea,
		c.Ranking.WeightRooms,
		c.Ranking.WeightType,
		c.Ranking.WeightLocation,
	}
	sum := 0.0
	for _, w := range weights {
		if w < 0 {
			return fmt.Errorf("ranking weights must not be negative")
		}
		sum += w
	}
	if sum == 0 {
		return fmt.Errorf("ranking weights must not all be zero")
	}
	if c.Ranking.LocationCutoffKm < c.Ranking.LocationRadiusKm {
		return fmt.Errorf("RANK_LOCATION_CUTOFF_KM must be >= RANK_LOCATION_RADIUS_KM")
	}

	if c.Reasoning.MaxRetries < 0 || c.Reasoning.MaxRetries > 1 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0 or 1")
	}
	if c.Reasoning.Timeout <= 0 {
		return fmt.Errorf("OPENAI_TIMEOUT must be positive")
	}
	if c.Quote.ValidityDays <= 0 {
		return fmt.Errorf("QUOTE_VALIDITY_DAYS must be positive")
	}
	return nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// LogWarnings reports the values Load replaced with defaults
func (c *Config) LogWarnings(logger *zap.Logger) {
	for _, w := range c.Warnings {
		logger.Warn("Invalid environment value, using default",
			zap.String("key", w.Key),
			zap.String("value", w.Value),
			zap.String("expected", w.Expected),
			zap.String("default", w.Default),
		)
	}
}

// envReader reads typed values and remembers the ones it could not parse
type envReader struct {
	warnings []EnvWarning
}

func (e *envReader) get(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func (e *envReader) getInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		e.warn(key, valueStr, "integer", strconv.Itoa(defaultValue))
		return defaultValue
	}
	return value
}

func (e *envReader) getFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		e.warn(key, valueStr, "float", strconv.FormatFloat(defaultValue, 'g', -1, 64))
		return defaultValue
	}
	return value
}

func (e *envReader) getBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		e.warn(key, valueStr, "bool", strconv.FormatBool(defaultValue))
		return defaultValue
	}
	return value
}

func (e *envReader) warn(key, value, expected, defaultValue string) {
	e.warnings = append(e.warnings, EnvWarning{Key: key, Value: value, Expected: expected, Default: defaultValue})
}
