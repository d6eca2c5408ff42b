package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the full runtime configuration, loaded from AURUM_-prefixed
// environment variables.
type Config struct {
	App           AppConfig           `envconfig:"APP"`
	DB            DBConfig            `envconfig:"DB"`
	Redis         RedisConfig         `envconfig:"REDIS"`
	JWT           JWTConfig           `envconfig:"JWT"`
	Session       SessionConfig       `envconfig:"SESSION"`
	Password      PasswordConfig      `envconfig:"PASSWORD"`
	AuthRateLimit AuthRateLimitConfig `envconfig:"AUTH_RATE_LIMIT"`
	Features      FeatureFlags        `envconfig:"FEATURES"`
	GCS           GCSConfig           `envconfig:"GCS"`
	Mail          MailConfig          `envconfig:"MAIL"`
	Media         MediaConfig         `envconfig:"MEDIA"`
}

type AppConfig struct {
	Name            string        `envconfig:"NAME" default:"aurum-api"`
	Env             string        `envconfig:"ENV" default:"development"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"PORT" default:"8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	PublicBaseURL   string        `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080"`
	FrontendBaseURL string        `envconfig:"FRONTEND_BASE_URL" default:"http://localhost:3000"`
	CORSOrigins     []string      `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s"`
}

type DBConfig struct {
	Host         string        `envconfig:"HOST" default:"localhost"`
	Port         int           `envconfig:"PORT" default:"5432"`
	User         string        `envconfig:"USER" default:"postgres"`
	Password     string        `envconfig:"PASSWORD" default:""`
	Name         string        `envconfig:"NAME" default:"aurum"`
	SSLMode      string        `envconfig:"SSL_MODE" default:"disable"`
	MaxOpenConns int           `envconfig:"MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns int           `envconfig:"MAX_IDLE_CONNS" default:"5"`
	ConnLifetime time.Duration `envconfig:"CONN_LIFETIME" default:"30m"`
	SQLitePath   string        `envconfig:"SQLITE_PATH" default:"aurum.db"`
}

// DSN builds the postgres connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

type RedisConfig struct {
	URL          string        `envconfig:"URL" default:""`
	Address      string        `envconfig:"ADDRESS" default:"localhost:6379"`
	Password     string        `envconfig:"PASSWORD" default:""`
	DB           int           `envconfig:"DB" default:"0"`
	PoolSize     int           `envconfig:"POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SECRET" required:"true"`
	Issuer            string `envconfig:"ISSUER" default:"aurum-api"`
	ExpirationMinutes int    `envconfig:"EXPIRATION_MINUTES" default:"10080"`
}

// TTL converts the configured minutes into a duration.
func (c JWTConfig) TTL() time.Duration {
	return time.Duration(c.ExpirationMinutes) * time.Minute
}

type SessionConfig struct {
	CookieName   string        `envconfig:"COOKIE_NAME" default:"aurum_session"`
	TTL          time.Duration `envconfig:"TTL" default:"168h"`
	CookieSecure bool          `envconfig:"COOKIE_SECURE" default:"false"`
	CookieDomain string        `envconfig:"COOKIE_DOMAIN" default:""`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ARGON_KEY_LEN" default:"32"`
	MinLength        int `envconfig:"MIN_LENGTH" default:"6"`
}

type AuthRateLimitConfig struct {
	Enabled     bool          `envconfig:"ENABLED" default:"true"`
	MaxAttempts int           `envconfig:"MAX_ATTEMPTS" default:"10"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

type FeatureFlags struct {
	UseSQLite   bool `envconfig:"USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"AUTO_MIGRATE" default:"false"`
}

type GCSConfig struct {
	Bucket            string `envconfig:"BUCKET" default:""`
	CredentialsJSON   string `envconfig:"CREDENTIALS_JSON" default:""`
	PublicHost        string `envconfig:"PUBLIC_HOST" default:"https://storage.googleapis.com"`
	ObjectPrefix      string `envconfig:"OBJECT_PREFIX" default:"media"`
	InsecureHTTPLocal bool   `envconfig:"INSECURE_HTTP_LOCAL" default:"false"`
}

type MailConfig struct {
	Enabled     bool   `envconfig:"ENABLED" default:"true"`
	ResendKey   string `envconfig:"RESEND_KEY" default:""`
	FromAddress string `envconfig:"FROM_ADDRESS" default:"Aurum Joyería <no-reply@aurumjoyeria.com>"`
	APIBaseURL  string `envconfig:"API_BASE_URL" default:"https://api.resend.com"`
}

type MediaConfig struct {
	MaxUploadBytes int64 `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`
	MaxDimensionPx int   `envconfig:"MAX_DIMENSION_PX" default:"1600"`
	JPEGQuality    int   `envconfig:"JPEG_QUALITY" default:"85"`
}

// Load reads a .env file when present, then populates Config from the
// environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("AURUM", &cfg); err != nil {
		return nil, fmt.Errorf("process env config: %w", err)
	}
	return &cfg, nil
}

// IsProduction reports whether the app runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// IsDev reports whether the app runs in the development environment.
func (c AppConfig) IsDev() bool {
	return c.Env == "development"
}
