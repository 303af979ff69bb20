package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "LUMINE_DB_DSN"
	EnvDBHost = "LUMINE_DB_HOST"
	EnvDBUser = "LUMINE_DB_USER"
	EnvDBName = "LUMINE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Uploads       UploadsConfig
	GenAI         GenAIConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LUMINE_APP_ENV" required:"true"`
	Port         string `envconfig:"LUMINE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LUMINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LUMINE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LUMINE_DB_DSN"`
	Driver string `envconfig:"LUMINE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LUMINE_DB_HOST"`
	LegacyPort     int    `envconfig:"LUMINE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LUMINE_DB_USER"`
	LegacyPassword string `envconfig:"LUMINE_DB_PASSWORD"`
	LegacyName     string `envconfig:"LUMINE_DB_NAME"`
	LegacySSLMode  string `envconfig:"LUMINE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LUMINE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LUMINE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LUMINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LUMINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LUMINE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"LUMINE_REDIS_ADDR"`
	Password     string        `envconfig:"LUMINE_REDIS_PASSWORD"`
	DB           int           `envconfig:"LUMINE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LUMINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LUMINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LUMINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LUMINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LUMINE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"LUMINE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"LUMINE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"LUMINE_JWT_EXPIRATION_MINUTES" required:"true"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"LUMINE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"LUMINE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"LUMINE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"LUMINE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"LUMINE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"LUMINE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"LUMINE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"LUMINE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"LUMINE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"LUMINE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"LUMINE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"LUMINE_AUTO_MIGRATE" default:"false"`
}

type UploadsConfig struct {
	ReceiptDir string `envconfig:"LUMINE_UPLOAD_RECEIPT_DIR" default:"static/receipts"`
	DesignDir  string `envconfig:"LUMINE_UPLOAD_DESIGN_DIR" default:"static/generated_designs"`
	ProductDir string `envconfig:"LUMINE_UPLOAD_PRODUCT_DIR" default:"static/products"`
	MaxMB      int    `envconfig:"LUMINE_UPLOAD_MAX_MB" default:"10"`
}

type GenAIConfig struct {
	APIKey  string        `envconfig:"LUMINE_GENAI_API_KEY"`
	Model   string        `envconfig:"LUMINE_GENAI_MODEL" default:"gemini-2.0-flash-exp"`
	BaseURL string        `envconfig:"LUMINE_GENAI_BASE_URL" default:"https://generativelanguage.googleapis.com"`
	Timeout time.Duration `envconfig:"LUMINE_GENAI_TIMEOUT" default:"60s"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
