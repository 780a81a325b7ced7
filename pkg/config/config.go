package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Admin         AdminConfig
	Password      PasswordConfig
	SpinRateLimit SpinRateLimitConfig
	Spin          SpinConfig
	Cron          CronConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"PRIZEWHEEL_APP_ENV" required:"true"`
	Port         string `envconfig:"PRIZEWHEEL_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PRIZEWHEEL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PRIZEWHEEL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PRIZEWHEEL_DB_DSN"`
	Driver string `envconfig:"PRIZEWHEEL_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"PRIZEWHEEL_DB_HOST"`
	Port     int    `envconfig:"PRIZEWHEEL_DB_PORT" default:"5432"`
	User     string `envconfig:"PRIZEWHEEL_DB_USER"`
	Password string `envconfig:"PRIZEWHEEL_DB_PASSWORD"`
	Name     string `envconfig:"PRIZEWHEEL_DB_NAME"`
	SSLMode  string `envconfig:"PRIZEWHEEL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PRIZEWHEEL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PRIZEWHEEL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PRIZEWHEEL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PRIZEWHEEL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	LockTimeout     time.Duration `envconfig:"PRIZEWHEEL_DB_LOCK_TIMEOUT" default:"3s"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PRIZEWHEEL_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PRIZEWHEEL_REDIS_ADDR"`
	Password     string        `envconfig:"PRIZEWHEEL_REDIS_PASSWORD"`
	DB           int           `envconfig:"PRIZEWHEEL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PRIZEWHEEL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PRIZEWHEEL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PRIZEWHEEL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PRIZEWHEEL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PRIZEWHEEL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PRIZEWHEEL_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PRIZEWHEEL_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PRIZEWHEEL_JWT_EXPIRATION_MINUTES" default:"480"`
}

// AdminConfig carries the demo dashboard credential. There is no user table;
// the dashboard is operated by campaign staff with a single shared login.
type AdminConfig struct {
	Email        string `envconfig:"PRIZEWHEEL_ADMIN_EMAIL" required:"true"`
	PasswordHash string `envconfig:"PRIZEWHEEL_ADMIN_PASSWORD_HASH" required:"true"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PRIZEWHEEL_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PRIZEWHEEL_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PRIZEWHEEL_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PRIZEWHEEL_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PRIZEWHEEL_ARGON_KEY_LEN" default:"32"`
}

type SpinRateLimitConfig struct {
	Window     time.Duration `envconfig:"PRIZEWHEEL_SPIN_RATE_LIMIT_WINDOW" default:"1m"`
	IPLimit    int           `envconfig:"PRIZEWHEEL_SPIN_RATE_LIMIT_IP_LIMIT" default:"30"`
	EmailLimit int           `envconfig:"PRIZEWHEEL_SPIN_RATE_LIMIT_EMAIL_LIMIT" default:"5"`
}

type SpinConfig struct {
	// ReserveAttempts bounds retries of the reservation transaction on
	// transient datastore errors. Business rejections are never retried.
	ReserveAttempts int           `envconfig:"PRIZEWHEEL_SPIN_RESERVE_ATTEMPTS" default:"3"`
	ReserveBackoff  time.Duration `envconfig:"PRIZEWHEEL_SPIN_RESERVE_BACKOFF" default:"50ms"`
	IdempotencyTTL  time.Duration `envconfig:"PRIZEWHEEL_SPIN_IDEMPOTENCY_TTL" default:"24h"`
}

type CronConfig struct {
	Interval          time.Duration `envconfig:"PRIZEWHEEL_CRON_INTERVAL" default:"1h"`
	LockTTL           time.Duration `envconfig:"PRIZEWHEEL_CRON_LOCK_TTL" default:"55m"`
	LowStockThreshold int           `envconfig:"PRIZEWHEEL_LOW_STOCK_THRESHOLD" default:"5"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PRIZEWHEEL_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
