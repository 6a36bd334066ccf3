package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timeouts, grace periods, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server      ServerConfig
	DB          DBConfig
	CORS        CORSConfig
	Log         LogConfig
	JWT         JWTConfig
	Reservation ReservationConfig
	Sweeper     SweeperConfig
	Gateway     GatewayConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

type JWTConfig struct {
	Secret string `envconfig:"JWT_SECRET" required:"true"`
}

// ReservationConfig carries the lifecycle timing knobs. The hold window and
// grace periods deliberately live here rather than as constants: operators
// tune them per site.
type ReservationConfig struct {
	// HoldWindow is how long a pending reservation keeps its slot before
	// automatic expiry.
	HoldWindow time.Duration `envconfig:"RESERVATION_HOLD_WINDOW" default:"10m"`
	// AsyncSettlementGrace replaces HoldWindow for payment methods that
	// settle out of band (bank transfer, on-site, courtesy).
	AsyncSettlementGrace time.Duration `envconfig:"RESERVATION_ASYNC_SETTLEMENT_GRACE" default:"24h"`
	// CheckInTolerance is the allowed early margin before start time.
	CheckInTolerance time.Duration `envconfig:"RESERVATION_CHECKIN_TOLERANCE" default:"30m"`
	// NoShowGrace is how long after end time a reservation without check-in
	// waits before being marked a no-show.
	NoShowGrace time.Duration `envconfig:"RESERVATION_NO_SHOW_GRACE" default:"15m"`
}

type SweeperConfig struct {
	Interval      time.Duration `envconfig:"SWEEPER_INTERVAL" default:"1m"`
	LockTTL       time.Duration `envconfig:"SWEEPER_LOCK_TTL" default:"50s"`
	RelayInterval time.Duration `envconfig:"OUTBOX_RELAY_INTERVAL" default:"5s"`
	RelayBatch    int           `envconfig:"OUTBOX_RELAY_BATCH" default:"100"`
}

type GatewayConfig struct {
	WebhookSecret string `envconfig:"GATEWAY_WEBHOOK_SECRET" required:"true"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type KafkaConfig struct {
	Brokers     []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	OutboxTopic string   `envconfig:"KAFKA_OUTBOX_TOPIC" default:"courtside.events"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433",
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
		},
		Log: LogConfig{
			Level:      "error",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret: "test-secret",
		},
		Reservation: ReservationConfig{
			HoldWindow:           10 * time.Minute,
			AsyncSettlementGrace: 24 * time.Hour,
			CheckInTolerance:     30 * time.Minute,
			NoShowGrace:          15 * time.Minute,
		},
	}
}
