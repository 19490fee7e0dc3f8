package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Domain   string `env:"BACKEND_DOMAIN" envDefault:"localhost"`
	Port     string `env:"BACKEND_PORT" envDefault:"4350"`
	GRPCPort string `env:"GRPC_HEALTH_PORT" envDefault:"50051"`

	DB DB

	JWTSecret    string `env:"JWT_SECRET"`
	JWTExpiresIn Expiry `env:"JWT_EXPIRES_IN" envDefault:"1h"`
	// answer unknown-email logins exactly like bad passwords
	UniformLoginErrors bool `env:"AUTH_UNIFORM_LOGIN_ERRORS" envDefault:"false"`

	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://mypetmanager.xyz"`

	RateLimit RateLimit

	AppointmentTZ string `env:"APPOINTMENT_TZ" envDefault:"Local"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	Otel Otel
}

type DB struct {
	Driver          string        `env:"DB_DRIVER" envDefault:"mysql"`
	Host            string        `env:"DB_HOST" envDefault:"localhost"`
	Port            string        `env:"DB_PORT" envDefault:"3306"`
	User            string        `env:"DB_USER" envDefault:"root"`
	Password        string        `env:"DB_PASSWORD"`
	Name            string        `env:"DB_NAME" envDefault:"mypetmanager"`
	Path            string        `env:"DB_PATH" envDefault:"petmanager.db"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	Migrate         bool          `env:"DB_MIGRATE" envDefault:"true"`
}

type RateLimit struct {
	RPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"5"`
	Burst int     `env:"RATE_LIMIT_BURST" envDefault:"10"`

	// gRPC health calls get their own buckets
	GRPCRPS   float64 `env:"GRPC_RATE_LIMIT_RPS" envDefault:"10"`
	GRPCBurst int     `env:"GRPC_RATE_LIMIT_BURST" envDefault:"20"`

	// key clients on X-Forwarded-For; only behind a proxy that overwrites it
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	// shared fixed window, used instead of the in-process limiter when set
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	Window        time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
	Max           int           `env:"RATE_LIMIT_MAX" envDefault:"60"`
	FailOpen      bool          `env:"RATE_LIMIT_FAIL_OPEN" envDefault:"true"`
}

type Otel struct {
	Enabled     bool    `env:"OTEL_ENABLED" envDefault:"false"`
	Endpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	SampleRatio float64 `env:"OTEL_SAMPLING_RATIO" envDefault:"1"`
}

// Load reads an optional .env file, then the process environment.
func Load(files ...string) (*Config, error) {
	_ = godotenv.Load(files...)
	return FromEnv()
}

func FromEnv() (*Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWTExpiresIn <= 0 {
		return errors.New("JWT_EXPIRES_IN must be positive")
	}
	if err := checkPort("BACKEND_PORT", c.Port); err != nil {
		return err
	}
	if c.GRPCEnabled() {
		if err := checkPort("GRPC_HEALTH_PORT", c.GRPCPort); err != nil {
			return err
		}
	}
	switch c.DB.Driver {
	case "mysql":
		if err := checkPort("DB_PORT", c.DB.Port); err != nil {
			return err
		}
	case "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be mysql or sqlite (got %q)", c.DB.Driver)
	}
	if _, err := time.LoadLocation(c.AppointmentTZ); err != nil {
		return fmt.Errorf("APPOINTMENT_TZ: %w", err)
	}
	if err := c.RateLimit.validate(); err != nil {
		return err
	}
	if c.Otel.SampleRatio < 0 || c.Otel.SampleRatio > 1 {
		return errors.New("OTEL_SAMPLING_RATIO must be within [0,1]")
	}
	return nil
}

func (r RateLimit) validate() error {
	switch {
	case r.RPS <= 0 || r.Burst <= 0:
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	case r.GRPCRPS <= 0 || r.GRPCBurst <= 0:
		return errors.New("GRPC_RATE_LIMIT_RPS and GRPC_RATE_LIMIT_BURST must be positive")
	case r.Max <= 0:
		return errors.New("RATE_LIMIT_MAX must be positive")
	case r.Window <= 0:
		return errors.New("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

// GRPCEnabled is false when GRPC_HEALTH_PORT is "0".
func (c *Config) GRPCEnabled() bool { return c.GRPCPort != "" && c.GRPCPort != "0" }

func (c *Config) Addr() string { return net.JoinHostPort(c.Domain, c.Port) }

// Location returns the zone appointment dates are read in. Validate has
// already checked the name.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.AppointmentTZ)
	if err != nil {
		return time.Local
	}
	return loc
}

func checkPort(key, v string) error {
	p, err := strconv.Atoi(v)
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("%s must be a valid TCP port (got %q)", key, v)
	}
	return nil
}

// Expiry is a token lifetime. It accepts Go durations ("90m"), whole days
// ("7d"), or bare seconds ("3600").
type Expiry time.Duration

func (e *Expiry) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*e = Expiry(time.Duration(n) * time.Second)
		return nil
	}
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.ParseInt(days, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid expiry %q", s)
		}
		*e = Expiry(time.Duration(n) * 24 * time.Hour)
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid expiry %q", s)
	}
	*e = Expiry(d)
	return nil
}

func (e Expiry) Duration() time.Duration { return time.Duration(e) }
