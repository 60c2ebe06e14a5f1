package internal

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

type Config struct {
	Environment string           `mapstructure:"environment" env:"APP_ENV" envDefault:"development"`
	Server      ServerConfig     `mapstructure:"http_server" envPrefix:"HTTP_SERVER_"`
	Database    DatabaseConfig   `mapstructure:"database" envPrefix:"DATABASE_"`
	Storage     StorageConfig    `mapstructure:"storage" envPrefix:"STORAGE_"`
	Redis       RedisConfig      `mapstructure:"redis" envPrefix:"REDIS_"`
	Security    SecurityConfig   `mapstructure:"security" envPrefix:"SECURITY_"`
	Submission  SubmissionConfig `mapstructure:"submission" envPrefix:"SUBMISSION_"`
	Drafting    DraftingConfig   `mapstructure:"drafting" envPrefix:"DRAFTING_"`
	Mail        MailConfig       `mapstructure:"mail" envPrefix:"MAIL_"`
	Logging     LoggingConfig    `mapstructure:"logging" envPrefix:"LOGGING_"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port" env:"PORT" envDefault:"8080" validate:"min=1,max=65535"`
	AllowedOrigins    string        `mapstructure:"allowed_origins" env:"ALLOWED_ORIGINS"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" env:"READ_HEADER_TIMEOUT" envDefault:"5s"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout" env:"READ_TIMEOUT" envDefault:"15s"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout" env:"IDLE_TIMEOUT" envDefault:"60s"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout" env:"WRITE_TIMEOUT" envDefault:"90s"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver" env:"DRIVER" envDefault:"sqlite" validate:"oneof=sqlite postgres"`
	Source          string        `mapstructure:"source" env:"SOURCE" envDefault:"hours-portal.db"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" env:"MAX_OPEN_CONNS" envDefault:"10" validate:"min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" env:"MAX_IDLE_CONNS" envDefault:"5" validate:"min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" env:"CONN_MAX_LIFETIME" envDefault:"30m"`
}

type StorageConfig struct {
	Backend string `mapstructure:"backend" env:"BACKEND" envDefault:"sqlite" validate:"oneof=memory sqlite postgres redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr" env:"ADDR" envDefault:"localhost:6379"`
	Password string `mapstructure:"password" env:"PASSWORD"`
	DB       int    `mapstructure:"db" env:"DB" envDefault:"0"`
}

type SecurityConfig struct {
	JWTSecret           string        `mapstructure:"jwt_secret" env:"JWT_SECRET" validate:"required,min=32"`
	AccessTokenDuration time.Duration `mapstructure:"access_token_duration" env:"ACCESS_TOKEN_DURATION" envDefault:"8h" validate:"min=1m"`
}

// DefaultSinkURL is the spreadsheet script a fresh installation posts to.
const DefaultSinkURL = "https://script.google.com/macros/s/AKfycbzb1pv0hs87aDPtbRmITg67OVb4A7li7nS79rMTw3LCZphL-Un9V5rpv_6_tfOS6bNI/exec"

type SubmissionConfig struct {
	Mailbox            string        `mapstructure:"mailbox" env:"MAILBOX" envDefault:"employeehours@plansvcs.com" validate:"required,email"`
	CompanyLabel       string        `mapstructure:"company_label" env:"COMPANY_LABEL" envDefault:"Card Shield" validate:"required"`
	DefaultEndpointURL string        `mapstructure:"default_endpoint_url" env:"DEFAULT_ENDPOINT_URL" envDefault:"https://script.google.com/macros/s/AKfycbzb1pv0hs87aDPtbRmITg67OVb4A7li7nS79rMTw3LCZphL-Un9V5rpv_6_tfOS6bNI/exec" validate:"omitempty,url"`
	SinkTimeout        time.Duration `mapstructure:"sink_timeout" env:"SINK_TIMEOUT" envDefault:"20s"`
}

type DraftingConfig struct {
	APIKey  string        `mapstructure:"api_key" env:"API_KEY"`
	Model   string        `mapstructure:"model" env:"MODEL" envDefault:"gemini-2.5-flash"`
	Timeout time.Duration `mapstructure:"timeout" env:"TIMEOUT" envDefault:"30s"`
}

type MailConfig struct {
	Enabled     bool          `mapstructure:"enabled" env:"ENABLED"`
	Host        string        `mapstructure:"host" env:"HOST" validate:"required_if=Enabled true"`
	Port        int           `mapstructure:"port" env:"PORT" envDefault:"465"`
	Username    string        `mapstructure:"username" env:"USERNAME"`
	Password    string        `mapstructure:"password" env:"PASSWORD"`
	From        string        `mapstructure:"from" env:"FROM" validate:"omitempty,email"`
	DialTimeout time.Duration `mapstructure:"dial_timeout" env:"DIAL_TIMEOUT" envDefault:"10s"`
	SendTimeout time.Duration `mapstructure:"send_timeout" env:"SEND_TIMEOUT" envDefault:"30s"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" env:"LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" env:"FORMAT" envDefault:"json" validate:"oneof=json text"`
}

// LoadConfigFromEnv builds the configuration purely from environment variables.
func LoadConfigFromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		var aggErr env.AggregateError
		if errors.As(err, &aggErr) && len(aggErr.Errors) > 0 {
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}
	return cfg, nil
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs = append(errs, fmt.Sprintf("%s failed on %q", fe.Namespace(), fe.Tag()))
			}
		} else {
			errs = append(errs, err.Error())
		}
	}

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if c.Storage.UsesSQL() && c.Storage.Backend != c.Database.Driver {
		errs = append(errs, fmt.Sprintf("storage backend %q does not match database driver %q", c.Storage.Backend, c.Database.Driver))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	for _, origin := range c.Origins() {
		if origin == "*" {
			continue
		}
		if _, err := url.Parse(origin); err != nil {
			return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

// Origins splits AllowedOrigins on commas, dropping blanks.
func (c *ServerConfig) Origins() []string {
	var out []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			out = append(out, origin)
		}
	}
	return out
}

func (c *DatabaseConfig) Validate() error {
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

// SQLDriver maps the configured driver to its database/sql driver name.
func (c *DatabaseConfig) SQLDriver() string {
	if c.Driver == StoragePostgres {
		return "pgx"
	}
	return "sqlite3"
}

// UsesSQL reports whether the storage backend lives in the SQL database.
func (c *StorageConfig) UsesSQL() bool {
	return c.Backend == StorageSQLite || c.Backend == StoragePostgres
}
