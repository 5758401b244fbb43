package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/goliatone/go-storefront/cache"
)

// EnvPrefix prefixes every variable read by Load, e.g. STOREFRONT_API_BASE_URL.
const EnvPrefix = "STOREFRONT"

type Config struct {
	API       APIConfig       `envconfig:"API"`
	Log       LogConfig       `envconfig:"LOG"`
	Cache     cache.Config    `envconfig:"CACHE"`
	Checkout  CheckoutConfig  `envconfig:"CHECKOUT"`
	DevServer DevServerConfig `envconfig:"DEVSERVER"`
}

type APIConfig struct {
	BaseURL string        `envconfig:"BASE_URL" default:"http://localhost:8080"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"10s"`
	Token   string        `envconfig:"TOKEN"`
}

type LogConfig struct {
	Level  string `envconfig:"LEVEL" default:"info"`
	Format string `envconfig:"FORMAT" default:"json"`
}

type CheckoutConfig struct {
	ConversionConcurrency int `envconfig:"CONVERSION_CONCURRENCY" default:"4"`
}

// DevServerConfig configures the in-process reference backend.
type DevServerConfig struct {
	Addr string `envconfig:"ADDR" default:"127.0.0.1:8080"`
	// DSN is a go-sqlite3 data source name; empty means a private in-memory database.
	DSN string `envconfig:"DSN"`
}

// Load reads the optional dotenv files, then the environment. Variables
// already set in the environment win over dotenv values.
func Load(dotenvFiles ...string) (*Config, error) {
	if err := LoadDotEnv(dotenvFiles...); err != nil {
		return nil, err
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// LoadDotEnv loads each file that exists. With no arguments it tries ".env".
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", file, err)
		}
	}
	return nil
}

func (c Config) Validate() error {
	if err := c.API.Validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	return validation.ValidateStruct(&c.Log,
		validation.Field(&c.Log.Format, validation.In("json", "console")),
	)
}

func (a APIConfig) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.BaseURL, validation.Required, is.URL),
		validation.Field(&a.Timeout, validation.Min(time.Duration(0))),
	)
}
