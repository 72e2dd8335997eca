package config

import (
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

type Config struct {
	Environment string `koanf:"environment" default:"development"`
	Hostname    string `koanf:"-"`

	ServerHost string `koanf:"server_host" default:"0.0.0.0"`
	ServerPort int    `koanf:"server_port" default:"3689" validate:"min=0,max=65535"`

	DatabaseFilePath          string        `koanf:"database_file_path" validate:"required"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count" default:"5" validate:"min=1"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay" default:"2s"`
	DatabaseMaxRetries        int           `koanf:"database_max_retries" default:"5" validate:"min=0"`
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout" default:"5s"`

	// RequestTimeout bounds every request, including the storage calls it
	// makes.
	RequestTimeout time.Duration `koanf:"request_timeout" default:"10s"`

	DefaultPerPage int `koanf:"default_per_page" default:"10" validate:"min=1,ltefield=MaxPerPage"`
	MaxPerPage     int `koanf:"max_per_page" default:"50" validate:"min=1"`

	// RateLimit uses the limiter's formatted syntax, e.g. "100-S" or
	// "1000-H". Empty disables rate limiting.
	RateLimit        string   `koanf:"rate_limit" default:"100-S"`
	CORSAllowOrigins []string `koanf:"cors_allow_origins" default:"[\"*\"]"`
	MetricsEnabled   bool     `koanf:"metrics_enabled" default:"true"`
}

const (
	configFileENV = "CONFIG_FILE"

	EnvironmentDevelopment = "development"
	EnvironmentTest        = "test"
	EnvironmentProduction  = "production"
)

// New builds the config from struct defaults, then the YAML file named by
// CONFIG_FILE (if it exists), then environment variables. Later sources win.
func New() (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	hostname, err := os.Hostname()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	cfg.Hostname = hostname

	k := koanf.New(".")

	if path := os.Getenv(configFileENV); path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, errors.Wrapf(err, "failed to load config file: %s", path)
			}
		}
	}

	err = k.Load(env.ProviderWithValue("", ".", envKey), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load environment")
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.WithStack(err)
	}

	switch cfg.Environment {
	case EnvironmentDevelopment:
		loadDevelopmentConfig(cfg)
	case EnvironmentTest:
		loadTestConfig(cfg)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewForTest returns a config with every default applied and an in-memory
// database, without reading the file system or the environment.
func NewForTest() *Config {
	cfg := &Config{}
	_ = defaults.Set(cfg)
	cfg.Environment = EnvironmentTest
	cfg.DatabaseFilePath = ":memory:"
	loadTestConfig(cfg)
	return cfg
}

// envKey maps DATABASE_FILE_PATH to database_file_path. Empty values are
// skipped so that an unset-but-exported variable doesn't clobber the file.
func envKey(key, value string) (string, interface{}) {
	if value == "" {
		return "", nil
	}
	return strings.ToLower(key), value
}

func validate(cfg *Config) error {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("koanf"), ",", 2)[0]
	})

	err := v.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errors.WithStack(err)
	}

	fe := verrs[0]
	key := fe.Field()
	if fe.Tag() == "required" {
		return errors.Errorf("missing required config: %s (env) or %s (file)", strings.ToUpper(key), key)
	}
	return errors.Errorf("invalid config %s: failed %q check", key, fe.Tag())
}

func (cfg *Config) IsProduction() bool {
	return cfg.Environment == EnvironmentProduction
}
