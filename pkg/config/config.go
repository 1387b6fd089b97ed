// pkg/config/config.go

package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	cerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "IDPUSER"

	ProviderCognito  = "cognito"
	ProviderKeycloak = "keycloak"
)

// Config is the resolved runtime configuration.
type Config struct {
	Provider  string         `mapstructure:"provider" validate:"required,oneof=cognito keycloak"`
	LogLevel  string         `mapstructure:"log_level" validate:"omitempty,oneof=TRACE DEBUG INFO WARN ERROR trace debug info warn error"`
	LogFile   string         `mapstructure:"log_file"`
	Telemetry bool           `mapstructure:"telemetry"`
	Cognito   CognitoConfig  `mapstructure:"cognito"`
	Keycloak  KeycloakConfig `mapstructure:"keycloak" validate:"-"`
}

// CognitoConfig selects the AWS region/profile. Credentials come from the
// default AWS chain.
type CognitoConfig struct {
	Region   string `mapstructure:"region"`
	Profile  string `mapstructure:"profile"`
	Endpoint string `mapstructure:"endpoint" validate:"omitempty,url"`
}

// KeycloakConfig holds the admin login for the Keycloak back end.
type KeycloakConfig struct {
	URL        string `mapstructure:"url" validate:"required,url"`
	AdminRealm string `mapstructure:"admin_realm" validate:"required"`
	Username   string `mapstructure:"username" validate:"required"`
	Password   string `mapstructure:"password" validate:"required"`
}

var defaults = map[string]any{
	"provider":             ProviderCognito,
	"log_level":            "INFO",
	"log_file":             "",
	"telemetry":            false,
	"cognito.region":       "",
	"cognito.profile":      "",
	"cognito.endpoint":     "",
	"keycloak.url":         "",
	"keycloak.admin_realm": "master",
	"keycloak.username":    "",
	"keycloak.password":    "",
}

// NewViper returns a viper instance reading IDPUSER_* variables and an
// optional config.yaml.
func NewViper() *viper.Viper {
	v := viper.New()
	SetViperEnvPrefix(v, EnvPrefix)
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "idpuser"))
	}
	v.AddConfigPath(".")
	return v
}

// SetViperEnvPrefix lets viper read env with prefix, mapping nested keys to
// underscores (cognito.region -> IDPUSER_COGNITO_REGION).
func SetViperEnvPrefix(v *viper.Viper, prefix string) {
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// LoadDotEnv loads the given .env files into the process environment,
// skipping files that do not exist. Existing variables win.
func LoadDotEnv(paths ...string) error {
	var result error
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			result = multierror.Append(result, cerr.Wrapf(err, "load %s", p))
		}
	}
	return result
}

// BindFlags binds each flag in fs to the key of the same name with dashes
// as underscores (--log-level -> log_level).
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var result error
	fs.VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil {
			result = multierror.Append(result, err)
		}
	})
	return result
}

// Load reads .env, the config file, the environment and any changed flags in
// fs, then validates. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	v := NewViper()
	if fs != nil {
		if err := BindFlags(v, fs); err != nil {
			return nil, cerr.Wrap(err, "bind flags")
		}
	}
	return LoadFrom(v)
}

// LoadFrom decodes and validates the configuration held by v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, cerr.Wrap(err, "read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, cerr.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the struct tags, and the Keycloak block when that provider is selected.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return cerr.WithHint(cerr.Wrap(err, "invalid configuration"), "check IDPUSER_* variables and config.yaml")
	}
	if c.Provider == ProviderKeycloak {
		if err := validate.Struct(c.Keycloak); err != nil {
			return cerr.WithHint(cerr.Wrap(err, "invalid keycloak configuration"), "set IDPUSER_KEYCLOAK_URL, IDPUSER_KEYCLOAK_USERNAME and IDPUSER_KEYCLOAK_PASSWORD")
		}
	}
	return nil
}
