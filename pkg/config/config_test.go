package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetViperEnvPrefix(v, EnvPrefix)
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(t.TempDir())
	return v
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(testViper(t))
	require.NoError(t, err)

	assert.Equal(t, ProviderCognito, cfg.Provider)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.False(t, cfg.Telemetry)
	assert.Equal(t, "master", cfg.Keycloak.AdminRealm)
}

func TestLoadFrom_Environment(t *testing.T) {
	t.Setenv("IDPUSER_COGNITO_REGION", "eu-west-1")
	t.Setenv("IDPUSER_COGNITO_ENDPOINT", "http://localhost:9229")
	t.Setenv("IDPUSER_TELEMETRY", "true")

	cfg, err := LoadFrom(testViper(t))
	require.NoError(t, err)

	assert.Equal(t, "eu-west-1", cfg.Cognito.Region)
	assert.Equal(t, "http://localhost:9229", cfg.Cognito.Endpoint)
	assert.True(t, cfg.Telemetry)
}

func TestLoadFrom_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := "provider: keycloak\nkeycloak:\n  url: https://sso.example.com\n  username: admin\n  password: secret\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))

	v := testViper(t)
	v.AddConfigPath(dir)

	cfg, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, ProviderKeycloak, cfg.Provider)
	assert.Equal(t, "https://sso.example.com", cfg.Keycloak.URL)
	assert.Equal(t, "master", cfg.Keycloak.AdminRealm)
}

func TestBindFlags_ChangedFlagWins(t *testing.T) {
	t.Setenv("IDPUSER_LOG_LEVEL", "WARN")

	fs := pflag.NewFlagSet("idpuser", pflag.ContinueOnError)
	fs.String("log-level", "", "")
	fs.String("provider", "", "")
	require.NoError(t, fs.Parse([]string{"--log-level", "DEBUG"}))

	v := testViper(t)
	require.NoError(t, BindFlags(v, fs))

	cfg, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, ProviderCognito, cfg.Provider, "unchanged flag must not mask the default")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "cognito minimal",
			cfg:  Config{Provider: ProviderCognito},
		},
		{
			name:    "unknown provider",
			cfg:     Config{Provider: "okta"},
			wantErr: true,
		},
		{
			name:    "bad endpoint",
			cfg:     Config{Provider: ProviderCognito, Cognito: CognitoConfig{Endpoint: "not a url"}},
			wantErr: true,
		},
		{
			name:    "keycloak missing credentials",
			cfg:     Config{Provider: ProviderKeycloak, Keycloak: KeycloakConfig{URL: "https://sso.example.com", AdminRealm: "master"}},
			wantErr: true,
		},
		{
			name: "keycloak complete",
			cfg: Config{Provider: ProviderKeycloak, Keycloak: KeycloakConfig{
				URL: "https://sso.example.com", AdminRealm: "master", Username: "admin", Password: "pw",
			}},
		},
		{
			name: "keycloak block ignored for cognito",
			cfg:  Config{Provider: ProviderCognito, Keycloak: KeycloakConfig{URL: "nope"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("IDPUSER_TEST_DOTENV=loaded\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("IDPUSER_TEST_DOTENV") })

	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")))
	assert.Equal(t, "loaded", os.Getenv("IDPUSER_TEST_DOTENV"))
}
