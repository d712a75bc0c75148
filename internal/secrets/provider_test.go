package secrets_test

import (
	"context"
	"testing"

	"github.com/straye-as/crm-analytics/internal/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newEnvProvider(t *testing.T) *secrets.Provider {
	t.Helper()
	p, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:      secrets.SourceEnvironment,
		Environment: "development",
	}, zap.NewNop())
	require.NoError(t, err)
	return p
}

func TestProvider_EnvironmentSource(t *testing.T) {
	p := newEnvProvider(t)
	assert.Equal(t, secrets.SourceEnvironment, p.Source())

	t.Setenv("ANALYTICS_TEST_SECRET", "s3cret")
	value, err := p.GetSecret(context.Background(), "ANALYTICS_TEST_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", value)

	_, err = p.GetSecret(context.Background(), "ANALYTICS_TEST_MISSING")
	assert.Error(t, err)
}

func TestProvider_GetSecretOrEnvPrefersOverride(t *testing.T) {
	p := newEnvProvider(t)
	t.Setenv("DATABASE_PASSWORD", "from-override")

	value, err := p.GetSecretOrEnv(context.Background(), "POSTGRES-ANALYTICS-PASSWORD", "DATABASE_PASSWORD")
	require.NoError(t, err)
	assert.Equal(t, "from-override", value)
}

func TestNewProvider_Validation(t *testing.T) {
	_, err := secrets.NewProvider(&secrets.ProviderConfig{Source: secrets.SourceVault}, zap.NewNop())
	assert.Error(t, err, "vault source without a vault name must fail")

	_, err = secrets.NewProvider(&secrets.ProviderConfig{Source: "bogus"}, zap.NewNop())
	assert.Error(t, err)
}
