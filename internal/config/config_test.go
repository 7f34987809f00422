package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illarion/sweepvault/internal/address"
	"github.com/illarion/sweepvault/internal/vault"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, vault.DefaultLimits, cfg.Limits)
}

func TestLoadMissingRequiredFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), true)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
program_id: 4wBqpZM9xaSheZzJSMawUKKwhdpChKbZ5eu5ky4Vigw
ledger: /tmp/x.db
limits:
  max_deposit: 5
`), 0600))

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "4wBqpZM9xaSheZzJSMawUKKwhdpChKbZ5eu5ky4Vigw", cfg.ProgramID.String())
	assert.Equal(t, "/tmp/x.db", cfg.Ledger)
	assert.Equal(t, uint64(5), cfg.Limits.MaxDeposit)
	assert.Equal(t, vault.DefaultLimits.MaxWithdrawal, cfg.Limits.MaxWithdrawal)
	assert.Equal(t, Default().Keyfile, cfg.Keyfile)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("program_id: not-base58-0OIl\n"), 0600))

	_, err := Load(path, true)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvProgramID: "4wBqpZM9xaSheZzJSMawUKKwhdpChKbZ5eu5ky4Vigw",
		EnvLedger:    "l.db",
		EnvKeyfile:   "k.key",
		EnvLogLevel:  "debug",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.applyEnv(lookup))
	assert.Equal(t, address.MustParse(env[EnvProgramID]), cfg.ProgramID)
	assert.Equal(t, "l.db", cfg.Ledger)
	assert.Equal(t, "k.key", cfg.Keyfile)
	assert.Equal(t, "debug", cfg.LogLevel)

	env[EnvProgramID] = "bad!"
	assert.ErrorIs(t, Default().applyEnv(lookup), ErrInvalidConfig)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv(EnvLedger, "from-env.db")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, "from-env.db", cfg.Ledger)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := Default()
	cfg.LogLevel = "info"
	cfg.Limits.MaxDeposit = 42
	require.NoError(t, cfg.Save(path))

	got, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.ProgramID = address.Zero
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = Default()
	cfg.Ledger = ""
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}
