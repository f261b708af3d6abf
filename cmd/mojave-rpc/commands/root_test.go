package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfg "github.com/mojave-chain/mojave-rpc/config"
)

func testCommand(home string) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String(HomeFlag, home, "")
	cmd.Flags().String("log_format", cfg.LogFormatPlain, "")
	cmd.Flags().Bool("log_debug", false, "")
	return cmd
}

func TestConfigHomeEnvOverridesFlag(t *testing.T) {
	cmd := testCommand("/from/flag")

	home, err := ConfigHome(cmd)
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", home)

	t.Setenv("MOJAVE_HOME", "/from/env")
	home, err = ConfigHome(cmd)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", home)
}

func TestParseConfigCreatesDefaults(t *testing.T) {
	home := filepath.Join(t.TempDir(), "node")
	cmd := testCommand(home)

	conf, err := ParseConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, cfg.LogFormatPlain, conf.LogFormat)
	assert.FileExists(t, filepath.Join(home, cfg.DefaultConfigFileName))
}

func TestParseConfigFlagOverrides(t *testing.T) {
	home := filepath.Join(t.TempDir(), "node")
	cmd := testCommand(home)
	require.NoError(t, cmd.Flags().Set("log_format", cfg.LogFormatJSON))
	require.NoError(t, cmd.Flags().Set("log_debug", "true"))

	conf, err := ParseConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, cfg.LogFormatJSON, conf.LogFormat)
	assert.True(t, conf.LogDebug)
}

func TestParseConfigRejectsBadFile(t *testing.T) {
	home := filepath.Join(t.TempDir(), "node")
	require.NoError(t, cfg.EnsureRoot(home))
	bad := []byte("log_format = \"fancy\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(home, cfg.DefaultConfigFileName), bad, 0o600))

	_, err := ParseConfig(testCommand(home))
	require.Error(t, err)
	require.ErrorIs(t, err, cfg.ErrUnknownLogFormat)
}
