package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "approvals.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
temporal:
  hostPort: temporal:7233
  taskQueue: FILE_QUEUE
chain:
  rpcUrl: https://rpc.example
  canonicalOperator: "0x1E0049783F008A0085193E00003D00cd54003c71"
logLevel: debug
`), 0o600))

	t.Setenv("APPROVALS_TASK_QUEUE", "ENV_QUEUE")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "temporal:7233", cfg.Temporal.HostPort)
	assert.Equal(t, "default", cfg.Temporal.Namespace)
	assert.Equal(t, "ENV_QUEUE", cfg.Temporal.TaskQueue)
	assert.Equal(t, "https://rpc.example", cfg.Chain.RPCURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":8090", cfg.API.Listen)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("APPROVALS_CANONICAL_OPERATOR", "seaport")
	_, err := Load("")
	assert.ErrorContains(t, err, "canonicalOperator")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
