package main

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-records-api/internal/config"
	"github.com/aanand-mishra/student-records-api/internal/storage/memory"
	"github.com/aanand-mishra/student-records-api/internal/storage/sqlite"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, version+"\n", out.String())
}

func TestServe_MissingConfig(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	err := runServe(context.Background(), "")
	assert.ErrorContains(t, err, "config path is not set")
}

func TestOpenStorage(t *testing.T) {
	s, err := openStorage(&config.Config{Storage: config.StorageMemory})
	require.NoError(t, err)
	assert.IsType(t, &memory.Memory{}, s)

	s, err = openStorage(&config.Config{
		Storage:     config.StorageSQLite,
		StoragePath: filepath.Join(t.TempDir(), "students.db"),
	})
	require.NoError(t, err)
	assert.IsType(t, &sqlite.SQLite{}, s)
	require.NoError(t, s.Close())

	_, err = openStorage(&config.Config{Storage: "redis"})
	assert.Error(t, err)
}

func TestSetupLogger(t *testing.T) {
	ctx := context.Background()
	assert.False(t, setupLogger("prod").Enabled(ctx, slog.LevelDebug))
	assert.True(t, setupLogger("staging").Enabled(ctx, slog.LevelDebug))
	assert.True(t, setupLogger("dev").Enabled(ctx, slog.LevelDebug))
}
