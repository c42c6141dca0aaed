package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	p := NewPaths("/project")
	assert.Equal(t, "/project", p.Project)
	assert.Equal(t, filepath.Join("/project", ".aoi"), p.Root)
	assert.Equal(t, filepath.Join("/project", ".aoi", "aoi.db"), p.DB)
	assert.Equal(t, filepath.Join("/project", ".aoi", "config.yaml"), p.Config)
	assert.Equal(t, filepath.Join("/project", ".aoi", "export"), p.ExportDir)
}

func TestEnsureDirs(t *testing.T) {
	dir := t.TempDir()
	p := NewPaths(dir)

	// First call creates directories.
	require.NoError(t, p.EnsureDirs())
	for _, d := range []string{p.Root, p.ExportDir} {
		info, err := os.Stat(d)
		require.NoError(t, err, "dir %s should exist", d)
		assert.True(t, info.IsDir())
	}

	// Second call is a no-op.
	require.NoError(t, p.EnsureDirs())
}

func TestPaths_Resolve(t *testing.T) {
	p := NewPaths("/project")
	assert.Equal(t, "", p.Resolve(""))
	assert.Equal(t, "/etc/mapping.yaml", p.Resolve("/etc/mapping.yaml"))
	assert.Equal(t, filepath.Join("/project", "data", "mapping.yaml"), p.Resolve("data/mapping.yaml"))
}
