package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vfsutil/pkg/location"
)

func TestConfigPath(t *testing.T) {
	t.Run("environment override", func(t *testing.T) {
		t.Setenv(CONFIG_PATH_ENV, "/custom/vfsutil.yaml")
		assert.Equal(t, "/custom/vfsutil.yaml", ConfigPath())
	})

	t.Run("xdg config home", func(t *testing.T) {
		t.Setenv(CONFIG_PATH_ENV, "")
		path := ConfigPath()
		assert.Equal(t, "config.yaml", filepath.Base(path))
		assert.Equal(t, APP_NAME, filepath.Base(filepath.Dir(path)))
	})
}

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
	assert.True(t, cfg.UsePartial)
	assert.False(t, cfg.FileSizeBinary)
	assert.Equal(t, location.DefaultSupportedSchemes, cfg.SupportedSchemes)
}

func TestLoadFrom_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("file_size_binary: true\n"), 0o600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.True(t, cfg.FileSizeBinary)
	assert.True(t, cfg.UsePartial, "unset fields keep their defaults")
	assert.NotEmpty(t, cfg.SupportedSchemes)
}

func TestLoadFrom_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("use_partial: [unclosed\n"), 0o600))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	original := Config{
		UsePartial:       false,
		FileSizeBinary:   true,
		SupportedSchemes: []string{"file", "sftp"},
		AllowedRoots:     []string{"/srv/data", "~/Documents"},
	}

	require.NoError(t, original.SaveTo(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, original, *loaded)
}

func TestSaveUsesEnvironmentPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.yaml")
	t.Setenv(CONFIG_PATH_ENV, path)

	cfg := DefaultConfig()
	cfg.FileSizeBinary = true
	require.NoError(t, cfg.Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.True(t, loaded.FileSizeBinary)
}

func TestRoots(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AllowedRoots = []string{"/srv/data", "~/Documents", "sftp://host/export"}

	roots, err := cfg.Roots()
	require.NoError(t, err)
	require.Len(t, roots, 3)
	assert.True(t, roots[0].Equal(location.NewForPath("/srv/data")))
	assert.True(t, roots[1].Equal(location.Home().Child("Documents")))
	assert.Equal(t, "sftp", roots[2].Scheme())

	cfg.AllowedRoots = []string{"sftp://host/%zz"}
	_, err = cfg.Roots()
	assert.Error(t, err)
}

func TestIsSchemeSupported(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.IsSchemeSupported(location.NewForPath("/tmp")))
	assert.True(t, cfg.IsSchemeSupported(location.Trash()))
	assert.False(t, cfg.IsSchemeSupported(location.MustParse("sftp://host/")))

	cfg.SupportedSchemes = []string{"file", "SFTP"}
	assert.True(t, cfg.IsSchemeSupported(location.MustParse("sftp://host/")))
	assert.False(t, cfg.IsSchemeSupported(location.Trash()))
}
