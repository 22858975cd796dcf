package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recera/geowidget/cmd/geowidget/internal/config"
	"github.com/recera/geowidget/cmd/geowidget/internal/wizard"
)

func noWizard(t *testing.T) func(*config.Config) (*config.Config, error) {
	return func(*config.Config) (*config.Config, error) {
		t.Fatal("wizard must not run")
		return nil, nil
	}
}

func TestInit_Flags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geowidget.yaml")
	var out bytes.Buffer

	err := runInit(&out, path, initOptions{
		token:         "abc",
		language:      "uk",
		mode:          "parcelSend",
		noInteractive: true,
	}, noWizard(t))
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Wrote "+path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", cfg.Token)
	assert.Equal(t, "uk", cfg.Language)
	assert.Equal(t, "parcelSend", cfg.Config)
	assert.Equal(t, "production", cfg.Environment)
}

func TestInit_Rejects(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "existing.yaml")
	require.NoError(t, os.WriteFile(existing, []byte("token: x\n"), 0o644))

	err := runInit(&bytes.Buffer{}, existing, initOptions{token: "abc", noInteractive: true}, noWizard(t))
	assert.ErrorContains(t, err, "already exists")

	err = runInit(&bytes.Buffer{}, filepath.Join(dir, "new.yaml"), initOptions{noInteractive: true}, noWizard(t))
	assert.Error(t, err, "token is required")

	err = runInit(&bytes.Buffer{}, filepath.Join(dir, "lang.yaml"), initOptions{token: "abc", language: "de", noInteractive: true}, noWizard(t))
	assert.Error(t, err)
}

func TestInit_Wizard(t *testing.T) {
	dir := t.TempDir()

	var seen *config.Config
	done := func(c *config.Config) (*config.Config, error) {
		seen = c
		c.Token = "from-wizard"
		return c, nil
	}
	path := filepath.Join(dir, "a.yaml")
	require.NoError(t, runInit(&bytes.Buffer{}, path, initOptions{language: "en"}, done))
	require.NotNil(t, seen)
	assert.Equal(t, "en", seen.Language)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-wizard", cfg.Token)

	aborted := func(*config.Config) (*config.Config, error) { return nil, wizard.ErrAborted }
	var out bytes.Buffer
	path = filepath.Join(dir, "b.yaml")
	require.NoError(t, runInit(&out, path, initOptions{}, aborted))
	assert.Contains(t, out.String(), "Aborted")
	assert.NoFileExists(t, path)
}

func TestRender(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geowidget.yaml")
	cfg := config.Default()
	cfg.Token = "abc"
	cfg.Container = nil
	require.NoError(t, cfg.Save(path))

	var out bytes.Buffer
	require.NoError(t, runRender(&out, renderOptions{configPath: path}))
	assert.Contains(t, out.String(), `<div><inpost-geowidget config="parcelCollect" language="pl" token="abc"></inpost-geowidget></div>`)
	assert.True(t, strings.HasSuffix(out.String(), "\n"))

	out.Reset()
	require.NoError(t, runRender(&out, renderOptions{configPath: path, page: true}))
	assert.True(t, strings.HasPrefix(out.String(), "<!DOCTYPE html>"))
	assert.Contains(t, out.String(), `id="geowidget-boot"`)
}

func TestRender_MissingToken(t *testing.T) {
	err := runRender(&bytes.Buffer{}, renderOptions{configPath: filepath.Join(t.TempDir(), "none.yaml")})
	assert.Error(t, err)
}

func TestRootCommand(t *testing.T) {
	root := newRootCommand()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["render"])
	assert.True(t, names["init"])
}
