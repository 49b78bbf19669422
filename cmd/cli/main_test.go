package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/stackforge/internal/cli"
)

func TestRun_Help(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, run(&out, []string{"-h"}))
	assert.Contains(t, out.String(), "Usage:")
}

func TestRun_NoArgs(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, run(&out, nil))
	assert.Contains(t, out.String(), "Usage:")
}

func TestRun_ParseErrorCarriesExitCode(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := run(&out, []string{"-log-format", "xml", "stack.hcl"})
	require.Error(t, err)

	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestRun_MissingParamsFile(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := run(&out, []string{filepath.Join(t.TempDir(), "absent.hcl")})
	require.Error(t, err)
	assert.Empty(t, out.String())
}

func TestRun_EndToEnd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	paramsPath := filepath.Join(dir, "stack.hcl")
	require.NoError(t, os.WriteFile(paramsPath, []byte(`
name        = "web"
environment = "dev"
`), 0o644))
	outPath := filepath.Join(dir, "out.hcl")

	var out bytes.Buffer
	require.NoError(t, run(&out, []string{"-params", paramsPath, "-out", outPath, "-log-level", "error"}))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `resource "network" "web-net"`)
	assert.Contains(t, string(data), `resource "function" "web-app"`)
}
