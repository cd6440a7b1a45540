package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"polysynth/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smallConfig = `
rows: 400
seed: 21
workers: 2
base_name: cli
log_level: ERROR
polynomial:
  min_vars: 3
  max_vars: 3
  min_degree: 1
  max_degree: 1
  max_terms: 1
  min_coef: 2
  max_coef: 2
`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerate_WritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "polysynth.yaml"), []byte(smallConfig), 0o644))

	out, err := runCLI(t, "generate", "--runs", "2", "--datasets-dir", "ds", "--metadata-dir", "meta")
	require.NoError(t, err)
	assert.Contains(t, out, "cli_")

	datasets, err := os.ReadDir(filepath.Join(dir, "ds"))
	require.NoError(t, err)
	assert.Len(t, datasets, 16)
	for _, e := range datasets {
		assert.Equal(t, ".csv", filepath.Ext(e.Name()))
		assert.True(t, strings.HasPrefix(e.Name(), "cli_"))
	}

	meta, err := os.ReadDir(filepath.Join(dir, "meta"))
	require.NoError(t, err)
	var seeds []uint64
	for _, e := range meta {
		if strings.HasSuffix(e.Name(), "_manifest.json") {
			assert.Regexp(t, `^cli_\d{14}-0[12]_manifest\.json$`, e.Name())

			raw, err := os.ReadFile(filepath.Join(dir, "meta", e.Name()))
			require.NoError(t, err)
			var manifest struct {
				Fingerprint struct {
					Seed uint64 `json:"seed"`
				} `json:"fingerprint"`
			}
			require.NoError(t, json.Unmarshal(raw, &manifest))
			seeds = append(seeds, manifest.Fingerprint.Seed)
		}
	}
	assert.ElementsMatch(t, []uint64{21, 22}, seeds, "each run records its own seed")
	assert.Len(t, meta, 18)
}

func TestGenerate_InvalidConfigExitCode(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := runCLI(t, "generate", "--rows", "0")
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
	assert.Equal(t, 2, exitCode(err))
}

func TestCatalog_RequiresDatabaseURL(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := runCLI(t, "catalog", "--execution", "20240301120000")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 1, exitCode(errors.IOError("disk full", nil)))
	assert.Equal(t, 1, exitCode(assert.AnError))
}
