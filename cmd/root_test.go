package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CSPROCOMPILE_HOME", t.TempDir())
	t.Setenv("CSPROCOMPILE_CONFIG", "")
	t.Setenv("CSPROCOMPILE_ENGINE", "")
	t.Setenv("CSPROCOMPILE_PLUGINS_FOLDER", "")
	t.Setenv("CSPROCOMPILE_LOG_LEVEL", "OFF")
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestExecuteUsage(t *testing.T) {
	isolateEnv(t)
	input := filepath.Join(t.TempDir(), "app.ent")
	require.NoError(t, os.WriteFile(input, []byte("[Application]"), 0644))

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{name: "no arguments", args: nil, wantCode: 1, wantStdout: "Usage:"},
		{name: "help", args: []string{"-h"}, wantCode: 0, wantStdout: "csprocompile myapp.bch -v --json"},
		{name: "long help", args: []string{"--help"}, wantCode: 0, wantStdout: "--check-only"},
		{name: "unknown flag", args: []string{input, "--fast"}, wantCode: 1, wantStdout: "Usage:", wantStderr: "unknown flag: --fast"},
		{name: "two inputs", args: []string{input, input}, wantCode: 1, wantStderr: "expected exactly one input file, got 2"},
		{name: "missing output value", args: []string{input, "-o"}, wantCode: 1, wantStderr: "flag needs an argument"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := run(t, tt.args...)
			assert.Equal(t, tt.wantCode, code)
			if tt.wantStdout != "" {
				assert.Contains(t, stdout, tt.wantStdout)
			}
			if tt.wantStderr != "" {
				assert.Contains(t, stderr, tt.wantStderr)
			}
		})
	}
}

func TestExecuteNoArgumentsPrintsUsageOnly(t *testing.T) {
	isolateEnv(t)

	code, stdout, stderr := run(t)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "csprocompile <application.ent|.bch|.pff> [options]")
	assert.Empty(t, stderr)
}

func TestExecuteValidationErrors(t *testing.T) {
	isolateEnv(t)
	tmpDir := t.TempDir()
	wrongType := filepath.Join(tmpDir, "app.txt")
	require.NoError(t, os.WriteFile(wrongType, []byte("text"), 0644))
	missing := filepath.Join(tmpDir, "missing.ent")

	code, _, stderr := run(t, missing)
	assert.Equal(t, 1, code)
	assert.Equal(t, "Error: Input file not found: "+missing+"\n", stderr)

	code, _, stderr = run(t, wrongType)
	assert.Equal(t, 1, code)
	assert.Equal(t, "Error: Invalid file type. Expected .ent, .bch, or .pff\n", stderr)
}

func TestExecuteWithoutCompilerToolchain(t *testing.T) {
	isolateEnv(t)
	input := filepath.Join(t.TempDir(), "app.ent")
	require.NoError(t, os.WriteFile(input, []byte("[Application]"), 0644))

	code, stdout, _ := run(t, input, "--json", "--no-color")
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, `"success": false`)
	assert.Contains(t, stdout, `"message": "Failed to initialize compiler"`)
	assert.FileExists(t, filepath.Join(filepath.Dir(input), "compileErrorsFormatted.txt"))
}

func TestExecuteBadConfig(t *testing.T) {
	isolateEnv(t)
	cfgFile := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("logger:\n  level: LOUD\n"), 0644))
	input := filepath.Join(t.TempDir(), "app.ent")
	require.NoError(t, os.WriteFile(input, []byte("[Application]"), 0644))

	code, _, stderr := run(t, input, "--config", cfgFile)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Error: YAML config: logger directive is invalid")
}

func TestExecuteVersion(t *testing.T) {
	isolateEnv(t)

	code, stdout, _ := run(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Core Version: v")
}
