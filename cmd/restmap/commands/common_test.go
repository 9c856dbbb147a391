package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/restmap/logging"
)

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantErr bool
	}{
		{"valid text", FormatText, false},
		{"valid json", FormatJSON, false},
		{"valid yaml", FormatYAML, false},
		{"valid dump", FormatDump, false},
		{"invalid format", "xml", true},
		{"empty format", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateLogBackend(t *testing.T) {
	assert.NoError(t, ValidateLogBackend(LogSlog))
	assert.NoError(t, ValidateLogBackend(LogZap))
	assert.NoError(t, ValidateLogBackend(LogNone))
	assert.Error(t, ValidateLogBackend("logrus"))
}

func TestOutputStructured(t *testing.T) {
	data := map[string]any{"name": "Dieter", "tags": []string{"a", "b"}}

	t.Run("json", func(t *testing.T) {
		out, _ := captureOutput(t)
		require.NoError(t, OutputStructured(data, FormatJSON))
		var got map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, "Dieter", got["name"])
	})

	t.Run("yaml", func(t *testing.T) {
		out, _ := captureOutput(t)
		require.NoError(t, OutputStructured(data, FormatYAML))
		assert.Contains(t, out.String(), "name: Dieter")
		assert.Contains(t, out.String(), "- a")
	})

	t.Run("dump", func(t *testing.T) {
		out, _ := captureOutput(t)
		require.NoError(t, OutputStructured(data, FormatDump))
		assert.Contains(t, out.String(), `"Dieter"`)
		assert.Contains(t, out.String(), "map[string]interface {}")
	})

	t.Run("text is not structured", func(t *testing.T) {
		captureOutput(t)
		assert.Error(t, OutputStructured(data, FormatText))
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		l, flush, err := NewLogger(LogNone)
		require.NoError(t, err)
		defer flush()
		assert.Equal(t, logging.NopLogger{}, l)
	})

	t.Run("slog honors level", func(t *testing.T) {
		t.Setenv("RESTMAP_LOG_LEVEL", "debug")
		_, errOut := captureOutput(t)
		l, flush, err := NewLogger(LogSlog)
		require.NoError(t, err)
		defer flush()

		l.Debug("registered resource", "name", "designer")
		assert.Contains(t, errOut.String(), "registered resource")
		assert.Contains(t, errOut.String(), "name=designer")
	})

	t.Run("slog default level is warn", func(t *testing.T) {
		t.Setenv("RESTMAP_LOG_LEVEL", "")
		_, errOut := captureOutput(t)
		l, _, err := NewLogger(LogSlog)
		require.NoError(t, err)

		l.Info("quiet")
		l.Warn("loud")
		assert.NotContains(t, errOut.String(), "quiet")
		assert.Contains(t, errOut.String(), "loud")
	})

	t.Run("zap", func(t *testing.T) {
		t.Setenv("RESTMAP_LOG_LEVEL", "info")
		l, flush, err := NewLogger(LogZap)
		require.NoError(t, err)
		defer flush()
		assert.IsType(t, &logging.ZapAdapter{}, l)
	})

	t.Run("invalid level", func(t *testing.T) {
		t.Setenv("RESTMAP_LOG_LEVEL", "chatty")
		_, _, err := NewLogger(LogSlog)
		assert.ErrorContains(t, err, "RESTMAP_LOG_LEVEL")
		_, _, err = NewLogger(LogZap)
		assert.ErrorContains(t, err, "RESTMAP_LOG_LEVEL")
	})

	t.Run("invalid backend", func(t *testing.T) {
		_, _, err := NewLogger("logrus")
		assert.Error(t, err)
	})
}

func TestLoadCatalog(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		cat, err := LoadCatalog(writeSchema(t, shopSchema))
		require.NoError(t, err)
		assert.Len(t, cat.Specs(), 3)
	})

	t.Run("stdin", func(t *testing.T) {
		withStdin(t, shopSchema)
		cat, err := LoadCatalog(StdinFilePath)
		require.NoError(t, err)
		assert.Len(t, cat.Hypermedia(), 2)
	})
}

func TestNewRegistry(t *testing.T) {
	cat, err := LoadCatalog(writeSchema(t, shopSchema))
	require.NoError(t, err)

	reg, err := NewRegistry(cat, logging.NopLogger{})
	require.NoError(t, err)
	assert.True(t, reg.Frozen())
	assert.Len(t, reg.Specs(), 2)
}

func TestFormatSchemaPath(t *testing.T) {
	assert.Equal(t, "<stdin>", FormatSchemaPath(StdinFilePath))
	assert.Equal(t, "resources.yaml", FormatSchemaPath("resources.yaml"))
}

func TestRejectSymlinkOutput(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.go")
	require.NoError(t, os.WriteFile(target, nil, 0o600))
	link := filepath.Join(dir, "link.go")
	require.NoError(t, os.Symlink(target, link))

	assert.NoError(t, RejectSymlinkOutput(filepath.Join(dir, "new.go")))
	assert.NoError(t, RejectSymlinkOutput(target))
	assert.ErrorContains(t, RejectSymlinkOutput(link), "refusing to write to symlink")
}
