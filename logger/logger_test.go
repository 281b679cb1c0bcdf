package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level   string
		wantErr bool
	}{
		{"debug", false},
		{"info", false},
		{"INFO", false},
		{"warn", false},
		{"warning", false},
		{"error", false},
		{"", false},
		{"loud", true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			log, err := New(tt.level, false, "")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestNew_VerboseOverridesLevel(t *testing.T) {
	log, err := New("error", true, "")
	require.NoError(t, err)

	// Debug must be enabled when verbose is set, whatever the level says.
	assert.NotNil(t, log.Desugar().Check(zapcore.DebugLevel, "probe"))
}

func TestNew_CreatesLogDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "logs", "app.log")

	log, err := New("info", false, file)
	require.NoError(t, err)

	log.Info("hello")
	_ = log.Sync()

	// The parent directory must exist even before rotation kicks in.
	_, err = os.Stat(filepath.Dir(file))
	assert.NoError(t, err)
}
