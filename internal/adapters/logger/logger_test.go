package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/press/internal/adapters/logger"
	"go.trai.ch/zerr"
)

// newTestLogger creates a logger writing to a buffer with colors disabled.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Levels(t *testing.T) {
	t.Run("info", func(t *testing.T) {
		lg, buf := newTestLogger(t)
		lg.Info("compiled css/style.css")
		goldie.New(t).Assert(t, "logger_info", buf.Bytes())
	})

	t.Run("warn", func(t *testing.T) {
		lg, buf := newTestLogger(t)
		lg.Warn("no stylesheet entry found")
		goldie.New(t).Assert(t, "logger_warn", buf.Bytes())
	})
}

func TestLogger_Error_Chain(t *testing.T) {
	lg, buf := newTestLogger(t)

	err := zerr.With(
		zerr.Wrap(errors.New("sass exited with status 65"), "task execution failed"),
		"task", "style",
	)
	lg.Error(err)

	goldie.New(t).Assert(t, "logger_error_chain", buf.Bytes())
}

func TestLogger_Error_Nil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_JSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	lg.Error(errors.New("boom"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "operation failed", record["msg"])
	assert.Equal(t, "boom", record["error"])

	buf.Reset()
	lg.SetJSON(false)
	lg.Info("back to pretty")
	assert.Equal(t, "back to pretty\n", buf.String())
}
