package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/press/internal/adapters/detector"
	"go.trai.ch/press/internal/adapters/telemetry"
	"go.trai.ch/press/internal/app"
	"go.trai.ch/press/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newTestApp(t *testing.T, ctrl *gomock.Controller) (*app.App, *mocks.MockConfigLoader, *mocks.MockLogger) {
	t.Helper()
	loader := mocks.NewMockConfigLoader(ctrl)
	logger := mocks.NewMockLogger(ctrl)

	tracer := telemetry.NewOTelTracer("press-test")
	t.Cleanup(func() {
		_ = tracer.Shutdown(context.Background())
	})

	application := app.New(
		loader,
		mocks.NewMockStepRunner(ctrl),
		tracer,
		mocks.NewMockWatcherFactory(ctrl),
		mocks.NewMockReloaderFactory(ctrl),
		logger,
		detector.Env{
			IsTerminal: func(int) bool { return false },
			Getenv:     func(string) string { return "" },
		},
	)
	return application, loader, logger
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	application, _, logger := newTestApp(t, ctrl)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: logger}, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)
	assert.Equal(t, 0, exitCode)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run logs the error and returns 1 when the command fails.
func TestRun_ExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	application, loader, logger := newTestApp(t, ctrl)

	loader.EXPECT().LoadFile("missing.yaml").Return(nil, errors.New("load failed"))
	logger.EXPECT().Error(gomock.Any()).Times(1)

	cleaned := false
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: logger}, func() { cleaned = true }, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"run", "style", "-c", "missing.yaml"}, stderr, provider, func(a *app.App) {
		a.WithTeaOptions(tea.WithInput(nil))
	})

	assert.Equal(t, 1, exitCode)
	assert.True(t, cleaned)
}
