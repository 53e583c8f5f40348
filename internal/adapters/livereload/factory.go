package livereload

import (
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
)

var _ ports.ReloaderFactory = (*Factory)(nil)

// Factory creates live-reload servers that log through a shared logger.
type Factory struct {
	logger ports.Logger
	opts   []Option
}

// NewFactory creates a Factory.
func NewFactory(logger ports.Logger, opts ...Option) *Factory {
	return &Factory{logger: logger, opts: opts}
}

// NewReloader creates a Server for dir.
func (f *Factory) NewReloader(dir string, cfg domain.ServeConfig) ports.Reloader {
	return NewServer(dir, cfg, f.logger, f.opts...)
}
