package container

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"bankinfer/adapters/db"
	"bankinfer/adapters/excel"
	"bankinfer/app"
	"bankinfer/internal"
	"bankinfer/internal/config"
	"bankinfer/internal/metrics"
	"bankinfer/internal/session"
	"bankinfer/ports"
	"bankinfer/ui"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	Source  ports.DatasetSource
	Session *session.Session
	Metrics *metrics.Metrics

	Inference *app.InferenceService
	Describe  *app.DescribeService

	closers []io.Closer
}

// New wires the source, session and services described by cfg. Nothing is
// loaded until the first snapshot is requested.
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewNopLogger()
	}

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.New(),
	}

	source, closer, err := NewSource(cfg, logger)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		c.closers = append(c.closers, closer)
	}
	c.Source = source

	c.Session = session.New(source, cfg.Policy, logger).WithLoadTimeout(cfg.Source.FetchTimeout)
	c.Inference = app.NewInferenceService(c.Session, cfg.Policy, logger).WithObserver(c.Metrics)
	c.Describe = app.NewDescribeService(c.Session, logger)

	logger.Info("container ready: source=%s session=%s", source.Describe(), c.Session.ID())
	return c, nil
}

// NewSource builds the dataset source selected by the configuration. The
// returned closer is non-nil for sources holding a connection.
func NewSource(cfg *config.Config, logger *internal.Logger) (ports.DatasetSource, io.Closer, error) {
	readerCfg := excel.ReaderConfig{
		Sheet:          cfg.Source.Sheet,
		Delimiter:      cfg.Source.Delimiter,
		FetchTimeout:   cfg.Source.FetchTimeout,
		CoercionConfig: cfg.Coercion,
	}

	switch cfg.Source.Kind() {
	case config.SourceFile:
		return excel.NewDataReader(cfg.Source.Path, readerCfg, logger), nil, nil
	case config.SourceURL:
		client := &http.Client{Timeout: cfg.Source.FetchTimeout}
		return excel.NewRemoteCSV(cfg.Source.URL, client, readerCfg, logger), nil, nil
	default:
		src, err := db.Open(cfg.Source.SQLDriver, cfg.Source.SQLDSN, cfg.Source.SQLTable, cfg.Coercion, logger)
		if err != nil {
			return nil, nil, err
		}
		return src, src, nil
	}
}

// Close releases source connections
func (c *Container) Close() error {
	var first error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Warm loads the dataset and detects the outcome so that a broken source
// fails at startup instead of on the first request
func (c *Container) Warm(ctx context.Context) error {
	snap, err := c.Session.Snapshot(ctx)
	if err != nil {
		return err
	}
	c.Logger.Info("dataset %s ready (%d rows, outcome %s)", snap.Dataset.Name(), snap.Dataset.Rows(), snap.Outcome.Column())
	return nil
}

// Deps returns the services the HTTP surfaces need
func (c *Container) Deps() ui.Deps {
	return ui.Deps{
		Inference:    c.Inference,
		Descriptives: c.Describe,
		Metrics:      c.Metrics,
		Logger:       c.Logger,
	}
}
