package excel

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"

	"bankinfer/adapters/datareadiness/coercer"
	"bankinfer/domain/dataset"
	"bankinfer/internal"
	apperrors "bankinfer/internal/errors"
)

// RemoteCSV fetches a CSV file over HTTP once per Load
type RemoteCSV struct {
	url     string
	client  *http.Client
	config  ReaderConfig
	coercer *coercer.TypeCoercer
	logger  *internal.Logger
}

// NewRemoteCSV creates a remote source. A nil client uses a default client
// bounded by config.FetchTimeout.
func NewRemoteCSV(rawURL string, client *http.Client, config ReaderConfig, logger *internal.Logger) *RemoteCSV {
	if client == nil {
		client = &http.Client{Timeout: config.FetchTimeout}
	}
	if config.Delimiter == 0 {
		config.Delimiter = ','
	}
	return &RemoteCSV{
		url:     rawURL,
		client:  client,
		config:  config,
		coercer: coercer.NewTypeCoercer(config.CoercionConfig),
		logger:  logger,
	}
}

// Describe names the source
func (s *RemoteCSV) Describe() string {
	return "remote csv " + s.url
}

// Load downloads, parses and types the CSV
func (s *RemoteCSV) Load(ctx context.Context) (*dataset.Dataset, error) {
	if s.config.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.FetchTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid dataset URL %s: %w", s.url, err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperrors.ExternalServiceError("dataset host", fmt.Errorf("failed to fetch %s: %w", s.url, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, apperrors.ExternalServiceError("dataset host", fmt.Errorf("failed to fetch %s: unexpected status %s", s.url, resp.Status))
	}

	table, err := parseCSV(resp.Body, s.config.Delimiter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.url, err)
	}

	ds, err := s.coercer.BuildDataset(datasetName(s.url), table.Headers, table.Rows)
	if err != nil {
		return nil, err
	}
	s.logger.Info("[RemoteCSV] fetched %s (%d columns, %d rows)", s.url, len(ds.Names()), ds.Rows())
	return ds, nil
}

func datasetName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" || u.Path == "/" {
		return rawURL
	}
	return path.Base(u.Path)
}
