package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"bankinfer/adapters/stats/target"
	"bankinfer/domain/core"
	"bankinfer/domain/dataset"
	"bankinfer/domain/stats"
	"bankinfer/internal"
	"bankinfer/ports"
)

const snapshotKey = "snapshot"

// Snapshot is the immutable (dataset, outcome) pair every analysis reads
type Snapshot struct {
	Dataset  *dataset.Dataset
	Outcome  *target.Outcome
	Source   string
	LoadedAt time.Time
}

// Session owns one dataset source and loads it at most once. Concurrent cold
// loads share a single fetch; failed loads are not cached.
type Session struct {
	id       core.SessionID
	source   ports.DatasetSource
	detector *target.Detector
	logger   *internal.Logger
	now      func() time.Time

	// loadTimeout bounds the shared cold load, which outlives any one caller
	loadTimeout time.Duration

	group singleflight.Group

	mu       sync.RWMutex
	snapshot *Snapshot
}

// New creates a session over source under the given policy
func New(source ports.DatasetSource, policy stats.Policy, logger *internal.Logger) *Session {
	id := core.NewSessionID()
	return &Session{
		id:       id,
		source:   source,
		detector: target.NewDetector(policy),
		logger:   logger.With("session_id", id.String()),
		now:      time.Now,
	}
}

// WithLoadTimeout bounds each cold load. Zero leaves it to the source.
func (s *Session) WithLoadTimeout(d time.Duration) *Session {
	s.loadTimeout = d
	return s
}

// ID returns the session identifier
func (s *Session) ID() core.SessionID { return s.id }

// Loaded reports whether a snapshot is cached
func (s *Session) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot != nil
}

// Snapshot returns the cached snapshot, loading it on first use. ctx bounds
// only this caller's wait; the shared load keeps running for other waiters.
func (s *Session) Snapshot(ctx context.Context) (*Snapshot, error) {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()
	if snap != nil {
		s.logger.Trace("snapshot cache hit")
		return snap, nil
	}

	ch := s.group.DoChan(snapshotKey, func() (interface{}, error) {
		loadCtx := context.WithoutCancel(ctx)
		if s.loadTimeout > 0 {
			var cancel context.CancelFunc
			loadCtx, cancel = context.WithTimeout(loadCtx, s.loadTimeout)
			defer cancel()
		}
		return s.load(loadCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	}
}

func (s *Session) load(ctx context.Context) (*Snapshot, error) {
	s.mu.RLock()
	cached := s.snapshot
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	start := s.now()
	s.logger.Info("loading dataset from %s", s.source.Describe())

	ds, err := s.source.Load(ctx)
	if err != nil {
		s.logger.Error("dataset load failed: %v", err)
		return nil, fmt.Errorf("load %s: %w", s.source.Describe(), err)
	}

	outcome, err := s.detector.Resolve(ds)
	if err != nil {
		s.logger.Error("outcome detection failed: %v", err)
		return nil, err
	}

	snap := &Snapshot{
		Dataset:  ds,
		Outcome:  outcome,
		Source:   s.source.Describe(),
		LoadedAt: s.now(),
	}

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()

	s.logger.Info("dataset ready: %d rows, %d columns, outcome %s (%d positive) in %s",
		ds.Rows(), len(ds.Names()), outcome.Column(), outcome.Successes(), snap.LoadedAt.Sub(start))
	return snap, nil
}
