// Package loader owns the raw headers and rows of the catalogue currently on
// screen and replaces them whenever the data locator changes.
package loader

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/techjojo/catalogue/internal/catalog"
	"go.uber.org/zap"
)

// Fetcher retrieves the CSV text behind a locator.
type Fetcher interface {
	FetchCSV(ctx context.Context, url string) (string, error)
}

// State is a snapshot of the loader's published data. Failure is the error
// behind Err, for callers that need its type.
type State struct {
	Locator    string
	Headers    []string
	Rows       []catalog.RawRow
	Loading    bool
	Err        string
	Failure    error
	Generation uint64
}

// Loader fetches and parses catalogue data. Only the most recent Load may
// publish: results of superseded requests are discarded.
type Loader struct {
	fetcher  Fetcher
	fallback catalog.Table
	logger   *zap.Logger

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	state  State
}

// New returns a loader that serves fallback when no locator is configured.
func New(fetcher Fetcher, fallback catalog.Table, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		fetcher:  fetcher,
		fallback: fallback,
		logger:   logger,
		state:    State{Headers: fallback.Headers, Rows: fallback.Rows},
	}
}

// State returns the last published state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Load switches to locator and blocks until its data is published or
// discarded. The boolean is false when a later Load or Close superseded this
// one; the returned state is then whatever is current.
func (l *Loader) Load(ctx context.Context, locator string) (State, bool) {
	locator = strings.TrimSpace(locator)

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.gen++
	gen := l.gen

	if locator == "" {
		l.state = State{
			Headers:    l.fallback.Headers,
			Rows:       l.fallback.Rows,
			Generation: gen,
		}
		st := l.state
		l.mu.Unlock()
		l.logger.Debug("using fallback rows", zap.Int("rows", len(st.Rows)))
		return st, true
	}

	fetchCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.state = State{
		Locator:    locator,
		Headers:    l.state.Headers,
		Rows:       l.state.Rows,
		Loading:    true,
		Generation: gen,
	}
	l.mu.Unlock()

	l.logger.Debug("fetching catalogue", zap.String("locator", locator), zap.Uint64("generation", gen))
	body, err := l.fetcher.FetchCSV(fetchCtx, locator)
	var table catalog.Table
	if err == nil {
		table = catalog.ParseCSV(body)
	}
	cancel()

	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.gen {
		l.logger.Debug("discarding stale result",
			zap.String("locator", locator),
			zap.Uint64("generation", gen),
			zap.Uint64("current", l.gen),
		)
		return l.state, false
	}
	l.cancel = nil

	if err != nil {
		l.logger.Warn("catalogue load failed", zap.String("locator", locator), zap.Error(err))
		l.state.Loading = false
		l.state.Failure = fmt.Errorf("loading products: %w", err)
		l.state.Err = l.state.Failure.Error()
		return l.state, true
	}

	l.state = State{
		Locator:    locator,
		Headers:    table.Headers,
		Rows:       table.Rows,
		Generation: gen,
	}
	l.logger.Debug("catalogue loaded",
		zap.String("locator", locator),
		zap.Int("headers", len(table.Headers)),
		zap.Int("rows", len(table.Rows)),
	)
	return l.state, true
}

// Close abandons any in-flight load. Results that arrive afterwards are
// discarded.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.state.Loading = false
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}
