// Package listing keeps a filtered, paged list in sync with a list endpoint.
//
// Every change of search text, filter or page schedules a fetch. Only the
// response for the latest parameters is applied: each fetch carries a
// generation number, and a response whose generation is no longer current is
// dropped.
package listing

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/vbonduro/cmsadmin/internal/api"
)

// Fetcher loads one page for the given parameters.
type Fetcher[T any] func(ctx context.Context, p api.ListParams) (api.Page[T], error)

// State is a snapshot of a controller. Snapshots are copies; changing one does
// not affect the controller.
type State[T any] struct {
	Items      []T
	Page       int
	TotalPages int
	Total      int
	Search     string
	Filters    map[string]string
	Loading    bool
	// Loaded is set once any fetch has succeeded.
	Loaded bool
	Err    string
	// Version increases with every published snapshot.
	Version uint64

	skeletons int
}

// Skeletons is how many placeholder rows to show: the configured count while
// the first load is in flight, 0 otherwise.
func (s State[T]) Skeletons() int {
	if s.Loading && !s.Loaded {
		return s.skeletons
	}
	return 0
}

func (s State[T]) clone() State[T] {
	s.Items = slices.Clone(s.Items)
	s.Filters = maps.Clone(s.Filters)
	return s
}

type config struct {
	debounce  time.Duration
	pageSize  int
	skeletons int
	failMsg   string
	filters   map[string]string
	search    string
	page      int
	logger    *slog.Logger
	parent    context.Context
}

type Option func(*config)

func WithDebounce(d time.Duration) Option { return func(c *config) { c.debounce = d } }
func WithLogger(l *slog.Logger) Option    { return func(c *config) { c.logger = l } }

// WithContext ties the controller to ctx. Once ctx is done every fetch is
// cancelled and no response changes the state.
func WithContext(ctx context.Context) Option { return func(c *config) { c.parent = ctx } }

// WithPageSize sets the page size. Values below 1 keep the default.
func WithPageSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithFailMessage sets the error shown when a load fails without a server
// message.
func WithFailMessage(msg string) Option { return func(c *config) { c.failMsg = msg } }

// WithSkeletons sets the placeholder count for the first load, clamped to 5..8.
func WithSkeletons(n int) Option {
	return func(c *config) { c.skeletons = min(max(n, 5), 8) }
}

// WithSearch seeds the initial search text.
func WithSearch(s string) Option { return func(c *config) { c.search = s } }

// WithPage sets the first page to load.
func WithPage(n int) Option { return func(c *config) { c.page = n } }

// WithFilters seeds the initial filter values.
func WithFilters(f map[string]string) Option {
	return func(c *config) { c.filters = maps.Clone(f) }
}

type Controller[T any] struct {
	fetch Fetcher[T]
	idOf  func(T) string
	cfg   config

	parent context.Context
	root   context.Context
	stop   context.CancelFunc

	// pubMu orders delivery to subscribers; delivered is the last Version sent.
	pubMu     sync.Mutex
	delivered uint64

	mu     sync.Mutex
	state  State[T]
	gen    uint64
	cancel context.CancelFunc
	timer  *time.Timer
	closed bool
	subs   []func(State[T])

	// pending counts in-flight fetches and scheduled debounce timers.
	pending sync.WaitGroup
}

func NewController[T any](fetch Fetcher[T], idOf func(T) string, opts ...Option) *Controller[T] {
	cfg := config{
		debounce:  250 * time.Millisecond,
		pageSize:  10,
		skeletons: 6,
		failMsg:   "Failed to load",
		logger:    slog.Default(),
		parent:    context.Background(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	filters := map[string]string{}
	for k, v := range cfg.filters {
		if v != "" {
			filters[k] = v
		}
	}
	root, stop := context.WithCancel(cfg.parent)
	return &Controller[T]{
		fetch:  fetch,
		idOf:   idOf,
		cfg:    cfg,
		parent: cfg.parent,
		root:   root,
		stop:   stop,
		state:  State[T]{Page: max(cfg.page, 1), Search: cfg.search, Filters: filters, skeletons: cfg.skeletons},
	}
}

// Subscribe registers fn to receive a snapshot after every state change.
// Snapshots arrive in Version order; one overtaken by a newer snapshot is not
// delivered. fn may read the controller but must not change it.
func (c *Controller[T]) Subscribe(fn func(State[T])) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Load fetches the current parameters now.
func (c *Controller[T]) Load() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.stopTimerLocked()
	c.launchLocked(c.invalidateLocked())
	c.unlockAndPublish()
}

// Refresh re-fetches the current page, e.g. after a save elsewhere.
func (c *Controller[T]) Refresh() { c.Load() }

// SetSearch changes the search text and resets to page 1. The fetch waits for
// the debounce delay; a newer call within the delay replaces it.
func (c *Controller[T]) SetSearch(s string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.state.Search = s
	c.state.Page = 1
	c.stopTimerLocked()
	g := c.invalidateLocked()
	c.pending.Add(1)
	c.timer = time.AfterFunc(c.cfg.debounce, func() { c.fire(g) })
	c.unlockAndPublish()
}

// SetFilter sets one categorical filter, resets to page 1 and fetches at once.
// An empty value removes the filter.
func (c *Controller[T]) SetFilter(key, value string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if value == "" {
		delete(c.state.Filters, key)
	} else {
		c.state.Filters[key] = value
	}
	c.state.Page = 1
	c.stopTimerLocked()
	c.launchLocked(c.invalidateLocked())
	c.unlockAndPublish()
}

func (c *Controller[T]) SetPage(n int) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.state.Page = max(n, 1)
	c.stopTimerLocked()
	c.launchLocked(c.invalidateLocked())
	c.unlockAndPublish()
}

// Close drops any in-flight response and cancels pending work. Later calls
// are no-ops.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.gen++
	c.stopTimerLocked()
	c.stop()
}

// Wait blocks until no fetch is in flight and no debounced fetch is pending.
func (c *Controller[T]) Wait() { c.pending.Wait() }

// Err returns the error of the context given with WithContext once it is done.
func (c *Controller[T]) Err() error { return c.parent.Err() }

// invalidateLocked makes every outstanding response stale and returns the new
// generation.
func (c *Controller[T]) invalidateLocked() uint64 {
	c.gen++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	return c.gen
}

func (c *Controller[T]) stopTimerLocked() {
	if c.timer != nil && c.timer.Stop() {
		c.pending.Done()
	}
	c.timer = nil
}

func (c *Controller[T]) fire(g uint64) {
	defer c.pending.Done()
	c.mu.Lock()
	if c.closed || g != c.gen {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.launchLocked(g)
	c.unlockAndPublish()
}

func (c *Controller[T]) launchLocked(g uint64) {
	ctx, cancel := context.WithCancel(c.root)
	c.cancel = cancel
	c.state.Loading = true
	params := api.ListParams{
		Page:    c.state.Page,
		Limit:   c.cfg.pageSize,
		Search:  c.state.Search,
		Filters: maps.Clone(c.state.Filters),
	}
	c.pending.Add(1)
	go c.run(ctx, cancel, g, params)
}

func (c *Controller[T]) run(ctx context.Context, cancel context.CancelFunc, g uint64, params api.ListParams) {
	defer c.pending.Done()
	defer cancel()
	c.cfg.logger.Debug("list fetch started", "generation", g, "page", params.Page, "search", params.Search)
	page, err := c.fetch(ctx, params)

	c.mu.Lock()
	if c.closed || g != c.gen {
		c.mu.Unlock()
		c.cfg.logger.Debug("stale list response discarded", "generation", g)
		return
	}
	if c.parent.Err() != nil {
		c.cancel = nil
		c.mu.Unlock()
		c.cfg.logger.Debug("list response discarded, context done", "generation", g)
		return
	}
	c.cancel = nil
	c.state.Loading = false
	switch {
	case errors.Is(err, api.ErrNoToken):
		c.cfg.logger.Debug("list fetch skipped, no token")
	case err != nil:
		c.state.Err = api.Message(err, c.cfg.failMsg)
		c.cfg.logger.Error("list fetch failed", "generation", g, "page", params.Page, "error", err)
	default:
		c.state.Items = page.Items
		if c.state.Items == nil {
			c.state.Items = []T{}
		}
		c.state.TotalPages = max(page.TotalPages, 1)
		c.state.Total = page.Total
		c.state.Loaded = true
		c.state.Err = ""
	}
	c.unlockAndPublish()
}

// unlockAndPublish releases mu and sends a snapshot to every subscriber.
func (c *Controller[T]) unlockAndPublish() {
	c.state.Version++
	snap := c.state.clone()
	subs := slices.Clone(c.subs)
	c.mu.Unlock()
	if len(subs) == 0 {
		return
	}

	c.pubMu.Lock()
	defer c.pubMu.Unlock()
	if snap.Version <= c.delivered {
		return
	}
	c.delivered = snap.Version
	for _, fn := range subs {
		fn(snap)
	}
}

// Lookup returns the loaded item with the given id.
func (c *Controller[T]) Lookup(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexLocked(id); i >= 0 {
		return c.state.Items[i], true
	}
	var zero T
	return zero, false
}

// Replace swaps the item with the given id for v. It reports false when the
// id is not loaded.
func (c *Controller[T]) Replace(id string, v T) bool {
	c.mu.Lock()
	i := c.indexLocked(id)
	if i < 0 {
		c.mu.Unlock()
		return false
	}
	c.state.Items = slices.Clone(c.state.Items)
	c.state.Items[i] = v
	c.unlockAndPublish()
	return true
}

func (c *Controller[T]) Remove(id string) bool {
	c.mu.Lock()
	i := c.indexLocked(id)
	if i < 0 {
		c.mu.Unlock()
		return false
	}
	c.state.Items = slices.Delete(slices.Clone(c.state.Items), i, i+1)
	c.state.Total = max(c.state.Total-1, 0)
	c.unlockAndPublish()
	return true
}

func (c *Controller[T]) Prepend(v T) {
	c.mu.Lock()
	c.state.Items = append([]T{v}, c.state.Items...)
	c.state.Total++
	c.unlockAndPublish()
}

func (c *Controller[T]) indexLocked(id string) int {
	return slices.IndexFunc(c.state.Items, func(v T) bool { return c.idOf(v) == id })
}
