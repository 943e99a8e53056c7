// Package paginate accumulates pages of a list endpoint into one growing
// in-memory list, for views that scroll instead of paging.
package paginate

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/vbonduro/cmsadmin/internal/api"
)

type Fetcher[T any] func(ctx context.Context, p api.ListParams) (api.Page[T], error)

type State[T any] struct {
	Items   []T
	Page    int
	HasMore bool
	Loading bool
	Search  string
	Err     string
}

type Config[T any] struct {
	Fetch Fetcher[T]
	IDOf  func(T) string
	// Derive runs on the complete list after every change. It is called with
	// the paginator locked and must not call back into it.
	Derive    func([]T)
	PageSize  int
	Debounce  time.Duration
	Threshold int
	FailMsg   string
	Logger    *slog.Logger
}

type Paginator[T any] struct {
	cfg Config[T]

	root context.Context
	stop context.CancelFunc

	mu    sync.Mutex
	state State[T]
	// applied is the search the loaded items belong to. state.Search runs
	// ahead of it while a debounced search is pending.
	applied string
	gen     uint64
	timer   *time.Timer
	closed  bool
	pending sync.WaitGroup
}

func New[T any](cfg Config[T]) *Paginator[T] {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 250 * time.Millisecond
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = 5
	}
	if cfg.FailMsg == "" {
		cfg.FailMsg = "Failed to load"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Derive == nil {
		cfg.Derive = func([]T) {}
	}
	root, stop := context.WithCancel(context.Background())
	return &Paginator[T]{cfg: cfg, root: root, stop: stop, state: State[T]{HasMore: true}}
}

func (p *Paginator[T]) State() State[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.state
	s.Items = slices.Clone(s.Items)
	return s
}

// LoadPage fetches page n. With appendPage the items are added to the end of
// the list, skipping ids already present; otherwise they replace it. A
// replace supersedes any load in flight. An append is skipped while another
// load is running.
func (p *Paginator[T]) LoadPage(ctx context.Context, n int, appendPage bool) error {
	return p.load(ctx, n, appendPage, false, 0)
}

// LoadMore appends the next page unless a load is running or the server has
// reported no more pages. While a search change is pending it continues the
// results already shown.
func (p *Paginator[T]) LoadMore(ctx context.Context) error {
	return p.load(ctx, 0, true, true, 0)
}

// NearEnd is the scroll trigger: it loads more when lastVisible is within
// Threshold items of the end of the list.
func (p *Paginator[T]) NearEnd(ctx context.Context, lastVisible int) error {
	p.mu.Lock()
	near := lastVisible >= len(p.state.Items)-p.cfg.Threshold
	p.mu.Unlock()
	if !near {
		return nil
	}
	return p.LoadMore(ctx)
}

// SetSearch changes the search text. After the debounce delay the list is
// replaced with page 1 of the new results.
func (p *Paginator[T]) SetSearch(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.state.Search = s
	p.stopTimerLocked()
	p.gen++
	g := p.gen
	p.pending.Add(1)
	p.timer = time.AfterFunc(p.cfg.Debounce, func() {
		defer p.pending.Done()
		if err := p.load(p.root, 1, false, false, g); err != nil {
			p.cfg.Logger.Debug("search load failed", "search", s, "error", err)
		}
	})
}

// Wait blocks until no debounced search is pending or running.
func (p *Paginator[T]) Wait() { p.pending.Wait() }

func (p *Paginator[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.gen++
	p.stopTimerLocked()
	p.stop()
}

func (p *Paginator[T]) stopTimerLocked() {
	if p.timer != nil && p.timer.Stop() {
		p.pending.Done()
	}
	p.timer = nil
}

// load fetches one page. n of 0 means the page after the current one. A
// non-zero expect aborts unless it is still the current generation.
func (p *Paginator[T]) load(ctx context.Context, n int, appendPage, needMore bool, expect uint64) error {
	p.mu.Lock()
	if p.closed || (expect != 0 && expect != p.gen) {
		p.mu.Unlock()
		return nil
	}
	if appendPage && (p.state.Loading || (needMore && !p.state.HasMore)) {
		p.mu.Unlock()
		return nil
	}
	if !appendPage {
		if expect == 0 {
			p.stopTimerLocked()
		}
		p.gen++
	}
	if n == 0 {
		n = p.state.Page + 1
	}
	g := p.gen
	p.state.Loading = true
	search := p.state.Search
	if appendPage {
		search = p.applied
	}
	params := api.ListParams{Page: n, Limit: p.cfg.PageSize, Search: search}
	p.mu.Unlock()

	page, err := p.cfg.Fetch(ctx, params)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || g != p.gen {
		p.cfg.Logger.Debug("stale page discarded", "generation", g, "page", n)
		return nil
	}
	p.state.Loading = false
	if errors.Is(err, api.ErrNoToken) {
		return err
	}
	if err != nil {
		p.state.Err = api.Message(err, p.cfg.FailMsg)
		p.cfg.Logger.Error("page load failed", "page", n, "error", err)
		return err
	}

	if appendPage {
		seen := make(map[string]bool, len(p.state.Items))
		for _, v := range p.state.Items {
			seen[p.cfg.IDOf(v)] = true
		}
		items := slices.Clone(p.state.Items)
		for _, v := range page.Items {
			if !seen[p.cfg.IDOf(v)] {
				items = append(items, v)
			}
		}
		p.state.Items = items
	} else {
		p.state.Items = slices.Clone(page.Items)
		p.applied = search
	}
	p.state.Page = n
	p.state.HasMore = page.HasMore
	p.state.Err = ""
	p.cfg.Logger.Debug("page loaded", "page", n, "count", len(page.Items), "total_loaded", len(p.state.Items))
	p.cfg.Derive(p.state.Items)
	return nil
}

// Prepend puts v at the head of the list, e.g. a fresh upload.
func (p *Paginator[T]) Prepend(v T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Items = append([]T{v}, p.state.Items...)
	p.cfg.Derive(p.state.Items)
}

func (p *Paginator[T]) Lookup(id string) (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i := p.indexLocked(id); i >= 0 {
		return p.state.Items[i], true
	}
	var zero T
	return zero, false
}

func (p *Paginator[T]) Replace(id string, v T) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.indexLocked(id)
	if i < 0 {
		return false
	}
	p.state.Items = slices.Clone(p.state.Items)
	p.state.Items[i] = v
	p.cfg.Derive(p.state.Items)
	return true
}

func (p *Paginator[T]) Remove(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.indexLocked(id)
	if i < 0 {
		return false
	}
	p.state.Items = slices.Delete(slices.Clone(p.state.Items), i, i+1)
	p.cfg.Derive(p.state.Items)
	return true
}

func (p *Paginator[T]) indexLocked(id string) int {
	return slices.IndexFunc(p.state.Items, func(v T) bool { return p.cfg.IDOf(v) == id })
}
