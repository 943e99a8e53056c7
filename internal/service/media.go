package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/vbonduro/cmsadmin/internal/api"
	"github.com/vbonduro/cmsadmin/internal/domain"
	"github.com/vbonduro/cmsadmin/internal/mutate"
	"github.com/vbonduro/cmsadmin/internal/paginate"
	"github.com/vbonduro/cmsadmin/internal/upload"
)

// mediaAPI is the subset of api.Client that MediaLibrary requires.
type mediaAPI interface {
	ListMedia(ctx context.Context, p api.ListParams) (api.Page[domain.MediaItem], error)
	UploadMedia(ctx context.Context, f api.UploadFile, progress func(float64)) (*domain.MediaItem, error)
	DeleteMedia(ctx context.Context, id string) error
}

// MediaLibrary is the scrolling media browser. Every item it holds has its
// Kind classified and its URL made absolute.
type MediaLibrary struct {
	Pages *paginate.Paginator[domain.MediaItem]

	api     mediaAPI
	base    string
	mut     *mutate.Mutator[domain.MediaItem]
	tracker *upload.Tracker[domain.MediaItem]
	logger  *slog.Logger

	mu       sync.Mutex
	folders  []paginate.Group[domain.MediaItem]
	stats    paginate.Stats
	progress upload.Progress
}

// NewMediaLibrary builds the library. Relative media URLs are resolved
// against s.MediaBaseURL, or origin when that is empty. onProgress may be nil.
func NewMediaLibrary(client mediaAPI, n Notifier, s Settings, origin string, onProgress func(upload.Progress), logger *slog.Logger) *MediaLibrary {
	logger = loggerOr(logger).With("page", "media")
	base := s.MediaBaseURL
	if base == "" {
		base = origin
	}
	l := &MediaLibrary{api: client, base: base, logger: logger}
	l.Pages = paginate.New(paginate.Config[domain.MediaItem]{
		Fetch:    l.fetch,
		IDOf:     func(m domain.MediaItem) string { return m.ID },
		Derive:   l.derive,
		PageSize: s.MediaPageSize,
		Debounce: s.Debounce,
		FailMsg:  "Failed to load media",
		Logger:   logger,
	})
	l.mut = mutate.New[domain.MediaItem](l.Pages, n, n, logger)
	l.tracker = upload.NewTracker(upload.Config[domain.MediaItem]{
		Send: func(ctx context.Context, f upload.File, body io.Reader, progress func(float64)) (domain.MediaItem, error) {
			item, err := client.UploadMedia(ctx, api.UploadFile{Name: f.Name, MimeType: f.MimeType, Size: f.Size, Body: body}, progress)
			if err != nil {
				return domain.MediaItem{}, err
			}
			return l.normalize(*item), nil
		},
		Insert: l.Pages.Prepend,
		Resync: func(ctx context.Context) {
			if err := l.Pages.LoadPage(ctx, 1, false); err != nil {
				logger.Warn("resync after upload failed", "error", err)
			}
		},
		OnProgress: func(p upload.Progress) {
			l.mu.Lock()
			l.progress = p
			l.mu.Unlock()
			if onProgress != nil {
				onProgress(p)
			}
		},
		Notifier: n,
		Hold:     s.UploadHold,
		Logger:   logger,
	})
	return l
}

func (l *MediaLibrary) normalize(m domain.MediaItem) domain.MediaItem {
	m.Kind = domain.ClassifyMediaType(m)
	m.URL = domain.ResolveURL(l.base, m.URL)
	return m
}

func (l *MediaLibrary) fetch(ctx context.Context, p api.ListParams) (api.Page[domain.MediaItem], error) {
	page, err := l.api.ListMedia(ctx, p)
	if err != nil {
		return page, err
	}
	for i := range page.Items {
		page.Items[i] = l.normalize(page.Items[i])
	}
	return page, nil
}

// derive runs with the paginator locked.
func (l *MediaLibrary) derive(items []domain.MediaItem) {
	folders := paginate.GroupBy(items, domain.FolderOf)
	stats := paginate.ComputeStats(items, func(m domain.MediaItem) int64 { return m.Size })
	l.mu.Lock()
	l.folders = folders
	l.stats = stats
	l.mu.Unlock()
}

// Folders groups every loaded item by the directory of its URL.
func (l *MediaLibrary) Folders() []paginate.Group[domain.MediaItem] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.folders)
}

// Stats covers every loaded item, not just the last page.
func (l *MediaLibrary) Stats() paginate.Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

func (l *MediaLibrary) Progress() upload.Progress {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.progress
}

// OfKind returns the loaded items of one media type.
func (l *MediaLibrary) OfKind(kind domain.MediaType) []domain.MediaItem {
	items := l.Pages.State().Items
	return slices.DeleteFunc(items, func(m domain.MediaItem) bool { return m.Kind != kind })
}

func (l *MediaLibrary) Upload(ctx context.Context, files []upload.File) upload.Result[domain.MediaItem] {
	return l.tracker.Upload(ctx, files)
}

func (l *MediaLibrary) Delete(ctx context.Context, id string) error {
	name := id
	if m, ok := l.Pages.Lookup(id); ok && m.Name != "" {
		name = m.Name
	}
	return l.mut.Delete(ctx, id,
		fmt.Sprintf("Delete %s?", name),
		func(ctx context.Context) error { return l.api.DeleteMedia(ctx, id) },
		"Failed to delete file",
	)
}

func (l *MediaLibrary) BulkDelete(ctx context.Context, ids []string) (mutate.BulkResult, error) {
	return l.mut.BulkDelete(ctx, ids,
		fmt.Sprintf("Delete %d selected files?", len(ids)),
		l.api.DeleteMedia,
		"file",
	)
}

func (l *MediaLibrary) Close() { l.Pages.Close() }
