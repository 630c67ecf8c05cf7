package download

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"mugen/internal/domain"
	"mugen/internal/sharedhttp"
	"mugen/internal/templater"

	"github.com/avast/retry-go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// PageResolver returns the ordered page URLs of a chapter.
type PageResolver interface {
	ResolvePageURLs(ctx context.Context, chapterID string) ([]string, error)
}

// ChapterStore is the part of the library the orchestrator writes to.
type ChapterStore interface {
	HasChapter(titleID, chapterID string) bool
	AppendChapter(title domain.Title, chapterID, chapterName string, pagePaths []string) error
}

type EventKind int

const (
	EventStarted EventKind = iota
	EventCompleted
	EventFailed
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventCompleted:
		return "completed"
	case EventFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type Event struct {
	Kind        EventKind
	TitleID     string
	ChapterID   string
	ChapterName string
	Pages       int
	Err         error
}

type Notifier interface {
	Notify(Event)
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(Event)

func (f NotifierFunc) Notify(e Event) { f(e) }

type Option func(*Orchestrator)

func WithNotifier(n Notifier) Option {
	return func(o *Orchestrator) { o.notifier = n }
}

func WithClient(c *http.Client) Option {
	return func(o *Orchestrator) { o.client = c }
}

func WithRetryDelay(d time.Duration) Option {
	return func(o *Orchestrator) { o.retryDelay = d }
}

// Orchestrator downloads chapter pages to disk and records finished chapters
// in the library.
type Orchestrator struct {
	resolver PageResolver
	store    ChapterStore
	log      zerolog.Logger
	notifier Notifier
	client   *http.Client

	pagesDir           string
	naming             string
	chapterConcurrency int
	pageConcurrency    int
	attempts           uint
	retryDelay         time.Duration

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewOrchestrator(resolver PageResolver, store ChapterStore, cfg *domain.Config, log zerolog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		resolver:           resolver,
		store:              store,
		log:                log,
		client:             sharedhttp.NewClient(time.Duration(cfg.HTTPTimeout) * time.Second),
		pagesDir:           cfg.PagesDir,
		naming:             cfg.ChapterNaming,
		chapterConcurrency: max(cfg.ChapterConcurrency, 1),
		pageConcurrency:    max(cfg.PageConcurrency, 1),
		attempts:           uint(max(cfg.DownloadAttempts, 1)),
		retryDelay:         3 * time.Second,
		inFlight:           make(map[string]struct{}),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// IsDownloading reports whether chapterID is currently being fetched.
func (o *Orchestrator) IsDownloading(chapterID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	_, ok := o.inFlight[chapterID]
	return ok
}

// Statuses returns a snapshot of the chapters currently in flight.
func (o *Orchestrator) Statuses() map[string]bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make(map[string]bool, len(o.inFlight))
	for id := range o.inFlight {
		out[id] = true
	}
	return out
}

func (o *Orchestrator) claim(chapterID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.inFlight[chapterID]; ok {
		return false
	}
	o.inFlight[chapterID] = struct{}{}
	return true
}

func (o *Orchestrator) release(chapterID string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	delete(o.inFlight, chapterID)
}

func (o *Orchestrator) notify(e Event) {
	if o.notifier != nil {
		o.notifier.Notify(e)
	}
}

// DownloadChapter fetches every page of chapterID and appends the chapter to
// the library. A chapter already in the library or already in flight is
// skipped. If any page fails the chapter directory is removed and nothing is
// recorded.
func (o *Orchestrator) DownloadChapter(ctx context.Context, title domain.Title, chapterID, chapterName string) error {
	if !o.claim(chapterID) {
		o.log.Debug().Str("chapter", chapterID).Msg("chapter download already in progress")
		return nil
	}
	defer o.release(chapterID)

	// checked under the claim so a download finishing in between is seen
	if o.store.HasChapter(title.ID, chapterID) {
		o.log.Debug().Str("chapter", chapterID).Msg("chapter already downloaded")
		return nil
	}

	event := Event{TitleID: title.ID, ChapterID: chapterID, ChapterName: chapterName}

	event.Kind = EventStarted
	o.notify(event)

	paths, err := o.fetchChapter(ctx, title.ID, chapterID)
	if err == nil {
		err = o.store.AppendChapter(title, chapterID, chapterName, paths)
	}

	if err != nil {
		o.log.Error().Err(err).Str("title", title.ID).Str("chapter", chapterID).Msg("chapter download failed")

		event.Kind = EventFailed
		event.Err = err
		o.notify(event)
		return err
	}

	o.log.Info().Str("title", title.DisplayName()).Str("chapter", chapterName).Int("pages", len(paths)).Msg("chapter downloaded")

	event.Kind = EventCompleted
	event.Pages = len(paths)
	o.notify(event)

	return nil
}

// DownloadMany downloads chapters of one title with bounded concurrency. A
// failing chapter does not stop its siblings; failures are returned keyed by
// chapter id.
func (o *Orchestrator) DownloadMany(ctx context.Context, title domain.Title, chapters []domain.ChapterSummary) map[string]error {
	var (
		g      errgroup.Group
		mu     sync.Mutex
		failed = make(map[string]error)
	)

	g.SetLimit(o.chapterConcurrency)

	for _, chapter := range chapters {
		g.Go(func() error {
			name := templater.ChapterName(o.naming, title, chapter)

			if err := o.DownloadChapter(ctx, title, chapter.ID, name); err != nil {
				mu.Lock()
				failed[chapter.ID] = err
				mu.Unlock()
			}
			return nil
		})
	}

	_ = g.Wait()

	return failed
}

func (o *Orchestrator) fetchChapter(ctx context.Context, titleID, chapterID string) ([]string, error) {
	urls, err := o.resolver.ResolvePageURLs(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		return nil, domain.NewOpError("download chapter", chapterID, domain.ErrChapterUnavailable, errors.New("chapter has no pages"))
	}

	dir := filepath.Join(o.pagesDir, titleID, chapterID)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, domain.NewOpError("download chapter", chapterID, domain.ErrPageFetch, err)
	}

	paths := make([]string, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.pageConcurrency)

	for i, pageURL := range urls {
		g.Go(func() error {
			p, err := o.fetchPage(gctx, pageURL, filepath.Join(dir, fmt.Sprintf("%03d", i+1)))
			if err != nil {
				return errors.Wrapf(err, "page %d", i+1)
			}
			paths[i] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			o.log.Warn().Err(rmErr).Str("dir", dir).Msg("could not remove partial chapter")
		}
		return nil, domain.NewOpError("download chapter", chapterID, domain.ErrPageFetch, err)
	}

	return paths, nil
}

// fetchPage downloads a single page and returns the path it was written to.
func (o *Orchestrator) fetchPage(ctx context.Context, pageURL, filenameNoExt string) (string, error) {
	var filename string

	retryErr := retry.Do(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return errors.Wrap(err, "failed to create request")
		}

		req.Header.Set("User-Agent", sharedhttp.UserAgent)

		resp, err := sharedhttp.ExecRequest(o.client, req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		filename, err = appendImageExtension(resp, pageURL, filenameNoExt)
		if err != nil {
			return err
		}

		out, err := os.Create(filename)
		if err != nil {
			return err
		}
		defer out.Close()

		readBuf := bufio.NewReader(resp.Body)
		writeBuf := bufio.NewWriter(out)

		if _, err := io.Copy(writeBuf, readBuf); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrTransport, err)
		}

		return writeBuf.Flush()
	},
		retry.Context(ctx),
		retry.Attempts(o.attempts),
		retry.Delay(o.retryDelay),
		retry.MaxJitter(time.Second*1),
		retry.LastErrorOnly(true),
		// only transport failures and recoverable statuses are worth another attempt
		retry.RetryIf(sharedhttp.IsRecoverable),
	)

	return filename, retryErr
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// appendImageExtension keeps the extension of the page URL and falls back to
// the response Content-Type when the URL has none.
func appendImageExtension(resp *http.Response, pageURL, filename string) (string, error) {
	if u, err := url.Parse(pageURL); err == nil {
		ext := strings.ToLower(path.Ext(u.Path))
		switch ext {
		case ".jpg", ".jpeg", ".png", ".gif", ".webp":
			return filename + ext, nil
		}
	}

	contentType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if ext, ok := imageExtensions[contentType]; ok {
		return filename + ext, nil
	}

	return filename, fmt.Errorf("unsupported content type: %s", resp.Header.Get("Content-Type"))
}
