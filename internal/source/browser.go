package source

import (
	"context"
	"strings"
	"sync"

	"mugen/internal/domain"
)

// Browser caches the last successful catalog listing shown to the user. The
// curated home list is kept separately so clearing a search does not refetch
// it.
type Browser struct {
	catalog domain.Catalog

	mu      sync.Mutex
	home    []domain.Title
	results []domain.Title
	query   string
}

func NewBrowser(catalog domain.Catalog) *Browser {
	return &Browser{catalog: catalog}
}

// Home returns the curated titles, fetching them on first use.
func (b *Browser) Home(ctx context.Context) ([]domain.Title, error) {
	b.mu.Lock()
	if b.home != nil {
		b.results = b.home
		b.query = ""
		home := b.home
		b.mu.Unlock()
		return home, nil
	}
	b.mu.Unlock()

	ids, err := b.catalog.FetchCuratedTitleIDs(ctx)
	if err != nil {
		return nil, err
	}

	titles, err := b.catalog.FetchTitlesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if titles == nil {
		titles = []domain.Title{}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.home = titles
	b.results = titles
	b.query = ""

	return titles, nil
}

// Search runs a title search. An empty query drops the cached search results
// and falls back to the home list.
func (b *Browser) Search(ctx context.Context, query string) ([]domain.Title, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		b.mu.Lock()
		b.results = nil
		b.query = ""
		b.mu.Unlock()
		return b.Home(ctx)
	}

	titles, err := b.catalog.SearchTitles(ctx, query)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.results = titles
	b.query = query

	return titles, nil
}

// Results returns the cached listing and the query that produced it.
func (b *Browser) Results() ([]domain.Title, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.results, b.query
}

func (b *Browser) Invalidate() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.home = nil
	b.results = nil
	b.query = ""
}
