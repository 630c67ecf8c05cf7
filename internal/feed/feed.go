package feed

import (
	"context"
	"strings"

	"mugen/internal/domain"
	"mugen/internal/parse"
)

// Assembler turns a title's remote chapter feed into the list shown to the
// reader.
type Assembler struct {
	catalog domain.Catalog
}

func NewAssembler(catalog domain.Catalog) *Assembler {
	return &Assembler{catalog: catalog}
}

// GetOrderedChapters fetches the feed and re-sorts it by chapter label in
// natural order. The server already orders by volume and chapter, but
// decimal and special chapters are not reliably monotonic there.
func (a *Assembler) GetOrderedChapters(ctx context.Context, titleID string) ([]domain.ChapterSummary, error) {
	chapters, err := a.catalog.FetchChapterFeed(ctx, titleID)
	if err != nil {
		return nil, domain.NewOpError("get chapters", titleID, domain.ErrFeedUnavailable, err)
	}

	parse.SortChapters(chapters)

	return chapters, nil
}

// Resolver turns a chapter id into the ordered list of data-saver page URLs.
type Resolver struct {
	catalog domain.Catalog
}

func NewResolver(catalog domain.Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

func (r *Resolver) ResolvePageURLs(ctx context.Context, chapterID string) ([]string, error) {
	set, err := r.catalog.FetchPageSet(ctx, chapterID)
	if err != nil {
		return nil, err
	}

	return DataSaverURLs(set), nil
}

// DataSaverURLs builds baseUrl/data-saver/hash/file for every reduced
// quality page, keeping reading order.
func DataSaverURLs(set domain.ChapterPageSet) []string {
	base := strings.TrimRight(set.BaseURL, "/")

	urls := make([]string, 0, len(set.DataSaver))
	for _, page := range set.DataSaver {
		urls = append(urls, base+"/data-saver/"+set.Hash+"/"+page)
	}

	return urls
}
