package domain

import "context"

// Catalog is the read-only view of the remote manga catalog.
type Catalog interface {
	String() string
	FetchChapterFeed(ctx context.Context, titleID string) ([]ChapterSummary, error)
	FetchPageSet(ctx context.Context, chapterID string) (ChapterPageSet, error)
	SearchTitles(ctx context.Context, query string) ([]Title, error)
	FetchCuratedTitleIDs(ctx context.Context) ([]string, error)
	FetchTitlesByIDs(ctx context.Context, ids []string) ([]Title, error)
	FetchTitle(ctx context.Context, id string) (Title, error)
}
