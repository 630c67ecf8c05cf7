package feed

import (
	"context"
	"testing"

	"mugen/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	domain.Catalog

	chapters []domain.ChapterSummary
	pageSet  domain.ChapterPageSet
	err      error
}

func (f *fakeCatalog) FetchChapterFeed(context.Context, string) ([]domain.ChapterSummary, error) {
	return f.chapters, f.err
}

func (f *fakeCatalog) FetchPageSet(_ context.Context, chapterID string) (domain.ChapterPageSet, error) {
	if f.err != nil {
		return domain.ChapterPageSet{}, f.err
	}
	set := f.pageSet
	set.ChapterID = chapterID
	return set, nil
}

func labeled(id, label string) domain.ChapterSummary {
	return domain.ChapterSummary{ID: id, Attributes: domain.ChapterAttributes{Chapter: &label}}
}

func TestAssembler_GetOrderedChapters(t *testing.T) {
	catalog := &fakeCatalog{chapters: []domain.ChapterSummary{
		labeled("a", "10"),
		labeled("b", "2"),
		labeled("c", "1"),
		labeled("d", "10.5"),
	}}

	chapters, err := NewAssembler(catalog).GetOrderedChapters(context.Background(), "title")
	require.NoError(t, err)

	var got []string
	for _, c := range chapters {
		label, _ := c.Label()
		got = append(got, label)
	}
	assert.Equal(t, []string{"1", "2", "10", "10.5"}, got)
}

func TestAssembler_GetOrderedChapters_Error(t *testing.T) {
	cause := domain.NewOpError("fetch chapter feed", "title", domain.ErrTransport, assert.AnError)
	catalog := &fakeCatalog{err: cause}

	_, err := NewAssembler(catalog).GetOrderedChapters(context.Background(), "title")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFeedUnavailable)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.Contains(t, err.Error(), "title")
}

func TestResolver_ResolvePageURLs(t *testing.T) {
	catalog := &fakeCatalog{pageSet: domain.ChapterPageSet{
		BaseURL:   "https://cdn.example.org/",
		Hash:      "h4sh",
		Data:      []string{"full-1.png", "full-2.png"},
		DataSaver: []string{"z-3.jpg", "a-1.jpg", "m-2.jpg"},
	}}

	urls, err := NewResolver(catalog).ResolvePageURLs(context.Background(), "chapter")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://cdn.example.org/data-saver/h4sh/z-3.jpg",
		"https://cdn.example.org/data-saver/h4sh/a-1.jpg",
		"https://cdn.example.org/data-saver/h4sh/m-2.jpg",
	}, urls)
}

func TestResolver_ResolvePageURLs_Unavailable(t *testing.T) {
	catalog := &fakeCatalog{err: domain.NewOpError("fetch page set", "chapter", domain.ErrChapterUnavailable, nil)}

	_, err := NewResolver(catalog).ResolvePageURLs(context.Background(), "chapter")
	assert.ErrorIs(t, err, domain.ErrChapterUnavailable)
}
