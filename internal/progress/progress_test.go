package progress

import (
	"os"
	"path/filepath"
	"testing"

	"mugen/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chapter(id, label string) domain.ChapterSummary {
	return domain.ChapterSummary{ID: id, Attributes: domain.ChapterAttributes{Chapter: &label}}
}

func ids(records []domain.LastRead) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestStore_Upsert(t *testing.T) {
	store := New(t.TempDir(), zerolog.Nop())

	require.NoError(t, store.Upsert("A", domain.Title{ID: "A"}, chapter("a1", "1")))
	require.NoError(t, store.Upsert("B", domain.Title{ID: "B"}, chapter("b1", "1")))
	require.NoError(t, store.Upsert("A", domain.Title{ID: "A"}, chapter("a2", "2")))

	records := store.GetAll()
	assert.Equal(t, []string{"A", "B"}, ids(records))
	assert.Equal(t, "a2", records[0].Chapter.ID)

	got, ok := store.Get("A")
	require.True(t, ok)
	label, _ := got.Chapter.Label()
	assert.Equal(t, "2", label)

	_, ok = store.Get("C")
	assert.False(t, ok)
}

func TestStore_RemoveAt(t *testing.T) {
	store := New(t.TempDir(), zerolog.Nop())

	for _, id := range []string{"A", "B", "C", "D"} {
		require.NoError(t, store.Upsert(id, domain.Title{ID: id}, chapter(id+"1", "1")))
	}

	require.NoError(t, store.RemoveAt([]int{3, 1, 1, 9}))
	assert.Equal(t, []string{"A", "C"}, ids(store.GetAll()))
}

func TestStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := New(dir, zerolog.Nop())

	name := "Naruto"
	title := domain.Title{ID: "A", Type: "manga", Attributes: domain.TitleAttributes{Title: domain.LocalizedString{En: &name}}}
	require.NoError(t, store.Upsert("A", title, chapter("a1", "700")))

	assert.Equal(t, store.GetAll(), New(dir, zerolog.Nop()).GetAll())
}

func TestStore_Corrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("garbage"), 0o644))

	store := New(dir, zerolog.Nop())
	assert.Empty(t, store.GetAll())

	require.NoError(t, store.Upsert("A", domain.Title{ID: "A"}, chapter("a1", "1")))
	assert.Len(t, store.GetAll(), 1)
}
