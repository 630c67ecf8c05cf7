package files

import (
	"archive/zip"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"mugen/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, png.Encode(f, img))
}

func testPages(t *testing.T, sizes ...[2]int) []string {
	t.Helper()

	dir := t.TempDir()
	pages := make([]string, 0, len(sizes))
	// names sort opposite to reading order
	for i, s := range sizes {
		p := filepath.Join(dir, string(rune('z'-i))+".png")
		writePNG(t, p, s[0], s[1])
		pages = append(pages, p)
	}
	return pages
}

func zipNames(t *testing.T, path string) []string {
	t.Helper()

	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("CBZ")
	require.NoError(t, err)
	assert.Equal(t, FormatCBZ, f)

	f, err = ParseFormat(".epub")
	require.NoError(t, err)
	assert.Equal(t, FormatEPUB, f)

	_, err = ParseFormat("mobi")
	assert.Error(t, err)
}

func TestCreateCbzArchive_KeepsPageOrder(t *testing.T) {
	pages := testPages(t, [2]int{20, 30}, [2]int{20, 30}, [2]int{20, 30})
	out := filepath.Join(t.TempDir(), "nested", "ch.cbz")

	require.NoError(t, CreateCbzArchive(pages, out, false))
	assert.Equal(t, []string{"001.png", "002.png", "003.png"}, zipNames(t, out))
}

func TestCreateCbzArchive_ManhwaDropsOddWidths(t *testing.T) {
	pages := testPages(t, [2]int{100, 300}, [2]int{400, 50}, [2]int{100, 300}, [2]int{102, 280})
	out := filepath.Join(t.TempDir(), "ch.cbz")

	require.NoError(t, CreateCbzArchive(pages, out, true))
	assert.Equal(t, []string{"001.png", "003.png", "004.png"}, zipNames(t, out))
}

func TestCreatePDF(t *testing.T) {
	pages := testPages(t, [2]int{20, 30}, [2]int{20, 30})
	out := filepath.Join(t.TempDir(), "ch.pdf")

	require.NoError(t, CreatePDF(pages, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestCreateEPUB(t *testing.T) {
	pages := testPages(t, [2]int{20, 30}, [2]int{20, 30})
	out := filepath.Join(t.TempDir(), "book.epub")

	err := CreateEPUB("Title", "About", []EpubChapter{
		{Name: "Ch. 1", Pages: pages[:1]},
		{Name: "Ch. 2", Pages: pages[1:]},
		{Name: "Empty"},
	}, out)
	require.NoError(t, err)

	names := zipNames(t, out)
	assert.Contains(t, names, "mimetype")
	assert.Contains(t, names, "EPUB/images/c001-001.png")
	assert.Contains(t, names, "EPUB/images/c002-001.png")
}

func TestExport(t *testing.T) {
	pages := testPages(t, [2]int{20, 30}, [2]int{20, 30})
	name := "Some: Title"
	title := domain.DownloadedTitle{
		Title: domain.Title{ID: "t1", Attributes: domain.TitleAttributes{Title: domain.LocalizedString{En: &name}}},
	}
	chapters := []domain.DownloadedChapter{
		{ChapterID: "c1", ChapterName: "Ch. 1", ChapterPages: pages},
		{ChapterID: "c2", ChapterName: "Ch. 2", ChapterPages: []string{pages[0], "/missing/page.png"}},
	}
	dir := t.TempDir()

	written, err := Export(title, chapters, FormatCBZ, dir, false)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "Some Title", "Ch. 1.cbz"),
		filepath.Join(dir, "Some Title", "Ch. 2.cbz"),
	}, written)
	assert.Equal(t, []string{"001.png"}, zipNames(t, written[1]))

	written, err = Export(title, chapters, FormatEPUB, dir, false)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "Some Title.epub")}, written)
	assert.FileExists(t, written[0])

	_, err = Export(title, nil, FormatPDF, dir, false)
	assert.Error(t, err)
}

func TestExistingPages(t *testing.T) {
	pages := testPages(t, [2]int{20, 30}, [2]int{20, 30})
	missing := filepath.Join(t.TempDir(), "gone.png")

	got := ExistingPages([]string{pages[0], missing, pages[1]})
	assert.Equal(t, []string{pages[0], pages[1]}, got)
	assert.Empty(t, ExistingPages(nil))
}
