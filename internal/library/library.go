package library

import (
	"os"
	"path/filepath"
	"slices"
	"sync"

	"mugen/internal/domain"
	"mugen/internal/jsonstore"

	"github.com/rs/zerolog"
)

const FileName = "DownloadedChapters.json"

// Store is the durable index of downloaded chapters. Page files on disk are
// referenced by path only; a path that no longer resolves is not an error of
// the store.
type Store struct {
	doc *jsonstore.Document[[]domain.DownloadedTitle]
	log zerolog.Logger

	indexMu sync.RWMutex
	index   map[string]map[string]bool // title id -> chapter id
	loaded  bool
}

func New(dataDir string, log zerolog.Logger) *Store {
	s := &Store{
		doc: jsonstore.New[[]domain.DownloadedTitle](filepath.Join(dataDir, FileName), log),
		log: log,
	}
	s.doc.OnLoad(s.rebuildIndex)
	return s
}

func (s *Store) rebuildIndex(titles []domain.DownloadedTitle) {
	index := make(map[string]map[string]bool, len(titles))
	for _, t := range titles {
		chapters := make(map[string]bool, len(t.Chapters))
		for _, c := range t.Chapters {
			chapters[c.ChapterID] = true
		}
		index[t.Title.ID] = chapters
	}

	s.indexMu.Lock()
	s.index = index
	s.loaded = true
	s.indexMu.Unlock()
}

// ListDownloads returns every downloaded title in download order. An
// unreadable store is reported as empty.
func (s *Store) ListDownloads() []domain.DownloadedTitle {
	titles := s.doc.View()
	if titles == nil {
		return []domain.DownloadedTitle{}
	}
	return titles
}

// GetTitle returns the downloaded title with the given id.
func (s *Store) GetTitle(titleID string) (domain.DownloadedTitle, bool) {
	for _, t := range s.ListDownloads() {
		if t.Title.ID == titleID {
			return t, true
		}
	}
	return domain.DownloadedTitle{}, false
}

// ChapterAt returns the chapter at position in the title's chapter list as
// shown by ListDownloads.
func (s *Store) ChapterAt(titleID string, position int) (domain.DownloadedChapter, bool) {
	t, ok := s.GetTitle(titleID)
	if !ok || position < 0 || position >= len(t.Chapters) {
		return domain.DownloadedChapter{}, false
	}
	return t.Chapters[position], true
}

func (s *Store) HasChapter(titleID, chapterID string) bool {
	s.indexMu.RLock()
	loaded := s.loaded
	s.indexMu.RUnlock()

	if !loaded {
		s.doc.View()
	}

	s.indexMu.RLock()
	defer s.indexMu.RUnlock()
	return s.index[titleID][chapterID]
}

// AppendChapter records a finished download. The chapter is added to the
// existing entry for title.ID or a new entry is created; appending a chapter
// id that is already present is a no-op.
func (s *Store) AppendChapter(title domain.Title, chapterID, chapterName string, pagePaths []string) error {
	chapter := domain.DownloadedChapter{
		ChapterName:  chapterName,
		ChapterID:    chapterID,
		ChapterPages: slices.Clone(pagePaths),
	}

	return s.doc.Update(func(titles *[]domain.DownloadedTitle) error {
		for i := range *titles {
			t := &(*titles)[i]
			if t.Title.ID != title.ID {
				continue
			}
			if !t.HasChapter(chapterID) {
				t.Chapters = append(t.Chapters, chapter)
			}
			return nil
		}

		*titles = append(*titles, domain.DownloadedTitle{
			Title:    title,
			Chapters: []domain.DownloadedChapter{chapter},
		})
		return nil
	})
}

// RemoveChapters drops the given chapters from a title and the title itself
// once it has no chapters left. Page files are not touched; see
// DeletePageFiles.
func (s *Store) RemoveChapters(titleID string, chapterIDs []string) error {
	return s.doc.Update(func(titles *[]domain.DownloadedTitle) error {
		*titles = removeChapters(*titles, titleID, func(_ int, c domain.DownloadedChapter) bool {
			return slices.Contains(chapterIDs, c.ChapterID)
		})
		return nil
	})
}

// RemoveChaptersAt drops chapters by their position in the title's chapter
// list as returned by the last ListDownloads. Out of range positions are
// ignored. The removed chapters are returned so their files can be deleted.
func (s *Store) RemoveChaptersAt(titleID string, positions []int) ([]domain.DownloadedChapter, error) {
	var removed []domain.DownloadedChapter

	err := s.doc.Update(func(titles *[]domain.DownloadedTitle) error {
		removed = nil
		*titles = removeChapters(*titles, titleID, func(i int, c domain.DownloadedChapter) bool {
			if slices.Contains(positions, i) {
				removed = append(removed, c)
				return true
			}
			return false
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return removed, nil
}

func removeChapters(titles []domain.DownloadedTitle, titleID string, drop func(int, domain.DownloadedChapter) bool) []domain.DownloadedTitle {
	idx := slices.IndexFunc(titles, func(t domain.DownloadedTitle) bool {
		return t.Title.ID == titleID
	})
	if idx < 0 {
		return titles
	}

	kept := make([]domain.DownloadedChapter, 0, len(titles[idx].Chapters))
	for i, c := range titles[idx].Chapters {
		if !drop(i, c) {
			kept = append(kept, c)
		}
	}

	if len(kept) == 0 {
		return slices.Delete(titles, idx, idx+1)
	}

	titles[idx].Chapters = kept
	return titles
}

// DeletePageFiles removes page files from disk. Failures are logged and
// skipped so one bad path never blocks the rest.
func (s *Store) DeletePageFiles(paths []string) int {
	removed := 0
	for _, p := range paths {
		if err := os.Remove(p); err != nil {
			s.log.Warn().Err(err).Str("path", p).Msg("could not remove page file")
			continue
		}
		removed++
	}
	return removed
}

// DeleteChapterFiles removes the page files of the given chapters and their
// chapter directories when those end up empty.
func (s *Store) DeleteChapterFiles(chapters []domain.DownloadedChapter) {
	for _, c := range chapters {
		s.DeletePageFiles(c.ChapterPages)

		dirs := make(map[string]struct{})
		for _, p := range c.ChapterPages {
			dirs[filepath.Dir(p)] = struct{}{}
		}
		for dir := range dirs {
			// only succeeds for empty directories
			_ = os.Remove(dir)
		}
	}
}
