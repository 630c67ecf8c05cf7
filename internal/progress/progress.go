package progress

import (
	"path/filepath"
	"slices"

	"mugen/internal/domain"
	"mugen/internal/jsonstore"

	"github.com/rs/zerolog"
)

const FileName = "LastReadChapters.json"

// Store keeps the last read chapter per title.
type Store struct {
	doc *jsonstore.Document[[]domain.LastRead]
}

func New(dataDir string, log zerolog.Logger) *Store {
	return &Store{
		doc: jsonstore.New[[]domain.LastRead](filepath.Join(dataDir, FileName), log),
	}
}

// GetAll returns the records in insertion order. An unreadable store is
// reported as empty.
func (s *Store) GetAll() []domain.LastRead {
	records := s.doc.View()
	if records == nil {
		return []domain.LastRead{}
	}
	return records
}

func (s *Store) Get(titleID string) (domain.LastRead, bool) {
	for _, r := range s.GetAll() {
		if r.ID == titleID {
			return r, true
		}
	}
	return domain.LastRead{}, false
}

// Upsert stores chapter as the last read chapter of titleID. An existing
// record is replaced in place and keeps its position.
func (s *Store) Upsert(titleID string, title domain.Title, chapter domain.ChapterSummary) error {
	record := domain.LastRead{ID: titleID, Title: title, Chapter: chapter}

	return s.doc.Update(func(records *[]domain.LastRead) error {
		if i := slices.IndexFunc(*records, func(r domain.LastRead) bool { return r.ID == titleID }); i >= 0 {
			(*records)[i] = record
			return nil
		}
		*records = append(*records, record)
		return nil
	})
}

// RemoveAt deletes records by position in the list returned by the preceding
// GetAll. Out of range and repeated positions are ignored.
func (s *Store) RemoveAt(indices []int) error {
	return s.doc.Update(func(records *[]domain.LastRead) error {
		kept := make([]domain.LastRead, 0, len(*records))
		for i, r := range *records {
			if !slices.Contains(indices, i) {
				kept = append(kept, r)
			}
		}
		*records = kept
		return nil
	})
}
