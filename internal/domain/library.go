package domain

// DownloadedChapter is a chapter whose pages are stored locally. ChapterPages
// holds local file paths in reading order.
type DownloadedChapter struct {
	ChapterName  string   `json:"chapterName"`
	ChapterID    string   `json:"chapterID"`
	ChapterPages []string `json:"chapterPages"`
}

// DownloadedTitle groups downloaded chapters in download order.
type DownloadedTitle struct {
	Title    Title               `json:"MangaDetail"`
	Chapters []DownloadedChapter `json:"chapters"`
}

func (d DownloadedTitle) HasChapter(chapterID string) bool {
	for _, c := range d.Chapters {
		if c.ChapterID == chapterID {
			return true
		}
	}
	return false
}

// LastRead is the reading position for one title. ID is the title id.
type LastRead struct {
	ID      string         `json:"id"`
	Title   Title          `json:"MangaDetail"`
	Chapter ChapterSummary `json:"Chapter"`
}
