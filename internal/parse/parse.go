package parse

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"mugen/internal/domain"
)

// ChapterSelection parses the user input for ranges and single chapter labels
// and returns the matching chapters in feed order.
func ChapterSelection(input string, availableChapters []domain.ChapterSummary) ([]domain.ChapterSummary, error) {
	parts := strings.Split(input, ",")
	selected := make(map[string]bool)

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if strings.Contains(part, "-") {
			rangeParts := strings.Split(part, "-")
			if len(rangeParts) != 2 {
				return nil, fmt.Errorf("invalid range format: %s", part)
			}
			start, end, err := getRange(rangeParts)
			if err != nil {
				return nil, err
			}

			for _, chapter := range availableChapters {
				label, ok := chapter.Label()
				if !ok {
					continue
				}
				num, err := strconv.ParseFloat(label, 64)
				if err != nil {
					continue
				}
				if num >= start && num <= end {
					selected[chapter.ID] = true
				}
			}
		} else {
			found := false
			for _, chapter := range availableChapters {
				if label, ok := chapter.Label(); ok && sameLabel(label, part) {
					selected[chapter.ID] = true
					found = true
				}
			}
			if !found {
				return nil, fmt.Errorf("no chapter with number: %s", part)
			}
		}
	}

	out := make([]domain.ChapterSummary, 0, len(selected))
	for _, chapter := range availableChapters {
		if selected[chapter.ID] {
			out = append(out, chapter)
			delete(selected, chapter.ID)
		}
	}

	return out, nil
}

func sameLabel(label, input string) bool {
	if label == input {
		return true
	}
	a, errA := strconv.ParseFloat(label, 64)
	b, errB := strconv.ParseFloat(input, 64)
	return errA == nil && errB == nil && a == b
}

// getRange parses the user input for chapter ranges
func getRange(rangeParts []string) (float64, float64, error) {
	start, err := strconv.ParseFloat(strings.TrimSpace(rangeParts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid start of range: %s", rangeParts[0])
	}
	end, err := strconv.ParseFloat(strings.TrimSpace(rangeParts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid end of range: %s", rangeParts[1])
	}

	if start > end {
		return 0, 0, fmt.Errorf("start of range should not be greater than end: %s-%s", rangeParts[0], rangeParts[1])
	}

	return start, end, nil
}

// SortChapters orders chapters by label in natural order. The sort is stable
// and a chapter without a label never compares less than another chapter, so
// unlabeled chapters keep the position they were encountered in.
func SortChapters(chapters []domain.ChapterSummary) {
	slices.SortStableFunc(chapters, func(a, b domain.ChapterSummary) int {
		la, okA := a.Label()
		lb, okB := b.Label()
		if !okA || !okB {
			return 0
		}
		if NaturalLess(la, lb) {
			return -1
		}
		return 0
	})
}

// Latest returns the chapter with the greatest label in natural order.
func Latest(chapters []domain.ChapterSummary) (domain.ChapterSummary, bool) {
	var latest domain.ChapterSummary
	var latestLabel string
	found := false

	for _, chapter := range chapters {
		label, ok := chapter.Label()
		if !ok {
			continue
		}
		if !found || NaturalLess(latestLabel, label) {
			latest, latestLabel, found = chapter, label, true
		}
	}

	return latest, found
}

// NewSince returns the chapters after the last one already owned, in feed
// order. Owned chapters in that tail are skipped. When nothing is owned yet
// only the latest chapter is returned.
func NewSince(chapters []domain.ChapterSummary, have func(chapterID string) bool) []domain.ChapterSummary {
	last := -1
	for i, chapter := range chapters {
		if have(chapter.ID) {
			last = i
		}
	}

	if last < 0 {
		if latest, ok := Latest(chapters); ok {
			return []domain.ChapterSummary{latest}
		}
		return nil
	}

	var out []domain.ChapterSummary
	for _, chapter := range chapters[last+1:] {
		if !have(chapter.ID) {
			out = append(out, chapter)
		}
	}
	return out
}
