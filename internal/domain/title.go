package domain

import (
	"fmt"
	"strings"
)

// Title is a manga series as returned by the catalog. Only the fields the
// reader needs are decoded; everything else in the payload is ignored.
type Title struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Attributes    TitleAttributes `json:"attributes"`
	Relationships []Relationship  `json:"relationships"`
}

type TitleAttributes struct {
	Title       LocalizedString  `json:"title"`
	Description *LocalizedString `json:"description,omitempty"`
	Year        *int             `json:"year,omitempty"`
	Status      string           `json:"status"`
}

type LocalizedString struct {
	En *string `json:"en,omitempty"`
}

type Relationship struct {
	ID         string                  `json:"id"`
	Type       string                  `json:"type"`
	Attributes *RelationshipAttributes `json:"attributes,omitempty"`
}

type RelationshipAttributes struct {
	FileName *string `json:"fileName,omitempty"`
}

const relationshipCoverArt = "cover_art"

// DisplayName returns the English title, or "Unknown Title" if the catalog
// did not provide one.
func (t Title) DisplayName() string {
	if t.Attributes.Title.En == nil || *t.Attributes.Title.En == "" {
		return "Unknown Title"
	}
	return *t.Attributes.Title.En
}

func (t Title) Description() string {
	if t.Attributes.Description == nil || t.Attributes.Description.En == nil {
		return ""
	}
	return *t.Attributes.Description.En
}

// PublicationYear returns 0 when the year is unknown.
func (t Title) PublicationYear() int {
	if t.Attributes.Year == nil {
		return 0
	}
	return *t.Attributes.Year
}

// CoverFileName returns the file name of the first cover_art relationship
// carrying one.
func (t Title) CoverFileName() (string, bool) {
	for _, rel := range t.Relationships {
		if rel.Type != relationshipCoverArt || rel.Attributes == nil || rel.Attributes.FileName == nil {
			continue
		}
		return *rel.Attributes.FileName, true
	}
	return "", false
}

// CoverURL builds the 256px thumbnail URL for the title cover.
func (t Title) CoverURL(uploadsURL string) (string, bool) {
	fileName, ok := t.CoverFileName()
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s/covers/%s/%s.256.jpg", strings.TrimRight(uploadsURL, "/"), t.ID, fileName), true
}

// ChapterSummary is one entry of a title's chapter feed.
type ChapterSummary struct {
	ID         string            `json:"id"`
	Attributes ChapterAttributes `json:"attributes"`
}

type ChapterAttributes struct {
	Volume  *string `json:"volume"`
	Chapter *string `json:"chapter"`
	Title   *string `json:"title"`
}

// Label returns the chapter number label and whether it is present.
func (c ChapterSummary) Label() (string, bool) {
	if c.Attributes.Chapter == nil {
		return "", false
	}
	return *c.Attributes.Chapter, true
}

func (c ChapterSummary) VolumeLabel() string {
	if c.Attributes.Volume == nil {
		return ""
	}
	return *c.Attributes.Volume
}

func (c ChapterSummary) TitleText() string {
	if c.Attributes.Title == nil {
		return ""
	}
	return *c.Attributes.Title
}

// ChapterPageSet is the at-home server answer for one chapter.
type ChapterPageSet struct {
	ChapterID string
	BaseURL   string
	Hash      string
	Data      []string
	DataSaver []string
}
