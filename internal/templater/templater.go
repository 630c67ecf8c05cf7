package templater

import (
	"regexp"
	"strconv"
	"strings"

	"mugen/internal/domain"
	"mugen/internal/utils"
)

const DefaultChapterNaming = "{vol:Vol. <.> }Ch. {num}{title: - <.>}"

var templatePattern = regexp.MustCompile(`{((\w+?)(:.*?)?)}`)

// Templater renders chapter and file names from a naming template such as
// "{manga:<.>} Ch. {num:3}{title: - <.>}".
type Templater struct {
	Title   domain.Title
	Chapter domain.ChapterSummary
}

func New(title domain.Title, chapter domain.ChapterSummary) *Templater {
	return &Templater{
		Title:   title,
		Chapter: chapter,
	}
}

func (t *Templater) handleNum(options string) string {
	label, ok := t.Chapter.Label()
	if !ok {
		return ""
	}

	if options == "" {
		return label
	}

	length, _ := strconv.ParseInt(strings.ReplaceAll(options, ":", ""), 10, 32)
	return utils.PadLabel(label, int(length))
}

func replacePlaceholder(options, value string) string {
	if value == "" {
		return ""
	}

	cleanString := strings.ReplaceAll(options, ":", "")
	if cleanString == "" {
		return value
	}
	return strings.ReplaceAll(cleanString, "<.>", value)
}

func (t *Templater) ExecTemplate(template string) string {
	newString := template
	for _, match := range templatePattern.FindAllStringSubmatch(template, -1) {
		replace := match[0]

		varName := match[2]
		options := match[3]
		switch varName {
		case "num":
			replace = t.handleNum(options)
		case "manga":
			replace = replacePlaceholder(options, t.titleName())
		case "vol":
			replace = replacePlaceholder(options, t.Chapter.VolumeLabel())
		case "title":
			replace = replacePlaceholder(options, t.Chapter.TitleText())
		}

		newString = strings.Replace(newString, match[0], replace, 1)
	}

	return strings.TrimSpace(newString)
}

func (t *Templater) titleName() string {
	if t.Title.Attributes.Title.En == nil {
		return ""
	}
	return *t.Title.Attributes.Title.En
}

// ChapterName renders the display name stored with a downloaded chapter.
func ChapterName(naming string, title domain.Title, chapter domain.ChapterSummary) string {
	if naming == "" {
		naming = DefaultChapterNaming
	}
	return New(title, chapter).ExecTemplate(naming)
}
