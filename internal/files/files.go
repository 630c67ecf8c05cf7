package files

import (
	"archive/zip"
	"bufio"
	"fmt"
	"html"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mugen/internal/domain"
	"mugen/internal/sanitize"

	"github.com/go-pdf/fpdf"
	"github.com/go-shiori/go-epub"
	"github.com/pkg/errors"
	_ "golang.org/x/image/webp" // needed to decode webp
)

const binSize = 10

type Format string

const (
	FormatCBZ  Format = "cbz"
	FormatPDF  Format = "pdf"
	FormatEPUB Format = "epub"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case FormatCBZ, FormatPDF, FormatEPUB:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format: %q", s)
	}
}

func IsValidLocation(location string) error {
	if _, err := os.Stat(location); err != nil {
		return err
	}

	return nil
}

// ExistingPages drops page paths that are no longer on disk.
func ExistingPages(pages []string) []string {
	out := make([]string, 0, len(pages))
	for _, p := range pages {
		if IsValidLocation(p) == nil {
			out = append(out, p)
		}
	}
	return out
}

// Export writes chapters of a downloaded title to exportDir. CBZ and PDF
// produce one file per chapter under a directory named after the title, EPUB
// produces a single book. The written paths are returned.
func Export(title domain.DownloadedTitle, chapters []domain.DownloadedChapter, format Format, exportDir string, isManhwa bool) ([]string, error) {
	if len(chapters) == 0 {
		return nil, errors.New("no chapters to export")
	}

	titleName := sanitize.Filename(title.Title.DisplayName())
	if titleName == "" {
		titleName = title.Title.ID
	}

	if format == FormatEPUB {
		out := filepath.Join(exportDir, titleName+".epub")

		book := make([]EpubChapter, 0, len(chapters))
		for _, c := range chapters {
			book = append(book, EpubChapter{Name: c.ChapterName, Pages: ExistingPages(c.ChapterPages)})
		}

		if err := CreateEPUB(title.Title.DisplayName(), title.Title.Description(), book, out); err != nil {
			return nil, err
		}
		return []string{out}, nil
	}

	written := make([]string, 0, len(chapters))
	for _, c := range chapters {
		name := sanitize.Filename(c.ChapterName)
		if name == "" {
			name = c.ChapterID
		}
		out := filepath.Join(exportDir, titleName, name+"."+string(format))
		pages := ExistingPages(c.ChapterPages)

		var err error
		switch format {
		case FormatCBZ:
			err = CreateCbzArchive(pages, out, isManhwa)
		case FormatPDF:
			err = CreatePDF(pages, out)
		default:
			err = fmt.Errorf("unsupported export format: %q", format)
		}
		if err != nil {
			return written, errors.Wrapf(err, "export chapter %s", c.ChapterID)
		}

		written = append(written, out)
	}

	return written, nil
}

// CreateCbzArchive creates a zip archive named cbzPath holding pages in the
// given order. Entries are renamed by position so readers keep that order.
func CreateCbzArchive(pages []string, cbzPath string, isManhwa bool) error {
	err := os.MkdirAll(filepath.Dir(cbzPath), os.ModePerm)
	if err != nil {
		return err
	}

	cbzFile, err := os.Create(cbzPath)
	if err != nil {
		return err
	}
	defer cbzFile.Close()

	writeBuf := bufio.NewWriter(cbzFile)
	defer writeBuf.Flush()

	zipWriter := zip.NewWriter(writeBuf)
	defer zipWriter.Close()

	var mostCommonWidth int
	widths := make([]int, len(pages))
	widthCount := make(map[int]int)

	for i, imgPath := range pages {
		width, err := imageWidth(imgPath)
		if err != nil {
			widths[i] = -1
			continue
		}

		widths[i] = width
		widthCount[(width/binSize)*binSize]++
	}

	maxCount := 0
	for bin, count := range widthCount {
		if count > maxCount {
			maxCount = count
			mostCommonWidth = bin
		}
	}

	for i, imgPath := range pages {
		// only remove uncommon image widths for manhwa
		if isManhwa && widths[i] >= 0 {
			if widths[i] < mostCommonWidth-binSize || widths[i] > mostCommonWidth+binSize {
				continue
			}
		}

		name := fmt.Sprintf("%03d%s", i+1, strings.ToLower(filepath.Ext(imgPath)))
		if err := addFileToZip(zipWriter, imgPath, name); err != nil {
			return err
		}
	}

	return nil
}

func imageWidth(imgPath string) (int, error) {
	imgFile, err := os.Open(imgPath)
	if err != nil {
		return 0, err
	}
	defer imgFile.Close()

	img, _, err := image.DecodeConfig(imgFile)
	if err != nil {
		return 0, err
	}

	return img.Width, nil
}

// CreatePDF creates a pdf file named pdfPath with one page per image
func CreatePDF(pages []string, pdfPath string) error {
	err := os.MkdirAll(filepath.Dir(pdfPath), os.ModePerm)
	if err != nil {
		return err
	}

	pdf := fpdf.New(fpdf.OrientationPortrait, fpdf.UnitMillimeter, "", "")

	for _, path := range pages {
		pdfInfo := pdf.RegisterImageOptions(path, fpdf.ImageOptions{})
		if pdf.Err() {
			return pdf.Error()
		}
		imgWidth, imgHeight := pdfInfo.Extent()

		// filter out wide images
		if imgWidth > imgHeight {
			continue
		}

		pdf.AddPageFormat(fpdf.OrientationPortrait, fpdf.SizeType{Wd: imgWidth, Ht: imgHeight})

		pdf.ImageOptions(path, 0, 0, imgWidth, imgHeight, false, fpdf.ImageOptions{}, 0, "")
	}

	return pdf.OutputFileAndClose(pdfPath)
}

type EpubChapter struct {
	Name  string
	Pages []string
}

// CreateEPUB builds a single book with one section per chapter.
func CreateEPUB(title, description string, chapters []EpubChapter, epubPath string) error {
	err := os.MkdirAll(filepath.Dir(epubPath), os.ModePerm)
	if err != nil {
		return err
	}

	e, err := epub.NewEpub(title)
	if err != nil {
		return errors.Wrap(err, "failed to create epub")
	}

	e.SetAuthor("MangaDex")
	if description != "" {
		e.SetDescription(description)
	}

	for ci, chapter := range chapters {
		if len(chapter.Pages) == 0 {
			continue
		}

		var body strings.Builder
		body.WriteString(fmt.Sprintf("<h1>%s</h1>\n", html.EscapeString(chapter.Name)))

		for i, page := range chapter.Pages {
			internalPath, err := e.AddImage(page, fmt.Sprintf("c%03d-%03d%s", ci+1, i+1, strings.ToLower(filepath.Ext(page))))
			if err != nil {
				return errors.Wrapf(err, "failed to add page %d of %s", i+1, chapter.Name)
			}

			body.WriteString(fmt.Sprintf(
				`<div class="page"><img src="%s" alt="Page %d" style="width:100%%;height:auto;"/></div>%s`,
				internalPath, i+1, "\n",
			))
		}

		if _, err := e.AddSection(body.String(), chapter.Name, "", ""); err != nil {
			return errors.Wrapf(err, "failed to add section %s", chapter.Name)
		}
	}

	return e.Write(epubPath)
}

// addFileToZip adds a single file to the zip archive
func addFileToZip(zipWriter *zip.Writer, filePath, fileName string) error {
	fileToZip, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer fileToZip.Close()

	writer, err := zipWriter.Create(fileName)
	if err != nil {
		return err
	}

	readerBuf := bufio.NewReader(fileToZip)

	_, err = io.Copy(writer, readerBuf)
	return err
}
