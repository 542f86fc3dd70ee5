package services

import (
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

var (
	inlineSpaceRe   = regexp.MustCompile(`[ \t]+`)
	blankLinesRe    = regexp.MustCompile(`\n{3,}`)
	docxParagraphRe = regexp.MustCompile(`</w:p>`)
	docxBreakRe     = regexp.MustCompile(`<w:(br|cr)[^>]*/>|<w:tab[^>]*/>`)
	xmlTagRe        = regexp.MustCompile(`<[^>]+>`)
)

// DocumentParser extracts plain text from uploaded résumés.
type DocumentParser interface {
	ExtractText(filePath string) (string, error)
}

type documentParser struct{}

func NewDocumentParser() DocumentParser {
	return &documentParser{}
}

func (p *documentParser) ExtractText(filePath string) (string, error) {
	var (
		text string
		err  error
	)

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".pdf":
		text, err = extractPDF(filePath)
	case ".docx":
		text, err = extractDOCX(filePath)
	default:
		return "", fmt.Errorf("unsupported file type: %s", filepath.Ext(filePath))
	}
	if err != nil {
		return "", err
	}

	text = CleanText(text)
	if text == "" {
		return "", fmt.Errorf("no text content found in %s", filepath.Base(filePath))
	}
	return text, nil
}

func extractPDF(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			for i, word := range row.Content {
				if i > 0 {
					textBuilder.WriteString(" ")
				}
				textBuilder.WriteString(word.S)
			}
			textBuilder.WriteString("\n")
		}
		textBuilder.WriteString("\n")
	}

	return textBuilder.String(), nil
}

func extractDOCX(filePath string) (string, error) {
	r, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX: %w", err)
	}
	defer r.Close()

	content := r.Editable().GetContent()
	content = docxParagraphRe.ReplaceAllString(content, "\n\n")
	content = docxBreakRe.ReplaceAllString(content, " ")
	content = xmlTagRe.ReplaceAllString(content, "")

	return html.UnescapeString(content), nil
}

// CleanText trims every line, collapses runs of spaces and keeps at most one blank line in a row.
func CleanText(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(inlineSpaceRe.ReplaceAllString(line, " "))
	}

	text = strings.Join(lines, "\n")
	text = blankLinesRe.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}
