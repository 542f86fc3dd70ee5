// Package export writes a scan result view to an xlsx workbook.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"alfredoptarigan/ats-scanner/internal/presentation"
)

const (
	SummarySheet    = "Summary"
	CandidatesSheet = "Ranked Candidates"
	ErrorsSheet     = "Scan Errors"
)

var candidateHeaders = []string{
	"Rank", "Name", "Email", "Phone", "Score", "Tier", "Semantic Score",
	"Matched Keywords", "Missing Keywords", "File",
}

var tierFills = map[presentation.TierLevel]string{
	presentation.TierHigh:   "C6EFCE",
	presentation.TierMedium: "FFEB9C",
	presentation.TierLow:    "FFC7CE",
}

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

// WriteXLSX saves view to outputPath, adding the .xlsx extension when missing,
// and returns the path written.
func WriteXLSX(view presentation.View, outputPath string, now time.Time) (string, error) {
	if !view.HasResult {
		return "", fmt.Errorf("failed to export scan: no result to export")
	}
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath += ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return "", fmt.Errorf("failed to name summary sheet: %w", err)
	}
	for _, name := range []string{CandidatesSheet, ErrorsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return "", fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	if err := writeSummary(f, view, now); err != nil {
		return "", fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeCandidates(f, view); err != nil {
		return "", fmt.Errorf("failed to create ranked candidates sheet: %w", err)
	}
	if err := writeErrors(f, view); err != nil {
		return "", fmt.Errorf("failed to create scan errors sheet: %w", err)
	}

	if err := f.SaveAs(outputPath); err != nil {
		return "", fmt.Errorf("failed to save Excel file: %w", err)
	}
	return outputPath, nil
}

func writeSummary(f *excelize.File, view presentation.View, now time.Time) error {
	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	f.SetColWidth(SummarySheet, "A", "A", 24)
	f.SetColWidth(SummarySheet, "B", "B", 48)

	jd := view.JDDisplayName
	if jd == "" {
		jd = "Unknown"
	}
	rows := [][2]any{
		{"Job Description", jd},
		{"JD File", view.JDUsed},
		{"Exported At", now.Format("2006-01-02 15:04:05")},
		{"Candidates", len(view.Cards)},
		{"Scan Errors", len(view.Errors)},
	}
	if s := view.Summary; s.Present {
		rows = append(rows,
			[2]any{"Resumes Found", s.TotalFound},
			[2]any{"Successfully Scanned", s.Scanned},
			[2]any{"Duration (s)", s.DurationSeconds},
		)
	}

	for i, row := range rows {
		r := i + 1
		if err := f.SetCellValue(SummarySheet, fmt.Sprintf("A%d", r), row[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(SummarySheet, fmt.Sprintf("B%d", r), row[1]); err != nil {
			return err
		}
		f.SetCellStyle(SummarySheet, fmt.Sprintf("A%d", r), fmt.Sprintf("A%d", r), labelStyle)
	}
	return nil
}

func writeCandidates(f *excelize.File, view presentation.View) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	})
	if err != nil {
		return err
	}

	tierStyles := make(map[presentation.TierLevel]int, len(tierFills))
	for level, color := range tierFills {
		style, err := f.NewStyle(&excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Border: thinBorder,
		})
		if err != nil {
			return err
		}
		tierStyles[level] = style
	}

	f.SetColWidth(CandidatesSheet, "A", "A", 8)
	f.SetColWidth(CandidatesSheet, "B", "D", 24)
	f.SetColWidth(CandidatesSheet, "E", "G", 14)
	f.SetColWidth(CandidatesSheet, "H", "I", 40)
	f.SetColWidth(CandidatesSheet, "J", "J", 28)

	for col, header := range candidateHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(CandidatesSheet, cell, header)
		f.SetCellStyle(CandidatesSheet, cell, cell, headerStyle)
	}

	for i, card := range view.Cards {
		row := i + 2
		semantic := ""
		if card.SemanticScore != nil {
			semantic = fmt.Sprintf("%.2f", *card.SemanticScore)
		}
		values := []any{
			card.Rank,
			card.Name,
			card.Email,
			card.Phone,
			card.Score,
			card.Tier.Label,
			semantic,
			keywordCell(card.Matching),
			keywordCell(card.Missing),
			card.OriginalFilename,
		}
		start, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(CandidatesSheet, start, &values); err != nil {
			return err
		}

		end, _ := excelize.CoordinatesToCellName(len(values), row)
		f.SetCellStyle(CandidatesSheet, start, end, tierStyles[card.Tier.Level])

		if card.DownloadURL != "" {
			if err := f.SetCellHyperLink(CandidatesSheet, end, card.DownloadURL, "External"); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeErrors(f *excelize.File, view presentation.View) error {
	f.SetColWidth(ErrorsSheet, "A", "A", 80)
	if err := f.SetCellValue(ErrorsSheet, "A1", "Error"); err != nil {
		return err
	}
	for i, line := range view.Errors {
		if err := f.SetCellValue(ErrorsSheet, fmt.Sprintf("A%d", i+2), line); err != nil {
			return err
		}
	}
	return nil
}

func keywordCell(g presentation.KeywordGroup) string {
	if g.Empty() {
		return g.Placeholder
	}
	return strings.Join(g.Keywords, ", ")
}
