package tui

import (
	"fmt"
	"strings"

	"alfredoptarigan/ats-scanner/internal/presentation"
	"alfredoptarigan/ats-scanner/internal/workflow"
)

const previewLimit = 1200

func (m model) View() string {
	if !m.ready {
		return "Loading scanner..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("ATS Resume Scanner"))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")

	if m.state.PickerOpen {
		b.WriteString(m.renderPicker())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ choose • p preview • enter scan • esc close"))
		return b.String()
	}

	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("s select JD • ↑/↓ candidate • m/n keywords • e export • x/i dismiss • q quit"))
	return b.String()
}

func (m model) renderStatus() string {
	var lines []string

	switch {
	case m.state.JDList.Loading:
		lines = append(lines, m.spinner.View()+" Loading job descriptions...")
	case m.state.Scan.ConfirmLoading():
		lines = append(lines, m.spinner.View()+" Starting scan...")
	case m.state.Scan.ScanLoading():
		lines = append(lines, m.spinner.View()+" Scanning resumes...")
	}

	switch banner := m.state.Banner(); banner.Kind {
	case workflow.BannerError:
		lines = append(lines, errorStyle.Render(banner.Text))
	case workflow.BannerInfo:
		lines = append(lines, infoStyle.Render(banner.Text))
	}
	if m.state.Scan.Anomaly != "" {
		lines = append(lines, anomalyStyle.Render("⚠ "+m.state.Scan.Anomaly))
	}
	return strings.Join(lines, "\n")
}

func (m model) renderPicker() string {
	var b strings.Builder
	b.WriteString("Select a job description\n\n")

	jds := m.state.JDList.Data
	switch {
	case m.state.JDList.Loading:
		b.WriteString(mutedStyle.Render("Loading..."))
	case len(jds) == 0:
		b.WriteString(mutedStyle.Render("No job descriptions available. Save one first."))
	}

	for i, jd := range jds {
		prefix := "  "
		line := jd.DisplayName()
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
			line = cursorStyle.Render(line)
		}
		if jd == m.state.Selection.SelectedID {
			line += mutedStyle.Render(" (selected)")
		}
		b.WriteString(prefix + line + "\n")
	}

	sel := m.state.Selection
	b.WriteString("\n")
	switch {
	case sel.PreviewLoading:
		b.WriteString(m.spinner.View() + " Loading preview...")
	case sel.PreviewError != "":
		b.WriteString(errorStyle.Render(sel.PreviewError))
	case sel.Preview != nil:
		b.WriteString(mutedStyle.Render(truncate(sel.Preview.Content, previewLimit)))
	}

	width := m.width - 4
	if width < 20 {
		width = 20
	}
	return modalStyle.Width(width).Render(b.String())
}

func (m model) renderResults() string {
	v := m.view
	if !v.HasResult {
		if m.state.Scan.Phase == workflow.PhaseIdle {
			return mutedStyle.Render("Press s to choose a job description and start a scan.")
		}
		return ""
	}

	var b strings.Builder
	if v.JDDisplayName != "" {
		fmt.Fprintf(&b, "Results for %s\n", v.JDDisplayName)
	}
	if s := v.Summary; s.Present {
		fmt.Fprintf(&b, "%d found • %d scanned • %d errors • %.2fs\n", s.TotalFound, s.Scanned, s.Errors, s.DurationSeconds)
	}
	if m.exportNote != "" {
		b.WriteString(mutedStyle.Render(m.exportNote) + "\n")
	}
	b.WriteString("\n")

	for i, card := range v.Cards {
		style := cardStyle
		if i == m.card {
			style = selectedCardStyle
		}
		b.WriteString(style.Render(renderCard(card)))
		b.WriteString("\n")
	}

	if len(v.Errors) > 0 {
		b.WriteString(errorStyle.Render("Scan errors") + "\n")
		for _, e := range v.Errors {
			b.WriteString("  • " + e + "\n")
		}
	}
	return b.String()
}

func renderCard(c presentation.CandidateCard) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s  %s %.2f%%\n", c.Rank, c.Name, tierStyles[c.Tier.Level].Render(c.Tier.Label), c.Score)
	fmt.Fprintf(&b, "Email: %s  Phone: %s\n", c.Email, c.Phone)
	if c.SemanticScore != nil {
		fmt.Fprintf(&b, "Semantic similarity: %.2f\n", *c.SemanticScore)
	}
	fmt.Fprintf(&b, "%d/%d keywords matched\n", c.MatchCount, c.JDKeywordCount)
	b.WriteString(renderGroup(c.Matching))
	b.WriteString(renderGroup(c.Missing))
	if c.DownloadURL != "" {
		b.WriteString(mutedStyle.Render(c.DownloadURL))
	} else if c.OriginalFilename == "" {
		b.WriteString(mutedStyle.Render("No file available"))
	}
	return b.String()
}

func renderGroup(g presentation.KeywordGroup) string {
	marker := "▸"
	if g.Expanded {
		marker = "▾"
	}
	header := fmt.Sprintf("%s %s (%d)\n", marker, g.Title, len(g.Keywords))
	if !g.Expanded {
		return header
	}
	if g.Empty() {
		return header + "    " + mutedStyle.Render(g.Placeholder) + "\n"
	}
	return header + "    " + strings.Join(g.Keywords, ", ") + "\n"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
