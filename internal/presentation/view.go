// Package presentation derives the read-only result view from a stored scan
// response. Nothing here performs I/O.
package presentation

import (
	"fmt"

	"alfredoptarigan/ats-scanner/internal/client"
	"alfredoptarigan/ats-scanner/internal/models"
)

const (
	NotFoundText       = "Not found"
	NoMatchesText      = "No matches found."
	NoMissingText      = "No missing essentials."
	unknownFileText    = "Unknown File"
	unknownErrorText   = "Unknown error"
	matchedGroupTitle  = "Matched Keywords"
	missingGroupTitle  = "Missing Keywords"
	highTierThreshold  = 80
	mediumTierThresold = 55
)

type TierLevel string

const (
	TierHigh   TierLevel = "high"
	TierMedium TierLevel = "medium"
	TierLow    TierLevel = "low"
)

type Tier struct {
	Level TierLevel
	Label string
}

// TierFor buckets a score. Tiers never influence ordering.
func TierFor(score float64) Tier {
	switch {
	case score >= highTierThreshold:
		return Tier{Level: TierHigh, Label: "Excellent Match"}
	case score >= mediumTierThresold:
		return Tier{Level: TierMedium, Label: "Good Match"}
	default:
		return Tier{Level: TierLow, Label: "Low Match"}
	}
}

type GroupKind int

const (
	GroupMatching GroupKind = iota
	GroupMissing
)

// KeywordGroup is a collapsible keyword list. Empty groups show Placeholder.
type KeywordGroup struct {
	Title       string
	Keywords    []string
	Placeholder string
	Expanded    bool
}

func (g KeywordGroup) Empty() bool { return len(g.Keywords) == 0 }

type CandidateCard struct {
	Rank             int
	Name             string
	Email            string
	Phone            string
	Score            float64
	SemanticScore    *float64
	Tier             Tier
	Matching         KeywordGroup
	Missing          KeywordGroup
	OriginalFilename string
	// DownloadURL is empty when the card has no file to link to.
	DownloadURL    string
	MatchCount     int
	JDKeywordCount int
}

type SummaryView struct {
	Present         bool
	TotalFound      int
	Scanned         int
	Errors          int
	DurationSeconds float64
}

type View struct {
	HasResult     bool
	JDUsed        string
	JDDisplayName string
	Cards         []CandidateCard
	Errors        []string
	Summary       SummaryView
}

// Build derives the view for resp in server order. A nil response yields an
// empty view.
func Build(resp *models.ScanResponse, baseURL string) View {
	if resp == nil {
		return View{}
	}

	v := View{
		HasResult: true,
		JDUsed:    resp.JDUsed,
		Cards:     make([]CandidateCard, 0, len(resp.Results)),
		Errors:    make([]string, 0, len(resp.ScanErrors)),
	}
	if resp.JDUsed != "" {
		v.JDDisplayName = models.JDDescriptor(resp.JDUsed).DisplayName()
	}

	for i, r := range resp.Results {
		v.Cards = append(v.Cards, CandidateCard{
			Rank:             i + 1,
			Name:             contactText(r.Name),
			Email:            contactText(r.Email),
			Phone:            contactText(r.Phone),
			Score:            r.Score,
			SemanticScore:    r.SemanticScore,
			Tier:             TierFor(r.Score),
			Matching:         newGroup(matchedGroupTitle, r.MatchingKeywords, NoMatchesText),
			Missing:          newGroup(missingGroupTitle, r.MissingKeywords, NoMissingText),
			OriginalFilename: r.OriginalFilename,
			DownloadURL:      client.DownloadURL(baseURL, r.OriginalFilename),
			MatchCount:       r.MatchCount,
			JDKeywordCount:   r.JDKeywordCount,
		})
	}

	for _, e := range resp.ScanErrors {
		v.Errors = append(v.Errors, fmt.Sprintf("%s: %s", orDefault(e.Filename, unknownFileText), orDefault(e.Error, unknownErrorText)))
	}

	if s := resp.Summary; s != nil {
		v.Summary = SummaryView{
			Present:         true,
			TotalFound:      s.TotalResumesFound,
			Scanned:         s.SuccessfullyScanned,
			Errors:          s.Errors,
			DurationSeconds: s.DurationSeconds,
		}
	}
	return v
}

// ToggleGroup returns a copy of v with one card's keyword group flipped.
// Out-of-range ranks return v unchanged.
func ToggleGroup(v View, rank int, group GroupKind) View {
	idx := rank - 1
	if idx < 0 || idx >= len(v.Cards) {
		return v
	}

	cards := make([]CandidateCard, len(v.Cards))
	copy(cards, v.Cards)
	switch group {
	case GroupMatching:
		cards[idx].Matching.Expanded = !cards[idx].Matching.Expanded
	case GroupMissing:
		cards[idx].Missing.Expanded = !cards[idx].Missing.Expanded
	}
	v.Cards = cards
	return v
}

func newGroup(title string, keywords []string, placeholder string) KeywordGroup {
	return KeywordGroup{
		Title:       title,
		Keywords:    append([]string{}, keywords...),
		Placeholder: placeholder,
	}
}

func contactText(v *string) string {
	if s := models.OptionalField(deref(v)); s != nil {
		return *s
	}
	return NotFoundText
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
