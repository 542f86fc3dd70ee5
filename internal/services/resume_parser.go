package services

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"alfredoptarigan/ats-scanner/internal/models"
)

var (
	emailRe    = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	phoneRe    = regexp.MustCompile(`(?:(?:\+?\d{1,3}[-.\s]?)?(?:\(?\d{1,4}\)?[-.\s]?)|(?:\d{1,4}[-.\s]?))+\d{3,4}[-.\s]?\d{3,4}(?:\s*(?:ext|x|extension)\.?\s*\d+)?`)
	githubRe   = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?github\.com/[\w.-]+/?`)
	linkedinRe = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?linkedin\.com/(?:in|pub|company)/[\w\-._~:/?#\[\]@!$&'()*+,;=]+/?`)
	nonDigitRe = regexp.MustCompile(`\D`)

	bulletLineRe    = regexp.MustCompile(`^\s*[*\-•\d]+\s+.{15,}`)
	leadingBulletRe = regexp.MustCompile(`^\s*[*\-•\d.]+\s*`)
	trailingColonRe = regexp.MustCompile(`\s*[:\-]\s*$`)
)

var ErrEmptyResumeText = errors.New("résumé text is empty")

type section struct {
	key      string
	keywords []string
}

// sections is ordered: the first matching section wins.
var sections = []section{
	{"contact", []string{"contact", "contact information", "personal details", "personal data", "address", "phone", "email"}},
	{"summary", []string{"summary", "objective", "profile", "about me", "career objective", "professional summary", "personal profile", "executive summary", "professional objective"}},
	{"education", []string{"education", "academic background", "qualifications", "academic qualifications", "academic history", "degrees", "university", "college", "institute", "academic training"}},
	{"experience", []string{"experience", "work experience", "professional experience", "employment history", "career summary", "work history", "professional background", "employment", "positions held", "internship", "internships", "relevant experience"}},
	{"skills", []string{"skills", "technical skills", "programming languages", "competencies", "proficiencies", "technical expertise", "technologies", "tools", "software", "languages", "key skills", "core competencies", "technical proficiency", "expertise", "platforms", "skill set"}},
	{"projects", []string{"projects", "personal projects", "portfolio", "github projects", "side projects", "key projects", "academic projects", "selected projects", "relevant projects"}},
	{"certifications", []string{"certifications", "licenses & certifications", "courses", "training & certifications", "professional development", "licenses", "awards", "honors", "training", "achievements", "certificates", "accomplishments", "recognition", "professional memberships"}},
	{"coding_profiles", []string{"coding profiles", "online profiles", "github", "portfolio links", "social profiles", "linkedin", "links", "profiles", "web presence", "websites", "repositories", "urls"}},
}

var profileHosts = []string{"gitlab", "bitbucket", "leetcode", "hackerrank", "codepen", "portfolio", "behance", "dribbble", "stack overflow", "medium"}

type keywordPatterns struct {
	prefix *regexp.Regexp
	word   *regexp.Regexp
}

var sectionPatterns = func() map[string]keywordPatterns {
	m := make(map[string]keywordPatterns)
	for _, s := range sections {
		for _, kw := range s.keywords {
			q := regexp.QuoteMeta(kw)
			m[kw] = keywordPatterns{
				prefix: regexp.MustCompile(`^\s*` + q + `\b`),
				word:   regexp.MustCompile(`\b` + q + `\b`),
			}
		}
	}
	return m
}()

type ResumeParser interface {
	Parse(text, originalFilename string) (*models.ParsedResume, error)
}

type resumeParser struct{}

func NewResumeParser() ResumeParser {
	return &resumeParser{}
}

func (p *resumeParser) Parse(text, originalFilename string) (*models.ParsedResume, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyResumeText
	}

	parsed := &models.ParsedResume{
		OriginalFilename: originalFilename,
		RawText:          text,
	}

	lines := strings.Split(text, "\n")
	topLines := strings.Join(lines[:min(len(lines), 15)], "\n")
	topText := truncateRunes(text, 1000)

	emails := findFirstNonEmpty(emailRe, topLines, topText, text)
	parsed.Email = firstOr(emails, models.NotFound)

	phones := findFirstNonEmpty(phoneRe, topLines, topText, text)
	parsed.Phone = models.NotFound
	for _, ph := range phones {
		digits := len(nonDigitRe.ReplaceAllString(ph, ""))
		if digits >= 9 && digits <= 15 {
			parsed.Phone = strings.TrimSpace(ph)
			break
		}
	}
	if parsed.Phone == models.NotFound && len(phones) > 0 {
		parsed.Phone = strings.TrimSpace(phones[0])
	}

	parsed.GitHub = trimLink(githubRe.FindString(text))
	parsed.LinkedIn = trimLink(linkedinRe.FindString(text))
	parsed.Name = guessName(lines, parsed)

	content := make(map[string][]string)
	current := ""
	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}
		if key := findSectionKeyword(line); key != "" && key != "contact" {
			current = key
			continue
		}
		if current != "" {
			content[current] = append(content[current], stripped)
		}
	}

	fields := map[string]*string{
		"summary":         &parsed.Summary,
		"education":       &parsed.Education,
		"experience":      &parsed.Experience,
		"skills":          &parsed.Skills,
		"projects":        &parsed.Projects,
		"certifications":  &parsed.Certifications,
		"coding_profiles": &parsed.CodingProfiles,
	}
	for key, field := range fields {
		*field = models.NotFound
		if joined := strings.TrimSpace(strings.Join(content[key], "\n")); joined != "" {
			*field = joined
		}
	}

	parsed.CodingProfiles = collectProfiles(parsed)

	return parsed, nil
}

func guessName(lines []string, parsed *models.ParsedResume) string {
	for _, line := range lines[:min(len(lines), 5)] {
		stripped := strings.TrimSpace(line)
		n := utf8.RuneCountInString(stripped)
		words := len(strings.Fields(stripped))
		if stripped == "" || n <= 4 || n >= 35 || words <= 1 || words >= 5 {
			continue
		}
		first, _ := utf8.DecodeRuneInString(stripped)
		if !unicode.IsUpper(first) || !isAlphaIgnoringSpaces(stripped) {
			continue
		}
		if strings.Contains(stripped, "@") || phoneRe.MatchString(stripped) ||
			strings.Contains(strings.ToLower(stripped), "http") ||
			strings.Contains(stripped, parsed.Email) || strings.Contains(stripped, parsed.Phone) {
			continue
		}
		if findSectionKeyword(stripped) != "" {
			continue
		}
		return stripped
	}
	return models.NotFound
}

// findSectionKeyword reports which section a line looks like the heading of, or "".
func findSectionKeyword(line string) string {
	stripped := strings.TrimSpace(line)
	lower := strings.ToLower(stripped)
	words := len(strings.Fields(stripped))

	if utf8.RuneCountInString(lower) < 3 || words > 7 || bulletLineRe.MatchString(stripped) {
		return ""
	}

	cleaned := strings.TrimSpace(leadingBulletRe.ReplaceAllString(lower, ""))
	cleaned = strings.TrimSpace(trailingColonRe.ReplaceAllString(cleaned, ""))

	for _, s := range sections {
		for _, kw := range s.keywords {
			if cleaned == kw || lower == kw {
				return s.key
			}
		}
	}

	for _, s := range sections {
		for _, kw := range s.keywords {
			pat := sectionPatterns[kw]
			kwLen := utf8.RuneCountInString(kw)
			if pat.prefix.MatchString(cleaned) && utf8.RuneCountInString(cleaned) < kwLen+10 {
				return s.key
			}
			if pat.prefix.MatchString(lower) && utf8.RuneCountInString(stripped) < kwLen+15 {
				return s.key
			}
		}
	}

	if isMostlyUpper(stripped) {
		for _, s := range sections {
			for _, kw := range s.keywords {
				if sectionPatterns[kw].word.MatchString(lower) {
					return s.key
				}
			}
		}
	}

	return ""
}

func collectProfiles(parsed *models.ParsedResume) string {
	profiles := make(map[string]struct{})
	if parsed.LinkedIn != models.NotFound {
		profiles["LinkedIn: "+parsed.LinkedIn] = struct{}{}
	}
	if parsed.GitHub != models.NotFound {
		profiles["GitHub: "+parsed.GitHub] = struct{}{}
	}

	if parsed.CodingProfiles != models.NotFound {
		for _, line := range strings.Split(parsed.CodingProfiles, "\n") {
			stripped := strings.TrimSpace(line)
			lower := strings.ToLower(stripped)
			if stripped == "" || strings.Contains(lower, "linkedin.com") || strings.Contains(lower, "github.com") {
				continue
			}
			if strings.Contains(lower, "http") || containsAny(lower, profileHosts) {
				profiles[stripped] = struct{}{}
			}
		}
	}

	if parsed.Summary != models.NotFound {
		for _, line := range strings.Split(parsed.Summary, "\n") {
			stripped := strings.TrimSpace(line)
			lower := strings.ToLower(stripped)
			if stripped == "" || !strings.Contains(lower, "http") {
				continue
			}
			if strings.Contains(lower, "linkedin.com") && parsed.LinkedIn != models.NotFound {
				continue
			}
			if strings.Contains(lower, "github.com") && parsed.GitHub != models.NotFound {
				continue
			}
			profiles[stripped] = struct{}{}
		}
	}

	if len(profiles) == 0 {
		return models.NotFound
	}

	out := make([]string, 0, len(profiles))
	for p := range profiles {
		out = append(out, p)
	}
	sort.Strings(out)
	return strings.Join(out, "\n")
}

func findFirstNonEmpty(re *regexp.Regexp, texts ...string) []string {
	for _, t := range texts {
		if found := re.FindAllString(t, -1); len(found) > 0 {
			return found
		}
	}
	return nil
}

func firstOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return values[0]
}

func trimLink(link string) string {
	link = strings.TrimRight(strings.TrimSpace(link), "/")
	if link == "" {
		return models.NotFound
	}
	return link
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func isAlphaIgnoringSpaces(s string) bool {
	seen := false
	for _, r := range s {
		if r == ' ' {
			continue
		}
		if !unicode.IsLetter(r) {
			return false
		}
		seen = true
	}
	return seen
}

func isMostlyUpper(s string) bool {
	letters, upper := 0, 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	return letters > 2 && float64(upper)/float64(letters) > 0.7
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
