package services

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	listMarkerRe   = regexp.MustCompile(`(?m)^[ \t]*([*\-+]|\d+\.)[ \t]+`)
	boldStarRe     = regexp.MustCompile(`\*\*(.*?)\*\*`)
	boldUnderRe    = regexp.MustCompile(`__(.*?)__`)
	italicStarRe   = regexp.MustCompile(`\*(.*?)\*`)
	codeBlockRe    = regexp.MustCompile("(?s)```.*?```")
	inlineCodeRe   = regexp.MustCompile("`([^`]+)`")
	mdHeaderRe     = regexp.MustCompile(`(?m)^[ \t]*#+[ \t]*.*$`)
	bareHeadingRe  = regexp.MustCompile(`(?m)^[ \t]*[A-Za-z &/()]+:?[ \t]*\n\n`)
	excessBlanksRe = regexp.MustCompile(`\n{3,}`)
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildJobDescriptionPrompt creates the prompt for generating a plain-text JD.
func (pb *PromptBuilder) BuildJobDescriptionPrompt(jobTitle, experience string) string {
	return fmt.Sprintf(`Generate a comprehensive and professional job description for the position of "%[1]s" at a modern tech company. The description should be tailored for a candidate with "%[2]s" level of relevant experience. Analyze the typical requirements, responsibilities, and daily activities for this role and level. Include relevant keywords optimized for Applicant Tracking Systems (ATS). The description must be detailed, structured, and focus on all job aspects: skills, tools, languages, and soft skills. Structure the job description with the following sections, using natural language within paragraphs, strictly avoiding bullet points, numbered lists, or markdown formatting (#, *, -).

1. Job Overview: Summarize the role's purpose, main objectives, and its contribution to the team or company goals.
2. Key Responsibilities: Describe the primary duties and tasks, the nature of the work, potential projects and key focus areas.
3. Required Skills & Qualifications: Describe the programming languages, frameworks, databases, cloud platforms and other tools crucial for the role.
4. Required Soft Skills & Competencies: Elaborate on communication, problem-solving and a proactive learning attitude.
5. Required Experience: Relate the type and duration of professional experience to the "%[1]s" role and "%[2]s" level.
6. Preferred Qualifications (Optional): Describe advantageous but not mandatory skills, experience or qualifications.
7. Work Environment / Team Culture (Optional): Briefly describe the team dynamics and company values.

Use ONLY plain text and standard paragraphs separated by a single blank line. The final output should read as if written by a hiring manager, ready for direct use on a job board. Avoid any meta-commentary about the generation process itself.`,
		jobTitle, experience)
}

// SanitizeGeneratedText strips markdown the model emits despite being asked not to.
func SanitizeGeneratedText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = codeBlockRe.ReplaceAllString(text, "")
	text = listMarkerRe.ReplaceAllString(text, "")
	text = boldStarRe.ReplaceAllString(text, "$1")
	text = boldUnderRe.ReplaceAllString(text, "$1")
	text = italicStarRe.ReplaceAllString(text, "$1")
	text = inlineCodeRe.ReplaceAllString(text, "$1")
	text = mdHeaderRe.ReplaceAllString(text, "")
	text = bareHeadingRe.ReplaceAllString(text, "")
	text = excessBlanksRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
