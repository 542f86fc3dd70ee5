package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/ats-scanner/internal/models"
)

const sampleResume = `Jane Doe
jane.doe@example.com | +1 415-555-0132
https://github.com/janedoe/ | linkedin.com/in/jane-doe

SUMMARY
Backend engineer building APIs in Go.

EXPERIENCE
Acme Corp - Senior Engineer
Built payment services with Postgres and Kafka.

Skills:
Go, Python, Docker, Kubernetes

EDUCATION
BSc Computer Science, State University
`

func TestResumeParserExtractsContactAndSections(t *testing.T) {
	t.Parallel()

	parsed, err := NewResumeParser().Parse(sampleResume, "jane.pdf")
	require.NoError(t, err)

	assert.Equal(t, "jane.pdf", parsed.OriginalFilename)
	assert.Equal(t, "Jane Doe", parsed.Name)
	assert.Equal(t, "jane.doe@example.com", parsed.Email)
	assert.Contains(t, parsed.Phone, "415-555-0132")
	assert.Equal(t, "https://github.com/janedoe", parsed.GitHub)
	assert.Equal(t, "linkedin.com/in/jane-doe", parsed.LinkedIn)

	assert.Equal(t, "Backend engineer building APIs in Go.", parsed.Summary)
	assert.Equal(t, "Acme Corp - Senior Engineer\nBuilt payment services with Postgres and Kafka.", parsed.Experience)
	assert.Equal(t, "Go, Python, Docker, Kubernetes", parsed.Skills)
	assert.Equal(t, "BSc Computer Science, State University", parsed.Education)
	assert.Equal(t, models.NotFound, parsed.Projects)
	assert.Equal(t, "GitHub: https://github.com/janedoe\nLinkedIn: linkedin.com/in/jane-doe", parsed.CodingProfiles)
	assert.Equal(t, sampleResume, parsed.RawText)
}

func TestResumeParserMissingFields(t *testing.T) {
	t.Parallel()

	parsed, err := NewResumeParser().Parse("just some text without anything useful in it", "x.docx")
	require.NoError(t, err)

	assert.Equal(t, models.NotFound, parsed.Name)
	assert.Equal(t, models.NotFound, parsed.Email)
	assert.Equal(t, models.NotFound, parsed.Phone)
	assert.Equal(t, models.NotFound, parsed.GitHub)
	assert.Equal(t, models.NotFound, parsed.CodingProfiles)
}

func TestResumeParserRejectsEmptyText(t *testing.T) {
	t.Parallel()

	_, err := NewResumeParser().Parse("  \n ", "x.pdf")
	assert.ErrorIs(t, err, ErrEmptyResumeText)
}

func TestFindSectionKeyword(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "experience", findSectionKeyword("WORK EXPERIENCE"))
	assert.Equal(t, "skills", findSectionKeyword("  Technical Skills:"))
	assert.Equal(t, "education", findSectionKeyword("1. Education"))
	assert.Equal(t, "", findSectionKeyword("- Led a team of five engineers on the payments platform"))
	assert.Equal(t, "", findSectionKeyword("ok"))
}

func TestCleanText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a b\n\nc", CleanText("  a \t  b  \r\n\n\n\n  c  "))
}
