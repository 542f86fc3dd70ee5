package services

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var filenameStripRe = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename reduces a user supplied name to a flat ASCII filename that is
// safe to join onto a storage directory. It may return an empty string.
func SecureFilename(name string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	ascii, _, err := transform.String(t, name)
	if err != nil {
		return ""
	}

	ascii = strings.NewReplacer("/", " ", "\\", " ").Replace(ascii)
	ascii = strings.Join(strings.Fields(ascii), "_")
	ascii = filenameStripRe.ReplaceAllString(ascii, "")

	return strings.Trim(ascii, "._")
}
