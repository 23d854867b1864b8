// Package slug builds the public identifiers of generated websites.
package slug

import (
	"regexp"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	Prefix = "vox-"

	// alphabet keeps generated slugs inside the pattern IsValid accepts.
	alphabet        = "0123456789abcdefghijklmnopqrstuvwxyz"
	guestIDLength   = 6
	suffixLength    = 3
	maxSanitizedLen = 30
)

var (
	validPattern   = regexp.MustCompile(`^vox-[a-z0-9-]+$`)
	disallowed     = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
	hyphenRuns     = regexp.MustCompile(`-+`)
)

// GenerateGuestSlug returns "vox-" followed by six random characters.
func GenerateGuestSlug() (string, error) {
	id, err := gonanoid.Generate(alphabet, guestIDLength)
	if err != nil {
		return "", err
	}
	return Prefix + id, nil
}

// GenerateBusinessSlug derives a slug from a business name, falling back to a
// guest slug when the name has no usable characters.
func GenerateBusinessSlug(businessName string) (string, error) {
	sanitized := strings.Trim(Sanitize(businessName), "-")
	if sanitized == "" {
		return GenerateGuestSlug()
	}

	suffix, err := gonanoid.Generate(alphabet, suffixLength)
	if err != nil {
		return "", err
	}
	return Prefix + sanitized + "-" + suffix, nil
}

// Sanitize lowercases text, drops everything but letters, digits, spaces and
// hyphens, joins words with single hyphens and truncates to 30 characters.
func Sanitize(text string) string {
	s := strings.TrimSpace(strings.ToLower(text))
	s = disallowed.ReplaceAllString(s, "")
	s = whitespaceRuns.ReplaceAllString(s, "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	if len(s) > maxSanitizedLen {
		s = s[:maxSanitizedLen]
	}
	return s
}

// IsValid reports whether s has the public slug shape.
func IsValid(s string) bool {
	return validPattern.MatchString(s)
}
