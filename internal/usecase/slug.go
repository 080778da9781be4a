package usecase

import (
	"strings"
	"unicode"

	uuid "github.com/google/uuid"
)

// slugify lowercases the input and collapses anything non-alphanumeric into
// single hyphens.
func slugify(input string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(input)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteRune('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// uniqueSlug appends a short random suffix so concurrent creates with the
// same title do not collide on the unique slug index.
func uniqueSlug(input string) string {
	base := slugify(input)
	suffix := strings.Split(uuid.NewString(), "-")[0]
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
