package slug

import (
	"regexp"
	"strings"
)

// MaxLength is the maximum number of characters allowed in a session slug
const MaxLength = 36

// namePattern matches session names made up only of English alphabet
// characters, numeric characters, hyphens, and spaces
var namePattern = regexp.MustCompile(`^[a-zA-Z0-9- ]+$`)

// slugPattern matches well-formed slugs: lowercase alphanumerics and hyphens
// only. Used server-side so client-computed slugs are never trusted
var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Error represents a reason a session name could not be turned into a slug
type Error string

const (
	// ErrInvalidCharacter means the session name contains a character outside
	// the permitted set
	ErrInvalidCharacter Error = "InvalidCharacter"

	// ErrTooLong means the derived slug exceeds MaxLength characters
	ErrTooLong Error = "TooLong"
)

// ToSlug derives a URL slug from a human session name by mapping spaces to
// hyphens and lower-casing, character by character. Validation runs against
// the original name, not the derived slug, so characters that only become
// invalid after case-folding are not separately flagged. Both errors may be
// returned at once
func ToSlug(name string) (string, []Error) {
	var errs []Error

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r == ' ' {
			r = '-'
		}
		b.WriteRune(r)
	}
	slug := strings.ToLower(b.String())

	if !namePattern.MatchString(name) {
		errs = append(errs, ErrInvalidCharacter)
	}
	if len(slug) > MaxLength {
		errs = append(errs, ErrTooLong)
	}

	return slug, errs
}

// IsValid reports whether a slug is syntactically well-formed and within the
// length limit
func IsValid(s string) bool {
	return len(s) <= MaxLength && slugPattern.MatchString(s)
}
