package catalog

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	categoryCodeMaxLen = 5
	productNameTokens  = 3

	// DefaultCodePrefix is used when a product has no category code.
	DefaultCodePrefix = "PRD"
)

// CategoryCode derives a short code from a category name: the uppercased
// initial of each word, truncated to five characters. An empty name yields an
// empty code; the required-field rule is enforced separately at submission.
func CategoryCode(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(foldName(name)) {
		r := []rune(word)[0]
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
		if b.Len() >= categoryCodeMaxLen {
			break
		}
	}
	code := b.String()
	if len([]rune(code)) > categoryCodeMaxLen {
		code = string([]rune(code)[:categoryCodeMaxLen])
	}
	return code
}

// ProductCode derives a product code from the name, the owning category code
// and the submission instant: {category|PRD}-{first 3 alphanumerics of the
// name, uppercased}-{last 3 digits of the time in milliseconds}.
func ProductCode(name, categoryCode string, now time.Time) string {
	return fmt.Sprintf("%s-%s-%s", codePrefix(categoryCode), nameToken(name), timeToken(now))
}

// SQUCode derives the secondary product identifier used for cross-referencing
// in pricing documents.
func SQUCode(name, categoryCode string, now time.Time) string {
	return fmt.Sprintf("SQU-%s-%s-%s", codePrefix(categoryCode), nameToken(name), timeToken(now))
}

func codePrefix(categoryCode string) string {
	if categoryCode == "" {
		return DefaultCodePrefix
	}
	return categoryCode
}

// nameToken strips non-alphanumeric characters, uppercases and keeps the
// first three characters.
func nameToken(name string) string {
	var b strings.Builder
	for _, r := range foldName(name) {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
		if b.Len() >= productNameTokens {
			break
		}
	}
	return b.String()
}

func timeToken(now time.Time) string {
	return fmt.Sprintf("%03d", now.UnixMilli()%1000)
}

// foldName decomposes the name and drops combining marks so accented input
// still produces plain ASCII-ish codes.
func foldName(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
