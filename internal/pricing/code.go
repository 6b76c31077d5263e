package pricing

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

const rateCardInitialsMax = 6

// RateCardCode derives a code from the card name: the uppercased initial of
// each word (at most six) plus the calendar year of the creation instant.
func RateCardCode(name string, now time.Time) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		r := []rune(word)[0]
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
		if b.Len() >= rateCardInitialsMax {
			break
		}
	}
	initials := b.String()
	if len([]rune(initials)) > rateCardInitialsMax {
		initials = string([]rune(initials)[:rateCardInitialsMax])
	}
	return fmt.Sprintf("%s-%d", initials, now.Year())
}
