package catalog

import (
	"strings"
	"testing"
	"time"
	"unicode"

	"github.com/stretchr/testify/assert"
)

func TestCategoryCode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"two words", "Software Development", "SD"},
		{"single word", "Hardware", "H"},
		{"truncated to five", "Alpha Beta Gamma Delta Epsilon Zeta", "ABGDE"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"lowercase input", "managed services", "MS"},
		{"extra spaces", "  Cloud   Hosting  ", "CH"},
		{"accented initials", "École Études", "EE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CategoryCode(tt.in))
		})
	}
}

func TestCategoryCodeProperties(t *testing.T) {
	names := []string{
		"Software Development",
		"a b c d e f g h i j",
		"Über Ärger Öl",
		"123 Services",
		"",
	}
	for _, name := range names {
		code := CategoryCode(name)
		assert.LessOrEqual(t, len([]rune(code)), 5, "code for %q too long", name)
		for _, r := range code {
			assert.False(t, unicode.IsLower(r), "lowercase rune in code for %q", name)
		}
	}
}

func TestProductCode(t *testing.T) {
	// 42ms past the second, so the millisecond suffix is "042".
	at := time.Date(2024, 3, 15, 10, 30, 0, 42*int(time.Millisecond), time.UTC)

	assert.Equal(t, "SD-CUS-042", ProductCode("Custom Web App", "SD", at))
	assert.Equal(t, "SQU-SD-CUS-042", SQUCode("Custom Web App", "SD", at))
}

func TestProductCodeWithoutCategory(t *testing.T) {
	at := time.Date(2024, 3, 15, 10, 30, 0, 7*int(time.Millisecond), time.UTC)

	assert.Equal(t, "PRD-CUS-007", ProductCode("Custom Web App", "", at))
	assert.Equal(t, "SQU-PRD-CUS-007", SQUCode("Custom Web App", "", at))
}

func TestProductCodeStripsNonAlphanumerics(t *testing.T) {
	at := time.Date(2024, 3, 15, 10, 30, 0, 999*int(time.Millisecond), time.UTC)

	// "e-Book!" -> "EBOOK" -> "EBO"
	assert.Equal(t, "SD-EBO-999", ProductCode("e-Book!", "SD", at))
}

func TestProductCodeShortName(t *testing.T) {
	at := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	got := ProductCode("Go", "SD", at)
	assert.True(t, strings.HasPrefix(got, "SD-GO-"), "got %q", got)
}
