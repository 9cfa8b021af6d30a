package utils

import (
	"strings"
	"unicode"
)

// Slugify 把名称转换为 URL 友好的 slug
func Slugify(s string) string {
	var b strings.Builder
	lastDash := true // 避免开头出现连字符

	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteRune('-')
			lastDash = true
		}
	}

	return strings.Trim(b.String(), "-")
}
