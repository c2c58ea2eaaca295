package validator

import (
	"path/filepath"
	"strings"
	"unicode"
)

// SanitizeFilename makes a download-safe file name. Letters of any script
// are kept, separators collapse to a single dash.
func SanitizeFilename(filename string) string {
	filename = filepath.Base(strings.TrimSpace(filename))

	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(filename) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.':
			sb.WriteRune(r)
			dash = false
		case unicode.IsMark(r):
			sb.WriteRune(r)
		default:
			if !dash && sb.Len() > 0 {
				sb.WriteByte('-')
				dash = true
			}
		}
	}

	return strings.Trim(strings.ReplaceAll(sb.String(), "-.", "."), "-.")
}
