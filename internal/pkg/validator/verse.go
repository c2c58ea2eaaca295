package validator

import (
	"fmt"
	"strings"

	"github.com/princehaifan/quran-memory-system/internal/entity"
)

// ValidateVerseRef rejects references with a blank surah or ayah.
// Values are not normalized; non-blank input is forwarded as typed.
func ValidateVerseRef(ref entity.VerseRef) error {
	var missing []string
	if strings.TrimSpace(ref.Surah) == "" {
		missing = append(missing, "surah")
	}
	if strings.TrimSpace(ref.Ayah) == "" {
		missing = append(missing, "ayah")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", entity.ErrBlankVerseReference, strings.Join(missing, ", "))
	}

	return nil
}

// ValidateFormat checks an export format name.
func ValidateFormat(format string) (entity.ResultFormat, error) {
	f := entity.ResultFormat(strings.ToLower(strings.TrimSpace(format)))
	if !f.IsValid() {
		return "", fmt.Errorf("%w: %q (expected markdown, docx or pdf)", entity.ErrInvalidFormat, format)
	}
	return f, nil
}
