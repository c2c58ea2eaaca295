package validator

import (
	"errors"
	"testing"

	"github.com/princehaifan/quran-memory-system/internal/entity"
)

func TestValidateVerseRef(t *testing.T) {
	tests := []struct {
		name    string
		ref     entity.VerseRef
		wantErr bool
	}{
		{name: "defaults", ref: entity.DefaultVerseRef()},
		{name: "free text is kept", ref: entity.VerseRef{Surah: "not a surah", Ayah: "xyz"}},
		{name: "blank surah", ref: entity.VerseRef{Surah: "", Ayah: "5"}, wantErr: true},
		{name: "whitespace ayah", ref: entity.VerseRef{Surah: "Al-Baqarah", Ayah: "   "}, wantErr: true},
		{name: "both blank", ref: entity.VerseRef{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVerseRef(tt.ref)
			if tt.wantErr {
				if !errors.Is(err, entity.ErrBlankVerseReference) {
					t.Fatalf("expected ErrBlankVerseReference, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	for _, in := range []string{"markdown", "PDF", " docx "} {
		if _, err := ValidateFormat(in); err != nil {
			t.Fatalf("ValidateFormat(%q): %v", in, err)
		}
	}
	if _, err := ValidateFormat("html"); !errors.Is(err, entity.ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"study-plan Al-Fatiha 1.md":   "study-plan-al-fatiha-1.md",
		"../../etc/passwd":            "passwd",
		"plan (Al Baqarah) [255].pdf": "plan-al-baqarah-255.pdf",
		"  ":                          "",
	}
	for in, want := range cases {
		if got := SanitizeFilename(in); got != want {
			t.Fatalf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
