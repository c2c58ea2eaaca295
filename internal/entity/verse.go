package entity

const (
	DefaultSurah = "Al-Fatiha"
	DefaultAyah  = "1"
)

// VerseRef identifies a verse by free-text surah and ayah as typed by the user.
// Values are forwarded to the provider verbatim.
type VerseRef struct {
	Surah string `json:"surah"`
	Ayah  string `json:"ayah"`
}

// DefaultVerseRef returns the reference pre-filled in every input form.
func DefaultVerseRef() VerseRef {
	return VerseRef{Surah: DefaultSurah, Ayah: DefaultAyah}
}
