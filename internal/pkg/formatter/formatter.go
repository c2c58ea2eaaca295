package formatter

import (
	"fmt"
	"strings"

	"github.com/princehaifan/quran-memory-system/internal/entity"
	"github.com/princehaifan/quran-memory-system/internal/pkg/validator"
	"github.com/princehaifan/quran-memory-system/internal/presentation"
)

// Formatter renders presentation sections as a downloadable document.
type Formatter interface {
	Format(title string, sections []presentation.Section) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct {
	pdfFontPath string
}

// NewFactory creates a formatter factory. pdfFontPath points at a UTF-8 TTF
// font; when empty the bundled locations are probed.
func NewFactory(pdfFontPath string) *Factory {
	return &Factory{pdfFontPath: pdfFontPath}
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(f.pdfFontPath), nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %s", entity.ErrInvalidFormat, format)
	}
}

// Title is the document heading for a plan about ref.
func Title(ref entity.VerseRef) string {
	return fmt.Sprintf("Study Plan: Surah %s, Ayah %s", ref.Surah, ref.Ayah)
}

// FileName is the download name for a plan about ref.
func FileName(ref entity.VerseRef, f Formatter) string {
	base := strings.NewReplacer("/", " ", "\\", " ").Replace(fmt.Sprintf("study-plan %s %s", ref.Surah, ref.Ayah))
	name := validator.SanitizeFilename(base)
	if name == "" {
		name = "study-plan"
	}
	return name + f.FileExtension()
}

// Render looks up the formatter for format and renders the plan.
func (f *Factory) Render(format entity.ResultFormat, ref entity.VerseRef, plan *entity.StudyPlan) ([]byte, Formatter, error) {
	if plan == nil {
		return nil, nil, entity.ErrNoStudyPlan
	}

	fmtr, err := f.Create(format)
	if err != nil {
		return nil, nil, err
	}

	data, err := fmtr.Format(Title(ref), presentation.Sections(plan))
	if err != nil {
		return nil, nil, fmt.Errorf("format %s: %w", format, err)
	}
	return data, fmtr, nil
}
