package web

import (
	"net/url"

	"github.com/princehaifan/quran-memory-system/internal/entity"
	"github.com/princehaifan/quran-memory-system/internal/presentation"
	"github.com/princehaifan/quran-memory-system/internal/usecase/studyplan"
)

const refreshSeconds = 2

type formatLink struct {
	Name  entity.ResultFormat
	Label string
}

var formatLinks = []formatLink{
	{Name: entity.FormatMarkdown, Label: "Markdown"},
	{Name: entity.FormatPDF, Label: "PDF"},
	{Name: entity.FormatDOCX, Label: "Word"},
}

type sectionView struct {
	presentation.Section
	Open bool
	Href string
}

type pageData struct {
	Surah          string
	Ayah           string
	Loading        bool
	RefreshSeconds int
	Notice         string
	Error          string
	Sections       []sectionView
	Formats        []formatLink
}

// newPageData projects a controller snapshot for the page template. The error
// shown is always the uniform message carried by the state.
func newPageData(st studyplan.State, acc presentation.Accordion) pageData {
	data := pageData{
		Surah:          st.Surah,
		Ayah:           st.Ayah,
		Loading:        st.Loading,
		RefreshSeconds: refreshSeconds,
		Formats:        formatLinks,
	}
	if st.Err != nil {
		data.Error = entity.ErrGenerationFailed.Error()
	}

	for _, s := range presentation.Sections(st.Plan) {
		data.Sections = append(data.Sections, sectionView{
			Section: s,
			Open:    acc.IsOpen(s.ID),
			Href:    "/?" + url.Values{"open": {string(acc.Target(s.ID))}}.Encode() + "#" + string(s.ID),
		})
	}

	return data
}

// accordionFromQuery reads ?open=. Absent or unknown ids fall back to the
// default section, an empty value collapses everything.
func accordionFromQuery(q url.Values) presentation.Accordion {
	if !q.Has("open") {
		return presentation.NewAccordion()
	}
	raw := q.Get("open")
	if raw == "" {
		return presentation.AccordionAt("")
	}
	if id, ok := presentation.ParseSectionID(raw); ok {
		return presentation.AccordionAt(id)
	}
	return presentation.NewAccordion()
}
