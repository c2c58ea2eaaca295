package formatter

import (
	"bytes"
	"fmt"

	"github.com/princehaifan/quran-memory-system/internal/presentation"
	"github.com/unidoc/unioffice/color"
	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/measurement"
	"github.com/unidoc/unioffice/schema/soo/wml"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (df *DOCXFormatter) Format(title string, sections []presentation.Section) ([]byte, error) {
	doc := document.New()
	defer doc.Close()

	heading(doc, "Title", title)

	for _, s := range sections {
		heading(doc, "Heading1", s.Icon+" "+s.Title)
		for _, b := range s.Blocks {
			docxBlock(doc, b)
		}
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func heading(doc *document.Document, style, text string) {
	p := doc.AddParagraph()
	p.SetStyle(style)
	p.AddRun().AddText(text)
}

func docxBlock(doc *document.Document, b presentation.Block) {
	if b.Heading != "" {
		heading(doc, "Heading2", b.Heading)
	}

	switch b.Kind {
	case presentation.BlockVerse:
		for i, line := range []string{b.Verse.Arabic, b.Verse.Transliteration, b.Verse.Translation} {
			p := doc.AddParagraph()
			p.Properties().SetAlignment(wml.ST_JcCenter)
			run := p.AddRun()
			switch i {
			case 0:
				run.Properties().SetBold(true)
				run.Properties().SetSize(18 * measurement.Point)
			case 1:
				run.Properties().SetItalic(true)
			}
			run.AddText(line)
		}
	case presentation.BlockText:
		doc.AddParagraph().AddRun().AddText(b.Text)
	case presentation.BlockFields:
		for _, f := range b.Fields {
			p := doc.AddParagraph()
			label := p.AddRun()
			label.Properties().SetBold(true)
			label.AddText(f.Label + ": ")
			p.AddRun().AddText(f.Value)
		}
	case presentation.BlockList:
		for i, item := range b.Items {
			marker := "•"
			if b.Ordered {
				marker = fmt.Sprintf("%d.", i+1)
			}
			p := doc.AddParagraph()
			p.Properties().SetStartIndent(0.25 * measurement.Inch)
			p.AddRun().AddText(marker + " " + item)
		}
	case presentation.BlockTable:
		docxTable(doc, b.Columns, b.Rows)
		doc.AddParagraph()
	}
}

func docxTable(doc *document.Document, columns []string, rows [][]string) {
	table := doc.AddTable()
	table.Properties().SetWidthPercent(100)
	table.Properties().Borders().SetAll(wml.ST_BorderSingle, color.Auto, 1*measurement.Point)

	header := table.AddRow()
	for _, c := range columns {
		run := header.AddCell().AddParagraph().AddRun()
		run.Properties().SetBold(true)
		run.AddText(c)
	}

	for _, r := range rows {
		row := table.AddRow()
		for _, c := range r {
			row.AddCell().AddParagraph().AddRun().AddText(c)
		}
	}
}

func (df *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (df *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
