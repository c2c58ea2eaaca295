package formatter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/princehaifan/quran-memory-system/internal/presentation"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(title string, sections []presentation.Section) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n", title)

	for _, s := range sections {
		fmt.Fprintf(&buf, "\n## %s %s\n", s.Icon, s.Title)
		for _, b := range s.Blocks {
			buf.WriteString("\n")
			writeMarkdownBlock(&buf, b)
		}
	}

	return buf.Bytes(), nil
}

func writeMarkdownBlock(buf *bytes.Buffer, b presentation.Block) {
	if b.Heading != "" {
		fmt.Fprintf(buf, "### %s\n\n", b.Heading)
	}

	switch b.Kind {
	case presentation.BlockVerse:
		fmt.Fprintf(buf, "> %s\n>\n> *%s*\n>\n> %s\n", b.Verse.Arabic, b.Verse.Transliteration, b.Verse.Translation)
	case presentation.BlockText:
		fmt.Fprintf(buf, "%s\n", b.Text)
	case presentation.BlockFields:
		for i, f := range b.Fields {
			if i > 0 {
				buf.WriteString("\n")
			}
			fmt.Fprintf(buf, "**%s:** %s\n", f.Label, f.Value)
		}
	case presentation.BlockList:
		for i, item := range b.Items {
			if b.Ordered {
				fmt.Fprintf(buf, "%d. %s\n", i+1, item)
			} else {
				fmt.Fprintf(buf, "- %s\n", item)
			}
		}
	case presentation.BlockTable:
		writeMarkdownRow(buf, b.Columns)
		buf.WriteString("|" + strings.Repeat(" --- |", len(b.Columns)) + "\n")
		for _, row := range b.Rows {
			writeMarkdownRow(buf, row)
		}
	}
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", " ")

func writeMarkdownRow(buf *bytes.Buffer, cells []string) {
	buf.WriteString("|")
	for _, c := range cells {
		fmt.Fprintf(buf, " %s |", cellEscaper.Replace(c))
	}
	buf.WriteString("\n")
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
