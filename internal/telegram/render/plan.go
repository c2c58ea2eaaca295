package render

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/princehaifan/quran-memory-system/internal/entity"
	"github.com/princehaifan/quran-memory-system/internal/pkg/formatter"
	"github.com/princehaifan/quran-memory-system/internal/presentation"
)

// MaxMessageLength is the Telegram limit for one text message.
const MaxMessageLength = 4096

const truncationMark = "<i>… open the downloaded file for the full section</i>"

// RenderPlan builds the HTML text of the plan message: the title, the list
// of collapsed sections and the body of the open one.
func RenderPlan(ref entity.VerseRef, sections []presentation.Section, acc presentation.Accordion) string {
	lines := []string{"<b>" + html.EscapeString(formatter.Title(ref)) + "</b>", ""}

	open, ok := presentation.Find(sections, acc.Open())
	if !ok {
		lines = append(lines, MsgAllCollapsed)
		return fitLines(lines)
	}

	lines = append(lines, fmt.Sprintf("<b>%s %s</b>", open.Icon, html.EscapeString(open.Title)))
	for _, b := range open.Blocks {
		lines = append(lines, "")
		lines = append(lines, blockLines(b)...)
	}

	return fitLines(lines)
}

func blockLines(b presentation.Block) []string {
	var lines []string
	if b.Heading != "" {
		lines = append(lines, "<u>"+html.EscapeString(b.Heading)+"</u>")
	}

	switch b.Kind {
	case presentation.BlockVerse:
		if b.Verse != nil {
			lines = append(lines,
				html.EscapeString(b.Verse.Arabic),
				"<i>"+html.EscapeString(b.Verse.Transliteration)+"</i>",
				html.EscapeString(b.Verse.Translation),
			)
		}
	case presentation.BlockText:
		lines = append(lines, html.EscapeString(b.Text))
	case presentation.BlockFields:
		for _, f := range b.Fields {
			lines = append(lines, fmt.Sprintf("<b>%s:</b> %s", html.EscapeString(f.Label), html.EscapeString(f.Value)))
		}
	case presentation.BlockList:
		for i, item := range b.Items {
			marker := "•"
			if b.Ordered {
				marker = fmt.Sprintf("%d.", i+1)
			}
			lines = append(lines, marker+" "+html.EscapeString(item))
		}
	case presentation.BlockTable:
		for _, row := range b.Rows {
			lines = append(lines, tableRow(b.Columns, row))
		}
	}
	return lines
}

// tableRow renders one table row as "• <b>first</b>: Label value; Label value".
func tableRow(columns, row []string) string {
	if len(row) == 0 {
		return "•"
	}

	var sb strings.Builder
	sb.WriteString("• <b>")
	sb.WriteString(html.EscapeString(row[0]))
	sb.WriteString("</b>")
	for i := 1; i < len(row); i++ {
		if i == 1 {
			sb.WriteString(": ")
		} else {
			sb.WriteString("; ")
		}
		if i < len(columns) {
			sb.WriteString("<i>" + html.EscapeString(columns[i]) + "</i> ")
		}
		sb.WriteString(html.EscapeString(row[i]))
	}
	return sb.String()
}

// fitLines joins lines and drops whole trailing lines until the message fits,
// so no HTML tag is ever cut in half.
func fitLines(lines []string) string {
	text := strings.Join(lines, "\n")
	if utf8.RuneCountInString(text) <= MaxMessageLength {
		return text
	}

	budget := MaxMessageLength - utf8.RuneCountInString(truncationMark) - 2
	var kept []string
	used := 0
	for _, l := range lines {
		n := utf8.RuneCountInString(l) + 1
		if used+n > budget {
			break
		}
		kept = append(kept, l)
		used += n
	}
	return strings.Join(kept, "\n") + "\n\n" + truncationMark
}
