package keyboard

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/princehaifan/quran-memory-system/internal/entity"
	"github.com/princehaifan/quran-memory-system/internal/presentation"
)

const sectionsPerRow = 2

// Builder creates inline keyboards
type Builder struct{}

// NewBuilder creates a keyboard builder
func NewBuilder() *Builder {
	return &Builder{}
}

// StartKeyboard creates the "new study plan" button
func (b *Builder) StartKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📖 New study plan", EncodeCallback(ActionCommand, ValueNew)),
		),
	)
}

// DefaultSurahKeyboard offers the pre-filled surah
func (b *Builder) DefaultSurahKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("Use default: %s", entity.DefaultSurah),
				EncodeCallback(ActionDefault, ValueSurah),
			),
		),
	)
}

// DefaultAyahKeyboard offers the pre-filled ayah
func (b *Builder) DefaultAyahKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("Use default: %s", entity.DefaultAyah),
				EncodeCallback(ActionDefault, ValueAyah),
			),
		),
	)
}

// PlanKeyboard lists the plan sections as accordion toggles, followed by the
// download buttons and a "new plan" button. The open section is marked.
func (b *Builder) PlanKeyboard(sections []presentation.Section, acc presentation.Accordion) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}

	var row []tgbotapi.InlineKeyboardButton
	for _, s := range sections {
		label := "▸ " + s.Icon + " " + shortTitle(s.ID)
		if acc.IsOpen(s.ID) {
			label = "▾ " + s.Icon + " " + shortTitle(s.ID)
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, EncodeCallback(ActionSection, string(s.ID))))
		if len(row) == sectionsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📄 .md", EncodeCallback(ActionDownload, string(entity.FormatMarkdown))),
			tgbotapi.NewInlineKeyboardButtonData("📕 .pdf", EncodeCallback(ActionDownload, string(entity.FormatPDF))),
			tgbotapi.NewInlineKeyboardButtonData("📝 .docx", EncodeCallback(ActionDownload, string(entity.FormatDOCX))),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📖 New study plan", EncodeCallback(ActionCommand, ValueNew)),
		),
	)

	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// shortTitle is the button caption; full module titles do not fit two per row.
func shortTitle(id presentation.SectionID) string {
	switch id {
	case presentation.SectionFoundations:
		return "Foundations"
	case presentation.SectionStory:
		return "Story"
	case presentation.SectionFaith:
		return "Applied Faith"
	case presentation.SectionReview:
		return "Review Cycles"
	case presentation.SectionSystem:
		return "7x7x7 System"
	case presentation.SectionJournal:
		return "Journaling"
	case presentation.SectionConsolidation:
		return "Weekly"
	default:
		return string(id)
	}
}
