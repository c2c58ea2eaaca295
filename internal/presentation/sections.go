// Package presentation maps a validated study plan onto the fixed sequence of
// display sections shared by every renderer (web page, Telegram, documents).
package presentation

import (
	"strconv"
	"strings"

	"github.com/princehaifan/quran-memory-system/internal/entity"
)

type SectionID string

const (
	SectionFoundations   SectionID = "foundations"
	SectionStory         SectionID = "story"
	SectionFaith         SectionID = "faith"
	SectionReview        SectionID = "review"
	SectionSystem        SectionID = "system"
	SectionJournal       SectionID = "journal"
	SectionConsolidation SectionID = "consolidation"
)

// SectionIDs lists every section in display order.
var SectionIDs = []SectionID{
	SectionFoundations,
	SectionStory,
	SectionFaith,
	SectionReview,
	SectionSystem,
	SectionJournal,
	SectionConsolidation,
}

// ParseSectionID reports whether s names a known section.
func ParseSectionID(s string) (SectionID, bool) {
	for _, id := range SectionIDs {
		if string(id) == s {
			return id, true
		}
	}
	return "", false
}

type BlockKind string

const (
	BlockVerse  BlockKind = "verse"
	BlockText   BlockKind = "text"
	BlockFields BlockKind = "fields"
	BlockList   BlockKind = "list"
	BlockTable  BlockKind = "table"
)

// VerseCard is the verse header of the Foundations section.
type VerseCard struct {
	Arabic          string
	Transliteration string
	Translation     string
}

// Field is a labelled value rendered as "Label: Value".
type Field struct {
	Label string
	Value string
}

// Block is one layout unit of a section. Only the members matching Kind are set.
type Block struct {
	Kind    BlockKind
	Heading string

	Text    string
	Verse   *VerseCard
	Fields  []Field
	Items   []string
	Ordered bool
	Columns []string
	Rows    [][]string
}

type Section struct {
	ID     SectionID
	Title  string
	Icon   string
	Blocks []Block
}

// Sections lays out plan in fixed order. The story section is present only
// when the plan carries one; a nil plan yields nothing.
func Sections(plan *entity.StudyPlan) []Section {
	if plan == nil {
		return nil
	}

	out := make([]Section, 0, len(SectionIDs))
	out = append(out, foundations(plan.Foundations))
	if plan.HasStory() {
		out = append(out, story(plan.StoryIntegration))
	}
	out = append(out,
		faith(plan.AppliedFaith),
		review(plan.MemoryReview),
		system(plan.SevenBySevenSystem),
		journal(plan.JournalingFramework),
		consolidation(plan.WeeklyConsolidation),
	)
	return out
}

// Find returns the section with the given id.
func Find(sections []Section, id SectionID) (Section, bool) {
	for _, s := range sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

func foundations(f entity.Foundations) Section {
	words := make([][]string, 0, len(f.WordAnalysis))
	for _, w := range f.WordAnalysis {
		words = append(words, []string{w.Word, w.Root, w.Meaning})
	}

	return Section{
		ID:    SectionFoundations,
		Title: "Module 1: Foundations of Understanding",
		Icon:  "📖",
		Blocks: []Block{
			{
				Kind: BlockVerse,
				Verse: &VerseCard{
					Arabic:          f.VerseInfo.Arabic,
					Transliteration: f.VerseInfo.Transliteration,
					Translation:     quote(f.VerseInfo.Translation),
				},
			},
			{Kind: BlockText, Heading: "Tafsir & Context", Text: f.Tafsir},
			{Kind: BlockTable, Heading: "Word Analysis", Columns: []string{"Word", "Root", "Meaning"}, Rows: words},
			{Kind: BlockList, Heading: "Moral Lessons & Application", Items: f.MoralLessons},
			{
				Kind: BlockFields,
				Fields: []Field{
					{Label: "Life Application", Value: f.LifeApplication},
					{Label: "Reflection Prompt", Value: f.ReflectionPrompt},
				},
			},
			{
				Kind:    BlockFields,
				Heading: "Memory Story",
				Fields: []Field{
					{Label: "Scene", Value: f.MemoryStory.Scene},
					{Label: "Mnemonic", Value: f.MemoryStory.Mnemonic},
					{Label: "Keywords", Value: strings.Join(f.MemoryStory.Keywords, ", ")},
				},
			},
		},
	}
}

func story(s *entity.StoryIntegration) Section {
	return Section{
		ID:    SectionStory,
		Title: "Module 2: Story & Lesson Integration",
		Icon:  "✨",
		Blocks: []Block{{
			Kind: BlockFields,
			Fields: []Field{
				{Label: "Summary", Value: s.StorySummary},
				{Label: "Moral Themes", Value: strings.Join(s.MoralThemes, ", ")},
				{Label: "Modern Analogy", Value: s.ModernAnalogy},
				{Label: "Mental Movie Scene", Value: s.MentalMovieScene},
				{Label: "Mnemonic Phrase", Value: quote(s.MnemonicPhrase)},
			},
		}},
	}
}

func faith(a entity.AppliedFaith) Section {
	return Section{
		ID:    SectionFaith,
		Title: "Module 3: Applied Faith & Character Development",
		Icon:  "❤️",
		Blocks: []Block{{
			Kind: BlockFields,
			Fields: []Field{
				{Label: "Verse Theme", Value: a.VerseTheme},
				{Label: "Emotional Tone", Value: a.TafsirEmotionalTone},
				{Label: "Personal Challenge", Value: a.PersonalChallenge},
				{Label: "Daily Micro-Action", Value: a.DailyMicroAction},
				{Label: "Journal Prompt", Value: a.JournalPrompt},
				{Label: "Visualization Cue", Value: a.VisualizationCue},
				{Label: "Recitation Trigger", Value: a.RecitationTrigger},
			},
		}},
	}
}

func review(r entity.MemoryReview) Section {
	rows := make([][]string, 0, len(r.Cycles))
	for _, c := range r.Cycles {
		rows = append(rows, []string{c.Type, c.Schedule, c.Method})
	}

	return Section{
		ID:    SectionReview,
		Title: "Module 4: Memory Review Cycles",
		Icon:  "🔄",
		Blocks: []Block{{
			Kind:    BlockTable,
			Columns: []string{"Review Type", "Schedule", "Method"},
			Rows:    rows,
		}},
	}
}

func system(phases []entity.Phase) Section {
	rows := make([][]string, 0, len(phases))
	for _, p := range phases {
		rows = append(rows, []string{formatPhase(p.Phase), p.Focus, p.Practice})
	}

	return Section{
		ID:    SectionSystem,
		Title: "Module 5: The “7x7x7 System”",
		Icon:  "⚖️",
		Blocks: []Block{{
			Kind:    BlockTable,
			Columns: []string{"Phase", "Focus", "Practice"},
			Rows:    rows,
		}},
	}
}

func journal(j entity.JournalingFramework) Section {
	return Section{
		ID:     SectionJournal,
		Title:  "Module 6: Reflection Journaling Framework",
		Icon:   "✏️",
		Blocks: []Block{{Kind: BlockList, Items: j.Prompts, Ordered: true}},
	}
}

func consolidation(w entity.WeeklyConsolidation) Section {
	return Section{
		ID:    SectionConsolidation,
		Title: "Module 7: Weekly Consolidation",
		Icon:  "📚",
		Blocks: []Block{
			{Kind: BlockList, Heading: "End of Week Tasks:", Items: w.Steps, Ordered: true},
			{Kind: BlockFields, Fields: []Field{{Label: "Focus Verse Prompt", Value: w.FocusVersePrompt}}},
		},
	}
}

func quote(s string) string {
	return "\"" + s + "\""
}

func formatPhase(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
