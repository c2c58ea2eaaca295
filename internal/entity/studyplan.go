package entity

// StudyPlan is the structured study guide produced for a single verse.
// Field names and nesting are the wire contract of the provider's structured output,
// and the struct tags drive the response schema sent with every request.
type StudyPlan struct {
	Foundations         Foundations         `json:"foundations"`
	StoryIntegration    *StoryIntegration   `json:"storyIntegration" schema:"nullable"`
	AppliedFaith        AppliedFaith        `json:"appliedFaith"`
	MemoryReview        MemoryReview        `json:"memoryReview"`
	SevenBySevenSystem  []Phase             `json:"sevenBySevenSystem" schema:"len=7" desc:"The 7 phases: Read, Understand, Visualize, Anchor, Apply, Recite, Review"`
	JournalingFramework JournalingFramework `json:"journalingFramework"`
	WeeklyConsolidation WeeklyConsolidation `json:"weeklyConsolidation"`
}

// HasStory reports whether the verse belongs to a narrative.
func (p *StudyPlan) HasStory() bool {
	return p != nil && p.StoryIntegration != nil
}

type Foundations struct {
	VerseInfo        VerseInfo      `json:"verseInfo"`
	Tafsir           string         `json:"tafsir" desc:"Explore meaning, historical context (Asbāb al-Nuzūl)"`
	WordAnalysis     []WordAnalysis `json:"wordAnalysis" desc:"5-7 key Arabic words with root and meaning"`
	MoralLessons     []string       `json:"moralLessons" desc:"3 moral principles"`
	LifeApplication  string         `json:"lifeApplication"`
	ReflectionPrompt string         `json:"reflectionPrompt"`
	MemoryStory      MemoryStory    `json:"memoryStory"`
}

type VerseInfo struct {
	Arabic          string `json:"arabic"`
	Transliteration string `json:"transliteration"`
	Translation     string `json:"translation"`
}

type WordAnalysis struct {
	Word    string `json:"word"`
	Root    string `json:"root"`
	Meaning string `json:"meaning"`
}

type MemoryStory struct {
	Scene    string   `json:"scene"`
	Mnemonic string   `json:"mnemonic"`
	Keywords []string `json:"keywords"`
}

// StoryIntegration is present only when the verse has an associated narrative.
type StoryIntegration struct {
	StorySummary     string   `json:"storySummary"`
	MoralThemes      []string `json:"moralThemes"`
	ModernAnalogy    string   `json:"modernAnalogy"`
	MentalMovieScene string   `json:"mentalMovieScene"`
	MnemonicPhrase   string   `json:"mnemonicPhrase"`
}

type AppliedFaith struct {
	VerseTheme          string `json:"verseTheme"`
	TafsirEmotionalTone string `json:"tafsirEmotionalTone"`
	PersonalChallenge   string `json:"personalChallenge"`
	DailyMicroAction    string `json:"dailyMicroAction"`
	JournalPrompt       string `json:"journalPrompt"`
	VisualizationCue    string `json:"visualizationCue"`
	RecitationTrigger   string `json:"recitationTrigger"`
}

type MemoryReview struct {
	Cycles []ReviewCycle `json:"cycles" desc:"Quick, Deep, Active, Reflection and Long-Term review cycles"`
}

type ReviewCycle struct {
	Type     string `json:"type"`
	Schedule string `json:"schedule"`
	Method   string `json:"method"`
}

type Phase struct {
	Phase    float64 `json:"phase"`
	Focus    string  `json:"focus"`
	Practice string  `json:"practice"`
}

type JournalingFramework struct {
	Prompts []string `json:"prompts"`
}

type WeeklyConsolidation struct {
	Steps            []string `json:"steps"`
	FocusVersePrompt string   `json:"focusVersePrompt"`
}
