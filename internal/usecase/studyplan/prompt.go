package studyplan

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/princehaifan/quran-memory-system/internal/entity"
)

const studyPlanPrompt = `You are an expert Islamic scholar and a memory science specialist. Your task is to create a detailed, structured study plan for a specific Qur'anic verse.

The verse is Surah {{.Surah}}, Ayah {{.Ayah}}.

Generate a comprehensive study plan based on the following 7 modules. Populate all fields with rich, insightful, and actionable content.
If the verse is not part of a story, return null for the 'storyIntegration' field.

Module 1 - Foundations of Understanding:
- verseInfo: Arabic text, transliteration, and English translation.
- tafsir: A concise tafsir and historical context (Asbāb al-Nuzūl).
- wordAnalysis: 5-7 key Arabic words with root and meaning.
- moralLessons: 3 moral principles.
- lifeApplication: One practical application.
- reflectionPrompt: A question "How can I live this verse today?".
- memoryStory: A vivid mental scene, a mnemonic, and anchor keywords.

Module 2 - Story & Lesson Integration (if applicable):
- Summarize the story.
- Extract moral themes.
- Link to a modern analogy.
- Describe a mental movie scene.
- Create a mnemonic phrase.

Module 3 - Applied Faith & Character Development:
- Identify the verse's theme on character (e.g., honesty).
- Explain tafsir and emotional tone.
- Identify a related personal challenge.
- Design a daily micro-action.
- Write a nightly journal prompt.
- Create a visualization cue.
- Suggest a habit trigger for recitation.

Module 4 - Memory Review Cycles:
- Provide the 5 review cycles (Quick, Deep, Active, Reflection, Long-Term) with schedule and method.

Module 5 - The "7x7x7 System":
- List the 7 phases (Read, Understand, Visualize, Anchor, Apply, Recite, Review) with their practices.

Module 6 - Reflection Journaling Framework:
- Provide the 4 daily journal prompts.

Module 7 - Weekly Consolidation:
- List the 5 weekly consolidation steps.
- Provide the prompt for choosing a focus verse.

Your entire response MUST be a single, valid JSON object conforming to the provided schema. Do not include any text, markdown, or code block fences before or after the JSON.
`

var promptTemplate = template.Must(template.New("study_plan").Parse(studyPlanPrompt))

// BuildPrompt embeds the verse reference verbatim into the generation instruction.
func BuildPrompt(ref entity.VerseRef) (string, error) {
	var sb strings.Builder
	if err := promptTemplate.Execute(&sb, ref); err != nil {
		return "", fmt.Errorf("execute prompt template: %w", err)
	}
	return sb.String(), nil
}
