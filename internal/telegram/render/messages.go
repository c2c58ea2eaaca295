package render

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"strings"
	"syscall"

	"github.com/princehaifan/quran-memory-system/internal/entity"
)

const (
	MsgWelcome = `🌙 <b>Qur'an Master Memory System</b>

Assalamu alaikum! I build a complete study plan for any verse of the Qur'an:
• meaning, tafsir and word roots
• a memory story and review cycles
• the 7x7x7 system, journaling and weekly consolidation

Tap the button below or send /plan Al-Fatiha 1`

	MsgHelp = `🤖 <b>Commands</b>

/start - welcome message
/plan &lt;surah&gt; &lt;ayah&gt; - generate a plan right away
/cancel - discard the input in progress
/help - show this help

<b>How it works</b>
1. Choose a surah, by name or number
2. Choose an ayah
3. Wait while the plan is generated
4. Open the sections one at a time and download the plan as .md, .pdf or .docx`

	MsgAskSurah = `📖 Which surah? Send its name or number.`

	MsgAskAyah = `🔢 Surah <b>%s</b>. Which ayah?`

	MsgGenerating = `⏳ Generating the study plan for Surah <b>%s</b>, Ayah <b>%s</b>...

This usually takes under a minute.`

	MsgAlreadyGenerating = `⏳ A study plan is already being generated. Please wait for it to finish.`

	MsgBlankInput = `⚠️ Please enter both a Surah and an Ayah.`

	MsgCancelled = `👋 Input discarded. Send /start to begin again.`

	MsgIdleHint = `Send /plan &lt;surah&gt; &lt;ayah&gt; or tap the button below to start.`

	MsgAllCollapsed = `<i>Tap a section below to expand it.</i>`

	MsgNoPlan = `❌ There is no study plan yet. Send /start to create one.`

	MsgPreparingFile = `⏳ Preparing the file...`

	// ErrGenerationFailed is the uniform failure message shown for every
	// generation error, whatever the cause.
	ErrGenerationFailed = `❌ <b>Error Generating Plan</b>

Failed to generate study plan. Please try again.`

	ErrGeneric            = `❌ Something went wrong. Please try again or send /start`
	ErrInvalidState       = `❌ Unexpected state. Send /start to begin again.`
	ErrInvalidFormat      = `❌ Unknown format. Available: markdown, pdf, docx`
	ErrExportFailed       = `❌ Could not prepare the file. Please try again.`
	ErrUnknownCommand     = `❌ Unknown command. Send /help`
	ErrNetworkIssue       = `❌ Connection problem. Please try again later.`
	ErrServiceUnavailable = `❌ The service is temporarily unavailable. Please try again in a few minutes.`
	ErrTimeout            = `❌ The operation took too long. Please try again.`
)

// RenderAskAyah formats the ayah question for the chosen surah
func RenderAskAyah(surah string) string {
	return fmt.Sprintf(MsgAskAyah, html.EscapeString(surah))
}

// RenderGenerating formats the notice sent when a generation starts
func RenderGenerating(ref entity.VerseRef) string {
	return fmt.Sprintf(MsgGenerating, html.EscapeString(ref.Surah), html.EscapeString(ref.Ayah))
}

// ClassifyError maps an error onto a user-facing message
func ClassifyError(err error) string {
	if err == nil {
		return ErrGeneric
	}

	switch {
	case errors.Is(err, entity.ErrGenerationFailed):
		return ErrGenerationFailed
	case errors.Is(err, entity.ErrGenerationInProgress):
		return MsgAlreadyGenerating
	case errors.Is(err, entity.ErrBlankVerseReference):
		return MsgBlankInput
	case errors.Is(err, entity.ErrNoStudyPlan):
		return MsgNoPlan
	case errors.Is(err, entity.ErrInvalidFormat):
		return ErrInvalidFormat
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrTimeout
		}
		return ErrNetworkIssue
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errors.Is(opErr.Err, syscall.ECONNREFUSED) {
			return ErrServiceUnavailable
		}
		return ErrNetworkIssue
	}

	errMsg := err.Error()
	switch {
	case strings.Contains(errMsg, "connection refused"), strings.Contains(errMsg, "unavailable"):
		return ErrServiceUnavailable
	case strings.Contains(errMsg, "timeout"):
		return ErrTimeout
	case strings.Contains(errMsg, "invalid state"):
		return ErrInvalidState
	}

	return ErrGeneric
}
