package handlers

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/princehaifan/quran-memory-system/internal/entity"
	"github.com/princehaifan/quran-memory-system/internal/pkg/formatter"
	"github.com/princehaifan/quran-memory-system/internal/usecase/studyplan"
)

// Sender is the part of the Bot API the handlers talk to.
// *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// SessionRegistry hands out the plan controller of a chat.
type SessionRegistry interface {
	Get(key string) *studyplan.Controller
}

// Exporter renders a plan as a downloadable document.
type Exporter interface {
	Render(format entity.ResultFormat, ref entity.VerseRef, plan *entity.StudyPlan) ([]byte, formatter.Formatter, error)
}
