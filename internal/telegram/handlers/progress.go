package handlers

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	progressInterval     = 15 * time.Second
	typingActionInterval = 4 * time.Second // Telegram typing expires after 5s
)

// ProgressNotifier keeps the chat informed during a generation: a typing
// indicator plus an occasional note.
type ProgressNotifier struct {
	bot              Sender
	chatID           int64
	progressInterval time.Duration
	typingInterval   time.Duration
	done             chan struct{}
	stopOnce         sync.Once
	messages         []string
}

func NewProgressNotifier(bot Sender, chatID int64) *ProgressNotifier {
	return &ProgressNotifier{
		bot:              bot,
		chatID:           chatID,
		progressInterval: progressInterval,
		typingInterval:   typingActionInterval,
		done:             make(chan struct{}),
		messages: []string{
			"⏳ Still studying the verse...",
			"⏳ Gathering tafsir and word roots...",
			"⏳ Building the memory review cycles...",
			"⏳ Almost done...",
		},
	}
}

// Start begins sending typing indicators and progress notes until Stop or ctx is done
func (pn *ProgressNotifier) Start(ctx context.Context) {
	pn.sendTypingAction()

	go func() {
		progress := time.NewTicker(pn.progressInterval)
		typing := time.NewTicker(pn.typingInterval)
		defer progress.Stop()
		defer typing.Stop()

		index := 0
		for {
			select {
			case <-progress.C:
				msg := tgbotapi.NewMessage(pn.chatID, pn.messages[index%len(pn.messages)])
				index++
				pn.bot.Send(msg)
			case <-typing.C:
				pn.sendTypingAction()
			case <-pn.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// sendTypingAction goes through Request: the API answers chat actions with
// a bare boolean, which Send cannot decode into a Message.
func (pn *ProgressNotifier) sendTypingAction() {
	pn.bot.Request(tgbotapi.NewChatAction(pn.chatID, tgbotapi.ChatTyping))
}

// Stop is safe to call more than once
func (pn *ProgressNotifier) Stop() {
	pn.stopOnce.Do(func() {
		close(pn.done)
	})
}
