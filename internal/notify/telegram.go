// Package notify delivers study reminders to the user's own Telegram chat.
package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/elevate/internal/review"
)

// Telegram sends messages to a single chat. One client serves one user.
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram creates a notifier for the given bot token and chat
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram client: %v", err)
	}
	return &Telegram{api: api, chatID: chatID}, nil
}

// SendReminder tells the user how many questions are waiting for review
func (t *Telegram) SendReminder(count int) error {
	text := fmt.Sprintf("📚 You have %d question(s) due for review. Open Elevate to keep them fresh!", count)
	if count == 1 {
		text = "📚 You have 1 question due for review. Open Elevate to keep it fresh!"
	}
	if _, err := t.api.Send(tgbotapi.NewMessage(t.chatID, text)); err != nil {
		return fmt.Errorf("failed to send reminder: %v", err)
	}
	return nil
}

// SendSummary reports a finished review session
func (t *Telegram) SendSummary(summary review.Summary) error {
	text := fmt.Sprintf("✅ Finished reviewing %q: %d question(s), average score %d.",
		summary.QuestionSetName, len(summary.Outcomes), summary.AverageScore)
	if summary.SubmissionError != "" {
		text += "\n⚠️ " + summary.SubmissionError
	}
	if _, err := t.api.Send(tgbotapi.NewMessage(t.chatID, text)); err != nil {
		return fmt.Errorf("failed to send summary: %v", err)
	}
	return nil
}
