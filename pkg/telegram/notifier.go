// Package telegram forwards due notifications to a Telegram chat.
package telegram

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of tgbotapi.BotAPI used here
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier sends every due batch as one chat message
type Notifier struct {
	sender Sender
	chatID int64
}

// New connects to the bot API with token
func New(token string, chatID int64) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	log.Printf("Telegram forwarding enabled as @%s", api.Self.UserName)
	return NewWithSender(api, chatID), nil
}

// NewWithSender creates a Notifier over an existing sender
func NewWithSender(sender Sender, chatID int64) *Notifier {
	return &Notifier{sender: sender, chatID: chatID}
}

// Forward sends texts as a single message
func (n *Notifier) Forward(ctx context.Context, texts []string) error {
	if len(texts) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.chatID, FormatMessage(texts))
	if _, err := n.sender.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

// FormatMessage renders a due batch, one line per text
func FormatMessage(texts []string) string {
	var b strings.Builder
	b.WriteString("⏰")
	for _, text := range texts {
		b.WriteString("\n")
		b.WriteString(text)
	}
	return b.String()
}
