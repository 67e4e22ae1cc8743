// Package telegram registers the relay against the Telegram front-end:
// a /start handler with a static greeting and a catch-all text handler.
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Welcome is the static /start greeting. It never touches the LLM or
// the history store.
const Welcome = `Welcome. I don't do small talk. Ask what you need, and be clear about it.
If you waste my time, I'll stop responding.
If you're rude, expect the same treatment.
Now, what do you want?`

// Handler produces a reply for one inbound text message.
type Handler interface {
	Handle(ctx context.Context, userID int64, text string) string
}

// Bot long-polls Telegram for updates and dispatches each text message
// to the relay on its own goroutine.
type Bot struct {
	api     *tgbotapi.BotAPI
	handler Handler
	log     *zap.SugaredLogger
}

// NewBot authenticates against the bot API.
func NewBot(token string, handler Handler, log *zap.SugaredLogger) (*Bot, error) {
	return newBot(token, tgbotapi.APIEndpoint, handler, log)
}

func newBot(token, endpoint string, handler Handler, log *zap.SugaredLogger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &Bot{api: api, handler: handler, log: log}, nil
}

// Run polls for updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) {
	b.log.Infow("bot started", "username", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
				continue
			}
			go b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID

	// Only /start is special-cased; any other text, commands included,
	// goes through the relay.
	if msg.IsCommand() && msg.Command() == "start" {
		b.log.Infow("user started the bot", "user_id", userID)
		b.reply(chatID, msg.MessageID, Welcome)
		return
	}

	b.log.Infow("received message", "user_id", userID, "text", msg.Text)
	response := b.handler.Handle(ctx, userID, msg.Text)
	b.reply(chatID, msg.MessageID, response)
	b.log.Infow("response sent", "user_id", userID)
}

func (b *Bot) reply(chatID int64, replyTo int, text string) {
	out := tgbotapi.NewMessage(chatID, text)
	out.ReplyToMessageID = replyTo
	if _, err := b.api.Send(out); err != nil {
		b.log.Warnw("send reply failed", "chat_id", chatID, "err", err)
	}
}
