package telegram

import (
	"context"
	"fmt"
	"funpaybot/internal/logger"
	sentryutil "funpaybot/internal/sentry"
	"runtime/debug"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotAPI is the subset of the Telegram client the dispatcher needs.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

var _ BotAPI = (*tgbotapi.BotAPI)(nil)

// Bot owns the Telegram connection.
type Bot struct {
	api *tgbotapi.BotAPI
}

// NewBot authenticates against Telegram with token.
func NewBot(token string, verbose bool) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: connect: %w", err)
	}
	api.Debug = verbose
	return &Bot{api: api}, nil
}

// API exposes the client for building a Dispatcher.
func (b *Bot) API() BotAPI {
	return b.api
}

// Username returns the bot's own @username.
func (b *Bot) Username() string {
	return b.api.Self.UserName
}

// Run long-polls for updates and hands each one to d until ctx is cancelled.
func (b *Bot) Run(ctx context.Context, d *Dispatcher) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			handleSafely(d, update)
		}
	}
}

func handleSafely(d *Dispatcher, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("telegram: panic while handling update", map[string]interface{}{
				"update_id": update.UpdateID, "panic": fmt.Sprint(r), "stack": string(debug.Stack()),
			})
			sentryutil.CaptureError(fmt.Errorf("telegram: panic: %v", r), map[string]string{"component": "telegram"})
		}
	}()
	d.HandleUpdate(update)
}
