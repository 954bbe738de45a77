package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/bnema/intakebot/internal/domain"
	"github.com/bnema/intakebot/internal/ports"
)

const pollTimeoutSeconds = 60

// MessageHandler receives one private text message.
type MessageHandler func(ctx context.Context, userID domain.UserID, text string) error

type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type Transport struct {
	bot    botAPI
	logger *zap.Logger
}

var _ ports.Transport = (*Transport)(nil)

func New(token string, logger *zap.Logger) (*Transport, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}

	return newTransport(bot, logger), nil
}

func newTransport(bot botAPI, logger *zap.Logger) *Transport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transport{bot: bot, logger: logger}
}

func (t *Transport) SendToUser(ctx context.Context, id domain.UserID, text string, opts ports.SendOptions) error {
	if err := ctx.Err(); err != nil {
		return domain.NewDeliveryError(domain.DeliveryTransient, err)
	}

	msg := tgbotapi.NewMessage(int64(id), text)
	msg.ReplyMarkup = replyMarkup(opts.Buttons)

	if _, err := t.bot.Send(msg); err != nil {
		return classify(err)
	}

	return nil
}

func (t *Transport) SendToChannel(ctx context.Context, id domain.ChannelID, text string) error {
	if err := ctx.Err(); err != nil {
		return domain.NewDeliveryError(domain.DeliveryTransient, err)
	}

	if _, err := t.bot.Send(tgbotapi.NewMessage(int64(id), text)); err != nil {
		return classify(err)
	}

	return nil
}

// Listen long-polls for updates and hands text messages to handler one at a time until ctx is done.
func (t *Transport) Listen(ctx context.Context, handler MessageHandler) error {
	config := tgbotapi.NewUpdate(0)
	config.Timeout = pollTimeoutSeconds
	config.AllowedUpdates = []string{"message"}

	updates := t.bot.GetUpdatesChan(config)
	defer t.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}

			userID, text, ok := textMessage(update)
			if !ok {
				continue
			}

			if err := handler(ctx, userID, text); err != nil {
				t.logger.Warn("handle message", zap.Int64("user_id", int64(userID)), zap.Error(err))
			}
		}
	}
}

func textMessage(update tgbotapi.Update) (domain.UserID, string, bool) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil || msg.Text == "" {
		return 0, "", false
	}
	if !msg.Chat.IsPrivate() {
		return 0, "", false
	}

	return domain.UserID(msg.From.ID), msg.Text, true
}

func replyMarkup(buttons []string) any {
	if len(buttons) == 0 {
		return tgbotapi.NewRemoveKeyboard(true)
	}

	row := make([]tgbotapi.KeyboardButton, 0, len(buttons))
	for _, label := range buttons {
		row = append(row, tgbotapi.NewKeyboardButton(label))
	}

	keyboard := tgbotapi.NewReplyKeyboard(row)
	keyboard.ResizeKeyboard = true
	keyboard.OneTimeKeyboard = true

	return keyboard
}

// classify maps Bot API failures onto delivery outcomes. Forbidden means the user blocked the bot
// or deleted the account.
func classify(err error) error {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusForbidden {
		return domain.NewDeliveryError(domain.DeliveryUnreachable, err)
	}

	return domain.NewDeliveryError(domain.DeliveryTransient, err)
}
