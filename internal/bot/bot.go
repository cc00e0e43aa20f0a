// Package bot is the Telegram transport: it receives document uploads and
// button presses, renders the menus, and feeds decoded events into the
// pipeline. All translation semantics live in the pipeline; this package
// only moves bytes and messages.
package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/myansub/subtran/internal"
	"github.com/myansub/subtran/internal/pipeline"
)

type Bot struct {
	api      *tgbotapi.BotAPI
	pipeline *pipeline.Pipeline
	client   *http.Client
	log      zerolog.Logger
}

func New(token string, p *pipeline.Pipeline, log zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return &Bot{
		api:      api,
		pipeline: p,
		client:   http.DefaultClient,
		log:      log,
	}, nil
}

// Run polls for updates until ctx is cancelled. Each update is handled in
// its own goroutine so one user's job awaiting the gateway does not block
// another user's events; the pipeline serializes events for the same user.
func (b *Bot) Run(ctx context.Context) error {
	b.log.Info().Str("username", b.api.Self.UserName).Msg("bot started")

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			switch {
			case update.Message != nil && update.Message.Document != nil:
				go b.handleDocument(ctx, update.Message)
			case update.Message != nil:
				go b.reply(update.Message.Chat.ID, "❌ No document detected. Send a ZIP or supported file.")
			case update.CallbackQuery != nil:
				go b.handleCallback(ctx, update.CallbackQuery)
			}
		}
	}
}

func (b *Bot) handleDocument(ctx context.Context, msg *tgbotapi.Message) {
	doc := msg.Document
	userID := msg.From.ID

	url, err := b.api.GetFileDirectURL(doc.FileID)
	if err != nil {
		b.log.Error().Err(err).Int64("user", userID).Msg("resolve file url")
		b.reply(msg.Chat.ID, "❌ Could not fetch the uploaded file. Try again.")
		return
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		b.log.Error().Err(err).Msg("build download request")
		return
	}
	resp, err := b.client.Do(req)
	if err != nil {
		b.log.Error().Err(err).Int64("user", userID).Msg("download upload")
		b.reply(msg.Chat.ID, "❌ Could not fetch the uploaded file. Try again.")
		return
	}
	defer resp.Body.Close()

	if _, err := b.pipeline.Receive(userID, doc.FileName, resp.Body); err != nil {
		b.log.Error().Err(err).Int64("user", userID).Msg("stage upload")
		b.reply(msg.Chat.ID, "❌ Could not store the uploaded file. Try again.")
		return
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, "🌐 Choose a target language:")
	reply.ReplyMarkup = languageMenu()
	if _, err := b.api.Send(reply); err != nil {
		b.log.Error().Err(err).Msg("send language menu")
	}
}

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	// Acknowledge first so the button stops spinning.
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.log.Warn().Err(err).Msg("ack callback")
	}

	chatID := query.Message.Chat.ID
	userID := query.From.ID
	sel := decodeSelection(query.Data)

	switch sel.Kind {
	case SelectionLanguage:
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, query.Message.MessageID,
			fmt.Sprintf("Choose translation mode for: %s", sel.Language.Name),
			modeMenu(sel.Language))
		if _, err := b.api.Send(edit); err != nil {
			b.log.Error().Err(err).Msg("send mode menu")
		}

	case SelectionMode:
		b.edit(chatID, query.Message.MessageID, "⏳ Processing... This may take a while for large ZIPs.")

		status, err := b.pipeline.Run(ctx, userID, sel.Language, sel.Mode, &chatDeliverer{bot: b, chatID: chatID})
		switch {
		case errors.Is(err, pipeline.ErrNoUpload):
			b.reply(chatID, "❌ No uploaded file found. Upload a ZIP or file first.")
		case errors.Is(err, pipeline.ErrUnsupportedType):
			b.reply(chatID, "❌ Unsupported file type for single-file translation. Use a ZIP for batch.")
		case err != nil:
			b.reply(chatID, fmt.Sprintf("❌ Error while processing: %v", err))
		default:
			b.reply(chatID, status)
		}

	default:
		b.edit(chatID, query.Message.MessageID, "❌ Invalid selection.")
	}
}

// chatDeliverer sends output files to the chat the selection came from.
type chatDeliverer struct {
	bot    *Bot
	chatID int64
}

func (d *chatDeliverer) SendDocument(_ int64, path string) error {
	msg := tgbotapi.NewDocument(d.chatID, tgbotapi.FilePath(path))
	_, err := d.bot.api.Send(msg)
	return err
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.log.Error().Err(err).Msg("send message")
	}
}

func (b *Bot) edit(chatID int64, messageID int, text string) {
	if _, err := b.api.Send(tgbotapi.NewEditMessageText(chatID, messageID, text)); err != nil {
		b.log.Warn().Err(err).Msg("edit message")
	}
}

func languageMenu() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, lang := range internal.SupportedLanguages {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lang.Name, languageCallback(lang.Code)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func modeMenu(lang internal.Language) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌐 Normal Translation", modeCallback(internal.ModeNormal, lang.Code)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔞 Adult-Safe Subtitles", modeCallback(internal.ModeAdultSafe, lang.Code)),
		),
	)
}
