package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mitkov/calbot/internal/logging"
	"github.com/mitkov/calbot/internal/session"
)

// DefaultPollTimeout is the long-poll timeout for update requests.
const DefaultPollTimeout = 30 * time.Second

// Handler consumes one converted user input.
type Handler func(ctx context.Context, in session.Input)

// API is the subset of the bot client the transport uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot is the Telegram transport. It satisfies session.Transport and
// feeds incoming updates to a Handler.
type Bot struct {
	api         API
	logger      *slog.Logger
	pollTimeout time.Duration
}

// Config configures the transport.
type Config struct {
	// Token is the bot token issued by BotFather. Required unless API
	// is set.
	Token string

	// API overrides the bot client, for tests.
	API API

	Logger *slog.Logger

	// PollTimeout defaults to DefaultPollTimeout.
	PollTimeout time.Duration

	// Debug forwards the library's wire-level logging to Logger.
	Debug bool
}

// New creates the transport, authenticating against the Bot API unless
// a client is injected.
func New(cfg Config) (*Bot, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = DefaultPollTimeout
	}

	api := cfg.API
	if api == nil {
		if cfg.Token == "" {
			return nil, fmt.Errorf("telegram bot token is required")
		}
		if cfg.Debug {
			if err := tgbotapi.SetLogger(logging.NewSlogAdapter(cfg.Logger)); err != nil {
				return nil, fmt.Errorf("failed to set bot logger: %w", err)
			}
		}
		client, err := tgbotapi.NewBotAPI(cfg.Token)
		if err != nil {
			return nil, fmt.Errorf("failed to authenticate bot: %w", err)
		}
		client.Debug = cfg.Debug
		cfg.Logger.Info("telegram bot authenticated", slog.String("username", client.Self.UserName))
		api = client
	}

	return &Bot{
		api:         api,
		logger:      cfg.Logger,
		pollTimeout: cfg.PollTimeout,
	}, nil
}

// sessionQueueSize bounds how many inputs may back up behind one
// session's in-flight handler before the poll loop waits.
const sessionQueueSize = 32

// Run polls for updates and dispatches them to handle until ctx is
// cancelled. Each conversation gets its own worker fed through an
// ordered queue: inputs for one session are handled in arrival order,
// while a slow handler (a blocking calendar call, say) never stalls
// other conversations.
func (b *Bot) Run(ctx context.Context, handle Handler) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = int(b.pollTimeout.Seconds())

	updates := b.api.GetUpdatesChan(updateConfig)

	queues := make(map[string]chan session.Input)
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			in, ok := b.convert(update)
			if !ok {
				continue
			}
			b.dispatch(ctx, queues, &wg, handle, in)
		}
	}
}

// dispatch enqueues one input on its session's worker, starting the
// worker on first use.
func (b *Bot) dispatch(ctx context.Context, queues map[string]chan session.Input, wg *sync.WaitGroup, handle Handler, in session.Input) {
	q, ok := queues[in.SessionID]
	if !ok {
		q = make(chan session.Input, sessionQueueSize)
		queues[in.SessionID] = q
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case next := <-q:
					handle(ctx, next)
				}
			}
		}()
	}

	select {
	case <-ctx.Done():
	case q <- in:
	}
}

// convert maps one Telegram update onto a session input. Callback
// queries are acknowledged so the client stops showing the spinner.
func (b *Bot) convert(update tgbotapi.Update) (session.Input, bool) {
	switch {
	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			b.logger.Warn("failed to answer callback query", logging.Err(err))
		}
		if cb.Message == nil {
			return session.Input{}, false
		}
		return session.Input{
			SessionID: sessionID(cb.Message.Chat.ID),
			Kind:      session.InputButton,
			Payload:   cb.Data,
		}, true

	case update.Message != nil && update.Message.Text != "":
		return session.Input{
			SessionID: sessionID(update.Message.Chat.ID),
			Kind:      session.InputText,
			Payload:   update.Message.Text,
		}, true
	}

	return session.Input{}, false
}

// Send delivers a plain text message.
func (b *Bot) Send(_ context.Context, sessionID, text string) error {
	id, err := chatID(sessionID)
	if err != nil {
		return err
	}
	if _, err := b.api.Send(tgbotapi.NewMessage(id, text)); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// SendOptions delivers a prompt with an inline keyboard, one option
// per row.
func (b *Bot) SendOptions(_ context.Context, sessionID, text string, options []session.Option) error {
	id, err := chatID(sessionID)
	if err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(id, text)
	msg.ReplyMarkup = optionsKeyboard(options)
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send options: %w", err)
	}
	return nil
}

// SendMenu delivers the persistent reply-keyboard main menu.
func (b *Bot) SendMenu(_ context.Context, sessionID, text string, rows [][]string) error {
	id, err := chatID(sessionID)
	if err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(id, text)
	msg.ReplyMarkup = menuKeyboard(rows)
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send menu: %w", err)
	}
	return nil
}

// SendChart delivers a rendered PNG as a photo.
func (b *Bot) SendChart(_ context.Context, sessionID string, png []byte) error {
	id, err := chatID(sessionID)
	if err != nil {
		return err
	}
	photo := tgbotapi.NewPhoto(id, tgbotapi.FileBytes{Name: "stats.png", Bytes: png})
	if _, err := b.api.Send(photo); err != nil {
		return fmt.Errorf("failed to send chart: %w", err)
	}
	return nil
}

func optionsKeyboard(options []session.Option) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(options))
	for _, opt := range options {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(opt.Label, opt.Value)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func menuKeyboard(rows [][]string) tgbotapi.ReplyKeyboardMarkup {
	keyboard := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
		}
		keyboard = append(keyboard, buttons)
	}
	markup := tgbotapi.NewReplyKeyboard(keyboard...)
	markup.ResizeKeyboard = true
	return markup
}

// sessionID maps a Telegram chat onto the session identifier space.
func sessionID(chat int64) string {
	return strconv.FormatInt(chat, 10)
}

func chatID(sessionID string) (int64, error) {
	id, err := strconv.ParseInt(sessionID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid session id %q: %w", sessionID, err)
	}
	return id, nil
}
