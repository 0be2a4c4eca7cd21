package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"videoBot/services"
)

// User-facing texts
const (
	WelcomeText   = "Hello! Send me a video link, and I'll download it for you."
	WorkingText   = "Downloading video, please wait..."
	FailurePrefix = "Failed to download video: "
	HelpText      = `Send me a link to a video and I'll reply with the file.

Commands:
/start - greeting
/help - this message`
)

// Sender delivers outbound messages. *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	// Request is used for calls that do not return a Message, such as chat actions.
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// TelegramHandler routes incoming updates to the greeter or the download relay
type TelegramHandler struct {
	api         Sender
	extractor   services.Extractor
	detector    *services.PlatformDetector
	downloadDir string
	now         func() time.Time
	logger      *slog.Logger
}

// Option configures a TelegramHandler
type Option func(*TelegramHandler)

// WithClock replaces time.Now for artifact timestamps.
func WithClock(now func() time.Time) Option {
	return func(h *TelegramHandler) { h.now = now }
}

// NewTelegramHandler creates a handler. Artifacts are written to downloadDir.
func NewTelegramHandler(api Sender, extractor services.Extractor, downloadDir string, logger *slog.Logger, opts ...Option) *TelegramHandler {
	h := &TelegramHandler{
		api:         api,
		extractor:   extractor,
		detector:    services.NewPlatformDetector(),
		downloadDir: downloadDir,
		now:         time.Now,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleUpdate dispatches a single update. It is safe to call concurrently.
func (h *TelegramHandler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	message := update.Message
	if message == nil || message.Text == "" || message.Chat == nil {
		return
	}

	if message.IsCommand() {
		h.handleCommand(message)
		return
	}

	h.handleLink(ctx, message.Chat.ID, message.Text)
}

// handleCommand answers the known commands; anything else is ignored
func (h *TelegramHandler) handleCommand(message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		h.sendMessage(message.Chat.ID, WelcomeText)
	case "help":
		h.sendMessage(message.Chat.ID, HelpText)
	default:
		h.logger.Debug("Ignoring unknown command",
			slog.Int64("chat_id", message.Chat.ID),
			slog.String("command", message.Command()),
		)
	}
}

// sendMessage sends a plain text message, logging delivery errors
func (h *TelegramHandler) sendMessage(chatID int64, text string) bool {
	if _, err := h.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		h.logger.Warn("Failed to send message",
			slog.Int64("chat_id", chatID),
			slog.Any("error", err),
		)
		return false
	}
	return true
}

// reportFailure tells the chat the job failed
func (h *TelegramHandler) reportFailure(job *services.DownloadJob, err error) {
	h.logger.Error("Download job failed",
		slog.String("job_id", job.ID),
		slog.Int64("chat_id", job.ChatID),
		slog.String("url", job.URL),
		slog.Any("error", err),
	)
	h.sendMessage(job.ChatID, fmt.Sprintf("%s%v", FailurePrefix, err))
}
