package handlers

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"videoBot/services"
)

// handleLink runs acknowledge, extract, rename, upload and delete for one
// message. Every failure ends up as a single text reply in the chat.
func (h *TelegramHandler) handleLink(ctx context.Context, chatID int64, text string) {
	url := text
	platform := h.detector.DetectPlatform(url)
	job := services.NewDownloadJob(chatID, url, platform.Type, h.now())

	logger := h.logger.With(
		slog.String("job_id", job.ID),
		slog.Int64("chat_id", chatID),
	)
	logger.Info("Download job started",
		slog.String("url", url),
		slog.String("platform", platform.DisplayName),
	)

	defer func() {
		if r := recover(); r != nil {
			h.reportFailure(job, fmt.Errorf("internal error: %v", r))
		}
	}()

	// best-effort; the job goes on even if the acknowledgment is lost
	h.sendMessage(chatID, WorkingText)

	if err := h.relay(ctx, job, logger); err != nil {
		h.reportFailure(job, err)
		return
	}

	logger.Info("Download job completed", slog.String("title", job.Title))
}

// relay performs the download-to-upload sequence. Deletion is attempted only
// after a successful upload, so a failed upload leaves the artifact on disk.
func (h *TelegramHandler) relay(ctx context.Context, job *services.DownloadJob, logger *slog.Logger) error {
	ex, err := h.extractor.Extract(ctx, job.URL, h.downloadDir)
	if err != nil {
		return err
	}
	job.Title = ex.Title

	target, err := reservePath(job.TargetPath(h.downloadDir, ex.Title, ex.Path), job.ID[:8])
	if err != nil {
		return fmt.Errorf("failed to rename artifact: %w", err)
	}
	if err := os.Rename(ex.Path, target); err != nil {
		os.Remove(target)
		return fmt.Errorf("failed to rename artifact: %w", err)
	}
	job.Filename = target
	logger.Debug("Artifact ready", slog.String("file", target))

	if err := h.sendVideo(job, logger); err != nil {
		return err
	}

	if err := os.Remove(target); err != nil {
		return fmt.Errorf("failed to remove artifact: %w", err)
	}
	return nil
}

// sendVideo streams the artifact to the chat as a video attachment
func (h *TelegramHandler) sendVideo(job *services.DownloadJob, logger *slog.Logger) error {
	file, err := os.Open(job.Filename)
	if err != nil {
		return fmt.Errorf("failed to open artifact: %w", err)
	}
	defer file.Close()

	if _, err := h.api.Request(tgbotapi.NewChatAction(job.ChatID, tgbotapi.ChatUploadVideo)); err != nil {
		logger.Debug("Failed to send chat action", slog.Any("error", err))
	}

	video := tgbotapi.NewVideo(job.ChatID, tgbotapi.FileReader{
		Name:   filepath.Base(job.Filename),
		Reader: file,
	})
	video.SupportsStreaming = true

	if _, err := h.api.Send(video); err != nil {
		return fmt.Errorf("failed to send video: %w", err)
	}
	return nil
}

// reservePath creates target exclusively so two jobs finishing in the same
// second with the same title prefix never share a file. When target is taken
// the job's suffix is appended.
func reservePath(target, suffix string) (string, error) {
	ext := filepath.Ext(target)
	candidates := []string{target, strings.TrimSuffix(target, ext) + "_" + suffix + ext}

	for _, candidate := range candidates {
		f, err := os.OpenFile(candidate, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			return candidate, f.Close()
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", err
		}
	}
	return "", fmt.Errorf("%s already exists", candidates[len(candidates)-1])
}
