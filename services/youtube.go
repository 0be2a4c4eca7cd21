package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/kkdai/youtube/v2"
)

// YouTubeService downloads YouTube videos without the yt-dlp binary
type YouTubeService struct {
	client *youtube.Client
	logger *slog.Logger
}

// NewYouTubeService creates a native YouTube extractor using httpClient.
func NewYouTubeService(httpClient *http.Client, logger *slog.Logger) *YouTubeService {
	return &YouTubeService{
		client: &youtube.Client{HTTPClient: httpClient},
		logger: logger,
	}
}

// Extract downloads the best muxed (video with audio) format of url into dir.
func (s *YouTubeService) Extract(ctx context.Context, url, dir string) (*Extraction, error) {
	video, err := s.client.GetVideoContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to get video info: %w", err)
	}

	format, err := bestMuxedFormat(video.Formats)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Selected format",
		slog.String("video_id", video.ID),
		slog.Int("itag", format.ItagNo),
		slog.String("quality", format.QualityLabel),
		slog.String("mime", format.MimeType),
	)

	stream, _, err := s.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return nil, fmt.Errorf("failed to get video stream: %w", err)
	}
	defer stream.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create download dir: %w", err)
	}

	path := filepath.Join(dir, uuid.NewString()+"."+extensionFromMime(format.MimeType))
	if err := writeStream(path, stream); err != nil {
		return nil, err
	}

	return &Extraction{Title: video.Title, Path: path}, nil
}

// bestMuxedFormat picks the highest quality format that carries both video and audio.
func bestMuxedFormat(formats youtube.FormatList) (*youtube.Format, error) {
	candidates := formats.WithAudioChannels()
	candidates.Sort()
	for i := range candidates {
		if candidates[i].QualityLabel != "" {
			return &candidates[i], nil
		}
	}
	return nil, errors.New("no downloadable format with audio")
}

func writeStream(path string, stream io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, stream); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write video: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write video: %w", err)
	}
	return nil
}

// extensionFromMime maps "video/mp4; codecs=..." to "mp4". Unknown types fall back to mp4.
func extensionFromMime(mimeType string) string {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return "mp4"
	}
	if _, sub, ok := strings.Cut(mediaType, "/"); ok {
		switch sub {
		case "mp4", "webm":
			return sub
		case "3gpp":
			return "3gp"
		}
	}
	return "mp4"
}
