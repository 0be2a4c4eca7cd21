package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"videoBot/config"
	"videoBot/services"
)

type countingHandler struct {
	mu      sync.Mutex
	ids     []int
	release chan struct{}
}

func (h *countingHandler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	if h.release != nil {
		<-h.release
	}
	h.mu.Lock()
	h.ids = append(h.ids, update.UpdateID)
	h.mu.Unlock()
}

func TestPoll_DispatchesUntilChannelCloses(t *testing.T) {
	updates := make(chan tgbotapi.Update, 3)
	for i := 1; i <= 3; i++ {
		updates <- tgbotapi.Update{UpdateID: i}
	}
	close(updates)

	handler := &countingHandler{}
	var wg sync.WaitGroup
	poll(context.Background(), updates, handler, &wg)
	wg.Wait()

	assert.ElementsMatch(t, []int{1, 2, 3}, handler.ids)
}

func TestPoll_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var wg sync.WaitGroup
	poll(ctx, make(chan tgbotapi.Update), &countingHandler{}, &wg)

	assert.True(t, waitTimeout(&wg, time.Second))
}

func TestWaitTimeout(t *testing.T) {
	handler := &countingHandler{release: make(chan struct{})}
	updates := make(chan tgbotapi.Update, 1)
	updates <- tgbotapi.Update{UpdateID: 1}
	close(updates)

	var wg sync.WaitGroup
	poll(context.Background(), updates, handler, &wg)

	assert.False(t, waitTimeout(&wg, 10*time.Millisecond))

	close(handler.release)
	assert.True(t, waitTimeout(&wg, time.Second))
}

func TestNewExtractor_Native(t *testing.T) {
	cfg := &config.Config{Extractor: config.ExtractorNative}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	extractor, err := newExtractor(context.Background(), cfg, http.DefaultClient, logger)
	require.NoError(t, err)
	assert.IsType(t, &services.YouTubeService{}, extractor)
}

func TestNewExtractor_Unknown(t *testing.T) {
	cfg := &config.Config{Extractor: "ffmpeg"}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := newExtractor(context.Background(), cfg, http.DefaultClient, logger)
	assert.Error(t, err)
}

func TestRun_MissingTokenFailsFirst(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	// would fail extractor setup if run got that far
	t.Setenv("EXTRACTOR", "ytdlp")
	t.Setenv("YTDLP_PATH", "/nonexistent/yt-dlp")

	err := run()

	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrMissingToken))
}

func TestYtDlpOptions(t *testing.T) {
	assert.Empty(t, ytDlpOptions(&config.Config{}))
	assert.Len(t, ytDlpOptions(&config.Config{YtDlpPath: "/opt/yt-dlp"}), 1)
}
