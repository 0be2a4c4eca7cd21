package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"videoBot/config"
	"videoBot/handlers"
	"videoBot/internal/logger"
	"videoBot/internal/netx"
	"videoBot/services"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	appLogger := logger.New(&logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: "stdout",
	})
	slog.SetDefault(appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient := netx.NewHTTPClient(cfg.Proxy)
	if cfg.Proxy.Enabled() {
		appLogger.Info("Proxy enabled", slog.String("proxy", cfg.Proxy.ProxyURL))
	}

	extractor, err := newExtractor(ctx, cfg, httpClient, appLogger)
	if err != nil {
		return err
	}

	bot, err := tgbotapi.NewBotAPIWithClient(cfg.TelegramToken, tgbotapi.APIEndpoint, httpClient)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}
	bot.Debug = cfg.BotDebug

	appLogger.Info("Authorized",
		slog.String("account", bot.Self.UserName),
		slog.String("extractor", cfg.Extractor),
		slog.String("download_dir", cfg.DownloadDir),
	)

	handler := handlers.NewTelegramHandler(bot, extractor, cfg.DownloadDir, appLogger)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = cfg.PollTimeout
	updates := bot.GetUpdatesChan(u)

	var wg sync.WaitGroup
	poll(ctx, updates, handler, &wg)

	appLogger.Info("Shutting down, waiting for running jobs")
	bot.StopReceivingUpdates()

	if !waitTimeout(&wg, cfg.ShutdownTimeout) {
		appLogger.Warn("Shutdown timeout reached, abandoning running jobs",
			slog.Duration("timeout", cfg.ShutdownTimeout),
		)
	}
	appLogger.Info("Bot stopped")
	return nil
}

// updateHandler is the part of handlers.TelegramHandler the poll loop needs
type updateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update)
}

// poll dispatches every update on its own goroutine until ctx is cancelled or
// the channel closes. Jobs keep running on a context detached from ctx so a
// shutdown signal lets them finish.
func poll(ctx context.Context, updates <-chan tgbotapi.Update, handler updateHandler, wg *sync.WaitGroup) {
	jobCtx := context.WithoutCancel(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				handler.HandleUpdate(jobCtx, update)
			}()
		}
	}
}

// waitTimeout waits for wg. It reports false if timeout elapsed first.
func waitTimeout(wg *sync.WaitGroup, timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// newExtractor builds the extractor selected by cfg.Extractor. yt-dlp is
// resolved up front so a missing binary fails startup instead of every job.
func newExtractor(ctx context.Context, cfg *config.Config, httpClient *http.Client, logger *slog.Logger) (services.Extractor, error) {
	native := func() services.Extractor {
		return services.NewYouTubeService(httpClient, logger)
	}
	universal := func() (services.Extractor, error) {
		us := services.NewUniversalService(cfg.Proxy.YtDlpProxy(), cfg.YtDlpAutoInstall, logger, ytDlpOptions(cfg)...)
		if err := us.Check(ctx); err != nil {
			return nil, err
		}
		return us, nil
	}

	switch cfg.Extractor {
	case config.ExtractorNative:
		return native(), nil
	case config.ExtractorAuto:
		us, err := universal()
		if err != nil {
			return nil, err
		}
		return services.NewRouter(native(), us, logger), nil
	case config.ExtractorYtDlp, "":
		return universal()
	default:
		return nil, errors.New("unknown extractor: " + cfg.Extractor)
	}
}

// ytDlpOptions pins the yt-dlp binary when YTDLP_PATH is set
func ytDlpOptions(cfg *config.Config) []services.UniversalOption {
	if cfg.YtDlpPath == "" {
		return nil
	}
	return []services.UniversalOption{services.WithExecutable(cfg.YtDlpPath)}
}
