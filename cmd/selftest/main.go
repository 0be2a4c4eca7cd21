// Command selftest checks that the bot's environment is usable: yt-dlp can be
// resolved, the proxy (if any) reaches the outside world and the token is
// accepted by Telegram.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"videoBot/config"
	"videoBot/internal/logger"
	"videoBot/internal/netx"
	"videoBot/services"
)

const probeURL = "https://www.youtube.com"

type check struct {
	name string
	run  func(ctx context.Context) error
}

func main() {
	log := logger.NewDefault()

	cfg, err := config.Load(".env")
	if err != nil {
		log.Error("Configuration is invalid", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := netx.NewHTTPClient(cfg.Proxy)
	log.Info("Proxy settings",
		slog.Bool("enabled", cfg.Proxy.Enabled()),
		slog.String("proxy", cfg.Proxy.YtDlpProxy()),
		slog.String("no_proxy", cfg.Proxy.NoProxyList()),
	)

	var opts []services.UniversalOption
	if cfg.YtDlpPath != "" {
		opts = append(opts, services.WithExecutable(cfg.YtDlpPath))
	}

	checks := []check{
		{"yt-dlp", services.NewUniversalService(cfg.Proxy.YtDlpProxy(), cfg.YtDlpAutoInstall, log, opts...).Check},
		{"http", func(ctx context.Context) error { return probe(ctx, client, probeURL) }},
		{"telegram", func(ctx context.Context) error {
			bot, err := tgbotapi.NewBotAPIWithClient(cfg.TelegramToken, tgbotapi.APIEndpoint, client)
			if err != nil {
				return err
			}
			log.Info("Token accepted", slog.String("account", bot.Self.UserName))
			return nil
		}},
	}

	failed := 0
	for _, c := range checks {
		if err := c.run(ctx); err != nil {
			failed++
			log.Error("Check failed", slog.String("check", c.name), slog.Any("error", err))
			continue
		}
		log.Info("Check passed", slog.String("check", c.name))
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// probe issues a GET through client and expects a non-5xx answer
func probe(ctx context.Context, client *http.Client, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return nil
}
