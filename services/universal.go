package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/lrstanley/go-ytdlp"
)

// BestFormat is the only quality preset the bot asks yt-dlp for.
const BestFormat = "best"

// UniversalService downloads from any site yt-dlp supports
type UniversalService struct {
	proxy       string
	autoInstall bool
	executable  string
	logger      *slog.Logger
}

// UniversalOption configures a UniversalService
type UniversalOption func(*UniversalService)

// WithExecutable pins the yt-dlp binary instead of resolving it from PATH.
func WithExecutable(path string) UniversalOption {
	return func(us *UniversalService) { us.executable = path }
}

// NewUniversalService creates a yt-dlp backed extractor. proxy is passed to
// yt-dlp's --proxy when non-empty.
func NewUniversalService(proxy string, autoInstall bool, logger *slog.Logger, opts ...UniversalOption) *UniversalService {
	us := &UniversalService{
		proxy:       proxy,
		autoInstall: autoInstall,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(us)
	}
	return us
}

// Check resolves the yt-dlp executable, downloading it first if auto install
// is enabled. It fails when no usable binary is found.
func (us *UniversalService) Check(ctx context.Context) error {
	if us.executable != "" {
		path, err := exec.LookPath(us.executable)
		if err != nil {
			return fmt.Errorf("yt-dlp is not available: %w", err)
		}
		us.logger.Info("yt-dlp available", slog.String("executable", path))
		return nil
	}

	resolved, err := ytdlp.Install(ctx, &ytdlp.InstallOptions{
		DisableDownload:      !us.autoInstall,
		AllowVersionMismatch: true,
	})
	if err != nil {
		return fmt.Errorf("yt-dlp is not available: %w", err)
	}

	us.logger.Info("yt-dlp available",
		slog.String("executable", resolved.Executable),
		slog.String("version", resolved.Version),
	)
	return nil
}

// Extract downloads url into dir using the best single-file format. The
// artifact path comes from yt-dlp's own filename prediction.
func (us *UniversalService) Extract(ctx context.Context, url, dir string) (*Extraction, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create download dir: %w", err)
	}

	// unique per call so concurrent jobs never share an intermediate file
	template := filepath.Join(dir, uuid.NewString()+".%(ext)s")

	dl := ytdlp.New().
		Format(BestFormat).
		NoPlaylist().
		PrintJSON().
		Output(template)
	if us.proxy != "" {
		dl = dl.Proxy(us.proxy)
	}
	if us.executable != "" {
		dl = dl.SetExecutable(us.executable)
	}

	us.logger.Debug("Running yt-dlp", slog.String("url", url), slog.String("output", template))

	result, err := dl.Run(ctx, url)
	if err != nil {
		return nil, runError(result, err)
	}

	infos, err := result.GetExtractedInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to read yt-dlp output: %w", err)
	}
	if len(infos) == 0 || infos[0].Filename == nil || *infos[0].Filename == "" {
		return nil, errors.New("yt-dlp did not report a downloaded file")
	}

	info := infos[0]
	ex := &Extraction{Path: *info.Filename}
	if info.Title != nil {
		ex.Title = *info.Title
	}

	if _, err := os.Stat(ex.Path); err != nil {
		return nil, fmt.Errorf("downloaded file not found: %w", err)
	}

	return ex, nil
}

// runError prefers yt-dlp's own "ERROR:" lines over the bare exit status.
func runError(result *ytdlp.Result, err error) error {
	if result == nil {
		return err
	}
	if msg := lastErrorLine(result.Stderr); msg != "" {
		return errors.New(msg)
	}
	return err
}

func lastErrorLine(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, "ERROR:") {
			return line
		}
	}
	return ""
}
