package services

import (
	"context"
	"log/slog"
)

// Extraction is what an extractor leaves behind for one URL
type Extraction struct {
	Title string // title reported by the source
	Path  string // artifact on local disk
}

// Extractor resolves a URL and downloads the best available video into dir.
type Extractor interface {
	Extract(ctx context.Context, url, dir string) (*Extraction, error)
}

// Router sends YouTube URLs to the native extractor and everything else to
// yt-dlp. It only selects; a failed extraction is not retried elsewhere.
type Router struct {
	detector  *PlatformDetector
	native    Extractor
	universal Extractor
	logger    *slog.Logger
}

// NewRouter creates a routing extractor
func NewRouter(native, universal Extractor, logger *slog.Logger) *Router {
	return &Router{
		detector:  NewPlatformDetector(),
		native:    native,
		universal: universal,
		logger:    logger,
	}
}

// Extract implements Extractor.
func (r *Router) Extract(ctx context.Context, url, dir string) (*Extraction, error) {
	info := r.detector.DetectPlatform(url)
	if info.IsYouTube() {
		r.logger.Debug("Routing to native extractor", slog.String("platform", string(info.Type)))
		return r.native.Extract(ctx, url, dir)
	}
	r.logger.Debug("Routing to yt-dlp", slog.String("platform", string(info.Type)))
	return r.universal.Extract(ctx, url, dir)
}
