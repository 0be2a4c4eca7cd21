package services

import (
	"regexp"
	"strings"
)

// PlatformType identifies the site a URL points to
type PlatformType string

const (
	PlatformYouTube       PlatformType = "youtube"
	PlatformYouTubeShorts PlatformType = "youtube_shorts"
	PlatformTikTok        PlatformType = "tiktok"
	PlatformInstagram     PlatformType = "instagram"
	PlatformVK            PlatformType = "vkontakte"
	PlatformTwitter       PlatformType = "twitter"
	PlatformFacebook      PlatformType = "facebook"
	PlatformUnknown       PlatformType = "unknown"
)

// PlatformInfo describes a detected platform
type PlatformInfo struct {
	Type        PlatformType
	VideoID     string
	DisplayName string
}

// IsYouTube reports whether the URL belongs to YouTube or YouTube Shorts.
func (p *PlatformInfo) IsYouTube() bool {
	return p.Type == PlatformYouTube || p.Type == PlatformYouTubeShorts
}

type platformPattern struct {
	platform PlatformType
	re       *regexp.Regexp
}

var displayNames = map[PlatformType]string{
	PlatformYouTube:       "YouTube",
	PlatformYouTubeShorts: "YouTube Shorts",
	PlatformTikTok:        "TikTok",
	PlatformInstagram:     "Instagram",
	PlatformVK:            "VKontakte",
	PlatformTwitter:       "Twitter/X",
	PlatformFacebook:      "Facebook",
	PlatformUnknown:       "Unknown platform",
}

// PlatformDetector classifies URLs by platform. It is used for logging and
// extractor routing only; an unknown platform is still handed to yt-dlp.
type PlatformDetector struct {
	patterns []platformPattern
}

// NewPlatformDetector creates a detector with the built-in patterns
func NewPlatformDetector() *PlatformDetector {
	raw := []struct {
		platform PlatformType
		expr     []string
	}{
		{PlatformYouTube, []string{
			`youtube\.com/watch\?(?:.*&)?v=([a-zA-Z0-9_-]{11})`,
			`youtube\.com/embed/([a-zA-Z0-9_-]{11})`,
			`youtube\.com/v/([a-zA-Z0-9_-]{11})`,
			`youtu\.be/([a-zA-Z0-9_-]{11})`,
		}},
		{PlatformYouTubeShorts, []string{
			`youtube\.com/shorts/([a-zA-Z0-9_-]{11})`,
		}},
		{PlatformTikTok, []string{
			`tiktok\.com/@[^/]+/video/(\d+)`,
			`vm\.tiktok\.com/([a-zA-Z0-9]+)`,
			`tiktok\.com/t/([a-zA-Z0-9]+)`,
		}},
		{PlatformInstagram, []string{
			`instagram\.com/p/([a-zA-Z0-9_-]+)`,
			`instagram\.com/reel/([a-zA-Z0-9_-]+)`,
			`instagram\.com/tv/([a-zA-Z0-9_-]+)`,
		}},
		{PlatformVK, []string{
			`vk\.com/videos?(-?\d+_\d+)`,
		}},
		{PlatformTwitter, []string{
			`twitter\.com/\w+/status/(\d+)`,
			`x\.com/\w+/status/(\d+)`,
		}},
		{PlatformFacebook, []string{
			`facebook\.com/[\w.]+/videos/(\d+)`,
			`fb\.watch/([a-zA-Z0-9_-]+)`,
		}},
	}

	pd := &PlatformDetector{}
	for _, p := range raw {
		for _, expr := range p.expr {
			pd.patterns = append(pd.patterns, platformPattern{platform: p.platform, re: regexp.MustCompile(expr)})
		}
	}
	return pd
}

// DetectPlatform returns the platform of url, PlatformUnknown if nothing matches.
func (pd *PlatformDetector) DetectPlatform(url string) *PlatformInfo {
	url = strings.TrimSpace(url)

	for _, p := range pd.patterns {
		if m := p.re.FindStringSubmatch(url); len(m) > 1 {
			return &PlatformInfo{
				Type:        p.platform,
				VideoID:     m[1],
				DisplayName: displayNames[p.platform],
			}
		}
	}

	return &PlatformInfo{
		Type:        PlatformUnknown,
		DisplayName: displayNames[PlatformUnknown],
	}
}
