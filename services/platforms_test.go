package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform(t *testing.T) {
	detector := NewPlatformDetector()

	tests := []struct {
		url      string
		platform PlatformType
		videoID  string
	}{
		{"https://youtu.be/_AbFXuGDRTs?feature=shared", PlatformYouTube, "_AbFXuGDRTs"},
		{"https://youtu.be/A4sMjYyN7FM?si=id-aAyQAoef6HvKv", PlatformYouTube, "A4sMjYyN7FM"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", PlatformYouTube, "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?list=PL1&v=dQw4w9WgXcQ", PlatformYouTube, "dQw4w9WgXcQ"},
		{"https://youtube.com/shorts/cU8Vd8eTKHs?si=oZRiNp2-dj_tCo0Y", PlatformYouTubeShorts, "cU8Vd8eTKHs"},
		{"https://www.tiktok.com/@user/video/123456789", PlatformTikTok, "123456789"},
		{"https://instagram.com/p/ABC123", PlatformInstagram, "ABC123"},
		{"https://vk.com/video123456_789", PlatformVK, "123456_789"},
		{"https://twitter.com/user/status/123456789", PlatformTwitter, "123456789"},
		{"https://x.com/user/status/987", PlatformTwitter, "987"},
		{"https://facebook.com/user/videos/123456789", PlatformFacebook, "123456789"},
		{"https://example.com/video1", PlatformUnknown, ""},
		{"not a url", PlatformUnknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			info := detector.DetectPlatform(tt.url)
			assert.Equal(t, tt.platform, info.Type)
			assert.Equal(t, tt.videoID, info.VideoID)
			assert.NotEmpty(t, info.DisplayName)
		})
	}
}

func TestPlatformInfo_IsYouTube(t *testing.T) {
	detector := NewPlatformDetector()

	assert.True(t, detector.DetectPlatform("https://youtu.be/dQw4w9WgXcQ").IsYouTube())
	assert.True(t, detector.DetectPlatform("https://youtube.com/shorts/cU8Vd8eTKHs").IsYouTube())
	assert.False(t, detector.DetectPlatform("https://vk.com/video1_2").IsYouTube())
	assert.False(t, detector.DetectPlatform("https://example.com/video1").IsYouTube())
}
