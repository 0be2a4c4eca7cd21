package services

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"videoBot/utils"
)

// DownloadJob is the ephemeral record of one incoming link. It lives for a
// single handler invocation and is never stored.
type DownloadJob struct {
	ID        string
	ChatID    int64
	URL       string
	Platform  PlatformType
	Title     string
	Filename  string // final artifact path, set after rename
	CreatedAt time.Time
}

// NewDownloadJob creates a job stamped with createdAt.
func NewDownloadJob(chatID int64, url string, platform PlatformType, createdAt time.Time) *DownloadJob {
	return &DownloadJob{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		URL:       url,
		Platform:  platform,
		CreatedAt: createdAt,
	}
}

// TargetPath returns where the artifact ends up: dir/<timestamp>_<title>.<ext>,
// with ext taken from the downloaded file.
func (j *DownloadJob) TargetPath(dir, title, downloaded string) string {
	return filepath.Join(dir, utils.BuildFilename(j.CreatedAt, title, filepath.Ext(downloaded)))
}
