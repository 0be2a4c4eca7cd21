package utils

import (
	"strings"
	"time"
)

// TimestampLayout is the second-resolution prefix of every artifact name.
const TimestampLayout = "2006-01-02_15-04-05"

// MaxTitleLength is the number of title characters kept in a filename.
const MaxTitleLength = 50

// invalidChars are replaced with underscores in filenames
var invalidChars = []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|", "\x00"}

// Timestamp formats t as YYYY-MM-DD_HH-MM-SS in t's own location.
func Timestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// SanitizeFilename replaces characters that are not allowed in file names.
func SanitizeFilename(filename string) string {
	result := filename
	for _, char := range invalidChars {
		result = strings.ReplaceAll(result, char, "_")
	}
	return result
}

// SanitizeTitle keeps the first max characters of title and makes them safe
// for a filename: spaces become underscores, as do path separators.
func SanitizeTitle(title string, max int) string {
	title = strings.TrimSpace(title)
	if r := []rune(title); max > 0 && len(r) > max {
		title = string(r[:max])
	}
	title = strings.ReplaceAll(title, " ", "_")
	return SanitizeFilename(title)
}

// BuildFilename returns <timestamp>_<title>.<ext>. ext may carry a leading dot.
// An empty title gives <timestamp>.<ext>.
func BuildFilename(ts time.Time, title, ext string) string {
	name := Timestamp(ts)
	if t := SanitizeTitle(title, MaxTitleLength); t != "" {
		name += "_" + t
	}
	if ext = strings.TrimPrefix(ext, "."); ext != "" {
		name += "." + ext
	}
	return name
}
