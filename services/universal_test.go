package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastErrorLine(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   string
	}{
		{"unsupported url", "WARNING: something\nERROR: Unsupported URL: not a url\n", "ERROR: Unsupported URL: not a url"},
		{"last error wins", "ERROR: first\nERROR: second", "ERROR: second"},
		{"warnings only", "WARNING: only a warning", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lastErrorLine(tt.stderr))
		})
	}
}

func TestRunError_NoResult(t *testing.T) {
	err := errors.New("exit status 1")
	assert.Equal(t, err, runError(nil, err))
}

func TestNewUniversalService(t *testing.T) {
	us := NewUniversalService("socks5://127.0.0.1:1080", true, discardLogger())
	assert.Equal(t, "socks5://127.0.0.1:1080", us.proxy)
	assert.True(t, us.autoInstall)
}

// fakeYtDlp mimics the parts of yt-dlp the extractor relies on: the --output
// template, the JSON info line on stdout and ERROR lines on stderr.
const fakeYtDlp = `#!/bin/sh
out=""
url=""
while [ $# -gt 0 ]; do
	case "$1" in
	-o|--output)
		out="$2"
		shift
		;;
	esac
	url="$1"
	shift
done
file=$(printf '%s' "$out" | sed 's/%(ext)s/mp4/')

case "$FAKE_YTDLP_MODE" in
ok)
	printf 'video:%s' "$url" > "$file"
	printf '{"_type":"video","title":"My Cool Clip","filename":"%s"}\n' "$file"
	;;
nofilename)
	printf '{"_type":"video","title":"My Cool Clip"}\n'
	;;
missing)
	printf '{"_type":"video","title":"My Cool Clip","filename":"%s"}\n' "$file"
	;;
*)
	echo "[generic] Extracting URL: $url" >&2
	echo "ERROR: Unsupported URL: $url" >&2
	exit 1
	;;
esac
`

func writeFakeYtDlp(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake yt-dlp is a shell script")
	}
	path := filepath.Join(t.TempDir(), "yt-dlp")
	require.NoError(t, os.WriteFile(path, []byte(fakeYtDlp), 0o755))
	return path
}

func TestUniversalService_Extract(t *testing.T) {
	executable := writeFakeYtDlp(t)

	tests := []struct {
		name    string
		mode    string
		url     string
		wantErr string
	}{
		{"downloaded", "ok", "https://example.com/video1", ""},
		{"no filename reported", "nofilename", "https://example.com/video1", "yt-dlp did not report a downloaded file"},
		{"file missing on disk", "missing", "https://example.com/video1", "downloaded file not found"},
		{"unsupported url", "fail", "not a url", "ERROR: Unsupported URL: not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FAKE_YTDLP_MODE", tt.mode)
			dir := t.TempDir()
			us := NewUniversalService("", false, discardLogger(), WithExecutable(executable))

			ex, err := us.Extract(context.Background(), tt.url, dir)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				entries, readErr := os.ReadDir(dir)
				require.NoError(t, readErr)
				assert.Empty(t, entries)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "My Cool Clip", ex.Title)
			assert.Equal(t, dir, filepath.Dir(ex.Path))
			assert.Equal(t, ".mp4", filepath.Ext(ex.Path))

			data, err := os.ReadFile(ex.Path)
			require.NoError(t, err)
			assert.Equal(t, "video:"+tt.url, string(data))
		})
	}
}

func TestUniversalService_Check_Executable(t *testing.T) {
	executable := writeFakeYtDlp(t)

	us := NewUniversalService("", false, discardLogger(), WithExecutable(executable))
	assert.NoError(t, us.Check(context.Background()))

	missing := NewUniversalService("", false, discardLogger(), WithExecutable(filepath.Join(t.TempDir(), "nope")))
	assert.Error(t, missing.Check(context.Background()))
}
