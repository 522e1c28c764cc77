// Package ingest fetches remote audio so the transcriber can consume it
// like any local file. Currently only YouTube sources are supported.
package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ytdl "github.com/kkdai/youtube/v2"
)

// IsYouTubeURL reports whether the input names a YouTube video rather
// than a local file.
func IsYouTubeURL(s string) bool {
	s = strings.ToLower(s)
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return false
	}
	return strings.Contains(s, "youtube.com/") || strings.Contains(s, "youtu.be/")
}

// Downloader fetches audio-only streams from YouTube.
type Downloader struct {
	client ytdl.Client
}

// NewDownloader creates a Downloader.
func NewDownloader() *Downloader {
	return &Downloader{client: ytdl.Client{}}
}

// extensionFor maps an audio MIME type to a file extension.
func extensionFor(mimeType string) string {
	if strings.Contains(mimeType, "mp4") {
		return ".m4a"
	}
	if strings.Contains(mimeType, "webm") {
		return ".webm"
	}
	return ".audio"
}

// DownloadAudio fetches the highest-bitrate audio-only stream of the
// video into a temp file and returns its path with a cleanup func.
func (d *Downloader) DownloadAudio(ctx context.Context, videoURL string) (string, func(), error) {
	video, err := d.client.GetVideoContext(ctx, videoURL)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get video: %w", err)
	}

	var formats []*ytdl.Format
	for i := range video.Formats {
		f := &video.Formats[i]
		if !strings.HasPrefix(f.MimeType, "audio/") {
			continue
		}
		formats = append(formats, f)
	}
	if len(formats) == 0 {
		return "", nil, fmt.Errorf("no audio formats available for %s", video.ID)
	}

	sort.Slice(formats, func(i, j int) bool {
		return formats[i].Bitrate > formats[j].Bitrate
	})
	format := formats[0]

	stream, _, err := d.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get stream: %w", err)
	}
	defer stream.Close()

	outPath := filepath.Join(os.TempDir(), "scribe_"+video.ID+extensionFor(format.MimeType))
	out, err := os.Create(outPath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := io.Copy(out, stream); err != nil {
		out.Close()
		os.Remove(outPath)
		return "", nil, fmt.Errorf("failed to download audio: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(outPath)
		return "", nil, err
	}

	cleanup := func() { os.Remove(outPath) }
	return outPath, cleanup, nil
}
