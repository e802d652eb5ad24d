package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
)

// FrameExtractor produces a jpeg still from an uploaded video.
type FrameExtractor interface {
	ExtractFrame(ctx context.Context, video io.Reader) ([]byte, error)
}

// FfmpegExtractor shells out to ffmpeg to grab the frame one second into the
// video. The video is spooled to a temp file first since ffmpeg needs a
// seekable input.
type FfmpegExtractor struct {
	FfmpegPath string
}

func NewFfmpegExtractor(ffmpegPath string) *FfmpegExtractor {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &FfmpegExtractor{FfmpegPath: ffmpegPath}
}

const thumbnailOffset = "00:00:01"

func (e *FfmpegExtractor) ExtractFrame(ctx context.Context, video io.Reader) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "thumbnail")
	if err != nil {
		return nil, fmt.Errorf("error creating temp dir for thumbnail extraction: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	inputPath := filepath.Join(tmpDir, "input")
	outputPath := filepath.Join(tmpDir, "frame.jpg")

	input, err := os.Create(inputPath)
	if err != nil {
		return nil, fmt.Errorf("error creating temp video file: %w", err)
	}
	if _, err := io.Copy(input, video); err != nil {
		input.Close()
		return nil, fmt.Errorf("error writing temp video file: %w", err)
	}
	input.Close()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.FfmpegPath, "-ss", thumbnailOffset, "-i", inputPath, "-frames:v", "1", "-f", "image2", outputPath)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		slog.Error("ffmpeg frame extraction failed", "error", err, "stderr", stderr.String())
		return nil, fmt.Errorf("error extracting video frame: %w", err)
	}

	frame, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, fmt.Errorf("error reading extracted frame: %w", err)
	}

	return frame, nil
}
