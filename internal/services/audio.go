package services

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// AudioConverter converts the recorded upload into recognizer-ready wav.
type AudioConverter interface {
	ConvertToWav(ctx context.Context, srcPath, dstPath string) error
}

type ffmpegConverter struct {
	binary string
}

func NewFFmpegConverter(binary string) AudioConverter {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &ffmpegConverter{binary: binary}
}

// ConvertToWav writes 16 kHz mono PCM wav to dstPath.
func (f *ffmpegConverter) ConvertToWav(ctx context.Context, srcPath, dstPath string) error {
	var stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, f.binary,
		"-y", "-hide_banner", "-loglevel", "error",
		"-i", srcPath,
		"-ac", "1", "-ar", "16000", "-acodec", "pcm_s16le",
		dstPath,
	)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg conversion failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return nil
}
