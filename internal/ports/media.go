package ports

import (
	"context"
	"image"
	"time"
)

// FrameExtractor decodes single frames out of video files.
type FrameExtractor interface {
	// ExtractFrame returns the frame shown at the given offset into the video.
	ExtractFrame(ctx context.Context, videoPath string, at time.Duration) (image.Image, error)
}

// AudioExtractor converts the audio track of a video into a format the
// transcriber accepts.
type AudioExtractor interface {
	// ExtractAudio writes 16kHz mono WAV audio for videoPath to destPath.
	ExtractAudio(ctx context.Context, videoPath, destPath string) error
}

// MediaTools reports on the external media toolchain.
type MediaTools interface {
	// IsFFmpegAvailable checks if ffmpeg is installed.
	IsFFmpegAvailable() bool

	// FFmpegPath returns the path to the ffmpeg binary.
	FFmpegPath() string

	// FFmpegInstructions returns platform-specific installation instructions.
	FFmpegInstructions() string
}
