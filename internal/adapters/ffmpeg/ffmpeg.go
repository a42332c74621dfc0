package ffmpeg

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/devbush/vidtrans/internal/config"
	"github.com/devbush/vidtrans/internal/domain"
	"github.com/devbush/vidtrans/internal/logger"
	"github.com/devbush/vidtrans/internal/ports"
	"github.com/devbush/vidtrans/pkg/executor"
)

// Tool implements frame and audio extraction on top of the ffmpeg binary
type Tool struct {
	configured string
	binPath    string
	tempDir    string
	exec       executor.Executor
	logger     logger.Logger
}

// NewTool creates an ffmpeg wrapper. configured overrides binary discovery
// when non-empty.
func NewTool(configured string, exec executor.Executor, log logger.Logger) *Tool {
	if exec == nil {
		exec = executor.New()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Tool{
		configured: configured,
		tempDir:    os.TempDir(),
		exec:       exec,
		logger:     log,
	}
}

func binaryName() string {
	if runtime.GOOS == "windows" {
		return "ffmpeg.exe"
	}
	return "ffmpeg"
}

func (t *Tool) findBinary() string {
	if t.configured != "" {
		if _, err := os.Stat(t.configured); err == nil {
			return t.configured
		}
		if path, err := exec.LookPath(t.configured); err == nil {
			return path
		}
	}

	// Check bundled location first
	bundled := filepath.Join(config.BinDir(), binaryName())
	if _, err := os.Stat(bundled); err == nil {
		return bundled
	}

	// Check system PATH
	if path, err := exec.LookPath(binaryName()); err == nil {
		return path
	}

	return ""
}

func (t *Tool) FFmpegPath() string {
	if t.binPath != "" {
		return t.binPath
	}
	t.binPath = t.findBinary()
	return t.binPath
}

func (t *Tool) IsFFmpegAvailable() bool {
	return t.FFmpegPath() != ""
}

func (t *Tool) FFmpegInstructions() string {
	switch runtime.GOOS {
	case "darwin":
		return "Install ffmpeg with: brew install ffmpeg"
	case "windows":
		return "Download ffmpeg from https://www.gyan.dev/ffmpeg/builds/ and set ffmpeg.binary in " + config.ConfigPath()
	default:
		return "Install ffmpeg with your package manager, e.g. sudo apt install ffmpeg"
	}
}

// seconds renders a duration as the fractional seconds ffmpeg expects for -ss
func seconds(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}

func frameArgs(videoPath string, at time.Duration, outPath string) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-ss", seconds(at),
		"-i", videoPath,
		"-frames:v", "1",
		"-y",
		outPath,
	}
}

func audioArgs(videoPath, destPath string) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", videoPath,
		"-vn",          // No video
		"-ar", "16000", // 16kHz sample rate
		"-ac", "1", // Mono
		"-c:a", "pcm_s16le",
		"-y",
		destPath,
	}
}

// ExtractFrame grabs one frame into a scratch PNG and decodes it. The scratch
// file is removed on every path.
func (t *Tool) ExtractFrame(ctx context.Context, videoPath string, at time.Duration) (image.Image, error) {
	bin := t.FFmpegPath()
	if bin == "" {
		return nil, domain.ErrFFmpegNotFound
	}

	tmp := filepath.Join(t.tempDir, fmt.Sprintf("vidtrans_frame_%s.png", uuid.NewString()))
	defer os.Remove(tmp)

	t.logger.Debug(ctx, "Extracting frame at %s from %s", seconds(at), videoPath)
	if _, err := t.exec.Execute(ctx, bin, frameArgs(videoPath, at, tmp)...); err != nil {
		return nil, fmt.Errorf("%w: %s at %s: %v", domain.ErrFrameExtractionFailed, filepath.Base(videoPath), seconds(at), err)
	}

	f, err := os.Open(tmp)
	if err != nil {
		// ffmpeg exits cleanly without output when seeking past the end
		return nil, fmt.Errorf("%w: %s at %s: no frame produced", domain.ErrFrameExtractionFailed, filepath.Base(videoPath), seconds(at))
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decode frame: %v", domain.ErrFrameExtractionFailed, err)
	}
	return img, nil
}

// ExtractAudio converts the audio track to 16kHz mono WAV for whisper.cpp
func (t *Tool) ExtractAudio(ctx context.Context, videoPath, destPath string) error {
	bin := t.FFmpegPath()
	if bin == "" {
		return domain.ErrFFmpegNotFound
	}

	t.logger.Info(ctx, "Extracting audio: %s", videoPath)
	if _, err := t.exec.Execute(ctx, bin, audioArgs(videoPath, destPath)...); err != nil {
		return fmt.Errorf("ffmpeg extract audio: %w", err)
	}
	return nil
}

var (
	_ ports.FrameExtractor = (*Tool)(nil)
	_ ports.AudioExtractor = (*Tool)(nil)
	_ ports.MediaTools     = (*Tool)(nil)
)
