package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/devbush/vidtrans/internal/config"
	"github.com/devbush/vidtrans/internal/domain"
	"github.com/devbush/vidtrans/internal/logger"
	"github.com/devbush/vidtrans/internal/ports"
	"github.com/devbush/vidtrans/pkg/executor"
)

// DefaultModel is used when no model is configured
const DefaultModel = "base"

// Model sizes in bytes (approximate)
var modelSizes = map[string]int64{
	"tiny":   75 * 1024 * 1024,
	"base":   140 * 1024 * 1024,
	"small":  462 * 1024 * 1024,
	"medium": 1500 * 1024 * 1024,
	"large":  3000 * 1024 * 1024,
}

// Options configures a Transcriber
type Options struct {
	ModelsDir string
	Binary    string // empty searches the bundled dir and PATH
	Audio     ports.AudioExtractor
	Exec      executor.Executor
	Logger    logger.Logger
}

// Transcriber implements ports.Transcriber using whisper.cpp
type Transcriber struct {
	modelsDir  string
	configured string
	binPath    string
	tempDir    string
	audio      ports.AudioExtractor
	exec       executor.Executor
	logger     logger.Logger
}

// NewTranscriber creates a new Whisper transcriber
func NewTranscriber(opts Options) *Transcriber {
	if opts.ModelsDir == "" {
		opts.ModelsDir = config.ModelsDir()
	}
	if opts.Exec == nil {
		opts.Exec = executor.New()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Transcriber{
		modelsDir:  opts.ModelsDir,
		configured: opts.Binary,
		tempDir:    os.TempDir(),
		audio:      opts.Audio,
		exec:       opts.Exec,
		logger:     opts.Logger,
	}
}

func modelURL(name string) string {
	return fmt.Sprintf("https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-%s.bin", name)
}

func (t *Transcriber) modelPath(name string) string {
	return filepath.Join(t.modelsDir, fmt.Sprintf("ggml-%s.bin", name))
}

func (t *Transcriber) AvailableModels() []ports.Model {
	models := []ports.Model{
		{Name: "tiny", Size: modelSizes["tiny"], Description: "~75MB, basic accuracy, very fast"},
		{Name: "base", Size: modelSizes["base"], Description: "~140MB, good accuracy, fast"},
		{Name: "small", Size: modelSizes["small"], Description: "~462MB, better accuracy, moderate speed"},
		{Name: "medium", Size: modelSizes["medium"], Description: "~1.5GB, great accuracy, slower"},
		{Name: "large", Size: modelSizes["large"], Description: "~3GB, best accuracy, slow"},
	}

	for i := range models {
		models[i].Downloaded = t.IsModelDownloaded(models[i].Name)
	}

	return models
}

func (t *Transcriber) IsModelDownloaded(model string) bool {
	_, err := os.Stat(t.modelPath(model))
	return err == nil
}

func (t *Transcriber) DownloadModel(ctx context.Context, model string, progress func(downloaded, total int64)) error {
	if _, ok := modelSizes[model]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrModelNotFound, model)
	}

	if err := os.MkdirAll(t.modelsDir, 0755); err != nil {
		return err
	}

	url := modelURL(model)
	destPath := t.modelPath(model)
	tempPath := destPath + ".tmp"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download model: HTTP %d", resp.StatusCode)
	}

	out, err := os.Create(tempPath)
	if err != nil {
		return err
	}

	// Track success to clean up partial downloads on failure
	success := false
	defer func() {
		out.Close()
		if !success {
			os.Remove(tempPath)
		}
	}()

	total := resp.ContentLength
	var downloaded int64

	buf := make([]byte, 32*1024)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				return writeErr
			}
			downloaded += int64(n)
			if progress != nil {
				progress(downloaded, total)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}

	out.Close()
	if err := os.Rename(tempPath, destPath); err != nil {
		return err
	}

	success = true
	return nil
}

func (t *Transcriber) DeleteModel(model string) error {
	return os.Remove(t.modelPath(model))
}

func (t *Transcriber) IsAvailable() bool {
	return t.binaryPath() != ""
}

// BinaryPath returns the whisper.cpp binary in use, empty when none is found
func (t *Transcriber) BinaryPath() string {
	return t.binaryPath()
}

// InstallationInstructions explains how to get whisper.cpp on this platform
func (t *Transcriber) InstallationInstructions() string {
	switch runtime.GOOS {
	case "darwin":
		return "Install whisper.cpp with: brew install whisper-cpp"
	case "windows":
		return "Download whisper.cpp from https://github.com/ggerganov/whisper.cpp/releases and set whisper.binary in " + config.ConfigPath()
	default:
		return "Build whisper.cpp from https://github.com/ggerganov/whisper.cpp and put whisper-cli on your PATH, or set whisper.binary in " + config.ConfigPath()
	}
}

// Transcribe extracts the audio track of videoPath and runs whisper.cpp on
// it with JSON output.
func (t *Transcriber) Transcribe(ctx context.Context, videoPath string, opts ports.TranscribeOpts) (*domain.Transcript, error) {
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}

	if !t.IsModelDownloaded(model) {
		return nil, fmt.Errorf("%w: %s (run 'vidtrans model download %s')", domain.ErrModelNotFound, model, model)
	}

	whisperBin := t.binaryPath()
	if whisperBin == "" {
		return nil, domain.ErrWhisperNotFound
	}

	scratch := filepath.Join(t.tempDir, "vidtrans_"+uuid.NewString())

	input := videoPath
	if t.audio != nil {
		input = scratch + ".wav"
		defer os.Remove(input)
		if err := t.audio.ExtractAudio(ctx, videoPath, input); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrTranscriptionFailed, err)
		}
	}

	args := []string{
		"-m", t.modelPath(model),
		"-f", input,
		"-of", scratch,
		"-oj", // JSON output
	}

	language := opts.Language
	if language != "" {
		args = append(args, "-l", language)
	} else {
		language = "auto"
	}

	t.logger.Info(ctx, "Transcribing %s with model %s", filepath.Base(videoPath), model)

	jsonPath := scratch + ".json"
	defer os.Remove(jsonPath)

	if _, err := t.exec.Execute(ctx, whisperBin, args...); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTranscriptionFailed, err)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read output: %v", domain.ErrTranscriptionFailed, err)
	}

	transcript, err := parseWhisperJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parse output: %v", domain.ErrTranscriptionFailed, err)
	}

	transcript.VideoID = domain.VideoID(videoPath)
	transcript.VideoPath = videoPath
	transcript.Model = model
	transcript.Language = language
	transcript.TranscribedAt = time.Now()

	return transcript, nil
}

func (t *Transcriber) binaryPath() string {
	if t.binPath != "" {
		return t.binPath
	}
	t.binPath = t.findWhisperBinary()
	return t.binPath
}

func (t *Transcriber) findWhisperBinary() string {
	if t.configured != "" {
		if _, err := os.Stat(t.configured); err == nil {
			return t.configured
		}
		if path, err := exec.LookPath(t.configured); err == nil {
			return path
		}
	}

	names := []string{"whisper-cli", "whisper", "whisper-cpp", "main"}
	if runtime.GOOS == "windows" {
		names = []string{"whisper-cli.exe", "whisper.exe", "whisper-cpp.exe", "main.exe"}
	}

	// Check bundled location
	for _, name := range names {
		bundled := filepath.Join(config.BinDir(), name)
		if _, err := os.Stat(bundled); err == nil {
			return bundled
		}
	}

	// Check PATH
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	return ""
}

func parseWhisperJSON(data []byte) (*domain.Transcript, error) {
	var output struct {
		Transcription []struct {
			Timestamps struct {
				From string `json:"from"`
				To   string `json:"to"`
			} `json:"timestamps"`
			Text string `json:"text"`
		} `json:"transcription"`
	}

	if err := json.Unmarshal(data, &output); err != nil {
		return nil, err
	}

	var segments []domain.Segment
	var fullText strings.Builder

	for _, item := range output.Transcription {
		seg := domain.NewSegment(parseTimestamp(item.Timestamps.From), parseTimestamp(item.Timestamps.To), item.Text)
		if seg.Text == "" {
			continue
		}
		segments = append(segments, seg)

		if fullText.Len() > 0 {
			fullText.WriteString(" ")
		}
		fullText.WriteString(seg.Text)
	}

	transcript := &domain.Transcript{
		Text:     fullText.String(),
		Segments: segments,
	}
	transcript.SortSegments()
	return transcript, nil
}

// parseTimestamp reads whisper.cpp's "HH:MM:SS,mmm" timestamps; anything
// unreadable maps to zero.
func parseTimestamp(ts string) time.Duration {
	d, err := domain.ParseTimestamp(strings.ReplaceAll(ts, ",", "."))
	if err != nil {
		return 0
	}
	return d
}

// Ensure Transcriber implements interface
var _ ports.Transcriber = (*Transcriber)(nil)
