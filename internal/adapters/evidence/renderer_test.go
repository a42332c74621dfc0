package evidence

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/image/font"

	"github.com/devbush/vidtrans/internal/adapters/cache"
	"github.com/devbush/vidtrans/internal/domain"
)

type fakeFrames struct {
	width, height int
	err           error
	calls         []time.Duration
}

func (f *fakeFrames) ExtractFrame(ctx context.Context, videoPath string, at time.Duration) (image.Image, error) {
	f.calls = append(f.calls, at)
	if f.err != nil {
		return nil, f.err
	}
	img := image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 90, G: 140, B: 200, A: 255}), image.Point{}, draw.Src)
	return img, nil
}

func newTestRenderer(t *testing.T, frames *fakeFrames) (*Renderer, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	store := cache.NewScreenshotStore(fs, "/shots")
	r, err := NewRenderer(frames, store, Options{
		FontSize:    20,
		MinFontSize: 10,
		FrameOffset: 100 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	return r, fs
}

func testMatch(text string) *domain.Match {
	seg := domain.Segment{Start: 2 * time.Second, End: 5 * time.Second, Text: text}
	return &domain.Match{VideoID: "talk", VideoPath: "/v/talk.mp4", Segment: &seg}
}

func TestRender(t *testing.T) {
	frames := &fakeFrames{width: 640, height: 360}
	r, fs := newTestRenderer(t, frames)
	pattern, _ := domain.SearchPattern("here")

	path, err := r.Render(context.Background(), testMatch("I was here yesterday"), pattern)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := "/shots/" + domain.EvidenceFilename("talk", "00:00:02")
	if path != want {
		t.Errorf("Render() path = %s, want %s", path, want)
	}

	if len(frames.calls) != 1 || frames.calls[0] != 2100*time.Millisecond {
		t.Errorf("frame requested at %v, want 2.1s", frames.calls)
	}

	f, err := fs.Open(path)
	if err != nil {
		t.Fatalf("evidence not written: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 640, 360) {
		t.Errorf("evidence size = %v, want frame size", img.Bounds())
	}

	// Inside the padding, left of the text
	if r, g, b, _ := img.At(marginLeft-2, 360-marginBottom-2).RGBA(); r != 0 || g != 0 || b != 0 {
		t.Errorf("background box pixel = %d,%d,%d, want black", r>>8, g>>8, b>>8)
	}
	// Untouched frame area
	if r, _, _, _ := img.At(320, 10).RGBA(); r>>8 != 90 {
		t.Errorf("frame pixel changed: red = %d", r>>8)
	}

	var red, white bool
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			if cr>>8 == 255 && cg>>8 == 0 && cb>>8 == 0 {
				red = true
			}
			if cr>>8 == 255 && cg>>8 == 255 && cb>>8 == 255 {
				white = true
			}
		}
	}
	if !red {
		t.Error("highlighted term not drawn in red")
	}
	if !white {
		t.Error("surrounding text not drawn in white")
	}
}

func TestRender_FrameFailure(t *testing.T) {
	frames := &fakeFrames{err: domain.ErrFrameExtractionFailed}
	r, fs := newTestRenderer(t, frames)
	pattern, _ := domain.SearchPattern("here")

	_, err := r.Render(context.Background(), testMatch("here"), pattern)
	if !errors.Is(err, domain.ErrFrameExtractionFailed) {
		t.Errorf("Render() error = %v, want ErrFrameExtractionFailed", err)
	}

	if ok, _ := afero.DirExists(fs, "/shots"); ok {
		entries, _ := afero.ReadDir(fs, "/shots")
		if len(entries) != 0 {
			t.Errorf("files written despite failure: %d", len(entries))
		}
	}
}

func TestRender_EncodeFailureLeavesNoFile(t *testing.T) {
	// png refuses to encode an empty image
	r, fs := newTestRenderer(t, &fakeFrames{width: 0, height: 0})
	pattern, _ := domain.SearchPattern("here")
	m := testMatch("here")

	if _, err := r.Render(context.Background(), m, pattern); err == nil {
		t.Fatal("Render() of an empty frame should fail")
	}
	if ok, _ := afero.Exists(fs, "/shots/"+m.EvidenceFilename()); ok {
		t.Error("failed render left a partial image behind")
	}
}

func TestRender_Overwrites(t *testing.T) {
	r, fs := newTestRenderer(t, &fakeFrames{width: 200, height: 100})
	pattern, _ := domain.SearchPattern("here")
	m := testMatch("here")

	first, err := r.Render(context.Background(), m, pattern)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Render(context.Background(), m, pattern)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("re-render produced a new name: %s vs %s", first, second)
	}

	entries, _ := afero.ReadDir(fs, "/shots")
	if len(entries) != 1 {
		t.Errorf("files = %d, want 1", len(entries))
	}
}

func TestFitSize(t *testing.T) {
	r, _ := newTestRenderer(t, &fakeFrames{})

	tests := []struct {
		name     string
		text     string
		maxWidth int
		want     int
	}{
		{"short text keeps baseline", "hi", 1000, 20},
		{"long text shrinks to floor", strings.Repeat("overflowing ", 50), 100, 10},
		{"zero width hits floor", "anything", 0, 10},
		{"negative width hits floor", "anything", -20, 10},
		{"empty text keeps baseline", "", 0, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.fitSize(tt.text, tt.maxWidth)
			if err != nil {
				t.Fatalf("fitSize() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("fitSize() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFitSize_ShrinksGradually(t *testing.T) {
	r, _ := newTestRenderer(t, &fakeFrames{})
	text := "I was here yesterday"

	limit := measure(t, r, 20, text) - 1

	got, err := r.fitSize(text, limit)
	if err != nil {
		t.Fatalf("fitSize() error = %v", err)
	}
	if got >= 20 || got < 10 {
		t.Fatalf("fitSize() = %d, want between 10 and 19", got)
	}
	if got > 10 && measure(t, r, got, text) > limit {
		t.Errorf("size %d still overflows %dpx", got, limit)
	}
	if got < 19 && measure(t, r, got+1, text) <= limit {
		t.Errorf("size %d is smaller than needed", got)
	}
}

func measure(t *testing.T, r *Renderer, size int, text string) int {
	t.Helper()
	face, err := r.face(size)
	if err != nil {
		t.Fatal(err)
	}
	return font.MeasureString(face, text).Ceil()
}

func TestNewRenderer_BadFontPath(t *testing.T) {
	store := cache.NewScreenshotStore(afero.NewMemMapFs(), "/shots")
	_, err := NewRenderer(&fakeFrames{}, store, Options{FontPath: "/fonts/missing.ttf", Fs: afero.NewMemMapFs()})
	if err == nil {
		t.Error("NewRenderer() should fail for a missing font file")
	}
}

func TestNewRenderer_InvalidFontFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/fonts/bad.ttf", []byte("not a font"), 0644)
	store := cache.NewScreenshotStore(fs, "/shots")

	_, err := NewRenderer(&fakeFrames{}, store, Options{FontPath: "/fonts/bad.ttf", Fs: fs})
	if err == nil {
		t.Error("NewRenderer() should fail for an invalid font file")
	}
}
