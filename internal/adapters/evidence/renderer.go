package evidence

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/spf13/afero"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/devbush/vidtrans/internal/domain"
	"github.com/devbush/vidtrans/internal/logger"
	"github.com/devbush/vidtrans/internal/ports"
)

const (
	marginLeft   = 10
	marginBottom = 20
	boxPadding   = 5
	// Text must fit within the frame width minus this much
	widthAllowance = 20

	maxFitIterations = 128
	faceCacheSize    = 32
)

var (
	textColor      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	highlightColor = color.RGBA{R: 255, A: 255}
	boxColor       = color.RGBA{A: 255}
)

// Options configures a Renderer
type Options struct {
	FontPath    string // TrueType/OpenType file; empty uses Go Regular
	FontSize    int
	MinFontSize int
	FrameOffset time.Duration
	Fs          afero.Fs // used to read FontPath
	Logger      logger.Logger
}

// Renderer composites the matched sentence onto a video frame
type Renderer struct {
	frames   ports.FrameExtractor
	store    ports.EvidenceStore
	font     *opentype.Font
	faces    *lru.Cache[int, font.Face]
	baseSize int
	minSize  int
	offset   time.Duration
	logger   logger.Logger
}

func NewRenderer(frames ports.FrameExtractor, store ports.EvidenceStore, opts Options) (*Renderer, error) {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.FontSize <= 0 {
		opts.FontSize = 20
	}
	if opts.MinFontSize <= 0 || opts.MinFontSize > opts.FontSize {
		opts.MinFontSize = min(10, opts.FontSize)
	}

	data := goregular.TTF
	if opts.FontPath != "" {
		custom, err := afero.ReadFile(opts.Fs, opts.FontPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read font: %w", err)
		}
		data = custom
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	faces, err := lru.New[int, font.Face](faceCacheSize)
	if err != nil {
		return nil, err
	}

	return &Renderer{
		frames:   frames,
		store:    store,
		font:     f,
		faces:    faces,
		baseSize: opts.FontSize,
		minSize:  opts.MinFontSize,
		offset:   opts.FrameOffset,
		logger:   opts.Logger,
	}, nil
}

func (r *Renderer) face(size int) (font.Face, error) {
	if face, ok := r.faces.Get(size); ok {
		return face, nil
	}
	face, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	r.faces.Add(size, face)
	return face, nil
}

// fitSize shrinks from the baseline size one point at a time until text fits
// maxWidth or the floor is reached. The floor is returned even if it overflows.
func (r *Renderer) fitSize(text string, maxWidth int) (int, error) {
	size := r.baseSize
	for i := 0; i < maxFitIterations && size > r.minSize; i++ {
		face, err := r.face(size)
		if err != nil {
			return 0, err
		}
		if font.MeasureString(face, text).Ceil() <= maxWidth {
			return size, nil
		}
		size--
	}
	return size, nil
}

// Render writes <video>_screenshot_<HH-MM-SS>.png into the evidence store
func (r *Renderer) Render(ctx context.Context, m *domain.Match, pattern *domain.Pattern) (string, error) {
	frame, err := r.frames.ExtractFrame(ctx, m.VideoPath, m.Segment.Start+r.offset)
	if err != nil {
		return "", err
	}

	bounds := frame.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, frame, bounds.Min, draw.Src)

	sentence := m.Segment.Text
	size, err := r.fitSize(sentence, bounds.Dx()-widthAllowance)
	if err != nil {
		return "", err
	}
	face, err := r.face(size)
	if err != nil {
		return "", err
	}

	metrics := face.Metrics()
	textWidth := font.MeasureString(face, sentence).Ceil()
	textHeight := (metrics.Ascent + metrics.Descent).Ceil()

	x := bounds.Min.X + marginLeft
	top := bounds.Max.Y - textHeight - marginBottom

	box := image.Rect(x-boxPadding, top-boxPadding, x+textWidth+boxPadding, top+textHeight+boxPadding)
	draw.Draw(canvas, box.Intersect(bounds), image.NewUniform(boxColor), image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  canvas,
		Face: face,
		Dot:  fixed.P(x, top+metrics.Ascent.Ceil()),
	}
	for _, span := range domain.SplitMatches(pattern, sentence) {
		drawer.Src = image.NewUniform(textColor)
		if span.Match {
			drawer.Src = image.NewUniform(highlightColor)
		}
		// DrawString advances Dot by the span's width
		drawer.DrawString(span.Text)
	}

	name := m.EvidenceFilename()
	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", name, err)
	}
	if err := r.store.WriteFile(name, buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}

	r.logger.Debug(ctx, "Saved evidence %s (font size %d)", name, size)
	return r.store.Path(name), nil
}

var _ ports.EvidenceRenderer = (*Renderer)(nil)
