package cli

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/devbush/vidtrans/internal/adapters/cache"
	"github.com/devbush/vidtrans/internal/adapters/evidence"
	"github.com/devbush/vidtrans/internal/adapters/ffmpeg"
	"github.com/devbush/vidtrans/internal/adapters/library"
	"github.com/devbush/vidtrans/internal/adapters/report"
	"github.com/devbush/vidtrans/internal/adapters/whisper"
	"github.com/devbush/vidtrans/internal/application"
	"github.com/devbush/vidtrans/internal/config"
	"github.com/devbush/vidtrans/internal/logger"
	"github.com/devbush/vidtrans/pkg/executor"
)

// App holds all application dependencies
type App struct {
	Config      *config.Config
	Logger      logger.Logger
	Exec        executor.Executor
	FFmpeg      *ffmpeg.Tool
	Transcriber *whisper.Transcriber
	Library     *library.Store
	Screenshots *cache.ScreenshotStore
	HTMLReport  *report.HTMLBuilder
	DOCXReport  *report.DOCXBuilder

	TranscribeSvc *application.TranscribeService
	SearchSvc     *application.SearchService
	ScreenshotSvc *application.ScreenshotService
}

// NewApp wires up all dependencies from cfg
func NewApp(cfg *config.Config) (*App, error) {
	if err := config.EnsureDirs(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logger.New(cfg.Logging.Level)
	exec := executor.New()
	fs := afero.NewOsFs()

	offset, err := cfg.GetFrameOffset()
	if err != nil {
		return nil, err
	}

	transcripts, err := cache.NewTranscriptCache(cache.DefaultTranscriptEntries)
	if err != nil {
		return nil, err
	}

	tool := ffmpeg.NewTool(cfg.FFmpeg.Binary, exec, log)
	transcriber := whisper.NewTranscriber(whisper.Options{
		Binary: cfg.Whisper.Binary,
		Audio:  tool,
		Exec:   exec,
		Logger: log,
	})
	lib := library.NewStore(fs, cfg.Library.Folder,
		library.WithLegacyVTT(cfg.Subtitles.VTTLegacySeparator),
		library.WithCache(transcripts),
	)
	screenshots := cache.NewScreenshotStore(fs, cfg.ScreenshotDir())

	renderer, err := evidence.NewRenderer(tool, screenshots, evidence.Options{
		FontPath:    cfg.Render.FontPath,
		FontSize:    cfg.Render.FontSize,
		MinFontSize: cfg.Render.MinFontSize,
		FrameOffset: offset,
		Fs:          fs,
		Logger:      log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up evidence renderer: %w", err)
	}

	return &App{
		Config:        cfg,
		Logger:        log,
		Exec:          exec,
		FFmpeg:        tool,
		Transcriber:   transcriber,
		Library:       lib,
		Screenshots:   screenshots,
		HTMLReport:    report.NewHTMLBuilder(screenshots),
		DOCXReport:    report.NewDOCXBuilder(screenshots),
		TranscribeSvc: application.NewTranscribeService(lib, transcriber, log),
		SearchSvc:     application.NewSearchService(lib, renderer, log),
		ScreenshotSvc: application.NewScreenshotService(screenshots),
	}, nil
}

var globalApp *App

// GetApp returns the global app instance, creating it if needed. Global
// flags override the loaded configuration.
func GetApp() (*App, error) {
	if globalApp == nil {
		cfg, err := config.LoadDefault()
		if err != nil {
			return nil, err
		}
		applyFlags(cfg)

		app, err := NewApp(cfg)
		if err != nil {
			return nil, err
		}
		globalApp = app
	}
	return globalApp, nil
}

func applyFlags(cfg *config.Config) {
	if folderFlag != "" {
		cfg.Library.Folder = folderFlag
	}
	if screenshotsFlag != "" {
		cfg.Library.Screenshots = screenshotsFlag
	}
	if modelFlag != "" {
		cfg.Whisper.Model = modelFlag
	}
	switch languageFlag {
	case "":
	case "auto":
		cfg.Whisper.Language = ""
	default:
		cfg.Whisper.Language = languageFlag
	}
	if logLevelFlag != "" {
		cfg.Logging.Level = logLevelFlag
	}
}
