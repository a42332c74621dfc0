package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/devbush/vidtrans/internal/adapters/cli/tui"
	"github.com/devbush/vidtrans/internal/application"
	"github.com/devbush/vidtrans/internal/domain"
)

var (
	transcribeAllFlag       bool
	transcribeRemainingFlag bool
	transcribeFileFlag      string
)

// NewTranscribeCmd creates the transcribe subcommand
func NewTranscribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcribe [videos...]",
		Short: "Transcribe videos in the folder",
		Long: `Transcribe videos with whisper.cpp. Each video gets a .txt, .srt and .vtt
file written next to it.

By default only videos without an .srt file are transcribed.

Example:
  vidtrans transcribe --all
  vidtrans transcribe lecture1.mp4 lecture2.mkv
  vidtrans transcribe --file list.txt`,
		RunE: runTranscribe,
	}

	cmd.Flags().BoolVar(&transcribeAllFlag, "all", false, "Transcribe every video, overwriting existing subtitles")
	cmd.Flags().BoolVar(&transcribeRemainingFlag, "remaining", false, "Transcribe videos without subtitles (default)")
	cmd.Flags().StringVarP(&transcribeFileFlag, "file", "f", "", "File listing videos to transcribe (one per line)")
	cmd.MarkFlagsMutuallyExclusive("all", "remaining")

	return cmd
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	if len(args) > 0 || transcribeFileFlag != "" {
		if transcribeAllFlag || transcribeRemainingFlag {
			return errors.New("--all and --remaining cannot be combined with specific videos")
		}
		app, err := GetApp()
		if err != nil {
			return fmt.Errorf("failed to initialize: %w", err)
		}
		videos, err := CollectVideos(app.Library.Dir(), args, transcribeFileFlag)
		if err != nil {
			return err
		}
		return transcribeVideos(cmd, app, videos)
	}

	sel := application.SelectRemaining
	if transcribeAllFlag {
		sel = application.SelectAll
	}
	return transcribeSelection(cmd, sel)
}

func transcribeSelection(cmd *cobra.Command, sel application.Selection) error {
	app, err := GetApp()
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	videos, err := app.TranscribeSvc.Select(cmd.Context(), sel)
	if err != nil {
		if errors.Is(err, domain.ErrNoVideos) {
			return fmt.Errorf("no video files found in %s", app.Library.Dir())
		}
		return err
	}
	if len(videos) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "All videos already have subtitles. Use --all to transcribe them again.")
		return nil
	}

	return transcribeVideos(cmd, app, videos)
}

func transcribeSpecificInteractive(cmd *cobra.Command) error {
	app, err := GetApp()
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	videos, err := app.Library.ListVideos(cmd.Context())
	if err != nil {
		return err
	}
	if len(videos) == 0 {
		return fmt.Errorf("no video files found in %s", app.Library.Dir())
	}

	options := make([]tui.CheckboxOption, len(videos))
	for i, v := range videos {
		label := tui.Truncate(filepath.Base(v), 60)
		if app.Library.HasTranscript(v) {
			label += "  (transcribed)"
		}
		options[i] = tui.CheckboxOption{Label: label, Value: v}
	}

	selected, err := tui.RunCheckbox("Select videos to transcribe:", options)
	if err != nil {
		return err
	}
	if selected == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
		return nil
	}

	return transcribeVideos(cmd, app, selected)
}

func transcribeVideos(cmd *cobra.Command, app *App, videos []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	model := app.Config.Whisper.Model

	if err := ensureTools(ctx, app, model, true, out); err != nil {
		return err
	}

	progress := tui.NewBatchProgress(out, len(videos), quietFlag)
	summary, err := app.TranscribeSvc.TranscribeFiles(ctx, videos, application.TranscribeOptions{
		Model:    model,
		Language: app.Config.Whisper.Language,
	}, application.BatchObserver{
		Started:  func(_, _ int, video string) { progress.Start(video) },
		Finished: func(o application.TranscribeOutcome) { progress.Finish(o.VideoPath, o.Err) },
	})
	progress.Complete()
	if err != nil {
		return err
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d videos failed", summary.Failed, len(videos))
	}
	return nil
}

// ensureTools checks ffmpeg, whisper.cpp and the model, installing ffmpeg
// and downloading the model when they are missing
func ensureTools(ctx context.Context, app *App, model string, needWhisper bool, out io.Writer) error {
	progress := tui.NewProgressDisplay(out, []string{"Checking dependencies"}, quietFlag)
	progress.StartStep(0)

	report := func(d, t int64) { progress.UpdateProgress(0, d, t) }

	if !app.FFmpeg.IsFFmpegAvailable() {
		if !app.FFmpeg.CanInstall() {
			progress.FailStep(0, "ffmpeg not found")
			return fmt.Errorf("%w\n%s", domain.ErrFFmpegNotFound, app.FFmpeg.FFmpegInstructions())
		}
		if err := app.FFmpeg.Install(ctx, report); err != nil {
			progress.FailStep(0, err.Error())
			return fmt.Errorf("failed to install ffmpeg: %w", err)
		}
	}

	if needWhisper {
		if !app.Transcriber.IsAvailable() {
			progress.FailStep(0, "whisper.cpp not found")
			return fmt.Errorf("%w\n%s", domain.ErrWhisperNotFound, app.Transcriber.InstallationInstructions())
		}
		if !app.Transcriber.IsModelDownloaded(model) {
			if err := app.Transcriber.DownloadModel(ctx, model, report); err != nil {
				progress.FailStep(0, err.Error())
				return fmt.Errorf("failed to download model: %w", err)
			}
		}
	}

	progress.CompleteStep(0)
	return nil
}
