package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/devbush/vidtrans/internal/adapters/watcher"
	"github.com/devbush/vidtrans/internal/application"
)

var watchExistingFlag bool

// NewWatchCmd creates the watch subcommand
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Transcribe new videos as they appear in the folder",
		Long: `Watch the video folder and transcribe every new video file once it has
been written. Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: runWatch,
	}

	cmd.Flags().BoolVar(&watchExistingFlag, "existing", false, "First transcribe videos that have no subtitles yet")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	app, err := GetApp()
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	model := app.Config.Whisper.Model
	if err := ensureTools(ctx, app, model, true, out); err != nil {
		return err
	}
	opts := application.TranscribeOptions{
		Model:    model,
		Language: app.Config.Whisper.Language,
	}

	if watchExistingFlag {
		videos, err := app.TranscribeSvc.Select(ctx, application.SelectRemaining)
		if err == nil && len(videos) > 0 {
			if err := transcribeVideos(cmd, app, videos); err != nil {
				app.Logger.Warn(ctx, "Transcribing existing videos: %v", err)
			}
		}
	}

	w, err := watcher.New(app.Library.Dir(), func(ctx context.Context, video string) error {
		if app.Library.HasTranscript(video) {
			app.Logger.Info(ctx, "Skipping %s, subtitles already exist", filepath.Base(video))
			return nil
		}
		tr, err := app.TranscribeSvc.TranscribeVideo(ctx, video, opts)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ %s (%d segments)\n", filepath.Base(video), len(tr.Segments))
		return nil
	}, app.Logger)
	if err != nil {
		return err
	}
	defer w.Close()

	fmt.Fprintf(out, "Watching %s for new videos (Ctrl+C to stop)\n", app.Library.Dir())
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
