package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devbush/vidtrans/internal/adapters/cli/tui"
)

// NewDepsCmd creates the deps subcommand
func NewDepsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Check external tools (ffmpeg, whisper.cpp)",
		RunE:  runDepsStatus,
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show dependency status",
		RunE:  runDepsStatus,
	}

	installCmd := &cobra.Command{
		Use:   "install",
		Short: "Install a static ffmpeg build",
		RunE:  runDepsInstall,
	}

	cmd.AddCommand(statusCmd, installCmd)
	return cmd
}

func runDepsStatus(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Dependency Status:")
	fmt.Fprintln(out)

	if app.FFmpeg.IsFFmpegAvailable() {
		fmt.Fprintf(out, "  ffmpeg:   installed (%s)\n", app.FFmpeg.FFmpegPath())
	} else {
		fmt.Fprintln(out, "  ffmpeg:   "+tui.ErrorStyle.Render("not found"))
		fmt.Fprintf(out, "            %s\n", app.FFmpeg.FFmpegInstructions())
	}

	if app.Transcriber.IsAvailable() {
		fmt.Fprintf(out, "  whisper:  installed (%s)\n", app.Transcriber.BinaryPath())
	} else {
		fmt.Fprintln(out, "  whisper:  "+tui.ErrorStyle.Render("not found"))
		fmt.Fprintf(out, "            %s\n", app.Transcriber.InstallationInstructions())
	}

	models := app.Transcriber.AvailableModels()
	downloaded := 0
	for _, m := range models {
		if m.Downloaded {
			downloaded++
		}
	}
	fmt.Fprintf(out, "  models:   %d/%d downloaded (default: %s)\n", downloaded, len(models), app.Config.Whisper.Model)
	fmt.Fprintln(out)

	return nil
}

func runDepsInstall(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if app.FFmpeg.IsFFmpegAvailable() {
		fmt.Fprintf(out, "ffmpeg is already installed (%s)\n", app.FFmpeg.FFmpegPath())
		return nil
	}

	progress := tui.NewProgressDisplay(out, []string{"Installing ffmpeg"}, quietFlag)
	progress.StartStep(0)
	err = app.FFmpeg.Install(cmd.Context(), func(downloaded, total int64) {
		progress.UpdateProgress(0, downloaded, total)
	})
	if err != nil {
		progress.FailStep(0, err.Error())
		return err
	}
	progress.CompleteStep(0)

	if !app.Transcriber.IsAvailable() {
		fmt.Fprintln(out, app.Transcriber.InstallationInstructions())
	}
	return nil
}
