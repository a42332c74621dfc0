package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/devbush/vidtrans/internal/adapters/cli/tui"
	"github.com/devbush/vidtrans/internal/application"
)

var (
	// Global flags
	folderFlag      string
	screenshotsFlag string
	modelFlag       string
	languageFlag    string
	logLevelFlag    string
	quietFlag       bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vidtrans",
		Short: "Transcribe videos and search what was said",
		Long: `vidtrans transcribes the videos in a folder with whisper.cpp and searches
the resulting subtitles for a word or phrase. Every match is saved as a
screenshot of the frame with the sentence drawn on it, and can be collected
into an HTML report.

Run without arguments for an interactive menu.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}

	rootCmd.PersistentFlags().StringVarP(&folderFlag, "folder", "d", "", "Video folder (default from config, else current directory)")
	rootCmd.PersistentFlags().StringVar(&screenshotsFlag, "screenshots", "", "Evidence output directory (default <folder>/screenshots)")
	rootCmd.PersistentFlags().StringVar(&modelFlag, "model", "", "Whisper model: tiny, base, small, medium, large")
	rootCmd.PersistentFlags().StringVarP(&languageFlag, "language", "l", "", "Language code (auto, en, fr, es, etc.)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress progress output")

	rootCmd.AddCommand(NewTranscribeCmd())
	rootCmd.AddCommand(NewSearchCmd())
	rootCmd.AddCommand(NewWatchCmd())
	rootCmd.AddCommand(NewScreenshotsCmd())
	rootCmd.AddCommand(NewModelCmd())
	rootCmd.AddCommand(NewDepsCmd())

	return rootCmd
}

func runRoot(cmd *cobra.Command, args []string) error {
	return runInteractiveMenu(cmd)
}

func runInteractiveMenu(cmd *cobra.Command) error {
	options := []tui.MenuOption{
		{Label: "Transcribe all videos", Value: "all"},
		{Label: "Transcribe remaining videos", Value: "remaining"},
		{Label: "Transcribe specific videos", Value: "specific"},
		{Label: "Search transcripts", Value: "search"},
	}

	selected, err := tui.RunMenu("What would you like to do?", options)
	if err != nil {
		return err
	}

	switch selected {
	case "all":
		return transcribeSelection(cmd, application.SelectAll)
	case "remaining":
		return transcribeSelection(cmd, application.SelectRemaining)
	case "specific":
		return transcribeSpecificInteractive(cmd)
	case "search":
		return searchInteractive(cmd)
	case "":
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
	}

	return nil
}

// Execute runs the CLI. Ctrl+C cancels the running command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, tui.ErrorStyle.Render("Error: ")+err.Error())
		}
		stop()
		os.Exit(1)
	}
}
