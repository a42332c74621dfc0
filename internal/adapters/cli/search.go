package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/devbush/vidtrans/internal/adapters/cli/tui"
	"github.com/devbush/vidtrans/internal/application"
	"github.com/devbush/vidtrans/internal/domain"
)

var (
	noImagesFlag bool
	reportFlag   bool
	noReportFlag bool
	docxFlag     bool
	openFlag     bool
	copyPathFlag bool
)

// NewSearchCmd creates the search subcommand
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search transcripts for a word or phrase",
		Long: `Search every .srt file in the folder for whole-word, case-insensitive
occurrences of a term. For each matching subtitle the frame is saved as a
screenshot with the sentence drawn on it and the term highlighted.

Example:
  vidtrans search here
  vidtrans search "thank you" --report --open
  vidtrans search budget --no-images --docx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().BoolVar(&noImagesFlag, "no-images", false, "Skip screenshot rendering")
	cmd.Flags().BoolVar(&reportFlag, "report", false, "Write the HTML report without asking")
	cmd.Flags().BoolVar(&noReportFlag, "no-report", false, "Never write the HTML report")
	cmd.Flags().BoolVar(&docxFlag, "docx", false, "Also write the results as a Word document")
	cmd.Flags().BoolVar(&openFlag, "open", false, "Open the report when done")
	cmd.Flags().BoolVar(&copyPathFlag, "copy-path", false, "Copy the report path to the clipboard")
	cmd.MarkFlagsMutuallyExclusive("report", "no-report")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	return search(cmd, strings.Join(args, " "))
}

func searchInteractive(cmd *cobra.Command) error {
	term, err := tui.RunPrompt("Enter search term:", "word or phrase")
	if err != nil {
		return err
	}
	if term == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
		return nil
	}
	return search(cmd, term)
}

func search(cmd *cobra.Command, term string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	pattern, err := domain.SearchPattern(term)
	if err != nil {
		return err
	}
	term = pattern.Term()

	app, err := GetApp()
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	evidence := app.Config.Search.Evidence && !noImagesFlag
	if evidence {
		if err := ensureTools(ctx, app, "", false, out); err != nil {
			return err
		}
	}

	progress := tui.NewProgressDisplay(out, []string{fmt.Sprintf("Searching for %q", term)}, quietFlag)
	progress.StartStep(0)
	stopSpinner := progress.StartSpinner()
	result, err := app.SearchSvc.SearchLibrary(ctx, term, application.SearchOptions{Evidence: evidence})
	stopSpinner()
	if err != nil {
		progress.FailStep(0, err.Error())
		return err
	}
	progress.CompleteStep(0)
	if result.Empty() && len(result.Skipped) == 0 {
		transcripts, _ := app.Library.ListTranscripts(ctx)
		if len(transcripts) == 0 {
			return fmt.Errorf("%w in %s, run 'vidtrans transcribe' first", domain.ErrNoTranscripts, app.Library.Dir())
		}
	}

	printResults(out, result, app.Screenshots.Path)
	if result.Empty() {
		return nil
	}

	var reports []tui.Output

	wantHTML, err := wantReport()
	if err != nil {
		return err
	}
	if wantHTML {
		path, err := app.HTMLReport.Build(ctx, result.Videos, result.Term)
		if err != nil {
			return err
		}
		reports = append(reports, tui.Output{Label: "HTML report", Path: path})
	}

	if docxFlag {
		path, err := app.DOCXReport.Build(ctx, result.Videos, result.Term)
		if err != nil {
			return err
		}
		reports = append(reports, tui.Output{Label: "Word document", Path: path})
	}

	if len(result.Evidence) > 0 {
		reports = append(reports, tui.Output{Label: "Screenshots", Path: app.Screenshots.Dir()})
	}
	if len(reports) > 0 {
		progress.Complete(reports)
	}

	if len(reports) > 0 && reports[0].Label != "Screenshots" && (openFlag || app.Config.Report.Open) {
		if err := openFile(ctx, app.Exec, reports[0].Path); err != nil {
			app.Logger.Warn(ctx, "Could not open %s: %v", reports[0].Path, err)
		}
	}

	if copyPathFlag {
		target := app.Screenshots.Dir()
		if len(reports) > 0 {
			target = reports[0].Path
		}
		if err := clipboard.WriteAll(target); err != nil {
			app.Logger.Warn(ctx, "Could not copy to clipboard: %v", err)
		} else {
			fmt.Fprintf(out, "Copied %s to the clipboard\n", target)
		}
	}

	return nil
}

// wantReport decides whether to write the HTML report, asking only when a
// person is at the terminal
func wantReport() (bool, error) {
	switch {
	case reportFlag:
		return true, nil
	case noReportFlag:
		return false, nil
	case !isatty.IsTerminal(os.Stdin.Fd()) || !isatty.IsTerminal(os.Stdout.Fd()):
		return false, nil
	}
	return tui.RunConfirm("Create an HTML report of the results? (saved with the screenshots)", true)
}
