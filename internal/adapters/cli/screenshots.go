package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devbush/vidtrans/internal/adapters/cli/tui"
)

var clearYesFlag bool

// NewScreenshotsCmd creates the screenshots subcommand
func NewScreenshotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "screenshots",
		Short: "Show or clear generated screenshots and reports",
		RunE:  runScreenshotsStatus,
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete generated screenshots and reports",
		RunE:  runScreenshotsClear,
	}
	clearCmd.Flags().BoolVarP(&clearYesFlag, "yes", "y", false, "Do not ask for confirmation")

	cmd.AddCommand(clearCmd)

	return cmd
}

func runScreenshotsStatus(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	stats, err := app.ScreenshotSvc.Stats(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Screenshots:")
	fmt.Fprintf(out, "  Directory: %s\n", stats.Dir)
	fmt.Fprintf(out, "  Images:    %s\n", tui.FormatCount(int64(stats.ItemCount)))
	fmt.Fprintf(out, "  Size:      %s\n", tui.FormatSize(stats.TotalSize))
	fmt.Fprintln(out)

	return nil
}

func runScreenshotsClear(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	if !clearYesFlag {
		ok, err := tui.RunConfirm(fmt.Sprintf("Delete generated files in %s?", app.Screenshots.Dir()), false)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
			return nil
		}
	}

	removed, err := app.ScreenshotSvc.Clear(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d files\n", removed)
	return nil
}
