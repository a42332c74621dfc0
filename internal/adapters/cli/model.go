package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devbush/vidtrans/internal/adapters/cli/tui"
	"github.com/devbush/vidtrans/internal/config"
)

// NewModelCmd creates the model subcommand
func NewModelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Manage Whisper models",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available models",
		RunE:  runModelList,
	}

	downloadCmd := &cobra.Command{
		Use:   "download <model>",
		Short: "Download a model",
		Args:  cobra.ExactArgs(1),
		RunE:  runModelDownload,
	}

	removeCmd := &cobra.Command{
		Use:   "remove <model>",
		Short: "Remove a downloaded model",
		Args:  cobra.ExactArgs(1),
		RunE:  runModelRemove,
	}

	useCmd := &cobra.Command{
		Use:   "use <model>",
		Short: "Set the default model in the config file",
		Args:  cobra.ExactArgs(1),
		RunE:  runModelUse,
	}

	cmd.AddCommand(listCmd, downloadCmd, removeCmd, useCmd)
	return cmd
}

func runModelList(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %-10s %-12s %s\n", "Model", "Size", "Status")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 40))

	for _, m := range app.Transcriber.AvailableModels() {
		status := "not downloaded"
		if m.Downloaded {
			status = "downloaded"
		}
		if m.Name == app.Config.Whisper.Model {
			status += " (default)"
		}
		fmt.Fprintf(out, "  %-10s %-12s %s\n", m.Name, tui.FormatSize(m.Size), status)
	}
	fmt.Fprintln(out)

	return nil
}

func runModelDownload(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	model := args[0]

	if app.Transcriber.IsModelDownloaded(model) {
		fmt.Fprintf(out, "Model '%s' is already downloaded\n", model)
		return nil
	}

	progress := tui.NewProgressDisplay(out, []string{fmt.Sprintf("Downloading model '%s'", model)}, quietFlag)
	progress.StartStep(0)
	err = app.Transcriber.DownloadModel(cmd.Context(), model, func(downloaded, total int64) {
		progress.UpdateProgress(0, downloaded, total)
	})
	if err != nil {
		progress.FailStep(0, err.Error())
		return err
	}
	progress.CompleteStep(0)

	return nil
}

func runModelRemove(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	model := args[0]

	if !app.Transcriber.IsModelDownloaded(model) {
		fmt.Fprintf(out, "Model '%s' is not downloaded\n", model)
		return nil
	}

	if err := app.Transcriber.DeleteModel(model); err != nil {
		return err
	}

	fmt.Fprintf(out, "Model '%s' removed\n", model)
	return nil
}

func runModelUse(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}
	model := args[0]

	known := false
	for _, m := range app.Transcriber.AvailableModels() {
		if m.Name == model {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown model %q (see 'vidtrans model list')", model)
	}

	// Save the file contents, not the flag-overridden runtime config
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return err
	}
	cfg.Whisper.Model = model
	if err := cfg.SaveDefault(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Default model set to '%s'\n", model)
	return nil
}
