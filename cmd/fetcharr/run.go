package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/fetcharr/internal/archive"
	"github.com/vmunix/fetcharr/internal/config"
	"github.com/vmunix/fetcharr/internal/extract"
	"github.com/vmunix/fetcharr/internal/fetch"
	"github.com/vmunix/fetcharr/internal/history"
	"github.com/vmunix/fetcharr/internal/pipeline"
	"github.com/vmunix/fetcharr/internal/report"
	"github.com/vmunix/fetcharr/internal/workspace"
	"github.com/vmunix/fetcharr/pkg/asset"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Download every asset referenced by the input document",
	Long: `Extracts all URLs from the input JSON document, cleans the
category directories, downloads each asset in order, and prints a
summary. Afterward the downloads can be bundled into a timestamped
zip archive, which removes the category directories.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("input", "i", "", "Input JSON document (default from config)")
	runCmd.Flags().Bool("archive", false, "Archive the downloads without prompting")
	runCmd.Flags().Bool("no-archive", false, "Never archive, never prompt")
}

func runRun(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	archiveFlag, _ := cmd.Flags().GetBool("archive")
	noArchive, _ := cmd.Flags().GetBool("no-archive")

	cfg, err := config.LoadDiscovered(configPath)
	if err != nil {
		return err
	}
	if input == "" {
		input = cfg.Fetch.Input
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Workspace.LogLevel),
	}))

	urls, err := extract.FromFile(input)
	if err != nil {
		return err
	}
	refs := make([]asset.Ref, 0, len(urls))
	for _, u := range urls {
		refs = append(refs, asset.NewRef(u))
	}
	logger.Info("extracted urls", "input", input, "count", len(refs))

	// History is best effort: a broken database never blocks downloads.
	var recorder pipeline.Recorder
	store, db, err := history.Open(cfg.Database.Path)
	if err != nil {
		logger.Warn("history disabled", "error", err)
	} else {
		recorder = store
		defer func() { _ = db.Close() }()
	}

	ws := workspace.NewManager(cfg.Workspace.Root, logger)

	opts := []fetch.Option{
		fetch.WithClient(&http.Client{Timeout: cfg.Fetch.Timeout()}),
		fetch.WithUserAgent(cfg.Fetch.UserAgent),
		fetch.WithLogger(logger),
	}
	if !jsonOutput {
		opts = append(opts, fetch.WithProgress(renderProgress))
	}

	confirm := func(s report.Summary) bool {
		if !jsonOutput {
			s.Render(os.Stdout)
			if err := report.RenderListing(os.Stdout, ws); err != nil {
				logger.Warn("listing failed", "error", err)
			}
		}
		switch {
		case noArchive:
			return false
		case archiveFlag || cfg.Archive.Enabled:
			return true
		case jsonOutput:
			// No interactive prompt in machine-readable mode.
			return false
		}
		return promptYesNo("\nArchive downloads and remove the directories?")
	}

	p := pipeline.New(ws, fetch.New(opts...), archive.NewBuilder(archive.WithLogger(logger)),
		recorder, pipeline.Config{Delay: cfg.Fetch.Delay(), Confirm: confirm}, logger)

	result, err := p.Run(cmd.Context(), refs)
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(result.Summary)
	}
	if result.ArchiveErr != nil {
		fmt.Fprintf(os.Stderr, "Archive failed: %v (directories left intact)\n", result.ArchiveErr)
	} else if result.ArchivePath != "" {
		fmt.Printf("\nArchive created: %s\n", result.ArchivePath)
	}
	return nil
}

func renderProgress(received, total int64) {
	if total > 0 {
		fmt.Fprintf(os.Stderr, "\r  %s / %s (%d%%)",
			report.FormatBytes(received), report.FormatBytes(total), received*100/total)
		return
	}
	fmt.Fprintf(os.Stderr, "\r  %s", report.FormatBytes(received))
}

func promptYesNo(label string) bool {
	fmt.Printf("%s [y/N]: ", label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "y" || line == "yes"
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
