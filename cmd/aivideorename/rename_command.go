package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"aivideorename/internal/caption"
	"aivideorename/internal/captioner"
	"aivideorename/internal/config"
	"aivideorename/internal/logging"
	"aivideorename/internal/metadata"
	"aivideorename/internal/renamer"
	"aivideorename/internal/runlock"
	"aivideorename/internal/scan"
	"aivideorename/internal/services/llm"
)

// errFilesFailed signals a non-zero exit after failures were already reported.
var errFilesFailed = errors.New("one or more files failed")

type renameFlags struct {
	recursive bool
	dryRun    bool
	confirm   bool
	online    bool
}

// resolve merges command-line flags over configuration defaults.
func (f renameFlags) resolve(cmd *cobra.Command, cfg *config.Config) renameFlags {
	out := f
	if !cmd.Flags().Changed("recursive") {
		out.recursive = cfg.Rename.Recursive
	}
	if !cmd.Flags().Changed("confirm") {
		out.confirm = cfg.Rename.Confirm
	}
	if !cmd.Flags().Changed("online") {
		out.online = cfg.Caption.Online
	}
	return out
}

func runRename(cmd *cobra.Command, cmdCtx *commandContext, flags renameFlags, target string) error {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return err
	}
	flags = flags.resolve(cmd, cfg)

	ctx, logger, err := cmdCtx.runLogger(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	runLog := logging.WithContext(ctx, logging.NewComponentLogger(logger, "cli"))

	info, err := os.Stat(target)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("path not found: %s", target)
		}
		return fmt.Errorf("stat %s: %w", target, err)
	}
	if !info.IsDir() && !scan.IsMediaFile(target, cfg.Rename.Extensions) {
		return fmt.Errorf("not a video file: %s", target)
	}

	if !flags.dryRun {
		lock, err := runlock.Acquire(cfg.LockPath())
		if err != nil {
			return err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				runLog.Warn("failed to release run lock", logging.Error(err))
			}
		}()
	}

	provider, err := buildCaptioner(cfg, flags.online, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	reporter := renamer.NewTextReporter(out, cmd.ErrOrStderr())
	r := renamer.New(
		metadata.NewProbeDateProvider(cfg.Date.FFprobeBinary,
			metadata.WithFallbackMtime(cfg.Date.FallbackMtime),
			metadata.WithLogger(logger),
		),
		provider,
		caption.NewNormalizer(
			caption.WithStopWords(cfg.Rename.StopWords),
			caption.WithSentinel(cfg.Rename.SentinelCaption),
			caption.WithMaxWords(cfg.Rename.MaxCaptionWords),
		),
		renamer.Options{
			DryRun:         flags.dryRun,
			Confirm:        flags.confirm,
			DateTimeout:    cfg.DateTimeout(),
			CaptionTimeout: cfg.CaptionTimeout(),
		},
		renamer.WithConfirmer(renamer.NewPromptConfirmer(cmd.InOrStdin(), out)),
		renamer.WithReporter(reporter),
		renamer.WithLogger(logger),
	)

	runLog.Debug("run started",
		logging.String("path", target),
		logging.Bool("dry_run", flags.dryRun),
		logging.Bool("confirm", flags.confirm),
		logging.Bool("online", flags.online),
		logging.String("config", cmdCtx.configPath),
	)

	if !info.IsDir() {
		result := r.ProcessFile(ctx, target)
		if result.Outcome.Failed() {
			return errFilesFailed
		}
		return nil
	}

	files, err := scan.Discover(target, scan.Options{Extensions: cfg.Rename.Extensions, Recursive: flags.recursive})
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintf(out, "No video files found in %s\n", target)
		return nil
	}
	fmt.Fprintf(out, "Found %d video file(s)\n\n", len(files))

	reporter.Spaced = true
	summary := r.ProcessBatch(ctx, files)

	fmt.Fprintln(out, strings.Repeat("=", 50))
	reporter.WriteTotals(summary)
	writeSummaryTable(out, summary)

	runLog.Debug("run finished",
		logging.Int("processed", summary.Total()),
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("failed", summary.Failed),
	)

	if skipped := len(files) - summary.Total(); skipped > 0 && ctx.Err() != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Interrupted: %d file(s) not processed\n", skipped)
		return context.Canceled
	}
	if summary.Failed > 0 {
		return errFilesFailed
	}
	return nil
}

func buildCaptioner(cfg *config.Config, online bool, logger *slog.Logger) (captioner.Provider, error) {
	if !online {
		return captioner.NewFilenameCaptioner(), nil
	}
	if err := cfg.ValidateOnline(); err != nil {
		return nil, err
	}
	client := llm.NewClient(llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		Referer:        cfg.LLM.Referer,
		Title:          cfg.LLM.Title,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	})
	return captioner.NewVisionCaptioner(client,
		captioner.WithFFmpegBinary(cfg.Caption.FFmpegBinary),
		captioner.WithFrameOffset(cfg.FrameOffset()),
		captioner.WithVisionLogger(logger),
	), nil
}

func writeSummaryTable(out io.Writer, summary renamer.Summary) {
	rows := make([][]string, 0, len(renamer.Outcomes()))
	for _, outcome := range renamer.Outcomes() {
		count := summary.Count(outcome)
		if count == 0 {
			continue
		}
		rows = append(rows, []string{outcomeLabel(outcome), strconv.Itoa(count)})
	}
	if len(rows) == 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderTable([]string{"Outcome", "Files"}, rows, []columnAlignment{alignLeft, alignRight}))
}

func outcomeLabel(outcome renamer.Outcome) string {
	switch outcome {
	case renamer.Renamed:
		return "Renamed"
	case renamer.WouldRename:
		return "Would rename"
	case renamer.SkippedAlreadyCanonical:
		return "Already renamed"
	case renamer.SkippedUserDeclined:
		return "Declined"
	case renamer.FailedMissingDate:
		return "No capture date"
	case renamer.FailedMissingCaption:
		return "No caption"
	case renamer.FailedTargetExists:
		return "Target exists"
	case renamer.FailedFilesystemError:
		return "Rename error"
	default:
		return outcome.String()
	}
}
