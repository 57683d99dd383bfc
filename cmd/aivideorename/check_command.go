package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"aivideorename/internal/deps"
	"aivideorename/internal/termstyle"
	"aivideorename/internal/services/llm"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var ping bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report external tools and vision model configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := termstyle.Enabled(out)

			for _, line := range renderSectionHeader("Tools", colorize) {
				fmt.Fprintln(out, line)
			}
			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			for _, status := range statuses {
				kind := statusOK
				message := status.Path
				if !status.Available {
					kind = statusError
					if status.Optional {
						kind = statusWarn
					}
					message = status.Detail
				}
				fmt.Fprintln(out, renderStatusLine(status.Name, kind, message, colorize))
			}

			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Vision model", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderStatusLine("Online", statusInfo, yesNo(cfg.Caption.Online), colorize))
			fmt.Fprintln(out, renderStatusLine("Model", statusInfo, cfg.LLM.Model, colorize))

			llmErr := cfg.ValidateOnline()
			switch {
			case llmErr != nil && cfg.Caption.Online:
				fmt.Fprintln(out, renderStatusLine("API key", statusError, llmErr.Error(), colorize))
			case llmErr != nil:
				fmt.Fprintln(out, renderStatusLine("API key", statusWarn, "not set", colorize))
			default:
				fmt.Fprintln(out, renderStatusLine("API key", statusOK, "set", colorize))
			}

			if ping && llmErr == nil {
				client := llm.NewClient(llm.Config{
					APIKey:         cfg.LLM.APIKey,
					BaseURL:        cfg.LLM.BaseURL,
					Model:          cfg.LLM.Model,
					Referer:        cfg.LLM.Referer,
					Title:          cfg.LLM.Title,
					TimeoutSeconds: cfg.LLM.TimeoutSeconds,
				}, llm.WithRetryMaxAttempts(1))
				pingCtx, cancel := context.WithTimeout(cmd.Context(), time.Duration(cfg.LLM.TimeoutSeconds)*time.Second)
				defer cancel()
				if err := client.HealthCheck(pingCtx); err != nil {
					fmt.Fprintln(out, renderStatusLine("Endpoint", statusError, err.Error(), colorize))
					llmErr = err
				} else {
					fmt.Fprintln(out, renderStatusLine("Endpoint", statusOK, "reachable", colorize))
				}
			}

			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				return fmt.Errorf("%d required tool(s) missing", len(missing))
			}
			if cfg.Caption.Online && llmErr != nil {
				return errors.New("online captioning is enabled but the vision model is not usable")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&ping, "ping", false, "Send a test request to the vision model endpoint")
	return cmd
}
