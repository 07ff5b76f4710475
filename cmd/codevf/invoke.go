package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/codevf/codevf-go/internal/config"
	"github.com/codevf/codevf-go/pkg/codevf"
	"github.com/codevf/codevf-go/pkg/review"
)

func invokeCmd() *cobra.Command {
	var (
		projectID    int64
		maxCredits   int
		mode         string
		tagID        int64
		timeout      time.Duration
		pollInterval time.Duration
		apiKey       string
		baseURL      string
		attach       []string
	)

	cmd := &cobra.Command{
		Use:   "invoke <prompt>",
		Short: "Submit a review request and wait for completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			// Flags win over config file and environment.
			if cmd.Flags().Changed("project-id") {
				cfg.ProjectID = projectID
			}
			if cmd.Flags().Changed("max-credits") {
				cfg.MaxCredits = maxCredits
			}
			if cmd.Flags().Changed("mode") {
				cfg.Mode = mode
			}
			if cmd.Flags().Changed("tag-id") {
				cfg.TagID = &tagID
			}
			if cmd.Flags().Changed("api-key") {
				cfg.APIKey = apiKey
			}
			if cmd.Flags().Changed("base-url") {
				cfg.BaseURL = baseURL
			}

			opts := cfg.ReviewOptions()
			if cmd.Flags().Changed("timeout") {
				opts.Timeout = timeout
			}
			if cmd.Flags().Changed("poll-interval") {
				opts.PollInterval = pollInterval
			}

			client, err := codevf.New(cfg.ClientConfig())
			if err != nil {
				return err
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}))

			reviewer, err := review.New(client, opts)
			if err != nil {
				return err
			}
			reviewer = reviewer.WithLogger(logger)

			attachments, err := loadAttachments(attach)
			if err != nil {
				return err
			}

			task, err := reviewer.Review(cmd.Context(), review.Request{
				Prompt:      args[0],
				Attachments: attachments,
			})
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(review.Summarize(task), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().Int64Var(&projectID, "project-id", 0, "CodeVF project ID (defaults to config or "+config.EnvProjectID+")")
	cmd.Flags().IntVar(&maxCredits, "max-credits", 0, "Max credits for the task (defaults to config or "+config.EnvMaxCredits+")")
	cmd.Flags().StringVar(&mode, "mode", "", "Service mode, e.g. standard or fast")
	cmd.Flags().Int64Var(&tagID, "tag-id", 0, "Expertise tag ID (see `codevf tags`)")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 0, "Max time to wait for completion; negative waits forever")
	cmd.Flags().DurationVar(&pollInterval, "poll-interval", 0, "Delay between status checks")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key (defaults to "+codevf.EnvAPIKey+")")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "API base URL")
	cmd.Flags().StringArrayVarP(&attach, "attach", "a", nil, "File to attach (repeatable)")

	return cmd
}
