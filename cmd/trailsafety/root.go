package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/yanqian/hiking-guide/internal/domain/safetyform"
	"github.com/yanqian/hiking-guide/internal/infra/config"
	"github.com/yanqian/hiking-guide/internal/infra/hikingapi"
	"github.com/yanqian/hiking-guide/pkg/logger"
)

type rootOptions struct {
	apiURL   string
	timeout  time.Duration
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "trailsafety",
		Short:         "Query trail safety recommendations from the hiking weather guide API",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&opts.apiURL, "api", "", "backend API origin (defaults to the configured API_URL)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "request timeout")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "error", "log level written to stderr")

	root.AddCommand(newTrailsCmd(opts), newAskCmd(opts))
	return root
}

func (o *rootOptions) newForm(cmd *cobra.Command) (*safetyform.Form, error) {
	base := o.apiURL
	formCfg := safetyform.Config{}
	if base == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		base = cfg.FormAPIBaseURL()
		formCfg.DefaultTrailID = cfg.Form.DefaultTrailID
		formCfg.DefaultDescription = cfg.Form.DefaultDescription
	}
	log := o.logger(cmd.ErrOrStderr())
	return safetyform.NewForm(formCfg, hikingapi.NewClient(base, o.timeout), log), nil
}

func (o *rootOptions) logger(w io.Writer) *slog.Logger {
	return logger.NewWithWriter(w, o.logLevel)
}

func newTrailsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "trails",
		Short: "List trails available for the selector",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form, err := opts.newForm(cmd)
			if err != nil {
				return err
			}
			form.Mount(cmd.Context())
			state := form.Snapshot()
			if state.TrailsError != "" {
				return errors.New(state.TrailsError)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME")
			for _, opt := range state.Trails {
				fmt.Fprintf(w, "%s\t%s\n", opt.Value, opt.Label)
			}
			return w.Flush()
		},
	}
}

func newAskCmd(opts *rootOptions) *cobra.Command {
	var (
		trailID string
		desc    string
	)
	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Ask for a safety recommendation for a described hike",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form, err := opts.newForm(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("trail") {
				form.SetTrailID(trailID)
			}
			if cmd.Flags().Changed("desc") {
				form.SetUserDesc(desc)
			}
			form.Submit(cmd.Context())

			state := form.Snapshot()
			if state.Error != "" {
				return errors.New(state.Error)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Safety score: %g / 100\n", state.Result.SafetyScore)
			fmt.Fprintf(out, "Recommendation: %s\n", state.Result.Recommendation)
			fmt.Fprintf(out, "Reasoning: %s\n", state.Result.Reasoning)
			return nil
		},
	}
	cmd.Flags().StringVar(&trailID, "trail", safetyform.DefaultTrailID, "trail id")
	cmd.Flags().StringVar(&desc, "desc", "", "free-text description of the planned hike")
	return cmd
}
