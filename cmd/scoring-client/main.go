package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/scoring/internal/adapters/repository"
	"github.com/okian/scoring/internal/client"
	"github.com/okian/scoring/internal/config"
	"github.com/okian/scoring/pkg/logger"
)

var errSeedMemory = errors.New("seeding the memory backend has no effect; set SCORING_STORE_BACKEND")

// options holds the persistent flags shared by every command.
type options struct {
	cfg     client.Config
	json    bool
	verbose bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{cfg: client.DefaultConfig()}

	root := &cobra.Command{
		Use:           "scoring-client",
		Short:         "Client for the scoring API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			if err := logger.Init(logger.WithOutput(cmd.ErrOrStderr())); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return logger.SetLevelString(level)
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.cfg.BaseURL, "url", opts.cfg.BaseURL, "base URL of the service")
	pf.StringVar(&opts.cfg.Account, "account", opts.cfg.Account, "envelope account")
	pf.StringVar(&opts.cfg.Login, "login", opts.cfg.Login, "envelope login")
	pf.StringVar(&opts.cfg.Salt, "salt", opts.cfg.Salt, "user token salt")
	pf.StringVar(&opts.cfg.AdminLogin, "admin-login", opts.cfg.AdminLogin, "login treated as admin")
	pf.StringVar(&opts.cfg.AdminSalt, "admin-salt", opts.cfg.AdminSalt, "admin token salt")
	pf.DurationVar(&opts.cfg.Timeout, "timeout", opts.cfg.Timeout, "HTTP request timeout")
	pf.BoolVar(&opts.json, "json", false, "output JSON")
	pf.BoolVar(&opts.verbose, "verbose", false, "enable debug logging")

	root.AddCommand(
		tokenCmd(opts),
		scoreCmd(opts),
		interestsCmd(opts),
		seedCmd(opts),
		loadCmd(opts),
	)
	return root
}

func tokenCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Print the token the service expects for the caller",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), client.New(opts.cfg).Token())
			return err
		},
	}
}

func scoreCmd(opts *options) *cobra.Command {
	var (
		args   client.ScoreArgs
		gender int
	)
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Call online_score",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("gender") {
				args.Gender = &gender
			}
			_, reply, err := client.New(opts.cfg).Score(cmd.Context(), args)
			if reply == nil {
				return err
			}
			return printReply(cmd.OutOrStdout(), opts, reply, err)
		},
	}
	cmd.Flags().StringVar(&args.Phone, "phone", "", "phone, 11 digits starting with 7")
	cmd.Flags().StringVar(&args.Email, "email", "", "email")
	cmd.Flags().StringVar(&args.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&args.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&args.Birthday, "birthday", "", "birthday, DD.MM.YYYY")
	cmd.Flags().IntVar(&gender, "gender", 0, "gender: 0 unknown, 1 male, 2 female")
	return cmd
}

func interestsCmd(opts *options) *cobra.Command {
	var (
		ids  []int
		date string
	)
	cmd := &cobra.Command{
		Use:   "interests",
		Short: "Call clients_interests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, reply, err := client.New(opts.cfg).Interests(cmd.Context(), ids, date)
			if reply == nil {
				return err
			}
			if err != nil || opts.json {
				return printReply(cmd.OutOrStdout(), opts, reply, err)
			}
			client.RenderInterests(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	cmd.Flags().IntSliceVar(&ids, "ids", nil, "client ids")
	cmd.Flags().StringVar(&date, "date", "", "date, DD.MM.YYYY")
	_ = cmd.MarkFlagRequired("ids")
	return cmd
}

func seedCmd(opts *options) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write random interests for client ids 1..count into the configured store",
		Long: `Seed opens the durable store the service is configured with
(SCORING_CONFIG and SCORING_* variables) and writes two random interests
for every client id from 1 to --count.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			if cfg.StoreBackend == repository.BackendMemory {
				return errSeedMemory
			}
			backend, err := repository.Open(ctx, cfg.Backend())
			if err != nil {
				return err
			}
			store := repository.NewClient(backend,
				repository.WithPolicy(cfg.Policy()),
				repository.WithLogger(logger.Named("store")),
			)
			defer func() { _ = store.Close() }()

			seeded, err := client.Seed(ctx, store, count)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), seeded)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "seeded %d clients into %s\n", len(seeded), backend.Name())
			return err
		},
	}
	cmd.Flags().IntVar(&count, "count", 100, "number of clients to seed")
	return cmd
}

func loadCmd(opts *options) *cobra.Command {
	lc := client.DefaultLoadConfig()
	var duration time.Duration
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Fire concurrent signed calls and summarise response codes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}
			c := client.New(opts.cfg)
			if err := c.Health(ctx); err != nil {
				return err
			}
			stats, err := client.Load(ctx, c, lc)
			if stats == nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), stats)
			}
			client.RenderStats(cmd.OutOrStdout(), stats)
			return err
		},
	}
	cmd.Flags().IntVar(&lc.Requests, "requests", lc.Requests, "total number of calls")
	cmd.Flags().IntVar(&lc.Workers, "workers", lc.Workers, "concurrent workers")
	cmd.Flags().StringVar(&lc.Method, "method", "", "online_score, clients_interests or empty for a mix")
	cmd.Flags().IntVar(&lc.MaxID, "max-id", lc.MaxID, "highest client id requested")
	cmd.Flags().DurationVar(&duration, "duration", 0, "stop after this long")
	return cmd
}

func printReply(w io.Writer, opts *options, reply *client.Reply, callErr error) error {
	if opts.json {
		if err := printJSON(w, reply); err != nil {
			return err
		}
	} else {
		client.RenderReply(w, reply)
	}
	return callErr
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
