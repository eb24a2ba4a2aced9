package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/connprobe/internal/app"
	"github.com/hamed0406/connprobe/internal/config"
	"github.com/hamed0406/connprobe/internal/domain"
	"github.com/hamed0406/connprobe/internal/probe"
)

var errProbeFailed = errors.New("one or more probes failed")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errProbeFailed) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "connprobe-cli",
		Short:         "Check connectivity to the configured PostgreSQL and Redis",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newProbeCmd())
	return root
}

func newProbeCmd() *cobra.Command {
	var (
		concurrent bool
		envFile    string
	)
	cmd := &cobra.Command{
		Use:       "probe [db|redis|all]",
		Short:     "Run diagnostic probes and print the results as JSON",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"db", "redis", "all"},
		RunE: func(cmd *cobra.Command, args []string) error {
			which := "all"
			if len(args) == 1 {
				which = args[0]
			}
			if err := config.LoadDotEnv(envFile); err != nil {
				return err
			}
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("concurrent") {
				cfg.ProbeConcurrent = concurrent
			}
			return runProbe(cmd.Context(), cmd, cfg, which)
		},
	}
	cmd.Flags().BoolVar(&concurrent, "concurrent", false, "run probes in parallel")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file to load if present")
	return cmd
}

func runProbe(ctx context.Context, cmd *cobra.Command, cfg config.Config, which string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	b := app.Open(ctx, cfg, zap.NewNop())
	defer b.Close()

	suite := probe.NewSuite(cfg.ProbeConcurrent)
	for _, be := range b.Suite.Backends() {
		if c, ok := b.Suite.Get(be); ok && selected(which, be) {
			suite.Add(be, c)
		}
	}
	out := suite.Run(ctx)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}
	for _, nr := range out {
		if !nr.Result.Success {
			return errProbeFailed
		}
	}
	return nil
}

func selected(which string, b domain.Backend) bool {
	switch which {
	case "db":
		return b == domain.BackendPostgres
	case "redis":
		return b == domain.BackendRedis
	}
	return true
}
