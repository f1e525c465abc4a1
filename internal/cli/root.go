// Package cli implements the coderunner command tree: one subcommand per
// code file operation, each printing the normalized result as JSON.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hamzaessahbaoui/coderunner-toolkit/internal/config"
	"github.com/hamzaessahbaoui/coderunner-toolkit/internal/logging"
	"github.com/hamzaessahbaoui/coderunner-toolkit/pkg/tools/coderunner"
)

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type globalFlags struct {
	configFile string
	baseURL    string
	logLevel   string
	timeout    time.Duration
}

func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "coderunner",
		Short:         "Read, execute, create, update and delete files on a code backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "config file (yaml, json or toml)")
	pf.StringVar(&flags.baseURL, "base-url", "", "backend base URL; requests go to {base-url}/code/{file} (env CODE_RUNNER_BASE_URL)")
	pf.StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error (env CODE_RUNNER_LOG_LEVEL)")
	pf.DurationVar(&flags.timeout, "timeout", 0, "overall request timeout, 0 disables (env CODE_RUNNER_TIMEOUT)")

	cmd.AddCommand(
		readCmd(flags),
		executeCmd(flags),
		createCmd(flags),
		updateCmd(flags),
		deleteCmd(flags),
	)
	return cmd
}

// runOperation resolves configuration, dispatches req and prints the result.
// A failed operation is still a printed result, not a command error.
func runOperation(cmd *cobra.Command, flags *globalFlags, req coderunner.OperationRequest) error {
	opts := []config.Option{
		config.WithOverride(config.KeyBaseURL, flags.baseURL),
		config.WithOverride(config.KeyLogLevel, flags.logLevel),
	}
	if flags.configFile != "" {
		opts = append(opts, config.WithFile(flags.configFile))
	}
	if cmd.Flags().Changed("timeout") {
		opts = append(opts, config.WithOverride(config.KeyTimeout, flags.timeout))
	}

	cfg, err := config.Load(opts...)
	if err != nil {
		return err
	}

	logger := logging.New(logging.WithWriter(cmd.ErrOrStderr()), logging.WithLevel(logging.ParseLevel(cfg.LogLevel)))
	logging.SetGlobal(logger)

	runner := coderunner.New(
		coderunner.WithHTTPClient(cfg.HTTPClient()),
		coderunner.WithLogger(logger),
	)
	logger.Debug().
		Str("operation", string(req.Operation)).
		Str("endpoint", coderunner.Endpoint(cfg.Runtime(), req.Filename)).
		Msg("dispatching")

	return printResult(cmd.OutOrStdout(), runner.Dispatch(cmd.Context(), req, cfg.Runtime()))
}
