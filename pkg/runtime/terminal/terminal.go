// Package terminal is the command-line front end: it submits a requirement to
// a running advisor server and renders the outcome.
package terminal

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cloudforge/stack-advisor/pkg/models/api"
	"github.com/cloudforge/stack-advisor/pkg/models/domain"
)

// CLI represents the command-line interface
type CLI struct {
	reporter *Reporter
	output   io.Writer
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		reporter: NewReporter(opts.Output),
		output:   opts.Output,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "advise",
		Short: "Budget-aware cloud stack advisor",
	}

	cmd.AddCommand(cli.newOptimizeCmd())
	cmd.AddCommand(cli.newStatusCmd())

	return cmd
}

func (cli *CLI) newOptimizeCmd() *cobra.Command {
	var (
		serverURL string
		req       api.OptimizeRequest
		wait      bool
		interval  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Submit a requirement and optionally wait for the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			client := NewClient(serverURL)

			id, err := client.Submit(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cli.output, "submitted: %s\n", id)

			if !wait {
				return nil
			}

			status, err := client.Wait(ctx, id, interval, func(s string) {
				fmt.Fprintf(cli.output, "status: %s\n", s)
			})
			if err != nil {
				return err
			}
			return cli.reporter.Handle(status)
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "Advisor server base URL")
	cmd.Flags().StringVar(&req.ServiceKind, "kind", "", "What is being built (web, api, database, ml, ...)")
	cmd.Flags().StringVar(&req.ExpectedUsers, "users", "", "Expected user scale (e.g. \"around 5000\")")
	cmd.Flags().StringVar(&req.Performance, "performance", "", "Performance expectations")
	cmd.Flags().StringVar(&req.Notes, "notes", "", "Anything else the advisor should know")
	cmd.Flags().Float64Var(&req.Budget, "budget", 0, "Monthly budget in USD")
	cmd.Flags().StringVar(&req.Region, "region", "", "Target AWS region")
	cmd.Flags().BoolVar(&wait, "wait", true, "Poll until the optimization finishes")
	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "Polling interval")

	return cmd
}

func (cli *CLI) newStatusCmd() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "status <id>",
		Short: "Show the current state of a submitted optimization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := NewClient(serverURL)
			status, err := client.Status(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if status.Status == string(domain.StatusNotFound) {
				return fmt.Errorf("optimization %s not found", args[0])
			}
			return cli.reporter.Handle(status)
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "Advisor server base URL")

	return cmd
}
