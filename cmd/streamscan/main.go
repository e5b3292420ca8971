package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spicery/streamscan/internal/logger"
	"go.uber.org/zap"
)

const (
	version = "0.1.0"

	defaultLogFormat = "console"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries the state shared by all subcommands.
type app struct {
	log       *zap.Logger
	logLevel  string
	logFormat string
}

func newRootCommand() *cobra.Command {
	a := &app{log: zap.NewNop()}

	rootCommand := &cobra.Command{
		Use:   "streamscan",
		Short: "Scan a byte stream for instruction patterns",
		Long: `streamscan - a one-pass pattern scanner

It reads each input once, byte by byte, and recognises the do(), don't() and
mul(a,b) instructions (or the patterns of a rules file), printing the sum of
the enabled products.`,
		Example: `  streamscan scan input.txt
  cat input.txt | streamscan scan
  streamscan scan --unconditional a.txt b.txt
  streamscan scan --rules custom.yaml input.txt
  streamscan make-rules > rules.yaml`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logger.New(a.logLevel, a.logFormat)
			if err != nil {
				return err
			}
			a.log = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	rootCommand.PersistentFlags().StringVar(&a.logLevel, "log-level", logger.DefaultLevel(), "Specifies logging level for output logs (\"panic\", \"fatal\", \"error\", \"warning\", \"info\", \"debug\")")
	rootCommand.PersistentFlags().StringVar(&a.logFormat, "log-format", defaultLogFormat, "Specifies logging format for output logs (\"console\", \"json\", \"minimal\")")

	rootCommand.AddCommand(newScanCommand(a))
	rootCommand.AddCommand(newMakeRulesCommand())
	rootCommand.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "streamscan version %s\n", version)
		},
	})
	return rootCommand
}
