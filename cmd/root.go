package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/luma/eosc/cmd/gen"
)

var (
	// Console connection, each falls back to its EOSC_ variable
	consoleHost    string
	consolePort    int
	requestTimeout time.Duration
	userID         int
	logLevel       string
)

var RootCmd = &cobra.Command{
	Use:   "eosc",
	Short: "Talk to ETC Eos family consoles over OSC",
	Long: `Talk to ETC Eos family consoles over OSC

eosc connects to the console's OSC over TCP port, reads show data,
types commands and follows what the console reports.`,
	SilenceUsage: true,
}

func init() {
	flags := RootCmd.PersistentFlags()

	flags.StringVarP(&consoleHost, "host", "a", "", "Console host (EOSC_HOST)")
	flags.IntVarP(&consolePort, "port", "p", 0, "Console OSC port (EOSC_PORT)")
	flags.DurationVar(&requestTimeout, "timeout", 0, "Time to wait for each response (EOSC_REQUEST_TIMEOUT)")
	flags.IntVar(&userID, "user", 0, "Console user to act as (EOSC_USER)")
	flags.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (EOSC_LOG_LEVEL)")

	RootCmd.AddCommand(
		VersionCmd,
		GetCmd,
		CountCmd,
		CommandCmd,
		SendCmd,
		WatchCmd,
		DumpCmd,
		BridgeCmd,
		FakeCmd,
		gen.RootCmd,
	)
}

// Execute runs the CLI until it finishes or is interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := RootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
