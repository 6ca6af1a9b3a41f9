package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/luma/eosc/client"
)

var (
	// Append to the command line instead of starting a new command
	appendCommand bool

	// How long to wait for the console to echo the command line
	echoWait time.Duration

	// Send every argument as a string
	sendStrings bool
)

func init() {
	CommandCmd.Flags().BoolVar(&appendCommand, "append", false, "Append to the command line instead of clearing it")
	CommandCmd.Flags().DurationVar(&echoWait, "echo", time.Second, "How long to wait for the command line echo, 0 skips it")

	SendCmd.Flags().BoolVar(&sendStrings, "strings", false, "Send every argument as a string")
}

var CommandCmd = &cobra.Command{
	Use:   "cmd <command> [substitution...]",
	Short: "Type on the command line",
	Long: `Type on the command line

Each %1, %2 ... in the command is replaced by the matching substitution.
Commands that should run need to end with Enter, or # as a shorthand.

Usage
	eosc cmd 'Chan %1 At %2 Enter' 5 50
`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, log, err := setup(cmd)
		if err != nil {
			return err
		}

		ctx := cmd.Context()

		console, err := connect(ctx, conf, log, nil)
		if err != nil {
			return err
		}
		defer disconnect(console, log)

		if err := console.ExecuteCommand(ctx, args[0], args[1:], !appendCommand); err != nil {
			return err
		}

		if echoWait <= 0 {
			return nil
		}

		timeout := time.NewTimer(echoWait)
		defer timeout.Stop()

		for {
			select {
			case n := <-console.Notifications():
				if line, ok := n.(client.CommandLine); ok {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), line.CommandLine)
					return err
				}

			case <-timeout.C:
				return nil

			case <-ctx.Done():
				return ctx.Err()
			}
		}
	},
}

var SendCmd = &cobra.Command{
	Use:   "send <address> [argument...]",
	Short: "Send a message in the /eos/ namespace",
	Long: `Send a message in the /eos/ namespace

Arguments that parse as integers are sent as int32, other numbers as
float32 and everything else as strings, unless --strings is set.

Usage
	eosc send /eos/key/go_0
	eosc send /eos/chan/1 50
`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, log, err := setup(cmd)
		if err != nil {
			return err
		}

		ctx := cmd.Context()

		console, err := connect(ctx, conf, log, nil)
		if err != nil {
			return err
		}
		defer disconnect(console, log)

		return console.SendMessage(ctx, args[0], parseArguments(args[1:], sendStrings)...)
	},
}

// parseArguments guesses the OSC type of command line arguments.
func parseArguments(args []string, asStrings bool) []interface{} {
	values := make([]interface{}, 0, len(args))

	for _, arg := range args {
		if asStrings {
			values = append(values, arg)
			continue
		}

		if i, err := strconv.ParseInt(arg, 10, 32); err == nil {
			values = append(values, int32(i))
		} else if f, err := strconv.ParseFloat(arg, 32); err == nil {
			values = append(values, float32(f))
		} else {
			values = append(values, arg)
		}
	}

	return values
}
