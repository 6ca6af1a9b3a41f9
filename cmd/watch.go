package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/luma/eosc/client"
)

var (
	// Only print these events
	watchEvents []string
)

func init() {
	WatchCmd.Flags().StringSliceVarP(&watchEvents, "event", "e", nil, "Only print these events, e.g. cmd,active-cue")
}

var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print what the console reports, one JSON object per line",
	Args:  cobra.NoArgs,
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

		wanted := make(map[string]struct{}, len(watchEvents))
		for _, event := range watchEvents {
			wanted[event] = struct{}{}
		}

		out := cmd.OutOrStdout()

		for {
			select {
			case n := <-console.Notifications():
				if changed, ok := n.(client.ConnectionStateChanged); ok && changed.State == client.Disconnected {
					return client.ErrDisconnected
				}

				if _, ok := wanted[client.EventName(n)]; len(wanted) > 0 && !ok {
					continue
				}

				line, err := client.MarshalNotification(n)
				if err != nil {
					log.Warn("Failed to encode notification", zap.String("event", client.EventName(n)), zap.Error(err))
					continue
				}

				if _, err := fmt.Fprintln(out, string(line)); err != nil {
					return err
				}

			case <-ctx.Done():
				return nil
			}
		}
	},
}
