package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/luma/eosc/client"
	"github.com/luma/eosc/protocol"
	"github.com/luma/eosc/records"
	"github.com/luma/eosc/storage"
)

var (
	ErrNotFound = errors.New("Record target does not exist")
)

var (
	// Cue list for cue lookups
	cueList float64

	// gjson query applied to the output
	query string
)

func init() {
	for _, c := range []*cobra.Command{GetCmd, CountCmd} {
		c.Flags().Float64VarP(&cueList, "list", "l", 1, "Cue list, for cues")
	}

	GetCmd.Flags().StringVarP(&query, "query", "q", "", "gjson path to print instead of the whole document")
}

var GetCmd = &cobra.Command{
	Use:   "get <type> [number]",
	Short: "Read record targets",
	Long: `Read record targets

Without a number every record target of the type is read. Types are the
console's names: patch, cuelist, cue, group, macro, sub, preset, ip, fp,
cp, bp, curve, fx, snap, pixmap and ms.

Usage
	eosc get group
	eosc get cue 2.5 --list 1
	eosc get group --query 'group.1.channels'
`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := records.ParseTargetType(args[0])
		if err != nil {
			return err
		}

		var number *protocol.TargetNumber
		if len(args) == 2 {
			n, err := protocol.ParseTargetNumber(args[1])
			if err != nil {
				return err
			}
			number = &n
		}

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

		found, err := fetchRecords(ctx, console, t, number, protocol.TargetNumber(cueList), log)
		if err != nil {
			return err
		}

		if number != nil && len(found) == 0 {
			return fmt.Errorf("%s %s: %w", t, number, ErrNotFound)
		}

		store := storage.NewInmemoryStore()
		defer store.Close()

		for _, r := range found {
			if err := store.Set(ctx, storage.RecordKey(r), r); err != nil {
				return err
			}
		}

		return writeDocument(ctx, cmd.OutOrStdout(), store, query)
	},
}

var CountCmd = &cobra.Command{
	Use:   "count <type>",
	Short: "Count record targets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := records.ParseTargetType(args[0])
		if err != nil {
			return err
		}

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

		var count int

		if t == records.TypeCue {
			count, err = console.Cues.Count(ctx, protocol.TargetNumber(cueList))
		} else {
			var module *client.AnyModule
			if module, err = console.Records(t); err == nil {
				count, err = module.Count(ctx)
			}
		}

		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), count)
		return err
	},
}

// fetchRecords reads record target number of type t, or all of them when
// number is nil.
func fetchRecords(
	ctx context.Context,
	console *client.Console,
	t records.TargetType,
	number *protocol.TargetNumber,
	list protocol.TargetNumber,
	log *zap.Logger,
) ([]records.RecordTarget, error) {
	found := make([]records.RecordTarget, 0)

	if t == records.TypeCue {
		if number != nil {
			cue, err := console.Cues.Get(ctx, list, *number)
			if err != nil || cue == nil {
				return found, err
			}

			return append(found, cue), nil
		}

		cues, err := console.Cues.GetAll(ctx, list, progressLogger(log, fmt.Sprintf("cue list %s", list)))
		if err != nil {
			return nil, err
		}

		for _, cue := range cues {
			found = append(found, cue)
		}

		return found, nil
	}

	module, err := console.Records(t)
	if err != nil {
		return nil, err
	}

	if number != nil {
		r, err := module.Get(ctx, *number)
		if err != nil || r == nil {
			return found, err
		}

		return append(found, r), nil
	}

	return module.GetAll(ctx, progressLogger(log, string(t)))
}
