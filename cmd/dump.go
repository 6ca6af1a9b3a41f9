package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/luma/eosc/client"
	"github.com/luma/eosc/records"
	"github.com/luma/eosc/storage"
)

var (
	// File to write the show data to
	dumpFile string
)

func init() {
	flags := DumpCmd.Flags()

	flags.StringVarP(&dumpFile, "out", "o", "", "File to write to, defaults to stdout")
	flags.StringVarP(&query, "query", "q", "", "gjson path to print instead of the whole document")
}

var DumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Read every record target into one JSON document",
	Long: `Read every record target into one JSON document

Record targets are keyed by type and number, cues by type, cue list and
number, and the patch is grouped by channel under "channel".

Usage
	eosc dump -o show.json
	eosc dump -q 'cue.1'
`,
	Args: cobra.NoArgs,
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

		store := storage.NewInmemoryStore()
		defer store.Close()

		if err := dumpShow(ctx, console, store, log); err != nil {
			return err
		}

		if dumpFile == "" {
			return writeDocument(ctx, cmd.OutOrStdout(), store, query)
		}

		file, err := os.Create(dumpFile)
		if err != nil {
			return err
		}

		if err := writeDocument(ctx, file, store, query); err != nil {
			file.Close()
			return err
		}

		log.Info("Wrote show data", zap.String("file", dumpFile))

		return file.Close()
	},
}

// dumpShow reads every record target of the show into store.
func dumpShow(ctx context.Context, console *client.Console, store storage.Store, log *zap.Logger) error {
	if err := store.Set(ctx, "console.version", console.Version()); err != nil {
		return err
	}

	for _, t := range records.TargetTypes {
		// Cues are read per list below, the patch as channels
		if t == records.TypeCue || t == records.TypePatch {
			continue
		}

		module, err := console.Records(t)
		if err != nil {
			return err
		}

		found, err := module.GetAll(ctx, progressLogger(log, string(t)))
		if err != nil {
			return err
		}

		for _, r := range found {
			if err := store.Set(ctx, storage.RecordKey(r), r); err != nil {
				return err
			}
		}

		if t != records.TypeCueList {
			continue
		}

		for _, list := range found {
			number := list.Base().TargetNumber

			cues, err := console.Cues.GetAll(ctx, number, progressLogger(log, fmt.Sprintf("cue list %s", number)))
			if err != nil {
				return err
			}

			for _, cue := range cues {
				if err := store.Set(ctx, storage.RecordKey(cue), cue); err != nil {
					return err
				}
			}
		}
	}

	channels, err := console.Channels.GetAll(ctx, progressLogger(log, "patch"))
	if err != nil {
		return err
	}

	for _, channel := range channels {
		if err := store.Set(ctx, storage.Key("channel", channel.TargetNumber.String()), channel); err != nil {
			return err
		}
	}

	return nil
}
