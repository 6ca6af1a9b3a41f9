package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/luma/eosc/internal/fakeconsole"
)

var (
	// Split messages with more arguments than this
	listChunk int

	// Log every message
	trace bool
)

func init() {
	flags := FakeCmd.Flags()

	flags.IntVar(&listChunk, "list-chunk", 0, "Split messages with more arguments than this into lists, 0 never splits")
	flags.BoolVar(&trace, "trace", false, "Log every message")
}

var FakeCmd = &cobra.Command{
	Use:   "fake",
	Short: "Run a stand in console with a small demo show",
	Long: `Run a stand in console with a small demo show

The fake console listens on --host and --port and answers show data
requests, command lines and cue, macro and sub fires.

Usage
	eosc fake --host 127.0.0.1 --port 3037
	eosc get group --host 127.0.0.1
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		conf, log, err := setup(cmd)
		if err != nil {
			return err
		}

		console := fakeconsole.New(fakeconsole.Options{
			Host:      conf.Host,
			Port:      conf.Port,
			ListChunk: listChunk,
			Trace:     trace,
			Log:       log.Named("fake"),
		})
		console.Add(fakeconsole.DemoShow()...)

		if err := console.Start(ctx); err != nil {
			return err
		}

		log.Info("Fake console listening", zap.Stringer("addr", console.Addr()))

		<-ctx.Done()

		log.Info("Shutting down")
		return console.Close()
	},
}
