package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/luma/eosc/internal/meta"
)

var (
	askConsole bool
)

func init() {
	VersionCmd.Flags().BoolVar(&askConsole, "console", false, "Also connect and report the console's software version")
}

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := sjson.SetBytes([]byte(`{}`), "build", meta.GetInfo())
		if err != nil {
			return err
		}

		if askConsole {
			conf, log, err := setup(cmd)
			if err != nil {
				return err
			}

			console, err := connect(cmd.Context(), conf, log, nil)
			if err != nil {
				return err
			}
			defer disconnect(console, log)

			if out, err = sjson.SetBytes(out, "console", console.Version()); err != nil {
				return err
			}
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return err
	},
}
