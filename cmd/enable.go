package cmd

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

var enableCmd = &cobra.Command{
	Use:   "enable <source>",
	Short: "Re-enable a disabled source in a running serve instance",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		body, err := apiPost("/sources/" + url.PathEscape(args[0]) + "/enable")
		if err != nil {
			return err
		}
		fmt.Println(string(body))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(enableCmd)
}
