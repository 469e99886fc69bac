package commands

import (
	"scorpion-client/cmd/scorpion-cli/globals"
	"scorpion-client/cmd/scorpion-cli/utils"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(formCmd)
}

var formCmd = &cobra.Command{
	Use:   "form <abbreviation> <date>...",
	Short: "Print an empty measurement form for a service as json, ready to be filled in and sent.",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := globals.Get(cmd.Context()).Client

		service, err := client.Service(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		form, err := client.PrepareIndicatorForm(cmd.Context(), service, args[1:])
		if err != nil {
			return err
		}
		return utils.PrintJSON(form)
	},
}
