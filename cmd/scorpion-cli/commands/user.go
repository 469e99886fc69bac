package commands

import (
	"scorpion-client/cmd/scorpion-cli/globals"
	"scorpion-client/cmd/scorpion-cli/utils"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(userCmd)
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Show the user the api key belongs to.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := globals.Get(cmd.Context()).Client

		user, err := client.UserDetails(cmd.Context())
		if err != nil {
			return err
		}

		t := utils.NewTable()
		t.AppendRows([]table.Row{
			{"User", user.UserName},
			{"Email", user.Email},
			{"Admin", user.IsAdmin},
			{"Providers", strings.Join(user.Providers, ", ")},
		})
		t.Render()
		return nil
	},
}
