package commands

import (
	"scorpion-client/cmd/scorpion-cli/globals"
	"scorpion-client/cmd/scorpion-cli/utils"
	"scorpion-client/lib/scorpion"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	indicatorService  string
	indicatorCategory string
)

func init() {
	indicatorsCmd.Flags().StringVar(&indicatorService, "service", "", "The abbreviation of the service to list indicators for.")
	indicatorsCmd.Flags().StringVar(&indicatorCategory, "category", "", "The category to list indicators for.")
	indicatorsCmd.MarkFlagsMutuallyExclusive("service", "category")
	indicatorsCmd.MarkFlagsOneRequired("service", "category")

	rootCmd.AddCommand(indicatorsCmd)
}

var indicatorsCmd = &cobra.Command{
	Use:   "indicators --service <abbreviation> | --category <name>",
	Short: "List the indicators of a service or of a category.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := globals.Get(cmd.Context()).Client

		var indicators []scorpion.Indicator
		if indicatorService != "" {
			service, err := client.Service(cmd.Context(), indicatorService)
			if err != nil {
				return err
			}
			indicators, err = client.ServiceIndicators(cmd.Context(), service)
			if err != nil {
				return err
			}
		} else {
			var err error
			indicators, err = client.CategoryIndicators(cmd.Context(), indicatorCategory)
			if err != nil {
				return err
			}
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"Name", "Necessity", "Description"})
		for _, i := range indicators {
			t.AppendRow(table.Row{i.Name, i.Necessity, i.Description})
		}
		t.Render()
		return nil
	},
}
