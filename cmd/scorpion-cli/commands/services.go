package commands

import (
	"errors"
	"fmt"
	"scorpion-client/cmd/scorpion-cli/globals"
	"scorpion-client/cmd/scorpion-cli/utils"
	"scorpion-client/lib/scorpion"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var listAll bool

func init() {
	servicesCmd.Flags().BoolVar(&listAll, "all", false, "List every service, not only the ones your providers subscribe to.")

	rootCmd.AddCommand(servicesCmd)
	rootCmd.AddCommand(serviceCmd)
}

func renderServices(services []scorpion.Service) {
	t := utils.NewTable()
	t.AppendHeader(table.Row{"Abbreviation", "Name", "Category", "Provider", "License", "Consortia"})
	for _, s := range services {
		t.AppendRow(table.Row{
			s.Abbreviation,
			s.Name,
			s.Category,
			s.Provider,
			utils.OrEmpty(s.License),
			strings.Join(s.Consortia, ", "),
		})
	}
	t.Render()
}

var servicesCmd = &cobra.Command{
	Use:   "services [--all]",
	Short: "List services.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := globals.Get(cmd.Context()).Client

		var services []scorpion.Service
		var err error
		if listAll {
			services, err = client.AllServices(cmd.Context())
		} else {
			services, err = client.Services(cmd.Context())
		}
		if err != nil {
			return err
		}

		renderServices(services)
		return nil
	},
}

var serviceCmd = &cobra.Command{
	Use:   "service <abbreviation>",
	Short: "Show a single service.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := globals.Get(cmd.Context()).Client
		abbreviation := args[0]

		service, err := client.Service(cmd.Context(), abbreviation)
		if errors.Is(err, scorpion.ErrEmptyResult) {
			all, listErr := client.AllServices(cmd.Context())
			if listErr != nil {
				return errors.Join(err, listErr)
			}
			abbreviations := make([]string, len(all))
			for i, s := range all {
				abbreviations[i] = s.Abbreviation
			}
			suggestions := utils.Suggest(abbreviation, abbreviations, 0.75, 3)
			if len(suggestions) == 0 {
				return fmt.Errorf("no service '%s'", abbreviation)
			}
			return fmt.Errorf("no service '%s', did you mean: %s", abbreviation, strings.Join(suggestions, ", "))
		}
		if err != nil {
			return err
		}

		renderServices([]scorpion.Service{service})
		return nil
	},
}
