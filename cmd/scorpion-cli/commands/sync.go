package commands

import (
	"log/slog"
	"scorpion-client/cmd/scorpion-cli/globals"
	"scorpion-client/cmd/scorpion-cli/utils"
	"scorpion-client/lib/scorpion"

	"github.com/spf13/cobra"
)

var (
	syncDate   string
	syncDryRun bool
)

func init() {
	syncCmd.Flags().StringVar(&syncDate, "date", "", "The date (YYYY-MM-DD) to record the measurements on.")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Print the filled in form instead of sending it.")
	syncCmd.MarkFlagRequired("date")

	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync <matomo|nocodb|dimensions> <abbreviation> --date <date> [--dry-run]",
	Short: "Pull measurements from a data source and submit them for a service.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		g := globals.Get(ctx)

		source, extract, err := g.Config.Source(args[0], syncDate, g.Dump)
		if err != nil {
			return err
		}

		result, err := source.Run(ctx, extract)
		if err != nil {
			return err
		}
		slog.Debug("transformed", "source", source.Name(), "result", result)

		service, err := g.Client.Service(ctx, args[1])
		if err != nil {
			return err
		}
		form, err := g.Client.PrepareIndicatorForm(ctx, service, []string{syncDate})
		if err != nil {
			return err
		}

		filled, unmatched, err := scorpion.FillForm(form, result)
		if err != nil {
			return err
		}
		for _, kpi := range unmatched {
			slog.Warn("value matches no indicator of the service", "source", source.Name(), "kpi", kpi)
		}

		if syncDryRun {
			return utils.PrintJSON(filled)
		}

		err = g.Client.SendMeasurements(ctx, service.Abbreviation, filled)
		if err != nil {
			return err
		}
		slog.Info("synced measurements", "source", source.Name(), "service", service.Abbreviation, "date", syncDate)
		return nil
	},
}
