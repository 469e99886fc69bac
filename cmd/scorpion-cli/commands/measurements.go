package commands

import (
	"fmt"
	"log/slog"
	"os"
	"scorpion-client/cmd/scorpion-cli/globals"
	"scorpion-client/cmd/scorpion-cli/utils"
	"scorpion-client/lib/scorpion"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/titanous/json5"
)

var (
	measurementsFrom      string
	measurementsTo        string
	measurementsIndicator string
)

func init() {
	getMeasurementsCmd.Flags().StringVar(&measurementsFrom, "from", "", "The first date (YYYY-MM-DD) to fetch.")
	getMeasurementsCmd.Flags().StringVar(&measurementsTo, "to", "", "The last date (YYYY-MM-DD) to fetch.")
	getMeasurementsCmd.Flags().StringVar(&measurementsIndicator, "indicator", "", "Only fetch measurements of this indicator.")
	getMeasurementsCmd.MarkFlagRequired("from")
	getMeasurementsCmd.MarkFlagRequired("to")

	measurementsCmd.AddCommand(getMeasurementsCmd)
	measurementsCmd.AddCommand(sendMeasurementsCmd)
	rootCmd.AddCommand(measurementsCmd)
}

var measurementsCmd = &cobra.Command{
	Use:   "measurements",
	Short: "Read and submit measurements.",
}

var getMeasurementsCmd = &cobra.Command{
	Use:   "get <abbreviation> --from <date> --to <date> [--indicator <name>]",
	Short: "List the measurements of a service in a date range.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := globals.Get(cmd.Context()).Client

		var indicator *string
		if cmd.Flags().Changed("indicator") {
			indicator = &measurementsIndicator
		}

		values, err := client.Measurements(cmd.Context(), args[0], indicator, measurementsFrom, measurementsTo)
		if err != nil {
			return err
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"Date", "Indicator", "Value"})
		for _, v := range values {
			t.AppendRow(table.Row{v.Date, v.Kpi, utils.OrEmpty(v.Value)})
		}
		t.Render()
		return nil
	},
}

// ReadForm reads a measurement form as written by the form command, in
// json or json5.
func ReadForm(path string) ([]scorpion.IndicatorValue, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var form []scorpion.IndicatorValue
	err = json5.Unmarshal(contents, &form)
	if err != nil {
		return nil, fmt.Errorf("failed to parse form '%s': %w", path, err)
	}
	return form, nil
}

var sendMeasurementsCmd = &cobra.Command{
	Use:   "send <abbreviation> <form.json5>",
	Short: "Submit a filled in measurement form.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := globals.Get(cmd.Context()).Client

		form, err := ReadForm(args[1])
		if err != nil {
			return err
		}
		err = client.SendMeasurements(cmd.Context(), args[0], form)
		if err != nil {
			return err
		}
		slog.Info("sent measurements", "service", args[0], "count", len(form))
		return nil
	},
}
