package commands

import (
	"context"
	"fmt"
	"log/slog"
	"scorpion-client/cmd/scorpion-cli/globals"
	"scorpion-client/lib/configutil"
	"scorpion-client/lib/restyutil"
	"scorpion-client/lib/scorpion"
	"scorpion-client/lib/telemetry"
	"scorpion-client/lib/util/serviceutil"
	"time"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	tel        telemetry.Telemetry
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "scorpion.json5", "The config file, searched for upwards from the working directory.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug messages.")
}

var rootCmd = &cobra.Command{
	Use:           "scorpion-cli",
	Short:         "scorpion-cli is a CLI for reading and submitting measurements to Scorpion.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(verbose)

		cfg, err := configutil.ReadRecursively[globals.Config](configPath)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		tel, err = telemetry.Setup(cmd.Context(), "scorpion-cli", cfg.Telemetry)
		if err != nil {
			return fmt.Errorf("failed to setup telemetry: %w", err)
		}

		client, err := scorpion.NewClient(cfg.BaseUrl, cfg.ApiKey)
		if err != nil {
			return err
		}

		value := &globals.Value{Client: client, Config: cfg}
		if cfg.DumpDir != "" {
			out, err := restyutil.NewFilesystemOutput(cfg.DumpDir)
			if err != nil {
				return fmt.Errorf("failed to create dump dir: %w", err)
			}
			client.SetDumpOutput(out)
			value.Dump = out
			slog.Debug("dumping http exchanges", "dir", cfg.DumpDir)
		}

		cmd.SetContext(globals.Set(cmd.Context(), value))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		err := tel.Shutdown(ctx)
		if err != nil {
			slog.Warn("failed to flush telemetry", "err", err)
		}
	},
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		serviceutil.Fatal("command failed", err)
	}
}
