package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/straye-as/crm-analytics/internal/service"
	"github.com/straye-as/crm-analytics/internal/storage"
)

var (
	exportOut     string
	exportMonths  int
	exportArchive bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the pipeline report workbook",
	Long:  "Renders pipeline metrics, funnel, forecast and team performance into an XLSX workbook, either to --out or to report storage with --archive.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel, err := flags.context(cmd.Context())
		if err != nil {
			return err
		}
		defer cancel()

		store, err := storage.NewStorage(&env.cfg.Storage, env.log)
		if err != nil {
			return fmt.Errorf("init storage: %w", err)
		}
		reports := service.NewReportService(env.pipeline, store, env.log)

		if exportArchive {
			key, err := reports.ArchivePipelineReport(ctx, exportMonths)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		}

		if exportOut == "" {
			return fmt.Errorf("--out is required unless --archive is set")
		}
		f, err := flags.filter()
		if err != nil {
			return err
		}
		file, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportOut, err)
		}
		if err := reports.WritePipelineReport(ctx, file, exportMonths, f); err != nil {
			_ = file.Close()
			return err
		}
		if err := file.Close(); err != nil {
			return fmt.Errorf("close %s: %w", exportOut, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), exportOut)
		return nil
	},
}

var refreshHealthCmd = &cobra.Command{
	Use:   "refresh-health",
	Short: "Recompute stored health score and churn risk for every company",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel, err := flags.context(cmd.Context())
		if err != nil {
			return err
		}
		defer cancel()

		refreshed, failed, err := service.NewHealthRefreshService(env.customers, env.store, env.log).RefreshAll(ctx)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), map[string]int{"refreshed": refreshed, "failed": failed})
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "workbook path to write")
	exportCmd.Flags().IntVar(&exportMonths, "months", 12, "forecast window in months")
	exportCmd.Flags().BoolVar(&exportArchive, "archive", false, "store in report storage under today's key instead of --out")
	rootCmd.AddCommand(exportCmd, refreshHealthCmd)
}
