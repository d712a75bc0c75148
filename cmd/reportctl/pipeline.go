package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/straye-as/crm-analytics/internal/domain"
	"github.com/straye-as/crm-analytics/internal/mapper"
)

var forecastMonths int

// pipelineCommand builds a subcommand that runs one filtered pipeline query
func pipelineCommand(use, short string, run func(ctx context.Context, f *domain.OpportunityFilter) (interface{}, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel, err := flags.context(cmd.Context())
			if err != nil {
				return err
			}
			defer cancel()

			f, err := flags.filter()
			if err != nil {
				return err
			}
			result, err := run(ctx, f)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
}

var pipelineCmd = pipelineCommand("pipeline", "Pipeline summary, stage distribution and velocity",
	func(ctx context.Context, f *domain.OpportunityFilter) (interface{}, error) {
		m, err := env.pipeline.GetPipelineMetrics(ctx, f)
		if err != nil {
			return nil, err
		}
		return mapper.ToPipelineMetricsDTO(m), nil
	})

var funnelCmd = pipelineCommand("funnel", "Stage conversion, drop-off and bottlenecks",
	func(ctx context.Context, f *domain.OpportunityFilter) (interface{}, error) {
		fa, err := env.pipeline.GetFunnelAnalysis(ctx, f)
		if err != nil {
			return nil, err
		}
		return mapper.ToFunnelAnalysisDTO(fa), nil
	})

var forecastCmd = pipelineCommand("forecast", "Monthly forecast of open opportunities",
	func(ctx context.Context, f *domain.OpportunityFilter) (interface{}, error) {
		sf, err := env.pipeline.GetSalesForecast(ctx, forecastMonths, f)
		if err != nil {
			return nil, err
		}
		return mapper.ToSalesForecastDTO(sf), nil
	})

var teamCmd = pipelineCommand("team", "Per account manager performance",
	func(ctx context.Context, f *domain.OpportunityFilter) (interface{}, error) {
		tp, err := env.pipeline.GetTeamPerformance(ctx, f)
		if err != nil {
			return nil, err
		}
		return mapper.ToTeamPerformanceDTO(tp), nil
	})

var proposalsCmd = pipelineCommand("proposals", "Proposal counts, acceptance and discounts",
	func(ctx context.Context, f *domain.OpportunityFilter) (interface{}, error) {
		pa, err := env.pipeline.GetProposalAnalytics(ctx, &domain.ProposalFilter{OpportunityFilter: *f})
		if err != nil {
			return nil, err
		}
		return mapper.ToProposalAnalyticsDTO(pa), nil
	})

func init() {
	forecastCmd.Flags().IntVar(&forecastMonths, "months", 3, "forecast window in months")
	rootCmd.AddCommand(pipelineCmd, funnelCmd, forecastCmd, teamCmd, proposalsCmd)
}
