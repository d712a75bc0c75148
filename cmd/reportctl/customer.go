package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/straye-as/crm-analytics/internal/mapper"
)

var customerView string

var customerCmd = &cobra.Command{
	Use:   "customer <company-id>",
	Short: "Customer analytics for one company",
	Long:  "Prints one customer view: 360 (default), health, risk, revenue or segments.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid company id %q: must be a uuid", args[0])
		}
		ctx, cancel, err := flags.context(cmd.Context())
		if err != nil {
			return err
		}
		defer cancel()

		var result interface{}
		switch customerView {
		case "360":
			v, err := env.customers.GetCustomer360View(ctx, id)
			if err != nil {
				return err
			}
			result = mapper.ToCustomer360DTO(v)
		case "health":
			h, err := env.customers.GetHealthScore(ctx, id)
			if err != nil {
				return err
			}
			result = mapper.ToHealthScoreDTO(h)
		case "risk":
			r, err := env.customers.GetRiskAssessment(ctx, id)
			if err != nil {
				return err
			}
			result = mapper.ToRiskAssessmentDTO(r)
		case "revenue":
			r, err := env.customers.GetRevenueAnalytics(ctx, id)
			if err != nil {
				return err
			}
			result = mapper.ToRevenueAnalyticsDTO(r)
		case "segments":
			s, err := env.customers.GetSegments(ctx, id)
			if err != nil {
				return err
			}
			result = mapper.ToCustomerSegmentDTOs(s)
		default:
			return fmt.Errorf("unknown --view %q: want 360, health, risk, revenue or segments", customerView)
		}
		return writeJSON(cmd.OutOrStdout(), result)
	},
}

func init() {
	customerCmd.Flags().StringVar(&customerView, "view", "360", "view to print: 360, health, risk, revenue, segments")
	rootCmd.AddCommand(customerCmd)
}
