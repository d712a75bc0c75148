package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HealthRefreshService recomputes health score and churn risk for every
// visible company and stores them on the company record
type HealthRefreshService struct {
	customers *CustomerAnalyticsService
	writer    CompanyHealthWriter
	logger    *zap.Logger
}

func NewHealthRefreshService(customers *CustomerAnalyticsService, writer CompanyHealthWriter, logger *zap.Logger) *HealthRefreshService {
	return &HealthRefreshService{
		customers: customers,
		writer:    writer,
		logger:    logger,
	}
}

// RefreshAll refreshes each company in turn. A failing company is logged and
// counted; cancellation of ctx stops the run and is returned.
func (s *HealthRefreshService) RefreshAll(ctx context.Context) (refreshed int, failed int, err error) {
	ids, err := s.writer.ListCompanyIDs(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list companies: %w", err)
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return refreshed, failed, err
		}

		if err := s.refreshOne(ctx, id); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return refreshed, failed, err
			}
			failed++
			s.logger.Warn("failed to refresh company health",
				zap.String("company_id", id.String()),
				zap.Error(err),
			)
			continue
		}
		refreshed++
	}

	s.logger.Info("Company health refreshed",
		zap.Int("refreshed", refreshed),
		zap.Int("failed", failed),
	)
	return refreshed, failed, nil
}

func (s *HealthRefreshService) refreshOne(ctx context.Context, id uuid.UUID) error {
	health, err := s.customers.GetHealthScore(ctx, id)
	if err != nil {
		return err
	}
	risk, err := s.customers.GetRiskAssessment(ctx, id)
	if err != nil {
		return err
	}
	return s.writer.UpdateCompanyHealth(ctx, id, health.Score, risk.OverallRisk)
}
