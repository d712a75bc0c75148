package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/straye-as/crm-analytics/internal/config"
	"github.com/straye-as/crm-analytics/internal/database"
	"github.com/straye-as/crm-analytics/internal/domain"
	"github.com/straye-as/crm-analytics/internal/logger"
	"github.com/straye-as/crm-analytics/internal/repository"
	"github.com/straye-as/crm-analytics/internal/service"
	"github.com/straye-as/crm-analytics/internal/tenant"
)

// app holds what the subcommands share once the root command has run
type app struct {
	cfg       *config.Config
	log       *zap.Logger
	db        *gorm.DB
	store     *repository.Store
	pipeline  *service.PipelineAnalyticsService
	customers *service.CustomerAnalyticsService
}

var (
	env   = &app{}
	flags = &scopeFlags{}
)

var rootCmd = &cobra.Command{
	Use:   "reportctl",
	Short: "Run CRM analytics from the command line",
	Long:  "Computes pipeline and customer analytics directly against the CRM database and prints them as JSON.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadWithSecrets(cmd.Context(), zap.NewNop())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		db, err := database.NewDatabase(&cfg.Database)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}

		env.cfg = cfg
		env.log = log
		env.db = db
		env.store = repository.NewStore(db)
		env.pipeline = service.NewPipelineAnalyticsService(env.store, cfg.Analytics, log)
		env.customers = service.NewCustomerAnalyticsService(env.store, cfg.Analytics, log)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if env.db != nil {
			if sqlDB, err := env.db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		if env.log != nil {
			_ = env.log.Sync()
		}
	},
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.tenant, "tenant", "", "tenant id to scope to (default: all tenants)")
	pf.StringVar(&flags.team, "team", "", "filter opportunities by team id")
	pf.StringVar(&flags.manager, "manager", "", "filter opportunities by account manager id")
	pf.StringVar(&flags.company, "company", "", "filter opportunities by company id")
	pf.StringVar(&flags.from, "from", "", "created on or after (YYYY-MM-DD)")
	pf.StringVar(&flags.to, "to", "", "created on or before (YYYY-MM-DD)")
	pf.DurationVar(&flags.timeout, "timeout", 2*time.Minute, "overall command timeout")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// scopeFlags are the tenant and filter flags shared by every subcommand
type scopeFlags struct {
	tenant  string
	team    string
	manager string
	company string
	from    string
	to      string
	timeout time.Duration
}

// context returns ctx bounded by the timeout and scoped to the tenant flag
func (f *scopeFlags) context(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if f.tenant != "" {
		id, err := uuid.Parse(f.tenant)
		if err != nil || id == uuid.Nil {
			return nil, nil, fmt.Errorf("invalid --tenant %q: must be a uuid", f.tenant)
		}
		ctx = tenant.WithTenantID(ctx, id)
	}
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	return ctx, cancel, nil
}

// filter converts the filter flags. The to date covers its whole day.
func (f *scopeFlags) filter() (*domain.OpportunityFilter, error) {
	out := &domain.OpportunityFilter{}
	for _, p := range []struct {
		name string
		raw  string
		dst  **uuid.UUID
	}{
		{"team", f.team, &out.TeamID},
		{"manager", f.manager, &out.AccountManagerID},
		{"company", f.company, &out.CompanyID},
	} {
		if p.raw == "" {
			continue
		}
		id, err := uuid.Parse(p.raw)
		if err != nil {
			return nil, fmt.Errorf("invalid --%s %q: must be a uuid", p.name, p.raw)
		}
		*p.dst = &id
	}
	if f.from != "" {
		t, err := time.Parse("2006-01-02", f.from)
		if err != nil {
			return nil, fmt.Errorf("invalid --from %q: %w", f.from, err)
		}
		out.CreatedFrom = &t
	}
	if f.to != "" {
		t, err := time.Parse("2006-01-02", f.to)
		if err != nil {
			return nil, fmt.Errorf("invalid --to %q: %w", f.to, err)
		}
		end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		out.CreatedTo = &end
	}
	return out, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
