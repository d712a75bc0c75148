package jobs_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/straye-as/crm-analytics/internal/jobs"
	"github.com/straye-as/crm-analytics/internal/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	tenantA = uuid.MustParse("aaaaaaaa-0000-4000-8000-000000000001")
	tenantB = uuid.MustParse("bbbbbbbb-0000-4000-8000-000000000002")
)

// recordingArchiver remembers the tenant of each call and fails for listed tenants
type recordingArchiver struct {
	mu      sync.Mutex
	seen    []string
	failFor map[string]bool
}

func (a *recordingArchiver) ArchivePipelineReport(ctx context.Context, months int) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := tenant.String(ctx)
	a.seen = append(a.seen, id)
	if a.failFor[id] {
		return "", errors.New("upload failed")
	}
	return "reports/" + id + "/pipeline.xlsx", nil
}

type stubRefresher struct {
	calls []string
	err   error
}

func (r *stubRefresher) RefreshAll(ctx context.Context) (int, int, error) {
	r.calls = append(r.calls, tenant.String(ctx))
	return 2, 1, r.err
}

func TestScheduler_AddJob(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())

	require.NoError(t, s.AddJob("standard", "0 2 * * *", func() {}))
	require.NoError(t, s.AddJob("seconds", "30 0 2 * * *", func() {}))
	require.NoError(t, s.AddJob("descriptor", "@daily", func() {}))

	err := s.AddJob("standard", "0 3 * * *", func() {})
	assert.Error(t, err, "duplicate name")

	err = s.AddJob("broken", "not a cron", func() {})
	assert.Error(t, err)

	assert.Equal(t, []string{"descriptor", "seconds", "standard"}, s.GetJobNames())
}

func TestScheduler_RemoveJob(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())
	require.NoError(t, s.AddJob("export", "@hourly", func() {}))

	require.NoError(t, s.RemoveJob("export"))
	assert.Empty(t, s.GetJobNames())
	assert.Error(t, s.RemoveJob("export"))
}

func TestScheduler_RunsJobs(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())
	ran := make(chan struct{}, 1)
	require.NoError(t, s.AddJob("tick", "@every 1s", func() {
		select {
		case ran <- struct{}{}:
		default:
		}
	}))

	s.Start()
	defer func() { <-s.Stop().Done() }()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestReportExportJob_RunOnce(t *testing.T) {
	t.Run("unscoped without tenants", func(t *testing.T) {
		a := &recordingArchiver{}
		job := jobs.NewReportExportJob(a, nil, 12, zap.NewNop(), time.Minute)

		exported, failed := job.RunOnce(context.Background())

		assert.Equal(t, 1, exported)
		assert.Equal(t, 0, failed)
		assert.Equal(t, []string{""}, a.seen)
	})

	t.Run("per tenant and continues past failures", func(t *testing.T) {
		a := &recordingArchiver{failFor: map[string]bool{tenantA.String(): true}}
		job := jobs.NewReportExportJob(a, []uuid.UUID{tenantA, tenantB}, 12, zap.NewNop(), time.Minute)

		exported, failed := job.RunOnce(context.Background())

		assert.Equal(t, 1, exported)
		assert.Equal(t, 1, failed)
		assert.Equal(t, []string{tenantA.String(), tenantB.String()}, a.seen)
	})
}

func TestHealthRefreshJob_RunOnce(t *testing.T) {
	r := &stubRefresher{}
	job := jobs.NewHealthRefreshJob(r, []uuid.UUID{tenantA, tenantB}, zap.NewNop(), time.Minute)

	refreshed, failed := job.RunOnce(context.Background())

	assert.Equal(t, 4, refreshed)
	assert.Equal(t, 2, failed)
	assert.Equal(t, []string{tenantA.String(), tenantB.String()}, r.calls)
}

func TestHealthRefreshJob_StopsWhenCancelled(t *testing.T) {
	r := &stubRefresher{err: context.Canceled}
	job := jobs.NewHealthRefreshJob(r, []uuid.UUID{tenantA, tenantB}, zap.NewNop(), time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	job.RunOnce(ctx)

	assert.Len(t, r.calls, 1)
}

func TestParseTenantIDs(t *testing.T) {
	ids, err := jobs.ParseTenantIDs([]string{tenantA.String(), tenantB.String()})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{tenantA, tenantB}, ids)

	ids, err = jobs.ParseTenantIDs(nil)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = jobs.ParseTenantIDs([]string{"acme"})
	assert.Error(t, err)

	_, err = jobs.ParseTenantIDs([]string{uuid.Nil.String()})
	assert.Error(t, err)
}

func TestRegisterJobs(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())

	require.NoError(t, jobs.RegisterReportExportJob(s, &recordingArchiver{}, nil, 12, zap.NewNop(), "0 2 * * *", time.Minute))
	require.NoError(t, jobs.RegisterHealthRefreshJob(s, &stubRefresher{}, nil, zap.NewNop(), "0 3 * * *", time.Minute))

	assert.Equal(t, []string{jobs.HealthRefreshJobName, jobs.ReportExportJobName}, s.GetJobNames())
}
