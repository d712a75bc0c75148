package main

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/straye-as/crm-analytics/internal/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeFlags_Filter(t *testing.T) {
	team := uuid.New()
	f := &scopeFlags{team: team.String(), from: "2026-01-01", to: "2026-01-31"}

	filter, err := f.filter()

	require.NoError(t, err)
	require.NotNil(t, filter.TeamID)
	assert.Equal(t, team, *filter.TeamID)
	assert.Nil(t, filter.AccountManagerID)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), *filter.CreatedFrom)
	assert.Equal(t, time.Date(2026, 1, 31, 23, 59, 59, 999999999, time.UTC), *filter.CreatedTo)
}

func TestScopeFlags_FilterErrors(t *testing.T) {
	for _, f := range []*scopeFlags{
		{manager: "bob"},
		{company: "123"},
		{from: "01/01/2026"},
		{to: "2026-02-30"},
	} {
		_, err := f.filter()
		assert.Error(t, err)
	}
}

func TestScopeFlags_Context(t *testing.T) {
	id := uuid.New()

	ctx, cancel, err := (&scopeFlags{tenant: id.String(), timeout: time.Minute}).context(context.Background())
	require.NoError(t, err)
	defer cancel()
	got, ok := tenant.FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, id, got)
	_, hasDeadline := ctx.Deadline()
	assert.True(t, hasDeadline)

	ctx, cancel, err = (&scopeFlags{timeout: time.Minute}).context(context.Background())
	require.NoError(t, err)
	defer cancel()
	_, ok = tenant.FromContext(ctx)
	assert.False(t, ok)

	_, _, err = (&scopeFlags{tenant: uuid.Nil.String()}).context(context.Background())
	assert.Error(t, err)
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"pipeline", "funnel", "forecast", "team", "proposals", "customer", "export", "refresh-health"} {
		assert.True(t, names[want], want)
	}
}
