package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/bidgoat/bidgoat/internal/store"
	"github.com/bidgoat/bidgoat/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRun(id string, created time.Time) *store.Run {
	return &store.Run{
		ID:        id,
		Input:     "ab_testing.xlsx",
		Metric:    "Purchase",
		Alpha:     0.05,
		Selected:  "student",
		Statistic: -0.9416,
		PValue:    0.3493,
		Rejected:  false,
		Report:    []byte(`{"metric":"Purchase"}`),
		CreatedAt: created,
	}
}

func sampleChecks() []store.Check {
	return []store.Check{
		{Stage: "normality", Subject: "control group(max bidding)", Name: "Shapiro-Wilk", Hypothesis: "H0: normality assumption is met", Statistic: 0.9773, PValue: 0.5891},
		{Stage: "normality", Subject: "test group(avg bidding)", Name: "Shapiro-Wilk", Hypothesis: "H0: normality assumption is met", Statistic: 0.9589, PValue: 0.1541},
		{Stage: "homogeneity", Name: "Levene", Hypothesis: "H0: variances are homogeneous", Statistic: 2.6393, PValue: 0.1083},
		{Stage: "hypothesis", Subject: "Purchase", Name: "Independent two-sample t-test (equal variances)", Hypothesis: "H0: M1 = M2 (M = mean)", Statistic: -0.9416, PValue: 0.3493},
	}
}

func TestOpen(t *testing.T) {
	s := testutil.SetupTestStore(t)
	require.NotNil(t, s)
}

func TestSaveAndGetRun(t *testing.T) {
	s := testutil.SetupTestStore(t)
	ctx := context.Background()

	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	run := sampleRun("5f0c2b7e-8d1a-4c3e-9f6b-2a7d4e1c0b93", created)
	require.NoError(t, s.SaveRun(ctx, run, sampleChecks()))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)

	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "Purchase", got.Metric)
	assert.Equal(t, "student", got.Selected)
	assert.InDelta(t, 0.3493, got.PValue, 1e-12)
	assert.False(t, got.Rejected)
	assert.JSONEq(t, `{"metric":"Purchase"}`, string(got.Report))
	assert.Equal(t, created.Unix(), got.CreatedAt.Unix())
}

func TestGetRun_Prefix(t *testing.T) {
	s := testutil.SetupTestStore(t)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, s.SaveRun(ctx, sampleRun("ab12c3d4-0000-4000-8000-000000000001", now), nil))
	require.NoError(t, s.SaveRun(ctx, sampleRun("ab12ffff-0000-4000-8000-000000000002", now), nil))

	got, err := s.GetRun(ctx, "ab12c")
	require.NoError(t, err)
	assert.Equal(t, "ab12c3d4-0000-4000-8000-000000000001", got.ID)

	_, err = s.GetRun(ctx, "ab12")
	assert.ErrorIs(t, err, store.ErrAmbiguous)

	_, err = s.GetRun(ctx, "ffff")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.GetRun(ctx, "")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetRun_PrefixIsLiteral(t *testing.T) {
	s := testutil.SetupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRun(ctx, sampleRun("ab12c3d4-0000-4000-8000-000000000001", time.Now()), nil))

	_, err := s.GetRun(ctx, "ab%")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSaveRun_DuplicateID(t *testing.T) {
	s := testutil.SetupTestStore(t)
	ctx := context.Background()

	run := sampleRun("5f0c2b7e-8d1a-4c3e-9f6b-2a7d4e1c0b93", time.Now())
	require.NoError(t, s.SaveRun(ctx, run, sampleChecks()))
	assert.Error(t, s.SaveRun(ctx, run, sampleChecks()))

	// The failed save must not leave extra checks behind.
	checks, err := s.GetChecks(ctx, run.ID)
	require.NoError(t, err)
	assert.Len(t, checks, 4)
}

func TestListRuns_NewestFirst(t *testing.T) {
	s := testutil.SetupTestStore(t)
	ctx := context.Background()

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveRun(ctx, sampleRun("run-a", base), nil))
	require.NoError(t, s.SaveRun(ctx, sampleRun("run-b", base.Add(time.Hour)), nil))
	require.NoError(t, s.SaveRun(ctx, sampleRun("run-c", base.Add(30*time.Minute)), nil))

	runs, err = s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-b", runs[0].ID)
	assert.Equal(t, "run-c", runs[1].ID)
	assert.Equal(t, "run-a", runs[2].ID)
}

func TestGetChecks(t *testing.T) {
	s := testutil.SetupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRun(ctx, sampleRun("run-a", time.Now()), sampleChecks()))
	require.NoError(t, s.SaveRun(ctx, sampleRun("run-b", time.Now()), sampleChecks()[:2]))

	checks, err := s.GetChecks(ctx, "run-a")
	require.NoError(t, err)
	require.Len(t, checks, 4)
	assert.Equal(t, "normality", checks[0].Stage)
	assert.Equal(t, "control group(max bidding)", checks[0].Subject)
	assert.Equal(t, "hypothesis", checks[3].Stage)
	assert.Equal(t, "run-a", checks[3].RunID)
	assert.InDelta(t, -0.9416, checks[3].Statistic, 1e-12)

	all, err := s.GetChecks(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

func TestDeleteRun(t *testing.T) {
	s := testutil.SetupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRun(ctx, sampleRun("run-a", time.Now()), sampleChecks()))
	require.NoError(t, s.DeleteRun(ctx, "run-a"))

	_, err := s.GetRun(ctx, "run-a")
	assert.ErrorIs(t, err, store.ErrNotFound)

	checks, err := s.GetChecks(ctx, "run-a")
	require.NoError(t, err)
	assert.Empty(t, checks)

	assert.ErrorIs(t, s.DeleteRun(ctx, "run-a"), store.ErrNotFound)
}
