package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/paneldock/internal/application"
	"github.com/ericfisherdev/paneldock/internal/domain/model"
)

// --- Mock implementations ---

type mockSources struct {
	channels     func(ctx context.Context) ([]model.Channel, error)
	pullRequests func(ctx context.Context) ([]model.PullRequest, error)
	workflowRuns func(ctx context.Context) ([]model.WorkflowRun, error)
	issues       func(ctx context.Context) ([]model.Issue, error)
}

func newMockSources() *mockSources {
	return &mockSources{
		channels:     func(context.Context) ([]model.Channel, error) { return nil, nil },
		pullRequests: func(context.Context) ([]model.PullRequest, error) { return nil, nil },
		workflowRuns: func(context.Context) ([]model.WorkflowRun, error) { return nil, nil },
		issues:       func(context.Context) ([]model.Issue, error) { return nil, nil },
	}
}

func (m *mockSources) Channels(ctx context.Context) ([]model.Channel, error) {
	return m.channels(ctx)
}

func (m *mockSources) PullRequests(ctx context.Context) ([]model.PullRequest, error) {
	return m.pullRequests(ctx)
}

func (m *mockSources) WorkflowRuns(ctx context.Context) ([]model.WorkflowRun, error) {
	return m.workflowRuns(ctx)
}

func (m *mockSources) Issues(ctx context.Context) ([]model.Issue, error) {
	return m.issues(ctx)
}

// startSnapshotService runs the refresh loop for the duration of the test.
func startSnapshotService(t *testing.T, src *mockSources) (*application.SnapshotService, context.Context) {
	t.Helper()

	svc := application.NewSnapshotService(src, src, src, src, model.DefaultSlackSettings, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go svc.Start(ctx)

	return svc, ctx
}

// --- Tests ---

func TestSnapshotService_InitialRefreshLoadsAllSources(t *testing.T) {
	src := newMockSources()
	src.channels = func(context.Context) ([]model.Channel, error) {
		return []model.Channel{{ID: "C1", Name: "general"}}, nil
	}
	src.issues = func(context.Context) ([]model.Issue, error) {
		return []model.Issue{{ID: "I1"}}, nil
	}

	svc, ctx := startSnapshotService(t, src)
	require.NoError(t, svc.Refresh(ctx, model.PluginSlack))

	channels := svc.Channels()
	assert.True(t, channels.Loaded)
	require.Len(t, channels.Items, 1)
	assert.Equal(t, "general", channels.Items[0].Name)

	assert.True(t, svc.IssuesSnapshot().Loaded)
	assert.True(t, svc.PullRequestsSnapshot().Loaded)
	assert.True(t, svc.WorkflowRunsSnapshot().Loaded)
}

func TestSnapshotService_FetchErrorKeepsStaleItems(t *testing.T) {
	fetchErr := errors.New("upstream down")
	healthy := true
	src := newMockSources()
	src.issues = func(context.Context) ([]model.Issue, error) {
		if healthy {
			return []model.Issue{{ID: "I1", Title: "still here"}}, nil
		}
		return nil, fetchErr
	}

	svc, ctx := startSnapshotService(t, src)
	require.NoError(t, svc.Refresh(ctx, model.PluginLinear))

	healthy = false
	require.ErrorIs(t, svc.Refresh(ctx, model.PluginLinear), fetchErr)

	snap := svc.IssuesSnapshot()
	assert.True(t, snap.Loaded, "a failed fetch never unloads the view")
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "still here", snap.Items[0].Title)
	assert.ErrorIs(t, snap.Err, fetchErr)
}

func TestSnapshotService_RecoveryClearsError(t *testing.T) {
	healthy := false
	src := newMockSources()
	src.channels = func(context.Context) ([]model.Channel, error) {
		if healthy {
			return []model.Channel{{ID: "C1"}}, nil
		}
		return nil, errors.New("boom")
	}

	svc, ctx := startSnapshotService(t, src)
	require.Error(t, svc.Refresh(ctx, model.PluginSlack))

	healthy = true
	require.NoError(t, svc.Refresh(ctx, model.PluginSlack))

	snap := svc.Channels()
	assert.NoError(t, snap.Err)
	assert.Len(t, snap.Items, 1)
}

func TestSnapshotService_GitHubRefreshCoversBothSnapshots(t *testing.T) {
	src := newMockSources()
	src.pullRequests = func(context.Context) ([]model.PullRequest, error) {
		return []model.PullRequest{{ID: 1}}, nil
	}
	src.workflowRuns = func(context.Context) ([]model.WorkflowRun, error) {
		return []model.WorkflowRun{{ID: 2}, {ID: 3}}, nil
	}

	svc, ctx := startSnapshotService(t, src)
	require.NoError(t, svc.Refresh(ctx, model.PluginGitHub))

	assert.Len(t, svc.PullRequestsSnapshot().Items, 1)
	assert.Len(t, svc.WorkflowRunsSnapshot().Items, 2)
}

func TestSnapshotService_RefreshAfterCancelReturnsContextError(t *testing.T) {
	src := newMockSources()
	svc := application.NewSnapshotService(src, src, src, src, model.DefaultSlackSettings, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Loop never started for this context; Refresh must not block.
	assert.ErrorIs(t, svc.Refresh(ctx, model.PluginSlack), context.Canceled)
}
