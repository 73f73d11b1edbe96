package application

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ericfisherdev/paneldock/internal/domain/model"
	"github.com/ericfisherdev/paneldock/internal/domain/port/driven"
)

// Snapshot is the last known entity list for one source. A fetch error never
// discards previously fetched items: views keep rendering the stale snapshot
// while the error is outstanding.
type Snapshot[T any] struct {
	Items     []T
	FetchedAt time.Time
	Err       error
	Loaded    bool
}

// refreshRequest is a manual refresh trigger for one plugin.
type refreshRequest struct {
	plugin model.PluginID
	done   chan error
}

// SnapshotService periodically queries the entity sources and caches the
// results. The derived-view pipeline never blocks on a fetch; it only ever
// reads resolved snapshots from here.
type SnapshotService struct {
	channels     driven.ChannelSource
	pullRequests driven.PullRequestSource
	workflowRuns driven.WorkflowRunSource
	issues       driven.IssueSource

	// slackSettings supplies the chat plugin's current record; its
	// pollIntervalMs throttles channel refreshes independently of the
	// base interval.
	slackSettings func() model.SlackSettings
	interval      time.Duration
	refreshCh     chan refreshRequest
	logger        *slog.Logger

	mu             sync.RWMutex
	channelSnap    Snapshot[model.Channel]
	prSnap         Snapshot[model.PullRequest]
	runSnap        Snapshot[model.WorkflowRun]
	issueSnap      Snapshot[model.Issue]
	lastSlackFetch time.Time
}

// NewSnapshotService creates a SnapshotService. All four sources must be
// non-nil; the composition root substitutes fixture sources when no live
// collaborator is configured.
func NewSnapshotService(
	channels driven.ChannelSource,
	pullRequests driven.PullRequestSource,
	workflowRuns driven.WorkflowRunSource,
	issues driven.IssueSource,
	slackSettings func() model.SlackSettings,
	interval time.Duration,
) *SnapshotService {
	return &SnapshotService{
		channels:      channels,
		pullRequests:  pullRequests,
		workflowRuns:  workflowRuns,
		issues:        issues,
		slackSettings: slackSettings,
		interval:      interval,
		refreshCh:     make(chan refreshRequest),
		logger:        slog.Default(),
	}
}

// Start runs an immediate refresh of every source, then refreshes on the
// configured interval and serves manual refresh requests. It blocks until
// the context is canceled.
func (s *SnapshotService) Start(ctx context.Context) {
	s.refreshSlack(ctx, true)
	s.refreshGitHub(ctx)
	s.refreshLinear(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("snapshot service stopped")
			return
		case <-ticker.C:
			s.refreshSlack(ctx, false)
			s.refreshGitHub(ctx)
			s.refreshLinear(ctx)
		case req := <-s.refreshCh:
			req.done <- s.handleRefresh(ctx, req.plugin)
		}
	}
}

// Refresh triggers an immediate refresh for one plugin, bypassing the
// interval. It blocks until the refresh completes or the context is canceled.
func (s *SnapshotService) Refresh(ctx context.Context, plugin model.PluginID) error {
	done := make(chan error, 1)

	select {
	case s.refreshCh <- refreshRequest{plugin: plugin, done: done}:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Channels returns the current chat-channel snapshot.
func (s *SnapshotService) Channels() Snapshot[model.Channel] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.channelSnap
}

// PullRequestsSnapshot returns the current pull request snapshot.
func (s *SnapshotService) PullRequestsSnapshot() Snapshot[model.PullRequest] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prSnap
}

// WorkflowRunsSnapshot returns the current workflow run snapshot.
func (s *SnapshotService) WorkflowRunsSnapshot() Snapshot[model.WorkflowRun] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runSnap
}

// IssuesSnapshot returns the current issue snapshot.
func (s *SnapshotService) IssuesSnapshot() Snapshot[model.Issue] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.issueSnap
}

func (s *SnapshotService) handleRefresh(ctx context.Context, plugin model.PluginID) error {
	switch plugin {
	case model.PluginSlack:
		s.refreshSlack(ctx, true)
		return s.Channels().Err
	case model.PluginGitHub:
		s.refreshGitHub(ctx)
		if err := s.PullRequestsSnapshot().Err; err != nil {
			return err
		}
		return s.WorkflowRunsSnapshot().Err
	case model.PluginLinear:
		s.refreshLinear(ctx)
		return s.IssuesSnapshot().Err
	}
	return nil
}

// refreshSlack refreshes channels when forced or when the chat plugin's own
// poll interval has elapsed since the last attempt.
func (s *SnapshotService) refreshSlack(ctx context.Context, force bool) {
	pollInterval := time.Duration(s.slackSettings().PollIntervalMs) * time.Millisecond

	s.mu.RLock()
	elapsed := time.Since(s.lastSlackFetch)
	s.mu.RUnlock()

	if !force && elapsed < pollInterval {
		return
	}

	items, err := s.channels.Channels(ctx)

	s.mu.Lock()
	s.lastSlackFetch = time.Now()
	s.channelSnap = mergeSnapshot(s.channelSnap, items, err)
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("channel refresh failed, keeping stale snapshot", "error", err)
	}
}

func (s *SnapshotService) refreshGitHub(ctx context.Context) {
	prs, prErr := s.pullRequests.PullRequests(ctx)
	runs, runErr := s.workflowRuns.WorkflowRuns(ctx)

	s.mu.Lock()
	s.prSnap = mergeSnapshot(s.prSnap, prs, prErr)
	s.runSnap = mergeSnapshot(s.runSnap, runs, runErr)
	s.mu.Unlock()

	if prErr != nil {
		s.logger.Warn("pull request refresh failed, keeping stale snapshot", "error", prErr)
	}
	if runErr != nil {
		s.logger.Warn("workflow run refresh failed, keeping stale snapshot", "error", runErr)
	}
}

func (s *SnapshotService) refreshLinear(ctx context.Context) {
	items, err := s.issues.Issues(ctx)

	s.mu.Lock()
	s.issueSnap = mergeSnapshot(s.issueSnap, items, err)
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("issue refresh failed, keeping stale snapshot", "error", err)
	}
}

// mergeSnapshot folds a fetch result into the previous snapshot: successes
// replace items and clear the error, failures record the error but keep the
// stale items and Loaded flag.
func mergeSnapshot[T any](prev Snapshot[T], items []T, err error) Snapshot[T] {
	if err != nil {
		prev.Err = err
		return prev
	}
	return Snapshot[T]{
		Items:     items,
		FetchedAt: time.Now(),
		Loaded:    true,
	}
}
