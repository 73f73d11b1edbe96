// Package memsource implements every entity source port from an in-memory
// fixture set, optionally loaded from a JSON file and hot-reloaded when the
// file changes. It stands in for live collaborators when no credentials are
// configured, and doubles as the test source.
package memsource

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/ericfisherdev/paneldock/internal/domain/model"
	"github.com/ericfisherdev/paneldock/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.ChannelSource     = (*Source)(nil)
	_ driven.PullRequestSource = (*Source)(nil)
	_ driven.WorkflowRunSource = (*Source)(nil)
	_ driven.IssueSource       = (*Source)(nil)
)

// Source serves entity lists from memory. All accessors return copies so a
// concurrent reload never mutates a list a caller is iterating.
type Source struct {
	mu           sync.RWMutex
	channels     []model.Channel
	pullRequests []model.PullRequest
	workflowRuns []model.WorkflowRun
	issues       []model.Issue

	logger *slog.Logger
}

// New creates an empty Source.
func New() *Source {
	return &Source{logger: slog.Default()}
}

// Channels implements driven.ChannelSource.
func (s *Source) Channels(_ context.Context) ([]model.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Channel(nil), s.channels...), nil
}

// PullRequests implements driven.PullRequestSource.
func (s *Source) PullRequests(_ context.Context) ([]model.PullRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.PullRequest(nil), s.pullRequests...), nil
}

// WorkflowRuns implements driven.WorkflowRunSource.
func (s *Source) WorkflowRuns(_ context.Context) ([]model.WorkflowRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.WorkflowRun(nil), s.workflowRuns...), nil
}

// Issues implements driven.IssueSource.
func (s *Source) Issues(_ context.Context) ([]model.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Issue(nil), s.issues...), nil
}

// SetChannels replaces the channel fixture list.
func (s *Source) SetChannels(channels []model.Channel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels = channels
}

// SetPullRequests replaces the pull request fixture list.
func (s *Source) SetPullRequests(prs []model.PullRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pullRequests = prs
}

// SetWorkflowRuns replaces the workflow run fixture list.
func (s *Source) SetWorkflowRuns(runs []model.WorkflowRun) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workflowRuns = runs
}

// SetIssues replaces the issue fixture list.
func (s *Source) SetIssues(issues []model.Issue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issues = issues
}

// LoadFile reads a fixtures JSON file and replaces every entity list it
// names. Lists absent from the file are left untouched.
func (s *Source) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixtures %s: %w", path, err)
	}

	var f fixturesFile
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decode fixtures %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if f.Channels != nil {
		s.channels = mapChannels(f.Channels)
	}
	if f.PullRequests != nil {
		s.pullRequests = mapPullRequests(f.PullRequests)
	}
	if f.WorkflowRuns != nil {
		s.workflowRuns = mapWorkflowRuns(f.WorkflowRuns)
	}
	if f.Issues != nil {
		s.issues = mapIssues(f.Issues)
	}

	return nil
}

// Watch reloads the fixtures file whenever it is written or recreated. The
// parent directory is watched rather than the file itself because editors
// commonly replace the file on save. Watch blocks until the context is
// canceled; a failed reload keeps the previous fixtures.
func (s *Source) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fixtures watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch fixtures dir %s: %w", dir, err)
	}

	base := filepath.Base(path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := s.LoadFile(path); err != nil {
				s.logger.Warn("fixtures reload failed, keeping previous set", "path", path, "error", err)
				continue
			}
			s.logger.Info("fixtures reloaded", "path", path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("fixtures watcher error", "error", err)
		}
	}
}
