package application

import (
	"github.com/ericfisherdev/paneldock/internal/domain/model"
)

// Instantiated controller types for the three shipped plugins.
type (
	SlackController  = Controller[model.SlackSettings, model.SlackSettingsPatch]
	GitHubController = Controller[model.GitHubSettings, model.GitHubSettingsPatch]
	LinearController = Controller[model.LinearSettings, model.LinearSettingsPatch]
)

// ViewMeta is the tri-state envelope every derived view carries: loading
// until the first snapshot resolves, plus any outstanding fetch error. An
// error never blanks the view; stale data keeps rendering.
type ViewMeta struct {
	Loading bool
	Err     error
}

// ChannelViewResult is the chat-channel plugin's derived view.
type ChannelViewResult struct {
	Channels []model.Channel
	Meta     ViewMeta
}

// GitHubViewResult is the code-hosting plugin's derived view: the pull
// request list and the CI run list, derived from the same settings record.
type GitHubViewResult struct {
	PullRequests []model.PullRequest
	WorkflowRuns []model.WorkflowRun
	Meta         ViewMeta
}

// IssueViewResult is the issue-tracker plugin's derived view.
type IssueViewResult struct {
	View model.IssueView
	Meta ViewMeta
}

// PanelService assembles (snapshot, settings) pairs into the derived views
// the presentation layer renders. Views are computed fresh on every call —
// nothing derived is cached across settings changes.
type PanelService struct {
	snapshots *SnapshotService
	slack     *SlackController
	github    *GitHubController
	linear    *LinearController

	githubUser string
	linearUser string
}

// NewPanelService creates a PanelService.
func NewPanelService(
	snapshots *SnapshotService,
	slack *SlackController,
	github *GitHubController,
	linear *LinearController,
	githubUser, linearUser string,
) *PanelService {
	return &PanelService{
		snapshots:  snapshots,
		slack:      slack,
		github:     github,
		linear:     linear,
		githubUser: githubUser,
		linearUser: linearUser,
	}
}

// ChannelView derives the chat-channel view from the latest snapshot and the
// current settings.
func (s *PanelService) ChannelView() ChannelViewResult {
	snap := s.snapshots.Channels()
	return ChannelViewResult{
		Channels: BuildChannelView(snap.Items, s.slack.Current()),
		Meta:     ViewMeta{Loading: !snap.Loaded, Err: snap.Err},
	}
}

// GitHubView derives the code-hosting view from the latest snapshots and the
// current settings.
func (s *PanelService) GitHubView() GitHubViewResult {
	settings := s.github.Current()
	prSnap := s.snapshots.PullRequestsSnapshot()
	runSnap := s.snapshots.WorkflowRunsSnapshot()

	meta := ViewMeta{Loading: !prSnap.Loaded && !runSnap.Loaded, Err: prSnap.Err}
	if meta.Err == nil {
		meta.Err = runSnap.Err
	}

	return GitHubViewResult{
		PullRequests: BuildPullRequestView(prSnap.Items, settings, s.githubUser),
		WorkflowRuns: BuildWorkflowRunView(runSnap.Items, settings),
		Meta:         meta,
	}
}

// IssueView derives the issue-tracker view from the latest snapshot and the
// current settings.
func (s *PanelService) IssueView() IssueViewResult {
	snap := s.snapshots.IssuesSnapshot()
	return IssueViewResult{
		View: BuildIssueView(snap.Items, s.linear.Current(), s.linearUser),
		Meta: ViewMeta{Loading: !snap.Loaded, Err: snap.Err},
	}
}
