package model

import "time"

// PullRequestFilter selects which pull requests the code-hosting plugin
// shows, relative to the authenticated user.
type PullRequestFilter string

const (
	PRFilterAll             PullRequestFilter = "all"
	PRFilterCreatedByMe     PullRequestFilter = "created_by_me"
	PRFilterAssignedToMe    PullRequestFilter = "assigned_to_me"
	PRFilterReviewRequested PullRequestFilter = "review_requested"
)

// PullRequestState is the open/closed state filter of the code-hosting plugin.
type PullRequestState string

const (
	PRStateOpen   PullRequestState = "open"
	PRStateClosed PullRequestState = "closed"
)

// WorkflowConclusion is the terminal result of a CI workflow run.
type WorkflowConclusion string

const (
	ConclusionSuccess   WorkflowConclusion = "success"
	ConclusionFailure   WorkflowConclusion = "failure"
	ConclusionCancelled WorkflowConclusion = "cancelled"
	ConclusionSkipped   WorkflowConclusion = "skipped"
)

// GitHubSettings is the code-hosting plugin's settings record.
type GitHubSettings struct {
	RepoFilterList    []string          `json:"repoFilterList"`
	PullRequestFilter PullRequestFilter `json:"pullRequestFilter"`
	PullRequestState  PullRequestState  `json:"pullRequestState"`
	CIFailuresOnly    bool              `json:"ciFailuresOnlyFlag"`
	CIBranchFilter    string            `json:"ciBranchFilter"`
	ItemLimit         int               `json:"itemLimit"`
}

// DefaultGitHubSettings returns the fully populated default record.
func DefaultGitHubSettings() GitHubSettings {
	return GitHubSettings{
		RepoFilterList:    []string{},
		PullRequestFilter: PRFilterAll,
		PullRequestState:  PRStateOpen,
		CIFailuresOnly:    false,
		CIBranchFilter:    "",
		ItemLimit:         20,
	}
}

// GitHubSettingsPatch is a partial GitHubSettings. Nil fields leave the
// previous value untouched; a present RepoFilterList replaces the whole list.
type GitHubSettingsPatch struct {
	RepoFilterList    *[]string          `json:"repoFilterList"`
	PullRequestFilter *PullRequestFilter `json:"pullRequestFilter"`
	PullRequestState  *PullRequestState  `json:"pullRequestState"`
	CIFailuresOnly    *bool              `json:"ciFailuresOnlyFlag"`
	CIBranchFilter    *string            `json:"ciBranchFilter"`
	ItemLimit         *int               `json:"itemLimit"`
}

// Merge applies p onto s field by field and returns the merged record.
// The receiver is not modified.
func (s GitHubSettings) Merge(p GitHubSettingsPatch) GitHubSettings {
	if p.RepoFilterList != nil {
		s.RepoFilterList = append([]string(nil), (*p.RepoFilterList)...)
	}
	if p.PullRequestFilter != nil {
		s.PullRequestFilter = *p.PullRequestFilter
	}
	if p.PullRequestState != nil {
		s.PullRequestState = *p.PullRequestState
	}
	if p.CIFailuresOnly != nil {
		s.CIFailuresOnly = *p.CIFailuresOnly
	}
	if p.CIBranchFilter != nil {
		s.CIBranchFilter = *p.CIBranchFilter
	}
	if p.ItemLimit != nil {
		s.ItemLimit = *p.ItemLimit
	}
	return s
}

// PullRequest is a code-hosting pull request supplied by the entity data source.
type PullRequest struct {
	ID                 int64
	Number             int
	RepoFullName       string
	Title              string
	Body               string
	Author             string
	State              PullRequestState
	IsDraft            bool
	Assignees          []string
	RequestedReviewers []string
	HeadBranch         string
	URL                string
	UpdatedAt          time.Time
}

// WorkflowRun is a CI workflow run supplied by the entity data source.
type WorkflowRun struct {
	ID           int64
	RepoFullName string
	WorkflowName string
	Branch       string
	Status       string
	Conclusion   WorkflowConclusion
	URL          string
	StartedAt    time.Time
}
