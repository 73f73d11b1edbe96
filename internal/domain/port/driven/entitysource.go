package driven

import (
	"context"

	"github.com/ericfisherdev/paneldock/internal/domain/model"
)

// Entity sources are the data-fetch collaborators. Each returns the freshest
// full list it can; transport, auth, and retry concerns live behind these
// ports. An error with a non-nil slice means a partial result the caller may
// still use.

// ChannelSource supplies chat conversations for the chat-channel plugin.
type ChannelSource interface {
	Channels(ctx context.Context) ([]model.Channel, error)
}

// PullRequestSource supplies pull requests for the code-hosting plugin.
type PullRequestSource interface {
	PullRequests(ctx context.Context) ([]model.PullRequest, error)
}

// WorkflowRunSource supplies CI workflow runs for the code-hosting plugin.
type WorkflowRunSource interface {
	WorkflowRuns(ctx context.Context) ([]model.WorkflowRun, error)
}

// IssueSource supplies work items for the issue-tracker plugin.
type IssueSource interface {
	Issues(ctx context.Context) ([]model.Issue, error)
}
