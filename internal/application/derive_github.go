package application

import (
	"slices"

	"github.com/ericfisherdev/paneldock/internal/domain/model"
)

// BuildPullRequestView derives the code-hosting plugin's pull request
// sequence. Source order is preserved — the plugin defines no explicit sort.
// username is the authenticated user the relationship filters are evaluated
// against; with an empty username the relationship filters match nothing
// except "all".
func BuildPullRequestView(prs []model.PullRequest, settings model.GitHubSettings, username string) []model.PullRequest {
	out := make([]model.PullRequest, 0, len(prs))
	for _, pr := range prs {
		if len(settings.RepoFilterList) > 0 && !slices.Contains(settings.RepoFilterList, pr.RepoFullName) {
			continue
		}
		if pr.State != settings.PullRequestState {
			continue
		}
		if !matchesPRFilter(pr, settings.PullRequestFilter, username) {
			continue
		}
		out = append(out, pr)
	}
	return capItems(out, settings.ItemLimit)
}

func matchesPRFilter(pr model.PullRequest, filter model.PullRequestFilter, username string) bool {
	switch filter {
	case model.PRFilterCreatedByMe:
		return username != "" && pr.Author == username
	case model.PRFilterAssignedToMe:
		return username != "" && slices.Contains(pr.Assignees, username)
	case model.PRFilterReviewRequested:
		return username != "" && slices.Contains(pr.RequestedReviewers, username)
	default:
		// PRFilterAll, plus any unrecognized stored value: show everything
		// rather than an empty panel.
		return true
	}
}

// BuildWorkflowRunView derives the code-hosting plugin's CI run sequence.
// The failures-only flag and the branch filter compose: a run must satisfy
// every configured predicate. Source order is preserved.
func BuildWorkflowRunView(runs []model.WorkflowRun, settings model.GitHubSettings) []model.WorkflowRun {
	out := make([]model.WorkflowRun, 0, len(runs))
	for _, run := range runs {
		if len(settings.RepoFilterList) > 0 && !slices.Contains(settings.RepoFilterList, run.RepoFullName) {
			continue
		}
		if settings.CIFailuresOnly && run.Conclusion != model.ConclusionFailure {
			continue
		}
		if settings.CIBranchFilter != "" && run.Branch != settings.CIBranchFilter {
			continue
		}
		out = append(out, run)
	}
	return capItems(out, settings.ItemLimit)
}
