// Package github implements the code-hosting entity source ports using the
// go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/ericfisherdev/paneldock/internal/domain/model"
	"github.com/ericfisherdev/paneldock/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.PullRequestSource = (*Client)(nil)
	_ driven.WorkflowRunSource = (*Client)(nil)
)

// Client implements the PullRequestSource and WorkflowRunSource ports using
// the go-github library. The repositories to fetch, the PR state, and the CI
// branch come from the code-hosting plugin's current settings, supplied by
// the settings func so every fetch sees the freshest record.
type Client struct {
	gh       *gh.Client
	username string
	settings func() model.GitHubSettings
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
func NewClient(token, username string, settings func() model.GitHubSettings) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	return &Client{
		gh:       client,
		username: username,
		settings: settings,
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, username string, settings func() model.GitHubSettings) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{
		gh:       client,
		username: username,
		settings: settings,
	}, nil
}

// PullRequests retrieves pull requests for every repository in the plugin's
// repo filter list, in the state the settings select. An empty filter list
// yields an empty result — the plugin has nothing configured to watch.
// Pagination is handled automatically.
func (c *Client) PullRequests(ctx context.Context) ([]model.PullRequest, error) {
	settings := c.settings()

	all := []model.PullRequest{}
	for _, repoFullName := range settings.RepoFilterList {
		prs, err := c.fetchRepoPullRequests(ctx, repoFullName, string(settings.PullRequestState))
		if err != nil {
			return nil, err
		}
		all = append(all, prs...)
	}

	return all, nil
}

// WorkflowRuns retrieves recent workflow runs for every repository in the
// plugin's repo filter list. The CI branch filter, when set, is pushed down
// to the API; the derived-view builder applies it again so fixture sources
// behave identically.
func (c *Client) WorkflowRuns(ctx context.Context) ([]model.WorkflowRun, error) {
	settings := c.settings()

	all := []model.WorkflowRun{}
	for _, repoFullName := range settings.RepoFilterList {
		runs, err := c.fetchRepoWorkflowRuns(ctx, repoFullName, settings.CIBranchFilter)
		if err != nil {
			return nil, err
		}
		all = append(all, runs...)
	}

	return all, nil
}

func (c *Client) fetchRepoPullRequests(ctx context.Context, repoFullName, state string) ([]model.PullRequest, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.PullRequestListOptions{
		State:     state,
		Sort:      "updated",
		Direction: "desc",
		ListOptions: gh.ListOptions{
			PerPage: 100,
		},
	}

	var all []model.PullRequest

	for {
		prs, resp, err := c.gh.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("listing pull requests for %s (page %d): %w", repoFullName, opts.Page, err)
		}

		logRateLimit(resp, repoFullName, opts.Page, len(prs))

		for _, pr := range prs {
			all = append(all, mapPullRequest(pr, repoFullName))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

func (c *Client) fetchRepoWorkflowRuns(ctx context.Context, repoFullName, branch string) ([]model.WorkflowRun, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.ListWorkflowRunsOptions{
		Branch: branch,
		ListOptions: gh.ListOptions{
			PerPage: 100,
		},
	}

	runs, resp, err := c.gh.Actions.ListRepositoryWorkflowRuns(ctx, owner, repo, opts)
	if err != nil {
		return nil, fmt.Errorf("listing workflow runs for %s: %w", repoFullName, err)
	}

	logRateLimit(resp, repoFullName, opts.Page, len(runs.WorkflowRuns))

	all := make([]model.WorkflowRun, 0, len(runs.WorkflowRuns))
	for _, run := range runs.WorkflowRuns {
		all = append(all, mapWorkflowRun(run, repoFullName))
	}

	return all, nil
}

func logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}

// mapPullRequest converts a go-github PullRequest to a domain model PullRequest.
// It uses GetXxx() helper methods exclusively to avoid nil pointer panics.
func mapPullRequest(pr *gh.PullRequest, repoFullName string) model.PullRequest {
	state := model.PRStateOpen
	if pr.GetState() == "closed" {
		state = model.PRStateClosed
	}

	assignees := make([]string, 0, len(pr.Assignees))
	for _, a := range pr.Assignees {
		assignees = append(assignees, a.GetLogin())
	}

	reviewers := make([]string, 0, len(pr.RequestedReviewers))
	for _, r := range pr.RequestedReviewers {
		reviewers = append(reviewers, r.GetLogin())
	}

	return model.PullRequest{
		ID:                 pr.GetID(),
		Number:             pr.GetNumber(),
		RepoFullName:       repoFullName,
		Title:              pr.GetTitle(),
		Body:               pr.GetBody(),
		Author:             pr.GetUser().GetLogin(),
		State:              state,
		IsDraft:            pr.GetDraft(),
		Assignees:          assignees,
		RequestedReviewers: reviewers,
		HeadBranch:         pr.GetHead().GetRef(),
		URL:                pr.GetHTMLURL(),
		UpdatedAt:          pr.GetUpdatedAt().Time,
	}
}

// mapWorkflowRun converts a go-github WorkflowRun to a domain model WorkflowRun.
func mapWorkflowRun(run *gh.WorkflowRun, repoFullName string) model.WorkflowRun {
	return model.WorkflowRun{
		ID:           run.GetID(),
		RepoFullName: repoFullName,
		WorkflowName: run.GetName(),
		Branch:       run.GetHeadBranch(),
		Status:       run.GetStatus(),
		Conclusion:   model.WorkflowConclusion(run.GetConclusion()),
		URL:          run.GetHTMLURL(),
		StartedAt:    run.GetRunStartedAt().Time,
	}
}

func splitRepo(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo name %q: expected owner/repo", fullName)
	}
	return parts[0], parts[1], nil
}
