package github_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ghAdapter "github.com/ericfisherdev/paneldock/internal/adapter/driven/github"
	"github.com/ericfisherdev/paneldock/internal/domain/model"
)

// newTestClient creates a Client backed by the given httptest handler.
func newTestClient(t *testing.T, handler http.Handler, settings model.GitHubSettings) *ghAdapter.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := ghAdapter.NewClientWithHTTPClient(
		server.Client(),
		server.URL+"/",
		"testuser",
		func() model.GitHubSettings { return settings },
	)
	require.NoError(t, err)

	return client
}

type userJSON struct {
	Login string `json:"login"`
}

type refJSON struct {
	Ref string `json:"ref"`
}

type prJSON struct {
	ID                 int64      `json:"id"`
	Number             int        `json:"number"`
	Title              string     `json:"title"`
	Body               string     `json:"body"`
	State              string     `json:"state"`
	Draft              bool       `json:"draft"`
	HTMLURL            string     `json:"html_url"`
	User               userJSON   `json:"user"`
	Head               refJSON    `json:"head"`
	Assignees          []userJSON `json:"assignees"`
	RequestedReviewers []userJSON `json:"requested_reviewers"`
	Updated            string     `json:"updated_at"`
}

type runJSON struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	HeadBranch string `json:"head_branch"`
	Status     string `json:"status"`
	Conclusion string `json:"conclusion"`
	HTMLURL    string `json:"html_url"`
	Started    string `json:"run_started_at"`
}

func TestPullRequests_MapsFields(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/owner/repo/pulls", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "open", r.URL.Query().Get("state"))
		_ = json.NewEncoder(w).Encode([]prJSON{
			{
				ID:                 1001,
				Number:             42,
				Title:              "Add feature X",
				Body:               "does things",
				State:              "open",
				Draft:              true,
				HTMLURL:            "https://github.com/owner/repo/pull/42",
				User:               userJSON{Login: "alice"},
				Head:               refJSON{Ref: "feature-x"},
				Assignees:          []userJSON{{Login: "bob"}},
				RequestedReviewers: []userJSON{{Login: "testuser"}},
				Updated:            "2026-01-02T12:00:00Z",
			},
		})
	})

	settings := model.DefaultGitHubSettings()
	settings.RepoFilterList = []string{"owner/repo"}

	client := newTestClient(t, mux, settings)

	prs, err := client.PullRequests(context.Background())
	require.NoError(t, err)
	require.Len(t, prs, 1)

	pr := prs[0]
	assert.Equal(t, int64(1001), pr.ID)
	assert.Equal(t, 42, pr.Number)
	assert.Equal(t, "owner/repo", pr.RepoFullName)
	assert.Equal(t, "Add feature X", pr.Title)
	assert.Equal(t, "alice", pr.Author)
	assert.Equal(t, model.PRStateOpen, pr.State)
	assert.True(t, pr.IsDraft)
	assert.Equal(t, []string{"bob"}, pr.Assignees)
	assert.Equal(t, []string{"testuser"}, pr.RequestedReviewers)
	assert.Equal(t, "feature-x", pr.HeadBranch)
}

func TestPullRequests_EmptyRepoListFetchesNothing(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	})

	client := newTestClient(t, handler, model.DefaultGitHubSettings())

	prs, err := client.PullRequests(context.Background())
	require.NoError(t, err)
	assert.Empty(t, prs)
}

func TestWorkflowRuns_MapsFieldsAndBranchParam(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/owner/repo/actions/runs", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "main", r.URL.Query().Get("branch"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"total_count": 1,
			"workflow_runs": []runJSON{
				{
					ID:         7,
					Name:       "CI",
					HeadBranch: "main",
					Status:     "completed",
					Conclusion: "failure",
					HTMLURL:    "https://github.com/owner/repo/actions/runs/7",
					Started:    "2026-01-03T09:00:00Z",
				},
			},
		})
	})

	settings := model.DefaultGitHubSettings()
	settings.RepoFilterList = []string{"owner/repo"}
	settings.CIBranchFilter = "main"

	client := newTestClient(t, mux, settings)

	runs, err := client.WorkflowRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, int64(7), run.ID)
	assert.Equal(t, "CI", run.WorkflowName)
	assert.Equal(t, "main", run.Branch)
	assert.Equal(t, model.ConclusionFailure, run.Conclusion)
	assert.Equal(t, "owner/repo", run.RepoFullName)
}

func TestPullRequests_InvalidRepoName(t *testing.T) {
	settings := model.DefaultGitHubSettings()
	settings.RepoFilterList = []string{"not-a-repo"}

	client := newTestClient(t, http.NewServeMux(), settings)

	_, err := client.PullRequests(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected owner/repo")
}
