package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/paneldock/internal/application"
	"github.com/ericfisherdev/paneldock/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// MetaResponse carries the view's load state alongside its items. A non-empty
// error means the last fetch failed and the items are the stale snapshot.
type MetaResponse struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// ChannelResponse is the JSON representation of a chat channel.
type ChannelResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	Topic          string `json:"topic,omitempty"`
	UnreadCount    int    `json:"unread_count"`
	MemberCount    int    `json:"member_count"`
	LastActivityAt string `json:"last_activity_at,omitempty"`
}

// ChannelViewResponse is the chat-channel plugin's derived view.
type ChannelViewResponse struct {
	Channels []ChannelResponse `json:"channels"`
	Meta     MetaResponse      `json:"meta"`
}

// PullRequestResponse is the JSON representation of a pull request.
type PullRequestResponse struct {
	ID                 int64    `json:"id"`
	Number             int      `json:"number"`
	Repository         string   `json:"repository"`
	Title              string   `json:"title"`
	DescriptionHTML    string   `json:"description_html,omitempty"`
	Author             string   `json:"author"`
	State              string   `json:"state"`
	IsDraft            bool     `json:"is_draft"`
	Assignees          []string `json:"assignees"`
	RequestedReviewers []string `json:"requested_reviewers"`
	Branch             string   `json:"branch"`
	URL                string   `json:"url"`
	UpdatedAt          string   `json:"updated_at,omitempty"`
}

// WorkflowRunResponse is the JSON representation of a CI workflow run.
type WorkflowRunResponse struct {
	ID           int64  `json:"id"`
	Repository   string `json:"repository"`
	WorkflowName string `json:"workflow_name"`
	Branch       string `json:"branch"`
	Status       string `json:"status"`
	Conclusion   string `json:"conclusion"`
	URL          string `json:"url"`
	StartedAt    string `json:"started_at,omitempty"`
}

// GitHubViewResponse is the code-hosting plugin's derived view: pull requests
// and CI runs derived from the same settings record.
type GitHubViewResponse struct {
	PullRequests []PullRequestResponse `json:"pull_requests"`
	WorkflowRuns []WorkflowRunResponse `json:"workflow_runs"`
	Meta         MetaResponse          `json:"meta"`
}

// IssueResponse is the JSON representation of an issue-tracker work item.
type IssueResponse struct {
	ID              string   `json:"id"`
	Identifier      string   `json:"identifier"`
	Title           string   `json:"title"`
	DescriptionHTML string   `json:"description_html,omitempty"`
	Team            string   `json:"team"`
	Assignee        string   `json:"assignee,omitempty"`
	StatusName      string   `json:"status_name"`
	StatusType      string   `json:"status_type"`
	Priority        int      `json:"priority"`
	PriorityLabel   string   `json:"priority_label,omitempty"`
	Labels          []string `json:"labels"`
	Project         string   `json:"project,omitempty"`
	URL             string   `json:"url"`
	UpdatedAt       string   `json:"updated_at,omitempty"`
}

// IssueGroupResponse is one named partition of a grouped issue view.
type IssueGroupResponse struct {
	Key    string          `json:"key"`
	Issues []IssueResponse `json:"issues"`
}

// IssueViewResponse is the issue-tracker plugin's derived view. Exactly one
// of Items or Groups is populated, selected by Grouped.
type IssueViewResponse struct {
	Grouped bool                 `json:"grouped"`
	Items   []IssueResponse      `json:"items"`
	Groups  []IssueGroupResponse `json:"groups"`
	Meta    MetaResponse         `json:"meta"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

func toMetaResponse(m application.ViewMeta) MetaResponse {
	resp := MetaResponse{Loading: m.Loading}
	if m.Err != nil {
		resp.Error = m.Err.Error()
	}
	return resp
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func toChannelResponse(ch model.Channel) ChannelResponse {
	return ChannelResponse{
		ID:             ch.ID,
		Name:           ch.Name,
		Type:           string(ch.Type),
		Topic:          ch.Topic,
		UnreadCount:    ch.UnreadCount,
		MemberCount:    ch.MemberCount,
		LastActivityAt: formatTime(ch.LastActivityAt),
	}
}

func toChannelViewResponse(v application.ChannelViewResult) ChannelViewResponse {
	channels := make([]ChannelResponse, 0, len(v.Channels))
	for _, ch := range v.Channels {
		channels = append(channels, toChannelResponse(ch))
	}
	return ChannelViewResponse{Channels: channels, Meta: toMetaResponse(v.Meta)}
}

func toPullRequestResponse(pr model.PullRequest) PullRequestResponse {
	assignees := pr.Assignees
	if assignees == nil {
		assignees = []string{}
	}
	reviewers := pr.RequestedReviewers
	if reviewers == nil {
		reviewers = []string{}
	}

	return PullRequestResponse{
		ID:                 pr.ID,
		Number:             pr.Number,
		Repository:         pr.RepoFullName,
		Title:              pr.Title,
		DescriptionHTML:    RenderMarkdown(pr.Body),
		Author:             pr.Author,
		State:              string(pr.State),
		IsDraft:            pr.IsDraft,
		Assignees:          assignees,
		RequestedReviewers: reviewers,
		Branch:             pr.HeadBranch,
		URL:                pr.URL,
		UpdatedAt:          formatTime(pr.UpdatedAt),
	}
}

func toWorkflowRunResponse(run model.WorkflowRun) WorkflowRunResponse {
	return WorkflowRunResponse{
		ID:           run.ID,
		Repository:   run.RepoFullName,
		WorkflowName: run.WorkflowName,
		Branch:       run.Branch,
		Status:       run.Status,
		Conclusion:   string(run.Conclusion),
		URL:          run.URL,
		StartedAt:    formatTime(run.StartedAt),
	}
}

func toGitHubViewResponse(v application.GitHubViewResult) GitHubViewResponse {
	prs := make([]PullRequestResponse, 0, len(v.PullRequests))
	for _, pr := range v.PullRequests {
		prs = append(prs, toPullRequestResponse(pr))
	}
	runs := make([]WorkflowRunResponse, 0, len(v.WorkflowRuns))
	for _, run := range v.WorkflowRuns {
		runs = append(runs, toWorkflowRunResponse(run))
	}
	return GitHubViewResponse{PullRequests: prs, WorkflowRuns: runs, Meta: toMetaResponse(v.Meta)}
}

func toIssueResponse(issue model.Issue) IssueResponse {
	labels := issue.Labels
	if labels == nil {
		labels = []string{}
	}

	return IssueResponse{
		ID:              issue.ID,
		Identifier:      issue.Identifier,
		Title:           issue.Title,
		DescriptionHTML: RenderMarkdown(issue.Description),
		Team:            issue.TeamKey,
		Assignee:        issue.AssigneeName,
		StatusName:      issue.StatusName,
		StatusType:      issue.StatusType,
		Priority:        issue.Priority,
		PriorityLabel:   issue.PriorityLabel,
		Labels:          labels,
		Project:         issue.ProjectName,
		URL:             issue.URL,
		UpdatedAt:       formatTime(issue.UpdatedAt),
	}
}

func toIssueViewResponse(v application.IssueViewResult) IssueViewResponse {
	resp := IssueViewResponse{
		Grouped: v.View.Grouped,
		Items:   []IssueResponse{},
		Groups:  []IssueGroupResponse{},
		Meta:    toMetaResponse(v.Meta),
	}

	for _, issue := range v.View.Items {
		resp.Items = append(resp.Items, toIssueResponse(issue))
	}
	for _, g := range v.View.Groups {
		group := IssueGroupResponse{Key: g.Key, Issues: make([]IssueResponse, 0, len(g.Issues))}
		for _, issue := range g.Issues {
			group.Issues = append(group.Issues, toIssueResponse(issue))
		}
		resp.Groups = append(resp.Groups, group)
	}

	return resp
}
