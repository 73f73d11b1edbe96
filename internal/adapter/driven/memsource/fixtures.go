package memsource

import (
	"time"

	"github.com/ericfisherdev/paneldock/internal/domain/model"
)

// fixturesFile is the on-disk schema of a fixtures JSON document. Timestamps
// are RFC 3339; a malformed or absent timestamp decodes to the zero time
// rather than failing the whole file.
type fixturesFile struct {
	Channels     []channelFixture     `json:"channels"`
	PullRequests []pullRequestFixture `json:"pullRequests"`
	WorkflowRuns []workflowRunFixture `json:"workflowRuns"`
	Issues       []issueFixture       `json:"issues"`
}

type channelFixture struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	Topic          string `json:"topic"`
	UnreadCount    int    `json:"unreadCount"`
	MemberCount    int    `json:"memberCount"`
	LastActivityAt string `json:"lastActivityAt"`
}

type pullRequestFixture struct {
	ID                 int64    `json:"id"`
	Number             int      `json:"number"`
	Repo               string   `json:"repo"`
	Title              string   `json:"title"`
	Body               string   `json:"body"`
	Author             string   `json:"author"`
	State              string   `json:"state"`
	IsDraft            bool     `json:"isDraft"`
	Assignees          []string `json:"assignees"`
	RequestedReviewers []string `json:"requestedReviewers"`
	HeadBranch         string   `json:"headBranch"`
	URL                string   `json:"url"`
	UpdatedAt          string   `json:"updatedAt"`
}

type workflowRunFixture struct {
	ID           int64  `json:"id"`
	Repo         string `json:"repo"`
	WorkflowName string `json:"workflowName"`
	Branch       string `json:"branch"`
	Status       string `json:"status"`
	Conclusion   string `json:"conclusion"`
	URL          string `json:"url"`
	StartedAt    string `json:"startedAt"`
}

type issueFixture struct {
	ID            string   `json:"id"`
	Identifier    string   `json:"identifier"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	TeamKey       string   `json:"teamKey"`
	Assignee      string   `json:"assignee"`
	Creator       string   `json:"creator"`
	StatusName    string   `json:"statusName"`
	StatusType    string   `json:"statusType"`
	Priority      int      `json:"priority"`
	PriorityLabel string   `json:"priorityLabel"`
	Labels        []string `json:"labels"`
	ProjectName   string   `json:"projectName"`
	URL           string   `json:"url"`
	UpdatedAt     string   `json:"updatedAt"`
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func mapChannels(fixtures []channelFixture) []model.Channel {
	out := make([]model.Channel, 0, len(fixtures))
	for _, f := range fixtures {
		out = append(out, model.Channel{
			ID:             f.ID,
			Name:           f.Name,
			Type:           model.ChannelType(f.Type),
			Topic:          f.Topic,
			UnreadCount:    f.UnreadCount,
			MemberCount:    f.MemberCount,
			LastActivityAt: parseTime(f.LastActivityAt),
		})
	}
	return out
}

func mapPullRequests(fixtures []pullRequestFixture) []model.PullRequest {
	out := make([]model.PullRequest, 0, len(fixtures))
	for _, f := range fixtures {
		out = append(out, model.PullRequest{
			ID:                 f.ID,
			Number:             f.Number,
			RepoFullName:       f.Repo,
			Title:              f.Title,
			Body:               f.Body,
			Author:             f.Author,
			State:              model.PullRequestState(f.State),
			IsDraft:            f.IsDraft,
			Assignees:          f.Assignees,
			RequestedReviewers: f.RequestedReviewers,
			HeadBranch:         f.HeadBranch,
			URL:                f.URL,
			UpdatedAt:          parseTime(f.UpdatedAt),
		})
	}
	return out
}

func mapWorkflowRuns(fixtures []workflowRunFixture) []model.WorkflowRun {
	out := make([]model.WorkflowRun, 0, len(fixtures))
	for _, f := range fixtures {
		out = append(out, model.WorkflowRun{
			ID:           f.ID,
			RepoFullName: f.Repo,
			WorkflowName: f.WorkflowName,
			Branch:       f.Branch,
			Status:       f.Status,
			Conclusion:   model.WorkflowConclusion(f.Conclusion),
			URL:          f.URL,
			StartedAt:    parseTime(f.StartedAt),
		})
	}
	return out
}

func mapIssues(fixtures []issueFixture) []model.Issue {
	out := make([]model.Issue, 0, len(fixtures))
	for _, f := range fixtures {
		out = append(out, model.Issue{
			ID:            f.ID,
			Identifier:    f.Identifier,
			Title:         f.Title,
			Description:   f.Description,
			TeamKey:       f.TeamKey,
			AssigneeName:  f.Assignee,
			CreatorName:   f.Creator,
			StatusName:    f.StatusName,
			StatusType:    f.StatusType,
			Priority:      f.Priority,
			PriorityLabel: f.PriorityLabel,
			Labels:        f.Labels,
			ProjectName:   f.ProjectName,
			URL:           f.URL,
			UpdatedAt:     parseTime(f.UpdatedAt),
		})
	}
	return out
}
