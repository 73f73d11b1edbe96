package application_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/paneldock/internal/application"
	"github.com/ericfisherdev/paneldock/internal/domain/model"
)

// linearShowAll relaxes the defaults so filter-agnostic tests see every issue.
func linearShowAll() model.LinearSettings {
	s := model.DefaultLinearSettings()
	s.AssignmentFilter = model.AssignmentAll
	s.StatusTypeAllowList = nil
	s.GroupBy = model.GroupByNone
	return s
}

func issueIdentifiers(issues []model.Issue) []string {
	ids := make([]string, 0, len(issues))
	for _, issue := range issues {
		ids = append(ids, issue.Identifier)
	}
	return ids
}

func groupKeys(groups []model.IssueGroup) []string {
	keys := make([]string, 0, len(groups))
	for _, g := range groups {
		keys = append(keys, g.Key)
	}
	return keys
}

func TestBuildIssueView_FlatWhenGroupingOff(t *testing.T) {
	issues := []model.Issue{
		{Identifier: "ENG-1"},
		{Identifier: "ENG-2"},
	}

	got := application.BuildIssueView(issues, linearShowAll(), "")

	assert.False(t, got.Grouped)
	assert.Equal(t, []string{"ENG-1", "ENG-2"}, issueIdentifiers(got.Items))
	assert.Empty(t, got.Groups)
}

func TestBuildIssueView_TeamFilter(t *testing.T) {
	issues := []model.Issue{
		{Identifier: "ENG-1", TeamKey: "ENG"},
		{Identifier: "OPS-1", TeamKey: "OPS"},
	}
	settings := linearShowAll()
	settings.TeamFilter = "OPS"

	got := application.BuildIssueView(issues, settings, "")

	assert.Equal(t, []string{"OPS-1"}, issueIdentifiers(got.Items))
}

func TestBuildIssueView_StatusTypeAllowList(t *testing.T) {
	issues := []model.Issue{
		{Identifier: "ENG-1", StatusType: "started"},
		{Identifier: "ENG-2", StatusType: "completed"},
		{Identifier: "ENG-3", StatusType: "backlog"},
		{Identifier: "ENG-4", StatusType: "canceled"},
	}
	settings := linearShowAll()
	settings.StatusTypeAllowList = model.DefaultLinearSettings().StatusTypeAllowList

	got := application.BuildIssueView(issues, settings, "")

	assert.Equal(t, []string{"ENG-1", "ENG-3"}, issueIdentifiers(got.Items),
		"completed and canceled issues stay hidden under the default allow list")
}

func TestBuildIssueView_AssignmentFilters(t *testing.T) {
	issues := []model.Issue{
		{Identifier: "ENG-1", AssigneeName: "alice", CreatorName: "bob"},
		{Identifier: "ENG-2", AssigneeName: "bob", CreatorName: "alice"},
		{Identifier: "ENG-3"},
	}

	cases := []struct {
		filter model.AssignmentFilter
		want   []string
	}{
		{model.AssignmentAll, []string{"ENG-1", "ENG-2", "ENG-3"}},
		{model.AssignmentAssignedMe, []string{"ENG-1"}},
		{model.AssignmentCreatedMe, []string{"ENG-2"}},
	}
	for _, tc := range cases {
		t.Run(string(tc.filter), func(t *testing.T) {
			settings := linearShowAll()
			settings.AssignmentFilter = tc.filter

			got := application.BuildIssueView(issues, settings, "alice")

			assert.Equal(t, tc.want, issueIdentifiers(got.Items))
		})
	}
}

func TestBuildIssueView_GroupOrderIsFirstOccurrence(t *testing.T) {
	issues := []model.Issue{
		{Identifier: "ENG-1", StatusName: "In Progress"},
		{Identifier: "ENG-2", StatusName: "Todo"},
		{Identifier: "ENG-3", StatusName: "In Progress"},
	}
	settings := linearShowAll()
	settings.GroupBy = model.GroupByStatus

	got := application.BuildIssueView(issues, settings, "")

	require.True(t, got.Grouped)
	assert.Equal(t, []string{"In Progress", "Todo"}, groupKeys(got.Groups))
	assert.Equal(t, []string{"ENG-1", "ENG-3"}, issueIdentifiers(got.Groups[0].Issues))
	assert.Equal(t, []string{"ENG-2"}, issueIdentifiers(got.Groups[1].Issues))
}

func TestBuildIssueView_GroupFallbackKeys(t *testing.T) {
	cases := []struct {
		name    string
		groupBy model.IssueGroupBy
		issue   model.Issue
		wantKey string
	}{
		{"status", model.GroupByStatus, model.Issue{Identifier: "ENG-1"}, model.GroupKeyUnknownStatus},
		{"priority", model.GroupByPriority, model.Issue{Identifier: "ENG-1"}, model.GroupKeyNoPriority},
		{"label", model.GroupByLabel, model.Issue{Identifier: "ENG-1"}, model.GroupKeyNoLabel},
		{"project", model.GroupByProject, model.Issue{Identifier: "ENG-1"}, model.GroupKeyNoProject},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			settings := linearShowAll()
			settings.GroupBy = tc.groupBy

			got := application.BuildIssueView([]model.Issue{tc.issue}, settings, "")

			require.Len(t, got.Groups, 1)
			assert.Equal(t, tc.wantKey, got.Groups[0].Key)
		})
	}
}

func TestBuildIssueView_GroupByLabelUsesFirstLabel(t *testing.T) {
	issues := []model.Issue{
		{Identifier: "ENG-1", Labels: []string{"bug", "urgent"}},
		{Identifier: "ENG-2", Labels: []string{"bug"}},
	}
	settings := linearShowAll()
	settings.GroupBy = model.GroupByLabel

	got := application.BuildIssueView(issues, settings, "")

	require.Len(t, got.Groups, 1)
	assert.Equal(t, "bug", got.Groups[0].Key)
	assert.Len(t, got.Groups[0].Issues, 2)
}

func TestBuildIssueView_LimitAppliesBeforeGrouping(t *testing.T) {
	issues := []model.Issue{
		{Identifier: "ENG-1", ProjectName: "Alpha"},
		{Identifier: "ENG-2", ProjectName: "Beta"},
		{Identifier: "ENG-3", ProjectName: "Alpha"},
	}
	settings := linearShowAll()
	settings.GroupBy = model.GroupByProject
	settings.ItemLimit = 2

	got := application.BuildIssueView(issues, settings, "")

	require.True(t, got.Grouped)
	// ENG-3 was cut before partitioning, so Alpha holds only ENG-1.
	assert.Equal(t, []string{"Alpha", "Beta"}, groupKeys(got.Groups))
	assert.Equal(t, []string{"ENG-1"}, issueIdentifiers(got.Groups[0].Issues))
}

func TestBuildIssueView_EmptyInput(t *testing.T) {
	settings := linearShowAll()
	settings.GroupBy = model.GroupByStatus

	got := application.BuildIssueView(nil, settings, "")

	assert.True(t, got.Grouped)
	assert.Empty(t, got.Groups)
}
