package application

import (
	"slices"

	"github.com/ericfisherdev/paneldock/internal/domain/model"
)

// BuildIssueView derives the issue-tracker plugin's view: filter, cap, then
// optionally partition into named groups. The item limit applies to the flat
// filtered sequence; grouping partitions the capped sequence. Group order is
// first-occurrence order, not alphabetical — the first issue seen for a new
// key opens that group. username is the viewer the assignment filter is
// evaluated against.
func BuildIssueView(issues []model.Issue, settings model.LinearSettings, username string) model.IssueView {
	filtered := make([]model.Issue, 0, len(issues))
	for _, issue := range issues {
		if settings.TeamFilter != "" && issue.TeamKey != settings.TeamFilter {
			continue
		}
		if len(settings.StatusTypeAllowList) > 0 && !slices.Contains(settings.StatusTypeAllowList, issue.StatusType) {
			continue
		}
		if !matchesAssignment(issue, settings.AssignmentFilter, username) {
			continue
		}
		filtered = append(filtered, issue)
	}
	filtered = capItems(filtered, settings.ItemLimit)

	if settings.GroupBy == model.GroupByNone || settings.GroupBy == "" {
		return model.IssueView{Items: filtered}
	}

	var groups []model.IssueGroup
	index := make(map[string]int)
	for _, issue := range filtered {
		key := groupKey(issue, settings.GroupBy)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, model.IssueGroup{Key: key})
		}
		groups[i].Issues = append(groups[i].Issues, issue)
	}

	return model.IssueView{Grouped: true, Groups: groups}
}

func matchesAssignment(issue model.Issue, filter model.AssignmentFilter, username string) bool {
	switch filter {
	case model.AssignmentAssignedMe:
		return username != "" && issue.AssigneeName == username
	case model.AssignmentCreatedMe:
		return username != "" && issue.CreatorName == username
	default:
		return true
	}
}

// groupKey extracts the group name for an issue. Issues missing the
// configured field land in a documented fallback group instead of being
// dropped.
func groupKey(issue model.Issue, by model.IssueGroupBy) string {
	switch by {
	case model.GroupByStatus:
		if issue.StatusName == "" {
			return model.GroupKeyUnknownStatus
		}
		return issue.StatusName
	case model.GroupByPriority:
		if issue.PriorityLabel == "" {
			return model.GroupKeyNoPriority
		}
		return issue.PriorityLabel
	case model.GroupByLabel:
		if len(issue.Labels) == 0 {
			return model.GroupKeyNoLabel
		}
		return issue.Labels[0]
	case model.GroupByProject:
		if issue.ProjectName == "" {
			return model.GroupKeyNoProject
		}
		return issue.ProjectName
	}
	return model.GroupKeyUnknownStatus
}
