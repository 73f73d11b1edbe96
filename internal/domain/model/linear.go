package model

import "time"

// AssignmentFilter narrows the issue-tracker plugin's list by the viewer's
// relationship to each issue.
type AssignmentFilter string

const (
	AssignmentAll        AssignmentFilter = "all"
	AssignmentAssignedMe AssignmentFilter = "assigned_to_me"
	AssignmentCreatedMe  AssignmentFilter = "created_by_me"
)

// IssueGroupBy selects how the issue-tracker plugin partitions its list.
type IssueGroupBy string

const (
	GroupByNone     IssueGroupBy = "none"
	GroupByStatus   IssueGroupBy = "status"
	GroupByPriority IssueGroupBy = "priority"
	GroupByLabel    IssueGroupBy = "label"
	GroupByProject  IssueGroupBy = "project"
)

// Fallback group keys for issues missing the configured grouping field.
const (
	GroupKeyUnknownStatus = "Unknown"
	GroupKeyNoPriority    = "No Priority"
	GroupKeyNoLabel       = "No Label"
	GroupKeyNoProject     = "No Project"
)

// LinearSettings is the issue-tracker plugin's settings record.
type LinearSettings struct {
	TeamFilter          string           `json:"teamFilter"`
	AssignmentFilter    AssignmentFilter `json:"assignmentFilter"`
	StatusTypeAllowList []string         `json:"statusTypeAllowList"`
	GroupBy             IssueGroupBy     `json:"groupBy"`
	ItemLimit           int              `json:"itemLimit"`
}

// DefaultLinearSettings returns the fully populated default record.
// Completed and canceled statuses are hidden by default.
func DefaultLinearSettings() LinearSettings {
	return LinearSettings{
		TeamFilter:          "",
		AssignmentFilter:    AssignmentAssignedMe,
		StatusTypeAllowList: []string{"triage", "backlog", "unstarted", "started"},
		GroupBy:             GroupByStatus,
		ItemLimit:           50,
	}
}

// LinearSettingsPatch is a partial LinearSettings. Nil fields leave the
// previous value untouched; a present StatusTypeAllowList replaces the list.
type LinearSettingsPatch struct {
	TeamFilter          *string           `json:"teamFilter"`
	AssignmentFilter    *AssignmentFilter `json:"assignmentFilter"`
	StatusTypeAllowList *[]string         `json:"statusTypeAllowList"`
	GroupBy             *IssueGroupBy     `json:"groupBy"`
	ItemLimit           *int              `json:"itemLimit"`
}

// Merge applies p onto s field by field and returns the merged record.
// The receiver is not modified.
func (s LinearSettings) Merge(p LinearSettingsPatch) LinearSettings {
	if p.TeamFilter != nil {
		s.TeamFilter = *p.TeamFilter
	}
	if p.AssignmentFilter != nil {
		s.AssignmentFilter = *p.AssignmentFilter
	}
	if p.StatusTypeAllowList != nil {
		s.StatusTypeAllowList = append([]string(nil), (*p.StatusTypeAllowList)...)
	}
	if p.GroupBy != nil {
		s.GroupBy = *p.GroupBy
	}
	if p.ItemLimit != nil {
		s.ItemLimit = *p.ItemLimit
	}
	return s
}

// Issue is an issue-tracker work item supplied by the entity data source.
type Issue struct {
	ID            string
	Identifier    string
	Title         string
	Description   string
	TeamKey       string
	AssigneeName  string
	CreatorName   string
	StatusName    string
	StatusType    string
	Priority      int
	PriorityLabel string
	Labels        []string
	ProjectName   string
	URL           string
	UpdatedAt     time.Time
}

// IssueGroup is one named partition of a grouped issue view.
type IssueGroup struct {
	Key    string
	Issues []Issue
}

// IssueView is the derived view of the issue-tracker plugin: a flat sequence
// when grouping is off, otherwise named groups in first-occurrence order.
type IssueView struct {
	Grouped bool
	Items   []Issue
	Groups  []IssueGroup
}
