package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID holds tracker identifiers, which arrive either as JSON strings or numbers
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// Project is a tracker project, or a rapid view in the GreenHopper dialect
type Project struct {
	ID    ID     `json:"id"`
	Key   string `json:"key,omitempty"`
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// Label is the display text used by project pickers
func (p Project) Label() string {
	return p.Name
}

// Sprint is a fix version, or a sprint in the GreenHopper dialect
type Sprint struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	State string `json:"state,omitempty"`
}

// Issue is a single search hit from the tracker
type Issue struct {
	Key    string      `json:"key"`
	Fields IssueFields `json:"fields"`
}

// IssueFields represents the issue fields a scrum card shows
type IssueFields struct {
	Summary              string    `json:"summary"`
	Description          string    `json:"description"`
	TimeOriginalEstimate Seconds   `json:"timeoriginalestimate"`
	IssueType            IssueType `json:"issuetype"`
	Parent               *Parent   `json:"parent,omitempty"`
	Priority             *Named    `json:"priority,omitempty"`
	FixVersions          []Named   `json:"fixVersions,omitempty"`
	Assignee             *User     `json:"assignee,omitempty"`
}

// IssueType represents an issue type
type IssueType struct {
	Name    string `json:"name"`
	Subtask bool   `json:"subtask"`
}

// Parent is the parent of a sub-task
type Parent struct {
	Key    string `json:"key"`
	Fields struct {
		Summary string `json:"summary"`
	} `json:"fields"`
}

// Named is any tracker object carried only by its name
type Named struct {
	Name string `json:"name"`
}

// User represents a tracker user
type User struct {
	DisplayName string `json:"displayName"`
}

// AssigneeName returns the assignee display name, or "" when unassigned
func (i Issue) AssigneeName() string {
	if i.Fields.Assignee == nil {
		return ""
	}
	return i.Fields.Assignee.DisplayName
}

// Seconds is a duration in seconds that may arrive as a number, a numeric string or null
type Seconds int64

func (s *Seconds) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*s = 0
		return nil
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		if raw == "" {
			*s = 0
			return nil
		}
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid seconds value %q: %w", raw, err)
	}
	*s = Seconds(n)
	return nil
}

// SearchResult is the payload of the issue search endpoint
type SearchResult struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

// DemoIssue is the sample card shown when previewing the appearance settings
func DemoIssue() Issue {
	issue := Issue{
		Key: "302",
		Fields: IssueFields{
			Summary:              "This is the task summary",
			Description:          "This is some description about the task. Lorem ipsum dolor sit amet, consectetur adipisicing elit!",
			TimeOriginalEstimate: 21600,
			IssueType:            IssueType{Name: "Task", Subtask: true},
			Priority:             &Named{Name: "Medium"},
			FixVersions:          []Named{{Name: "1.20"}, {Name: "1.30"}},
			Assignee:             &User{DisplayName: "John Doe"},
		},
	}
	issue.Fields.Parent = &Parent{Key: "298"}
	issue.Fields.Parent.Fields.Summary = "Backlog Item"
	return issue
}
