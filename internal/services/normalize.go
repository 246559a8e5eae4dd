package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"scrum-cards/internal/models"
	"scrum-cards/internal/repositories"
)

// Assignee filter entries that precede the real names
const (
	AssigneeAll        = "All"
	AssigneeUnassigned = "Unassigned"
)

const (
	msgNoConnection = "It seems that you don't have internet connection, please try again later."
	msgBehindProxy  = "It seems that you don't have internet connection or you are behind a proxy."
	msgNoSprints    = "There are no available sprints in this project."
)

// CheckResponse reports whether resp carries usable data, and the message to
// show the user when it does not
func CheckResponse(resp *repositories.Response) (message string, ok bool) {
	if resp == nil || resp.Status == 0 {
		return msgNoConnection, false
	}
	if resp.Body == nil {
		return msgBehindProxy, false
	}
	return "", true
}

// NormalizeProjects decodes a project or rapid view list, sets each Value
// from the key (or the id when there is none) and sorts by name
func NormalizeProjects(body json.RawMessage) ([]models.Project, error) {
	var projects []models.Project
	if err := decodeList(body, "views", &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}

	for i := range projects {
		if projects[i].Key != "" {
			projects[i].Value = projects[i].Key
		} else {
			projects[i].Value = projects[i].ID.String()
		}
	}

	SortProjects(projects)
	return projects, nil
}

// NormalizeSprints decodes a version or sprint list and sorts it so the
// lexically greatest name comes first
func NormalizeSprints(body json.RawMessage) ([]models.Sprint, error) {
	var sprints []models.Sprint
	if err := decodeList(body, "sprints", &sprints); err != nil {
		return nil, fmt.Errorf("failed to decode sprints: %w", err)
	}

	SortSprints(sprints)
	return sprints, nil
}

// DecodeIssues decodes an issue search result
func DecodeIssues(body json.RawMessage) ([]models.Issue, error) {
	var result models.SearchResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode issues: %w", err)
	}
	return result.Issues, nil
}

// SortProjects orders projects case-insensitively by name, ascending
func SortProjects(projects []models.Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		return strings.ToLower(projects[i].Name) < strings.ToLower(projects[j].Name)
	})
}

// SortSprints orders sprints case-insensitively by name, descending.
// This is a string comparison; it only approximates newest-first.
func SortSprints(sprints []models.Sprint) {
	sort.SliceStable(sprints, func(i, j int) bool {
		return strings.ToLower(sprints[i].Name) > strings.ToLower(sprints[j].Name)
	})
}

// ExtractAssignees returns All, Unassigned and then every distinct assignee
// name in the order first seen
func ExtractAssignees(issues []models.Issue) []string {
	assignees := []string{AssigneeAll, AssigneeUnassigned}
	seen := make(map[string]struct{})

	for _, issue := range issues {
		if issue.Fields.Assignee == nil {
			continue
		}
		name := issue.Fields.Assignee.DisplayName
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		assignees = append(assignees, name)
	}

	return assignees
}

// SelectSavedProject returns the index of the project named name, or 0
func SelectSavedProject(projects []models.Project, name string) int {
	selected := 0
	for i, p := range projects {
		if p.Name == name {
			selected = i
		}
	}
	return selected
}

// decodeList accepts either a bare JSON array or an object wrapping the array in field
func decodeList(body json.RawMessage, field string, target interface{}) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return err
		}
		inner, ok := wrapper[field]
		if !ok {
			return fmt.Errorf("object has no %q list", field)
		}
		trimmed = inner
	}
	return json.Unmarshal(trimmed, target)
}
