// Package tracker builds request URLs for the two tracker API dialects.
package tracker

import (
	"fmt"
	"strings"
)

// MaxSearchResults caps the issue search of either dialect
const MaxSearchResults = 500

// Dialect is one URL convention for reaching the tracker
type Dialect interface {
	Name() string
	ProjectsURL(base string) string
	SprintsURL(base, project string) string
	IssuesURL(base, project, sprint string) string
}

// Select returns the dialect named by the persisted isAJAXtoGreenHopper flag
func Select(isAJAXtoGreenHopper bool) Dialect {
	if isAJAXtoGreenHopper {
		return GreenHopper{}
	}
	return Standard{}
}

// Standard is the plain REST v2 dialect: projects and fix versions
type Standard struct{}

func (Standard) Name() string { return "standard" }

func (Standard) ProjectsURL(base string) string {
	return trimBase(base) + "/rest/api/2/project/"
}

func (Standard) SprintsURL(base, project string) string {
	return fmt.Sprintf("%s/rest/api/2/project/%s/versions", trimBase(base), project)
}

func (Standard) IssuesURL(base, project, sprint string) string {
	return fmt.Sprintf("%s/rest/api/2/search?jql=project=%s+and+fixVersion=%s&&maxResults=%d",
		trimBase(base), project, sprint, MaxSearchResults)
}

// GreenHopper is the AJAX-to-GreenHopper dialect: rapid views and sprints
type GreenHopper struct{}

func (GreenHopper) Name() string { return "greenhopper" }

func (GreenHopper) ProjectsURL(base string) string {
	return trimBase(base) + "/rest/greenhopper/1.0/rapidview"
}

func (GreenHopper) SprintsURL(base, project string) string {
	return fmt.Sprintf("%s/rest/greenhopper/1.0/sprintquery/%s?includeFutureSprints=true&includeHistoricSprints=false",
		trimBase(base), project)
}

func (GreenHopper) IssuesURL(base, _, sprint string) string {
	return fmt.Sprintf("%s/rest/api/2/search?jql=Sprint=%s&&maxResults=%d",
		trimBase(base), sprint, MaxSearchResults)
}

func trimBase(base string) string {
	return strings.TrimRight(base, "/")
}
