package tracker

// Query holds the parameters every tracker request is built from
type Query struct {
	Dialect Dialect
	BaseURL string
	Project string
	Sprint  string
}

// Projects returns the project (rapid view) list URL. The caller must abort
// the request instead of sending it when BaseURL is empty.
func (q Query) Projects() string {
	return q.Dialect.ProjectsURL(q.BaseURL)
}

// Sprints returns the sprint list URL, or false when URL or project is unset
func (q Query) Sprints() (string, bool) {
	if q.BaseURL == "" || q.Project == "" {
		return "", false
	}
	return q.Dialect.SprintsURL(q.BaseURL, q.Project), true
}

// Issues returns the issue search URL, or false when URL, project or sprint is unset
func (q Query) Issues() (string, bool) {
	if q.BaseURL == "" || q.Project == "" || q.Sprint == "" {
		return "", false
	}
	return q.Dialect.IssuesURL(q.BaseURL, q.Project, q.Sprint), true
}
