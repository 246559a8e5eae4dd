package services

import (
	"context"
	"errors"

	"scrum-cards/internal/helpers"
	"scrum-cards/internal/repositories"
)

const (
	projectsPlaceholder   = "downloading ..."
	noSprintsPlaceholder  = "No available sprints ..."
	projectQueryAbortedBy = "empty tracker URL"
)

// scheduleProjects (re)arms the delayed project query. Only the last call
// within ProjectQueryDelay reaches the tracker.
func (s *Session) scheduleProjects(ctx context.Context) {
	if s.cancelProjectQuery != nil {
		s.cancelProjectQuery()
	}

	s.dropProjects()
	s.ui.SetProjectsPlaceholder(projectsPlaceholder)

	s.cancelProjectQuery = s.loop.After(ProjectQueryDelay, func() {
		s.cancelProjectQuery = nil
		s.requestProjects(ctx)
	})
}

// dropProjects clears the project list and makes any answer still in flight stale
func (s *Session) dropProjects() {
	s.projectsGen++
	s.projects = nil
	s.selectedProject = -1
}

// dropSprints clears the sprint list and makes any answer still in flight stale
func (s *Session) dropSprints() {
	s.sprintsGen++
	s.sprints = nil
}

// dropIssues clears the issues and makes any answer still in flight stale.
// The busy flag raised for a dropped request is lowered here.
func (s *Session) dropIssues() {
	s.issuesGen++
	s.issues = nil
	s.assignees = nil
	if s.issuesBusy {
		s.issuesBusy = false
		s.ui.SetBusy(false)
	}
}

func (s *Session) requestProjects(ctx context.Context) {
	req := s.repo.NewRequest(ctx, s.query().Projects())

	if s.jiraURL == "" {
		req.Abort()
		s.log.Debug().Str("reason", projectQueryAbortedBy).Msg("project query aborted")
		return
	}
	if !helpers.IsValidHTTPURL(s.jiraURL) {
		req.Abort()
		s.log.Warn().Str("url", s.jiraURL).Msg("tracker URL is not valid, project query skipped")
		return
	}

	gen := s.projectsGen
	s.send(req, func(resp *repositories.Response) {
		if gen != s.projectsGen {
			return
		}
		s.onProjectsResponse(resp)
	})
}

func (s *Session) onProjectsResponse(resp *repositories.Response) {
	message, ok := CheckResponse(resp)
	if !ok {
		s.projects = nil
		s.showMessage(message, 0)
		return
	}

	projects, err := NormalizeProjects(resp.Body)
	if err != nil {
		s.log.Error().Err(err).Msg("unexpected project list")
		s.projects = nil
		s.showMessage(msgBehindProxy, 0)
		return
	}

	s.projects = projects
	s.selectedProject = SelectSavedProject(projects, s.jiraProjectName)
	s.log.Debug().Int("projects", len(projects)).Int("selected", s.selectedProject).Msg("projects loaded")
}

func (s *Session) requestSprints(ctx context.Context) {
	s.dropSprints()
	s.dropIssues()

	rawURL, ok := s.query().Sprints()
	if !ok {
		return
	}

	gen := s.sprintsGen
	s.send(s.repo.NewRequest(ctx, rawURL), func(resp *repositories.Response) {
		if gen != s.sprintsGen {
			return
		}
		s.onSprintsResponse(ctx, resp)
	})
}

func (s *Session) onSprintsResponse(ctx context.Context, resp *repositories.Response) {
	message, ok := CheckResponse(resp)
	if !ok {
		s.sprints = nil
		s.showMessage(message, 0)
		return
	}

	sprints, err := NormalizeSprints(resp.Body)
	if err != nil {
		s.log.Error().Err(err).Msg("unexpected sprint list")
		s.sprints = nil
		s.showMessage(msgBehindProxy, 0)
		return
	}

	if len(sprints) == 0 {
		s.sprints = nil
		s.showMessage(msgNoSprints, 0)
		s.ui.SetSprintsPlaceholder(noSprintsPlaceholder)
		return
	}

	s.sprints = sprints
	s.jiraSprint = sprints[0].ID.String()
	s.requestIssues(ctx)
}

func (s *Session) requestIssues(ctx context.Context) {
	s.dropIssues()

	rawURL, ok := s.query().Issues()
	if !ok {
		return
	}

	gen := s.issuesGen
	s.issuesBusy = true
	s.ui.SetBusy(true)
	s.send(s.repo.NewRequest(ctx, rawURL), func(resp *repositories.Response) {
		if gen != s.issuesGen {
			return
		}
		s.issuesBusy = false
		s.ui.SetBusy(false)
		s.onIssuesResponse(resp)
	})
}

func (s *Session) onIssuesResponse(resp *repositories.Response) {
	message, ok := CheckResponse(resp)
	if !ok {
		s.issues = nil
		s.assignees = nil
		s.showMessage(message, 0)
		return
	}

	issues, err := DecodeIssues(resp.Body)
	if err != nil {
		s.log.Error().Err(err).Msg("unexpected issue search result")
		s.issues = nil
		s.assignees = nil
		s.showMessage(msgBehindProxy, 0)
		return
	}

	s.issues = issues
	s.assignees = ExtractAssignees(issues)
	s.log.Debug().Int("issues", len(issues)).Int("assignees", len(s.assignees)-2).Msg("issues loaded")
}

// send runs req off the loop and hands the response to handle on the loop.
// An aborted request never reaches handle; any other failure is handled as
// a missing connection.
func (s *Session) send(req *repositories.Request, handle func(*repositories.Response)) {
	s.loop.Go(func() func() {
		resp, err := s.repo.Send(req)
		return func() {
			if errors.Is(err, repositories.ErrAborted) {
				return
			}
			if err != nil {
				s.log.Error().Err(err).Str("url", req.URL).Msg("tracker request could not be sent")
				resp = &repositories.Response{Status: 0}
			}
			handle(resp)
		}
	})
}
