package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"scrum-cards/internal/eventloop"
	"scrum-cards/internal/models"
	"scrum-cards/internal/repositories"
	"scrum-cards/internal/tracker"
)

// ProjectQueryDelay lets a just-edited URL settle before projects are requested
const ProjectQueryDelay = 100 * time.Millisecond

// TrackerRepository prepares and sends tracker GET requests
type TrackerRepository interface {
	NewRequest(ctx context.Context, rawURL string) *repositories.Request
	Send(req *repositories.Request) (*repositories.Response, error)
}

// Session is the application state of one run. Every exported mutator posts
// its work to the event loop; the getters must be called from a loop task or
// while the loop is idle.
type Session struct {
	loop  *eventloop.Loop
	store *ConfigurationStore
	repo  TrackerRepository
	ui    UI
	log   zerolog.Logger

	Cards *CardSettingsModel

	jiraURL             string
	jiraProject         string
	jiraProjectName     string
	jiraSprint          string
	isAJAXtoGreenHopper bool
	dialect             tracker.Dialect

	projects        []models.Project
	selectedProject int
	sprints         []models.Sprint
	issues          []models.Issue
	assignees       []string

	configurationRequested bool

	cancelProjectQuery func()
	projectsGen        int
	sprintsGen         int
	issuesGen          int
	issuesBusy         bool
}

// NewSession builds the session state. Card settings start out empty until
// Start has loaded them or fallen back to the defaults.
func NewSession(loop *eventloop.Loop, store *ConfigurationStore, repo TrackerRepository, ui UI, log zerolog.Logger) *Session {
	return &Session{
		loop:            loop,
		store:           store,
		repo:            repo,
		ui:              ui,
		log:             log,
		Cards:           NewCardSettingsModel(),
		dialect:         tracker.Select(false),
		selectedProject: -1,
	}
}

// Start loads the saved settings and, when present, queries projects and sprints
func (s *Session) Start(ctx context.Context) {
	s.loop.Post(func() {
		s.loop.Go(func() func() {
			record, err := s.store.Load(ctx)
			return func() { s.onSettingsLoaded(ctx, record, err) }
		})
	})
}

func (s *Session) onSettingsLoaded(ctx context.Context, record *models.SettingsRecord, err error) {
	if err != nil {
		s.log.Error().Err(err).Msg("could not load settings")
		s.showMessage("Saved options could not be read, defaults are used.", 0)
		record = nil
	}

	if record == nil {
		s.Cards.ApplyDefaults()
		s.checkSettings()
		return
	}

	s.jiraURL = record.JiraURL
	s.jiraProject = record.JiraProject
	s.jiraProjectName = record.JiraProjectName
	s.setDialect(record.IsAJAXtoGreenHopper)
	s.Cards.Replace(record.ScrumCard)

	s.showMessage("All user options were loaded.", 0)

	s.scheduleProjects(ctx)
	s.requestSprints(ctx)
	s.checkSettings()
}

// SetURL changes the tracker base URL and re-queries projects
func (s *Session) SetURL(ctx context.Context, rawURL string) {
	s.loop.Post(func() {
		s.jiraURL = rawURL
		s.scheduleProjects(ctx)
	})
}

// SetGreenHopper switches the tracker dialect and re-queries projects
func (s *Session) SetGreenHopper(ctx context.Context, enabled bool) {
	s.loop.Post(func() {
		s.setDialect(enabled)
		s.scheduleProjects(ctx)
	})
}

// SelectProject handles activation of a project item and loads its sprints
func (s *Session) SelectProject(ctx context.Context, value, label string) {
	s.loop.Post(func() {
		s.jiraProject = value
		s.jiraProjectName = label
		s.selectedProject = -1
		for i, p := range s.projects {
			if p.Value == value {
				s.selectedProject = i
				break
			}
		}
		s.requestSprints(ctx)
	})
}

// SelectSprint handles activation of a sprint item and loads its issues
func (s *Session) SelectSprint(ctx context.Context, value string) {
	s.loop.Post(func() {
		s.jiraSprint = value
		s.requestIssues(ctx)
	})
}

// UpdateCardSettings edits the card appearance
func (s *Session) UpdateCardSettings(fn func(*models.CardSettings)) {
	s.loop.Post(func() {
		if err := s.Cards.Update(fn); err != nil {
			s.log.Warn().Err(err).Msg("card settings edited before they were loaded")
		}
	})
}

// Save persists the current state as the settings record
func (s *Session) Save(ctx context.Context) {
	s.loop.Post(func() {
		record, err := s.Record()
		if err != nil {
			s.log.Warn().Err(err).Msg("nothing to save yet")
			s.showMessage("Options are still loading, please try again.", 0)
			return
		}

		s.loop.Go(func() func() {
			err := s.store.Save(ctx, record)
			return func() {
				if err != nil {
					s.log.Error().Err(err).Msg("could not save settings")
					s.showMessage("Options could not be saved: "+err.Error(), 0)
				}
			}
		})
	})
}

// Reset deletes the saved record and falls back to the defaults in memory
func (s *Session) Reset(ctx context.Context) {
	s.loop.Post(func() {
		s.loop.Go(func() func() {
			err := s.store.Remove(ctx)
			return func() {
				if err != nil {
					s.log.Error().Err(err).Msg("could not remove settings")
					s.showMessage("Options could not be deleted: "+err.Error(), 0)
					return
				}
				if s.cancelProjectQuery != nil {
					s.cancelProjectQuery()
					s.cancelProjectQuery = nil
				}
				s.jiraURL = ""
				s.jiraProject = ""
				s.jiraProjectName = ""
				s.jiraSprint = ""
				s.setDialect(false)
				s.dropProjects()
				s.dropSprints()
				s.dropIssues()
				s.Cards.ApplyDefaults()
				s.checkSettings()
			}
		})
	})
}

// Record returns the settings record the session would save
func (s *Session) Record() (models.SettingsRecord, error) {
	cards, err := s.Cards.Settings()
	if err != nil {
		return models.SettingsRecord{}, err
	}

	project, projectName := s.jiraProject, s.jiraProjectName
	if s.selectedProject >= 0 && s.selectedProject < len(s.projects) {
		selected := s.projects[s.selectedProject]
		project, projectName = selected.Value, selected.Label()
	}

	return models.SettingsRecord{
		JiraURL:             s.jiraURL,
		JiraProject:         project,
		JiraProjectName:     projectName,
		IsAJAXtoGreenHopper: s.isAJAXtoGreenHopper,
		ScrumCard:           cards,
	}, nil
}

func (s *Session) JiraURL() string            { return s.jiraURL }
func (s *Session) JiraProject() string        { return s.jiraProject }
func (s *Session) JiraProjectName() string    { return s.jiraProjectName }
func (s *Session) JiraSprint() string         { return s.jiraSprint }
func (s *Session) IsAJAXtoGreenHopper() bool  { return s.isAJAXtoGreenHopper }
func (s *Session) Dialect() tracker.Dialect   { return s.dialect }
func (s *Session) Projects() []models.Project { return s.projects }
func (s *Session) Sprints() []models.Sprint   { return s.sprints }
func (s *Session) Issues() []models.Issue     { return s.issues }
func (s *Session) Assignees() []string        { return s.assignees }

// SelectedProject returns the preselected project index, or -1
func (s *Session) SelectedProject() int { return s.selectedProject }

// ConfigurationRequested reports whether the configuration dialog was opened
func (s *Session) ConfigurationRequested() bool { return s.configurationRequested }

func (s *Session) setDialect(greenHopper bool) {
	s.isAJAXtoGreenHopper = greenHopper
	s.dialect = tracker.Select(greenHopper)
}

func (s *Session) query() tracker.Query {
	return tracker.Query{
		Dialect: s.dialect,
		BaseURL: s.jiraURL,
		Project: s.jiraProject,
		Sprint:  s.jiraSprint,
	}
}

// checkSettings opens the configuration dialog when the tracker is not fully configured
func (s *Session) checkSettings() {
	if s.jiraURL == "" || s.jiraProject == "" || s.jiraProjectName == "" {
		s.configurationRequested = true
		s.ui.OpenConfigurationDialog()
	}
}

func (s *Session) showMessage(text string, duration time.Duration) {
	if text == "" {
		s.log.Warn().Msg("some text must be given to show a message")
		return
	}
	if duration <= 0 {
		duration = DefaultMessageDuration
	}
	s.ui.ShowMessage(text, duration)
}
