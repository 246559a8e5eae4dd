package services

import (
	"context"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2" // nolint
	. "github.com/onsi/gomega"    // nolint
	"github.com/rs/zerolog"

	"scrum-cards/internal/eventloop"
	"scrum-cards/internal/models"
	"scrum-cards/internal/repositories"
)

const (
	standardProjects = `[
		{"id": "3", "key": "ZED", "name": "zed"},
		{"id": "1", "key": "ABC", "name": "Alpha"},
		{"id": "2", "key": "BET", "name": "beta"}
	]`
	standardVersions = `[
		{"id": "10", "name": "Sprint 1"},
		{"id": "11", "name": "Sprint 2"},
		{"id": "12", "name": "sprint 10"}
	]`
	searchResult = `{"issues": [
		{"key": "ABC-1", "fields": {"summary": "one", "assignee": {"displayName": "Zoe"}}},
		{"key": "ABC-2", "fields": {"summary": "two"}},
		{"key": "ABC-3", "fields": {"summary": "three", "assignee": {"displayName": "Adam"}}}
	]}`
)

var _ = Describe("Session", func() {
	var (
		ctx     context.Context
		cancel  context.CancelFunc
		loop    *eventloop.Loop
		kv      *repositories.MemoryStore
		ui      *recordingUI
		tracker *fakeTracker
		session *Session
	)

	newSession := func() *Session {
		repo := repositories.NewJiraRepositoryWithClient(&http.Client{Timeout: 5 * time.Second}, zerolog.Nop())
		store := NewConfigurationStore(kv, OnLoop(loop, ui), zerolog.Nop())
		return NewSession(loop, store, repo, ui, zerolog.Nop())
	}

	saveRecord := func(record models.SettingsRecord) {
		data, err := record.Encode()
		Expect(err).ToNot(HaveOccurred())
		Expect(kv.Set(ctx, models.SettingsKey, data)).To(Succeed())
	}

	runUntilIdle := func() {
		Expect(loop.RunUntilIdle(ctx)).To(Succeed())
	}

	BeforeEach(func() {
		ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		loop = eventloop.New()
		kv = repositories.NewMemoryStore()
		ui = &recordingUI{}
		tracker = newFakeTracker(map[string]string{
			"/rest/api/2/project/":             standardProjects,
			"/rest/api/2/project/ABC/versions": standardVersions,
			"/rest/api/2/project/ZED/versions": `[{"id": "30", "name": "Z"}]`,
			"/rest/api/2/search":               searchResult,
		})
		session = newSession()
	})

	AfterEach(func() {
		tracker.Close()
		cancel()
	})

	Context("without a saved record", func() {
		It("applies the defaults and asks for configuration without querying the tracker", func() {
			session.Start(ctx)
			runUntilIdle()

			Expect(session.Cards.Ready()).To(BeTrue())
			settings, _ := session.Cards.Settings()
			Expect(settings).To(Equal(models.DefaultCardSettings()))
			Expect(session.ConfigurationRequested()).To(BeTrue())
			Expect(ui.dialogs).To(Equal(1))
			Expect(ui.Messages()).To(BeEmpty())
			Expect(tracker.TotalHits()).To(BeZero())
		})
	})

	Context("with a saved record", func() {
		BeforeEach(func() {
			saveRecord(models.SettingsRecord{
				JiraURL:         tracker.URL + "/",
				JiraProject:     "ABC",
				JiraProjectName: "beta",
				ScrumCard:       models.DefaultCardSettings(),
			})
		})

		It("loads projects, sprints and the issues of the newest sprint", func() {
			session.Start(ctx)
			runUntilIdle()

			Expect(ui.Messages()).To(ConsistOf("All user options were loaded."))
			Expect(ui.durations).To(ConsistOf(DefaultMessageDuration))
			Expect(session.ConfigurationRequested()).To(BeFalse())

			Expect(names(session.Projects(), projectName)).To(Equal([]string{"Alpha", "beta", "zed"}))
			Expect(session.SelectedProject()).To(Equal(1))
			Expect(ui.projectsPlaceholder).To(Equal("downloading ..."))

			Expect(names(session.Sprints(), sprintName)).To(Equal([]string{"Sprint 2", "sprint 10", "Sprint 1"}))
			Expect(session.JiraSprint()).To(Equal("11"))
			Expect(tracker.QueryContaining("jql=project=ABC+and+fixVersion=11&&maxResults=500")).To(BeTrue())

			Expect(session.Issues()).To(HaveLen(3))
			Expect(session.Assignees()).To(Equal([]string{"All", "Unassigned", "Zoe", "Adam"}))
			Expect(ui.busy).To(Equal([]bool{true, false}))
		})

		It("saves the selected project with the current card settings", func() {
			session.Start(ctx)
			runUntilIdle()

			session.SelectProject(ctx, "ZED", "zed")
			session.UpdateCardSettings(func(s *models.CardSettings) { s.FontSize = 26 })
			session.Save(ctx)
			runUntilIdle()

			Expect(session.JiraSprint()).To(Equal("30"))
			Expect(ui.Messages()).To(ContainElement("All user options were saved."))

			data, err := kv.Get(ctx, models.SettingsKey)
			Expect(err).ToNot(HaveOccurred())
			stored, missing, err := models.DecodeSettingsRecord(data)
			Expect(err).ToNot(HaveOccurred())
			Expect(missing).To(BeEmpty())
			Expect(stored.JiraProject).To(Equal("ZED"))
			Expect(stored.JiraProjectName).To(Equal("zed"))
			Expect(stored.ScrumCard.FontSize).To(Equal(26))
		})

		It("deletes the record and falls back to the defaults on reset", func() {
			session.Start(ctx)
			runUntilIdle()
			session.UpdateCardSettings(func(s *models.CardSettings) { s.FontSize = 40 })
			session.Reset(ctx)
			runUntilIdle()

			_, err := kv.Get(ctx, models.SettingsKey)
			Expect(err).To(MatchError(repositories.ErrNotFound))
			settings, _ := session.Cards.Settings()
			Expect(settings).To(Equal(models.DefaultCardSettings()))
			Expect(session.JiraURL()).To(BeEmpty())
			Expect(session.ConfigurationRequested()).To(BeTrue())
			Expect(ui.Messages()).To(ContainElement("All user options were deleted."))
		})
	})

	Context("when answers arrive after the query changed", func() {
		BeforeEach(func() {
			tracker.delay = 400 * time.Millisecond
			saveRecord(models.SettingsRecord{
				JiraURL:         tracker.URL,
				JiraProject:     "ABC",
				JiraProjectName: "Alpha",
				ScrumCard:       models.DefaultCardSettings(),
			})
		})

		It("drops the project list of a URL that was cleared", func() {
			session.Start(ctx)
			loop.After(ProjectQueryDelay+150*time.Millisecond, func() {
				session.SetURL(ctx, "")
			})
			runUntilIdle()

			Expect(tracker.Hits("/rest/api/2/project/")).To(Equal(1))
			Expect(session.Projects()).To(BeEmpty())
			Expect(session.SelectedProject()).To(Equal(-1))
		})

		It("keeps nothing of the deleted configuration after a reset", func() {
			session.Start(ctx)
			loop.After(ProjectQueryDelay+150*time.Millisecond, func() {
				session.Reset(ctx)
			})
			runUntilIdle()

			Expect(tracker.Hits("/rest/api/2/project/")).To(Equal(1))
			Expect(tracker.Hits("/rest/api/2/search")).To(BeZero())
			Expect(session.Projects()).To(BeEmpty())
			Expect(session.Sprints()).To(BeEmpty())
			Expect(session.Issues()).To(BeEmpty())

			record, err := session.Record()
			Expect(err).ToNot(HaveOccurred())
			Expect(record).To(Equal(models.SettingsRecord{ScrumCard: models.DefaultCardSettings()}))
		})

		It("lowers the busy flag of a dropped issue request", func() {
			session.Start(ctx)
			// the sprint answer arrives at about 400ms and starts the issue request
			loop.After(600*time.Millisecond, func() {
				session.SelectProject(ctx, "", "")
			})
			runUntilIdle()

			Expect(ui.busy).To(Equal([]bool{true, false}))
			Expect(session.Issues()).To(BeEmpty())
		})
	})

	It("never sends the project query for an empty URL", func() {
		saveRecord(models.SettingsRecord{JiraProject: "ABC", JiraProjectName: "Alpha", ScrumCard: models.DefaultCardSettings()})
		session.Start(ctx)
		session.SetURL(ctx, "")
		runUntilIdle()

		Expect(tracker.TotalHits()).To(BeZero())
		Expect(session.Projects()).To(BeEmpty())
		Expect(session.ConfigurationRequested()).To(BeTrue())
	})

	It("skips the project query for an invalid URL", func() {
		session.SetURL(ctx, "not a url")
		runUntilIdle()

		Expect(tracker.TotalHits()).To(BeZero())
		Expect(ui.Messages()).To(BeEmpty())
	})

	It("only queries projects once for quick URL edits", func() {
		session.SetURL(ctx, tracker.URL+"/a")
		session.SetURL(ctx, tracker.URL+"/b")
		session.SetURL(ctx, tracker.URL)
		runUntilIdle()

		Expect(tracker.TotalHits()).To(Equal(1))
		Expect(tracker.Hits("/rest/api/2/project/")).To(Equal(1))
		Expect(session.Projects()).To(HaveLen(3))
	})

	It("switches endpoints with the dialect", func() {
		ghTracker := newFakeTracker(map[string]string{
			"/rest/greenhopper/1.0/rapidview":     `{"views": [{"id": 7, "name": "Board"}]}`,
			"/rest/greenhopper/1.0/sprintquery/7": `{"sprints": [{"id": 5, "name": "S5"}, {"id": 6, "name": "S6"}]}`,
			"/rest/api/2/search":                  searchResult,
		})
		defer ghTracker.Close()

		saveRecord(models.SettingsRecord{
			JiraURL:             ghTracker.URL,
			JiraProject:         "7",
			JiraProjectName:     "Board",
			IsAJAXtoGreenHopper: true,
			ScrumCard:           models.DefaultCardSettings(),
		})
		session.Start(ctx)
		runUntilIdle()

		Expect(session.Dialect().Name()).To(Equal("greenhopper"))
		Expect(session.Projects()[0].Value).To(Equal("7"))
		Expect(session.JiraSprint()).To(Equal("6"))
		Expect(ghTracker.QueryContaining("includeFutureSprints=true&includeHistoricSprints=false")).To(BeTrue())
		Expect(ghTracker.QueryContaining("jql=Sprint=6&&maxResults=500")).To(BeTrue())
		Expect(session.Assignees()).To(HaveLen(4))
	})

	Context("when the tracker cannot be used", func() {
		It("clears the lists and reports a missing connection", func() {
			tracker.Close()
			saveRecord(models.SettingsRecord{
				JiraURL:         tracker.URL,
				JiraProject:     "ABC",
				JiraProjectName: "Alpha",
				ScrumCard:       models.DefaultCardSettings(),
			})
			session.Start(ctx)
			runUntilIdle()

			Expect(session.Projects()).To(BeEmpty())
			Expect(session.Sprints()).To(BeEmpty())
			Expect(ui.Messages()).To(ContainElement("It seems that you don't have internet connection, please try again later."))
		})

		It("reports a proxy for empty answers", func() {
			tracker.bodies["/rest/api/2/project/"] = `null`
			tracker.bodies["/rest/api/2/project/ABC/versions"] = ``
			saveRecord(models.SettingsRecord{
				JiraURL:         tracker.URL,
				JiraProject:     "ABC",
				JiraProjectName: "Alpha",
				ScrumCard:       models.DefaultCardSettings(),
			})
			session.Start(ctx)
			runUntilIdle()

			Expect(session.Projects()).To(BeEmpty())
			Expect(session.Sprints()).To(BeEmpty())
			Expect(ui.Messages()).To(ContainElement("It seems that you don't have internet connection or you are behind a proxy."))
			Expect(tracker.Hits("/rest/api/2/search")).To(BeZero())
		})

		It("tells the user when a project has no sprints", func() {
			tracker.bodies["/rest/api/2/project/ABC/versions"] = `[]`
			saveRecord(models.SettingsRecord{
				JiraURL:         tracker.URL,
				JiraProject:     "ABC",
				JiraProjectName: "Alpha",
				ScrumCard:       models.DefaultCardSettings(),
			})
			session.Start(ctx)
			runUntilIdle()

			Expect(ui.Messages()).To(ContainElement("There are no available sprints in this project."))
			Expect(ui.sprintsPlaceholder).To(Equal("No available sprints ..."))
			Expect(tracker.Hits("/rest/api/2/search")).To(BeZero())
		})
	})

	It("rejects an empty message and defaults the duration", func() {
		session.showMessage("", time.Second)
		session.showMessage("hello", 0)
		session.showMessage("later", time.Second)

		Expect(ui.Messages()).To(Equal([]string{"hello", "later"}))
		Expect(ui.durations).To(Equal([]time.Duration{DefaultMessageDuration, time.Second}))
	})
})
