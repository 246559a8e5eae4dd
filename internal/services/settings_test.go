package services

import (
	"context"

	. "github.com/onsi/ginkgo/v2" // nolint
	. "github.com/onsi/gomega"    // nolint
	"github.com/rs/zerolog"

	"scrum-cards/internal/models"
	"scrum-cards/internal/repositories"
)

var _ = Describe("Configuration store", func() {
	var (
		ctx   context.Context
		kv    *repositories.MemoryStore
		ui    *recordingUI
		store *ConfigurationStore
	)

	BeforeEach(func() {
		ctx = context.Background()
		kv = repositories.NewMemoryStore()
		ui = &recordingUI{}
		store = NewConfigurationStore(kv, ui, zerolog.Nop())
	})

	It("reports an absent record without an error", func() {
		record, err := store.Load(ctx)
		Expect(err).ToNot(HaveOccurred())
		Expect(record).To(BeNil())
	})

	It("loads back exactly what was saved", func() {
		saved := models.SettingsRecord{
			JiraURL:             "https://jira.example.com",
			JiraProject:         "ABC",
			JiraProjectName:     "Alpha",
			IsAJAXtoGreenHopper: true,
			ScrumCard:           models.DefaultCardSettings(),
		}
		saved.ScrumCard.FontSize = 14
		saved.ScrumCard.IssueDescription = models.FieldStyle{IsBold: true, IsVisible: true}

		Expect(store.Save(ctx, saved)).To(Succeed())
		Expect(ui.Messages()).To(ConsistOf("All user options were saved."))

		loaded, err := store.Load(ctx)
		Expect(err).ToNot(HaveOccurred())
		Expect(loaded).ToNot(BeNil())
		Expect(*loaded).To(Equal(saved))
	})

	It("fills card fields an older record does not have", func() {
		Expect(kv.Set(ctx, models.SettingsKey, []byte(`{
			"jiraURL": "https://jira.example.com",
			"jiraProject": "ABC",
			"jiraProjectName": "Alpha",
			"isAJAXtoGreenHopper": false,
			"scrumCard": {"fontSize": 30, "issueKey": {"isBold": true}}
		}`))).To(Succeed())

		loaded, err := store.Load(ctx)
		Expect(err).ToNot(HaveOccurred())
		Expect(loaded.ScrumCard.FontSize).To(Equal(30))
		Expect(loaded.ScrumCard.IssueKey).To(Equal(models.FieldStyle{IsBold: true, IsVisible: true}))
		Expect(loaded.ScrumCard.IssueSummary).To(Equal(models.DefaultCardSettings().IssueSummary))
		Expect(loaded.ScrumCard.IssueTimeOriginalEstimate.IsVisible).To(BeFalse())
	})

	It("fails on a record that is not JSON", func() {
		Expect(kv.Set(ctx, models.SettingsKey, []byte(`{broken`))).To(Succeed())
		_, err := store.Load(ctx)
		Expect(err).To(HaveOccurred())
	})

	It("removes the record", func() {
		Expect(store.Save(ctx, models.SettingsRecord{ScrumCard: models.DefaultCardSettings()})).To(Succeed())
		Expect(store.Remove(ctx)).To(Succeed())

		record, err := store.Load(ctx)
		Expect(err).ToNot(HaveOccurred())
		Expect(record).To(BeNil())
		Expect(ui.Messages()).To(Equal([]string{
			"All user options were saved.",
			"All user options were deleted.",
		}))
	})
})

var _ = Describe("Card settings model", func() {
	It("is not ready until settings are applied", func() {
		model := NewCardSettingsModel()
		Expect(model.Ready()).To(BeFalse())

		_, err := model.Settings()
		Expect(err).To(MatchError(ErrSettingsNotReady))
		Expect(model.Update(func(*models.CardSettings) {})).To(MatchError(ErrSettingsNotReady))
	})

	It("applies the default appearance", func() {
		model := NewCardSettingsModel()
		model.ApplyDefaults()

		settings, err := model.Settings()
		Expect(err).ToNot(HaveOccurred())
		Expect(settings.FontSize).To(Equal(20))
		Expect(settings.IssueSummary).To(Equal(models.FieldStyle{IsBold: true, IsVisible: true}))
		Expect(settings.IssueDescription.IsVisible).To(BeFalse())
		Expect(settings.IssueTimeOriginalEstimate.IsVisible).To(BeFalse())
		for _, name := range []string{
			models.FieldIssueType, models.FieldIssueKey, models.FieldParentName, models.FieldParentKey,
			models.FieldIssuePriority, models.FieldIssueFixVersions, models.FieldIssueAssignee,
		} {
			Expect(settings.Style(name)).To(Equal(models.FieldStyle{IsBold: false, IsVisible: true}), name)
		}
	})

	It("notifies observers on replace and update until they unsubscribe", func() {
		model := NewCardSettingsModel()
		var seen []int
		unsubscribe := model.Subscribe(func(s models.CardSettings) {
			seen = append(seen, s.FontSize)
		})

		model.ApplyDefaults()
		Expect(model.Update(func(s *models.CardSettings) { s.FontSize = 25 })).To(Succeed())
		unsubscribe()
		model.Replace(models.CardSettings{FontSize: 40})

		Expect(seen).To(Equal([]int{20, 25}))
		settings, _ := model.Settings()
		Expect(settings.FontSize).To(Equal(40))
	})
})
