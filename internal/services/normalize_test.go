package services

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2" // nolint
	. "github.com/onsi/gomega"    // nolint

	"scrum-cards/internal/models"
	"scrum-cards/internal/repositories"
)

func names[T any](items []T, name func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, name(item))
	}
	return out
}

func projectName(p models.Project) string { return p.Name }
func sprintName(s models.Sprint) string   { return s.Name }

var _ = Describe("Response normalizer", func() {
	Describe("projects", func() {
		It("sorts by name ignoring case and takes the key as value", func() {
			projects, err := NormalizeProjects(json.RawMessage(`[
				{"id": "3", "key": "ZED", "name": "zed"},
				{"id": "1", "key": "ABC", "name": "Alpha"},
				{"id": "2", "name": "beta"}
			]`))
			Expect(err).ToNot(HaveOccurred())
			Expect(names(projects, projectName)).To(Equal([]string{"Alpha", "beta", "zed"}))
			Expect(projects[0].Value).To(Equal("ABC"))
			Expect(projects[1].Value).To(Equal("2"))
		})

		It("unwraps rapid views and uses numeric ids", func() {
			projects, err := NormalizeProjects(json.RawMessage(`{"views": [
				{"id": 12, "name": "Team board"},
				{"id": 7, "name": "Another board"}
			]}`))
			Expect(err).ToNot(HaveOccurred())
			Expect(names(projects, projectName)).To(Equal([]string{"Another board", "Team board"}))
			Expect(projects[0].Value).To(Equal("7"))
		})

		It("rejects an object without views", func() {
			_, err := NormalizeProjects(json.RawMessage(`{"values": []}`))
			Expect(err).To(HaveOccurred())
		})

		It("preselects the saved project by name", func() {
			projects := []models.Project{{Name: "Alpha"}, {Name: "Beta"}, {Name: "Gamma"}}
			Expect(SelectSavedProject(projects, "Gamma")).To(Equal(2))
			Expect(SelectSavedProject(projects, "Missing")).To(Equal(0))
			Expect(SelectSavedProject(nil, "Alpha")).To(Equal(0))
		})
	})

	Describe("sprints", func() {
		It("sorts names descending as strings", func() {
			sprints, err := NormalizeSprints(json.RawMessage(`[
				{"id": 1, "name": "Sprint 1"},
				{"id": 2, "name": "Sprint 2"},
				{"id": 10, "name": "sprint 10"}
			]`))
			Expect(err).ToNot(HaveOccurred())
			Expect(names(sprints, sprintName)).To(Equal([]string{"Sprint 2", "sprint 10", "Sprint 1"}))
			Expect(sprints[0].ID.String()).To(Equal("2"))
		})

		It("unwraps the sprint query answer", func() {
			sprints, err := NormalizeSprints(json.RawMessage(`{"sprints": [{"id": 5, "name": "A"}, {"id": 6, "name": "b"}]}`))
			Expect(err).ToNot(HaveOccurred())
			Expect(names(sprints, sprintName)).To(Equal([]string{"b", "A"}))
		})

		It("accepts an empty list", func() {
			sprints, err := NormalizeSprints(json.RawMessage(`[]`))
			Expect(err).ToNot(HaveOccurred())
			Expect(sprints).To(BeEmpty())
		})
	})

	Describe("assignees", func() {
		It("lists distinct names in encounter order after All and Unassigned", func() {
			issues, err := DecodeIssues(json.RawMessage(`{"issues": [
				{"key": "A-1", "fields": {"assignee": {"displayName": "Zoe"}}},
				{"key": "A-2", "fields": {}},
				{"key": "A-3", "fields": {"assignee": {"displayName": "Adam"}}},
				{"key": "A-4", "fields": {"assignee": {"displayName": "Zoe"}}}
			]}`))
			Expect(err).ToNot(HaveOccurred())
			Expect(ExtractAssignees(issues)).To(Equal([]string{"All", "Unassigned", "Zoe", "Adam"}))
		})

		It("always starts with All and Unassigned", func() {
			Expect(ExtractAssignees(nil)).To(Equal([]string{"All", "Unassigned"}))
		})
	})

	Describe("response check", func() {
		It("maps a missing answer to the connection message", func() {
			message, ok := CheckResponse(&repositories.Response{Status: 0})
			Expect(ok).To(BeFalse())
			Expect(message).To(Equal("It seems that you don't have internet connection, please try again later."))
		})

		It("maps an empty body to the proxy message", func() {
			message, ok := CheckResponse(&repositories.Response{Status: 200})
			Expect(ok).To(BeFalse())
			Expect(message).To(Equal("It seems that you don't have internet connection or you are behind a proxy."))
		})

		It("accepts an answer with a body", func() {
			_, ok := CheckResponse(&repositories.Response{Status: 200, Body: json.RawMessage(`[]`)})
			Expect(ok).To(BeTrue())
		})
	})
})
