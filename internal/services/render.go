package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"scrum-cards/internal/models"
)

const (
	minCardWidth = 24
	maxCardWidth = 96
)

// CardRenderer draws scrum cards as bordered text blocks
type CardRenderer struct {
	renderer *lipgloss.Renderer
}

// NewCardRenderer creates a renderer whose colour profile follows out
func NewCardRenderer(out io.Writer) *CardRenderer {
	return &CardRenderer{renderer: lipgloss.NewRenderer(out)}
}

// CardWidth maps the configured font size to a card width in columns
func CardWidth(fontSize int) int {
	width := fontSize * 2
	if width < minCardWidth {
		return minCardWidth
	}
	if width > maxCardWidth {
		return maxCardWidth
	}
	return width
}

// FormatEstimate renders an original estimate in hours, e.g. "6h" or "1.5h"
func FormatEstimate(estimate models.Seconds) string {
	if estimate <= 0 {
		return ""
	}
	hours := float64(estimate) / 3600
	if hours == float64(int64(hours)) {
		return fmt.Sprintf("%dh", int64(hours))
	}
	return fmt.Sprintf("%.1fh", hours)
}

// Render draws a single card
func (r *CardRenderer) Render(settings models.CardSettings, issue models.Issue) string {
	width := CardWidth(settings.FontSize)
	var lines []string

	add := func(field, text string) {
		style := settings.Style(field)
		if !style.IsVisible || text == "" {
			return
		}
		lines = append(lines, r.renderer.NewStyle().Bold(style.IsBold).Width(width-4).Render(text))
	}

	add(models.FieldIssueType, issue.Fields.IssueType.Name)
	add(models.FieldIssueKey, issue.Key)
	if parent := issue.Fields.Parent; parent != nil {
		add(models.FieldParentKey, parent.Key)
		add(models.FieldParentName, parent.Fields.Summary)
	}
	if issue.Fields.Priority != nil {
		add(models.FieldIssuePriority, issue.Fields.Priority.Name)
	}
	add(models.FieldIssueFixVersions, joinNames(issue.Fields.FixVersions))
	add(models.FieldIssueSummary, issue.Fields.Summary)
	add(models.FieldIssueDescription, issue.Fields.Description)
	add(models.FieldIssueAssignee, issue.AssigneeName())
	add(models.FieldIssueTimeOriginalEstimate, FormatEstimate(issue.Fields.TimeOriginalEstimate))

	return r.renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Width(width).
		Render(strings.Join(lines, "\n"))
}

// RenderCards draws cards with the model's current settings, one under the other
func (r *CardRenderer) RenderCards(model *CardSettingsModel, cards []Card) (string, error) {
	settings, err := model.Settings()
	if err != nil {
		return "", err
	}

	rendered := make([]string, 0, len(cards))
	for _, card := range cards {
		rendered = append(rendered, r.Render(settings, card.Issue))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rendered...), nil
}

func joinNames(named []models.Named) string {
	names := make([]string, 0, len(named))
	for _, n := range named {
		names = append(names, n.Name)
	}
	return strings.Join(names, ", ")
}
