package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"scrum-cards/internal/helpers"
	"scrum-cards/internal/models"
)

func runConfigure(cmd *cobra.Command, args []string) error {
	if !helpers.IsTerminal() {
		return fmt.Errorf("configure needs an interactive terminal, use 'config set' instead")
	}

	return withApp(func(ctx context.Context, a *app) error {
		url := a.session.JiraURL()
		greenHopper := a.session.IsAJAXtoGreenHopper()

		err := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Tracker URL").
					Value(&url).
					Validate(func(s string) error {
						return helpers.ValidateHTTPURL(strings.TrimSpace(s), "url")()
					}),
				huh.NewConfirm().
					Title("Use GreenHopper rapid boards").
					Value(&greenHopper),
			),
		).WithTheme(huh.ThemeDracula()).Run()
		if err != nil {
			return formError(err)
		}

		a.session.SetURL(ctx, strings.TrimSpace(url))
		a.session.SetGreenHopper(ctx, greenHopper)
		if err := a.settle(ctx); err != nil {
			return err
		}

		settings, err := a.session.Cards.Settings()
		if err != nil {
			return err
		}
		form := newSettingsForm(a.session.Projects(), a.session.JiraProject(), a.session.JiraProjectName(), settings)
		if err := form.form.Run(); err != nil {
			return formError(err)
		}

		project, projectName := form.project, strings.TrimSpace(form.projectName)
		if len(a.session.Projects()) > 0 {
			projectName = projectLabel(a.session.Projects(), project, projectName)
		}
		a.session.SelectProject(ctx, project, projectName)
		a.session.UpdateCardSettings(form.apply)
		a.session.Save(ctx)
		return a.settle(ctx)
	})
}

// settingsForm holds the values bound to the second configure form
type settingsForm struct {
	form        *huh.Form
	project     string
	projectName string
	fontSize    string
	visible     []string
	bold        []string
}

func newSettingsForm(projects []models.Project, project, projectName string, settings models.CardSettings) *settingsForm {
	f := &settingsForm{
		project:     project,
		projectName: projectName,
		fontSize:    strconv.Itoa(settings.FontSize),
	}
	for _, name := range models.FieldNames {
		style := settings.Style(name)
		if style.IsVisible {
			f.visible = append(f.visible, name)
		}
		if style.IsBold {
			f.bold = append(f.bold, name)
		}
	}

	var projectFields []huh.Field
	if len(projects) > 0 {
		options := make([]huh.Option[string], 0, len(projects))
		for _, p := range projects {
			options = append(options, huh.NewOption(p.Label(), p.Value))
		}
		projectFields = append(projectFields, huh.NewSelect[string]().
			Title("Project").
			Options(options...).
			Value(&f.project))
	} else {
		projectFields = append(projectFields,
			huh.NewInput().
				Title("Project").
				Description("No projects could be loaded, enter the key or rapid view id").
				Value(&f.project).
				Validate(notEmpty("project")),
			huh.NewInput().
				Title("Project name").
				Value(&f.projectName).
				Validate(notEmpty("project name")),
		)
	}

	f.form = huh.NewForm(
		huh.NewGroup(projectFields...),
		huh.NewGroup(
			huh.NewInput().
				Title("Font size").
				Value(&f.fontSize).
				Validate(func(s string) error {
					i, err := strconv.Atoi(s)
					if err != nil {
						return err
					}
					if i <= 0 {
						return fmt.Errorf("font size must be positive")
					}
					return nil
				}),
			huh.NewMultiSelect[string]().
				Title("Visible fields").
				Options(huh.NewOptions(models.FieldNames...)...).
				Value(&f.visible),
			huh.NewMultiSelect[string]().
				Title("Bold fields").
				Options(huh.NewOptions(models.FieldNames...)...).
				Value(&f.bold),
		),
	).WithTheme(huh.ThemeDracula())

	return f
}

func (f *settingsForm) apply(s *models.CardSettings) {
	if size, err := strconv.Atoi(f.fontSize); err == nil {
		s.FontSize = size
	}
	for _, name := range models.FieldNames {
		s.Field(name).IsVisible = contains(f.visible, name)
		s.Field(name).IsBold = contains(f.bold, name)
	}
}

// projectLabel returns the name of the project with the given value, or fallback
func projectLabel(projects []models.Project, value, fallback string) string {
	for _, p := range projects {
		if p.Value == value {
			return p.Label()
		}
	}
	return fallback
}

func notEmpty(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", name)
		}
		return nil
	}
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func formError(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return fmt.Errorf("configuration cancelled")
	}
	return err
}
