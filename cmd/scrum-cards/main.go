package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"scrum-cards/internal/helpers"
	"scrum-cards/internal/models"
	"scrum-cards/internal/services"
)

var (
	configFile string
	verbose    bool
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "scrum-cards",
		Short: "Scrum Cards - printable cards for the issues of a sprint",
		Long: `Scrum Cards fetches the issues of a sprint from a JIRA tracker and renders
them as scrum cards, using appearance settings kept in synchronized storage.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.yaml", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show progress of tracker requests")

	var configCmd = &cobra.Command{
		Use:   "config",
		Short: "Show or change the saved settings",
	}

	var configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Show the saved settings",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}

	var configSetCmd = &cobra.Command{
		Use:   "set",
		Short: "Change and save settings",
		Args:  cobra.NoArgs,
		RunE:  runConfigSet,
	}
	configSetCmd.Flags().String("url", "", "Tracker base URL")
	configSetCmd.Flags().String("project", "", "Project key, or rapid view id with --greenhopper")
	configSetCmd.Flags().String("project-name", "", "Project display name")
	configSetCmd.Flags().Bool("greenhopper", false, "Use the GreenHopper (rapid board) endpoints")
	configSetCmd.Flags().Int("font-size", 0, "Card font size")
	configSetCmd.Flags().StringSlice("show", nil, "Card fields to show")
	configSetCmd.Flags().StringSlice("hide", nil, "Card fields to hide")
	configSetCmd.Flags().StringSlice("bold", nil, "Card fields to print in bold")
	configSetCmd.Flags().StringSlice("plain", nil, "Card fields to print without bold")

	var configResetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Delete the saved settings",
		Args:  cobra.NoArgs,
		RunE:  runConfigReset,
	}

	configCmd.AddCommand(configShowCmd, configSetCmd, configResetCmd)
	rootCmd.AddCommand(configCmd)

	var configureCmd = &cobra.Command{
		Use:   "configure",
		Short: "Edit the settings interactively",
		Args:  cobra.NoArgs,
		RunE:  runConfigure,
	}
	rootCmd.AddCommand(configureCmd)

	var projectsCmd = &cobra.Command{
		Use:   "projects",
		Short: "List the tracker projects",
		Args:  cobra.NoArgs,
		RunE:  runProjects,
	}
	rootCmd.AddCommand(projectsCmd)

	var sprintsCmd = &cobra.Command{
		Use:   "sprints",
		Short: "List the sprints of the saved project",
		Args:  cobra.NoArgs,
		RunE:  runSprints,
	}
	rootCmd.AddCommand(sprintsCmd)

	var cardsCmd = &cobra.Command{
		Use:   "cards",
		Short: "Render the cards of a sprint",
		Long:  "Render the cards of a sprint to the terminal, or write the printable ones to a file",
		Args:  cobra.NoArgs,
		RunE:  runCards,
	}
	cardsCmd.Flags().StringP("sprint", "s", "", "Sprint id (defaults to the newest sprint)")
	cardsCmd.Flags().StringP("assignee", "a", services.AssigneeAll, "Only show cards of this assignee, or 'Unassigned'")
	cardsCmd.Flags().StringSlice("exclude", nil, "Issue keys to leave out of printing")
	cardsCmd.Flags().StringSlice("include-only", nil, "Only print these issue keys")
	cardsCmd.Flags().Bool("print-none", false, "Start with every card left out of printing")
	cardsCmd.Flags().StringP("output", "o", "", "Write printable cards to this file or directory")
	rootCmd.AddCommand(cardsCmd)

	var previewCmd = &cobra.Command{
		Use:   "preview",
		Short: "Render a demo card with the saved appearance",
		Args:  cobra.NoArgs,
		RunE:  runPreview,
	}
	rootCmd.AddCommand(previewCmd)

	if err := rootCmd.Execute(); err != nil {
		helpers.PrintError("Error: %v", err)
		os.Exit(1)
	}
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		record, err := a.session.Record()
		if err != nil {
			return err
		}

		helpers.PrintTitle("Saved settings")
		helpers.PrintInfo("Storage: %s", a.cfg.Storage.Backend)
		helpers.PrintInfo("Tracker URL: %s", record.JiraURL)
		helpers.PrintInfo("Project: %s (%s)", record.JiraProjectName, record.JiraProject)
		helpers.PrintInfo("GreenHopper: %t", record.IsAJAXtoGreenHopper)
		helpers.PrintInfo("Font size: %d", record.ScrumCard.FontSize)
		helpers.PrintSeparator()

		for _, name := range models.FieldNames {
			style := record.ScrumCard.Style(name)
			helpers.PrintInfo("%-26s visible=%-5t bold=%t", name, style.IsVisible, style.IsBold)
		}
		return nil
	})
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	return withApp(func(ctx context.Context, a *app) error {
		if flags.Changed("url") {
			url, _ := flags.GetString("url")
			a.session.SetURL(ctx, strings.TrimSpace(url))
		}
		if flags.Changed("greenhopper") {
			greenHopper, _ := flags.GetBool("greenhopper")
			a.session.SetGreenHopper(ctx, greenHopper)
		}
		if err := a.settle(ctx); err != nil {
			return err
		}

		if flags.Changed("project") || flags.Changed("project-name") {
			project, projectName := a.session.JiraProject(), a.session.JiraProjectName()
			if flags.Changed("project") {
				project, _ = flags.GetString("project")
				projectName = projectLabel(a.session.Projects(), project, projectName)
			}
			if flags.Changed("project-name") {
				projectName, _ = flags.GetString("project-name")
			}
			a.session.SelectProject(ctx, project, projectName)
		}

		edit, err := cardEdit(cmd)
		if err != nil {
			return err
		}

		var preview string
		renderer := services.NewCardRenderer(os.Stdout)
		unsubscribe := a.session.Cards.Subscribe(func(settings models.CardSettings) {
			preview = renderer.Render(settings, models.DemoIssue())
		})
		defer unsubscribe()

		a.session.UpdateCardSettings(edit)
		a.session.Save(ctx)
		if err := a.settle(ctx); err != nil {
			return err
		}

		if preview != "" {
			fmt.Println(preview)
		}
		return nil
	})
}

func runConfigReset(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		a.session.Reset(ctx)
		return a.settle(ctx)
	})
}

func runProjects(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		if a.session.JiraURL() == "" {
			return fmt.Errorf("tracker URL is not configured")
		}

		projects := a.session.Projects()
		helpers.PrintTitle("Projects (%s)", a.session.Dialect().Name())
		for i, p := range projects {
			marker := "  "
			if i == a.session.SelectedProject() {
				marker = "* "
			}
			helpers.PrintInfo("%s%-12s %s", marker, p.Value, p.Label())
		}
		helpers.PrintInfo("%d projects", len(projects))
		return nil
	})
}

func runSprints(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		if err := a.requireConfiguration(); err != nil {
			return err
		}

		helpers.PrintTitle("Sprints of %s", a.session.JiraProjectName())
		for _, s := range a.session.Sprints() {
			marker := "  "
			if s.ID.String() == a.session.JiraSprint() {
				marker = "* "
			}
			helpers.PrintInfo("%s%-8s %s %s", marker, s.ID, s.Name, s.State)
		}
		return nil
	})
}

func runCards(cmd *cobra.Command, args []string) error {
	sprint, _ := cmd.Flags().GetString("sprint")
	assignee, _ := cmd.Flags().GetString("assignee")
	exclude, _ := cmd.Flags().GetStringSlice("exclude")
	includeOnly, _ := cmd.Flags().GetStringSlice("include-only")
	output, _ := cmd.Flags().GetString("output")
	printNone, _ := cmd.Flags().GetBool("print-none")

	return withApp(func(ctx context.Context, a *app) error {
		if err := a.requireConfiguration(); err != nil {
			return err
		}

		if sprint != "" && sprint != a.session.JiraSprint() {
			a.session.SelectSprint(ctx, sprint)
			if err := a.settle(ctx); err != nil {
				return err
			}
		}

		board := services.NewCardBoard(a.session.Issues())
		board.FilterByAssignee(assignee)
		board.TogglePrinting(!printNone && len(includeOnly) == 0)
		if len(includeOnly) > 0 {
			for _, key := range includeOnly {
				if !board.SetPrinting(key, true) {
					helpers.PrintWarning("No card for issue %s", key)
				}
			}
		}
		for _, key := range exclude {
			if !board.SetPrinting(key, false) {
				helpers.PrintWarning("No card for issue %s", key)
			}
		}

		if output != "" {
			printer := services.NewCardPrinter(services.NewCardRenderer(os.Stdout), a.session.Cards)
			path, count, err := printer.Print(board, output)
			if err != nil {
				return err
			}
			helpers.PrintSuccess("Wrote %d cards to %s", count, path)
			return nil
		}

		text, err := services.NewCardRenderer(os.Stdout).RenderCards(a.session.Cards, board.Visible())
		if err != nil {
			return err
		}
		fmt.Println(text)
		helpers.PrintInfo("%d of %d cards shown for %s", len(board.Visible()), len(a.session.Issues()), board.Assignee())
		return nil
	})
}

func runPreview(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		settings, err := a.session.Cards.Settings()
		if err != nil {
			return err
		}
		fmt.Println(services.NewCardRenderer(os.Stdout).Render(settings, models.DemoIssue()))
		return nil
	})
}

// cardEdit turns the card flags of config set into a settings update
func cardEdit(cmd *cobra.Command) (func(*models.CardSettings), error) {
	flags := cmd.Flags()
	fontSize, _ := flags.GetInt("font-size")
	if flags.Changed("font-size") && fontSize <= 0 {
		return nil, fmt.Errorf("font size must be positive, got %d", fontSize)
	}

	show, _ := flags.GetStringSlice("show")
	hide, _ := flags.GetStringSlice("hide")
	bold, _ := flags.GetStringSlice("bold")
	plain, _ := flags.GetStringSlice("plain")

	for _, name := range append(append(append(append([]string(nil), show...), hide...), bold...), plain...) {
		if (&models.CardSettings{}).Field(name) == nil {
			return nil, fmt.Errorf("unknown card field %q, expected one of %s", name, strings.Join(models.FieldNames, ", "))
		}
	}

	return func(s *models.CardSettings) {
		if flags.Changed("font-size") {
			s.FontSize = fontSize
		}
		for _, name := range show {
			s.Field(name).IsVisible = true
		}
		for _, name := range hide {
			s.Field(name).IsVisible = false
		}
		for _, name := range bold {
			s.Field(name).IsBold = true
		}
		for _, name := range plain {
			s.Field(name).IsBold = false
		}
	}, nil
}
