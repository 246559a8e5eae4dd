package services

import (
	"time"

	"scrum-cards/internal/eventloop"
	"scrum-cards/internal/helpers"
)

// DefaultMessageDuration is how long a message stays up when no duration is given
const DefaultMessageDuration = 6 * time.Second

// UI is the widget surface a session drives
type UI interface {
	Notifier
	OpenConfigurationDialog()
	SetProjectsPlaceholder(text string)
	SetSprintsPlaceholder(text string)
	SetBusy(active bool)
}

// ConsoleUI renders session feedback as coloured console lines
type ConsoleUI struct {
	console *helpers.Console
	verbose bool

	ConfigurationRequested bool
}

// NewConsoleUI creates a console UI. Placeholders and the busy flag are only
// printed when verbose is set.
func NewConsoleUI(console *helpers.Console, verbose bool) *ConsoleUI {
	return &ConsoleUI{console: console, verbose: verbose}
}

func (u *ConsoleUI) ShowMessage(text string, _ time.Duration) {
	u.console.Info("%s", text)
}

func (u *ConsoleUI) OpenConfigurationDialog() {
	u.ConfigurationRequested = true
	u.console.Warning("Tracker URL and project are not configured. Run 'scrum-cards configure' first.")
}

func (u *ConsoleUI) SetProjectsPlaceholder(text string) {
	if u.verbose {
		u.console.Info("Projects: %s", text)
	}
}

func (u *ConsoleUI) SetSprintsPlaceholder(text string) {
	if u.verbose {
		u.console.Info("Sprints: %s", text)
	}
}

func (u *ConsoleUI) SetBusy(active bool) {
	if u.verbose && active {
		u.console.Info("Loading issues ...")
	}
}

// OnLoop returns a notifier that shows messages from a loop task, so storage
// code running off the loop never touches the UI directly
func OnLoop(loop *eventloop.Loop, n Notifier) Notifier {
	return loopNotifier{loop: loop, next: n}
}

type loopNotifier struct {
	loop *eventloop.Loop
	next Notifier
}

func (n loopNotifier) ShowMessage(text string, duration time.Duration) {
	if duration <= 0 {
		duration = DefaultMessageDuration
	}
	n.loop.Post(func() { n.next.ShowMessage(text, duration) })
}
