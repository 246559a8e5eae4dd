package services

import (
	"scrum-cards/internal/models"
)

// Card is one issue on the board together with its view state
type Card struct {
	Issue models.Issue
	// excluded from printing; the issue itself is never changed
	Excluded bool
}

// CardBoard holds the cards of the selected sprint and the view flags used
// when showing and printing them
type CardBoard struct {
	cards    []Card
	assignee string
}

// NewCardBoard puts every issue on the board, all included for printing
func NewCardBoard(issues []models.Issue) *CardBoard {
	cards := make([]Card, len(issues))
	for i, issue := range issues {
		cards[i] = Card{Issue: issue}
	}
	return &CardBoard{cards: cards, assignee: AssigneeAll}
}

// FilterByAssignee limits the visible cards. AssigneeAll shows every card and
// AssigneeUnassigned shows the cards nobody is assigned to.
func (b *CardBoard) FilterByAssignee(name string) {
	if name == "" {
		name = AssigneeAll
	}
	b.assignee = name
}

// Assignee returns the current assignee filter
func (b *CardBoard) Assignee() string {
	return b.assignee
}

func (b *CardBoard) AddAllForPrinting() {
	for i := range b.cards {
		b.cards[i].Excluded = false
	}
}

func (b *CardBoard) RemoveAllFromPrinting() {
	for i := range b.cards {
		b.cards[i].Excluded = true
	}
}

// TogglePrinting adds every card when active and removes every card otherwise
func (b *CardBoard) TogglePrinting(active bool) {
	if active {
		b.AddAllForPrinting()
		return
	}
	b.RemoveAllFromPrinting()
}

// SetPrinting includes or excludes the card with the given issue key.
// It reports whether such a card exists.
func (b *CardBoard) SetPrinting(key string, include bool) bool {
	found := false
	for i := range b.cards {
		if b.cards[i].Issue.Key == key {
			b.cards[i].Excluded = !include
			found = true
		}
	}
	return found
}

// Visible returns the cards that pass the assignee filter
func (b *CardBoard) Visible() []Card {
	var visible []Card
	for _, card := range b.cards {
		if b.matches(card) {
			visible = append(visible, card)
		}
	}
	return visible
}

// Printable returns the visible cards that are not excluded from printing
func (b *CardBoard) Printable() []Card {
	var printable []Card
	for _, card := range b.Visible() {
		if !card.Excluded {
			printable = append(printable, card)
		}
	}
	return printable
}

func (b *CardBoard) matches(card Card) bool {
	switch b.assignee {
	case AssigneeAll:
		return true
	case AssigneeUnassigned:
		return card.Issue.AssigneeName() == ""
	default:
		return card.Issue.AssigneeName() == b.assignee
	}
}
