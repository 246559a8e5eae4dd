package services

import (
	"fmt"
	"os"
	"path/filepath"

	"scrum-cards/internal/helpers"
)

// CardPrinter writes the printable cards of a board to a file
type CardPrinter struct {
	renderer *CardRenderer
	cards    *CardSettingsModel
}

// NewCardPrinter creates a printer that renders with renderer using the
// settings held by cards
func NewCardPrinter(renderer *CardRenderer, cards *CardSettingsModel) *CardPrinter {
	return &CardPrinter{renderer: renderer, cards: cards}
}

// Print renders the printable cards and writes them to output. When output
// is a directory a timestamped file name is generated inside it. It returns
// the path written and the number of cards.
func (p *CardPrinter) Print(board *CardBoard, output string) (string, int, error) {
	printable := board.Printable()

	text, err := p.renderer.RenderCards(p.cards, printable)
	if err != nil {
		return "", 0, err
	}

	path := output
	if info, statErr := os.Stat(output); statErr == nil && info.IsDir() {
		path = filepath.Join(output, helpers.GenerateOutputFilename("scrum-cards", "txt"))
	}

	if err := helpers.WriteFileAtomic(path, []byte(text+"\n"), 0644); err != nil {
		return "", 0, fmt.Errorf("failed to write cards: %w", err)
	}

	return path, len(printable), nil
}
