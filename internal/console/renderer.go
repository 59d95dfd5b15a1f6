package console

import (
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// NewRenderer returns a function that renders markdown using glamour, or nil
// when out is not a terminal (pipes and files get the raw text).
func NewRenderer(out *os.File) func(string) (string, error) {
	if out == nil || !term.IsTerminal(int(out.Fd())) {
		return nil
	}

	width := 100
	if w, _, err := term.GetSize(int(out.Fd())); err == nil && w > 20 {
		width = w - 4
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
