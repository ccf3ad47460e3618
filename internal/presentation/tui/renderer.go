package tui

import (
	"github.com/charmbracelet/glamour"
)

// Renderer turns page markdown into terminal output.
type Renderer func(markdown string) (string, error)

// NewRenderer returns a Renderer backed by glamour.
// With styled false it uses the no-TTY style, suitable for pipes and tests.
func NewRenderer(styled bool) (Renderer, error) {
	opt := glamour.WithStandardStyle("notty")
	if styled {
		opt = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(80))
	if err != nil {
		return nil, err
	}
	return r.Render, nil
}
