package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the liftnav ASCII banner to w using the given colour profile.
func PrintBanner(w io.Writer, p termenv.Profile) {
	lines := []struct {
		text  string
		color string
	}{
		{" _ _  __ _                    ", "#34d399"},
		{"| (_)/ _| |_ _ __   __ ___   __", "#2dd4bf"},
		{"| | | |_| __| '_ \\ / _` \\ \\ / /", "#22d3ee"},
		{"| | |  _| |_| | | | (_| |\\ V / ", "#38bdf8"},
		{"|_|_|_|  \\__|_| |_|\\__,_| \\_/  ", "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
