package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the diagram banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"      _ _", "#818cf8"},
		{"   __| (_) __ _  __ _ _ __ __ _ _ __ ___", "#a78bfa"},
		{"  / _` | |/ _` |/ _` | '__/ _` | '_ ` _ \\", "#c084fc"},
		{" | (_| | | (_| | (_| | | | (_| | | | | | |", "#e879f9"},
		{"  \\__,_|_|\\__,_|\\__, |_|  \\__,_|_| |_| |_|", "#f472b6"},
		{"                |___/", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
