package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	dim    = "\033[2m"
	reset  = "\033[0m"
)

var (
	stdout   io.Writer = os.Stdout
	colorful           = true
)

// setColor directs output to w and enables ANSI colors only when w is a
// terminal, NO_COLOR is unset and colors were not disabled by flag.
func setColor(w io.Writer, disabled bool) {
	stdout = w
	colorful = !disabled && os.Getenv("NO_COLOR") == "" && isTerminal(w)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func paint(color, s string) string {
	if !colorful {
		return s
	}
	return color + s + reset
}
