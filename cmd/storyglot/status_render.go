package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

// shouldColorize reports whether w is an interactive terminal.
func shouldColorize(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func statusMark(ok bool, colorize bool) string {
	if ok {
		if colorize {
			return ansiGreen + "✓" + ansiReset
		}
		return "✓"
	}
	if colorize {
		return ansiRed + "✗" + ansiReset
	}
	return "✗"
}

func warnText(s string, colorize bool) string {
	if colorize {
		return ansiYellow + s + ansiReset
	}
	return s
}

func printStatus(w io.Writer, ok bool, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", statusMark(ok, shouldColorize(w)), fmt.Sprintf(format, args...))
}
