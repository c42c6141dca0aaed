package cmd

import (
	"io"
	"os"
)

// isTTY returns true if w is a file connected to a terminal.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// resolveColor determines whether to use color output based on the --color
// flag value ("auto", "always" or "never") and whether w is a terminal.
func resolveColor(colorFlag string, w io.Writer) bool {
	switch colorFlag {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		return isTTY(w) && os.Getenv("NO_COLOR") == ""
	}
}
