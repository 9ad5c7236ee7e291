package ui

import (
	"fmt"
	"io"
	"os"
)

var (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	strike = "\033[9m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"
	fgCyan   = "\033[36m"

	symCheck = "✔"
	symCross = "✖"
)

var (
	forceColor   bool
	disableColor bool
	colorOut     io.Writer = os.Stdout
)

// SetColorForcing overrides terminal detection.
func SetColorForcing(force, disable bool) {
	forceColor = force
	disableColor = disable
}

// SetOutput sets the writer whose terminal-ness decides coloring.
func SetOutput(w io.Writer) { colorOut = w }

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// C wraps s in an ANSI color when coloring is enabled.
func C(color, s string) string {
	if disableColor || color == "" {
		return s
	}
	if forceColor || isTTY(colorOut) {
		return color + s + reset
	}
	return s
}

// Dim and Strike are the two text effects renderers need outside the theme.
func Dim(s string) string    { return C(dim, s) }
func Strike(s string) string { return C(strike, s) }

func OK(w io.Writer, msg string)   { fmt.Fprintln(w, C(current.Success, symCheck+" "+msg)) }
func Fail(w io.Writer, msg string) { fmt.Fprintln(w, C(current.Error, symCross+" "+msg)) }
