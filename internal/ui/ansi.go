package ui

import (
	"fmt"
	"os"
)

var (
	reset      = "\033[0m"
	bold       = "\033[1m"
	dim        = "\033[2m"
	strike     = "\033[9m"
	fgGray     = "\033[90m"
	fgGreen    = "\033[32m"
	fgYellow   = "\033[33m"
	fgBlue     = "\033[34m"
	fgRed      = "\033[31m"
	redOnWhite = "\033[1;31;47m"

	symCheck = "✔"
	symCross = "✖"
)

var (
	forceColor   bool
	disableColor bool
)

// SetColorForcing overrides TTY detection.
func SetColorForcing(force, disable bool) {
	forceColor = force
	disableColor = disable
}

func isTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// C wraps s in an ANSI color when the output supports it.
func C(color, s string) string {
	if disableColor || color == "" {
		return s
	}
	if forceColor || isTTY() {
		return color + s + reset
	}
	return s
}

func OK(msg string)   { fmt.Println(C(fgGreen, symCheck+" "+msg)) }
func Fail(msg string) { fmt.Fprintln(os.Stderr, C(fgRed, symCross+" "+msg)) }

// Hint prints a muted follow-up line to stderr.
func Hint(msg string) { fmt.Fprintln(os.Stderr, C(fgGray, msg)) }
