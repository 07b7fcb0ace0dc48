package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/idilsaglam/taskbarn/internal/cli"
)

func main() {
	// Root flags (apply to every subcommand)
	file := flag.String("file", "", "document to open (default: last opened, then tasks.brn)")
	sortBy := flag.String("sort", "", "sort method: time_left, size, name or created")
	theme := flag.String("theme", "", "theme: classic, neon or mono")
	noColor := flag.Bool("no-color", false, "disable ANSI colors")
	settings := flag.String("settings", "", "settings file (default ~/.taskbarn/settings.toml)")
	verbose := flag.Bool("v", false, "log info messages to stderr")
	flag.Usage = cli.PrintHelp
	flag.Parse()

	// No subcommand starts the board.
	code := cli.Run(flag.Args(), cli.Options{
		File:         *file,
		Sort:         *sortBy,
		Theme:        *theme,
		NoColor:      *noColor,
		Verbose:      *verbose,
		SettingsPath: *settings,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
