// Package cli dispatches taskbarn subcommands. With no subcommand the
// interactive board is started.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/taskbarn/internal/config"
	"github.com/idilsaglam/taskbarn/internal/document"
	"github.com/idilsaglam/taskbarn/internal/export"
	"github.com/idilsaglam/taskbarn/internal/logging"
	"github.com/idilsaglam/taskbarn/internal/model"
	"github.com/idilsaglam/taskbarn/internal/store/jsonstore"
	"github.com/idilsaglam/taskbarn/internal/tui"
	"github.com/idilsaglam/taskbarn/internal/ui"
)

// Options tune behavior from root flags.
type Options struct {
	File         string // document path; defaults to last_file, then tasks.brn
	Sort         string // overrides the settings sort method
	Theme        string // overrides the settings theme
	NoColor      bool
	Verbose      bool   // log info messages to stderr
	SettingsPath string // "" uses ~/.taskbarn/settings.toml
	Out          io.Writer
}

// env is what every subcommand runs against.
type env struct {
	opt      Options
	settings config.Settings
	sort     document.SortMethod
	doc      *document.Document
	path     string
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if opt.Out == nil {
		opt.Out = os.Stdout
	}
	cmd, a := "ui", args
	if len(args) > 0 {
		cmd, a = args[0], args[1:]
	}
	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		PrintHelp()
		return 0
	}

	e, code := setup(opt)
	if code != 0 {
		return code
	}

	switch cmd {
	case "ui":
		return e.runUI()

	case "ls":
		return e.doList()

	case "add":
		if len(a) == 0 {
			ui.Fail("usage: taskbarn add <title...>")
			return 2
		}
		return e.doAdd(strings.Join(a, " "))

	case "item":
		if len(a) < 2 {
			ui.Fail("usage: taskbarn item <task#> <label...>")
			return 2
		}
		g, code := e.groupArg(a[0])
		if code != 0 {
			return code
		}
		return e.doAddItem(g, strings.Join(a[1:], " "))

	case "check":
		if len(a) != 2 {
			ui.Fail("usage: taskbarn check <task#> <checkbox#>")
			return 2
		}
		g, it, code := e.itemArgs(a[0], a[1])
		if code != 0 {
			return code
		}
		return e.doToggle(g, it)

	case "rm":
		switch len(a) {
		case 1:
			g, code := e.groupArg(a[0])
			if code != 0 {
				return code
			}
			return e.doRemoveGroup(g)
		case 2:
			g, it, code := e.itemArgs(a[0], a[1])
			if code != 0 {
				return code
			}
			return e.doRemoveItem(g, it)
		}
		ui.Fail("usage: taskbarn rm <task#> [checkbox#]")
		return 2

	case "due":
		switch len(a) {
		case 2:
			g, code := e.groupArg(a[0])
			if code != 0 {
				return code
			}
			return e.doDue(g, nil, a[1])
		case 3:
			g, it, code := e.itemArgs(a[0], a[1])
			if code != 0 {
				return code
			}
			return e.doDue(g, it, a[2])
		}
		ui.Fail("usage: taskbarn due <task#> [checkbox#] <MM/DD/YY|->")
		return 2

	case "color":
		if len(a) != 2 {
			ui.Fail("usage: taskbarn color <task#> <#rrggbb>")
			return 2
		}
		g, code := e.groupArg(a[0])
		if code != 0 {
			return code
		}
		return e.doColor(g, a[1])

	case "rename":
		if len(a) < 2 {
			ui.Fail("usage: taskbarn rename <task#> <title...>")
			return 2
		}
		g, code := e.groupArg(a[0])
		if code != 0 {
			return code
		}
		return e.doRename(g, strings.Join(a[1:], " "))

	case "export":
		if len(a) < 1 || len(a) > 2 {
			ui.Fail("usage: taskbarn export <yaml|ics|md> [file]")
			return 2
		}
		out := ""
		if len(a) == 2 {
			out = a[1]
		}
		return e.doExport(a[0], out)
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(os.Stderr)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Printf(`taskbarn - task groups with checklists and due dates

Usage:
  taskbarn [flags] [subcommand] [args]

With no subcommand the interactive board starts.

Subcommands:
  ui                            Start the interactive board
  ls                            List tasks in the current sort order
  add <title...>                Add a task
  item <task#> <label...>       Add a checkbox to a task
  check <task#> <checkbox#>     Toggle a checkbox
  rm <task#> [checkbox#]        Remove a task or one of its checkboxes
  due <task#> [checkbox#] <d>   Set a due date (MM/DD/YY), "-" clears it
  color <task#> <#rrggbb>       Set a task color
  rename <task#> <title...>     Rename a task
  export <yaml|ics|md> [file]   Export tasks (stdout when no file)

Flags:
  -file <path>      Document to use (default: last opened, then tasks.brn)
  -sort <method>    time_left | size | name | created
  -theme <name>     classic | neon | mono
  -no-color         Disable ANSI colors
  -settings <path>  Settings file (default ~/.taskbarn/settings.toml)
  -v                Verbose logging to stderr

Examples:
  taskbarn add "Groceries"
  taskbarn item 1 "Buy milk"
  taskbarn due 1 03/15/24
  taskbarn check 1 1
  taskbarn export ics groceries.ics
`)
}

// setup loads settings and applies the flag overrides.
func setup(opt Options) (*env, int) {
	spath := opt.SettingsPath
	if spath == "" {
		p, err := config.SettingsPath()
		if err != nil {
			ui.Fail("settings: " + err.Error())
			return nil, 1
		}
		spath = p
	}
	s, err := config.LoadSettings(spath)
	if err != nil {
		ui.Fail(err.Error())
		return nil, 1
	}
	if opt.Theme != "" {
		s.Theme = opt.Theme
	}
	if opt.Sort != "" {
		s.Sort = opt.Sort
	}
	ui.SetTheme(s.Theme)
	if opt.NoColor {
		ui.SetColorForcing(false, true)
	}
	method, err := document.ParseSortMethod(s.Sort)
	if err != nil {
		ui.Fail(err.Error())
		return nil, 2
	}
	return &env{opt: opt, settings: s, sort: method}, 0
}

// cliLogger logs warnings to stderr, or everything with -v.
func (e *env) cliLogger() *log.Logger {
	o := logging.DefaultOptions()
	o.Level = logging.ParseLevel(e.settings.LogLevel)
	if !e.opt.Verbose && o.Level < log.WarnLevel {
		o.Level = log.WarnLevel
	}
	return logging.New(os.Stderr, o)
}

// resolvePath picks -file, then the remembered last file, then tasks.brn.
func (e *env) resolvePath(app config.AppConfig) string {
	if e.opt.File != "" {
		return e.opt.File
	}
	if app.LastFile != "" {
		return app.LastFile
	}
	return jsonstore.DefaultFileName
}

func (e *env) load(logger *log.Logger) error {
	app := config.DefaultAppConfig()
	if e.opt.File == "" {
		if p, err := config.AppConfigPath(); err == nil {
			app, _ = config.LoadAppConfig(p)
		}
	}
	e.path = e.resolvePath(app)
	e.doc = document.New(document.WithLogger(logger), document.WithSortMethod(e.sort))
	return e.doc.Load(e.path)
}

// open loads the document for a one-shot subcommand.
func (e *env) open() int {
	if err := e.load(e.cliLogger()); err != nil {
		ui.Fail(err.Error())
		return 1
	}
	return 0
}

func (e *env) save(msg string) int {
	if err := e.doc.Save(e.path); err != nil {
		ui.Fail(err.Error())
		return 1
	}
	ui.OK(msg)
	return 0
}

// -------------- interactive board ----------------

func (e *env) runUI() int {
	logPath := e.settings.LogFile
	if logPath == "" {
		p, err := config.DefaultLogPath()
		if err != nil {
			ui.Fail("log: " + err.Error())
			return 1
		}
		logPath = p
	}
	logger, f, err := logging.OpenFile(logPath, logging.ParseLevel(e.settings.LogLevel))
	if err != nil {
		// the board owns the terminal, so fall back to dropping logs
		ui.Hint("logging disabled: " + err.Error())
		logger = logging.Discard()
	} else {
		defer f.Close()
	}

	appPath, err := config.AppConfigPath()
	if err != nil {
		logger.Warn("app config unavailable", "err", err)
		appPath = ""
	}
	app := config.DefaultAppConfig()
	if appPath != "" {
		if app, err = config.LoadAppConfig(appPath); err != nil {
			logger.Debug("app config ignored", "path", appPath, "err", err)
		}
	}

	var startupErr error
	if err := e.load(logger); err != nil {
		startupErr = err
		if !errors.Is(err, document.ErrInvalidFormat) {
			logger.Error("startup load failed", "path", e.path, "err", err)
		}
	}

	logger.Info("starting board", "file", e.path, "sort", e.sort)
	err = tui.Run(e.doc, tui.Options{
		Settings:      e.settings,
		App:           app,
		AppConfigPath: appPath,
		Logger:        logger,
		StartupErr:    startupErr,
	})
	if err != nil {
		logger.Error("board exited", "err", err)
		ui.Fail(err.Error())
		return 1
	}
	return 0
}

// -------------- argument helpers ----------------

func (e *env) groupArg(s string) (*model.TaskGroup, int) {
	if code := e.open(); code != 0 {
		return nil, code
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		ui.Fail("not a task number: " + s)
		return nil, 2
	}
	gs := e.doc.Groups()
	if n < 1 || n > len(gs) {
		ui.Fail(fmt.Sprintf("task out of range: have %d, got %d", len(gs), n))
		ui.Hint("Hint: run `taskbarn ls` to see valid numbers")
		return nil, 2
	}
	return gs[n-1], 0
}

func (e *env) itemArgs(gs, is string) (*model.TaskGroup, *model.ChecklistItem, int) {
	g, code := e.groupArg(gs)
	if code != 0 {
		return nil, nil, code
	}
	n, err := strconv.Atoi(is)
	if err != nil {
		ui.Fail("not a checkbox number: " + is)
		return nil, nil, 2
	}
	if n < 1 || n > len(g.Items) {
		ui.Fail(fmt.Sprintf("checkbox out of range: %q has %d, got %d", g.Title, len(g.Items), n))
		ui.Hint("Hint: run `taskbarn ls` to see valid numbers")
		return nil, nil, 2
	}
	return g, g.Items[n-1], 0
}

// -------------- subcommand impls ----------------

func (e *env) doList() int {
	if code := e.open(); code != 0 {
		return code
	}
	ui.FPanel(e.opt.Out, listLines(e.doc))
	return 0
}

func (e *env) doAdd(title string) int {
	if code := e.open(); code != 0 {
		return code
	}
	if _, err := e.doc.AddGroup(title); err != nil {
		ui.Fail("add: " + err.Error())
		return 2
	}
	return e.save("added")
}

func (e *env) doAddItem(g *model.TaskGroup, label string) int {
	if _, err := e.doc.AddItem(g.ID, strings.TrimSpace(label)); err != nil {
		ui.Fail("item: " + err.Error())
		return 1
	}
	return e.save("added checkbox to " + g.Title)
}

func (e *env) doToggle(g *model.TaskGroup, it *model.ChecklistItem) int {
	checked, err := e.doc.ToggleItem(g.ID, it.ID)
	if err != nil {
		ui.Fail("check: " + err.Error())
		return 1
	}
	if checked {
		return e.save("checked")
	}
	return e.save("unchecked")
}

func (e *env) doRemoveGroup(g *model.TaskGroup) int {
	if err := e.doc.RemoveGroup(g.ID); err != nil {
		ui.Fail("rm: " + err.Error())
		return 1
	}
	return e.save("removed " + g.Title)
}

func (e *env) doRemoveItem(g *model.TaskGroup, it *model.ChecklistItem) int {
	if err := e.doc.RemoveItem(g.ID, it.ID); err != nil {
		ui.Fail("rm: " + err.Error())
		return 1
	}
	return e.save("removed checkbox")
}

func (e *env) doDue(g *model.TaskGroup, it *model.ChecklistItem, v string) int {
	date := ""
	if v != "-" {
		t, err := model.ParseDate(v)
		if err != nil {
			ui.Fail("due: use MM/DD/YY or - to clear: " + v)
			return 2
		}
		date = model.FormatDate(t)
	}
	var err error
	if it == nil {
		err = e.doc.SetGroupDueDate(g.ID, date)
	} else {
		err = e.doc.SetItemDeadline(g.ID, it.ID, date)
	}
	if err != nil {
		ui.Fail("due: " + err.Error())
		return 1
	}
	if date == "" {
		return e.save("due date cleared")
	}
	return e.save("due " + date)
}

func (e *env) doColor(g *model.TaskGroup, hex string) int {
	if err := e.doc.SetGroupColor(g.ID, hex); err != nil {
		ui.Fail("color: " + err.Error())
		return 2
	}
	return e.save("color " + g.Color)
}

func (e *env) doRename(g *model.TaskGroup, title string) int {
	if strings.TrimSpace(title) == "" {
		ui.Fail("rename: " + model.ErrEmptyTitle.Error())
		return 2
	}
	old := g.Title
	changed, err := e.doc.RenameGroup(g.ID, title)
	if err != nil {
		ui.Fail("rename: " + err.Error())
		return 2
	}
	if !changed {
		ui.OK("unchanged")
		return 0
	}
	return e.save(fmt.Sprintf("renamed %q to %q", old, g.Title))
}

func (e *env) doExport(format, out string) int {
	if code := e.open(); code != 0 {
		return code
	}
	gs := e.doc.Groups()
	var data []byte
	switch strings.ToLower(format) {
	case "yaml", "yml":
		b, err := export.YAML(gs, e.doc.Today())
		if err != nil {
			ui.Fail("export: " + err.Error())
			return 1
		}
		data = b
	case "ics", "ical":
		s, skipped := export.ICS(gs, time.Now())
		if skipped > 0 {
			ui.Hint(fmt.Sprintf("%d due dates could not be parsed and were skipped", skipped))
		}
		data = []byte(s)
	case "md", "markdown":
		data = []byte(export.MarkdownAll(gs, e.doc.Today()))
	default:
		ui.Fail("export: unknown format " + format)
		return 2
	}

	if out == "" {
		if _, err := e.opt.Out.Write(data); err != nil {
			ui.Fail("export: " + err.Error())
			return 1
		}
		return 0
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		ui.Fail("export: " + err.Error())
		return 1
	}
	ui.OK("exported " + out)
	return 0
}
