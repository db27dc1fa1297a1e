package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/page"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Options carry what the subcommands need; main builds them once.
type Options struct {
	Service page.Service
	BaseURL string    // shown in the page header and in ls
	In      io.Reader // answers to y/N prompts, os.Stdin when nil
}

const msgRequired = "Title and content are required"

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if opt.In == nil {
		opt.In = os.Stdin
	}
	if len(args) == 0 {
		return doPage(opt)
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "ui":
		return doPage(opt)

	case "ls":
		return doList(opt)

	case "add":
		if len(a) < 2 {
			ui.Fail("usage: tada add <title> <content...>")
			return 2
		}
		return doAdd(opt, a[0], strings.Join(a[1:], " "))

	case "edit":
		if len(a) < 3 {
			ui.Fail("usage: tada edit <id> <title> <content...>")
			return 2
		}
		id, err := strconv.Atoi(a[0])
		if err != nil {
			ui.Fail("edit: not a number: " + a[0])
			return 2
		}
		return doEdit(opt, id, a[1], strings.Join(a[2:], " "))

	case "rm":
		yes := false
		if len(a) > 0 && (a[0] == "-y" || a[0] == "--yes") {
			yes, a = true, a[1:]
		}
		if len(a) != 1 {
			ui.Fail("usage: tada rm [-y] <id>")
			return 2
		}
		id, err := strconv.Atoi(a[0])
		if err != nil {
			ui.Fail("rm: not a number: " + a[0])
			return 2
		}
		return doRemove(opt, id, yes)
	}

	ui.Fail("unknown subcommand: " + cmd)
	ui.Println()
	PrintHelp()
	return 2
}

func PrintHelp() {
	ui.Println(`tada - a terminal front end for a remote todo service

Usage:
  tada [flags] [subcommand] [args]

Subcommands:
  ui                            Interactive page (default)
  ls                            List todos
  add <title> <content...>      Create a todo
  edit <id> <title> <content...>  Replace title and content of a todo
  rm [-y] <id>                  Delete a todo (asks first unless -y)

Flags:
  -api <url>       Service base URL (env TADA_API_URL, default http://localhost:8080)
  -theme <name>    classic | neon | mono
  -color, -no-color

Examples:
  tada
  tada add "Buy milk" "Two litres, semi-skimmed"
  tada edit 3 "Buy milk" "One litre"
  tada rm 3`)
}

// -------------- subcommand impls ----------------

func doPage(opt Options) int {
	p := tea.NewProgram(page.New(opt.Service, opt.BaseURL), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		ui.Fail("ui: " + err.Error())
		return 1
	}
	return 0
}

func doList(opt Options) int {
	todos, err := opt.Service.List(context.Background())
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}

	t := ui.Current()
	header := fmt.Sprintf("%s  %s %d",
		ui.C(t.Title, "Todos"),
		ui.C(t.Accent, "Total"), len(todos),
	)
	lines := []string{header, ui.C(t.Muted, opt.BaseURL), ""}
	lines = append(lines, todoLines(todos)...)
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Muted, "Tip: add with `tada add \"Buy milk\" \"Two litres\"`"))
	ui.Panel(lines)
	return 0
}

func doAdd(opt Options, title, content string) int {
	if !valid(title, content) {
		ui.Fail(msgRequired)
		return 2
	}
	td, err := opt.Service.Create(context.Background(), model.TodoInput{Title: title, Content: content})
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	ui.OK("created " + idLabel(td))
	return 0
}

func doEdit(opt Options, id int, title, content string) int {
	if !valid(title, content) {
		ui.Fail(msgRequired)
		return 2
	}
	if _, err := opt.Service.Update(context.Background(), id, model.TodoInput{Title: title, Content: content}); err != nil {
		ui.Fail(err.Error())
		return 1
	}
	ui.OK(fmt.Sprintf("updated #%d", id))
	return 0
}

func doRemove(opt Options, id int, yes bool) int {
	if !yes && !confirm(opt.In, "Are you sure you want to delete this todo? [y/N] ") {
		ui.Println(ui.C(ui.Current().Muted, "kept"))
		return 0
	}
	if err := opt.Service.Delete(context.Background(), id); err != nil {
		ui.Fail(err.Error())
		return 1
	}
	ui.OK(fmt.Sprintf("deleted #%d", id))
	return 0
}

// -------------- helpers --------------

func valid(title, content string) bool {
	return strings.TrimSpace(title) != "" && strings.TrimSpace(content) != ""
}

func confirm(in io.Reader, question string) bool {
	ui.Prompt(question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		ui.Println()
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func idLabel(td model.Todo) string {
	if td.ID == nil {
		return "todo"
	}
	return fmt.Sprintf("#%d", *td.ID)
}

func todoLines(todos []model.Todo) []string {
	t := ui.Current()
	if len(todos) == 0 {
		return []string{ui.C(t.Muted, "No todos yet. Create one!")}
	}
	out := make([]string, 0, len(todos)*3)
	for i, td := range todos {
		if i > 0 {
			out = append(out, "")
		}
		out = append(out, fmt.Sprintf("%s %s %s",
			ui.C(t.Pending, fmt.Sprintf("%4s", idLabel(td))),
			ui.C(t.Accent, t.Bullet),
			ui.C(t.Title, ui.Truncate(td.Title, 72))))
		for _, ln := range strings.Split(td.Content, "\n") {
			out = append(out, "       "+ui.Truncate(ln, 72))
		}
		if ts, ok := td.Created(); ok {
			out = append(out, "       "+ui.C(t.Muted, "Created at: "+ts.Local().Format("2006-01-02 15:04")))
		}
	}
	return out
}
