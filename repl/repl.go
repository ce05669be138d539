// Package repl implements an interactive Read-Eval-Print loop for lull,
// built on the Charm libraries (Bubble Tea, Bubbles, Lipgloss) the way the
// teacher's own REPL is — styled prompt, async evaluation via a tea.Cmd,
// and a scrolling history of inputs and results.
//
// Session semantics: `fn` definitions submitted on one line are available
// on every later line (kept as an accumulated preamble), but `var`
// bindings and other top-level statements do not persist between lines —
// each submission compiles and runs as its own independent "main", since
// the VM has no notion of a top-level environment that outlives one call
// to run-to-completion (see DESIGN.md).
package repl

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"lull/ast"
	"lull/checker"
	"lull/compiler"
	"lull/lexer"
	"lull/natives"
	"lull/parser"
	"lull/value"
	"lull/vm"
)

// Prompt is the default input prompt.
const Prompt = "lull> "

// Options configures the REPL's presentation.
type Options struct {
	NoColor bool
	Debug   bool
}

// Start runs the REPL until the user exits (Ctrl+C, Esc, or typing "exit"
// or "quit").
func Start(username string, options Options) {
	p := tea.NewProgram(initialModel(username, options))
	if _, err := p.Run(); err != nil {
		fmt.Println("Error running lull REPL:", err)
	}
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	resultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	historyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#767676"))
)

type evalResultMsg struct {
	input      string
	output     string
	isError    bool
	isFnOnly   bool
	elapsed    time.Duration
}

type historyEntry struct {
	input   string
	output  string
	isError bool
}

type model struct {
	textInput  textinput.Model
	spinner    spinner.Model
	history    []historyEntry
	preamble   strings.Builder // accumulated `fn` definitions from prior lines
	username   string
	evaluating bool
	options    Options
}

func initialModel(username string, options Options) model {
	ti := textinput.New()
	ti.Placeholder = "var x = 1 + 2; print(x);"
	ti.Focus()
	ti.Width = 80
	ti.Prompt = promptStyle.Render(Prompt)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF79C6"))

	return model{textInput: ti, spinner: s, username: username, options: options}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.evaluating {
				return m, nil
			}
			input := strings.TrimSpace(m.textInput.Value())
			if input == "" {
				return m, nil
			}
			if input == "exit" || input == "quit" {
				return m, tea.Quit
			}
			m.textInput.SetValue("")
			m.evaluating = true
			return m, tea.Batch(evalCmd(input, m.preamble.String(), m.options.Debug), m.spinner.Tick)
		}

	case evalResultMsg:
		m.evaluating = false
		m.history = append(m.history, historyEntry{input: msg.input, isError: msg.isError, output: msg.output})
		if !msg.isError && msg.isFnOnly {
			m.preamble.WriteString(msg.input)
			m.preamble.WriteString("\n")
		}
		return m, nil

	case spinner.TickMsg:
		if m.evaluating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("lull REPL") + "\n")
	b.WriteString(historyStyle.Render("type an expression; Ctrl+C or Esc to exit") + "\n\n")

	for _, h := range m.history {
		style := resultStyle
		if h.isError {
			style = errorStyle
		}
		b.WriteString(style.Render(h.output) + "\n")
	}

	if m.evaluating {
		b.WriteString(m.spinner.View() + " evaluating...\n")
	}
	b.WriteString(m.textInput.View() + "\n")
	return b.String()
}

// evalCmd compiles and runs input (with accumulated `fn` definitions from
// earlier lines prefixed ahead of it) and reports the outcome as a
// tea.Msg, following the teacher's async-command evaluation shape.
func evalCmd(input, preamble string, debug bool) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		output, isError, isFnOnly := evalOnce(input, preamble)
		if debug {
			fmt.Println("repl debug: elapsed", time.Since(start))
		}
		return evalResultMsg{input: input, output: output, isError: isError, isFnOnly: isFnOnly, elapsed: time.Since(start)}
	}
}

// evalOnce parses just input (to decide whether it is purely `fn`
// definitions worth keeping in the preamble), then compiles and runs
// preamble+input as the program actually executed.
func evalOnce(input, preamble string) (string, bool, bool) {
	ownProgram, errs := parseProgram(input)
	if len(errs) != 0 {
		return strings.Join(errs, "\n"), true, false
	}
	isFnOnly := len(ownProgram.Statements) > 0
	for _, s := range ownProgram.Statements {
		if _, ok := s.(*ast.FunctionStatement); !ok {
			isFnOnly = false
			break
		}
	}

	program, errs := parseProgram(preamble + "\n" + input)
	if len(errs) != 0 {
		return strings.Join(errs, "\n"), true, false
	}

	if cerrs := checker.Check(program); len(cerrs) != 0 {
		msgs := make([]string, len(cerrs))
		for i, e := range cerrs {
			msgs[i] = e.Error()
		}
		return strings.Join(msgs, "\n"), true, false
	}

	comp := compiler.New()
	prog, err := comp.Compile(program)
	if err != nil {
		return err.Error(), true, false
	}

	var out strings.Builder
	table := natives.Table()
	table["print"] = capturingPrint(&out)
	table["dprint"] = capturingPrint(&out)

	machine := vm.New(prog, table)
	if err := machine.Init("main", nil); err != nil {
		return err.Error(), true, false
	}
	for {
		res, err := machine.Resume()
		if err != nil {
			return err.Error(), true, false
		}
		if res.Status == vm.Suspended {
			fmt.Fprintln(&out, res.Value.Inspect())
			continue
		}
		break
	}
	if out.Len() == 0 {
		return "(no output)", false, isFnOnly
	}
	return strings.TrimRight(out.String(), "\n"), false, isFnOnly
}

func parseProgram(src string) (*ast.Program, []string) {
	l := lexer.New(src)
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, msgs
	}
	return program, nil
}

// capturingPrint is the REPL's stand-in for the standard print native: it
// writes to the REPL's own output buffer rather than directly to stdout,
// since the REPL renders output inside its Bubble Tea view.
func capturingPrint(out *strings.Builder) vm.NativeFunc {
	return func(args []value.Value) value.Value {
		for i, a := range args {
			if i > 0 {
				out.WriteString(" ")
			}
			out.WriteString(a.Inspect())
		}
		out.WriteString("\n")
		return value.Float64(0)
	}
}
