package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/meow/lang"
	"github.com/ardnew/meow/log"
)

// editDoneMsg is sent when the transcript edit completes. docs is nil when
// the user cleared the file.
type editDoneMsg struct {
	docs []lang.Document
	err  error
}

// editDeclinedMsg is sent when the user declined to re-edit after a decode
// error.
type editDeclinedMsg struct{}

const (
	evalPrompt = "ᓚᘏᗢ "
	ctrlPrompt = "  :"
)

const helpMessage = `
: Commands (press Esc to toggle mode):

  help         Print this help
  list         List bindings of the session
  feed LINE    Queue LINE as input for readline
  load FILE    Evaluate the documents of FILE in the session
  save FILE    Write the session transcript as a document
  edit         Edit the transcript in $EDITOR and re-evaluate it
  reset        Forget every binding
  clear        Clear screen
  quit         Exit REPL

Usage:
  Type a paragraph as a YAML flow sequence of runs and press Enter:
    [{text: meow, bold: true, color: EE0000, highlight: yellow}, hello]
  Type @name or $n and press Tab to insert the run of a builtin or binding
  Inside {...} Tab completes run attributes and highlight names
  Press Esc to toggle between eval and command modes
  Use Up/Down for history (mode switches automatically)
  Use Shift+Up/Shift+Down for history of the current mode only
  Press Ctrl+C on an empty line or Ctrl+D to exit`

type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

func prompt(mode inputMode) string {
	if mode == modeCtrl {
		return ctrlPromptStyle.Render(ctrlPrompt)
	}

	return promptStyle.Render(evalPrompt)
}

// Options configures a REPL.
type Options struct {
	// Files are evaluated in the session before the prompt appears.
	Files []string
	// CacheDir holds the history file. Empty disables persistent history.
	CacheDir string
	// Logger receives trace messages of the REPL itself.
	Logger log.Logger
	// Interpreter configures the session interpreter. Its sink is always
	// replaced by the REPL's buffer.
	Interpreter []lang.Option
}

type model struct {
	ctxFunc func() context.Context
	input   textinput.Model
	session *session
	// snippets maps symbols to the YAML run inserted when they complete.
	snippets   map[string]string
	logger     log.Logger
	history    *History
	historyIdx int

	matches      fuzzy.Matches
	wordStart    int
	wordEnd      int
	suggIdx      int
	tabActive    bool
	preTabText   string
	preTabCursor int

	width      int
	quitting   bool
	mode       inputMode
	evalText   string
	evalCursor int
	ctrlText   string
	ctrlCursor int
}

// Run starts an interactive session.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger
	s := newSession(opts.Interpreter...)

	for _, path := range opts.Files {
		output, err := s.load(ctx, path)
		for _, line := range output {
			fmt.Println(line)
		}

		if err != nil {
			return err
		}

		logger.TraceContext(ctx, "repl loaded", slog.String("file", path))
	}

	histPath := ""
	if opts.CacheDir != "" {
		histPath = filepath.Join(opts.CacheDir, baseHistory)
	}

	history := NewHistory(histPath)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(ctx, "repl start",
		slog.String("history", histPath),
		slog.Int("history_len", history.Len()),
		slog.Int("bindings", s.env.Len()),
	)

	_, err := tea.NewProgram(
		newModel(ctx, s, history, logger),
		tea.WithContext(ctx),
	).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, s *session, history *History, logger log.Logger) model {
	ti := textinput.New()
	ti.Prompt = prompt(modeEval)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		session:    s,
		snippets:   s.snippets(),
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-lipgloss.Width(m.input.Prompt)-2, 1)

		return m, nil

	case editDoneMsg:
		return m.editDone(msg)

	case editDeclinedMsg:
		return m, tea.Println(hintStyle.Render("edit discarded"))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case m.historyIdx < m.history.Len():
		b.WriteString(hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())))

	case strings.TrimSpace(m.input.Value()) == "":
		if m.mode == modeEval {
			b.WriteString(hintStyle.Render("Type a paragraph or press Esc for commands"))
		} else {
			b.WriteString(hintStyle.Render(
				"Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)"))
		}

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()))

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			m.tabActive = false
			refreshMatches(&m, true)

			return m, nil
		}

		return m.executeInput()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyMove(-1, false), nil

	case tea.KeyDown:
		return m.historyMove(1, false), nil

	case tea.KeyShiftUp:
		return m.historyMove(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyMove(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		if m.mode == modeEval {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeEval), nil

	case tea.KeyRunes, tea.KeySpace:
		if m.tabActive && msg.Type == tea.KeySpace {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step, starting a new cycle if needed.
// A single candidate is accepted at once.
func (m model) cycle(step int) model {
	if len(m.matches) == 0 {
		return m
	}

	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.expand(m.matches[0].Str))
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if !m.tabActive {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = -1

		if step < 0 {
			m.suggIdx = 0
		}
	}

	n := len(m.matches)
	m.suggIdx = ((m.suggIdx+step)%n + n) % n

	replaceCurrentWord(&m, m.expand(m.matches[m.suggIdx].Str))

	return m
}

// replaceCurrentWord replaces the current word with s and moves the cursor
// after it.
func replaceCurrentWord(m *model, s string) {
	input := m.input.Value()

	m.input.SetValue(input[:m.wordStart] + s + input[m.wordEnd:])
	m.input.SetCursor(utf8.RuneCountInString(input[:m.wordStart] + s))
	m.wordEnd = m.wordStart + len(s)
}

// refreshMatches recomputes completions. With autoConfirm, a word typed out
// in full as the only candidate is accepted.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if c := m.matches[0].Str; m.input.Value()[m.wordStart:m.wordEnd] == c {
		replaceCurrentWord(m, m.expand(c))
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.evalText, m.evalCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history",
			slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	m.logger.TraceContext(m.ctxFunc(), "repl eval", slog.String("input", input))

	res := m.session.eval(m.ctxFunc(), input)
	m.snippets = m.session.snippets()

	cmds := []tea.Cmd{tea.Println(prompt(modeEval) + inputStyle.Render(input))}
	cmds = append(cmds, printLines(res.output)...)

	if res.err != nil {
		cmds = append(cmds, tea.Println(errorStyle.Render("error: "+errorText(res.err))))
	} else {
		cmds = append(cmds, tea.Println(resultStyle.Render("⇒ "+lang.Display(res.value))))
	}

	return m, tea.Sequence(cmds...)
}

func printLines(lines []string) []tea.Cmd {
	cmds := make([]tea.Cmd, len(lines))
	for i, line := range lines {
		cmds[i] = tea.Println(line)
	}

	return cmds
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	name, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	echo := tea.Println(prompt(modeCtrl) + inputStyle.Render(input))

	m.logger.TraceContext(m.ctxFunc(), "repl command",
		slog.String("command", name),
		slog.String("arg", arg),
	)

	fail := func(err error) (model, tea.Cmd) {
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+errorText(err))))
	}

	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage))

	case "l", "list":
		return m, tea.Sequence(echo, tea.Println(m.listBindings()))

	case "f", "feed":
		n := m.session.feed(arg)

		return m, tea.Sequence(echo,
			tea.Println(hintStyle.Render(fmt.Sprintf("%d line(s) queued", n))))

	case "load":
		if arg == "" {
			return fail(errors.New("load: missing file"))
		}

		output, err := m.session.load(m.ctxFunc(), arg)
		m.snippets = m.session.snippets()

		cmds := append([]tea.Cmd{echo}, printLines(output)...)
		if err != nil {
			cmds = append(cmds, tea.Println(errorStyle.Render("error: "+errorText(err))))
		}

		return m, tea.Sequence(cmds...)

	case "save":
		if arg == "" {
			return fail(errors.New("save: missing file"))
		}

		if err := m.saveTranscript(arg); err != nil {
			return fail(err)
		}

		return m, tea.Sequence(echo, tea.Println(hintStyle.Render("saved "+arg)))

	case "e", "edit":
		return m, tea.Sequence(echo, m.editTranscript())

	case "reset":
		m.session.reset()
		m.snippets = m.session.snippets()

		return m, tea.Sequence(echo, tea.Println(hintStyle.Render("session reset")))

	case "c", "clear":
		return m, tea.ClearScreen

	default:
		return m, tea.Println(errorStyle.Render("Unknown command: " + name + " (try 'help')"))
	}
}

func (m model) saveTranscript(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	return m.session.save(f, name)
}

func (m model) listBindings() string {
	list := m.session.bindings()
	if len(list) == 0 {
		return hintStyle.Render("  (no bindings)")
	}

	width := 0
	for _, b := range list {
		width = max(width, len(b.symbol))
	}

	var sb strings.Builder

	for _, b := range list {
		fmt.Fprintf(&sb, "  %-*s = %s  %s\n", width, b.symbol, b.value, hintStyle.Render(b.run))
	}

	return strings.TrimRight(sb.String(), "\n")
}

// historyMove steps through history by step. With sameMode only entries of
// the current mode are visited; otherwise the mode follows the entry.
// Stepping past the newest entry clears the input.
func (m model) historyMove(step int, sameMode bool) model {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		entry, err := m.history.Entry(i)
		if err != nil {
			break
		}

		if sameMode && entry.Mode != m.mode {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.CursorEnd()
		refreshMatches(&m, false)

		return m
	}

	if step > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m
}

// switchToMode switches to mode, keeping each mode's unfinished input.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeEval {
		m.evalText, m.evalCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode
	m.input.Prompt = prompt(mode)

	if mode == modeEval {
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m
}
