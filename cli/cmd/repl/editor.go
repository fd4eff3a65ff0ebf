package repl

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/meow/document"
	"github.com/ardnew/meow/lang"
	"github.com/ardnew/meow/log"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand] for the transcript
// edit-decode-retry loop. It writes the transcript to a temp file, opens the
// user's editor, and decodes the result. On a decode error the user is
// prompted to re-edit; declining discards the edit.
type editCommand struct {
	ctxFunc func() context.Context
	session *session
	logger  log.Logger
	docs    []lang.Document
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit loop. An emptied file leaves docs nil. If the user
// declines to re-edit after a decode error, it returns [ErrEditDeclined].
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	var buf bytes.Buffer
	if err := c.session.save(&buf, "repl"); err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}

	content := buf.Bytes()

	f, err := os.CreateTemp(os.TempDir(), "meow-repl-*.yaml")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Chmod(0o600); err != nil {
		f.Close()

		return err
	}

	f.Close()

	for {
		if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath); err != nil {
			return err
		}

		data, err := os.ReadFile(tmpPath)
		if err != nil {
			return err
		}

		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}

		docs, decodeErr := document.Decode(bytes.NewReader(data), document.WithName("repl"))
		c.logger.TraceContext(ctx, "editor decode attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", decodeErr == nil),
		)

		if decodeErr == nil {
			c.docs = docs

			return nil
		}

		fmt.Fprintf(c.stderr, "\nDecode error: %s\n", errorText(decodeErr))
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}

		content = data
	}
}

// runEditor launches $EDITOR on path and waits for it to exit.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	// EDITOR may carry arguments, e.g. "code --wait".
	args := append(strings.Fields(editor), path)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}

// editTranscript suspends the program and edits the transcript.
func (m model) editTranscript() tea.Cmd {
	c := &editCommand{ctxFunc: m.ctxFunc, session: m.session, logger: m.logger}

	return tea.Exec(c, func(err error) tea.Msg {
		if errors.Is(err, ErrEditDeclined) {
			return editDeclinedMsg{}
		}

		return editDoneMsg{docs: c.docs, err: err}
	})
}

// editDone replaces the session with the edited documents.
func (m model) editDone(msg editDoneMsg) (model, tea.Cmd) {
	if msg.err != nil {
		return m, tea.Println(errorStyle.Render("error: " + errorText(msg.err)))
	}

	if msg.docs == nil {
		return m, tea.Println(hintStyle.Render("edit cancelled"))
	}

	output, err := m.session.replace(m.ctxFunc(), msg.docs)
	m.snippets = m.session.snippets()
	refreshMatches(&m, false)

	m.logger.TraceContext(m.ctxFunc(), "repl edit applied",
		slog.Int("documents", len(msg.docs)),
		slog.Bool("success", err == nil),
	)

	cmds := printLines(output)
	if err != nil {
		cmds = append(cmds, tea.Println(errorStyle.Render("error: "+errorText(err))))
	}

	return m, tea.Sequence(cmds...)
}
