package lang

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"sync"
)

// Sink is where print writes and readline reads.
type Sink interface {
	// WriteLine writes s followed by a newline.
	WriteLine(s string) error
	// ReadLine shows prompt, if any, and returns the next input line
	// without its line terminator.
	ReadLine(prompt string) (string, error)
}

// Console is a [Sink] over a reader and a writer, typically the process's
// standard streams.
type Console struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

// NewConsole returns a Console reading lines from r and writing to w.
func NewConsole(r io.Reader, w io.Writer) *Console {
	return &Console{in: bufio.NewReader(r), out: w}
}

// WriteLine implements [Sink].
func (c *Console) WriteLine(s string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := io.WriteString(c.out, s+"\n")

	return err
}

// ReadLine implements [Sink]. A final line without a terminator is
// returned normally; io.EOF is only reported once no input remains.
func (c *Console) ReadLine(prompt string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if prompt != "" {
		if _, err := io.WriteString(c.out, prompt); err != nil {
			return "", err
		}
	}

	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// Buffer is an in-memory [Sink]. Written lines are collected until drained
// and input lines are served from a queue filled by [Buffer.Feed].
// ReadLine on an empty queue fails with [ErrNoInput].
type Buffer struct {
	mu      sync.Mutex
	output  []string
	input   []string
	prompts []string
}

// WriteLine implements [Sink].
func (b *Buffer) WriteLine(s string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.output = append(b.output, s)

	return nil
}

// ReadLine implements [Sink].
func (b *Buffer) ReadLine(prompt string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.prompts = append(b.prompts, prompt)

	if len(b.input) == 0 {
		return "", ErrNoInput
	}

	line := b.input[0]
	b.input = b.input[1:]

	return line, nil
}

// Feed queues lines for subsequent ReadLine calls.
func (b *Buffer) Feed(lines ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.input = append(b.input, lines...)
}

// Pending returns the number of queued input lines.
func (b *Buffer) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.input)
}

// Drain returns the lines written since the last Drain and forgets them.
func (b *Buffer) Drain() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := b.output
	b.output = nil

	return out
}

// Prompts returns every prompt passed to ReadLine so far.
func (b *Buffer) Prompts() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]string(nil), b.prompts...)
}
