package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// linePrompter asks questions on a writer and reads one line per answer.
// It implements config.Prompter.
type linePrompter struct {
	out     io.Writer
	scanner *bufio.Scanner
}

func newLinePrompter(in io.Reader, out io.Writer) *linePrompter {
	return &linePrompter{out: out, scanner: bufio.NewScanner(in)}
}

// Ask writes question and returns the next input line without its line ending.
// It returns io.EOF once the input is exhausted.
func (p *linePrompter) Ask(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	_, _ = fmt.Fprint(p.out, question)
	if !p.scanner.Scan() {
		// Terminate the dangling prompt line.
		_, _ = fmt.Fprintln(p.out)
		if err := p.scanner.Err(); err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimRight(p.scanner.Text(), "\r"), nil
}

// Notify writes message on its own line.
func (p *linePrompter) Notify(message string) {
	_, _ = fmt.Fprintln(p.out, message)
}
