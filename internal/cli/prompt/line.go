package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// maxAttempts bounds re-asking after unresolvable input.
const maxAttempts = 3

// LinePrompter reads answers line by line; used when input is not a terminal.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter creates a prompter reading from in and writing prompts to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

func (p *LinePrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Ask implements Prompter.
func (p *LinePrompter) Ask(label, def string) (string, error) {
	if def != "" {
		_, _ = fmt.Fprintf(p.out, "%s [%s]: ", label, def)
	} else {
		_, _ = fmt.Fprintf(p.out, "%s: ", label)
	}
	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(line) == "" {
		return def, nil
	}
	return strings.TrimSpace(line), nil
}

// Choose implements Prompter.
func (p *LinePrompter) Choose(label string, options []string) (string, error) {
	printOptions(p.out, label, options)
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		_, _ = fmt.Fprintf(p.out, "%s [1]: ", label)
		line, err := p.readLine()
		if err != nil {
			return "", err
		}
		choice, err := Resolve(line, options)
		if err == nil {
			return choice, nil
		}
		lastErr = err
		_, _ = fmt.Fprintf(p.out, "  %v\n", err)
	}
	return "", lastErr
}

// Close implements Prompter.
func (p *LinePrompter) Close() error {
	return nil
}

func printOptions(w io.Writer, label string, options []string) {
	_, _ = fmt.Fprintf(w, "%s:\n", label)
	for i, opt := range options {
		_, _ = fmt.Fprintf(w, "  %2d) %s\n", i+1, opt)
	}
}
