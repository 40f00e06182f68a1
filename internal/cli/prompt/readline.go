package prompt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// ErrInterrupted is returned when the user presses Ctrl-C at a prompt.
var ErrInterrupted = errors.New("interrupted")

// ReadlinePrompter reads answers with line editing and tab completion of options.
type ReadlinePrompter struct {
	rl  *readline.Instance
	out io.Writer
}

// NewReadlinePrompter creates a terminal prompter.
func NewReadlinePrompter(out io.Writer) (*ReadlinePrompter, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "",
		HistoryLimit:    -1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize prompt: %w", err)
	}
	return &ReadlinePrompter{rl: rl, out: out}, nil
}

func (p *ReadlinePrompter) readLine(prompt string, completer readline.AutoCompleter) (string, error) {
	p.rl.Config.AutoComplete = completer
	p.rl.SetPrompt(prompt)
	line, err := p.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", ErrInterrupted
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Ask implements Prompter.
func (p *ReadlinePrompter) Ask(label, def string) (string, error) {
	prompt := label + ": "
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]: ", label, def)
	}
	line, err := p.readLine(prompt, nil)
	if err != nil {
		return "", err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

// Choose implements Prompter. Tab completes option titles; a partial title
// is resolved by fuzzy match on enter.
func (p *ReadlinePrompter) Choose(label string, options []string) (string, error) {
	printOptions(p.out, label, options)
	completer := &optionCompleter{options: options}
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		line, err := p.readLine(label+" [1]: ", completer)
		if err != nil {
			return "", err
		}
		choice, err := Resolve(stripCompletion(line), options)
		if err == nil {
			return choice, nil
		}
		lastErr = err
		_, _ = fmt.Fprintf(p.out, "  %v\n", err)
	}
	return "", lastErr
}

// Close implements Prompter.
func (p *ReadlinePrompter) Close() error {
	return p.rl.Close()
}

// completionSeparator joins typed text and a fuzzy completion; text before it is discarded.
const completionSeparator = " => "

// optionCompleter completes the typed text to options that start with it,
// falling back to fuzzy matches.
type optionCompleter struct {
	options []string
}

// Do implements readline.AutoCompleter.
func (c *optionCompleter) Do(line []rune, pos int) ([][]rune, int) {
	typed := line[:pos]
	var out [][]rune
	for _, opt := range c.options {
		r := []rune(opt)
		if len(r) >= len(typed) && strings.EqualFold(string(r[:len(typed)]), string(typed)) {
			out = append(out, r[len(typed):])
		}
	}
	if len(out) > 0 || len(typed) == 0 {
		return out, len(typed)
	}

	// readline can only append, so fuzzy hits are offered as whole titles after a separator
	for _, opt := range Matches(string(typed), c.options) {
		out = append(out, []rune(completionSeparator+opt))
	}
	return out, len(typed)
}

// stripCompletion drops the typed text in front of an accepted fuzzy completion.
func stripCompletion(line string) string {
	if i := strings.LastIndex(line, completionSeparator); i >= 0 {
		return line[i+len(completionSeparator):]
	}
	return line
}
