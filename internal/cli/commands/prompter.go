package commands

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/uhco-curriculum/lomap/internal/cli/prompt"
	"github.com/uhco-curriculum/lomap/internal/cli/tui"
)

// newPrompter picks the interactive front end for cmd's streams.
// A terminal gets readline (or the full-screen picker with useTUI); anything
// else is read line by line so answers can be piped in.
func newPrompter(cmd *cobra.Command, useTUI bool) (prompt.Prompter, error) {
	in := cmd.InOrStdin()
	out := cmd.OutOrStdout()
	if isTerminal(in) {
		if useTUI {
			return tui.NewPrompter(in, out), nil
		}
		return prompt.NewReadlinePrompter(out)
	}
	return prompt.NewLinePrompter(in, out), nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
