package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// confirmModel asks a single yes/no question. Anything but an explicit yes is
// a no.
type confirmModel struct {
	Prompt string
	Answer bool
	Done   bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "y", "Y":
			m.Answer, m.Done = true, true
			return m, tea.Quit
		case "n", "N", "enter", "q", "esc", "ctrl+c":
			m.Answer, m.Done = false, true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.Done {
		answer := "no"
		if m.Answer {
			answer = "yes"
		}
		return StyleTitle.Render(m.Prompt) + " " + StyleDim.Render(answer) + "\n"
	}
	return StyleTitle.Render(m.Prompt) + " " + StyleDim.Render("[y/N]") + " "
}

// confirm asks the user to approve generation. A terminal gets the interactive
// prompt; piped input is read as a line.
func (c *CLI) confirm(ctx context.Context, prompt string) (bool, error) {
	if isTerminal(c.in) && isTerminal(c.out) {
		final, err := tea.NewProgram(confirmModel{Prompt: prompt},
			tea.WithContext(ctx),
			tea.WithInput(c.in),
			tea.WithOutput(c.out),
		).Run()
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			return false, err
		}
		return final.(confirmModel).Answer, nil
	}
	return confirmLine(c.in, c.out, prompt)
}

// confirmLine reads a y/yes answer from r. End of input means no.
func confirmLine(r io.Reader, w io.Writer, prompt string) (bool, error) {
	fmt.Fprintf(w, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	if err == io.EOF && line == "" {
		fmt.Fprintln(w)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
