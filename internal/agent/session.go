package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"playcheck/internal/models"
)

// Runner runs one exchange to completion.
type Runner interface {
	Run(ctx context.Context, state *models.SessionState) *models.SessionState
}

// RenderFunc turns assistant Markdown into terminal output.
type RenderFunc func(markdown string) (string, error)

// SessionLoop is the console front end: one utterance in, one final turn out.
type SessionLoop struct {
	runner Runner
	in     io.Reader
	out    io.Writer
	render RenderFunc
}

// NewSessionLoop builds a loop over in/out. render may be nil for plain output.
func NewSessionLoop(runner Runner, in io.Reader, out io.Writer, render RenderFunc) *SessionLoop {
	return &SessionLoop{runner: runner, in: in, out: out, render: render}
}

// IsExitCommand reports whether the input ends the session.
func IsExitCommand(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "exit", "quit":
		return true
	}
	return false
}

// Run reads utterances until an exit command or end of input.
func (l *SessionLoop) Run(ctx context.Context) error {
	fmt.Fprintln(l.out, "\n🎮 Welcome to PlayCheck: Can Your PC Run It?")
	fmt.Fprintln(l.out, "💡 Try: Can I run God of War on i5 with 8GB RAM and GTX 1650?")
	fmt.Fprintln(l.out)

	scanner := bufio.NewScanner(l.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(l.out, "👤 You: ")
		if !scanner.Scan() {
			fmt.Fprintln(l.out)
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if IsExitCommand(input) {
			fmt.Fprintln(l.out, "👋 Bye!")
			return nil
		}

		state := l.runner.Run(ctx, models.NewSessionState(input))
		l.printFinal(state)
	}
}

func (l *SessionLoop) printFinal(state *models.SessionState) {
	last, ok := state.Last()
	if !ok || !last.Renderable() {
		return
	}

	switch last.Role {
	case models.RoleAssistant:
		if l.render == nil {
			fmt.Fprintf(l.out, "🤖 PlayCheck: %s\n", last.Content)
			return
		}
		rendered, err := l.render(last.Content)
		if err != nil {
			rendered = last.Content
		}
		fmt.Fprintf(l.out, "🤖 PlayCheck:\n%s\n", strings.TrimRight(rendered, "\n"))
	case models.RoleTool:
		fmt.Fprintf(l.out, "🛠️ Tool Result: %s\n", last.Content)
	}
}
