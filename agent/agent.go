// Package agent is an interactive AI assistant that answers questions about
// the user's simulated portfolio.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"
)

const prompt = "assist> "

// Agent runs the conversation between the user and a set of experts. A
// facilitator expert owns the dialogue and reaches the others through
// function calls.
type Agent struct {
	w           io.Writer
	r           *bufio.Reader
	Facilitator *Expert
	Experts     []*Expert
}

// New creates an Agent writing its output to w and reading user input from r
// (os.Stdout and os.Stdin in the CLI).
func New(w io.Writer, r io.Reader, experts ...*Expert) *Agent {
	return &Agent{
		w:           w,
		r:           bufio.NewReader(r),
		Experts:     experts,
		Facilitator: newFacilitator(experts...),
	}
}

// Start opens a chat session for every expert.
func (a *Agent) Start(ctx context.Context, client *genai.Client) error {
	for _, e := range a.Experts {
		if err := e.Start(ctx, client); err != nil {
			return fmt.Errorf("starting expert %s: %w", e.Name, err)
		}
	}
	return a.Facilitator.Start(ctx, client)
}

// readLine pops the next input: queued prompts first, then the reader.
// Returns io.EOF when the user closes the input (Ctrl+D).
func (a *Agent) readLine(queue *[]string) (string, error) {
	if len(*queue) > 0 {
		line := (*queue)[0]
		*queue = (*queue)[1:]
		fmt.Fprintln(a.w, line)
		return line, nil
	}
	return a.r.ReadString('\n')
}

// Run is the REPL. Initial prompts, if any, are consumed before reading from
// the user. Typing 'bye' (or Ctrl+D) ends the session.
func (a *Agent) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if a.Facilitator.chat == nil {
		if err := a.Start(ctx, client); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.w, "Welcome to fsim assist. Type 'bye' to exit.")
	fmt.Fprint(a.w, Describe(a.Experts...))

	queue := make([]string, 0, len(prompts))
	for _, p := range prompts {
		if p = strings.TrimSpace(p); p != "" {
			queue = append(queue, p)
		}
	}

	for {
		fmt.Fprint(a.w, prompt)
		line, err := a.readLine(&queue)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "bye" {
			return nil
		}

		content, err := a.Facilitator.Ask(ctx, &genai.Part{Text: line})
		if err != nil {
			return err
		}
		fmt.Fprintln(a.w, content.Parts[0].Text)
	}
}
