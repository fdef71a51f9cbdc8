// Package testing provides test utilities for TUI models.
package testing

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// CommandTimeout bounds how long a single command may run before its
// message is dropped. Timer based commands such as cursor blinks never
// finish in time and are dropped this way.
const CommandTimeout = 2 * time.Second

// TestRenderer drives a Bubble Tea model without a terminal. Commands
// returned by Update are executed synchronously and their messages are fed
// back into the model when Accept allows it.
type TestRenderer struct {
	// Accept reports whether a message produced by a command is delivered
	// back to the model. Nil accepts everything.
	Accept func(tea.Msg) bool

	// Output contains the last rendered view
	Output string

	// Messages contains every message delivered to the model
	Messages []tea.Msg

	// Quit is set once a command returned tea.QuitMsg
	Quit bool
}

// NewTestRenderer creates a renderer that feeds back messages accepted by accept.
func NewTestRenderer(accept func(tea.Msg) bool) *TestRenderer {
	return &TestRenderer{Accept: accept}
}

// Render captures the view of model.
func (r *TestRenderer) Render(model tea.Model) string {
	r.Output = model.View()
	return r.Output
}

// Update delivers msg without running the returned command.
func (r *TestRenderer) Update(model tea.Model, msg tea.Msg) (tea.Model, tea.Cmd) {
	r.Messages = append(r.Messages, msg)
	next, cmd := model.Update(msg)
	r.Output = next.View()
	return next, cmd
}

// Send delivers msgs in order and settles every resulting command chain.
func (r *TestRenderer) Send(model tea.Model, msgs ...tea.Msg) tea.Model {
	queue := append([]tea.Msg(nil), msgs...)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]

		var cmd tea.Cmd
		model, cmd = r.Update(model, msg)
		queue = append(queue, r.run(cmd)...)
	}
	return model
}

// Settle runs cmd, typically from Init, and delivers its messages.
func (r *TestRenderer) Settle(model tea.Model, cmd tea.Cmd) tea.Model {
	model = r.Send(model, r.run(cmd)...)
	r.Output = model.View()
	return model
}

func (r *TestRenderer) run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(CommandTimeout):
		return nil
	}

	switch msg := msg.(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, r.run(c)...)
		}
		return out
	case tea.QuitMsg:
		r.Quit = true
		return nil
	}

	if r.Accept != nil && !r.Accept(msg) {
		return nil
	}
	return []tea.Msg{msg}
}

// StripANSI returns the last output without ANSI codes.
func (r *TestRenderer) StripANSI() string {
	return StripANSI(r.Output)
}

// Lines returns the output split by newlines.
func (r *TestRenderer) Lines() []string {
	return strings.Split(r.Output, "\n")
}
