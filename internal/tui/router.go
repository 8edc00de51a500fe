package tui

import (
	tea "charm.land/bubbletea/v2"
)

// pushScreenMsg asks the router to show a screen on top of the current one.
type pushScreenMsg struct {
	Screen Screen
}

// popScreenMsg asks the router to return to the previous screen.
type popScreenMsg struct{}

func pushScreen(s Screen) tea.Cmd {
	return func() tea.Msg { return pushScreenMsg{Screen: s} }
}

func popScreen() tea.Msg { return popScreenMsg{} }

// Router is a stack of screens; the top one receives input.
type Router struct {
	stack []Screen
}

// NewRouter creates a router showing root. root is never popped.
func NewRouter(root Screen) *Router {
	return &Router{stack: []Screen{root}}
}

// Push shows s and returns its Init command.
func (r *Router) Push(s Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop removes the top screen unless it is the root.
func (r *Router) Pop() {
	if len(r.stack) > 1 {
		r.stack = r.stack[:len(r.stack)-1]
	}
}

// Active returns the top screen.
func (r *Router) Active() Screen {
	return r.stack[len(r.stack)-1]
}

// Depth returns the number of screens on the stack.
func (r *Router) Depth() int {
	return len(r.stack)
}

// Update handles navigation messages and forwards everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case pushScreenMsg:
		return r.Push(msg.Screen)
	case popScreenMsg:
		r.Pop()
		return nil
	}

	updated, cmd := r.Active().Update(msg)
	r.stack[len(r.stack)-1] = updated
	return cmd
}

// View renders the active screen.
func (r *Router) View(width, height int) string {
	return r.Active().View(width, height)
}
