package router

import (
	"github.com/abhisek/wordmax/internal/screen"

	tea "charm.land/bubbletea/v2"
)

// PushScreenMsg requests the router to push a new screen onto the stack.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg requests the router to pop the current screen off the stack.
// When Result is set it is delivered to the screen that becomes active, which
// is how a modal hands its outcome back to the screen that opened it.
type PopScreenMsg struct {
	Result tea.Msg
}

// Push returns a command that pushes s.
func Push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return PushScreenMsg{Screen: s} }
}

// PopWith returns a command that pops the active screen and passes result
// to the one below it.
func PopWith(result tea.Msg) tea.Cmd {
	return func() tea.Msg { return PopScreenMsg{Result: result} }
}

// Router manages a stack of screens.
type Router struct {
	stack []screen.Screen
}

// New creates a new Router with the given initial screen.
func New(initial screen.Screen) *Router {
	return &Router{
		stack: []screen.Screen{initial},
	}
}

// Push adds a screen on top of the stack and calls its Init().
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop removes the top screen. No-op if stack depth would become 0.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) <= 1 {
		return nil
	}
	r.stack = r.stack[:len(r.stack)-1]
	return nil
}

// Active returns the top screen on the stack.
func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

// Depth returns the number of screens on the stack.
func (r *Router) Depth() int {
	return len(r.stack)
}

// Update handles navigation messages. Other messages go to the screen that
// owns them, or to the active screen when none does. Key presses always go
// to the active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		r.Pop()
		if msg.Result == nil {
			return nil
		}
		return r.forward(msg.Result)
	}

	if _, ok := msg.(tea.KeyMsg); !ok {
		if i := r.owner(msg); i >= 0 {
			return r.deliver(i, msg)
		}
	}
	return r.forward(msg)
}

// owner returns the stack position of the topmost screen owning msg, or -1.
func (r *Router) owner(msg tea.Msg) int {
	for i := len(r.stack) - 1; i >= 0; i-- {
		if o, ok := r.stack[i].(screen.MessageOwner); ok && o.Owns(msg) {
			return i
		}
	}
	return -1
}

func (r *Router) forward(msg tea.Msg) tea.Cmd {
	if len(r.stack) == 0 {
		return nil
	}
	return r.deliver(len(r.stack)-1, msg)
}

func (r *Router) deliver(i int, msg tea.Msg) tea.Cmd {
	updated, cmd := r.stack[i].Update(msg)
	r.stack[i] = updated
	return cmd
}

// View renders the active screen.
func (r *Router) View(width, height int) string {
	active := r.Active()
	if active == nil {
		return ""
	}
	return active.View(width, height)
}
