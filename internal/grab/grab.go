// Package grab implements the hand tool: dragging with the primary button
// pans the document instead of selecting text.
package grab

import tea "github.com/charmbracelet/bubbletea"

// Scroller is the container panned by the tool.
type Scroller interface {
	ScrollUp(n int)
	ScrollDown(n int)
	ScrollLeft(n int)
	ScrollRight(n int)
}

// GrabToPan pans its container by the pointer delta while armed.
type GrabToPan struct {
	target   Scroller
	active   bool
	dragging bool
	lastX    int
	lastY    int
}

// New creates an inactive tool bound to target.
func New(target Scroller) *GrabToPan {
	return &GrabToPan{target: target}
}

// Activate arms the tool.
func (g *GrabToPan) Activate() {
	g.active = true
}

// Deactivate disarms the tool and drops any drag in progress.
func (g *GrabToPan) Deactivate() {
	g.active = false
	g.dragging = false
}

// Active reports whether the tool is armed.
func (g *GrabToPan) Active() bool {
	return g.active
}

// Dragging reports whether a pan gesture is in progress.
func (g *GrabToPan) Dragging() bool {
	return g.dragging
}

// HandleMouse consumes mouse events while the tool is armed and reports
// whether the event was used.
func (g *GrabToPan) HandleMouse(msg tea.MouseMsg) bool {
	if !g.active {
		return false
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return false
		}
		g.dragging = true
		g.lastX, g.lastY = msg.X, msg.Y
		return true
	case tea.MouseActionMotion:
		if !g.dragging {
			return false
		}
		g.pan(msg.X-g.lastX, msg.Y-g.lastY)
		g.lastX, g.lastY = msg.X, msg.Y
		return true
	case tea.MouseActionRelease:
		if !g.dragging {
			return false
		}
		g.dragging = false
		return true
	}
	return false
}

// pan moves the content along with the pointer.
func (g *GrabToPan) pan(dx, dy int) {
	switch {
	case dy > 0:
		g.target.ScrollUp(dy)
	case dy < 0:
		g.target.ScrollDown(-dy)
	}
	switch {
	case dx > 0:
		g.target.ScrollLeft(dx)
	case dx < 0:
		g.target.ScrollRight(-dx)
	}
}
