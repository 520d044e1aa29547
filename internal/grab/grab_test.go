package grab

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

type fakeScroller struct {
	x, y int
}

func (s *fakeScroller) ScrollUp(n int)    { s.y -= n }
func (s *fakeScroller) ScrollDown(n int)  { s.y += n }
func (s *fakeScroller) ScrollLeft(n int)  { s.x -= n }
func (s *fakeScroller) ScrollRight(n int) { s.x += n }

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}
}

func TestInactiveIgnoresMouse(t *testing.T) {
	s := &fakeScroller{}
	g := New(s)

	assert.False(t, g.HandleMouse(press(1, 1)))
	assert.False(t, g.HandleMouse(motion(1, 5)))
	assert.Equal(t, 0, s.y)
}

func TestDragPansAgainstPointer(t *testing.T) {
	s := &fakeScroller{x: 10, y: 10}
	g := New(s)
	g.Activate()

	assert.True(t, g.HandleMouse(press(5, 5)))
	assert.True(t, g.HandleMouse(motion(5, 8)))
	assert.Equal(t, 7, s.y, "dragging down reveals earlier lines")

	assert.True(t, g.HandleMouse(motion(2, 4)))
	assert.Equal(t, 11, s.y)
	assert.Equal(t, 13, s.x)

	assert.True(t, g.HandleMouse(release(2, 4)))
	assert.False(t, g.Dragging())
	assert.False(t, g.HandleMouse(motion(0, 0)))
}

func TestActivateIsIdempotent(t *testing.T) {
	g := New(&fakeScroller{})
	g.Activate()
	g.Activate()
	assert.True(t, g.Active())
	g.Deactivate()
	g.Deactivate()
	assert.False(t, g.Active())
}

func TestDeactivateDropsDrag(t *testing.T) {
	s := &fakeScroller{}
	g := New(s)
	g.Activate()
	g.HandleMouse(press(0, 0))
	g.Deactivate()
	g.Activate()

	assert.False(t, g.HandleMouse(motion(0, 3)))
	assert.Equal(t, 0, s.y)
}

func TestRightButtonIgnored(t *testing.T) {
	g := New(&fakeScroller{})
	g.Activate()
	msg := press(0, 0)
	msg.Button = tea.MouseButtonRight
	assert.False(t, g.HandleMouse(msg))
}
