package ui

import (
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/kyaoi/mdpage/internal/grab"
)

// viewportScroller lets the hand tool pan the content viewport.
type viewportScroller struct {
	vp *viewport.Model
}

var _ grab.Scroller = viewportScroller{}

func (s viewportScroller) ScrollUp(n int)    { s.vp.ScrollUp(n) }
func (s viewportScroller) ScrollDown(n int)  { s.vp.ScrollDown(n) }
func (s viewportScroller) ScrollLeft(n int)  { s.vp.ScrollLeft(n) }
func (s viewportScroller) ScrollRight(n int) { s.vp.ScrollRight(n) }
