// Package toolbar implements the secondary toolbar: a collapsible panel of
// viewer commands that also reflects the active cursor tool.
package toolbar

import (
	"maps"

	"github.com/kyaoi/mdpage/internal/cursor"
	"github.com/kyaoi/mdpage/internal/eventbus"
)

// ScrollbarPadding is the number of rows kept free below the panel.
const ScrollbarPadding = 2

// Element is a control whose visual state the panel drives.
type Element interface {
	SetDisabled(disabled bool)
	SetToggled(toggled bool)
}

// Frame is the panel's outer box.
type Frame interface {
	SetHidden(hidden bool)
}

// Bounded is the scrollable area holding the buttons.
type Bounded interface {
	SetMaxHeight(rows int)
}

// Container is the viewer area the panel is laid out in.
type Container interface {
	Height() int
}

// Options lists the controls managed by the panel.
type Options struct {
	Toolbar                  Frame
	ToggleButton             Element
	ButtonContainer          Bounded
	PresentationModeButton   Element
	OpenFileButton           Element
	PrintButton              Element
	DownloadButton           Element
	ViewBookmarkButton       Element
	FirstPageButton          Element
	LastPageButton           Element
	PageRotateCwButton       Element
	PageRotateCcwButton      Element
	CursorSelectToolButton   Element
	CursorHandToolButton     Element
	DocumentPropertiesButton Element

	// ScrollbarPadding overrides the default padding when positive.
	ScrollbarPadding int
}

// Binding ties a control to the command it publishes when activated.
type Binding struct {
	Element Element
	// Command is published on activation; empty means no command.
	Command eventbus.Name
	// Details are static payload fields sent with Command.
	Details eventbus.Details
	// Close closes the panel after activation.
	Close bool
}

// Panel is the secondary toolbar state machine.
type Panel struct {
	toolbar         Frame
	toggleButton    Element
	buttonContainer Bounded
	mainContainer   Container
	bus             *eventbus.Bus
	padding         int

	bindings   []Binding
	firstPage  Element
	lastPage   Element
	rotateCw   Element
	rotateCcw  Element
	selectTool Element
	handTool   Element

	open                    bool
	previousContainerHeight int
	measured                bool

	pageNumber int
	pagesCount int
}

// New builds a closed panel with an empty page context and subscribes it to
// cursor tool changes and resizes.
func New(opts Options, mainContainer Container, bus *eventbus.Bus) *Panel {
	padding := opts.ScrollbarPadding
	if padding <= 0 {
		padding = ScrollbarPadding
	}
	p := &Panel{
		toolbar:         opts.Toolbar,
		toggleButton:    opts.ToggleButton,
		buttonContainer: opts.ButtonContainer,
		mainContainer:   mainContainer,
		bus:             bus,
		padding:         padding,
		firstPage:       opts.FirstPageButton,
		lastPage:        opts.LastPageButton,
		rotateCw:        opts.PageRotateCwButton,
		rotateCcw:       opts.PageRotateCcwButton,
		selectTool:      opts.CursorSelectToolButton,
		handTool:        opts.CursorHandToolButton,
	}
	p.bindings = []Binding{
		{Element: opts.PresentationModeButton, Command: eventbus.PresentationMode, Close: true},
		{Element: opts.OpenFileButton, Command: eventbus.OpenFile, Close: true},
		{Element: opts.PrintButton, Command: eventbus.Print, Close: true},
		{Element: opts.DownloadButton, Command: eventbus.Download, Close: true},
		{Element: opts.ViewBookmarkButton, Close: true},
		{Element: opts.FirstPageButton, Command: eventbus.FirstPage, Close: true},
		{Element: opts.LastPageButton, Command: eventbus.LastPage, Close: true},
		{Element: opts.PageRotateCwButton, Command: eventbus.RotateCW},
		{Element: opts.PageRotateCcwButton, Command: eventbus.RotateCCW},
		{
			Element: opts.CursorSelectToolButton,
			Command: eventbus.SwitchCursorTool,
			Details: eventbus.Details{"tool": cursor.Select},
			Close:   true,
		},
		{
			Element: opts.CursorHandToolButton,
			Command: eventbus.SwitchCursorTool,
			Details: eventbus.Details{"tool": cursor.Hand},
			Close:   true,
		},
		{Element: opts.DocumentPropertiesButton, Command: eventbus.DocumentProperties, Close: true},
	}

	p.toolbar.SetHidden(true)
	p.toggleButton.SetToggled(false)
	p.Reset()

	bus.On(eventbus.CursorToolChanged, p.onCursorToolChanged)
	bus.On(eventbus.Resize, func(eventbus.Event) { p.RecomputeMaxHeight() })
	return p
}

// IsOpen reports whether the panel is visible.
func (p *Panel) IsOpen() bool {
	return p.open
}

// PageNumber returns the current page number.
func (p *Panel) PageNumber() int {
	return p.pageNumber
}

// PagesCount returns the number of pages.
func (p *Panel) PagesCount() int {
	return p.pagesCount
}

// Bindings returns a copy of the control bindings in display order.
func (p *Panel) Bindings() []Binding {
	out := make([]Binding, len(p.bindings))
	copy(out, p.bindings)
	return out
}

// SetPageNumber records the current page and refreshes derived enablement.
func (p *Panel) SetPageNumber(n int) {
	p.pageNumber = n
	p.updateUIState()
}

// SetPagesCount records the page total and refreshes derived enablement.
func (p *Panel) SetPagesCount(n int) {
	p.pagesCount = n
	p.updateUIState()
}

// Reset clears the page context.
func (p *Panel) Reset() {
	p.pageNumber = 0
	p.pagesCount = 0
	p.updateUIState()
}

func (p *Panel) updateUIState() {
	p.firstPage.SetDisabled(p.pageNumber <= 1)
	p.lastPage.SetDisabled(p.pageNumber >= p.pagesCount)
	p.rotateCw.SetDisabled(p.pagesCount == 0)
	p.rotateCcw.SetDisabled(p.pagesCount == 0)
}

// Activate runs the binding attached to e. It reports false when e is not a
// panel control.
func (p *Panel) Activate(e Element) bool {
	for i := range p.bindings {
		if p.bindings[i].Element == e {
			p.activate(p.bindings[i])
			return true
		}
	}
	return false
}

// ActivateToggle handles a click on the toggle button.
func (p *Panel) ActivateToggle() {
	p.Toggle()
}

func (p *Panel) activate(b Binding) {
	if b.Command != "" {
		details := eventbus.Details{}
		maps.Copy(details, b.Details)
		p.bus.Dispatch(b.Command, p, details)
	}
	if b.Close {
		p.Close()
	}
}

func (p *Panel) onCursorToolChanged(evt eventbus.Event) {
	p.selectTool.SetToggled(false)
	p.handTool.SetToggled(false)

	tool, _ := evt.Value("tool")
	switch tool {
	case cursor.Select:
		p.selectTool.SetToggled(true)
	case cursor.Hand:
		p.handTool.SetToggled(true)
	}
}

// Open shows the panel.
func (p *Panel) Open() {
	if p.open {
		return
	}
	p.open = true
	p.RecomputeMaxHeight()

	p.toggleButton.SetToggled(true)
	p.toolbar.SetHidden(false)
}

// Close hides the panel.
func (p *Panel) Close() {
	if !p.open {
		return
	}
	p.open = false
	p.toolbar.SetHidden(true)
	p.toggleButton.SetToggled(false)
}

// Toggle flips the panel visibility.
func (p *Panel) Toggle() {
	if p.open {
		p.Close()
	} else {
		p.Open()
	}
}

// RecomputeMaxHeight bounds the button area to the container height. Only
// done while open, and only when the container height changed.
func (p *Panel) RecomputeMaxHeight() {
	if !p.open {
		return
	}
	height := p.mainContainer.Height()
	if p.measured && height == p.previousContainerHeight {
		return
	}
	p.buttonContainer.SetMaxHeight(height - p.padding)

	p.previousContainerHeight = height
	p.measured = true
}
