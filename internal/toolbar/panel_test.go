package toolbar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyaoi/mdpage/internal/cursor"
	"github.com/kyaoi/mdpage/internal/eventbus"
)

type fakeElement struct {
	name     string
	disabled bool
	toggled  bool
}

func (e *fakeElement) SetDisabled(d bool) { e.disabled = d }
func (e *fakeElement) SetToggled(t bool)  { e.toggled = t }

type fakeFrame struct {
	hidden bool
}

func (f *fakeFrame) SetHidden(h bool) { f.hidden = h }

type fakeBounded struct {
	writes []int
}

func (b *fakeBounded) SetMaxHeight(rows int) { b.writes = append(b.writes, rows) }

type fakeContainer struct {
	height int
}

func (c *fakeContainer) Height() int { return c.height }

type published struct {
	name    eventbus.Name
	source  any
	details eventbus.Details
}

type panelFixture struct {
	bus       *eventbus.Bus
	panel     *Panel
	frame     *fakeFrame
	bounded   *fakeBounded
	container *fakeContainer
	toggle    *fakeElement
	el        map[string]*fakeElement
	events    []published
}

var commandNames = []eventbus.Name{
	eventbus.PresentationMode, eventbus.OpenFile, eventbus.Print, eventbus.Download,
	eventbus.FirstPage, eventbus.LastPage, eventbus.RotateCW, eventbus.RotateCCW,
	eventbus.SwitchCursorTool, eventbus.DocumentProperties,
}

func newPanelFixture(t *testing.T) *panelFixture {
	t.Helper()
	f := &panelFixture{
		bus:       eventbus.New(),
		frame:     &fakeFrame{},
		bounded:   &fakeBounded{},
		container: &fakeContainer{height: 30},
		toggle:    &fakeElement{name: "toggle"},
		el:        map[string]*fakeElement{},
	}
	mk := func(name string) *fakeElement {
		e := &fakeElement{name: name}
		f.el[name] = e
		return e
	}
	f.panel = New(Options{
		Toolbar:                  f.frame,
		ToggleButton:             f.toggle,
		ButtonContainer:          f.bounded,
		PresentationModeButton:   mk("presentation"),
		OpenFileButton:           mk("open"),
		PrintButton:              mk("print"),
		DownloadButton:           mk("download"),
		ViewBookmarkButton:       mk("bookmark"),
		FirstPageButton:          mk("first"),
		LastPageButton:           mk("last"),
		PageRotateCwButton:       mk("cw"),
		PageRotateCcwButton:      mk("ccw"),
		CursorSelectToolButton:   mk("select"),
		CursorHandToolButton:     mk("hand"),
		DocumentPropertiesButton: mk("properties"),
	}, f.container, f.bus)

	for _, name := range commandNames {
		f.bus.On(name, func(e eventbus.Event) {
			f.events = append(f.events, published{name: e.Name, source: e.Source, details: e.Details})
		})
	}
	return f
}

func TestNew_StartsClosedAndReset(t *testing.T) {
	f := newPanelFixture(t)

	assert.False(t, f.panel.IsOpen())
	assert.True(t, f.frame.hidden)
	assert.False(t, f.toggle.toggled)
	assert.Equal(t, 0, f.panel.PageNumber())
	assert.Equal(t, 0, f.panel.PagesCount())
	assert.Empty(t, f.bounded.writes)
	assert.Len(t, f.panel.Bindings(), 12)
}

func TestOpenCloseToggle(t *testing.T) {
	f := newPanelFixture(t)

	f.panel.Open()
	assert.True(t, f.panel.IsOpen())
	assert.False(t, f.frame.hidden)
	assert.True(t, f.toggle.toggled)

	f.panel.Close()
	assert.False(t, f.panel.IsOpen())
	assert.True(t, f.frame.hidden)
	assert.False(t, f.toggle.toggled)

	f.panel.Toggle()
	assert.True(t, f.panel.IsOpen())
	f.panel.ActivateToggle()
	assert.False(t, f.panel.IsOpen())
}

func TestOpenTwice_SingleHeightWrite(t *testing.T) {
	f := newPanelFixture(t)

	f.panel.Open()
	f.panel.Open()

	assert.Equal(t, []int{30 - ScrollbarPadding}, f.bounded.writes)
}

func TestRecomputeMaxHeight_Memoized(t *testing.T) {
	f := newPanelFixture(t)

	f.panel.RecomputeMaxHeight()
	assert.Empty(t, f.bounded.writes, "closed panel is not measured")

	f.panel.Open()
	f.panel.RecomputeMaxHeight()
	f.panel.RecomputeMaxHeight()
	assert.Equal(t, []int{28}, f.bounded.writes)

	f.container.height = 20
	f.bus.Dispatch(eventbus.Resize, nil, nil)
	f.bus.Dispatch(eventbus.Resize, nil, nil)
	assert.Equal(t, []int{28, 18}, f.bounded.writes)
}

func TestClose_DoesNotMeasure(t *testing.T) {
	f := newPanelFixture(t)
	f.panel.Open()
	f.container.height = 10
	f.panel.Close()
	assert.Equal(t, []int{28}, f.bounded.writes)

	f.bus.Dispatch(eventbus.Resize, nil, nil)
	assert.Equal(t, []int{28}, f.bounded.writes)

	f.panel.Open()
	assert.Equal(t, []int{28, 8}, f.bounded.writes)
}

func TestScrollbarPaddingOverride(t *testing.T) {
	bus := eventbus.New()
	bounded := &fakeBounded{}
	e := func() *fakeElement { return &fakeElement{} }
	p := New(Options{
		Toolbar: &fakeFrame{}, ToggleButton: e(), ButtonContainer: bounded,
		PresentationModeButton: e(), OpenFileButton: e(), PrintButton: e(),
		DownloadButton: e(), ViewBookmarkButton: e(), FirstPageButton: e(),
		LastPageButton: e(), PageRotateCwButton: e(), PageRotateCcwButton: e(),
		CursorSelectToolButton: e(), CursorHandToolButton: e(), DocumentPropertiesButton: e(),
		ScrollbarPadding: 5,
	}, &fakeContainer{height: 12}, bus)

	p.Open()
	assert.Equal(t, []int{7}, bounded.writes)
}

func TestReset_DisablesNavigationAndRotation(t *testing.T) {
	f := newPanelFixture(t)
	f.panel.SetPagesCount(5)
	f.panel.SetPageNumber(3)

	f.panel.Reset()

	assert.Equal(t, 0, f.panel.PageNumber())
	assert.Equal(t, 0, f.panel.PagesCount())
	for _, name := range []string{"first", "last", "cw", "ccw"} {
		assert.True(t, f.el[name].disabled, name)
	}
}

func TestDerivedEnablement(t *testing.T) {
	f := newPanelFixture(t)

	f.panel.SetPagesCount(5)
	f.panel.SetPageNumber(1)
	assert.True(t, f.el["first"].disabled)
	assert.False(t, f.el["last"].disabled)
	assert.False(t, f.el["cw"].disabled)
	assert.False(t, f.el["ccw"].disabled)

	f.panel.SetPageNumber(3)
	assert.False(t, f.el["first"].disabled)
	assert.False(t, f.el["last"].disabled)

	f.panel.SetPageNumber(5)
	assert.False(t, f.el["first"].disabled)
	assert.True(t, f.el["last"].disabled)

	f.panel.SetPagesCount(0)
	assert.True(t, f.el["cw"].disabled)
	assert.True(t, f.el["ccw"].disabled)
	assert.True(t, f.el["last"].disabled)
}

func TestActivate_PrintPublishesThenCloses(t *testing.T) {
	f := newPanelFixture(t)
	f.panel.Open()

	var openWhilePublishing bool
	f.bus.On(eventbus.Print, func(eventbus.Event) { openWhilePublishing = f.panel.IsOpen() })

	require.True(t, f.panel.Activate(f.el["print"]))

	require.Len(t, f.events, 1)
	assert.Equal(t, eventbus.Print, f.events[0].name)
	assert.Same(t, f.panel, f.events[0].source)
	assert.Empty(t, f.events[0].details)
	assert.True(t, openWhilePublishing)
	assert.False(t, f.panel.IsOpen())
}

func TestActivate_WhileClosedStillPublishes(t *testing.T) {
	f := newPanelFixture(t)

	f.panel.Activate(f.el["print"])

	assert.Len(t, f.events, 1)
	assert.False(t, f.panel.IsOpen())
	assert.True(t, f.frame.hidden)
}

func TestActivate_RotateKeepsPanelOpen(t *testing.T) {
	f := newPanelFixture(t)
	f.panel.Open()

	f.panel.Activate(f.el["cw"])
	f.panel.Activate(f.el["ccw"])

	assert.True(t, f.panel.IsOpen())
	require.Len(t, f.events, 2)
	assert.Equal(t, eventbus.RotateCW, f.events[0].name)
	assert.Equal(t, eventbus.RotateCCW, f.events[1].name)
}

func TestActivate_BookmarkOnlyCloses(t *testing.T) {
	f := newPanelFixture(t)
	f.panel.Open()

	f.panel.Activate(f.el["bookmark"])

	assert.Empty(t, f.events)
	assert.False(t, f.panel.IsOpen())
}

func TestActivate_CursorToolsCarryStaticPayload(t *testing.T) {
	f := newPanelFixture(t)

	f.panel.Activate(f.el["hand"])
	f.panel.Activate(f.el["select"])

	require.Len(t, f.events, 2)
	assert.Equal(t, eventbus.Details{"tool": cursor.Hand}, f.events[0].details)
	assert.Equal(t, eventbus.Details{"tool": cursor.Select}, f.events[1].details)

	// The binding's own payload is not shared with subscribers.
	f.events[0].details["tool"] = cursor.Zoom
	assert.Equal(t, cursor.Hand, f.panel.Bindings()[10].Details["tool"])
}

func TestActivate_UnknownElement(t *testing.T) {
	f := newPanelFixture(t)
	assert.False(t, f.panel.Activate(&fakeElement{}))
	assert.Empty(t, f.events)
}

func TestCursorToolChanged_ReflectsPressedState(t *testing.T) {
	f := newPanelFixture(t)

	f.bus.Dispatch(eventbus.CursorToolChanged, nil, eventbus.Details{"tool": cursor.Hand})
	assert.True(t, f.el["hand"].toggled)
	assert.False(t, f.el["select"].toggled)

	f.bus.Dispatch(eventbus.CursorToolChanged, nil, eventbus.Details{"tool": cursor.Select})
	assert.False(t, f.el["hand"].toggled)
	assert.True(t, f.el["select"].toggled)

	f.bus.Dispatch(eventbus.CursorToolChanged, nil, eventbus.Details{"tool": cursor.Zoom})
	assert.False(t, f.el["hand"].toggled)
	assert.False(t, f.el["select"].toggled)
}

func TestPanelDrivesController(t *testing.T) {
	f := newPanelFixture(t)
	ctrl := cursor.New(cursor.Options{Bus: f.bus})

	f.panel.Open()
	f.panel.Activate(f.el["hand"])

	assert.Equal(t, cursor.Hand, ctrl.Active())
	assert.True(t, f.el["hand"].toggled)
	assert.False(t, f.panel.IsOpen())
}
