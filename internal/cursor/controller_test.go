package cursor

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyaoi/mdpage/internal/eventbus"
	"github.com/kyaoi/mdpage/internal/prefs"
)

// fakeHandler records activation calls in a shared log.
type fakeHandler struct {
	name  string
	log   *[]string
	armed bool
}

func (h *fakeHandler) Activate() {
	h.armed = true
	*h.log = append(*h.log, h.name+".activate")
}

func (h *fakeHandler) Deactivate() {
	h.armed = false
	*h.log = append(*h.log, h.name+".deactivate")
}

type fixture struct {
	bus     *eventbus.Bus
	ctrl    *Controller
	hand    *fakeHandler
	calls   []string
	changes []Mode
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{bus: eventbus.New()}
	f.hand = &fakeHandler{name: "hand", log: &f.calls}
	f.ctrl = New(Options{Bus: f.bus, HandTool: f.hand})
	f.bus.On(eventbus.CursorToolChanged, func(e eventbus.Event) {
		tool, _ := e.Value("tool")
		f.changes = append(f.changes, tool.(Mode))
		assert.Same(t, f.ctrl, e.Source)
	})
	return f
}

func (f *fixture) presentation(active, inProgress bool) {
	f.bus.Dispatch(eventbus.PresentationModeChanged, "presentation", eventbus.Details{
		"active":           active,
		"switchInProgress": inProgress,
	})
}

func TestNew_StartsInSelect(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, Select, f.ctrl.Active())
	_, saved := f.ctrl.Saved()
	assert.False(t, saved)
	assert.Empty(t, f.changes)
}

func TestSwitchMode_OneNotificationPerAcceptedTransition(t *testing.T) {
	f := newFixture(t)

	f.ctrl.SwitchMode(Hand)
	f.ctrl.SwitchMode(Hand)
	f.ctrl.SwitchMode(Select)
	f.ctrl.SwitchMode(Hand)

	assert.Equal(t, Hand, f.ctrl.Active())
	assert.Equal(t, []Mode{Hand, Select, Hand}, f.changes)
	assert.True(t, f.hand.armed)
}

func TestSwitchMode_SameModeIsSilent(t *testing.T) {
	f := newFixture(t)
	f.ctrl.SwitchMode(Select)
	assert.Empty(t, f.changes)
	assert.Empty(t, f.calls)
}

func TestSwitchMode_DeactivatesBeforeActivating(t *testing.T) {
	f := newFixture(t)
	f.ctrl.SwitchMode(Hand)
	f.ctrl.SwitchMode(Select)
	assert.Equal(t, []string{"hand.activate", "hand.deactivate"}, f.calls)
}

func TestSwitchMode_UnsupportedValues(t *testing.T) {
	for _, m := range []Mode{Zoom, Mode(-1), Mode(42)} {
		t.Run(m.String(), func(t *testing.T) {
			f := newFixture(t)
			f.ctrl.SwitchMode(Hand)
			f.changes = nil
			f.calls = nil

			f.ctrl.SwitchMode(m)

			assert.Equal(t, Hand, f.ctrl.Active())
			assert.Empty(t, f.changes)
			assert.Empty(t, f.calls, "no handler may be touched")
			assert.True(t, f.hand.armed)
		})
	}
}

func TestSwitchCursorToolEvent(t *testing.T) {
	f := newFixture(t)

	f.bus.Dispatch(eventbus.SwitchCursorTool, nil, eventbus.Details{"tool": Hand})
	assert.Equal(t, Hand, f.ctrl.Active())

	f.bus.Dispatch(eventbus.SwitchCursorTool, nil, eventbus.Details{"tool": 0})
	assert.Equal(t, Select, f.ctrl.Active())

	f.bus.Dispatch(eventbus.SwitchCursorTool, nil, eventbus.Details{"tool": "hand"})
	f.bus.Dispatch(eventbus.SwitchCursorTool, nil, nil)
	assert.Equal(t, Select, f.ctrl.Active())
	assert.Equal(t, []Mode{Hand, Select}, f.changes)
}

func TestPresentationMode_SavesAndRestores(t *testing.T) {
	f := newFixture(t)
	f.ctrl.SwitchMode(Hand)

	f.presentation(true, false)

	assert.Equal(t, Select, f.ctrl.Active())
	saved, ok := f.ctrl.Saved()
	require.True(t, ok)
	assert.Equal(t, Hand, saved)
	assert.False(t, f.hand.armed)

	f.presentation(false, false)

	assert.Equal(t, Hand, f.ctrl.Active())
	_, ok = f.ctrl.Saved()
	assert.False(t, ok)
	assert.True(t, f.hand.armed)
	assert.Equal(t, []Mode{Hand, Select, Hand}, f.changes)
}

func TestPresentationMode_BlocksSwitching(t *testing.T) {
	f := newFixture(t)
	f.presentation(true, false)

	f.ctrl.SwitchMode(Hand)
	f.bus.Dispatch(eventbus.SwitchCursorTool, nil, eventbus.Details{"tool": Hand})

	assert.Equal(t, Select, f.ctrl.Active())
	assert.Empty(t, f.changes)
}

func TestPresentationMode_SwitchInProgressIgnored(t *testing.T) {
	f := newFixture(t)
	f.ctrl.SwitchMode(Hand)
	f.changes = nil

	f.presentation(true, true)
	assert.Equal(t, Hand, f.ctrl.Active())
	_, ok := f.ctrl.Saved()
	assert.False(t, ok)

	f.presentation(true, false)
	f.presentation(false, true)
	assert.Equal(t, Select, f.ctrl.Active())
	_, ok = f.ctrl.Saved()
	assert.True(t, ok)
}

func TestPresentationMode_NoNesting(t *testing.T) {
	f := newFixture(t)
	f.ctrl.SwitchMode(Hand)

	f.presentation(true, false)
	f.presentation(true, false)
	saved, _ := f.ctrl.Saved()
	assert.Equal(t, Hand, saved)

	f.presentation(false, false)
	f.presentation(false, false)
	assert.Equal(t, Hand, f.ctrl.Active())
}

func TestPresentationMode_FromSelectKeepsSelect(t *testing.T) {
	f := newFixture(t)
	f.presentation(true, false)
	f.presentation(false, false)
	assert.Equal(t, Select, f.ctrl.Active())
	assert.Empty(t, f.changes)
}

func TestResolveStartupMode(t *testing.T) {
	tests := []struct {
		name     string
		stored   map[string]any
		want     Mode
		wantSets []prefs.Entry
	}{
		{
			name: "defaults",
			want: Select,
		},
		{
			name:   "current preference only",
			stored: map[string]any{prefs.KeyCursorToolOnLoad: int(Hand)},
			want:   Hand,
		},
		{
			name:   "legacy flag migrates default",
			stored: map[string]any{prefs.KeyEnableHandToolOnLoad: true},
			want:   Hand,
			wantSets: []prefs.Entry{
				{Key: prefs.KeyEnableHandToolOnLoad, Value: false},
				{Key: prefs.KeyCursorToolOnLoad, Value: int(Hand)},
			},
		},
		{
			name: "legacy flag keeps explicit preference",
			stored: map[string]any{
				prefs.KeyEnableHandToolOnLoad: true,
				prefs.KeyCursorToolOnLoad:     int(Zoom),
			},
			want: Zoom,
			wantSets: []prefs.Entry{
				{Key: prefs.KeyEnableHandToolOnLoad, Value: false},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := prefs.NewMemory(tt.stored)
			got, err := ResolveStartupMode(context.Background(), store, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantSets, store.Sets)
		})
	}
}

func TestResolveStartupMode_LogsFailedMigration(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	store := prefs.NewMemory(map[string]any{prefs.KeyEnableHandToolOnLoad: true})
	store.SetErr = errors.New("readonly database")

	got, err := ResolveStartupMode(context.Background(), store, logger)
	require.NoError(t, err)
	assert.Equal(t, Hand, got)
	assert.Empty(t, store.Sets)
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("preference migration write failed")))
	assert.Contains(t, buf.String(), "readonly database")
}

func TestRestore(t *testing.T) {
	f := newFixture(t)

	f.ctrl.Restore(Hand, errors.New("database is locked"))
	assert.Equal(t, Select, f.ctrl.Active())
	assert.Empty(t, f.changes)

	store := prefs.NewMemory(nil)
	store.GetErr = errors.New("closed")
	f.ctrl.Restore(ResolveStartupMode(context.Background(), store, nil))
	assert.Equal(t, Select, f.ctrl.Active())

	f.ctrl.Restore(Hand, nil)
	assert.Equal(t, Hand, f.ctrl.Active())
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Hand")
	require.NoError(t, err)
	assert.Equal(t, Hand, m)

	m, err = ParseMode("0")
	require.NoError(t, err)
	assert.Equal(t, Select, m)

	_, err = ParseMode("lasso")
	assert.True(t, errors.Is(err, ErrUnsupportedMode))
}
