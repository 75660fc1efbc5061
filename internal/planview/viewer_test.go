package planview

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modulmate/internal/editor/models"
	"modulmate/internal/editor/store"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func cellAt(screen tcell.SimulationScreen, x, y int) rune {
	cells, w, _ := screen.GetContents()
	c := cells[y*w+x]
	if len(c.Runes) == 0 {
		return ' '
	}
	return c.Runes[0]
}

func rowText(screen tcell.SimulationScreen, y int) string {
	cells, w, _ := screen.GetContents()
	var b strings.Builder
	for x := 0; x < w; x++ {
		if r := cells[y*w+x].Runes; len(r) > 0 {
			b.WriteRune(r[0])
		} else {
			b.WriteRune(' ')
		}
	}
	return b.String()
}

func TestViewer_DrawPlan(t *testing.T) {
	screen := newScreen(t, 40, 21)
	st := store.New()
	st.AddModule(models.KindLiving, 0, 0, models.Size{W: 3, D: 6, H: 2.8})

	v := New(screen, st)
	v.Draw()

	assert.Equal(t, '.', cellAt(screen, 20, 10), "module floor is drawn at the centre")
	assert.Equal(t, ' ', cellAt(screen, 0, 0))
	status := rowText(screen, 20)
	assert.Contains(t, status, "top")
	assert.Contains(t, status, "modules 1")
}

func TestViewer_StatusShowsSelectionAndNight(t *testing.T) {
	screen := newScreen(t, 120, 8)
	st := store.New()
	id := st.AddModule(models.KindLiving, 0, 0, models.Size{W: 3, D: 6, H: 2.8})
	upper, ok := st.SpawnLevelOnTop(id)
	require.True(t, ok)
	st.Select(&models.Selection{Type: models.SelectModule, ID: upper})

	v := New(screen, st)
	v.Draw()
	status := rowText(screen, 7)
	assert.Contains(t, status, "top day")
	assert.Contains(t, status, "floor +2.80m")

	st.ToggleDarkMode()
	v.Draw()
	status = rowText(screen, 7)
	assert.Contains(t, status, "top night")
	assert.Contains(t, status, "floor +2.80m", "toggling the theme keeps the selection")
}

func TestViewer_Keys(t *testing.T) {
	screen := newScreen(t, 60, 10)
	st := store.New()
	st.AddModule(models.KindLiving, 0, 0, models.Size{W: 3, D: 6, H: 2.8})
	v := New(screen, st)

	assert.True(t, v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'v', tcell.ModNone)))
	assert.Equal(t, models.ExportNorth, v.Step())

	for range views {
		v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'v', tcell.ModNone))
	}
	assert.Equal(t, models.ExportNorth, v.Step(), "view cycle wraps around")

	v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, '+', tcell.ModNone))
	assert.InDelta(t, defaultScale*1.25, v.scale, 1e-9)
	v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, '0', tcell.ModNone))
	assert.Equal(t, defaultScale, v.scale)

	v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'u', tcell.ModNone))
	assert.Empty(t, st.State().Modules)
	v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'U', tcell.ModNone))
	assert.Len(t, st.State().Modules, 1)

	assert.False(t, v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.False(t, v.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
}

func TestViewer_RunStopsOnQuit(t *testing.T) {
	screen := newScreen(t, 40, 12)
	v := New(screen, store.New())

	done := make(chan error, 1)
	go func() { done <- v.Run(context.Background()) }()

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("viewer did not stop")
	}
}

func TestFollow(t *testing.T) {
	var mu sync.Mutex
	body := `{"modules":[],"props":[]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/project", r.URL.Path)
		mu.Lock()
		defer mu.Unlock()
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	st := store.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Follow(ctx, srv.Client(), srv.URL, st, 5*time.Millisecond)

	mu.Lock()
	body = `{"modules":[{"id":"m1","kind":"living","level":0,"size":{"w":3,"d":6,"h":2.8},"grid":{"x":0,"z":0,"rot":0},"walls":{},"roof":{"type":"none","angle":0},"floor":"wood"}],"props":[]}`
	mu.Unlock()

	require.Eventually(t, func() bool { return len(st.State().Modules) == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, "m1", st.State().Modules[0].ID)
}
